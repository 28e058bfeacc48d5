// Package asciidoc renders discovered beans as AsciiDoc.
//
// Every table is emitted twice: once for HTML output and once for other
// backends (PDF, man pages). The two copies are fenced with
//
//	ifndef::nonhtmloutput[] ... endif::nonhtmloutput[]
//	ifdef::nonhtmloutput[]  ... endif::nonhtmloutput[]
//
// so the documentation build selects one by setting the nonhtmloutput
// attribute. The non-HTML copy never contains links and breaks long
// attribute names with hair spaces.
package asciidoc
