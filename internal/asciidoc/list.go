package asciidoc

import (
	"strings"

	"git.home.luguber.info/inful/beandoc/internal/discovery"
)

// ListGenerator renders the summary of all entries: a table for HTML output
// and a bullet list for other backends, where wide tables do not fit.
type ListGenerator struct {
	ID    string
	Title string
}

// DefaultListGenerator returns the generator for the bean overview page.
func DefaultListGenerator() ListGenerator {
	return ListGenerator{ID: "jmx-list", Title: "MBeans exposed by Neo4j"}
}

// Generate renders entries in the given order.
func (g ListGenerator) Generate(entries []discovery.Entry) string {
	var b strings.Builder
	b.WriteString("[[" + g.ID + "]]\n")
	b.WriteString("." + g.Title + "\n")

	b.WriteString(ifndefHTML)
	b.WriteString(`[options="header", cols="30,70"]` + "\n")
	b.WriteString(tableDelim)
	b.WriteString("|Name|Description\n")
	for _, e := range entries {
		b.WriteString("|" + xref(e) + "|" + Cell(e.Description) + "\n")
	}
	b.WriteString(tableDelim)
	b.WriteString(endifNonHTML)

	b.WriteString(ifdefNonHTML)
	for _, e := range entries {
		b.WriteString("* " + xref(e) + ": " + strings.ReplaceAll(e.Description, "\n", " ") + "\n")
	}
	b.WriteString(endifNonHTML)
	return b.String()
}

func xref(e discovery.Entry) string {
	return "<<" + e.ID + "," + e.Name + ">>"
}
