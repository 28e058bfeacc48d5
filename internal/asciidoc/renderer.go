package asciidoc

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/beandoc/internal/discovery"
	"git.home.luguber.info/inful/beandoc/internal/typename"
)

// Extension is the file extension of rendered documents.
const Extension = ".adoc"

// Renderer produces AsciiDoc detail and summary documents.
type Renderer struct {
	Types typename.Resolver
	List  ListGenerator
}

// NewRenderer returns a renderer with the default link resolver and list.
func NewRenderer() *Renderer {
	return &Renderer{
		Types: typename.DefaultResolver(),
		List:  DefaultListGenerator(),
	}
}

// Extension implements the emitter's renderer contract.
func (r *Renderer) Extension() string { return Extension }

// Detail renders the document for one bean. It returns "" when the bean has
// neither attributes nor operations.
func (r *Renderer) Detail(bean discovery.Bean) (string, error) {
	attrs, ops := bean.Info.Attributes, bean.Info.Operations
	if len(attrs) == 0 && len(ops) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.Grow(2048)
	b.WriteString("[[" + bean.ID + "]]\n")

	if len(attrs) > 0 {
		fmt.Fprintf(&b, ".MBean %s (%s) Attributes\n", bean.Name, bean.ClassName)
		for _, nonHTML := range []bool{false, true} {
			if err := WriteAttributesTable(&b, bean.Description, attrs, r.Types, nonHTML); err != nil {
				return "", fmt.Errorf("attributes of %s: %w", bean.Name, err)
			}
		}
		b.WriteString("\n")
	}

	if len(ops) > 0 {
		fmt.Fprintf(&b, ".MBean %s (%s) Operations\n", bean.Name, bean.ClassName)
		for _, nonHTML := range []bool{false, true} {
			if err := WriteOperationsTable(&b, ops, r.Types, nonHTML); err != nil {
				return "", fmt.Errorf("operations of %s: %w", bean.Name, err)
			}
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// Summary renders the list of all documented entries.
func (r *Renderer) Summary(entries []discovery.Entry) (string, error) {
	return r.List.Generate(entries), nil
}

// SummaryName returns the base file name of the summary document.
func (r *Renderer) SummaryName() string { return r.List.ID }
