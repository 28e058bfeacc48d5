package markdown

import (
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/beandoc/internal/discovery"
	"git.home.luguber.info/inful/beandoc/internal/foundation/normalization"
	"git.home.luguber.info/inful/beandoc/internal/mgmt"
	"git.home.luguber.info/inful/beandoc/internal/typename"
)

// Extension is the file extension of rendered documents.
const Extension = ".md"

var cellEscaper = strings.NewReplacer("\n", " ", "|", `\|`, "<", `\<`)

// Renderer produces Markdown detail and summary documents. Markdown has no
// conditional blocks, so only the linked (HTML) variant is rendered.
type Renderer struct {
	Types typename.Resolver
	// SummaryID and SummaryTitle name the overview document.
	SummaryID    string
	SummaryTitle string
}

// NewRenderer returns a renderer with Markdown links to the API docs.
func NewRenderer() *Renderer {
	types := typename.DefaultResolver()
	types.Style = typename.StyleMarkdown
	return &Renderer{
		Types:        types,
		SummaryID:    "jmx-list",
		SummaryTitle: "MBeans exposed by Neo4j",
	}
}

// Extension implements the emitter's renderer contract.
func (r *Renderer) Extension() string { return Extension }

// SummaryName returns the base file name of the summary document.
func (r *Renderer) SummaryName() string { return r.SummaryID }

// Detail renders one bean, or "" when it has nothing to document.
func (r *Renderer) Detail(bean discovery.Bean) (string, error) {
	attrs, ops := bean.Info.Attributes, bean.Info.Operations
	if len(attrs) == 0 && len(ops) == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<a id=\"%s\"></a>\n\n", bean.ID)
	fmt.Fprintf(&b, "## MBean %s (%s)\n\n", bean.Name, bean.ClassName)
	if bean.Description != "" {
		b.WriteString(bean.Description + "\n\n")
	}

	if len(attrs) > 0 {
		b.WriteString("### Attributes\n\n")
		rows := make([][]string, 0, len(attrs))
		for _, a := range attrs {
			t, err := r.Types.Display(a.Type, a.Descriptor, false)
			if err != nil {
				return "", fmt.Errorf("attributes of %s: %w", bean.Name, err)
			}
			rows = append(rows, []string{cell(a.Name), cell(a.Description), escapeType(t), yesNo(a.Readable), yesNo(a.Writable)})
		}
		writeTable(&b, []string{"Name", "Description", "Type", "Read", "Write"}, rows)
	}

	if len(ops) > 0 {
		b.WriteString("### Operations\n\n")
		rows := make([][]string, 0, len(ops))
		for _, op := range ops {
			t, err := r.Types.Display(op.ReturnType, op.Descriptor, false)
			if err != nil {
				return "", fmt.Errorf("operations of %s: %w", bean.Name, err)
			}
			rows = append(rows, []string{cell(op.Name), cell(op.Description), escapeType(t), cell(signature(op))})
		}
		writeTable(&b, []string{"Name", "Description", "ReturnType", "Signature"}, rows)
	}
	return b.String(), nil
}

// Summary renders the overview table linking every detail document.
func (r *Renderer) Summary(entries []discovery.Entry) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<a id=\"%s\"></a>\n\n", r.SummaryID)
	fmt.Fprintf(&b, "## %s\n\n", r.SummaryTitle)
	b.WriteString("| Name | Description |\n| --- | --- |\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| [%s](%s%s) | %s |\n", cell(e.Name), e.ID, Extension, cell(e.Description))
	}
	b.WriteString("\n")
	return b.String(), nil
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	slices.SortStableFunc(rows, func(x, y []string) int {
		return normalization.CompareFold(x[0], y[0])
	})
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func signature(op mgmt.OperationInfo) string {
	if len(op.Signature) == 0 {
		return "(no parameters)"
	}
	types := make([]string, len(op.Signature))
	for i, p := range op.Signature {
		types[i] = p.Type
	}
	return strings.Join(types, ",")
}

func cell(s string) string { return cellEscaper.Replace(s) }

// escapeType escapes generic brackets, leaving link syntax intact.
func escapeType(t string) string {
	return strings.NewReplacer("<", `\<`, ">", `\>`, "|", `\|`).Replace(t)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
