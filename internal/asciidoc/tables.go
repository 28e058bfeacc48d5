package asciidoc

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/beandoc/internal/foundation/normalization"
	"git.home.luguber.info/inful/beandoc/internal/mgmt"
	"git.home.luguber.info/inful/beandoc/internal/typename"
)

const (
	ifndefHTML    = "ifndef::nonhtmloutput[]\n"
	ifdefNonHTML  = "ifdef::nonhtmloutput[]\n"
	endifNonHTML  = "endif::nonhtmloutput[]\n"
	tableDelim    = "|===\n"
	noParameters  = "(no parameters)"
	hairSpace     = "\u200A"
	attributeCols = `[options="header", cols="20m,36,20m,7,7"]` + "\n"
	operationCols = `[options="header", cols="23m,37,20m,20m"]` + "\n"
)

var breakableReplacer = strings.NewReplacer(
	"_", "_"+hairSpace,
	"NumberOf", "NumberOf"+hairSpace,
	"InUse", hairSpace+"InUse",
	"Transactions", hairSpace+"Transactions",
)

// MakeBreakable inserts hair spaces into attribute names at points where a
// non-HTML renderer may wrap the line. HTML output is returned unchanged.
func MakeBreakable(name string, nonHTML bool) string {
	if !nonHTML {
		return name
	}
	return breakableReplacer.Replace(name)
}

// Cell flattens text for use in a table cell.
func Cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func openVariant(b *strings.Builder, nonHTML bool) {
	if nonHTML {
		b.WriteString(ifdefNonHTML)
		return
	}
	b.WriteString(ifndefHTML)
}

type row struct {
	name string
	text string
}

// writeRows writes rows ordered case-insensitively by name, dropping rows
// that are identical ignoring case.
func writeRows(b *strings.Builder, rows []row) {
	slices.SortStableFunc(rows, func(a, c row) int {
		if n := normalization.CompareFold(a.name, c.name); n != 0 {
			return n
		}
		return normalization.CompareFold(a.text, c.text)
	})
	var prev string
	for i, r := range rows {
		key := normalization.FoldKey(r.text)
		if i > 0 && key == prev {
			continue
		}
		prev = key
		b.WriteString(r.text)
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// WriteAttributesTable renders one variant of the attributes table.
func WriteAttributesTable(b *strings.Builder, description string, attrs []mgmt.AttributeInfo, r typename.Resolver, nonHTML bool) error {
	openVariant(b, nonHTML)
	b.WriteString(attributeCols)
	b.WriteString(tableDelim)
	b.WriteString("|Name|Description|Type|Read|Write\n")
	b.WriteString("5.1+^e|" + Cell(description) + "\n")

	rows := make([]row, 0, len(attrs))
	for _, a := range attrs {
		t, err := r.Display(a.Type, a.Descriptor, nonHTML)
		if err != nil {
			return err
		}
		var sb strings.Builder
		sb.WriteString("|" + MakeBreakable(a.Name, nonHTML))
		sb.WriteString("|" + Cell(a.Description))
		sb.WriteString("|" + t)
		sb.WriteString("|" + yesNo(a.Readable))
		sb.WriteString("|" + yesNo(a.Writable) + "\n")
		rows = append(rows, row{name: a.Name, text: sb.String()})
	}
	writeRows(b, rows)

	b.WriteString(tableDelim)
	b.WriteString(endifNonHTML)
	return nil
}

// Signature joins the parameter types of op, or returns the no-parameter
// placeholder.
func Signature(op mgmt.OperationInfo) string {
	if len(op.Signature) == 0 {
		return noParameters
	}
	types := make([]string, len(op.Signature))
	for i, p := range op.Signature {
		types[i] = p.Type
	}
	return strings.Join(types, ",")
}

// WriteOperationsTable renders one variant of the operations table.
func WriteOperationsTable(b *strings.Builder, ops []mgmt.OperationInfo, r typename.Resolver, nonHTML bool) error {
	openVariant(b, nonHTML)
	b.WriteString(operationCols)
	b.WriteString(tableDelim)
	b.WriteString("|Name|Description|ReturnType|Signature\n")

	rows := make([]row, 0, len(ops))
	for _, op := range ops {
		t, err := r.Display(op.ReturnType, op.Descriptor, nonHTML)
		if err != nil {
			return err
		}
		var sb strings.Builder
		sb.WriteString("|" + op.Name)
		sb.WriteString("|" + Cell(op.Description))
		sb.WriteString("|" + t)
		sb.WriteString("|" + Signature(op) + "\n")
		rows = append(rows, row{name: op.Name, text: sb.String()})
	}
	writeRows(b, rows)

	b.WriteString(tableDelim)
	b.WriteString(endifNonHTML)
	return nil
}
