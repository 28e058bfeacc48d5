package markdown

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// TableShape is the column and body row count of one parsed table.
type TableShape struct {
	Columns int
	Rows    int
}

// Report summarizes the structure of a parsed document.
type Report struct {
	Headings []string
	Tables   []TableShape
	Links    []Link
}
