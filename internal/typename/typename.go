// Package typename turns raw registry type names into display strings and,
// when rendering for HTML output, into links to the API documentation.
package typename

import (
	"errors"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/beandoc/internal/mgmt"
)

// ErrUnknownEncoding is returned for a binary array encoding other than an
// array of object references.
var ErrUnknownEncoding = errors.New("unknown type encoding")

// CompositeDataArray is the opaque type the registry reports for arrays of
// structured records.
const CompositeDataArray = "javax.management.openmbean.CompositeData[]"

const compositeDataURL = "http://docs.oracle.com/javase/7/docs/api/javax/management/openmbean/CompositeData.html"

var aliases = map[string]string{
	"java.lang.String": "String",
	"java.util.List":   "List (java.util.List)",
	"java.util.Date":   "Date (java.util.Date)",
}

// Normalize maps a raw type name to its display form. Normalizing an
// already normalized name returns it unchanged.
func Normalize(raw string) (string, error) {
	if alias, ok := aliases[raw]; ok {
		return alias, nil
	}
	if strings.HasSuffix(raw, ";") {
		if strings.HasPrefix(raw, "[L") {
			return raw[2:len(raw)-1] + "[]", nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnknownEncoding, raw)
	}
	return raw, nil
}

// LinkStyle selects the markup used for generated links.
type LinkStyle int

const (
	StyleAsciiDoc LinkStyle = iota
	StyleMarkdown
)

func (s LinkStyle) link(url, text string) string {
	if s == StyleMarkdown {
		return "[" + text + "](" + url + ")"
	}
	if strings.Contains(url, "://") {
		return url + "[" + text + "]"
	}
	return "link:" + url + "[" + text + "]"
}

// Resolver renders normalized type names, linking the ones that belong to
// the documented public API.
type Resolver struct {
	// Namespace is the package prefix of linkable types, e.g. "org.neo4j".
	Namespace string
	// Internal is a sub namespace that is never linked.
	Internal string
	// BaseURL prefixes every generated link path, e.g. "javadocs/".
	BaseURL string
	Style   LinkStyle
}

// DefaultResolver returns the resolver used for the Neo4j API docs.
func DefaultResolver() Resolver {
	return Resolver{
		Namespace: "org.neo4j",
		Internal:  "org.neo4j.kernel",
		BaseURL:   "javadocs/",
		Style:     StyleAsciiDoc,
	}
}

const (
	listPrefix = "java.util.List<"
	listSuffix = ">"
)

// Link returns t as plain text or as a documentation link. Links are never
// produced when nonHTML is set.
func (r Resolver) Link(t string, nonHTML bool) string {
	if !strings.HasPrefix(t, r.Namespace) {
		if !strings.HasPrefix(t, listPrefix+r.Namespace+".") || !strings.HasSuffix(t, listSuffix) {
			return t
		}
		inner := t[len(listPrefix) : len(t)-len(listSuffix)]
		return listPrefix + r.Link(inner, nonHTML) + listSuffix
	}
	if nonHTML || strings.HasPrefix(t, r.Internal) {
		return t
	}

	base, array := strings.CutSuffix(t, "[]")
	out := r.Style.link(r.BaseURL+strings.ReplaceAll(base, ".", "/")+".html", base)
	if array {
		out += "[]"
	}
	return out
}

// Composite replaces the opaque CompositeData[] label with the original
// element type recorded in the descriptor, if any. Other types pass through.
func (r Resolver) Composite(t string, d mgmt.Descriptor, nonHTML bool) (string, error) {
	if t != CompositeDataArray {
		return t, nil
	}
	original, ok := d.FieldValue(mgmt.FieldOriginalType).(string)
	if !ok || original == "" {
		return t, nil
	}
	normalized, err := Normalize(original)
	if err != nil {
		return "", err
	}
	linked := r.Link(normalized, nonHTML)
	if nonHTML {
		return linked + " as CompositeData[]", nil
	}
	return linked + " as " + r.Style.link(compositeDataURL, "CompositeData") + "[]", nil
}

// Display normalizes raw and applies the composite rewrite.
func (r Resolver) Display(raw string, d mgmt.Descriptor, nonHTML bool) (string, error) {
	t, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return r.Composite(t, d, nonHTML)
}
