package mgmt

import (
	"fmt"
	"slices"
	"strings"
)

type property struct {
	key   string
	value string
}

// ObjectName identifies a bean, or a set of beans when it is a pattern.
// The zero value is not a valid name; use ParseObjectName.
type ObjectName struct {
	domain          string
	props           []property
	domainPattern   bool
	propertyPattern bool
}

// ParseObjectName parses "domain:key=value,..." into an ObjectName.
func ParseObjectName(s string) (ObjectName, error) {
	domain, rest, ok := strings.Cut(s, ":")
	if !ok {
		return ObjectName{}, fmt.Errorf("%w: %q: missing domain separator", ErrMalformedName, s)
	}
	if strings.ContainsAny(domain, ",=") {
		return ObjectName{}, fmt.Errorf("%w: %q: invalid character in domain", ErrMalformedName, s)
	}
	if rest == "" {
		return ObjectName{}, fmt.Errorf("%w: %q: empty key property list", ErrMalformedName, s)
	}

	n := ObjectName{
		domain:        domain,
		domainPattern: strings.ContainsAny(domain, "*?"),
	}
	seen := make(map[string]struct{})
	parts := strings.Split(rest, ",")
	for i, part := range parts {
		if part == "*" {
			if i != len(parts)-1 || n.propertyPattern {
				return ObjectName{}, fmt.Errorf("%w: %q: wildcard must be the last property", ErrMalformedName, s)
			}
			n.propertyPattern = true
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" || value == "" {
			return ObjectName{}, fmt.Errorf("%w: %q: invalid key property %q", ErrMalformedName, s, part)
		}
		if strings.ContainsAny(key, ":=*?") || strings.ContainsAny(value, ":=*?") {
			return ObjectName{}, fmt.Errorf("%w: %q: invalid character in %q", ErrMalformedName, s, part)
		}
		if _, dup := seen[key]; dup {
			return ObjectName{}, fmt.Errorf("%w: %q: duplicate key %q", ErrMalformedName, s, key)
		}
		seen[key] = struct{}{}
		n.props = append(n.props, property{key: key, value: value})
	}
	if len(n.props) == 0 && !n.propertyPattern {
		return ObjectName{}, fmt.Errorf("%w: %q: empty key property list", ErrMalformedName, s)
	}
	return n, nil
}

// MustParseObjectName is ParseObjectName for compile-time constant names.
func MustParseObjectName(s string) ObjectName {
	n, err := ParseObjectName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Domain returns the domain part of the name.
func (n ObjectName) Domain() string { return n.domain }

// KeyProperty returns the value of key, if present.
func (n ObjectName) KeyProperty(key string) (string, bool) {
	for _, p := range n.props {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// IsPattern reports whether n can match more than one name.
func (n ObjectName) IsPattern() bool { return n.domainPattern || n.propertyPattern }

// String returns the name with properties in their original order.
func (n ObjectName) String() string {
	return n.format(n.props)
}

// Canonical returns the name with properties sorted by key. Two names that
// differ only in property order share a canonical form.
func (n ObjectName) Canonical() string {
	props := slices.Clone(n.props)
	slices.SortFunc(props, func(a, b property) int { return strings.Compare(a.key, b.key) })
	return n.format(props)
}

func (n ObjectName) format(props []property) string {
	var b strings.Builder
	b.WriteString(n.domain)
	b.WriteByte(':')
	for i, p := range props {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	if n.propertyPattern {
		if len(props) > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('*')
	}
	return b.String()
}

// Matches reports whether the concrete name other is selected by n.
// A non-pattern n matches only a name with the same canonical form.
func (n ObjectName) Matches(other ObjectName) bool {
	if other.IsPattern() {
		return false
	}
	if n.domainPattern {
		if !wildcardMatch(n.domain, other.domain) {
			return false
		}
	} else if n.domain != other.domain {
		return false
	}
	if !n.propertyPattern && len(n.props) != len(other.props) {
		return false
	}
	for _, p := range n.props {
		if v, ok := other.KeyProperty(p.key); !ok || v != p.value {
			return false
		}
	}
	return true
}

// wildcardMatch matches s against a pattern where '*' is any run of
// characters and '?' is exactly one.
func wildcardMatch(pattern, s string) bool {
	p, t := []rune(pattern), []rune(s)
	star, mark := -1, 0
	i, j := 0, 0
	for j < len(t) {
		switch {
		case i < len(p) && (p[i] == '?' || p[i] == t[j]):
			i++
			j++
		case i < len(p) && p[i] == '*':
			star, mark = i, j
			i++
		case star >= 0:
			i = star + 1
			mark++
			j = mark
		default:
			return false
		}
	}
	for i < len(p) && p[i] == '*' {
		i++
	}
	return i == len(p)
}
