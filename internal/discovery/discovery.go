// Package discovery finds the management beans to document and turns each
// one into an Entry with a stable identifier.
package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/beandoc/internal/foundation/normalization"
	"git.home.luguber.info/inful/beandoc/internal/logfields"
	"git.home.luguber.info/inful/beandoc/internal/mgmt"
)

// Object name keys that make up an entry's composite name.
const (
	KeyName  = "name"
	KeyName0 = "name0"
)

// IDPrefix starts every entry identifier.
const IDPrefix = "jmx-"

var (
	// ErrEntryNotFound is returned when a discovered name no longer resolves.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrAmbiguousEntry is returned when a concrete name resolves to more
	// than one bean. It signals an inconsistent registry and is never
	// resolved by picking one of the matches.
	ErrAmbiguousEntry = errors.New("ambiguous entry")

	// ErrDuplicateID is returned when two distinct names derive the same
	// entry identifier.
	ErrDuplicateID = errors.New("duplicate entry identifier")
)

// Registry is the part of a management registry discovery depends on.
type Registry interface {
	Query(pattern mgmt.ObjectName) ([]mgmt.ObjectInstance, error)
	Describe(name mgmt.ObjectName) (mgmt.BeanInfo, error)
}

// Options selects which beans are documented.
type Options struct {
	// Queries are object name patterns, e.g. "org.neo4j:*".
	Queries []string
	// Excludes are primary names that are never documented.
	Excludes []string
}

// Entry is one documented bean.
type Entry struct {
	// Name is the primary name, joined with the secondary name by "/" when present.
	Name        string
	ID          string
	ObjectName  mgmt.ObjectName
	Description string
	ClassName   string
}

// Bean is an entry together with its metadata.
type Bean struct {
	Entry
	Info mgmt.BeanInfo
}

// ToID derives the entry identifier from its composite name.
func ToID(name string) string {
	id := strings.ReplaceAll(name, " ", "-")
	id = strings.ReplaceAll(id, "/", "-")
	return IDPrefix + strings.ToLower(id)
}

// CompositeName returns the primary name of n, joined with its secondary
// name when present. ok is false when n has no primary name.
func CompositeName(n mgmt.ObjectName) (name string, ok bool) {
	name, ok = n.KeyProperty(KeyName)
	if !ok {
		return "", false
	}
	if name0, has := n.KeyProperty(KeyName0); has {
		name += "/" + name0
	}
	return name, true
}

// Result is the outcome of a discovery pass.
type Result struct {
	Entries []Entry
	// Excluded lists the primary names dropped by the excludes list, once per bean.
	Excluded []string
	// Unnamed counts matching beans without a name key.
	Unnamed int
}

// Discover runs every query and returns the matching entries sorted
// case-insensitively by name. Excluded names are dropped before sorting;
// when two beans share a name (ignoring case) the later one wins.
func Discover(reg Registry, opts Options) ([]Entry, error) {
	res, err := Run(reg, opts)
	if err != nil {
		return nil, err
	}
	return res.Entries, nil
}

// Run is Discover that also reports what was left out.
func Run(reg Registry, opts Options) (Result, error) {
	excluded := make(map[string]struct{}, len(opts.Excludes))
	for _, e := range opts.Excludes {
		excluded[e] = struct{}{}
	}

	var res Result
	byKey := make(map[string]int)
	for _, q := range opts.Queries {
		pattern, err := mgmt.ParseObjectName(q)
		if err != nil {
			return Result{}, fmt.Errorf("parse query %q: %w", q, err)
		}
		found, err := reg.Query(pattern)
		if err != nil {
			return Result{}, fmt.Errorf("query %q: %w", q, err)
		}
		slog.Debug("Registry query completed", logfields.Query(q), logfields.Count(len(found)))

		for _, inst := range found {
			primary, ok := inst.Name.KeyProperty(KeyName)
			if !ok {
				slog.Debug("Skipping bean without name key", logfields.ObjectName(inst.Name.String()))
				res.Unnamed++
				continue
			}
			if _, skip := excluded[primary]; skip {
				slog.Debug("Excluding bean", logfields.Entry(primary))
				res.Excluded = append(res.Excluded, primary)
				continue
			}
			name, _ := CompositeName(inst.Name)
			entry := Entry{
				Name:       name,
				ID:         ToID(name),
				ObjectName: inst.Name,
				ClassName:  inst.ClassName,
			}
			key := normalization.FoldKey(name)
			if i, dup := byKey[key]; dup {
				res.Entries[i] = entry
				continue
			}
			byKey[key] = len(res.Entries)
			res.Entries = append(res.Entries, entry)
		}
	}

	byID := make(map[string]string, len(res.Entries))
	for _, e := range res.Entries {
		if other, dup := byID[e.ID]; dup {
			return Result{}, fmt.Errorf("%w: %q and %q both map to %s", ErrDuplicateID, other, e.Name, e.ID)
		}
		byID[e.ID] = e.Name
	}

	normalization.SortFold(res.Entries, func(e Entry) string { return e.Name })
	return res, nil
}

// Resolve looks up a concrete name and requires exactly one match.
func Resolve(reg Registry, name mgmt.ObjectName) (mgmt.ObjectInstance, error) {
	found, err := reg.Query(name)
	if err != nil {
		return mgmt.ObjectInstance{}, fmt.Errorf("query %s: %w", name, err)
	}
	switch len(found) {
	case 0:
		return mgmt.ObjectInstance{}, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	case 1:
		return found[0], nil
	default:
		return mgmt.ObjectInstance{}, fmt.Errorf("%w: unexpected size [%d] of query result for [%s]", ErrAmbiguousEntry, len(found), name)
	}
}

// Describe resolves e and fetches its metadata. Newlines in the bean
// description are replaced by spaces.
func Describe(reg Registry, e Entry) (Bean, error) {
	inst, err := Resolve(reg, e.ObjectName)
	if err != nil {
		return Bean{}, err
	}
	info, err := reg.Describe(e.ObjectName)
	if err != nil {
		if errors.Is(err, mgmt.ErrInstanceNotFound) {
			return Bean{}, fmt.Errorf("%w: %s: %w", ErrEntryNotFound, e.ObjectName, err)
		}
		return Bean{}, fmt.Errorf("describe %s: %w", e.ObjectName, err)
	}
	e.ClassName = inst.ClassName
	e.Description = strings.ReplaceAll(info.Description, "\n", " ")
	return Bean{Entry: e, Info: info}, nil
}
