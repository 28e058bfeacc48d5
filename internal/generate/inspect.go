package generate

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/beandoc/internal/config"
	"git.home.luguber.info/inful/beandoc/internal/discovery"
	dberrors "git.home.luguber.info/inful/beandoc/internal/foundation/errors"
	"git.home.luguber.info/inful/beandoc/internal/logfields"
)

// AttributeValue is the value read from one attribute, or the read error.
type AttributeValue struct {
	Name  string
	Value any
	Err   error
}

// Listing is one discovered entry with optionally read attribute values.
type Listing struct {
	discovery.Bean
	Values []AttributeValue
}

// List discovers and describes the configured entries without writing
// anything. With values set, every readable attribute is read as well.
func (s *Service) List(ctx context.Context, cfg *config.Config, values bool) ([]Listing, error) {
	db, err := s.openDB(ctx, cfg.Database)
	if err != nil {
		return nil, dberrors.WrapError(err, dberrors.CategoryDatabase, "failed to start database").Fatal().Build()
	}
	defer func() {
		if serr := db.Shutdown(context.WithoutCancel(ctx)); serr != nil {
			slog.Warn("Database shutdown failed", logfields.Error(serr))
		}
	}()
	reg := db.Registry()

	entries, err := discovery.Discover(reg, discovery.Options{
		Queries:  cfg.Registry.Queries,
		Excludes: cfg.Registry.Excludes,
	})
	if err != nil {
		return nil, classifyDiscovery(err)
	}

	out := make([]Listing, 0, len(entries))
	for _, e := range entries {
		bean, err := discovery.Describe(reg, e)
		if err != nil {
			return nil, dberrors.WrapError(err, dberrors.CategoryRegistry, "failed to describe entry").
				WithContext("entry", e.Name).Build()
		}
		l := Listing{Bean: bean}
		if values {
			for _, a := range bean.Info.Attributes {
				if !a.Readable {
					continue
				}
				v, err := reg.Attribute(bean.ObjectName, a.Name)
				l.Values = append(l.Values, AttributeValue{Name: a.Name, Value: v, Err: err})
			}
		}
		out = append(out, l)
	}
	return out, nil
}

// String formats the value for display.
func (v AttributeValue) String() string {
	if v.Err != nil {
		return "<" + v.Err.Error() + ">"
	}
	return fmt.Sprint(v.Value)
}
