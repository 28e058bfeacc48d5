package graphdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"git.home.luguber.info/inful/beandoc/internal/logfields"
	"git.home.luguber.info/inful/beandoc/internal/mgmt"
)

// ErrShutdown is returned by operations on a database that has been shut down.
var ErrShutdown = errors.New("database is shut down")

// Builder collects the store location and settings for a new Database.
type Builder struct {
	storeDir string
	settings map[string]string
	registry *mgmt.Registry
	logger   *slog.Logger
}

// NewBuilder starts building a database stored under storeDir. Pass
// InMemory for a store that is discarded on shutdown.
func NewBuilder(storeDir string) *Builder {
	return &Builder{storeDir: storeDir, settings: map[string]string{}}
}

// SetConfig sets one setting, replacing any earlier value.
func (b *Builder) SetConfig(key, value string) *Builder {
	b.settings[key] = value
	return b
}

// SetConfigMap merges settings into the builder.
func (b *Builder) SetConfigMap(settings map[string]string) *Builder {
	maps.Copy(b.settings, settings)
	return b
}

// WithRegistry selects the registry the database publishes its beans to.
// Without it the database uses a private registry.
func (b *Builder) WithRegistry(reg *mgmt.Registry) *Builder {
	b.registry = reg
	return b
}

// WithLogger sets the logger used for lifecycle messages.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Open starts the database and registers its management beans.
func (b *Builder) Open(ctx context.Context) (*Database, error) {
	settings, err := ParseSettings(b.settings)
	if err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "graphdb"))
	reg := b.registry
	if reg == nil {
		reg = mgmt.NewRegistry()
	}

	st, err := openStore(ctx, b.storeDir, settings.PageCacheBytes)
	if err != nil {
		return nil, err
	}

	d := &Database{
		store:     st,
		settings:  settings,
		registry:  reg,
		logger:    logger,
		startTime: time.Now().UTC(),
	}
	if d.storeID, err = st.meta(ctx, "store_id", newStoreID()); err != nil {
		_ = st.close()
		return nil, fmt.Errorf("read store id: %w", err)
	}
	created, err := st.meta(ctx, "created", d.startTime.Format(time.RFC3339))
	if err != nil {
		_ = st.close()
		return nil, fmt.Errorf("read store creation date: %w", err)
	}
	if d.created, err = time.Parse(time.RFC3339, created); err != nil {
		_ = st.close()
		return nil, fmt.Errorf("parse store creation date: %w", err)
	}

	if err := d.registerBeans(); err != nil {
		d.unregisterBeans()
		_ = st.close()
		return nil, err
	}

	logger.Debug("Database started",
		slog.String("store_dir", b.storeDir),
		logfields.Count(len(d.names)),
		slog.Bool("clustered", settings.Clustered))
	return d, nil
}

// Database is an embedded graph store whose only public face here is the
// set of management beans it registers while running.
type Database struct {
	store     *store
	settings  Settings
	registry  *mgmt.Registry
	logger    *slog.Logger
	storeID   string
	created   time.Time
	startTime time.Time

	mu    sync.Mutex
	names []mgmt.ObjectName
	down  bool
}

// Registry returns the registry holding the database's beans.
func (d *Database) Registry() *mgmt.Registry { return d.registry }

// Settings returns the parsed settings the database runs with.
func (d *Database) Settings() Settings { return d.settings }

// BeanNames returns the names of the beans registered by this database.
func (d *Database) BeanNames() []mgmt.ObjectName {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]mgmt.ObjectName(nil), d.names...)
}

// CreateNode creates a node with the given labels and returns its id.
func (d *Database) CreateNode(ctx context.Context, labels ...string) (int64, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	var id int64
	err := d.store.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "INSERT INTO nodes DEFAULT VALUES")
		if err != nil {
			return fmt.Errorf("insert node: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("node id: %w", err)
		}
		for _, l := range labels {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO node_labels (node_id, label) VALUES (?, ?)", id, l); err != nil {
				return fmt.Errorf("insert label: %w", err)
			}
		}
		return nil
	})
	return id, err
}

// CreateRelationship connects two nodes and returns the relationship id.
func (d *Database) CreateRelationship(ctx context.Context, start, end int64, relType string) (int64, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	var id int64
	err := d.store.tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO relationship_types (name) VALUES (?)", relType); err != nil {
			return fmt.Errorf("insert relationship type: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO relationships (start_node, end_node, type_id) SELECT ?, ?, id FROM relationship_types WHERE name = ?",
			start, end, relType)
		if err != nil {
			return fmt.Errorf("insert relationship: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// SetNodeProperty stores a property on a node.
func (d *Database) SetNodeProperty(ctx context.Context, node int64, key string, value any) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	return d.store.tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO properties (owner_kind, owner_id, key, value) VALUES ('node', ?, ?, ?)",
			node, key, value)
		if err != nil {
			return fmt.Errorf("insert property: %w", err)
		}
		return nil
	})
}

// Shutdown unregisters the beans and closes the store. Calling it again
// logs a warning and does nothing.
func (d *Database) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.down {
		d.mu.Unlock()
		d.logger.Warn("Database already shut down")
		return nil
	}
	d.down = true
	d.mu.Unlock()

	d.unregisterBeans()

	ctx, cancel := context.WithTimeout(ctx, d.settings.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := d.store.checkpoint(ctx); err != nil {
		errs = append(errs, fmt.Errorf("checkpoint: %w", err))
	}
	if err := d.store.close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		d.logger.Error("Database shutdown failed", logfields.Error(err))
		return err
	}
	d.logger.Debug("Database shut down")
	return nil
}

func (d *Database) checkOpen() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.down {
		return ErrShutdown
	}
	return nil
}

func (d *Database) unregisterBeans() {
	d.mu.Lock()
	names := d.names
	d.names = nil
	d.mu.Unlock()

	for _, name := range names {
		if err := d.registry.Unregister(name); err != nil {
			d.logger.Warn("Failed to unregister bean", logfields.ObjectName(name.String()), logfields.Error(err))
		}
	}
}
