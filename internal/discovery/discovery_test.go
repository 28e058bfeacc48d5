package discovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/beandoc/internal/mgmt"
)

func registerAll(t *testing.T, names ...string) *mgmt.Registry {
	t.Helper()
	reg := mgmt.NewRegistry()
	for _, n := range names {
		bean := mgmt.NewStandardBean(mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.Bean",
			Description: "Bean\ndescription",
		}, nil)
		_, err := reg.Register(mgmt.MustParseObjectName(n), bean)
		require.NoError(t, err)
	}
	return reg
}

func TestToID(t *testing.T) {
	tests := map[string]string{
		"Primary Secondary":    "jmx-primary-secondary",
		"Store file sizes":     "jmx-store-file-sizes",
		"Index sampler/Native": "jmx-index-sampler-native",
		"Kernel":               "jmx-kernel",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToID(in), in)
	}
}

func TestCompositeName(t *testing.T) {
	name, ok := CompositeName(mgmt.MustParseObjectName("org.neo4j:name=Index sampler,name0=Native"))
	require.True(t, ok)
	assert.Equal(t, "Index sampler/Native", name)

	_, ok = CompositeName(mgmt.MustParseObjectName("org.neo4j:type=Other"))
	assert.False(t, ok)
}

func TestDiscover_ExcludesAndSorts(t *testing.T) {
	reg := registerAll(t,
		"org.neo4j:instance=kernel#0,name=Transactions",
		"org.neo4j:instance=kernel#0,name=JMX Server",
		"org.neo4j:instance=kernel#0,name=kernel",
		"org.neo4j:instance=kernel#0,name=Locking",
		"org.neo4j:instance=kernel#0,name=Index sampler,name0=Native",
		"org.neo4j:instance=kernel#0,type=NoName",
		"java.lang:name=Memory",
	)

	entries, err := Discover(reg, Options{
		Queries:  []string{"org.neo4j:*"},
		Excludes: []string{"JMX Server"},
	})
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
		assert.NotEqual(t, "JMX Server", e.Name)
	}
	assert.Equal(t, []string{"Index sampler/Native", "kernel", "Locking", "Transactions"}, names)
	assert.Equal(t, "jmx-index-sampler-native", entries[0].ID)
	assert.Equal(t, "org.neo4j.management.Bean", entries[0].ClassName)
}

func TestDiscover_DeduplicatesAcrossQueries(t *testing.T) {
	reg := registerAll(t,
		"org.neo4j:instance=kernel#0,name=Kernel",
		"org.neo4j:instance=kernel#1,name=KERNEL",
	)

	entries, err := Discover(reg, Options{
		Queries: []string{"org.neo4j:*", "org.neo4j:name=KERNEL,*"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "KERNEL", entries[0].Name)
}

func TestDiscover_DuplicateID(t *testing.T) {
	reg := registerAll(t,
		"org.neo4j:instance=kernel#0,name=Index sampler,name0=Native",
		"org.neo4j:instance=kernel#0,name=Index sampler Native",
	)

	_, err := Discover(reg, Options{Queries: []string{"org.neo4j:*"}})
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Contains(t, err.Error(), "jmx-index-sampler-native")
}

func TestRun_ReportsLeftOut(t *testing.T) {
	reg := registerAll(t,
		"org.neo4j:instance=kernel#0,name=Kernel",
		"org.neo4j:instance=kernel#0,name=JMX Server",
		"org.neo4j:instance=kernel#0,type=NoName",
	)

	res, err := Run(reg, Options{Queries: []string{"org.neo4j:*"}, Excludes: []string{"JMX Server"}})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, []string{"JMX Server"}, res.Excluded)
	assert.Equal(t, 1, res.Unnamed)
}

func TestDiscover_MalformedQuery(t *testing.T) {
	_, err := Discover(mgmt.NewRegistry(), Options{Queries: []string{"no-domain"}})
	require.ErrorIs(t, err, mgmt.ErrMalformedName)
}

// fakeRegistry returns canned query results to exercise the resolution rules.
type fakeRegistry struct {
	found    []mgmt.ObjectInstance
	info     mgmt.BeanInfo
	queryErr error
	descErr  error
}

func (f *fakeRegistry) Query(mgmt.ObjectName) ([]mgmt.ObjectInstance, error) {
	return f.found, f.queryErr
}

func (f *fakeRegistry) Describe(mgmt.ObjectName) (mgmt.BeanInfo, error) {
	return f.info, f.descErr
}

func TestResolve(t *testing.T) {
	name := mgmt.MustParseObjectName("org.neo4j:name=Kernel")
	inst := mgmt.ObjectInstance{Name: name, ClassName: "Kernel"}

	_, err := Resolve(&fakeRegistry{}, name)
	require.ErrorIs(t, err, ErrEntryNotFound)

	_, err = Resolve(&fakeRegistry{found: []mgmt.ObjectInstance{inst, inst}}, name)
	require.ErrorIs(t, err, ErrAmbiguousEntry)
	assert.Contains(t, err.Error(), "unexpected size [2]")

	got, err := Resolve(&fakeRegistry{found: []mgmt.ObjectInstance{inst}}, name)
	require.NoError(t, err)
	assert.Equal(t, "Kernel", got.ClassName)

	boom := errors.New("registry offline")
	_, err = Resolve(&fakeRegistry{queryErr: boom}, name)
	require.ErrorIs(t, err, boom)
}

func TestDescribe(t *testing.T) {
	reg := registerAll(t, "org.neo4j:instance=kernel#0,name=Kernel")
	entries, err := Discover(reg, Options{Queries: []string{"org.neo4j:*"}})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	bean, err := Describe(reg, entries[0])
	require.NoError(t, err)
	assert.Equal(t, "Bean description", bean.Description)
	assert.Equal(t, "org.neo4j.management.Bean", bean.ClassName)
	assert.Equal(t, "jmx-kernel", bean.ID)

	require.NoError(t, reg.Unregister(entries[0].ObjectName))
	_, err = Describe(reg, entries[0])
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestDescribe_DisappearedBetweenQueryAndDescribe(t *testing.T) {
	name := mgmt.MustParseObjectName("org.neo4j:name=Kernel")
	reg := &fakeRegistry{
		found:   []mgmt.ObjectInstance{{Name: name}},
		descErr: mgmt.ErrInstanceNotFound,
	}

	_, err := Describe(reg, Entry{Name: "Kernel", ObjectName: name})
	require.ErrorIs(t, err, ErrEntryNotFound)
	require.ErrorIs(t, err, mgmt.ErrInstanceNotFound)
}
