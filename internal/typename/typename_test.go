package typename

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/beandoc/internal/mgmt"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"java.lang.String", "String"},
		{"java.util.List", "List (java.util.List)"},
		{"java.util.Date", "Date (java.util.Date)"},
		{"[Lorg.neo4j.Foo;", "org.neo4j.Foo[]"},
		{"[Ljava.lang.String;", "java.lang.String[]"},
		{"long", "long"},
		{CompositeDataArray, CompositeDataArray},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, raw := range []string{"java.lang.String", "[Lorg.neo4j.Foo;", "int", "java.util.Date", "org.neo4j.Bar[]"} {
		once, err := Normalize(raw)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, raw)
	}
}

func TestNormalize_UnknownEncoding(t *testing.T) {
	for _, raw := range []string{"[[Lorg.neo4j.Foo;", "Lorg.neo4j.Foo;", ";"} {
		_, err := Normalize(raw)
		require.ErrorIs(t, err, ErrUnknownEncoding, raw)
	}
}

func TestResolver_Link(t *testing.T) {
	r := DefaultResolver()

	tests := []struct {
		name    string
		in      string
		nonHTML bool
		want    string
	}{
		{"outside namespace", "java.lang.String", false, "java.lang.String"},
		{"public type", "org.neo4j.management.ClusterMemberInfo", false,
			"link:javadocs/org/neo4j/management/ClusterMemberInfo.html[org.neo4j.management.ClusterMemberInfo]"},
		{"public array", "org.neo4j.Foo[]", false, "link:javadocs/org/neo4j/Foo.html[org.neo4j.Foo][]"},
		{"non-html never links", "org.neo4j.Foo[]", true, "org.neo4j.Foo[]"},
		{"internal namespace", "org.neo4j.kernel.info.LockInfo", false, "org.neo4j.kernel.info.LockInfo"},
		{"list of public type", "java.util.List<org.neo4j.Bar>", false,
			"java.util.List<link:javadocs/org/neo4j/Bar.html[org.neo4j.Bar]>"},
		{"list of internal type", "java.util.List<org.neo4j.kernel.info.LockInfo>", false,
			"java.util.List<org.neo4j.kernel.info.LockInfo>"},
		{"list non-html", "java.util.List<org.neo4j.Bar>", true, "java.util.List<org.neo4j.Bar>"},
		{"list of foreign type", "java.util.List<java.lang.String>", false, "java.util.List<java.lang.String>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Link(tt.in, tt.nonHTML))
		})
	}
}

func TestResolver_Composite(t *testing.T) {
	r := DefaultResolver()
	d := mgmt.Descriptor{mgmt.FieldOriginalType: "org.neo4j.Bar"}

	html, err := r.Composite(CompositeDataArray, d, false)
	require.NoError(t, err)
	assert.Equal(t, "link:javadocs/org/neo4j/Bar.html[org.neo4j.Bar] as "+
		"http://docs.oracle.com/javase/7/docs/api/javax/management/openmbean/CompositeData.html[CompositeData][]", html)

	plain, err := r.Composite(CompositeDataArray, d, true)
	require.NoError(t, err)
	assert.Equal(t, "org.neo4j.Bar as CompositeData[]", plain)

	encoded := mgmt.Descriptor{mgmt.FieldOriginalType: "[Lorg.neo4j.management.ClusterMemberInfo;"}
	plain, err = r.Composite(CompositeDataArray, encoded, true)
	require.NoError(t, err)
	assert.Equal(t, "org.neo4j.management.ClusterMemberInfo[] as CompositeData[]", plain)
}

func TestResolver_CompositePassThrough(t *testing.T) {
	r := DefaultResolver()

	got, err := r.Composite(CompositeDataArray, nil, false)
	require.NoError(t, err)
	assert.Equal(t, CompositeDataArray, got, "no originalType keeps the opaque label")

	got, err = r.Composite("long", mgmt.Descriptor{mgmt.FieldOriginalType: "org.neo4j.Bar"}, false)
	require.NoError(t, err)
	assert.Equal(t, "long", got)

	_, err = r.Composite(CompositeDataArray, mgmt.Descriptor{mgmt.FieldOriginalType: "[Ifoo;"}, false)
	require.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestResolver_Display(t *testing.T) {
	r := DefaultResolver()

	got, err := r.Display("java.lang.String", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "String", got)

	_, err = r.Display("[Bfoo;", nil, true)
	require.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestResolver_MarkdownStyle(t *testing.T) {
	r := DefaultResolver()
	r.Style = StyleMarkdown

	assert.Equal(t, "[org.neo4j.Foo](javadocs/org/neo4j/Foo.html)[]", r.Link("org.neo4j.Foo[]", false))

	got, err := r.Composite(CompositeDataArray, mgmt.Descriptor{mgmt.FieldOriginalType: "org.neo4j.Bar"}, false)
	require.NoError(t, err)
	assert.Equal(t, "[org.neo4j.Bar](javadocs/org/neo4j/Bar.html) as "+
		"[CompositeData](http://docs.oracle.com/javase/7/docs/api/javax/management/openmbean/CompositeData.html)[]", got)
}
