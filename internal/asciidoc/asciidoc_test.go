package asciidoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/beandoc/internal/discovery"
	"git.home.luguber.info/inful/beandoc/internal/mgmt"
	"git.home.luguber.info/inful/beandoc/internal/typename"
)

func storeFileSizes() discovery.Bean {
	return discovery.Bean{
		Entry: discovery.Entry{
			Name:        "Store file sizes",
			ID:          "jmx-store-file-sizes",
			ClassName:   "org.neo4j.management.StoreFile",
			Description: "Information about the sizes of the different parts of the Neo4j graph store",
		},
		Info: mgmt.BeanInfo{
			Attributes: []mgmt.AttributeInfo{{
				Name:        "TotalStoreSize",
				Type:        "long",
				Description: "Disk space used by the whole store, in bytes.",
				Readable:    true,
			}},
		},
	}
}

func TestDetail_AttributesOnly(t *testing.T) {
	out, err := NewRenderer().Detail(storeFileSizes())
	require.NoError(t, err)

	table := `[options="header", cols="20m,36,20m,7,7"]
|===
|Name|Description|Type|Read|Write
5.1+^e|Information about the sizes of the different parts of the Neo4j graph store
|TotalStoreSize|Disk space used by the whole store, in bytes.|long|yes|no
|===
endif::nonhtmloutput[]
`
	want := "[[jmx-store-file-sizes]]\n" +
		".MBean Store file sizes (org.neo4j.management.StoreFile) Attributes\n" +
		"ifndef::nonhtmloutput[]\n" + table +
		"ifdef::nonhtmloutput[]\n" + table +
		"\n"
	assert.Equal(t, want, out)
	assert.NotContains(t, out, "Operations")
}

func TestDetail_Empty(t *testing.T) {
	bean := storeFileSizes()
	bean.Info.Attributes = nil

	out, err := NewRenderer().Detail(bean)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDetail_SingleAnchor(t *testing.T) {
	bean := storeFileSizes()
	bean.Info.Operations = []mgmt.OperationInfo{{Name: "flush", ReturnType: "void", Description: "Flush"}}

	out, err := NewRenderer().Detail(bean)
	require.NoError(t, err)

	anchors := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "[[") {
			anchors++
			assert.Equal(t, "[[jmx-store-file-sizes]]", line)
		}
	}
	assert.Equal(t, 1, anchors)
	assert.Contains(t, out, ".MBean Store file sizes (org.neo4j.management.StoreFile) Operations\n")
}

func TestWriteOperationsTable(t *testing.T) {
	ops := []mgmt.OperationInfo{
		{Name: "snapshot", ReturnType: "java.lang.String", Description: "Take a\nsnapshot", Signature: []mgmt.ParameterInfo{
			{Name: "p0", Type: "boolean"}, {Name: "p1", Type: "java.lang.String"},
		}},
		{Name: "Clear", ReturnType: "void", Description: "Clear everything"},
	}

	var b strings.Builder
	require.NoError(t, WriteOperationsTable(&b, ops, typename.DefaultResolver(), false))

	want := `ifndef::nonhtmloutput[]
[options="header", cols="23m,37,20m,20m"]
|===
|Name|Description|ReturnType|Signature
|Clear|Clear everything|void|(no parameters)
|snapshot|Take a snapshot|String|boolean,java.lang.String
|===
endif::nonhtmloutput[]
`
	assert.Equal(t, want, b.String())
}

func TestWriteAttributesTable_SortAndBreak(t *testing.T) {
	attrs := []mgmt.AttributeInfo{
		{Name: "NumberOfOpenTransactions", Type: "long", Readable: true},
		{Name: "allocated_pages", Type: "long", Readable: true, Writable: true},
		{Name: "LastCommittedTxId", Type: "long", Readable: true},
	}

	var html, plain strings.Builder
	require.NoError(t, WriteAttributesTable(&html, "Transactions", attrs, typename.DefaultResolver(), false))
	require.NoError(t, WriteAttributesTable(&plain, "Transactions", attrs, typename.DefaultResolver(), true))

	htmlRows := tableRows(html.String())
	assert.Equal(t, []string{
		"|allocated_pages||long|yes|yes",
		"|LastCommittedTxId||long|yes|no",
		"|NumberOfOpenTransactions||long|yes|no",
	}, htmlRows)

	plainRows := tableRows(plain.String())
	assert.Equal(t, "|allocated_\u200Apages||long|yes|yes", plainRows[0])
	assert.Equal(t, "|NumberOf\u200AOpen\u200ATransactions||long|yes|no", plainRows[2])
	assert.True(t, strings.HasPrefix(plain.String(), "ifdef::nonhtmloutput[]\n"))
}

func TestWriteAttributesTable_CompositeTypes(t *testing.T) {
	attrs := []mgmt.AttributeInfo{{
		Name:       "InstancesInCluster",
		Type:       typename.CompositeDataArray,
		Readable:   true,
		Descriptor: mgmt.Descriptor{mgmt.FieldOriginalType: "[Lorg.neo4j.management.ClusterMemberInfo;"},
	}}

	var html, plain strings.Builder
	require.NoError(t, WriteAttributesTable(&html, "HA", attrs, typename.DefaultResolver(), false))
	require.NoError(t, WriteAttributesTable(&plain, "HA", attrs, typename.DefaultResolver(), true))

	assert.Contains(t, html.String(),
		"|link:javadocs/org/neo4j/management/ClusterMemberInfo.html[org.neo4j.management.ClusterMemberInfo][] as "+
			"http://docs.oracle.com/javase/7/docs/api/javax/management/openmbean/CompositeData.html[CompositeData][]|yes|no\n")
	assert.Contains(t, plain.String(), "|org.neo4j.management.ClusterMemberInfo[] as CompositeData[]|yes|no\n")
}

func TestWriteAttributesTable_UnknownEncoding(t *testing.T) {
	attrs := []mgmt.AttributeInfo{{Name: "Raw", Type: "[I;"}}

	var b strings.Builder
	err := WriteAttributesTable(&b, "x", attrs, typename.DefaultResolver(), false)
	require.ErrorIs(t, err, typename.ErrUnknownEncoding)
}

func TestMakeBreakable(t *testing.T) {
	assert.Equal(t, "NumberOfNodeIdsInUse", MakeBreakable("NumberOfNodeIdsInUse", false))
	assert.Equal(t, "NumberOf\u200ANodeIds\u200AInUse", MakeBreakable("NumberOfNodeIdsInUse", true))
	assert.Equal(t, "page_\u200Acache", MakeBreakable("page_cache", true))
}

func TestCell(t *testing.T) {
	assert.Equal(t, `a b \| c`, Cell("a\nb | c"))
}

func TestSummary(t *testing.T) {
	entries := []discovery.Entry{
		{Name: "Kernel", ID: "jmx-kernel", Description: "Information about the Neo4j kernel"},
		{Name: "Store file sizes", ID: "jmx-store-file-sizes", Description: "Store sizes"},
	}

	r := NewRenderer()
	out, err := r.Summary(entries)
	require.NoError(t, err)
	assert.Equal(t, "jmx-list", r.SummaryName())

	want := `[[jmx-list]]
.MBeans exposed by Neo4j
ifndef::nonhtmloutput[]
[options="header", cols="30,70"]
|===
|Name|Description
|<<jmx-kernel,Kernel>>|Information about the Neo4j kernel
|<<jmx-store-file-sizes,Store file sizes>>|Store sizes
|===
endif::nonhtmloutput[]
ifdef::nonhtmloutput[]
* <<jmx-kernel,Kernel>>: Information about the Neo4j kernel
* <<jmx-store-file-sizes,Store file sizes>>: Store sizes
endif::nonhtmloutput[]
`
	assert.Equal(t, want, out)
}

// tableRows returns the data rows of a single rendered table.
func tableRows(table string) []string {
	var rows []string
	for _, line := range strings.Split(table, "\n") {
		if !strings.HasPrefix(line, "|") || line == "|===" || strings.HasPrefix(line, "|Name|") {
			continue
		}
		rows = append(rows, line)
	}
	return rows
}
