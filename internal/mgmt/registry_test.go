package mgmt

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kernelBean() *StandardBean {
	return NewStandardBean(BeanInfo{
		ClassName:   "org.neo4j.management.Kernel",
		Description: "Information about the Neo4j kernel",
		Attributes: []AttributeInfo{
			{Name: "ReadOnly", Type: "boolean", Description: "Whether the database is read only", Readable: true},
			{Name: "Secret", Type: "java.lang.String", Description: "write only", Writable: true},
		},
		Operations: []OperationInfo{
			{Name: "reset", ReturnType: "void", Signature: []ParameterInfo{{Name: "p0", Type: "long"}}},
		},
	}, map[string]AttributeGetter{
		"ReadOnly": func() (any, error) { return false, nil },
		"Secret":   func() (any, error) { return "s3cr3t", nil },
	})
}

func TestRegistry_RegisterQueryDescribe(t *testing.T) {
	reg := NewRegistry()
	name := MustParseObjectName("org.neo4j:instance=kernel#0,name=Kernel")

	inst, err := reg.Register(name, kernelBean())
	require.NoError(t, err)
	assert.Equal(t, "org.neo4j.management.Kernel", inst.ClassName)

	_, err = reg.Register(MustParseObjectName("org.neo4j:name=Kernel,instance=kernel#0"), kernelBean())
	require.ErrorIs(t, err, ErrInstanceExists)

	found, err := reg.Query(MustParseObjectName("org.neo4j:*"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, name.Canonical(), found[0].Name.Canonical())

	info, err := reg.Describe(name)
	require.NoError(t, err)
	assert.Equal(t, "Information about the Neo4j kernel", info.Description)
	require.Len(t, info.Attributes, 2)

	info.Attributes[0].Name = "mutated"
	info.Operations[0].Signature[0].Type = "mutated"
	again, err := reg.Describe(name)
	require.NoError(t, err)
	assert.Equal(t, "ReadOnly", again.Attributes[0].Name)
	assert.Equal(t, "long", again.Operations[0].Signature[0].Type)
}

func TestRegistry_QueryOrderAndPatterns(t *testing.T) {
	reg := NewRegistry()
	for _, n := range []string{
		"org.neo4j:instance=kernel#0,name=Transactions",
		"org.neo4j:instance=kernel#0,name=Kernel",
		"java.lang:type=Memory",
	} {
		_, err := reg.Register(MustParseObjectName(n), kernelBean())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, reg.Count())

	found, err := reg.Query(MustParseObjectName("org.neo4j:*"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "org.neo4j:instance=kernel#0,name=Kernel", found[0].Name.Canonical())
	assert.Equal(t, "org.neo4j:instance=kernel#0,name=Transactions", found[1].Name.Canonical())

	found, err = reg.Query(MustParseObjectName("org.neo4j:name=Missing"))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry()
	name := MustParseObjectName("org.neo4j:name=Kernel")

	_, err := reg.Describe(name)
	require.ErrorIs(t, err, ErrInstanceNotFound)
	require.ErrorIs(t, reg.Unregister(name), ErrInstanceNotFound)

	_, err = reg.Register(MustParseObjectName("org.neo4j:*"), kernelBean())
	require.ErrorIs(t, err, ErrPatternNotAllowed)
	_, err = reg.Describe(MustParseObjectName("org.neo4j:*"))
	require.ErrorIs(t, err, ErrPatternNotAllowed)

	_, err = reg.Register(name, kernelBean())
	require.NoError(t, err)
	require.NoError(t, reg.Unregister(name))
	assert.Equal(t, 0, reg.Count())
}

func TestRegistry_Attribute(t *testing.T) {
	reg := NewRegistry()
	name := MustParseObjectName("org.neo4j:name=Kernel")
	_, err := reg.Register(name, kernelBean())
	require.NoError(t, err)

	v, err := reg.Attribute(name, "ReadOnly")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = reg.Attribute(name, "Secret")
	require.ErrorIs(t, err, ErrAttributeNotFound, "write-only attributes are not readable")
	_, err = reg.Attribute(name, "Nope")
	require.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestStandardBean_GetterError(t *testing.T) {
	boom := errors.New("store closed")
	bean := NewStandardBean(BeanInfo{
		Attributes: []AttributeInfo{{Name: "NodeCount", Type: "long", Readable: true}},
	}, map[string]AttributeGetter{
		"NodeCount": func() (any, error) { return nil, boom },
	})

	_, err := bean.Attribute("NodeCount")
	require.ErrorIs(t, err, boom)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := MustParseObjectName("org.neo4j:name=Bean" + string(rune('A'+i)))
			_, _ = reg.Register(name, kernelBean())
			_, _ = reg.Query(MustParseObjectName("org.neo4j:*"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, reg.Count())
}

func TestDescriptor_FieldValue(t *testing.T) {
	var empty Descriptor
	assert.Nil(t, empty.FieldValue(FieldOriginalType))

	d := Descriptor{FieldOriginalType: "org.neo4j.Bar"}
	assert.Equal(t, "org.neo4j.Bar", d.FieldValue(FieldOriginalType))
}
