package mgmt

import (
	"maps"
	"slices"
)

// Descriptor carries optional metadata about an attribute or operation.
type Descriptor map[string]any

// Descriptor field names understood by this package's consumers.
const (
	// FieldOriginalType names the declared element type behind an opaque
	// composite type such as CompositeData[].
	FieldOriginalType = "originalType"
)

// FieldValue returns the value stored under name, or nil.
func (d Descriptor) FieldValue(name string) any {
	if d == nil {
		return nil
	}
	return d[name]
}

// OperationImpact describes what invoking an operation does.
type OperationImpact int

const (
	ImpactInfo OperationImpact = iota
	ImpactAction
	ImpactActionInfo
	ImpactUnknown
)

// AttributeInfo describes one bean attribute.
type AttributeInfo struct {
	Name        string
	Type        string
	Description string
	Readable    bool
	Writable    bool
	Descriptor  Descriptor
}

// ParameterInfo describes one operation parameter.
type ParameterInfo struct {
	Name        string
	Type        string
	Description string
}

// OperationInfo describes one bean operation.
type OperationInfo struct {
	Name        string
	ReturnType  string
	Description string
	Signature   []ParameterInfo
	Impact      OperationImpact
	Descriptor  Descriptor
}

// BeanInfo is the full metadata of a registered bean.
type BeanInfo struct {
	ClassName   string
	Description string
	Attributes  []AttributeInfo
	Operations  []OperationInfo
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (b BeanInfo) Clone() BeanInfo {
	out := b
	out.Attributes = make([]AttributeInfo, len(b.Attributes))
	for i, a := range b.Attributes {
		a.Descriptor = maps.Clone(a.Descriptor)
		out.Attributes[i] = a
	}
	out.Operations = make([]OperationInfo, len(b.Operations))
	for i, o := range b.Operations {
		o.Signature = slices.Clone(o.Signature)
		o.Descriptor = maps.Clone(o.Descriptor)
		out.Operations[i] = o
	}
	return out
}

// ObjectInstance pairs a registered name with the bean's class name.
type ObjectInstance struct {
	Name      ObjectName
	ClassName string
}
