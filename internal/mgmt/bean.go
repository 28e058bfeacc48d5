package mgmt

import "fmt"

// Bean is anything that can be registered in a Registry.
type Bean interface {
	Info() BeanInfo
	Attribute(name string) (any, error)
}

// AttributeGetter reads the current value of one attribute.
type AttributeGetter func() (any, error)

// StandardBean is a Bean assembled from static metadata and per-attribute getters.
type StandardBean struct {
	info    BeanInfo
	getters map[string]AttributeGetter
}

// NewStandardBean creates a bean. Getters for names not declared as
// readable attributes in info are ignored by Attribute.
func NewStandardBean(info BeanInfo, getters map[string]AttributeGetter) *StandardBean {
	return &StandardBean{info: info, getters: getters}
}

// Info returns the bean metadata.
func (b *StandardBean) Info() BeanInfo { return b.info }

// Attribute returns the current value of a readable attribute.
func (b *StandardBean) Attribute(name string) (any, error) {
	for _, a := range b.info.Attributes {
		if a.Name != name {
			continue
		}
		getter, ok := b.getters[name]
		if !a.Readable || !ok {
			break
		}
		v, err := getter()
		if err != nil {
			return nil, fmt.Errorf("read attribute %s: %w", name, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrAttributeNotFound, name)
}
