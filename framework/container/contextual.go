package container

import "reflect"

// ContextualBuilder implements the fluent contextual binding API.
//
//	c.When(container.TypeOf[*PhotoService]()).
//	    Needs(container.TypeOf[Filesystem]()).
//	    Give(func() (any, error) { return filesystem.NewS3(), nil })
type ContextualBuilder struct {
	container *Container
	consumer  reflect.Type
	needs     reflect.Type
}

// Needs specifies which dependency of the consumer is being overridden.
func (b *ContextualBuilder) Needs(dependency reflect.Type) *ContextualBuilder {
	b.needs = dependency
	return b
}

// Give provides the factory used when the consumer's constructor or members
// ask for the dependency. The rest of the container is unaffected.
func (b *ContextualBuilder) Give(factory Factory) {
	m, ok := b.container.contextual[b.consumer]
	if !ok {
		m = make(map[reflect.Type]Factory)
		b.container.contextual[b.consumer] = m
	}
	m[b.needs] = factory
}

// GiveValue is a shorthand for Give with a pre-built value.
//
//	c.When(container.TypeOf[*Uploader]()).Needs(container.TypeOf[string]()).GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(constant(value))
}
