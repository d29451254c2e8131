package container

import (
	"fmt"
	"reflect"
)

// DefaultInjectTag is the struct tag that marks a field as injectable.
const DefaultInjectTag = "inject"

// Member is an injectable slot of a constructed value: a tagged field or a
// declared setter method. Both look like a setter taking len(Params) values.
type Member struct {
	Name   string
	Params []reflect.Type

	// Inject stores args into target.
	Inject func(target reflect.Value, args []reflect.Value)

	// Populated reports whether target already holds a value for this
	// member. A nil Populated means the member is always injected.
	Populated func(target reflect.Value) bool
}

// MemberProvider enumerates the injectable members of a type.
type MemberProvider interface {
	Members(t reflect.Type) []Member
}

// TagMembers is the default MemberProvider. It reports exported struct
// fields carrying the inject tag and methods declared through Method.
type TagMembers struct {
	tag     string
	methods map[reflect.Type][]string
}

// NewTagMembers returns a provider reading the given struct tag. An empty
// tag falls back to DefaultInjectTag.
func NewTagMembers(tag string) *TagMembers {
	if tag == "" {
		tag = DefaultInjectTag
	}
	return &TagMembers{tag: tag, methods: make(map[reflect.Type][]string)}
}

// Method declares the named method of t as an injection point. The method
// must exist and take at least one parameter. t must be a concrete type:
// interface method sets carry no receiver to call through.
func (m *TagMembers) Method(t reflect.Type, name string) error {
	if t.Kind() == reflect.Interface {
		return fmt.Errorf("container: %s is an interface; declare methods on a concrete type", t)
	}
	method, ok := t.MethodByName(name)
	if !ok {
		return fmt.Errorf("container: %s has no method %q", t, name)
	}
	if method.Type.NumIn() < 2 {
		return fmt.Errorf("container: method %s.%s takes no parameters", t, name)
	}
	for _, existing := range m.methods[t] {
		if existing == name {
			return nil
		}
	}
	m.methods[t] = append(m.methods[t], name)
	return nil
}

func (m *TagMembers) Members(t reflect.Type) []Member {
	var members []Member
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		members = append(members, m.fields(t.Elem())...)
	}

	for _, name := range m.methods[t] {
		method, _ := t.MethodByName(name)
		params := make([]reflect.Type, method.Type.NumIn()-1)
		for i := range params {
			params[i] = method.Type.In(i + 1)
		}
		index := method.Index
		members = append(members, Member{
			Name:   name,
			Params: params,
			Inject: func(target reflect.Value, args []reflect.Value) {
				target.Method(index).Call(args)
			},
		})
	}
	return members
}

func (m *TagMembers) fields(st reflect.Type) []Member {
	var members []Member
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup(m.tag)
		if !ok || tag == "-" {
			continue
		}
		index := field.Index
		members = append(members, Member{
			Name:   field.Name,
			Params: []reflect.Type{field.Type},
			Inject: func(target reflect.Value, args []reflect.Value) {
				target.Elem().FieldByIndex(index).Set(args[0])
			},
			Populated: func(target reflect.Value) bool {
				return !target.Elem().FieldByIndex(index).IsZero()
			},
		})
	}
	return members
}
