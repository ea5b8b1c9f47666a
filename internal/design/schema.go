package design

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Schema is the field descriptor table of a design node type T and its
// options type O. One schema drives IsDefault, Clone, Combine, ApplyOptions
// and the JSON codec for every value of T.
type Schema[T, O any] struct {
	name   string
	fields []Field[T, O]
	byName map[string]Field[T, O]
}

// NewSchema builds a schema from fields in declaration order. The order is
// the serialization order. It panics on duplicate field names.
func NewSchema[T, O any](name string, fields ...Field[T, O]) *Schema[T, O] {
	s := &Schema[T, O]{name: name, fields: fields, byName: make(map[string]Field[T, O], len(fields))}
	for _, f := range fields {
		if _, dup := s.byName[f.FieldName()]; dup {
			Fatal("design.NewSchema", fmt.Sprintf("%s declares field %q twice", name, f.FieldName()))
		}
		s.byName[f.FieldName()] = f
	}
	return s
}

// Name returns the type name the schema describes.
func (s *Schema[T, O]) Name() string { return s.name }

// FieldNames returns the serialized field names in declaration order.
func (s *Schema[T, O]) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.FieldName()
	}
	return names
}

// New returns a value with every field at its default.
func (s *Schema[T, O]) New() *T {
	t := new(T)
	s.Reset(t)
	return t
}

// Reset puts every field of t back to its default. Children are dropped and
// will be recreated lazily.
func (s *Schema[T, O]) Reset(t *T) {
	for _, f := range s.fields {
		f.reset(t)
	}
}

// IsDefault reports whether every field of t holds its default and every
// child is itself default. A nil t is default.
func (s *Schema[T, O]) IsDefault(t *T) bool {
	if t == nil {
		return true
	}
	for _, f := range s.fields {
		if !f.isDefault(t) {
			return false
		}
	}
	return true
}

// Specified reports whether the named field of t differs from its default.
func (s *Schema[T, O]) Specified(t *T, name string) bool {
	f, ok := s.byName[name]
	if !ok || t == nil {
		return false
	}
	return !f.isDefault(t)
}

// Clone returns a detached copy of t. Scalars are copied by value and every
// child is cloned, so the copy shares no children with t. Back-references
// that are not managed by the schema (such as an owner) are kept as-is.
func (s *Schema[T, O]) Clone(t *T) *T {
	if t == nil {
		return nil
	}
	c := *t
	for _, f := range s.fields {
		f.clone(&c, t)
	}
	return &c
}

// Combine fills the gaps of dst from ref: every scalar of dst still at its
// default takes the value of ref, then children are combined recursively.
// Values dst already customized are never changed.
func (s *Schema[T, O]) Combine(dst, ref *T) {
	if dst == nil || ref == nil {
		return
	}
	for _, f := range s.fields {
		if !f.composite() {
			f.combine(dst, ref)
		}
	}
	for _, f := range s.fields {
		if f.composite() {
			f.combine(dst, ref)
		}
	}
}

// OptionsDefault reports whether o sets nothing.
func (s *Schema[T, O]) OptionsDefault(o *O) bool {
	if o == nil {
		return true
	}
	for _, f := range s.fields {
		if !f.optionIsDefault(o) {
			return false
		}
	}
	return true
}

// CloneOptions returns a copy of o with nested options cloned.
func (s *Schema[T, O]) CloneOptions(o *O) *O {
	if o == nil {
		return nil
	}
	c := *o
	for _, f := range s.fields {
		f.cloneOption(&c, o)
	}
	return &c
}

// ValidateOptions checks every value o sets, recursively, without applying anything.
func (s *Schema[T, O]) ValidateOptions(o *O) error {
	if o == nil {
		return nil
	}
	for _, f := range s.fields {
		if err := f.validate(o); err != nil {
			return err
		}
	}
	return nil
}

// Apply overwrites every field of dst that o sets. Fields o leaves nil are
// untouched. All values are validated before the first assignment, so a
// failing Apply leaves dst unchanged.
func (s *Schema[T, O]) Apply(dst *T, o *O) error {
	if s.OptionsDefault(o) {
		return nil
	}
	if err := s.ValidateOptions(o); err != nil {
		return err
	}
	for _, f := range s.fields {
		if err := f.apply(dst, o); err != nil {
			return err
		}
	}
	return nil
}

// Encode renders t as a JSON object in field order, omitting every field
// that is at its default.
func (s *Schema[T, O]) Encode(t *T) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	for _, f := range s.fields {
		v, ok := f.encode(t)
		if !ok {
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("could not encode %s.%s: %w", s.name, f.FieldName(), err)
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(f.FieldName())
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(data)
		n++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode replaces the design of t with the JSON object in data. Every value
// goes through the same validation as its setter and unknown keys are
// rejected. A failing Decode leaves t unchanged.
func (s *Schema[T, O]) Decode(t *T, data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("could not decode %s: %w", s.name, err)
	}

	unknown := make([]string, 0)
	for k := range raw {
		if _, ok := s.byName[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &FieldError{Field: unknown[0], Err: fmt.Errorf("%w in %s", ErrUnknownField, s.name)}
	}

	scratch := *t
	s.Reset(&scratch)
	for _, f := range s.fields {
		r, ok := raw[f.FieldName()]
		if !ok {
			continue
		}
		if err := f.decode(&scratch, r); err != nil {
			return err
		}
	}
	*t = scratch
	// Children were attached to scratch.
	for _, f := range s.fields {
		f.clone(t, &scratch)
	}
	return nil
}
