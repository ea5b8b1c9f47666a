package design

import (
	"encoding/json"
	"fmt"
)

// Field describes one member of a design node type T and its options type O.
// Fields are created with Scalar, Child, and List and collected into a Schema.
type Field[T, O any] interface {
	// FieldName is the serialized name of the field.
	FieldName() string

	composite() bool
	isDefault(t *T) bool
	reset(t *T)
	clone(dst, src *T)
	combine(dst, ref *T)
	validate(o *O) error
	apply(dst *T, o *O) error
	optionIsDefault(o *O) bool
	cloneOption(dst, src *O)
	encode(t *T) (any, bool)
	decode(t *T, raw json.RawMessage) error
}

// Node is satisfied by a pointer to every design node type.
type Node[T, O any] interface {
	*T
	IsDefault() bool
	Clone() *T
	Combine(ref *T)
	ApplyOptions(o *O) error
	json.Marshaler
	json.Unmarshaler
}

// Options is satisfied by a pointer to every options node type.
type Options[O any] interface {
	*O
	IsDefault() bool
	Clone() *O
	Validate() error
}

// ScalarField is a comparable value with a compile-time default.
type ScalarField[T, O any, V comparable] struct {
	name     string
	def      V
	node     func(*T) *V
	opt      func(*O) **V
	checks   []Check[V]
	identity bool
}

// Scalar declares a value field. opt may be nil when the options type has no
// counterpart for the field.
func Scalar[T, O any, V comparable](name string, def V, node func(*T) *V, opt func(*O) **V, checks ...Check[V]) *ScalarField[T, O, V] {
	return &ScalarField[T, O, V]{name: name, def: def, node: node, opt: opt, checks: checks}
}

// Identity marks the field as part of the node's identity (a style name, a
// collection key). Identity fields are cloned and serialized but never
// combined and never counted by IsDefault.
func (f *ScalarField[T, O, V]) Identity() *ScalarField[T, O, V] {
	f.identity = true
	return f
}

func (f *ScalarField[T, O, V]) FieldName() string { return f.name }

// Default returns the declared default value.
func (f *ScalarField[T, O, V]) Default() V { return f.def }

// Get returns the current value.
func (f *ScalarField[T, O, V]) Get(t *T) V { return *f.node(t) }

// Check validates v without assigning it.
func (f *ScalarField[T, O, V]) Check(v V) error {
	for _, c := range f.checks {
		if err := c(v); err != nil {
			return &FieldError{Field: f.name, Value: v, Err: err}
		}
	}
	return nil
}

// Set validates v and assigns it. Nothing is assigned when validation fails.
func (f *ScalarField[T, O, V]) Set(t *T, v V) error {
	if err := f.Check(v); err != nil {
		return err
	}
	*f.node(t) = v
	return nil
}

func (f *ScalarField[T, O, V]) composite() bool { return false }

func (f *ScalarField[T, O, V]) isDefault(t *T) bool {
	return f.identity || *f.node(t) == f.def
}

func (f *ScalarField[T, O, V]) reset(t *T) { *f.node(t) = f.def }

func (f *ScalarField[T, O, V]) clone(dst, src *T) {}

func (f *ScalarField[T, O, V]) combine(dst, ref *T) {
	if f.identity {
		return
	}
	if p := f.node(dst); *p == f.def {
		*p = *f.node(ref)
	}
}

func (f *ScalarField[T, O, V]) option(o *O) *V {
	if f.opt == nil {
		return nil
	}
	return *f.opt(o)
}

func (f *ScalarField[T, O, V]) validate(o *O) error {
	if v := f.option(o); v != nil {
		return f.Check(*v)
	}
	return nil
}

func (f *ScalarField[T, O, V]) apply(dst *T, o *O) error {
	if v := f.option(o); v != nil {
		return f.Set(dst, *v)
	}
	return nil
}

func (f *ScalarField[T, O, V]) optionIsDefault(o *O) bool { return f.option(o) == nil }

func (f *ScalarField[T, O, V]) cloneOption(dst, src *O) {
	if v := f.option(src); v != nil {
		c := *v
		*f.opt(dst) = &c
	}
}

func (f *ScalarField[T, O, V]) encode(t *T) (any, bool) {
	v := *f.node(t)
	return v, v != f.def
}

func (f *ScalarField[T, O, V]) decode(t *T, raw json.RawMessage) error {
	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return &FieldError{Field: f.name, Value: string(raw), Err: err}
	}
	return f.Set(t, v)
}

// ChildField is an owned child design node, created lazily on first access.
type ChildField[T, O, C, CO any, PC Node[C, CO], PCO Options[CO]] struct {
	name   string
	newFn  func() *C
	node   func(*T) **C
	opt    func(*O) **CO
	attach func(*T, *C)
}

// Child declares a child node field. newFn builds a default child.
func Child[T, O, C, CO any, PC Node[C, CO], PCO Options[CO]](name string, newFn func() PC, node func(*T) **C, opt func(*O) **CO) *ChildField[T, O, C, CO, PC, PCO] {
	return &ChildField[T, O, C, CO, PC, PCO]{
		name:  name,
		newFn: func() *C { return newFn() },
		node:  node,
		opt:   opt,
	}
}

// Attach registers the hook that sets a child's back-reference to its parent.
// The hook runs whenever the engine creates or clones the child.
func (f *ChildField[T, O, C, CO, PC, PCO]) Attach(fn func(parent *T, child *C)) *ChildField[T, O, C, CO, PC, PCO] {
	f.attach = fn
	return f
}

func (f *ChildField[T, O, C, CO, PC, PCO]) FieldName() string { return f.name }

func (f *ChildField[T, O, C, CO, PC, PCO]) set(t *T, c *C) {
	*f.node(t) = c
	if f.attach != nil && c != nil {
		f.attach(t, c)
	}
}

// Get returns the child, creating a default one first if needed.
func (f *ChildField[T, O, C, CO, PC, PCO]) Get(t *T) *C {
	if c := *f.node(t); c != nil {
		return c
	}
	c := f.newFn()
	f.set(t, c)
	return c
}

// Peek returns the child without creating it.
func (f *ChildField[T, O, C, CO, PC, PCO]) Peek(t *T) *C { return *f.node(t) }

// Replace installs c as the child and attaches it. A nil c resets the child to default.
func (f *ChildField[T, O, C, CO, PC, PCO]) Replace(t *T, c *C) { f.set(t, c) }

func (f *ChildField[T, O, C, CO, PC, PCO]) composite() bool { return true }

func (f *ChildField[T, O, C, CO, PC, PCO]) isDefault(t *T) bool {
	c := *f.node(t)
	return c == nil || PC(c).IsDefault()
}

func (f *ChildField[T, O, C, CO, PC, PCO]) reset(t *T) { *f.node(t) = nil }

func (f *ChildField[T, O, C, CO, PC, PCO]) clone(dst, src *T) {
	if c := *f.node(src); c != nil {
		f.set(dst, PC(c).Clone())
	}
}

func (f *ChildField[T, O, C, CO, PC, PCO]) combine(dst, ref *T) {
	r := *f.node(ref)
	if r == nil || PC(r).IsDefault() {
		return
	}
	PC(f.Get(dst)).Combine(r)
}

func (f *ChildField[T, O, C, CO, PC, PCO]) option(o *O) *CO {
	if f.opt == nil {
		return nil
	}
	return *f.opt(o)
}

func (f *ChildField[T, O, C, CO, PC, PCO]) validate(o *O) error {
	if co := f.option(o); co != nil {
		return nest(f.name, PCO(co).Validate())
	}
	return nil
}

func (f *ChildField[T, O, C, CO, PC, PCO]) apply(dst *T, o *O) error {
	co := f.option(o)
	if co == nil || PCO(co).IsDefault() {
		return nil
	}
	return nest(f.name, PC(f.Get(dst)).ApplyOptions(co))
}

func (f *ChildField[T, O, C, CO, PC, PCO]) optionIsDefault(o *O) bool {
	co := f.option(o)
	return co == nil || PCO(co).IsDefault()
}

func (f *ChildField[T, O, C, CO, PC, PCO]) cloneOption(dst, src *O) {
	if co := f.option(src); co != nil {
		*f.opt(dst) = PCO(co).Clone()
	}
}

func (f *ChildField[T, O, C, CO, PC, PCO]) encode(t *T) (any, bool) {
	c := *f.node(t)
	if c == nil || PC(c).IsDefault() {
		return nil, false
	}
	return PC(c), true
}

func (f *ChildField[T, O, C, CO, PC, PCO]) decode(t *T, raw json.RawMessage) error {
	c := f.newFn()
	if err := json.Unmarshal(raw, PC(c)); err != nil {
		return nest(f.name, err)
	}
	f.set(t, c)
	return nil
}

// ListField is an ordered collection of child nodes, each identified by a key.
// Combine pairs elements by key and adopts elements found only in the reference.
type ListField[T, O, E, EO any, PE Node[E, EO], PEO Options[EO]] struct {
	name   string
	newFn  func() *E
	node   func(*T) *[]*E
	opt    func(*O) *[]*EO
	key    func(*E) string
	optKey func(*EO) string
	attach func(*T, *E)
}

// List declares a keyed collection field. optKey returns "" when an options
// element does not name its key.
func List[T, O, E, EO any, PE Node[E, EO], PEO Options[EO]](name string, newFn func() PE, node func(*T) *[]*E, opt func(*O) *[]*EO, key func(*E) string, optKey func(*EO) string) *ListField[T, O, E, EO, PE, PEO] {
	return &ListField[T, O, E, EO, PE, PEO]{
		name:   name,
		newFn:  func() *E { return newFn() },
		node:   node,
		opt:    opt,
		key:    key,
		optKey: optKey,
	}
}

// Attach registers the hook that sets an element's back-reference to its parent.
func (f *ListField[T, O, E, EO, PE, PEO]) Attach(fn func(parent *T, elem *E)) *ListField[T, O, E, EO, PE, PEO] {
	f.attach = fn
	return f
}

func (f *ListField[T, O, E, EO, PE, PEO]) FieldName() string { return f.name }

// Items returns the elements in order.
func (f *ListField[T, O, E, EO, PE, PEO]) Items(t *T) []*E { return *f.node(t) }

// Find returns the element with the given key, or nil.
func (f *ListField[T, O, E, EO, PE, PEO]) Find(t *T, key string) *E {
	for _, e := range *f.node(t) {
		if f.key(e) == key {
			return e
		}
	}
	return nil
}

// Add appends e and attaches it. It fails if an element with the same key exists.
func (f *ListField[T, O, E, EO, PE, PEO]) Add(t *T, e *E) error {
	if f.Find(t, f.key(e)) != nil {
		return &FieldError{Field: f.name, Value: f.key(e), Err: ErrDuplicateKey}
	}
	f.push(t, e)
	return nil
}

// Remove deletes the element with the given key and reports whether it existed.
func (f *ListField[T, O, E, EO, PE, PEO]) Remove(t *T, key string) bool {
	items := *f.node(t)
	for i, e := range items {
		if f.key(e) == key {
			*f.node(t) = append(items[:i:i], items[i+1:]...)
			return true
		}
	}
	return false
}

func (f *ListField[T, O, E, EO, PE, PEO]) push(t *T, e *E) {
	*f.node(t) = append(*f.node(t), e)
	if f.attach != nil {
		f.attach(t, e)
	}
}

func (f *ListField[T, O, E, EO, PE, PEO]) composite() bool { return true }

func (f *ListField[T, O, E, EO, PE, PEO]) isDefault(t *T) bool {
	for _, e := range *f.node(t) {
		if !PE(e).IsDefault() {
			return false
		}
	}
	return true
}

func (f *ListField[T, O, E, EO, PE, PEO]) reset(t *T) { *f.node(t) = nil }

func (f *ListField[T, O, E, EO, PE, PEO]) clone(dst, src *T) {
	items := *f.node(src)
	*f.node(dst) = nil
	for _, e := range items {
		f.push(dst, PE(e).Clone())
	}
}

func (f *ListField[T, O, E, EO, PE, PEO]) combine(dst, ref *T) {
	for _, r := range *f.node(ref) {
		if e := f.Find(dst, f.key(r)); e != nil {
			PE(e).Combine(r)
			continue
		}
		f.push(dst, PE(r).Clone())
	}
}

func (f *ListField[T, O, E, EO, PE, PEO]) options(o *O) []*EO {
	if f.opt == nil {
		return nil
	}
	return *f.opt(o)
}

func (f *ListField[T, O, E, EO, PE, PEO]) validate(o *O) error {
	seen := make(map[string]bool)
	for i, eo := range f.options(o) {
		path := fmt.Sprintf("%s[%d]", f.name, i)
		if eo == nil {
			return &FieldError{Field: path, Err: ErrNull}
		}
		k := f.optKey(eo)
		if k == "" {
			return &FieldError{Field: path, Err: fmt.Errorf("%w: element key", ErrNull)}
		}
		if seen[k] {
			return &FieldError{Field: path, Value: k, Err: ErrDuplicateKey}
		}
		seen[k] = true
		if err := PEO(eo).Validate(); err != nil {
			return nest(path, err)
		}
	}
	return nil
}

func (f *ListField[T, O, E, EO, PE, PEO]) apply(dst *T, o *O) error {
	for i, eo := range f.options(o) {
		e := f.Find(dst, f.optKey(eo))
		if e == nil {
			e = f.newFn()
			if err := PE(e).ApplyOptions(eo); err != nil {
				return nest(fmt.Sprintf("%s[%d]", f.name, i), err)
			}
			f.push(dst, e)
			continue
		}
		if err := PE(e).ApplyOptions(eo); err != nil {
			return nest(fmt.Sprintf("%s[%d]", f.name, i), err)
		}
	}
	return nil
}

func (f *ListField[T, O, E, EO, PE, PEO]) optionIsDefault(o *O) bool { return len(f.options(o)) == 0 }

func (f *ListField[T, O, E, EO, PE, PEO]) cloneOption(dst, src *O) {
	items := f.options(src)
	if items == nil {
		return
	}
	out := make([]*EO, len(items))
	for i, eo := range items {
		if eo != nil {
			out[i] = PEO(eo).Clone()
		}
	}
	*f.opt(dst) = out
}

func (f *ListField[T, O, E, EO, PE, PEO]) encode(t *T) (any, bool) {
	items := *f.node(t)
	if len(items) == 0 || f.isDefault(t) {
		return nil, false
	}
	out := make([]json.Marshaler, len(items))
	for i, e := range items {
		out[i] = PE(e)
	}
	return out, true
}

func (f *ListField[T, O, E, EO, PE, PEO]) decode(t *T, raw json.RawMessage) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return &FieldError{Field: f.name, Err: err}
	}
	*f.node(t) = nil
	for i, r := range elems {
		e := f.newFn()
		if err := json.Unmarshal(r, PE(e)); err != nil {
			return nest(fmt.Sprintf("%s[%d]", f.name, i), err)
		}
		if f.Find(t, f.key(e)) != nil {
			return &FieldError{Field: fmt.Sprintf("%s[%d]", f.name, i), Value: f.key(e), Err: ErrDuplicateKey}
		}
		f.push(t, e)
	}
	return nil
}
