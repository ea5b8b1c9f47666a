package style

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klytics/sheetkit/internal/design"
)

// MaxInheritDepth bounds the number of ancestors Resolve will follow.
const MaxInheritDepth = 32

var (
	// ErrStyleNotFound is returned when a style name is not registered.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInheritCycle is returned when a style is its own ancestor.
	ErrInheritCycle = errors.New("style inheritance cycle")

	// ErrInheritDepth is returned when an inheritance chain exceeds MaxInheritDepth.
	ErrInheritDepth = errors.New("style inheritance chain too deep")

	// ErrOwned is returned when a style already registered elsewhere is added.
	ErrOwned = errors.New("style already belongs to a collection")
)

// Styles is a collection of cell styles keyed by name. It owns its members
// and is the scope in which Inherits names are looked up.
type Styles struct {
	items []*CellStyle
}

// NewStyles returns an empty collection.
func NewStyles() *Styles { return &Styles{} }

// Add registers s. The name must be non-empty and unique in the collection.
func (st *Styles) Add(s *CellStyle) error {
	if s == nil {
		return &design.FieldError{Field: "style", Err: design.ErrNull}
	}
	if s.name == "" {
		return &design.FieldError{Field: "name", Err: design.ErrNull}
	}
	if s.owner != nil && s.owner.contains(s) {
		return fmt.Errorf("%w: %q", ErrOwned, s.name)
	}
	if _, dup := st.Lookup(s.name); dup {
		return &design.FieldError{Field: "name", Value: s.name, Err: design.ErrDuplicateKey}
	}
	s.owner = st
	st.items = append(st.items, s)
	return nil
}

// Define creates a style called name that inherits parent, registers it, and
// returns it. parent may be empty.
func (st *Styles) Define(name, parent string) (*CellStyle, error) {
	s, err := NewNamedCellStyle(name)
	if err != nil {
		return nil, err
	}
	if err := s.SetInherits(parent); err != nil {
		return nil, err
	}
	if err := st.Add(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Remove unregisters the named style and reports whether it existed.
func (st *Styles) Remove(name string) bool {
	for i, s := range st.items {
		if s.name == name {
			s.owner = nil
			st.items = append(st.items[:i:i], st.items[i+1:]...)
			return true
		}
	}
	return false
}

func (st *Styles) contains(s *CellStyle) bool {
	for _, m := range st.items {
		if m == s {
			return true
		}
	}
	return false
}

// Lookup returns the named style.
func (st *Styles) Lookup(name string) (*CellStyle, bool) {
	for _, s := range st.items {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// GetBy returns the named style, or a fresh empty style when there is none.
func (st *Styles) GetBy(name string) *CellStyle {
	if s, ok := st.Lookup(name); ok {
		return s
	}
	return NewCellStyle()
}

// Names returns the style names in registration order.
func (st *Styles) Names() []string {
	names := make([]string, len(st.items))
	for i, s := range st.items {
		names[i] = s.name
	}
	return names
}

// Len returns the number of styles.
func (st *Styles) Len() int { return len(st.items) }

// Items returns the styles in registration order.
func (st *Styles) Items() []*CellStyle {
	out := make([]*CellStyle, len(st.items))
	copy(out, st.items)
	return out
}

// IsDefault reports whether every style's design is at its defaults.
func (st *Styles) IsDefault() bool {
	for _, s := range st.items {
		if !s.IsDefault() {
			return false
		}
	}
	return true
}

// Clone returns a collection of copies registered in the clone.
func (st *Styles) Clone() *Styles {
	out := NewStyles()
	for _, s := range st.items {
		c := s.Clone()
		c.owner = out
		out.items = append(out.items, c)
	}
	return out
}

// Combine merges ref into st. Styles with the same name are combined;
// styles only ref holds are adopted as copies.
func (st *Styles) Combine(ref *Styles) {
	if ref == nil {
		return
	}
	for _, r := range ref.items {
		if s, ok := st.Lookup(r.name); ok {
			s.Combine(r)
			continue
		}
		c := r.Clone()
		c.owner = st
		st.items = append(st.items, c)
	}
}

// Chain returns name followed by its ancestors, nearest first. Ancestors the
// collection does not hold end the chain.
func (st *Styles) Chain(name string) ([]string, error) {
	s, ok := st.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	chain := []string{name}
	seen := map[string]bool{name: true}
	for s.inherits != "" {
		if len(chain) > MaxInheritDepth {
			return chain, fmt.Errorf("%w: %q exceeds %d ancestors", ErrInheritDepth, name, MaxInheritDepth)
		}
		if seen[s.inherits] {
			return chain, fmt.Errorf("%w: %q -> %q", ErrInheritCycle, s.name, s.inherits)
		}
		seen[s.inherits] = true
		parent, ok := st.Lookup(s.inherits)
		if !ok {
			break
		}
		chain = append(chain, parent.name)
		s = parent
	}
	return chain, nil
}

// Resolve returns a copy of the named style combined with every
// ancestor, nearest first, so the closest definition of each field wins.
func (st *Styles) Resolve(name string) (*CellStyle, error) {
	chain, err := st.Chain(name)
	if err != nil {
		return nil, err
	}
	s, _ := st.Lookup(name)
	out := s.Clone()
	for _, ancestor := range chain[1:] {
		p, _ := st.Lookup(ancestor)
		out.Combine(p)
	}
	return out, nil
}

// MarshalJSON encodes the collection as an array of styles.
func (st *Styles) MarshalJSON() ([]byte, error) {
	if st.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(st.items)
}

// UnmarshalJSON replaces the collection with the decoded styles.
func (st *Styles) UnmarshalJSON(data []byte) error {
	var items []*CellStyle
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	for _, s := range st.items {
		s.owner = nil
	}
	st.items = nil
	for i, s := range items {
		if err := st.Add(s); err != nil {
			return fmt.Errorf("styles[%d]: %w", i, err)
		}
	}
	return nil
}
