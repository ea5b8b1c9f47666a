package design

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EnumSet is the closed table of member names for an enumeration type.
// Member i is named names[i]; any other value is invalid.
type EnumSet[E ~uint8] struct {
	names []string
}

// NewEnum declares the members of E in order, starting at zero.
func NewEnum[E ~uint8](names ...string) *EnumSet[E] {
	return &EnumSet[E]{names: names}
}

// Valid reports whether e is a declared member.
func (s *EnumSet[E]) Valid(e E) bool {
	return int(e) < len(s.names)
}

// String returns the member name, or a diagnostic form for undeclared values.
func (s *EnumSet[E]) String(e E) string {
	if !s.Valid(e) {
		return fmt.Sprintf("%T(%d)", e, uint8(e))
	}
	return s.names[e]
}

// Names returns the declared member names in order.
func (s *EnumSet[E]) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Parse looks a member up by name, ignoring case.
func (s *EnumSet[E]) Parse(name string) (E, error) {
	for i, n := range s.names {
		if strings.EqualFold(n, name) {
			return E(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of %s)", ErrInvalidEnum, name, strings.Join(s.names, ", "))
}

// MarshalText encodes a member as its name.
func (s *EnumSet[E]) MarshalText(e E) ([]byte, error) {
	if !s.Valid(e) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnum, s.String(e))
	}
	return []byte(s.names[e]), nil
}

// UnmarshalText decodes a member name into p.
func (s *EnumSet[E]) UnmarshalText(p *E, text []byte) error {
	v, err := s.Parse(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// YesNo is the two-state switch used by every design node.
type YesNo uint8

const (
	No YesNo = iota
	Yes
)

var yesNoNames = NewEnum[YesNo]("No", "Yes")

// Bool converts b to Yes or No.
func Bool(b bool) YesNo {
	if b {
		return Yes
	}
	return No
}

func (v YesNo) Valid() bool { return yesNoNames.Valid(v) }
func (v YesNo) String() string { return yesNoNames.String(v) }
func (v YesNo) Bool() bool { return v == Yes }
func (v YesNo) MarshalText() ([]byte, error) { return yesNoNames.MarshalText(v) }
func (v *YesNo) UnmarshalText(b []byte) error { return yesNoNames.UnmarshalText(v, b) }

// UnmarshalJSON accepts "Yes"/"No" as well as JSON booleans, so YAML and TOML
// documents can write `bold: true`.
func (v *YesNo) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Bool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEnum, data)
	}
	return v.UnmarshalText([]byte(s))
}
