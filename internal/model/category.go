package model

import (
	"encoding/json"
	"fmt"
)

// RefKind says how a CategoryRef identifies its category.
type RefKind int

const (
	RefByID RefKind = iota
	RefByName
)

func (k RefKind) String() string {
	switch k {
	case RefByID:
		return "id"
	case RefByName:
		return "name"
	default:
		return "unknown"
	}
}

// ParseRefKind is the inverse of RefKind.String.
func ParseRefKind(s string) (RefKind, error) {
	switch s {
	case "id":
		return RefByID, nil
	case "name":
		return RefByName, nil
	}
	return 0, fmt.Errorf("unknown category ref kind %q", s)
}

// CategoryRef points an expense at a category, either by ID or by name.
// It is resolved once when the expense enters the system.
type CategoryRef struct {
	Kind  RefKind
	Value string
}

// ByID returns a reference that matches the category with this ID.
func ByID(id string) CategoryRef {
	return CategoryRef{Kind: RefByID, Value: id}
}

// ByName returns a reference that matches the category with this name.
func ByName(name string) CategoryRef {
	return CategoryRef{Kind: RefByName, Value: name}
}

// Matches reports whether the reference points at c.
func (r CategoryRef) Matches(c Category) bool {
	switch r.Kind {
	case RefByID:
		return r.Value != "" && r.Value == c.ID
	case RefByName:
		return r.Value == c.Name
	}
	return false
}

// Label returns a human readable name for the reference, looking the
// category up when the reference is by ID.
func (r CategoryRef) Label(categories []Category) string {
	if r.Kind == RefByName {
		return r.Value
	}
	for _, c := range categories {
		if r.Matches(c) {
			return c.Name
		}
	}
	return r.Value
}

func (r CategoryRef) String() string {
	return r.Kind.String() + ":" + r.Value
}

type categoryRefJSON struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// MarshalJSON encodes the reference as {"kind": "id"|"name", "value": ...}.
func (r CategoryRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(categoryRefJSON{Kind: r.Kind.String(), Value: r.Value})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	var raw categoryRefJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := ParseRefKind(raw.Kind)
	if err != nil {
		return err
	}
	r.Kind = kind
	r.Value = raw.Value
	return nil
}
