// Package roster defines the immutable domain model of the solver: characters,
// trait definitions, the trait catalogue and the validated Dataset that pairs
// them. It also owns loading both halves from JSON or YAML files.
//
// Key guarantees:
//   - A Dataset is constructed only through NewDataset (or a loader that calls
//     it), so every trait referenced by a character exists in the catalogue.
//   - A missing trait is a configuration error (ErrUnknownTrait) reported once
//     at load time, never while searching.
//   - Characters and traits are read-only after construction; a Dataset may be
//     shared by any number of concurrent solve calls.
//
// Errors:
//   - ErrUnknownTrait        a character references a trait absent from the catalogue.
//   - ErrDuplicateCharacter  two characters share a name.
//   - ErrInvalidCharacter    a character record fails validation (empty name, cost < 1, ...).
//   - ErrInvalidTrait        a trait record fails validation (no thresholds, bad kind, ...).
//   - ErrUnsupportedFormat   a data file has an extension other than .json/.yaml/.yml.
package roster

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownTrait is returned when a character references a trait that the
	// catalogue does not define.
	ErrUnknownTrait = errors.New("roster: unknown trait")

	// ErrDuplicateCharacter is returned when two characters share a name.
	ErrDuplicateCharacter = errors.New("roster: duplicate character")

	// ErrInvalidCharacter is returned when a character record is malformed.
	ErrInvalidCharacter = errors.New("roster: invalid character")

	// ErrInvalidTrait is returned when a trait record is malformed.
	ErrInvalidTrait = errors.New("roster: invalid trait")

	// ErrUnsupportedFormat is returned for data files of unknown encoding.
	ErrUnsupportedFormat = errors.New("roster: unsupported format")
)

// Role tags the search logic understands. Other tags are carried through.
const (
	RoleTank  = "tank"
	RoleCarry = "carry"
)

// TraitKind classifies a trait; origins weigh more than classes in the
// weighted scoring variants.
type TraitKind int

const (
	Origin TraitKind = iota
	Class
)

// String returns the wire name of the kind.
func (k TraitKind) String() string {
	switch k {
	case Origin:
		return "origin"
	case Class:
		return "class"
	default:
		return fmt.Sprintf("TraitKind(%d)", int(k))
	}
}

// ParseTraitKind maps "origin"/"class" to a TraitKind.
func ParseTraitKind(s string) (TraitKind, error) {
	switch s {
	case "origin":
		return Origin, nil
	case "class":
		return Class, nil
	default:
		return 0, fmt.Errorf("%w: kind %q", ErrInvalidTrait, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k TraitKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TraitKind) UnmarshalText(b []byte) error {
	v, err := ParseTraitKind(string(b))
	if err != nil {
		return err
	}
	*k = v

	return nil
}

// Character is one selectable unit of the roster.
// Locked is display-only and never influences the search.
type Character struct {
	Name   string   `json:"name" yaml:"name"`
	Cost   int      `json:"cost" yaml:"cost"`
	Traits []string `json:"traits" yaml:"traits"`
	Roles  []string `json:"roles" yaml:"roles"`
	Locked bool     `json:"locked" yaml:"locked"`
}

// HasRole reports whether the character carries role tag r.
func (c Character) HasRole(r string) bool { return slices.Contains(c.Roles, r) }

// HasTrait reports whether the character carries trait t.
func (c Character) HasTrait(t string) bool { return slices.Contains(c.Traits, t) }

// Clone returns a deep copy so snapshots never alias roster slices.
func (c Character) Clone() Character {
	c.Traits = slices.Clone(c.Traits)
	c.Roles = slices.Clone(c.Roles)

	return c
}

// Trait is a synergy definition: the ascending member counts at which its
// tiers activate.
type Trait struct {
	Name       string    `json:"-" yaml:"-"`
	Thresholds []int     `json:"thresholds" yaml:"thresholds"`
	Kind       TraitKind `json:"type" yaml:"type"`
}

// MinThreshold returns the lowest activation count.
// Thresholds are validated non-empty and ascending at load time.
func (t Trait) MinThreshold() int { return t.Thresholds[0] }

// Catalogue maps trait names to their definitions.
type Catalogue map[string]Trait

// Lookup returns the trait named name.
func (c Catalogue) Lookup(name string) (Trait, bool) {
	t, ok := c[name]

	return t, ok
}

// Names returns the trait names in lexical order.
func (c Catalogue) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
