package roster

import (
	"fmt"
	"slices"
)

// Dataset is a validated roster paired with its trait catalogue.
// It is immutable after NewDataset returns and safe for concurrent readers.
type Dataset struct {
	characters []Character
	byName     map[string]int
	catalogue  Catalogue
}

// NewDataset validates characters against catalogue and freezes both.
//
// Contract:
//   - character names are non-empty and unique;
//   - cost ≥ 1;
//   - every referenced trait exists in catalogue (ErrUnknownTrait otherwise);
//   - every trait has at least one positive, strictly ascending threshold.
//
// Duplicate trait or role tags inside one character are collapsed, keeping
// first-seen order. Input slices are copied.
func NewDataset(characters []Character, catalogue Catalogue) (*Dataset, error) {
	cat := make(Catalogue, len(catalogue))
	for name, t := range catalogue {
		if err := validateThresholds(name, t.Thresholds); err != nil {
			return nil, err
		}
		t.Name = name
		t.Thresholds = slices.Clone(t.Thresholds)
		cat[name] = t
	}

	ds := &Dataset{
		characters: make([]Character, 0, len(characters)),
		byName:     make(map[string]int, len(characters)),
		catalogue:  cat,
	}
	for _, c := range characters {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidCharacter)
		}
		if c.Cost < 1 {
			return nil, fmt.Errorf("%w: %s has cost %d", ErrInvalidCharacter, c.Name, c.Cost)
		}
		if _, dup := ds.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCharacter, c.Name)
		}
		c.Traits = dedupe(c.Traits)
		c.Roles = dedupe(c.Roles)
		for _, t := range c.Traits {
			if _, ok := cat[t]; !ok {
				return nil, fmt.Errorf("%w: %s references %q", ErrUnknownTrait, c.Name, t)
			}
		}
		ds.byName[c.Name] = len(ds.characters)
		ds.characters = append(ds.characters, c)
	}

	return ds, nil
}

func validateThresholds(name string, th []int) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTrait)
	}
	if len(th) == 0 {
		return fmt.Errorf("%w: %s has no thresholds", ErrInvalidTrait, name)
	}
	prev := 0
	for _, v := range th {
		if v <= prev {
			return fmt.Errorf("%w: %s thresholds %v not positive ascending", ErrInvalidTrait, name, th)
		}
		prev = v
	}

	return nil
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}

	return out
}

// Characters returns the roster in file order. Callers must not mutate it.
func (d *Dataset) Characters() []Character { return d.characters }

// Catalogue returns the trait catalogue. Callers must not mutate it.
func (d *Dataset) Catalogue() Catalogue { return d.catalogue }

// Len returns the roster size.
func (d *Dataset) Len() int { return len(d.characters) }

// Character returns the character named name.
func (d *Dataset) Character(name string) (Character, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Character{}, false
	}

	return d.characters[i], true
}

// Names returns the character names in lexical order.
func (d *Dataset) Names() []string {
	names := make([]string, 0, len(d.characters))
	for _, c := range d.characters {
		names = append(names, c.Name)
	}
	slices.Sort(names)

	return names
}

// Without returns the roster minus every name in banned, preserving order.
// Unknown names in banned are ignored.
func (d *Dataset) Without(banned []string) []Character {
	if len(banned) == 0 {
		return slices.Clone(d.characters)
	}
	skip := make(map[string]struct{}, len(banned))
	for _, b := range banned {
		skip[b] = struct{}{}
	}
	out := make([]Character, 0, len(d.characters))
	for _, c := range d.characters {
		if _, ok := skip[c.Name]; ok {
			continue
		}
		out = append(out, c)
	}

	return out
}
