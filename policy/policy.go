// Package policy defines trait requirement policies: how many copies of a trait
// a team needs before it adds value, and how much an active trait is worth.
//
// A Policy is data, not code. Each trait resolves through a small rule table:
//
//	Standard  → need = lowest activation threshold of the trait
//	FixedNeed → need = Rule.Need (a trait capped at one copy, for example)
//	Ignored   → need = Unreachable; the trait never scores
//
// and each trait kind resolves through a weight table (origin, class).
// Scoring variants differ only in these tables, so one search engine serves
// all of them.
//
// Built-in variants:
//   - Balanced ("balanced", alias "ryze"): origin 3, class 1, Targon need 1, Darkin ignored.
//   - Strict   ("strict", alias "bronze"): origin 1, class 1, Targon ignored.
package policy

import (
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/katalvlaran/teamsolver/roster"
)

// Unreachable is the need of an ignored trait: no count can satisfy it.
const Unreachable = math.MaxInt

var (
	// ErrInvalidPolicy is returned by Validate for malformed tables.
	ErrInvalidPolicy = errors.New("policy: invalid policy")

	// ErrUnknownPolicy is returned when a variant name is not registered.
	ErrUnknownPolicy = errors.New("policy: unknown policy")
)

// RuleKind selects how a trait's need is resolved.
type RuleKind int

const (
	Standard RuleKind = iota
	Ignored
	FixedNeed
)

// String returns the config name of the kind.
func (k RuleKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case Ignored:
		return "ignored"
	case FixedNeed:
		return "fixed"
	default:
		return fmt.Sprintf("RuleKind(%d)", int(k))
	}
}

// ParseRuleKind maps a config name to a RuleKind.
func ParseRuleKind(s string) (RuleKind, error) {
	switch s {
	case "", "standard":
		return Standard, nil
	case "ignored", "ignore":
		return Ignored, nil
	case "fixed", "fixed-need":
		return FixedNeed, nil
	default:
		return 0, fmt.Errorf("%w: rule kind %q", ErrInvalidPolicy, s)
	}
}

// Rule overrides the default need resolution for one trait.
type Rule struct {
	Kind RuleKind
	Need int // used by FixedNeed only
}

// Policy is one scoring variant.
type Policy struct {
	Name         string
	Rules        map[string]Rule
	OriginWeight float64
	ClassWeight  float64
}

// Need returns the lowest count of trait t that adds value.
func (p *Policy) Need(t roster.Trait) int {
	r, ok := p.Rules[t.Name]
	if !ok {
		return t.MinThreshold()
	}
	switch r.Kind {
	case Ignored:
		return Unreachable
	case FixedNeed:
		return r.Need
	default:
		return t.MinThreshold()
	}
}

// Ignored reports whether trait name never contributes to the score.
func (p *Policy) Ignored(name string) bool {
	r, ok := p.Rules[name]

	return ok && r.Kind == Ignored
}

// Weight returns the score of one active trait of kind k.
func (p *Policy) Weight(k roster.TraitKind) float64 {
	if k == roster.Origin {
		return p.OriginWeight
	}

	return p.ClassWeight
}

// Validate checks weights are positive and fixed needs are at least one.
func (p *Policy) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPolicy)
	}
	if !(p.OriginWeight > 0) || !(p.ClassWeight > 0) {
		return fmt.Errorf("%w: %s weights must be positive", ErrInvalidPolicy, p.Name)
	}
	for trait, r := range p.Rules {
		if r.Kind == FixedNeed && r.Need < 1 {
			return fmt.Errorf("%w: %s fixes %s at need %d", ErrInvalidPolicy, p.Name, trait, r.Need)
		}
	}

	return nil
}

// Clone returns a deep copy of p.
func (p *Policy) Clone() *Policy {
	cp := *p
	cp.Rules = maps.Clone(p.Rules)

	return &cp
}

// Variant names of the built-in policies.
const (
	BalancedName = "balanced"
	StrictName   = "strict"
)

// Balanced weighs origins three times classes. Targon is capped at one
// copy so a single member activates it; Darkin never scores.
func Balanced() *Policy {
	return &Policy{
		Name: BalancedName,
		Rules: map[string]Rule{
			"Targon": {Kind: FixedNeed, Need: 1},
			"Darkin": {Kind: Ignored},
		},
		OriginWeight: 3,
		ClassWeight:  1,
	}
}

// Strict counts every active trait once and ignores Targon.
func Strict() *Policy {
	return &Policy{
		Name: StrictName,
		Rules: map[string]Rule{
			"Targon": {Kind: Ignored},
		},
		OriginWeight: 1,
		ClassWeight:  1,
	}
}

// New is a factory for the built-in variants.
func New(name string) (*Policy, error) {
	switch name {
	case BalancedName, "ryze":
		return Balanced(), nil
	case StrictName, "bronze":
		return Strict(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
