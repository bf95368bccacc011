// Package roster_test covers dataset validation and the JSON/YAML loaders.
// Focus:
//  1. Load-time sentinels (unknown trait, duplicates, malformed records).
//  2. Set semantics for trait/role tags.
//  3. Format selection by extension and directory lookup.
package roster_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/teamsolver/roster"
)

func smallCatalogue() roster.Catalogue {
	return roster.Catalogue{
		"Ionia":    {Thresholds: []int{3, 5, 7}, Kind: roster.Origin},
		"Sorcerer": {Thresholds: []int{2, 4}, Kind: roster.Class},
	}
}

func TestNewDataset_Valid(t *testing.T) {
	ds, err := roster.NewDataset([]roster.Character{
		{Name: "Ahri", Cost: 4, Traits: []string{"Ionia", "Sorcerer", "Ionia"}, Roles: []string{"carry", "carry"}},
		{Name: "Shen", Cost: 3, Traits: []string{"Ionia"}, Roles: []string{"tank"}},
	}, smallCatalogue())
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	ahri, ok := ds.Character("Ahri")
	require.True(t, ok)
	assert.Equal(t, []string{"Ionia", "Sorcerer"}, ahri.Traits, "duplicate traits collapse")
	assert.Equal(t, []string{"carry"}, ahri.Roles)
	assert.True(t, ahri.HasRole(roster.RoleCarry))
	assert.False(t, ahri.HasRole(roster.RoleTank))
	assert.Equal(t, []string{"Ahri", "Shen"}, ds.Names())
	assert.Equal(t, []string{"Ionia", "Sorcerer"}, ds.Catalogue().Names())

	tr, ok := ds.Catalogue().Lookup("Ionia")
	require.True(t, ok)
	assert.Equal(t, "Ionia", tr.Name, "name is filled from the catalogue key")
	assert.Equal(t, 3, tr.MinThreshold())
}

func TestNewDataset_Errors(t *testing.T) {
	cases := []struct {
		name  string
		chars []roster.Character
		cat   roster.Catalogue
		want  error
	}{
		{
			name:  "unknown trait",
			chars: []roster.Character{{Name: "Ahri", Cost: 4, Traits: []string{"Spirit"}}},
			cat:   smallCatalogue(),
			want:  roster.ErrUnknownTrait,
		},
		{
			name: "duplicate character",
			chars: []roster.Character{
				{Name: "Ahri", Cost: 4},
				{Name: "Ahri", Cost: 3},
			},
			cat:  smallCatalogue(),
			want: roster.ErrDuplicateCharacter,
		},
		{
			name:  "empty name",
			chars: []roster.Character{{Cost: 1}},
			cat:   smallCatalogue(),
			want:  roster.ErrInvalidCharacter,
		},
		{
			name:  "zero cost",
			chars: []roster.Character{{Name: "Ahri"}},
			cat:   smallCatalogue(),
			want:  roster.ErrInvalidCharacter,
		},
		{
			name: "descending thresholds",
			cat:  roster.Catalogue{"Ionia": {Thresholds: []int{5, 3}}},
			want: roster.ErrInvalidTrait,
		},
		{
			name: "no thresholds",
			cat:  roster.Catalogue{"Ionia": {}},
			want: roster.ErrInvalidTrait,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := roster.NewDataset(tc.chars, tc.cat)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v, want %v", err, tc.want)
		})
	}
}

func TestDataset_Without(t *testing.T) {
	ds, err := roster.NewDataset([]roster.Character{
		{Name: "A", Cost: 1}, {Name: "B", Cost: 1}, {Name: "C", Cost: 1},
	}, roster.Catalogue{})
	require.NoError(t, err)

	got := ds.Without([]string{"B", "Nobody"})
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "C", got[1].Name)
	assert.Len(t, ds.Without(nil), 3)
}

func TestTraitKind_Text(t *testing.T) {
	k, err := roster.ParseTraitKind("class")
	require.NoError(t, err)
	assert.Equal(t, roster.Class, k)
	assert.Equal(t, "origin", roster.Origin.String())

	_, err = roster.ParseTraitKind("legend")
	assert.ErrorIs(t, err, roster.ErrInvalidTrait)
}

func TestLoadFS_JSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"champions.json": {Data: []byte(`[
			{"name": "Ahri", "cost": 4, "traits": ["Ionia", "Sorcerer"], "roles": ["carry"], "locked": true},
			{"name": "Shen", "cost": 3, "traits": ["Ionia"], "roles": ["tank"]}
		]`)},
		"traits.yaml": {Data: []byte(strings.Join([]string{
			"Ionia:",
			"  thresholds: [3, 5, 7]",
			"  type: origin",
			"Sorcerer:",
			"  thresholds: [2, 4]",
			"  type: class",
		}, "\n"))},
	}

	champions, err := roster.FindFile(fsys, roster.ChampionsBase)
	require.NoError(t, err)
	traits, err := roster.FindFile(fsys, roster.TraitsBase)
	require.NoError(t, err)
	assert.Equal(t, "traits.yaml", traits)

	ds, err := roster.LoadFS(fsys, champions, traits)
	require.NoError(t, err)
	ahri, ok := ds.Character("Ahri")
	require.True(t, ok)
	assert.True(t, ahri.Locked)
	sorc, _ := ds.Catalogue().Lookup("Sorcerer")
	assert.Equal(t, roster.Class, sorc.Kind)
}

func TestLoadFS_Errors(t *testing.T) {
	traits := `{"Ionia": {"thresholds": [3], "type": "origin"}}`
	cases := []struct {
		name      string
		champions string
		traits    string
		want      error
	}{
		{"unknown trait", `[{"name":"Ahri","cost":4,"traits":["Spirit"]}]`, traits, roster.ErrUnknownTrait},
		{"missing name", `[{"cost":4}]`, traits, roster.ErrInvalidCharacter},
		{"bad kind", `[]`, `{"Ionia": {"thresholds": [3], "type": "legend"}}`, roster.ErrInvalidTrait},
		{"zero threshold", `[]`, `{"Ionia": {"thresholds": [0], "type": "origin"}}`, roster.ErrInvalidTrait},
		{"broken json", `[{`, traits, roster.ErrInvalidCharacter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"champions.json": {Data: []byte(tc.champions)},
				"traits.json":    {Data: []byte(tc.traits)},
			}
			_, err := roster.LoadFS(fsys, "champions.json", "traits.json")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, err := roster.FormatOf("x/traits.YML")
	require.NoError(t, err)
	assert.Equal(t, roster.FormatYAML, f)

	_, err = roster.FormatOf("traits.toml")
	assert.ErrorIs(t, err, roster.ErrUnsupportedFormat)

	_, err = roster.FindFile(fstest.MapFS{}, roster.TraitsBase)
	assert.Error(t, err)
}
