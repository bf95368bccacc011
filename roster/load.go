package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a data file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Default base names looked up by LoadDir / LoadFS.
const (
	ChampionsBase = "champions"
	TraitsBase    = "traits"
)

// FormatOf picks a Format from the file extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// characterRecord is the on-disk shape of one character.
type characterRecord struct {
	Name   string   `json:"name" yaml:"name" validate:"required"`
	Cost   int      `json:"cost" yaml:"cost" validate:"gte=1"`
	Traits []string `json:"traits" yaml:"traits" validate:"dive,required"`
	Roles  []string `json:"roles" yaml:"roles" validate:"dive,required"`
	Locked bool     `json:"locked" yaml:"locked"`
}

// traitRecord is the on-disk shape of one trait, keyed by name in the file.
type traitRecord struct {
	Thresholds []int  `json:"thresholds" yaml:"thresholds" validate:"required,min=1,dive,gte=1"`
	Type       string `json:"type" yaml:"type" validate:"required,oneof=origin class"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func decode(r io.Reader, f Format, v any) error {
	switch f {
	case FormatJSON:
		return json.NewDecoder(r).Decode(v)
	case FormatYAML:
		return yaml.NewDecoder(r).Decode(v)
	default:
		return ErrUnsupportedFormat
	}
}

// DecodeCharacters reads a list of character records.
func DecodeCharacters(r io.Reader, f Format) ([]Character, error) {
	var recs []characterRecord
	if err := decode(r, f, &recs); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidCharacter, err)
	}
	out := make([]Character, 0, len(recs))
	for i := range recs {
		if err := validate.Struct(&recs[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d (%q): %w", ErrInvalidCharacter, i, recs[i].Name, err)
		}
		out = append(out, Character{
			Name:   recs[i].Name,
			Cost:   recs[i].Cost,
			Traits: recs[i].Traits,
			Roles:  recs[i].Roles,
			Locked: recs[i].Locked,
		})
	}

	return out, nil
}

// DecodeTraits reads a name-keyed object of trait records.
func DecodeTraits(r io.Reader, f Format) (Catalogue, error) {
	var recs map[string]traitRecord
	if err := decode(r, f, &recs); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidTrait, err)
	}
	cat := make(Catalogue, len(recs))
	for name, rec := range recs {
		if err := validate.Struct(&rec); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTrait, name, err)
		}
		kind, err := ParseTraitKind(rec.Type)
		if err != nil {
			return nil, err
		}
		cat[name] = Trait{Name: name, Thresholds: rec.Thresholds, Kind: kind}
	}

	return cat, nil
}

// LoadFS reads the character and trait files from fsys and builds a Dataset.
func LoadFS(fsys fs.FS, championsPath, traitsPath string) (*Dataset, error) {
	chars, err := readFile(fsys, championsPath, DecodeCharacters)
	if err != nil {
		return nil, err
	}
	cat, err := readFile(fsys, traitsPath, DecodeTraits)
	if err != nil {
		return nil, err
	}

	return NewDataset(chars, cat)
}

// LoadDir loads champions.{json,yaml,yml} and traits.{json,yaml,yml} from dir.
func LoadDir(dir string) (*Dataset, error) {
	fsys := os.DirFS(dir)
	champions, err := FindFile(fsys, ChampionsBase)
	if err != nil {
		return nil, err
	}
	traits, err := FindFile(fsys, TraitsBase)
	if err != nil {
		return nil, err
	}

	return LoadFS(fsys, champions, traits)
}

// FindFile returns the first existing base.json, base.yaml or base.yml in fsys.
func FindFile(fsys fs.FS, base string) (string, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		name := base + ext
		if _, err := fs.Stat(fsys, name); err == nil {
			return name, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}

	return "", fmt.Errorf("roster: no %s.{json,yaml,yml}: %w", base, fs.ErrNotExist)
}

func readFile[T any](fsys fs.FS, name string, dec func(io.Reader, Format) (T, error)) (T, error) {
	var zero T
	f, err := FormatOf(name)
	if err != nil {
		return zero, err
	}
	fh, err := fsys.Open(name)
	if err != nil {
		return zero, fmt.Errorf("roster: open %s: %w", name, err)
	}
	defer fh.Close()

	v, err := dec(fh, f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", name, err)
	}

	return v, nil
}
