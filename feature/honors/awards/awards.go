package awards

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"honor-sync/feature/honors/resolve"

	"gopkg.in/yaml.v3"
)

//go:embed default_awards.yaml
var defaultAwards []byte

// Patterns holds the raw classification regexes of one award.
type Patterns struct {
	Exclude     []string `yaml:"exclude"`
	Recommended []string `yaml:"recommended"`
	Nominee     []string `yaml:"nominee"`
	Winner      []string `yaml:"winner"`
	Special     []string `yaml:"special"`
}

// CapsConfig is the YAML form of resolve.Caps. Missing values use the defaults.
type CapsConfig struct {
	Winner         *int              `yaml:"winner"`
	Special        *int              `yaml:"special"`
	NomineeDefault *int              `yaml:"nominee_default"`
	NomineeByYear  []resolve.YearCap `yaml:"nominee_by_year"`
}

// Labels customizes display names.
type Labels struct {
	Special string `yaml:"special"`
}

// Award is the rule table for one award family.
type Award struct {
	Name        string     `yaml:"name" json:"name"`
	Aliases     []string   `yaml:"aliases" json:"aliases,omitempty"`
	Source      string     `yaml:"source" json:"source"`
	Description string     `yaml:"description" json:"description"`
	Patterns    Patterns   `yaml:"patterns" json:"-"`
	CapsConfig  CapsConfig `yaml:"caps" json:"-"`
	Labels      Labels     `yaml:"labels" json:"-"`

	compiled compiled
}

type compiled struct {
	exclude     []*regexp.Regexp
	recommended []*regexp.Regexp
	nominee     []*regexp.Regexp
	winner      []*regexp.Regexp
	special     []*regexp.Regexp
}

// Caps resolves the configured caps over resolve.DefaultCaps.
func (a *Award) Caps() resolve.Caps {
	caps := resolve.DefaultCaps()
	if a.CapsConfig.Winner != nil {
		caps.Winner = *a.CapsConfig.Winner
	}
	if a.CapsConfig.Special != nil {
		caps.Special = *a.CapsConfig.Special
	}
	if a.CapsConfig.NomineeDefault != nil {
		caps.NomineeDefault = *a.CapsConfig.NomineeDefault
	}
	caps.NomineeByYear = append([]resolve.YearCap(nil), a.CapsConfig.NomineeByYear...)
	return caps
}

// SpecialLabel returns the display label for the Special category.
func (a *Award) SpecialLabel() string {
	if a.Labels.Special == "" {
		return "Recommended"
	}
	return a.Labels.Special
}

// Matches reports whether awardType names this award or one of its aliases.
func (a *Award) Matches(awardType string) bool {
	want := fold(awardType)
	if want == fold(a.Name) {
		return true
	}
	for _, alias := range a.Aliases {
		if want == fold(alias) {
			return true
		}
	}
	return false
}

// Exclude returns the compiled excluded-variant patterns.
func (a *Award) Exclude() []*regexp.Regexp { return a.compiled.exclude }

// Recommended returns the compiled recommended patterns.
func (a *Award) Recommended() []*regexp.Regexp { return a.compiled.recommended }

// Nominee returns the compiled nominee patterns.
func (a *Award) Nominee() []*regexp.Regexp { return a.compiled.nominee }

// Winner returns the compiled plain-winner patterns.
func (a *Award) Winner() []*regexp.Regexp { return a.compiled.winner }

// Special returns the compiled side-award patterns.
func (a *Award) Special() []*regexp.Regexp { return a.compiled.special }

func (a *Award) compile() error {
	var err error
	if a.compiled.exclude, err = compileAll(a.Patterns.Exclude); err != nil {
		return fmt.Errorf("award %q exclude: %w", a.Name, err)
	}
	if a.compiled.recommended, err = compileAll(a.Patterns.Recommended); err != nil {
		return fmt.Errorf("award %q recommended: %w", a.Name, err)
	}
	if a.compiled.nominee, err = compileAll(a.Patterns.Nominee); err != nil {
		return fmt.Errorf("award %q nominee: %w", a.Name, err)
	}
	if a.compiled.winner, err = compileAll(a.Patterns.Winner); err != nil {
		return fmt.Errorf("award %q winner: %w", a.Name, err)
	}
	if a.compiled.special, err = compileAll(a.Patterns.Special); err != nil {
		return fmt.Errorf("award %q special: %w", a.Name, err)
	}
	return nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?im)" + p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// Registry is a case-insensitive, alias-aware set of awards.
type Registry struct {
	awards []*Award
	byName map[string]*Award
}

type document struct {
	Awards []*Award `yaml:"awards"`
}

// Load parses award rule tables from YAML.
func Load(r io.Reader) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse awards: %w", err)
	}
	if len(doc.Awards) == 0 {
		return nil, fmt.Errorf("awards file defines no awards")
	}

	reg := &Registry{byName: make(map[string]*Award)}
	for _, a := range doc.Awards {
		if strings.TrimSpace(a.Name) == "" {
			return nil, fmt.Errorf("award without a name")
		}
		if err := a.compile(); err != nil {
			return nil, err
		}
		for _, n := range append([]string{a.Name}, a.Aliases...) {
			key := fold(n)
			if _, dup := reg.byName[key]; dup {
				return nil, fmt.Errorf("award name %q defined twice", n)
			}
			reg.byName[key] = a
		}
		reg.awards = append(reg.awards, a)
	}
	return reg, nil
}

// LoadFile parses award rule tables from a YAML file.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open awards file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in award rule tables.
func Default() *Registry {
	reg, err := Load(strings.NewReader(string(defaultAwards)))
	if err != nil {
		panic(fmt.Sprintf("embedded awards are invalid: %v", err))
	}
	return reg
}

// Open loads path, or the built-in tables when path is empty.
func Open(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Lookup finds an award by name or alias.
func (r *Registry) Lookup(name string) (*Award, bool) {
	a, ok := r.byName[fold(name)]
	return a, ok
}

// Names lists the canonical award names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.awards))
	for _, a := range r.awards {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// All returns the awards in file order.
func (r *Registry) All() []*Award {
	return append([]*Award(nil), r.awards...)
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
