// Package catalog maps raw part names from a model file to display names and
// descriptions.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed engine.toml
var engineTOML []byte

// FallbackName is used when a catalog file sets no default.
const FallbackName = "Engine Component"

// ErrEmpty is returned for a catalog with no names, guesses or descriptions.
var ErrEmpty = errors.New("catalog is empty")

// Named is anything with a raw part name.
type Named interface {
	Name() string
}

// Guess maps a case-insensitive substring of the raw name to a display name.
type Guess struct {
	Contains string `toml:"contains"`
	Name     string `toml:"name"`
}

type file struct {
	Default string            `toml:"default"`
	Guesses []Guess           `toml:"guess"`
	Names   map[string]string `toml:"names"`
	Info    map[string]string `toml:"info"`
}

// Catalog answers name and description lookups. It is read-only after
// construction and safe for concurrent use.
type Catalog struct {
	defaultName string
	names       map[string]string
	info        map[string]string
	guesses     []Guess
}

// Engine returns the built-in engine catalog.
func Engine() *Catalog {
	c, err := Parse(engineTOML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded engine catalog: %v", err))
	}
	return c
}

// Load reads a TOML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Names) == 0 && len(f.Info) == 0 && len(f.Guesses) == 0 {
		return nil, ErrEmpty
	}
	if f.Default == "" {
		f.Default = FallbackName
	}
	for i := range f.Guesses {
		f.Guesses[i].Contains = strings.ToLower(f.Guesses[i].Contains)
	}
	return &Catalog{
		defaultName: f.Default,
		names:       f.Names,
		info:        f.Info,
		guesses:     f.Guesses,
	}, nil
}

// DefaultName is the display name for parts nothing else matches.
func (c *Catalog) DefaultName() string {
	return c.defaultName
}

// NiceName returns the display name for a part: an exact mapping, else a
// substring guess, else the default.
func (c *Catalog) NiceName(part Named) string {
	return c.Lookup(part.Name())
}

// Lookup is NiceName for a raw name.
func (c *Catalog) Lookup(raw string) string {
	if nice, ok := c.names[raw]; ok && nice != "" {
		return nice
	}
	lower := strings.ToLower(raw)
	for _, g := range c.guesses {
		if g.Contains != "" && strings.Contains(lower, g.Contains) {
			return g.Name
		}
	}
	return c.defaultName
}

// Description returns the text for a display name, falling back to the
// default name's text.
func (c *Catalog) Description(name string) string {
	if d, ok := c.info[name]; ok {
		return d
	}
	return c.info[c.defaultName]
}

// Names returns every mapped raw name, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.names))
	for raw := range c.names {
		out = append(out, raw)
	}
	sort.Strings(out)
	return out
}
