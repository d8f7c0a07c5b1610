package dork

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

//go:embed patterns.yaml
var defaultCatalogYAML []byte

var (
	ErrEmptyCatalog    = errors.New("dork catalog has no platform templates")
	ErrMissingFallback = errors.New("dork catalog platform has no fallback")
)

// requireAny - шаблон подходит, если заполнено хоть одно поле
const requireAny = "any"

type Template struct {
	Requires []string `yaml:"requires"`
	Pattern  string   `yaml:"pattern"`
}

type PlatformTemplates struct {
	Templates []Template `yaml:"templates"`
	Fallback  string     `yaml:"fallback"`
}

type Pattern struct {
	Name        string   `yaml:"name"`
	Pattern     string   `yaml:"pattern"`
	Description string   `yaml:"description"`
	Sites       []string `yaml:"sites"`
}

type Category struct {
	Key            string    `yaml:"key"`
	Name           string    `yaml:"name"`
	Suffix         string    `yaml:"suffix"`
	ContactDorks   bool      `yaml:"contact_dorks"`
	LocationFilter bool      `yaml:"location_filter"`
	Patterns       []Pattern `yaml:"patterns"`
}

type Catalog struct {
	Platforms         map[string]PlatformTemplates `yaml:"platforms"`
	Custom            PlatformTemplates            `yaml:"custom"`
	Categories        []Category                   `yaml:"categories"`
	ContactDorks      []string                     `yaml:"contact_dorks"`
	LocationModifiers []string                     `yaml:"location_modifiers"`
	RolePatterns      []string                     `yaml:"role_patterns"`
}

// DefaultCatalog - встроенный каталог. Паника означает битый patterns.yaml.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("dork: embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog читает каталог из файла. Пустой путь - встроенный.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dork catalog: %w", err)
	}
	return ParseCatalog(b)
}

func ParseCatalog(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse dork catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	if len(c.Platforms) == 0 {
		return ErrEmptyCatalog
	}
	for _, p := range domain.DefaultPlatforms() {
		t, ok := c.Platforms[string(p)]
		if !ok || t.Fallback == "" {
			return fmt.Errorf("%w: %s", ErrMissingFallback, p)
		}
	}
	if c.Custom.Fallback == "" {
		return fmt.Errorf("%w: custom", ErrMissingFallback)
	}
	return nil
}

func (c *Catalog) templatesFor(p domain.Platform) PlatformTemplates {
	if t, ok := c.Platforms[string(p)]; ok {
		return t
	}
	return c.Custom
}
