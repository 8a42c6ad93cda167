// Package theme holds the built-in appearance presets.
package theme

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a named palette that can be applied over page settings.
type Preset struct {
	Key                string `yaml:"key" json:"key"`
	Name               string `yaml:"name" json:"name"`
	PrimaryColor       string `yaml:"primary_color" json:"primary_color"`
	SecondaryColor     string `yaml:"secondary_color" json:"secondary_color"`
	BackgroundColor    string `yaml:"background_color" json:"background_color"`
	TextColor          string `yaml:"text_color" json:"text_color"`
	ButtonColor        string `yaml:"button_color" json:"button_color"`
	ButtonTextColor    string `yaml:"button_text_color" json:"button_text_color"`
	BackgroundType     string `yaml:"background_type" json:"background_type"`
	BackgroundGradient string `yaml:"background_gradient" json:"background_gradient,omitempty"`
}

// DefaultKey is the preset new profiles start with.
const DefaultKey = "default"

var (
	loadOnce sync.Once
	presets  []Preset
	loadErr  error
)

func load() ([]Preset, error) {
	loadOnce.Do(func() {
		loadErr = yaml.Unmarshal(presetsYAML, &presets)
	})
	return presets, loadErr
}

// All returns every preset in display order.
func All() ([]Preset, error) {
	ps, err := load()
	if err != nil {
		return nil, fmt.Errorf("parse theme presets: %w", err)
	}
	out := make([]Preset, len(ps))
	copy(out, ps)
	return out, nil
}

// Lookup finds a preset by key.
func Lookup(key string) (Preset, bool) {
	ps, err := load()
	if err != nil {
		return Preset{}, false
	}
	for _, p := range ps {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}

// Apply copies the preset palette onto s. Font, button style, layout and the
// powered-by flag are left alone.
func (p Preset) Apply(s *domain.PageSettings) {
	s.ThemePreset = p.Key
	s.PrimaryColor = p.PrimaryColor
	s.SecondaryColor = p.SecondaryColor
	s.BackgroundColor = p.BackgroundColor
	s.TextColor = p.TextColor
	s.ButtonColor = p.ButtonColor
	s.ButtonTextColor = p.ButtonTextColor
	s.BackgroundType = p.BackgroundType
	s.BackgroundGradient = p.BackgroundGradient
}

// DefaultSettings builds the settings row created at signup.
func DefaultSettings() domain.PageSettings {
	s := domain.PageSettings{
		FontFamily:    "Inter",
		ButtonStyle:   "rounded",
		LayoutStyle:   "standard",
		ShowPoweredBy: true,
	}
	if p, ok := Lookup(DefaultKey); ok {
		p.Apply(&s)
	}
	return s
}
