package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/callebjorkell/dotstrip/internal/animation"
	"github.com/callebjorkell/dotstrip/internal/button"
	"github.com/callebjorkell/dotstrip/internal/pins"
	"github.com/callebjorkell/dotstrip/internal/strip"
	"gopkg.in/yaml.v3"
)

const defaultBrightness = 0.25

type Config struct {
	ClockPin    string        `yaml:"clockPin"`
	DataPin     string        `yaml:"dataPin"`
	ButtonPin   string        `yaml:"buttonPin"`
	ClearOnExit *bool         `yaml:"clearOnExit"`
	Brightness  *float64      `yaml:"brightness"`
	Speed       time.Duration `yaml:"speed"`
	Colors      []NamedColor  `yaml:"colors"`
}

type NamedColor struct {
	Name  string `yaml:"name"`
	Color uint32 `yaml:"color"`
}

func (c Config) Pins() strip.Pins {
	return strip.Pins{
		Clock: c.ClockPin,
		Data:  c.DataPin,
	}
}

func defaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.ClockPin == "" {
		c.ClockPin = pins.DefaultClock
	}
	if c.DataPin == "" {
		c.DataPin = pins.DefaultData
	}
	if c.ButtonPin == "" {
		c.ButtonPin = button.DefaultPin
	}
	if c.ClearOnExit == nil {
		enabled := true
		c.ClearOnExit = &enabled
	}
	if c.Brightness == nil {
		b := defaultBrightness
		c.Brightness = &b
	}
	if c.Speed <= 0 {
		c.Speed = animation.DefaultTick
	}
	if len(c.Colors) == 0 {
		c.Colors = []NamedColor{
			{"red", 0xff0000},
			{"green", 0x00ff00},
			{"blue", 0x0000ff},
		}
	}
}

func parseConfig(content []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()

	if c.ClockPin == c.DataPin {
		return nil, fmt.Errorf("clock and data must be different pins, both are %s", c.ClockPin)
	}
	if *c.Brightness < 0 || *c.Brightness > 1 {
		return nil, fmt.Errorf("brightness must be within [0, 1], got %v", *c.Brightness)
	}
	for i, color := range c.Colors {
		if len(color.Name) < 1 {
			return nil, fmt.Errorf("name of color must be specified for entry %d", i)
		}
		if color.Color == 0 || color.Color > 0xffffff {
			return nil, fmt.Errorf("color %s must be a non-zero 24 bit RGB value", color.Name)
		}
	}

	return c, nil
}

// readConfig reads the config at path. A missing file gives the defaults.
func readConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return parseConfig(content)
}
