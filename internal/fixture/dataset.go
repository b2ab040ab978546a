package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultData []byte

// Dataset is the location tree served by the fixture.
type Dataset struct {
	Countries []Country `yaml:"countries"`
}

// Country is a named country and its states.
type Country struct {
	Name   string  `yaml:"name"`
	States []State `yaml:"states"`
}

// State is a named state and its cities.
type State struct {
	Name   string   `yaml:"name"`
	Cities []string `yaml:"cities"`
}

// Default returns the built-in dataset.
func Default() *Dataset {
	ds, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Sprintf("fixture: invalid built-in dataset: %v", err))
	}
	return ds
}

// LoadFile reads a YAML dataset from path.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (d *Dataset) validate() error {
	if len(d.Countries) == 0 {
		return errors.New("dataset has no countries")
	}
	seen := make(map[string]bool)
	for i, c := range d.Countries {
		if c.Name == "" {
			return fmt.Errorf("countries[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate country %q", c.Name)
		}
		seen[c.Name] = true
		for j, s := range c.States {
			if s.Name == "" {
				return fmt.Errorf("%s: states[%d]: name is required", c.Name, j)
			}
		}
	}
	return nil
}

// CountryNames lists the countries in dataset order.
func (d *Dataset) CountryNames() []string {
	names := make([]string, 0, len(d.Countries))
	for _, c := range d.Countries {
		names = append(names, c.Name)
	}
	return names
}

// StateNames lists the states of country.
func (d *Dataset) StateNames(country string) ([]string, bool) {
	c := d.country(country)
	if c == nil {
		return nil, false
	}
	names := make([]string, 0, len(c.States))
	for _, s := range c.States {
		names = append(names, s.Name)
	}
	return names, true
}

// CityNames lists the cities of state. An empty country matches the
// first country that has a state with that name.
func (d *Dataset) CityNames(country, state string) ([]string, bool) {
	for _, c := range d.Countries {
		if country != "" && c.Name != country {
			continue
		}
		for _, s := range c.States {
			if s.Name == state {
				return append([]string{}, s.Cities...), true
			}
		}
	}
	return nil, false
}

func (d *Dataset) country(name string) *Country {
	for i := range d.Countries {
		if d.Countries[i].Name == name {
			return &d.Countries[i]
		}
	}
	return nil
}
