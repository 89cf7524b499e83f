package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads character definitions from a YAML file. Every character
// must pass validation; one bad entry fails the whole load.
func LoadFile(path string) ([]*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Characters []*Character `yaml:"characters"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse characters file: %w", err)
	}

	for _, c := range doc.Characters {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("character %q: %w", c.ID, err)
		}
	}
	return doc.Characters, nil
}
