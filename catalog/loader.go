package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog definition from a YAML file.
// The result still needs Build to attach vectors.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog definition and validates it.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
