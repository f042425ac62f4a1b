// Package appinfo loads the application description the app_info handler
// answers questions from.
package appinfo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Info is an opaque key/value description of the hosting application.
type Info map[string]any

// Default returns the embedded application description.
func Default() (Info, error) {
	return Parse(defaultYAML)
}

// Load reads path when set, otherwise returns Default.
func Load(path string) (Info, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading app info %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML application description.
func Parse(data []byte) (Info, error) {
	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing app info: %w", err)
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("parsing app info: document is empty")
	}
	return info, nil
}

// JSON renders the description as indented JSON for prompt context.
func (i Info) JSON() string {
	b, err := json.MarshalIndent(map[string]any(i), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
