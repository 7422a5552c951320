package compose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML material manifest: an ordered list of material
// names, one per volume in ascending tag order.
//
//	materials:
//	  - plasma
//	  - firstwall
//	  - blanket
type Manifest struct {
	Materials []string `yaml:"materials"`
}

// ReadManifest parses a material manifest file.
func ReadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var man Manifest
	if err := yaml.Unmarshal(data, &man); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(man.Materials) == 0 {
		return nil, fmt.Errorf("manifest %s lists no materials", path)
	}
	return man.Materials, nil
}
