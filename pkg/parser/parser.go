// Package parser loads subscription definitions from YAML.
package parser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meridianmq/mqselect/pkg/selector"
)

// Definition is a subscription definition as written on disk.
//
//	name: orders-eu
//	selector: "region = 'EU' AND weight > 2.5"
//	description: heavy EU orders
type Definition struct {
	Name        string `yaml:"name"`
	Selector    string `yaml:"selector"`
	Description string `yaml:"description,omitempty"`
}

// Parse decodes and validates a single definition document. The selector
// is compiled so malformed definitions are rejected with the position of
// the problem.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid definition document: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("definition is missing a name")
	}
	if _, err := selector.CompileOrNil(def.Selector); err != nil {
		return nil, fmt.Errorf("definition '%s': %w", def.Name, err)
	}
	return &def, nil
}

// ParseFile loads a definition from a YAML file.
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// ParseDir loads every .yaml/.yml definition in a directory. Files that
// fail to parse are logged and skipped, so one bad definition does not
// block the rest.
func ParseDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var defs []*Definition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		def, err := ParseFile(path)
		if err != nil {
			log.Printf("Warning: failed to load subscription from %s: %v", path, err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}
