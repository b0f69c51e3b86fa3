package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// categoryFile is the layout of a category table file.
type categoryFile struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

// LoadCategories reads a category table from a YAML or JSON file (chosen by
// extension, YAML by default).
//
// A missing file is reported with an error wrapping fs.ErrNotExist so that
// callers can fall back to DefaultCategories.
func LoadCategories(path string) (*Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read categories file %q: %w", path, err)
	}

	var f categoryFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse categories file %q: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("categories file %q defines no category: %w", path, ErrInvalidInput)
	}

	c, err := NewCategories(f.Categories...)
	if err != nil {
		return nil, fmt.Errorf("invalid categories file %q: %w", path, err)
	}
	return c, nil
}
