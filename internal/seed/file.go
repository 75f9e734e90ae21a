package seed

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/jask/treegrid/internal/treestore"
)

// fileDoc is the shape shared by the TOML, YAML and JSON seeds:
//
//	[[items]]
//	id = 1
//	label = "Item 1"
//
//	[[items]]
//	id = 2
//	parent = 1
//	label = "Item 2"
//
// JSON seeds may also be a bare array of items.
type fileDoc struct {
	Items []rawItem `toml:"items" yaml:"items" json:"items"`
}

func loadFile(path string, format Format) ([]treestore.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format)
}

// Decode parses seed data in the given format. FormatSQLite and FormatAuto are
// not accepted here.
func Decode(data []byte, format Format) ([]treestore.Item, error) {
	var doc fileDoc
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, errors.Wrap(err, "parse toml")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "parse yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var target any = &doc
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
			target = &doc.Items
		}
		if err := dec.Decode(target); err != nil {
			return nil, errors.Wrap(err, "parse json")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	return convert(doc.Items)
}
