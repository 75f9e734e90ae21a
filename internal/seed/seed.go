// Package seed produces the initial item list for a tree store, either from
// the built-in defaults, a TOML/YAML/JSON file, or a SQLite table.
package seed

import (
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/jask/treegrid/internal/treestore"
)

// Format names a seed encoding.
type Format string

const (
	FormatAuto   Format = ""
	FormatTOML   Format = "toml"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// ErrUnknownFormat is returned when a format cannot be resolved.
var ErrUnknownFormat = errors.New("unknown seed format")

// DefaultTable is read when a SQLite source names no table.
const DefaultTable = "items"

// Source says where to read the seed from. An empty Path selects Default().
type Source struct {
	Path   string
	Format Format
	Table  string
}

// Load reads the items described by src.
func Load(ctx context.Context, src Source) ([]treestore.Item, error) {
	if strings.TrimSpace(src.Path) == "" {
		return Default(), nil
	}
	format, err := resolveFormat(src)
	if err != nil {
		return nil, err
	}
	var items []treestore.Item
	switch format {
	case FormatSQLite:
		items, err = loadSQLite(ctx, src.Path, src.Table)
	default:
		items, err = loadFile(src.Path, format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load seed %s", src.Path)
	}
	return items, nil
}

func resolveFormat(src Source) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(string(src.Format))))
	switch f {
	case FormatTOML, FormatYAML, FormatJSON, FormatSQLite:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "db", "sqlite3":
		return FormatSQLite, nil
	case FormatAuto:
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", src.Format)
	}
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "cannot tell from %q", filepath.Base(src.Path))
}

// idFromValue converts a decoded id or parent value. Integers become numeric
// ids and text becomes string ids; nil is the zero ID.
func idFromValue(v any) (treestore.ID, error) {
	switch v := v.(type) {
	case nil:
		return treestore.ID{}, nil
	case int:
		return treestore.IntID(int64(v)), nil
	case int64:
		return treestore.IntID(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return treestore.ID{}, errors.Newf("id %d out of range", v)
		}
		return treestore.IntID(int64(v)), nil
	case float64:
		if v != math.Trunc(v) || v >= math.MaxInt64 || v < math.MinInt64 {
			return treestore.ID{}, errors.Newf("id %v is not an integer", v)
		}
		return treestore.IntID(int64(v)), nil
	case json.Number:
		n, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return treestore.ID{}, errors.Newf("id %s is not an integer", v)
		}
		return treestore.IntID(n), nil
	case string:
		if v == "" {
			return treestore.ID{}, errors.New("empty string id")
		}
		return treestore.StringID(v), nil
	case []byte:
		return idFromValue(string(v))
	default:
		return treestore.ID{}, errors.Newf("unsupported id type %T", v)
	}
}

type rawItem struct {
	ID     any    `toml:"id" yaml:"id" json:"id"`
	Parent any    `toml:"parent" yaml:"parent" json:"parent"`
	Label  string `toml:"label" yaml:"label" json:"label"`
}

func convert(raw []rawItem) ([]treestore.Item, error) {
	items := make([]treestore.Item, 0, len(raw))
	for i, r := range raw {
		if r.ID == nil {
			return nil, errors.Newf("item %d: missing id", i)
		}
		id, err := idFromValue(r.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		parent, err := idFromValue(r.Parent)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d parent", i)
		}
		items = append(items, treestore.Item{ID: id, Parent: parent, Label: r.Label})
	}
	return items, nil
}
