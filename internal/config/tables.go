package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iwvelando/finance-engine/pkg/tax"
	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var builtinTables embed.FS

// Tax table file formats.
const (
	TableFormatYAML = "yaml"
	TableFormatTOML = "toml"
)

type tableFile struct {
	Tables []tax.BracketTable `yaml:"tables" toml:"tables"`
}

// TaxTables is a validated set of bracket tables addressed by name.
type TaxTables struct {
	tables []tax.BracketTable
	byName map[string]int
}

// DefaultTaxTables returns the built-in federal tables.
func DefaultTaxTables() (*TaxTables, error) {
	entries, err := builtinTables.ReadDir("tables")
	if err != nil {
		return nil, fmt.Errorf("failed to list built-in tax tables: %w", err)
	}

	var all []tax.BracketTable
	for _, entry := range entries {
		data, err := builtinTables.ReadFile("tables/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in tax table %s: %w", entry.Name(), err)
		}
		var file tableFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse built-in tax table %s: %w", entry.Name(), err)
		}
		all = append(all, file.Tables...)
	}
	return NewTaxTables(all)
}

// LoadTaxTables reads bracket tables from a .yaml, .yml or .toml file.
func LoadTaxTables(path string) (*TaxTables, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = TableFormatYAML
	case ".toml":
		format = TableFormatTOML
	default:
		return nil, fmt.Errorf("unsupported tax table file %s: expected .yaml, .yml or .toml", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tax tables: %w", err)
	}
	tables, err := ParseTaxTables(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tables, nil
}

// ParseTaxTables decodes bracket tables in the given format.
func ParseTaxTables(data []byte, format string) (*TaxTables, error) {
	var file tableFile
	switch format {
	case TableFormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse tax tables: %w", err)
		}
	case TableFormatTOML:
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("failed to parse tax tables: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported tax table format %q", format)
	}
	return NewTaxTables(file.Tables)
}

// NewTaxTables validates tables and indexes them by name.
func NewTaxTables(tables []tax.BracketTable) (*TaxTables, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tax tables defined")
	}
	t := &TaxTables{tables: tables, byName: make(map[string]int, len(tables))}
	for i, table := range tables {
		if table.Name == "" {
			return nil, fmt.Errorf("tax table %d has no name", i+1)
		}
		if _, dup := t.byName[table.Name]; dup {
			return nil, fmt.Errorf("duplicate tax table %q", table.Name)
		}
		if err := tax.ValidateTable(table); err != nil {
			return nil, fmt.Errorf("tax table %q: %w", table.Name, err)
		}
		t.byName[table.Name] = i
	}
	return t, nil
}

// Lookup returns the table called name.
func (t *TaxTables) Lookup(name string) (tax.BracketTable, error) {
	i, ok := t.byName[name]
	if !ok {
		return tax.BracketTable{}, fmt.Errorf("unknown tax table %q", name)
	}
	return t.tables[i], nil
}

// Names returns the table names in sorted order.
func (t *TaxTables) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the tables in file order.
func (t *TaxTables) All() []tax.BracketTable {
	return append([]tax.BracketTable(nil), t.tables...)
}

// LoadTaxTables returns the tables named by tax.tablesFile, or the built-in
// tables when it is empty, and checks that the default table exists.
func (c *Configuration) LoadTaxTables() (*TaxTables, error) {
	var (
		tables *TaxTables
		err    error
	)
	if c.Tax.TablesFile != "" {
		tables, err = LoadTaxTables(c.Tax.TablesFile)
	} else {
		tables, err = DefaultTaxTables()
	}
	if err != nil {
		return nil, err
	}
	if c.Tax.DefaultTable != "" {
		if _, err := tables.Lookup(c.Tax.DefaultTable); err != nil {
			return nil, fmt.Errorf("tax.defaultTable: %w", err)
		}
	}
	return tables, nil
}
