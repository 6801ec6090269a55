// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package catalog is a minimal read-only table catalog: a stand-in for
// the full SQL catalog (table metadata, CSV-to-table mapping,
// persistence) that this module's scope excludes. It exists only so
// Scan and SystemTableScan have something to consult, both in tests
// and in the cmd/csvsql demo binary.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/csvsqldb/csvsqldb/value"
)

// ErrDuplicateTable is returned by AddTable when a table with the same
// name (case-sensitive) is already registered.
var ErrDuplicateTable = errors.New("catalog: duplicate table")

// ErrUnknownTable is returned by GetTable for a name that resolves to
// nothing.
var ErrUnknownTable = errors.New("catalog: unknown table")

// ErrSystemTable is returned when a caller attempts to add a table
// using one of the reserved SYSTEM_* names.
var ErrSystemTable = errors.New("catalog: name is reserved for a system table")

// Column is one column's name and logical type.
type Column struct {
	Name string
	Type value.Kind
}

// Table describes one table's shape. Mapping is the external
// CSV-source identifier (a file path or URI) the table's rows are
// read from; empty for tables with no fixed mapping (e.g. SYSTEM_DUAL).
type Table struct {
	Name    string
	Columns []Column
	System  bool
	Mapping string
}

// Catalog holds user and system table definitions, plus a small
// key/value parameter set exposed through SYSTEM_PARAMETERS.
type Catalog struct {
	mu         sync.RWMutex
	tables     map[string]*Table
	parameters map[string]string
}

// New returns a Catalog pre-populated with the six system tables.
func New() *Catalog {
	c := &Catalog{
		tables:     make(map[string]*Table),
		parameters: make(map[string]string),
	}
	for _, t := range systemTables() {
		c.tables[t.Name] = t
	}
	return c
}

func systemTables() []*Table {
	return []*Table{
		{Name: "SYSTEM_DUAL", System: true},
		{Name: "SYSTEM_TABLES", System: true, Columns: []Column{
			{Name: "name", Type: value.String},
			{Name: "system", Type: value.Bool},
		}},
		{Name: "SYSTEM_COLUMNS", System: true, Columns: []Column{
			{Name: "table_name", Type: value.String},
			{Name: "column_name", Type: value.String},
			{Name: "type", Type: value.String},
			{Name: "column_number", Type: value.Int},
		}},
		{Name: "SYSTEM_FUNCTIONS", System: true, Columns: []Column{
			{Name: "name", Type: value.String},
			{Name: "arity", Type: value.Int},
			{Name: "is_aggregate", Type: value.Bool},
		}},
		{Name: "SYSTEM_PARAMETERS", System: true, Columns: []Column{
			{Name: "name", Type: value.String},
			{Name: "value", Type: value.String},
		}},
		{Name: "SYSTEM_MAPPINGS", System: true, Columns: []Column{
			{Name: "table_name", Type: value.String},
			{Name: "mapping", Type: value.String},
		}},
	}
}

// AddTable registers a user table. It fails if name collides with an
// existing table, or is one of the reserved SYSTEM_* names.
func (c *Catalog) AddTable(t *Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if isSystemName(t.Name) {
		return fmt.Errorf("%w: %s", ErrSystemTable, t.Name)
	}
	if _, ok := c.tables[t.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTable, t.Name)
	}
	c.tables[t.Name] = t
	return nil
}

func isSystemName(name string) bool {
	switch name {
	case "SYSTEM_DUAL", "SYSTEM_TABLES", "SYSTEM_COLUMNS", "SYSTEM_FUNCTIONS", "SYSTEM_PARAMETERS", "SYSTEM_MAPPINGS":
		return true
	default:
		return false
	}
}

// HasTable reports whether name is registered (user or system).
func (c *Catalog) HasTable(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tables[name]
	return ok
}

// GetTable resolves name to its Table, or ErrUnknownTable.
func (c *Catalog) GetTable(name string) (*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return t, nil
}

// GetTables returns every registered table, user and system, in no
// particular order.
func (c *Catalog) GetTables() []*Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, t)
	}
	return out
}

// GetSystemTables returns only the six built-in system tables.
func (c *Catalog) GetSystemTables() []*Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Table, 0, 6)
	for _, t := range c.tables {
		if t.System {
			out = append(out, t)
		}
	}
	return out
}

// SetParameter records a name/value pair surfaced through
// SYSTEM_PARAMETERS.
func (c *Catalog) SetParameter(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parameters[name] = value
}

// Parameters returns a snapshot of every registered parameter.
func (c *Catalog) Parameters() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.parameters))
	for k, v := range c.parameters {
		out[k] = v
	}
	return out
}
