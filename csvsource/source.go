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

package csvsource

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/s2"

	"github.com/csvsqldb/csvsqldb/catalog"
	"github.com/csvsqldb/csvsqldb/producer"
	"github.com/csvsqldb/csvsqldb/value"
)

// ErrColumnCount is returned when a CSV record's field count does not
// match the table's declared column count.
var ErrColumnCount = fmt.Errorf("csvsource: record field count does not match table schema")

// Table describes what a Source reads: the table whose column types
// drive per-field parsing, whether the file's first record is a
// header to skip, and the field separator.
type Table struct {
	Table     *catalog.Table
	HasHeader bool
	Separator Delim
}

// Open returns a ReadFunc that streams path's rows into a
// producer.Writer, typed by table.Table.Columns. A ".s2" suffix on
// path transparently decompresses through klauspost/compress/s2,
// mirroring how the table's mapping might point at a
// pre-compressed extract; every other path is read as plain text.
func Open(path string, table Table) producer.ReadFunc {
	return func(w producer.Writer) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("csvsource: %w", err)
		}
		defer f.Close()

		var r io.Reader = f
		if strings.HasSuffix(path, ".s2") {
			r = s2.NewReader(f)
		}
		return newChopper(table).WriteAll(r, w)
	}
}

// Read returns a ReadFunc streaming rows out of an already-open
// reader (e.g. an in-memory buffer in a test), typed by
// table.Table.Columns.
func Read(r io.Reader, table Table) producer.ReadFunc {
	return func(w producer.Writer) error {
		return newChopper(table).WriteAll(r, w)
	}
}

func newChopper(table Table) *Chopper {
	chopper := &Chopper{Table: table.Table, Separator: table.Separator}
	if table.HasHeader {
		chopper.SkipRecords = 1
	}
	return chopper
}

func parseField(kind value.Kind, field string) (value.Value, error) {
	if field == "" {
		return value.Null(kind), nil
	}
	v, ok := value.FromText(kind, field)
	if !ok {
		return value.Value{}, fmt.Errorf("%q is not a valid %s literal", field, kind)
	}
	return v, nil
}
