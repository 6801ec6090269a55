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
	"encoding/csv"
	"fmt"
	"io"

	"github.com/csvsqldb/csvsqldb/catalog"
	"github.com/csvsqldb/csvsqldb/producer"
)

// Delim is a field separator byte; the zero value means "use the
// chopper's default" (comma).
type Delim byte

// Chopper reads RFC 4180 CSV text against a fixed table schema and
// writes each record, field by typed field, straight into a
// producer.Writer -- there is no intermediate []string record handed
// back to a caller to re-walk; chopping and typed writing happen in
// the same pass over one underlying csv.Reader.
type Chopper struct {
	Table *catalog.Table

	// SkipRecords allows skipping the first N records (typically a
	// header line).
	SkipRecords int
	// Separator overrides the default comma field separator.
	Separator Delim

	r      io.Reader
	cr     *csv.Reader
	lineNr int
}

// WriteAll drains every remaining record out of r into w, typed per
// c.Table's column kinds, until r is exhausted. A record whose field
// count doesn't match c.Table's column count fails with
// ErrColumnCount; the underlying io.Reader is consumed lazily and
// reused across calls as long as the same r is passed each time.
func (c *Chopper) WriteAll(r io.Reader, w producer.Writer) error {
	c.init(r)
	columns := c.Table.Columns
	for {
		fields, err := c.cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("csvsource: %s: %w", c.Table.Name, err)
		}
		c.lineNr++
		if c.lineNr <= c.SkipRecords {
			continue
		}
		if len(fields) != len(columns) {
			return fmt.Errorf("%w: table %s wants %d, got %d", ErrColumnCount, c.Table.Name, len(columns), len(fields))
		}
		for i, field := range fields {
			v, err := parseField(columns[i].Type, field)
			if err != nil {
				return fmt.Errorf("csvsource: %s.%s: %w", c.Table.Name, columns[i].Name, err)
			}
			if !w.AddValue(v) {
				return fmt.Errorf("csvsource: %s: row rejected by a fresh block, value too large", c.Table.Name)
			}
		}
		w.NextRow()
	}
}

func (c *Chopper) init(r io.Reader) {
	if c.r != r {
		c.r = r
		c.cr = csv.NewReader(c.r)
		c.cr.FieldsPerRecord = -1
		c.cr.ReuseRecord = true
		c.cr.LazyQuotes = true
		if c.Separator != 0 {
			c.cr.Comma = rune(c.Separator)
		}
	}
}
