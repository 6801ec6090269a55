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

package operator

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/value"
)

// SortKey names one ORDER BY position: the upstream column to compare
// on and its direction.
type SortKey struct {
	Column     string
	Descending bool
}

// Sort buffers its entire upstream, applies a stable multi-key sort
// per Keys, then replays it. Memory is proportional to input size --
// the whole point of the operator is to see every row before emitting
// the first one.
type Sort struct {
	keys []SortKey

	input      Operator
	keyIndexes []int
	rows       [][]value.Value
	pos        int
	sorted     bool
}

// NewSort constructs a Sort ordering by keys.
func NewSort(keys []SortKey) *Sort { return &Sort{keys: keys} }

// Connect implements Operator: resolves each key's column name against
// the upstream schema.
func (s *Sort) Connect(input Operator) (bool, error) {
	if s.input != nil {
		return false, ErrNoMoreInputs
	}
	schema := input.ColumnInfos()
	indexes := make([]int, len(s.keys))
	for i, k := range s.keys {
		idx := schema.IndexOf(k.Column)
		if idx < 0 {
			return false, errUnresolvedColumn(k.Column)
		}
		indexes[i] = idx
	}
	s.input = input
	s.keyIndexes = indexes
	return true, nil
}

func (s *Sort) drain() error {
	if s.sorted {
		return nil
	}
	s.sorted = true
	for {
		row, err := s.input.GetNextRow()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		s.rows = append(s.rows, append([]value.Value(nil), row...))
	}
	slices.SortStableFunc(s.rows, func(a, b []value.Value) bool {
		less, _ := s.less(a, b)
		return less
	})
	return nil
}

func (s *Sort) less(a, b []value.Value) (bool, error) {
	for i, idx := range s.keyIndexes {
		c, err := a[idx].Compare(b[idx])
		if err != nil {
			return false, err
		}
		if s.keys[i].Descending {
			c = -c
		}
		if c != 0 {
			return c < 0, nil
		}
	}
	return false, nil
}

// GetNextRow implements Operator.
func (s *Sort) GetNextRow() ([]value.Value, error) {
	if err := s.drain(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// ColumnInfos implements Operator.
func (s *Sort) ColumnInfos() block.Schema { return s.input.ColumnInfos() }

// Dump implements Operator.
func (s *Sort) Dump(w io.Writer, depth int) {
	parts := make([]string, len(s.keys))
	for i, k := range s.keys {
		dir := "ASC"
		if k.Descending {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%s %s", k.Column, dir)
	}
	dumpLine(w, depth, "SortOperator", strings.Join(parts, ","))
	s.input.Dump(w, depth+1)
}
