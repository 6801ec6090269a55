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

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/value"
)

// Union attaches two upstreams and streams the first to exhaustion,
// then the second. Schema union-compatibility (equal arity,
// positionally convertible types) is enforced here only to the extent
// of arity; deeper type compatibility is a planner responsibility.
type Union struct {
	first, second Operator
	onSecond      bool
}

// NewUnion constructs an empty Union awaiting two Connect calls.
func NewUnion() *Union { return &Union{} }

// Connect implements Operator: the first call attaches the first
// upstream and returns false to request the second.
func (u *Union) Connect(input Operator) (bool, error) {
	switch {
	case u.first == nil:
		u.first = input
		return false, nil
	case u.second == nil:
		if len(input.ColumnInfos()) != len(u.first.ColumnInfos()) {
			return false, fmt.Errorf("operator: UNION arity mismatch: %d vs %d", len(u.first.ColumnInfos()), len(input.ColumnInfos()))
		}
		u.second = input
		return true, nil
	default:
		return false, ErrNoMoreInputs
	}
}

// GetNextRow implements Operator.
func (u *Union) GetNextRow() ([]value.Value, error) {
	if !u.onSecond {
		row, err := u.first.GetNextRow()
		if err != nil {
			return nil, err
		}
		if row != nil {
			return row, nil
		}
		u.onSecond = true
	}
	return u.second.GetNextRow()
}

// ColumnInfos implements Operator: Union reports the first upstream's
// schema, the union-compatible schema both sides share.
func (u *Union) ColumnInfos() block.Schema { return u.first.ColumnInfos() }

// Dump implements Operator.
func (u *Union) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "UnionOperator", "")
	u.first.Dump(w, depth+1)
	u.second.Dump(w, depth+1)
}
