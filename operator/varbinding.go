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

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/eval"
)

// VarBinding names one compiled-expression variable slot and the
// column it must be refilled from. Select, Project and InnerJoin
// resolve their VarBindings against an upstream's block.Schema once,
// at Connect time, rather than re-resolving column names on every row.
type VarBinding struct {
	Slot       int
	ColumnName string
}

// errUnresolvedColumn reports a VarBinding whose ColumnName does not
// appear in the upstream schema -- a binding error raised at connect
// time, before any row has flowed.
func errUnresolvedColumn(name string) error {
	return fmt.Errorf("operator: column %q not found in input schema", name)
}

// buildVariableMapping resolves each binding's column name against
// schema and returns the eval.VariableMapping a Select/Project/
// InnerJoin operator refills once per row.
func buildVariableMapping(schema block.Schema, bindings []VarBinding) (*eval.VariableMapping, error) {
	m := make(map[int]int, len(bindings))
	for _, b := range bindings {
		idx := schema.IndexOf(b.ColumnName)
		if idx < 0 {
			return nil, errUnresolvedColumn(b.ColumnName)
		}
		m[b.Slot] = idx
	}
	return eval.NewVariableMapping(m), nil
}
