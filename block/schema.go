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

// Package block implements the bounded-memory row container
// (Block/Manager) and the BlockProvider contract that every iterator
// and operator in this module is built on top of.
package block

import "github.com/csvsqldb/csvsqldb/value"

// SymbolInfo describes one column of an operator's output: its
// unqualified and qualified names, its logical type, and the table
// it originated from (empty for computed/aggregate columns).
type SymbolInfo struct {
	Name          string
	QualifiedName string
	Type          value.Kind
	SourceTable   string
}

// Schema is the ordered column list attached to every operator's
// output. Join and cross operators concatenate the lhs and rhs
// schemas; projection remaps and renames.
type Schema []SymbolInfo

// Concat returns the schema formed by a join/cross operator: the lhs
// columns followed by the rhs columns, in order.
func Concat(lhs, rhs Schema) Schema {
	out := make(Schema, 0, len(lhs)+len(rhs))
	out = append(out, lhs...)
	out = append(out, rhs...)
	return out
}

// IndexOf returns the position of name (matched against QualifiedName
// first, then Name) within the schema, or -1 if it is not present.
// Scan/Select/Join operators use this at connect-time to resolve the
// variables a compiled expression references; failure to resolve is a
// binding error raised at connect time, before any row has flowed.
func (s Schema) IndexOf(name string) int {
	for i, c := range s {
		if c.QualifiedName == name {
			return i
		}
	}
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}
