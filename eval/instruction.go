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

// Package eval implements the stack machine and VariableStore: the
// compiled-expression evaluator every operator that filters, projects,
// or joins rows drives once per row. The expression compiler itself
// is out of scope here -- eval only consumes already-compiled
// Instruction sequences and a VariableMapping.
package eval

import "github.com/csvsqldb/csvsqldb/value"

// Op is a stack machine instruction opcode.
type Op uint8

const (
	Push Op = iota
	PushVar

	Add
	Sub
	Mul
	Div
	Mod
	Concat
	Plus  // unary +
	Minus // unary -

	Eq
	Neq
	Lt
	Le
	Gt
	Ge
	Is
	IsNot

	And
	Or
	Not

	Cast
	Like
	Between
	In
	Func
)

// Instruction is one stack machine opcode plus whichever operand
// fields that opcode needs; unused fields are left zero. A compiler
// targeting this evaluator builds a []Instruction per the documented
// push-ordering contract (see StackMachine.Evaluate).
type Instruction struct {
	Op Op

	// Push
	Const value.Value

	// PushVar
	VarIndex int

	// Cast
	TargetKind value.Kind

	// Like: Pattern is shared (a single compiled *Pattern pointer) by
	// every copy of an Instruction slice cloned from the same plan
	// node -- Go's garbage collector makes manual reference counting
	// unnecessary, a shared pointer is enough.
	Pattern *Pattern

	// In, Func
	Arity int

	// Func
	FuncName string
}
