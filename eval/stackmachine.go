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

package eval

import (
	"errors"
	"fmt"

	"github.com/csvsqldb/csvsqldb/value"
)

// ErrStackUnderflow is returned when an instruction tries to pop more
// operands than the stack holds -- a malformed Instruction sequence,
// never something a correctly compiled expression can trigger.
var ErrStackUnderflow = errors.New("eval: stack underflow")

// ErrTypeMismatch is returned when an operator's operands don't carry
// the kinds it requires (e.g. CONCAT on a non-STRING operand).
var ErrTypeMismatch = errors.New("eval: type mismatch")

// StackMachine evaluates one compiled expression. The same instance is
// reused across every row an operator processes: Evaluate resets the
// internal stack before running, so no per-row allocation is needed
// beyond what individual operators (string concatenation, function
// calls) require.
type StackMachine struct {
	instrs []Instruction
	stack  []value.Value
}

// NewStackMachine compiles instrs into a reusable evaluator.
func NewStackMachine(instrs []Instruction) *StackMachine {
	return &StackMachine{instrs: instrs}
}

func (m *StackMachine) push(v value.Value) { m.stack = append(m.stack, v) }

func (m *StackMachine) pop() (value.Value, error) {
	n := len(m.stack)
	if n == 0 {
		return value.Value{}, ErrStackUnderflow
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, nil
}

// Evaluate runs the compiled instruction sequence against store (the
// current row's bound variables, or nil for an expression known to
// reference no variable) and funcs (the scalar function registry),
// returning the single value left on the stack.
//
// Binary instructions are compiled with a fixed push order: ADD, SUB,
// MUL, DIV, MOD, CONCAT, and every comparison push the rhs operand
// first and the lhs operand second, so popping the stack twice yields
// lhs then rhs. AND and OR push lhs first and rhs second, so popping
// twice yields rhs then lhs -- this matters only for which operand
// ends up named "lhs" in a type error message, since both operators
// are commutative in the values they accept. BETWEEN pushes x, then
// from, then to, so popping three times yields to, from, x. IN pushes
// x, then its candidate list in reverse, so popping the candidates
// first and then x restores the candidates in their original order.
func (m *StackMachine) Evaluate(store *VariableStore, funcs *FunctionRegistry) (value.Value, error) {
	m.stack = m.stack[:0]
	for _, instr := range m.instrs {
		if err := m.step(instr, store, funcs); err != nil {
			return value.Value{}, err
		}
	}
	return m.pop()
}

func (m *StackMachine) step(instr Instruction, store *VariableStore, funcs *FunctionRegistry) error {
	switch instr.Op {
	case Push:
		m.push(instr.Const)
		return nil

	case PushVar:
		if store == nil {
			return fmt.Errorf("eval: PushVar with no variable store bound")
		}
		v, ok := store.Get(instr.VarIndex)
		if !ok {
			return fmt.Errorf("eval: slot %d has no bound value", instr.VarIndex)
		}
		m.push(v)
		return nil

	case Add, Sub, Mul, Div, Mod:
		return m.stepArith(instr.Op)
	case Concat:
		return m.stepConcat()
	case Plus, Minus:
		return m.stepUnaryArith(instr.Op)

	case Eq, Neq:
		return m.stepEquality(instr.Op)
	case Lt, Le, Gt, Ge:
		return m.stepRelational(instr.Op)
	case Is, IsNot:
		return m.stepIs(instr.Op)

	case And, Or:
		return m.stepAndOr(instr.Op)
	case Not:
		return m.stepNot()

	case Cast:
		return m.stepCast(instr.TargetKind)
	case Like:
		return m.stepLike(instr.Pattern)
	case Between:
		return m.stepBetween()
	case In:
		return m.stepIn(instr.Arity)
	case Func:
		return m.stepFunc(instr.FuncName, instr.Arity, funcs)
	default:
		return fmt.Errorf("eval: unknown opcode %d", instr.Op)
	}
}

func (m *StackMachine) popLhsRhs() (lhs, rhs value.Value, err error) {
	if lhs, err = m.pop(); err != nil {
		return
	}
	rhs, err = m.pop()
	return
}

func isNumeric(k value.Kind) bool { return k == value.Int || k == value.Real }

func asReal(v value.Value) float64 {
	if v.Kind() == value.Int {
		return float64(v.Int())
	}
	return v.Real()
}

func (m *StackMachine) stepArith(op Op) error {
	lhs, rhs, err := m.popLhsRhs()
	if err != nil {
		return err
	}
	if lhs.IsNull() || rhs.IsNull() {
		m.push(value.Null(value.Real))
		return nil
	}
	if !isNumeric(lhs.Kind()) || !isNumeric(rhs.Kind()) {
		return fmt.Errorf("%w: arithmetic requires numeric operands, got %s and %s", ErrTypeMismatch, lhs.Kind(), rhs.Kind())
	}
	if op == Div || op == Mod {
		if (rhs.Kind() == value.Int && rhs.Int() == 0) || (rhs.Kind() == value.Real && rhs.Real() == 0) {
			return fmt.Errorf("eval: division by zero")
		}
	}
	if lhs.Kind() == value.Int && rhs.Kind() == value.Int {
		a, b := lhs.Int(), rhs.Int()
		switch op {
		case Add:
			m.push(value.NewInt(a + b))
		case Sub:
			m.push(value.NewInt(a - b))
		case Mul:
			m.push(value.NewInt(a * b))
		case Div:
			m.push(value.NewInt(a / b))
		case Mod:
			m.push(value.NewInt(a % b))
		}
		return nil
	}
	a, b := asReal(lhs), asReal(rhs)
	switch op {
	case Add:
		m.push(value.NewReal(a + b))
	case Sub:
		m.push(value.NewReal(a - b))
	case Mul:
		m.push(value.NewReal(a * b))
	case Div:
		m.push(value.NewReal(a / b))
	case Mod:
		return fmt.Errorf("%w: MOD requires INT operands", ErrTypeMismatch)
	}
	return nil
}

func (m *StackMachine) stepConcat() error {
	lhs, rhs, err := m.popLhsRhs()
	if err != nil {
		return err
	}
	if lhs.IsNull() || rhs.IsNull() {
		m.push(value.Null(value.String))
		return nil
	}
	if lhs.Kind() != value.String || rhs.Kind() != value.String {
		return fmt.Errorf("%w: CONCAT requires STRING operands", ErrTypeMismatch)
	}
	m.push(value.NewString(lhs.Str() + rhs.Str()))
	return nil
}

func (m *StackMachine) stepUnaryArith(op Op) error {
	v, err := m.pop()
	if err != nil {
		return err
	}
	if v.IsNull() {
		m.push(v)
		return nil
	}
	if !isNumeric(v.Kind()) {
		return fmt.Errorf("%w: unary +/- requires a numeric operand, got %s", ErrTypeMismatch, v.Kind())
	}
	if op == Plus {
		m.push(v)
		return nil
	}
	if v.Kind() == value.Int {
		m.push(value.NewInt(-v.Int()))
	} else {
		m.push(value.NewReal(-v.Real()))
	}
	return nil
}

// valuesEqual compares across INT/REAL via numeric promotion and
// otherwise requires matching kinds, mirroring the relational
// operators' type rules.
func valuesEqual(lhs, rhs value.Value) (bool, error) {
	if lhs.Kind() == rhs.Kind() {
		return lhs.Equal(rhs), nil
	}
	if isNumeric(lhs.Kind()) && isNumeric(rhs.Kind()) {
		return asReal(lhs) == asReal(rhs), nil
	}
	return false, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, lhs.Kind(), rhs.Kind())
}

func (m *StackMachine) stepEquality(op Op) error {
	lhs, rhs, err := m.popLhsRhs()
	if err != nil {
		return err
	}
	if lhs.IsNull() || rhs.IsNull() {
		m.push(value.Null(value.Bool))
		return nil
	}
	eq, err := valuesEqual(lhs, rhs)
	if err != nil {
		return err
	}
	if op == Neq {
		eq = !eq
	}
	m.push(value.NewBool(eq))
	return nil
}

func compareOrdered(lhs, rhs value.Value) (int, error) {
	if lhs.Kind() == rhs.Kind() {
		return lhs.Compare(rhs)
	}
	if isNumeric(lhs.Kind()) && isNumeric(rhs.Kind()) {
		a, b := asReal(lhs), asReal(rhs)
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, lhs.Kind(), rhs.Kind())
}

func (m *StackMachine) stepRelational(op Op) error {
	lhs, rhs, err := m.popLhsRhs()
	if err != nil {
		return err
	}
	if lhs.IsNull() || rhs.IsNull() {
		m.push(value.Null(value.Bool))
		return nil
	}
	c, err := compareOrdered(lhs, rhs)
	if err != nil {
		return err
	}
	var result bool
	switch op {
	case Lt:
		result = c < 0
	case Le:
		result = c <= 0
	case Gt:
		result = c > 0
	case Ge:
		result = c >= 0
	}
	m.push(value.NewBool(result))
	return nil
}

// stepIs implements IS/IS NOT: NULL-safe comparison where NULL IS NULL
// is true, exactly one side NULL is false, and otherwise it falls back
// to equality.
func (m *StackMachine) stepIs(op Op) error {
	lhs, rhs, err := m.popLhsRhs()
	if err != nil {
		return err
	}
	var result bool
	switch {
	case lhs.IsNull() && rhs.IsNull():
		result = true
	case lhs.IsNull() || rhs.IsNull():
		result = false
	default:
		result, err = valuesEqual(lhs, rhs)
		if err != nil {
			return err
		}
	}
	if op == IsNot {
		result = !result
	}
	m.push(value.NewBool(result))
	return nil
}

// asBoolForLogic treats NULL as neither true nor false; three-valued
// logic for AND/OR/NOT follows the standard SQL truth table via this
// helper's three return states: 1=true, 0=false, -1=unknown.
func asBoolForLogic(v value.Value) (int, error) {
	if v.IsNull() {
		return -1, nil
	}
	if v.Kind() != value.Bool {
		return 0, fmt.Errorf("%w: expected BOOL, got %s", ErrTypeMismatch, v.Kind())
	}
	if v.Bool() {
		return 1, nil
	}
	return 0, nil
}

func triToValue(t int) value.Value {
	if t < 0 {
		return value.Null(value.Bool)
	}
	return value.NewBool(t == 1)
}

func (m *StackMachine) stepAndOr(op Op) error {
	rhs, err := m.pop()
	if err != nil {
		return err
	}
	lhs, err := m.pop()
	if err != nil {
		return err
	}
	l, err := asBoolForLogic(lhs)
	if err != nil {
		return err
	}
	r, err := asBoolForLogic(rhs)
	if err != nil {
		return err
	}
	var result int
	if op == And {
		switch {
		case l == 0 || r == 0:
			result = 0
		case l == -1 || r == -1:
			result = -1
		default:
			result = 1
		}
	} else {
		switch {
		case l == 1 || r == 1:
			result = 1
		case l == -1 || r == -1:
			result = -1
		default:
			result = 0
		}
	}
	m.push(triToValue(result))
	return nil
}

func (m *StackMachine) stepNot() error {
	v, err := m.pop()
	if err != nil {
		return err
	}
	t, err := asBoolForLogic(v)
	if err != nil {
		return err
	}
	if t < 0 {
		m.push(value.Null(value.Bool))
		return nil
	}
	m.push(value.NewBool(t == 0))
	return nil
}

func (m *StackMachine) stepCast(target value.Kind) error {
	v, err := m.pop()
	if err != nil {
		return err
	}
	if v.IsNull() {
		m.push(value.Null(target))
		return nil
	}
	cast, err := castValue(v, target)
	if err != nil {
		return err
	}
	m.push(cast)
	return nil
}

func castValue(v value.Value, target value.Kind) (value.Value, error) {
	if v.Kind() == target {
		return v, nil
	}
	switch target {
	case value.String:
		return value.NewString(v.String()), nil
	case value.Int:
		switch v.Kind() {
		case value.Real:
			return value.NewInt(int64(v.Real())), nil
		case value.Bool:
			if v.Bool() {
				return value.NewInt(1), nil
			}
			return value.NewInt(0), nil
		}
	case value.Real:
		if v.Kind() == value.Int {
			return value.NewReal(float64(v.Int())), nil
		}
	}
	cast, ok := value.FromText(target, v.String())
	if !ok {
		return value.Value{}, fmt.Errorf("eval: cannot CAST %s value %q to %s", v.Kind(), v.String(), target)
	}
	return cast, nil
}

func (m *StackMachine) stepLike(pattern *Pattern) error {
	v, err := m.pop()
	if err != nil {
		return err
	}
	if v.IsNull() {
		m.push(value.Null(value.Bool))
		return nil
	}
	if v.Kind() != value.String {
		return fmt.Errorf("%w: LIKE requires a STRING operand, got %s", ErrTypeMismatch, v.Kind())
	}
	m.push(value.NewBool(pattern.MatchString(v.Str())))
	return nil
}

func (m *StackMachine) stepBetween() error {
	to, err := m.pop()
	if err != nil {
		return err
	}
	from, err := m.pop()
	if err != nil {
		return err
	}
	x, err := m.pop()
	if err != nil {
		return err
	}
	if x.IsNull() || from.IsNull() || to.IsNull() {
		m.push(value.Null(value.Bool))
		return nil
	}
	lowOK, err := compareOrdered(from, x)
	if err != nil {
		return err
	}
	highOK, err := compareOrdered(x, to)
	if err != nil {
		return err
	}
	m.push(value.NewBool(lowOK <= 0 && highOK <= 0))
	return nil
}

func (m *StackMachine) stepIn(arity int) error {
	candidates := make([]value.Value, arity)
	for i := 0; i < arity; i++ {
		v, err := m.pop()
		if err != nil {
			return err
		}
		candidates[i] = v
	}
	x, err := m.pop()
	if err != nil {
		return err
	}
	if x.IsNull() {
		m.push(value.Null(value.Bool))
		return nil
	}
	sawNull := false
	for _, c := range candidates {
		if c.IsNull() {
			sawNull = true
			continue
		}
		eq, err := valuesEqual(x, c)
		if err != nil {
			return err
		}
		if eq {
			m.push(value.NewBool(true))
			return nil
		}
	}
	if sawNull {
		m.push(value.Null(value.Bool))
		return nil
	}
	m.push(value.NewBool(false))
	return nil
}

func (m *StackMachine) stepFunc(name string, arity int, funcs *FunctionRegistry) error {
	if funcs == nil {
		return errUnknownFunction(name)
	}
	fn, ok := funcs.Lookup(name)
	if !ok {
		return errUnknownFunction(name)
	}
	args := make([]value.Value, arity)
	for i := arity - 1; i >= 0; i-- {
		v, err := m.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}
	return m.pushFuncResult(fn, args)
}

func (m *StackMachine) pushFuncResult(fn Function, args []value.Value) error {
	v, err := fn.Call(args)
	if err != nil {
		return err
	}
	m.push(v)
	return nil
}
