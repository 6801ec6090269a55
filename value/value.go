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

// Package value implements the tagged scalar type shared by every
// physical operator: Value. A Value always carries a logical Kind,
// even when it holds SQL NULL, so operators can type-check before a
// single row has flowed through them.
package value

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Kind is the logical type tag of a Value.
type Kind uint8

const (
	// None is a pseudo-type used only as an uninitialized marker; it
	// never appears in a Row that has left an operator.
	None Kind = iota
	Bool
	Int
	Real
	String
	Date
	Time
	Timestamp
)

func (k Kind) String() string {
	switch k {
	case None:
		return "NONE"
	case Bool:
		return "BOOL"
	case Int:
		return "INT"
	case Real:
		return "REAL"
	case String:
		return "STRING"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Timestamp:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// ErrIncomparable is returned by Compare when the two operands do not
// share a Kind; cross-kind comparison is never valid.
var ErrIncomparable = errors.New("value: incomparable kinds")

// Value is a tagged union over {Null, Bool, Int64, Real(f64), String,
// Date, Time, Timestamp}. The zero Value has Kind None and is never a
// valid operand to an operator; it exists only so a Row slot can be
// declared before it is filled.
type Value struct {
	kind   Kind
	isNull bool
	b      bool
	i      int64
	r      float64
	s      string
	t      time.Time
}

// Null returns the NULL value of the given logical kind.
func Null(kind Kind) Value {
	return Value{kind: kind, isNull: true}
}

// NewBool returns a non-null BOOL value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewInt returns a non-null INT value.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewReal returns a non-null REAL value.
func NewReal(r float64) Value { return Value{kind: Real, r: r} }

// NewString returns a non-null STRING value.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewDate returns a non-null DATE value. Only the date components of t
// are significant; the DATE/TIME/TIME-of-day split is a matter of
// which accessor the caller uses, not of storage. Date/Time/Timestamp
// are treated as opaque comparable values wrapping time.Time; no
// calendar arithmetic lives in this package.
func NewDate(t time.Time) Value { return Value{kind: Date, t: t} }

// NewTime returns a non-null TIME value.
func NewTime(t time.Time) Value { return Value{kind: Time, t: t} }

// NewTimestamp returns a non-null TIMESTAMP value.
func NewTimestamp(t time.Time) Value { return Value{kind: Timestamp, t: t} }

// Kind reports the logical type of the value, including for NULLs.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the typed absence of a value.
func (v Value) IsNull() bool { return v.isNull }

// Bool returns the BOOL payload. The caller must have already checked
// Kind() == Bool && !IsNull(); it is a programming error in the
// evaluator or an operator to call it otherwise.
func (v Value) Bool() bool { return v.b }

// Int returns the INT payload, see Bool for the calling contract.
func (v Value) Int() int64 { return v.i }

// Real returns the REAL payload, see Bool for the calling contract.
func (v Value) Real() float64 { return v.r }

// Str returns the STRING payload, see Bool for the calling contract.
func (v Value) Str() string { return v.s }

// Time returns the DATE/TIME/TIMESTAMP payload, see Bool for the
// calling contract.
func (v Value) Time() time.Time { return v.t }

// Equal reports whether a and b are the same logical value: same
// Kind, and either both NULL or bitwise-equal payloads. Two NULLs of
// the same Kind compare equal here, which is the grouping/bucketing
// semantics GroupingBlockIterator and HashingBlockIterator need;
// three-valued NULL propagation for the SQL EQ operator is the
// evaluator's concern, not this method's.
func (a Value) Equal(b Value) bool {
	if a.kind != b.kind {
		return false
	}
	if a.isNull || b.isNull {
		return a.isNull == b.isNull
	}
	switch a.kind {
	case Bool:
		return a.b == b.b
	case Int:
		return a.i == b.i
	case Real:
		return a.r == b.r
	case String:
		return a.s == b.s
	case Date, Time, Timestamp:
		return a.t.Equal(b.t)
	default:
		return true
	}
}

// Compare returns -1, 0, or 1 according to the total order within a's
// Kind, or ErrIncomparable if a and b have different Kinds. NULL
// sorts before every non-null value of the same Kind, and two NULLs
// compare equal; this is the ordering the Sort operator relies on,
// and is a deliberate choice since there is no single universally
// correct placement for NULL in an ORDER BY.
func (a Value) Compare(b Value) (int, error) {
	if a.kind != b.kind {
		return 0, fmt.Errorf("%w: %s vs %s", ErrIncomparable, a.kind, b.kind)
	}
	if a.isNull || b.isNull {
		switch {
		case a.isNull && b.isNull:
			return 0, nil
		case a.isNull:
			return -1, nil
		default:
			return 1, nil
		}
	}
	switch a.kind {
	case Bool:
		return boolCompare(a.b, b.b), nil
	case Int:
		return int64Compare(a.i, b.i), nil
	case Real:
		return float64Compare(a.r, b.r), nil
	case String:
		switch {
		case a.s < b.s:
			return -1, nil
		case a.s > b.s:
			return 1, nil
		default:
			return 0, nil
		}
	case Date, Time, Timestamp:
		switch {
		case a.t.Before(b.t):
			return -1, nil
		case a.t.After(b.t):
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, nil
	}
}

func boolCompare(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func int64Compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func float64Compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String renders the value's textual form (to_string), the same
// representation OutputRow writes for non-string kinds and CAST uses
// when converting to STRING. It does not apply the single-quote
// wrapping OutputRow applies to STRING specifically, nor the literal
// "NULL" token -- those are presentation decisions made by the output
// operator, not by Value itself.
func (v Value) String() string {
	if v.isNull {
		return "NULL"
	}
	switch v.kind {
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Real:
		return strconv.FormatFloat(v.r, 'g', -1, 64)
	case String:
		return v.s
	case Date:
		return v.t.Format("2006-01-02")
	case Time:
		return v.t.Format("15:04:05")
	case Timestamp:
		return v.t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// FromText parses text into a non-null Value of the given kind,
// reporting ok=false if text is not a valid literal for that kind.
// For every kind, FromText(v.String()) == v for non-null v.
func FromText(kind Kind, text string) (Value, bool) {
	switch kind {
	case Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, false
		}
		return NewBool(b), true
	case Int:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, false
		}
		return NewInt(i), true
	case Real:
		r, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, false
		}
		return NewReal(r), true
	case String:
		return NewString(text), true
	case Date:
		t, err := time.ParseInLocation("2006-01-02", text, time.UTC)
		if err != nil {
			return Value{}, false
		}
		return NewDate(t), true
	case Time:
		t, err := time.ParseInLocation("15:04:05", text, time.UTC)
		if err != nil {
			return Value{}, false
		}
		return NewTime(t), true
	case Timestamp:
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return Value{}, false
		}
		return NewTimestamp(t), true
	default:
		return Value{}, false
	}
}
