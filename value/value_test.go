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

package value

import "testing"

func TestRoundTrip(t *testing.T) {
	cases := []Value{
		NewBool(true),
		NewBool(false),
		NewInt(-42),
		NewReal(3.5),
		NewString("hello"),
	}
	for _, v := range cases {
		parsed, ok := FromText(v.Kind(), v.String())
		if !ok {
			t.Fatalf("FromText(%s, %q) failed to parse", v.Kind(), v.String())
		}
		if !parsed.Equal(v) {
			t.Fatalf("round trip mismatch: %v != %v", parsed, v)
		}
	}
}

func TestEqualNullsSameKind(t *testing.T) {
	a := Null(Int)
	b := Null(Int)
	if !a.Equal(b) {
		t.Fatalf("two NULL INT values must be equal for grouping purposes")
	}
	if a.Equal(Null(String)) {
		t.Fatalf("NULLs of different kinds must not be equal")
	}
}

func TestCompareIncomparable(t *testing.T) {
	_, err := NewInt(1).Compare(NewString("1"))
	if err == nil {
		t.Fatalf("expected ErrIncomparable comparing INT to STRING")
	}
}

func TestCompareOrdering(t *testing.T) {
	lo, hi := NewInt(1), NewInt(2)
	c, err := lo.Compare(hi)
	if err != nil || c >= 0 {
		t.Fatalf("expected 1 < 2, got %d, err=%v", c, err)
	}
	c, err = hi.Compare(lo)
	if err != nil || c <= 0 {
		t.Fatalf("expected 2 > 1, got %d, err=%v", c, err)
	}
}

func TestHashEqConsistency(t *testing.T) {
	a := NewString("repeated")
	b := NewString("repeated")
	if !a.Equal(b) {
		t.Fatalf("expected equal strings")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("equal values must hash equally")
	}
}

func TestHashValuesCompositeKey(t *testing.T) {
	k1 := []Value{NewInt(1), Null(String)}
	k2 := []Value{Null(Int), NewInt(1)}
	if HashValues(k1) == HashValues(k2) {
		t.Fatalf("composite keys with swapped positions should not collide")
	}
}
