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

import (
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"
)

// hashKey0/hashKey1 are fixed SipHash keys. They only need to be
// stable for the lifetime of one process (hash buckets are never
// persisted across runs), so there is no need to randomize them per
// HashingBlockIterator the way a DoS-resistant map would.
const (
	hashKey0 = 0x5ca1ab1ecafebabe
	hashKey1 = 0x0ddc0ffee1badf00
)

// Hash returns a SipHash-2-4 digest of the value's canonical byte
// encoding. It is consistent with Equal: a.Equal(b) implies
// a.Hash() == b.Hash(), which is what lets HashingBlockIterator and
// GroupingBlockIterator bucket rows by key.
func (v Value) Hash() uint64 {
	var buf [9]byte
	buf[0] = byte(v.kind)
	if v.isNull {
		buf[0] |= 0x80
		return siphash.Hash64(hashKey0, hashKey1, buf[:1])
	}
	switch v.kind {
	case Bool:
		if v.b {
			buf[1] = 1
		}
		return siphash.Hash64(hashKey0, hashKey1, buf[:2])
	case Int:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.i))
		return siphash.Hash64(hashKey0, hashKey1, buf[:9])
	case Real:
		r := v.r
		if r == 0 {
			r = 0 // -0.0 is Equal to 0.0, so both must hash alike
		}
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(r))
		return siphash.Hash64(hashKey0, hashKey1, buf[:9])
	case String:
		data := make([]byte, 1+len(v.s))
		data[0] = buf[0]
		copy(data[1:], v.s)
		return siphash.Hash64(hashKey0, hashKey1, data)
	case Date, Time, Timestamp:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.t.UnixNano()))
		return siphash.Hash64(hashKey0, hashKey1, buf[:9])
	default:
		return siphash.Hash64(hashKey0, hashKey1, buf[:1])
	}
}

// HashValues combines the hashes of a composite key (used by
// GroupingBlockIterator for multi-column GROUP BY keys) the way a
// chained hash combiner would: fold each element's hash, in order,
// into an accumulator seeded from the key's arity, so the result
// depends on position and e.g. (1, NULL) and (NULL, 1) do not collide.
func HashValues(values []Value) uint64 {
	h := siphash.Hash64(hashKey0, hashKey1, []byte{byte(len(values))})
	for _, v := range values {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], v.Hash())
		h = h*1099511628211 ^ siphash.Hash64(h, hashKey1, buf[:])
	}
	return h
}
