// Copyright The NRI Plugins Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interleave

import (
	"math/bits"
	"strconv"
	"strings"
)

// Mask represents a set of grid Locations as a bit mask.
type Mask uint32

const (
	// FullMask has every Location of the grid set.
	FullMask Mask = (1 << GridSize) - 1
)

// NewMask returns a Mask with the given Locations set.
func NewMask(locations ...Location) Mask {
	return Mask(0).Set(locations...)
}

// Set returns a Mask with both the original and the given Locations set.
// Locations outside the grid are ignored.
func (m Mask) Set(locations ...Location) Mask {
	for _, l := range locations {
		m |= l.Mask()
	}
	return m
}

// Clear returns a Mask with the given Locations removed.
func (m Mask) Clear(locations ...Location) Mask {
	for _, l := range locations {
		m &^= l.Mask()
	}
	return m
}

// Contains returns true if all the given Locations are set in the Mask.
func (m Mask) Contains(locations ...Location) bool {
	for _, l := range locations {
		bit := l.Mask()
		if bit == 0 || m&bit == 0 {
			return false
		}
	}
	return true
}

// Size returns the number of Locations set in the Mask, IOW the width of
// the interleave set it describes.
func (m Mask) Size() int {
	return bits.OnesCount32(uint32(m))
}

// Controllers returns the number of memory controllers the Mask spans.
func (m Mask) Controllers() int {
	var seen [Controllers]bool
	cnt := 0
	m.Foreach(func(l Location) bool {
		if c := l.Controller(); !seen[c] {
			seen[c] = true
			cnt++
		}
		return true
	})
	return cnt
}

// Slice returns the Locations set in the Mask in increasing order.
func (m Mask) Slice() []Location {
	var locations []Location
	m.Foreach(func(l Location) bool {
		locations = append(locations, l)
		return true
	})
	return locations
}

// Foreach calls the given function for each Location set in the Mask, in
// increasing order, until the function returns false.
func (m Mask) Foreach(fn func(Location) bool) {
	for m &= FullMask; m != 0; m &= m - 1 {
		if !fn(Location(bits.TrailingZeros32(uint32(m)))) {
			return
		}
	}
}

// String returns a string representation of the Mask.
func (m Mask) String() string {
	var (
		b   = strings.Builder{}
		sep = ""
		beg = -1
		end = -1
	)

	dump := func() {
		switch {
		case beg < 0:
		case beg == end:
			b.WriteString(sep + strconv.Itoa(beg))
			sep = ","
		default:
			b.WriteString(sep + strconv.Itoa(beg) + "-" + strconv.Itoa(end))
			sep = ","
		}
	}

	b.WriteString("x" + strconv.Itoa(m.Size()) + "{")
	m.Foreach(func(l Location) bool {
		if id := int(l); beg >= 0 && id == end+1 {
			end = id
		} else {
			dump()
			beg, end = id, id
		}
		return true
	})
	dump()
	b.WriteString("}")

	return b.String()
}
