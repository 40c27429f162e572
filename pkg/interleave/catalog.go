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

import "slices"

// catalog lists the interleave sets supported by the memory controllers in
// planning priority order. The order is the tie-break policy, not numeric.
var catalog = [...]Mask{
	0x3F, // 0b111111 x6

	0x0F, // 0b001111 x4
	0x3C, // 0b111100 x4
	0x33, // 0b110011 x4

	0x15, // 0b010101 x3
	0x2A, // 0b101010 x3

	// across memory controllers
	0x03, // 0b000011 x2
	0x0C, // 0b001100 x2
	0x30, // 0b110000 x2

	// before across channels, adjacent first
	0x05, // 0b000101 x2
	0x0A, // 0b001010 x2
	0x14, // 0b010100 x2
	0x28, // 0b101000 x2
	0x11, // 0b010001 x2
	0x22, // 0b100010 x2

	// lastly x1
	0x01, // 0b000001 x1
	0x02, // 0b000010 x1
	0x04, // 0b000100 x1
	0x08, // 0b001000 x1
	0x10, // 0b010000 x1
	0x20, // 0b100000 x1
}

// Catalog returns a copy of the interleave set catalog in priority order.
func Catalog() []Mask {
	return slices.Clone(catalog[:])
}

// CatalogLen returns the number of entries in the catalog.
func CatalogLen() int {
	return len(catalog)
}

// Priority returns the position of the given Mask in the catalog, or -1
// if the Mask is not a supported interleave set.
func Priority(m Mask) int {
	return slices.Index(catalog[:], m)
}

// IsSupported returns true if the given Mask is a supported interleave set.
func IsSupported(m Mask) bool {
	return Priority(m) >= 0
}
