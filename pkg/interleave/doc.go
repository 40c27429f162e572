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

// Package interleave plans hardware interleave sets for persistent memory
// modules. The primary interface to the package is the Planner type.
//
// # Locations and Masks
//
// A module is attached to one of the memory controllers of a socket and to
// one of the channels of that controller. The (controller, channel) pair of
// a module is mapped to a unique Location in a fixed grid of 2 controllers
// by 3 channels. A Mask is a bit mask over the Locations of this grid.
//
//	         IMC0       IMC1
//	CH0 | 0b000001 | 0b000010 |
//	CH1 | 0b000100 | 0b001000 |
//	CH2 | 0b010000 | 0b100000 |
//
// # Catalog
//
// The catalog is the ordered list of Masks the memory controllers can
// actually interleave. It is ordered by planning priority: wider sets come
// first, among 2-way sets the ones spanning both controllers come before
// the ones confined to a single controller, and the 1-way (non-interleaved)
// sets come last. The Location mapping and the catalog are coupled, any
// change to one requires a matching change to the other.
//
// # Planning
//
// A Planner takes a pool of modules and repeatedly carves out the first
// catalog entry which is fully satisfied by the remaining modules, until
// every module is consumed. For every carved out group the Planner asks its
// GoalFactory for a region goal, sized proportionally to the number of
// modules in the group. Planning either consumes every module exactly once,
// or fails with one of the errors in this package. Goals created before a
// failure are left in the output GoalSet.
package interleave
