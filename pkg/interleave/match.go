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

import "fmt"

// Match collects the modules whose Location is set in the given Mask. The
// match only succeeds if every Location of the Mask is satisfied by some
// module, partial matches are discarded. The given modules are not modified.
func Match(modules []Module, mask Mask) ([]Module, bool) {
	var (
		group   []Module
		missing = mask
	)

	if mask == 0 {
		return nil, false
	}

	for _, m := range modules {
		loc := ModuleLocation(m)
		if mask.Contains(loc) {
			group = append(group, m)
			missing = missing.Clear(loc)
		}
	}

	if missing != 0 {
		return nil, false
	}

	return group, true
}

// BestFit returns the first interleave set of the catalog which is fully
// satisfied by the given modules, together with the matching modules.
func BestFit(modules []Module) (Mask, []Module, error) {
	for _, mask := range catalog {
		if group, ok := Match(modules, mask); ok {
			return mask, group, nil
		}
	}

	return 0, nil, fmt.Errorf("%w: no catalog entry satisfied by %d modules",
		ErrNoSatisfiableTopology, len(modules))
}

// PoolMask returns the Mask of Locations occupied by the given modules.
// Modules outside the grid do not contribute to the Mask.
func PoolMask(modules []Module) Mask {
	m := Mask(0)
	for _, mod := range modules {
		m = m.Set(ModuleLocation(mod))
	}
	return m
}
