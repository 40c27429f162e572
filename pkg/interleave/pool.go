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

// Pool is an ordered working set of modules being planned. Removing modules
// preserves the relative order of the remaining ones.
type Pool struct {
	modules []Module
}

// NewPool returns a Pool with a private copy of the given modules.
func NewPool(modules []Module) *Pool {
	return &Pool{
		modules: slices.Clone(modules),
	}
}

// Len returns the number of modules in the Pool.
func (p *Pool) Len() int {
	return len(p.modules)
}

// Modules returns the modules in the Pool. The returned slice must not be
// modified and is only valid until the next removal.
func (p *Pool) Modules() []Module {
	return p.modules
}

// Index returns the position of the given module in the Pool, or -1.
func (p *Pool) Index(m Module) int {
	for i, pm := range p.modules {
		if pm == m {
			return i
		}
	}
	return -1
}

// Remove removes the given module from the Pool. Removing a module which is
// not in the Pool is a no-op. Remove returns true if the module was found.
func (p *Pool) Remove(m Module) bool {
	i := p.Index(m)
	if i < 0 {
		return false
	}
	p.modules = slices.Delete(p.modules, i, i+1)
	return true
}

// RemoveAll removes each of the given modules from the Pool, in order.
// Duplicate or unknown modules are ignored. RemoveAll returns the number
// of modules removed.
func (p *Pool) RemoveAll(modules []Module) int {
	cnt := 0
	for _, m := range modules {
		if p.Remove(m) {
			cnt++
		}
	}
	return cnt
}
