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

package goal

import (
	"fmt"

	"github.com/intel/pmem-interleave/pkg/interleave"
)

// Module is a persistent memory module in a socket.
type Module struct {
	// ID uniquely identifies the module.
	ID string
	// Socket is the socket of the module.
	Socket int
	// Controller is the memory controller of the module within the socket.
	Controller int
	// Channel is the memory channel of the module within the controller.
	Channel int
	// Capacity is the capacity of the module, 0 if unknown.
	Capacity uint64
}

var _ interleave.Module = &Module{}

// ControllerID implements interleave.Module.
func (m *Module) ControllerID() int {
	return m.Controller
}

// ChannelID implements interleave.Module.
func (m *Module) ChannelID() int {
	return m.Channel
}

// Location returns the location of the module within its socket.
func (m *Module) Location() interleave.Location {
	return interleave.ModuleLocation(m)
}

// String returns a string representation of the module.
func (m *Module) String() string {
	return fmt.Sprintf("%s@socket%d/%s", m.ID, m.Socket, m.Location())
}

// ModuleIDs returns the IDs of the given modules, which must all be
// *Module.
func ModuleIDs(modules []interleave.Module) ([]string, error) {
	ids := make([]string, 0, len(modules))
	for _, m := range modules {
		gm, ok := m.(*Module)
		if !ok || gm == nil {
			return nil, fmt.Errorf("%w: %v (%T)", ErrInvalidModule, m, m)
		}
		ids = append(ids, gm.ID)
	}
	return ids, nil
}
