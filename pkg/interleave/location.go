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

const (
	// Controllers is the number of memory controllers in the grid.
	Controllers = 2
	// ChannelsPerController is the number of channels per memory controller.
	ChannelsPerController = 3
	// GridSize is the number of Locations in the grid.
	GridSize = Controllers * ChannelsPerController
)

// Module is a memory module which can be interleaved. Modules are compared
// by identity, so implementations should be pointer types.
type Module interface {
	// ControllerID returns the index of the memory controller of the module.
	ControllerID() int
	// ChannelID returns the index of the channel of the module.
	ChannelID() int
}

// Location is the position of a module in the controller/channel grid.
type Location int

// LocationOf returns the Location for the given controller and channel.
// Channel indices wrap around at ChannelsPerController.
func LocationOf(controller, channel int) Location {
	return Location(Controllers*(channel%ChannelsPerController) + controller)
}

// ModuleLocation returns the Location of the given module.
func ModuleLocation(m Module) Location {
	return LocationOf(m.ControllerID(), m.ChannelID())
}

// IsValid returns true if the Location falls within the grid.
func (l Location) IsValid() bool {
	return l >= 0 && l < GridSize
}

// Controller returns the memory controller index for the Location.
func (l Location) Controller() int {
	return int(l) % Controllers
}

// Channel returns the channel index for the Location.
func (l Location) Channel() int {
	return int(l) / Controllers
}

// Mask returns a Mask with only this Location set, or an empty Mask
// for Locations outside the grid.
func (l Location) Mask() Mask {
	if !l.IsValid() {
		return 0
	}
	return 1 << l
}

// String returns a string representation of the Location.
func (l Location) String() string {
	if !l.IsValid() {
		return fmt.Sprintf("%%!(interleave:Bad-Location %d)", int(l))
	}
	return fmt.Sprintf("imc%d/ch%d", l.Controller(), l.Channel())
}
