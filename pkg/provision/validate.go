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

package provision

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	cfgapi "github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1"
	"github.com/intel/pmem-interleave/pkg/goal"
	"github.com/intel/pmem-interleave/pkg/interleave"
)

var (
	// ErrInvalidPlan indicates an invalid InterleavePlan.
	ErrInvalidPlan = fmt.Errorf("provision: invalid plan")
)

type locationKey struct {
	socket   int
	location interleave.Location
}

// Validate checks the given plan for errors. All errors found are
// returned, combined into a single error.
func Validate(spec *cfgapi.InterleavePlanSpec) error {
	if spec == nil {
		return fmt.Errorf("%w: nil plan", ErrInvalidPlan)
	}

	var (
		result    *multierror.Error
		modules   = make(map[string]*cfgapi.Module, len(spec.Modules))
		locations = make(map[locationKey]string, len(spec.Modules))
		templates = make(map[string]struct{}, len(spec.Templates))
	)

	invalid := func(format string, args ...interface{}) {
		result = multierror.Append(result,
			fmt.Errorf("%w: %s", ErrInvalidPlan, fmt.Sprintf(format, args...)))
	}

	for i := range spec.Modules {
		m := &spec.Modules[i]

		if m.ID == "" {
			invalid("module #%d has no ID", i)
			continue
		}
		if _, ok := modules[m.ID]; ok {
			invalid("duplicate module %q", m.ID)
			continue
		}
		modules[m.ID] = m

		if m.Socket < 0 || m.Controller < 0 || m.Channel < 0 {
			invalid("module %q has negative socket, controller or channel", m.ID)
			continue
		}
		if _, err := cfgapi.Bytes(m.Capacity); err != nil {
			invalid("module %q: %v", m.ID, err)
		}

		if m.Controller >= interleave.Controllers || m.Channel >= interleave.ChannelsPerController {
			log.Warn("module %q (controller %d, channel %d) is outside the %dx%d grid",
				m.ID, m.Controller, m.Channel, interleave.Controllers, interleave.ChannelsPerController)
		}

		// Out of range IDs may still alias to a slot inside the grid.
		key := locationKey{
			socket:   m.Socket,
			location: interleave.LocationOf(m.Controller, m.Channel),
		}
		if !key.location.IsValid() {
			continue
		}
		if other, ok := locations[key]; ok {
			invalid("modules %q and %q share socket %d location %s",
				other, m.ID, key.socket, key.location)
			continue
		}
		locations[key] = m.ID
	}

	for i := range spec.Templates {
		t := &spec.Templates[i]

		if t.Name == "" {
			invalid("template #%d has no name", i)
		} else {
			if _, ok := templates[t.Name]; ok {
				invalid("duplicate template %q", t.Name)
			}
			templates[t.Name] = struct{}{}
		}

		if _, err := goal.ParseType(t.Type); err != nil {
			invalid("template %q: %v", t.Name, err)
		}

		size, err := cfgapi.Bytes(&t.Size)
		if err != nil {
			invalid("template %q: %v", t.Name, err)
			continue
		}

		pool := t.Modules
		if len(pool) == 0 {
			for _, m := range spec.Modules {
				pool = append(pool, m.ID)
			}
		}

		if size > 0 && len(pool) == 0 {
			invalid("template %q has no modules", t.Name)
			continue
		}

		var (
			seen     = make(map[string]struct{}, len(pool))
			capacity = uint64(0)
			known    = true
		)
		for _, id := range pool {
			if _, ok := seen[id]; ok {
				invalid("template %q: duplicate module %q", t.Name, id)
				continue
			}
			seen[id] = struct{}{}

			m, ok := modules[id]
			if !ok {
				invalid("template %q: unknown module %q", t.Name, id)
				known = false
				continue
			}
			if m.Capacity == nil {
				known = false
				continue
			}
			c, err := cfgapi.Bytes(m.Capacity)
			if err != nil {
				known = false
				continue
			}
			capacity += c
		}

		if known && size > capacity {
			invalid("template %q: size %d exceeds module capacity %d", t.Name, size, capacity)
		}
	}

	if spec.MaxGoals < 0 {
		invalid("negative goal limit %d", spec.MaxGoals)
	}

	if p := spec.Preferences; p != nil {
		if _, err := cfgapi.Bytes(p.ChannelInterleaveSize); err != nil {
			invalid("channel interleave size: %v", err)
		}
		if _, err := cfgapi.Bytes(p.ImcInterleaveSize); err != nil {
			invalid("controller interleave size: %v", err)
		}
	}

	return result.ErrorOrNil()
}
