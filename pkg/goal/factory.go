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
	"errors"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/intel/pmem-interleave/pkg/interleave"
)

// RegionGoal is a goal for creating a single region of an interleave set.
type RegionGoal struct {
	// InterleaveSetIndex is the unique index of the interleave set.
	InterleaveSetIndex uint16 `json:"interleaveSetIndex"`
	// SequenceIndex is the index of the template the goal was created for.
	SequenceIndex uint16 `json:"sequenceIndex"`
	// Template is the name of the template the goal was created for.
	Template string `json:"template,omitempty"`
	// Type is the type of the region.
	Type Type `json:"type"`
	// Size is the total size of the region.
	Size uint64 `json:"size"`
	// ModuleSize is the share of the region per module.
	ModuleSize uint64 `json:"moduleSize"`
	// Socket is the socket of the modules.
	Socket int `json:"socket"`
	// Ways is the number of modules interleaved.
	Ways int `json:"ways"`
	// Mask is the interleaving topology of the modules.
	Mask string `json:"mask"`
	// Modules are the IDs of the modules, in pool order.
	Modules []string `json:"modules"`
	// Preferences are the driver preferences, if any.
	Preferences *Preferences `json:"preferences,omitempty"`
}

// String returns a short string representation of the goal.
func (g *RegionGoal) String() string {
	return fmt.Sprintf("goal#%d{%s/%d, %s %s, size %d, modules %v}",
		g.InterleaveSetIndex, g.Template, g.SequenceIndex, g.Type, g.Mask, g.Size, g.Modules)
}

// Factory creates RegionGoals. It implements interleave.GoalFactory.
type Factory struct {
	maxGoals int
	created  int
}

var _ interleave.GoalFactory = &Factory{}

// FactoryOption is an opaque option for a Factory.
type FactoryOption func(*Factory) error

// WithMaxGoals limits the number of goals a Factory creates. Once the limit
// is reached the Factory refuses to create more goals. 0 means no limit.
func WithMaxGoals(limit int) FactoryOption {
	return func(f *Factory) error {
		if limit < 0 {
			return fmt.Errorf("goal: invalid goal limit %d", limit)
		}
		f.maxGoals = limit
		return nil
	}
}

// NewFactory creates a new goal factory.
func NewFactory(options ...FactoryOption) (*Factory, error) {
	f := &Factory{}

	for _, o := range options {
		if err := o(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Created returns the number of goals created by the factory.
func (f *Factory) Created() int {
	return f.created
}

// CreateRegionGoal implements interleave.GoalFactory. It fails only once
// the goal limit has been reached. The request template must be a *Template,
// the preferences, if any, *Preferences and the modules *Modules, otherwise
// CreateRegionGoal panics.
func (f *Factory) CreateRegionGoal(req *interleave.GoalRequest, setIndex *uint16) (interleave.Goal, bool) {
	g, err := f.NewRegionGoal(req, setIndex)
	switch {
	case err == nil:
		return g, true
	case errors.Is(err, ErrGoalLimit):
		log.Warn("failed to create region goal: %v", err)
		return nil, false
	default:
		log.Panic("invalid region goal request: %v", err)
	}
	return nil, false
}

// NewRegionGoal creates a RegionGoal for the request using the next free
// interleave set index and advances the index.
func (f *Factory) NewRegionGoal(req *interleave.GoalRequest, setIndex *uint16) (*RegionGoal, error) {
	if req == nil || setIndex == nil {
		return nil, fmt.Errorf("goal: missing request or set index")
	}

	tmpl, ok := req.Template.(*Template)
	if !ok || tmpl == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidTemplate, req.Template)
	}

	var prefs *Preferences
	if req.Preferences != nil {
		p, ok := req.Preferences.(*Preferences)
		if !ok {
			return nil, fmt.Errorf("goal: invalid preferences %T", req.Preferences)
		}
		if !p.IsZero() {
			prefs = p
		}
	}

	if len(req.Modules) == 0 {
		return nil, fmt.Errorf("goal: no modules for template %q", tmpl.Name)
	}

	ids, err := ModuleIDs(req.Modules)
	if err != nil {
		return nil, err
	}

	if f.maxGoals > 0 && f.created >= f.maxGoals {
		return nil, fmt.Errorf("%w: limit of %d goals", ErrGoalLimit, f.maxGoals)
	}

	g := &RegionGoal{
		InterleaveSetIndex: *setIndex,
		SequenceIndex:      req.SequenceIndex,
		Template:           tmpl.Name,
		Type:               tmpl.Type,
		Size:               req.Size,
		ModuleSize:         req.Size / uint64(len(req.Modules)),
		Socket:             req.Modules[0].(*Module).Socket,
		Ways:               len(req.Modules),
		Mask:               req.Mask.String(),
		Modules:            ids,
		Preferences:        prefs,
	}

	*setIndex++
	f.created++

	log.Debug("created %s", g)

	return g, nil
}

// RegionGoals returns the RegionGoals of a goal set.
func RegionGoals(goals *interleave.GoalSet) []*RegionGoal {
	if goals == nil {
		return nil
	}

	var regions []*RegionGoal
	for _, g := range goals.Goals() {
		if r, ok := g.(*RegionGoal); ok {
			regions = append(regions, r)
		}
	}
	return regions
}

// Dump renders region goals as YAML.
func Dump(goals []*RegionGoal) (string, error) {
	if goals == nil {
		goals = []*RegionGoal{}
	}
	data, err := yaml.Marshal(goals)
	if err != nil {
		return "", fmt.Errorf("goal: failed to marshal goals: %w", err)
	}
	return string(data), nil
}
