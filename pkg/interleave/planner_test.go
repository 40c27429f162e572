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

package interleave_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/intel/pmem-interleave/pkg/interleave"
)

type testTemplate struct {
	name string
}

func newTestPlanner(t *testing.T, f *testFactory, opts ...Option) *Planner {
	p, err := NewPlanner(f, opts...)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestNewPlanner(t *testing.T) {
	p, err := NewPlanner(nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
	require.Nil(t, p)

	p, err = NewPlanner(&testFactory{}, WithLogger(nil))
	require.ErrorIs(t, err, ErrInvalidParameter)
	require.Nil(t, p)
}

func TestPlanFullyPopulated(t *testing.T) {
	var (
		f        = &testFactory{}
		p        = newTestPlanner(t, f)
		modules  = modulesAt(0, 1, 2, 3, 4, 5)
		goals    = NewGoalSet()
		setIndex = uint16(1)
	)

	err := p.Plan(&Request{
		Template:      &testTemplate{name: "appdirect"},
		Modules:       modules,
		Size:          600,
		SequenceIndex: 0,
	}, goals, &setIndex)

	require.NoError(t, err)
	require.Equal(t, 1, goals.Len())
	require.Equal(t, uint16(2), setIndex)

	g := goalsOf(goals)[0]
	require.Equal(t, uint64(600), g.size)
	require.Equal(t, FullMask, g.mask)
	require.Equal(t, uint16(1), g.setIndex)
	require.ElementsMatch(t, modules, g.modules)
}

func TestPlanProportionalSizing(t *testing.T) {
	type testCase struct {
		name      string
		locations []Location
		size      uint64
		masks     []Mask
		sizes     []uint64
	}

	for _, tc := range []*testCase{
		{
			name:      "x4 + x1",
			locations: []Location{0, 1, 2, 3, 4},
			size:      100,
			masks:     []Mask{0x0F, 0x10},
			sizes:     []uint64{80, 20},
		},
		{
			name:      "remainder is truncated",
			locations: []Location{0, 1, 2, 3, 4, 4},
			size:      100,
			masks:     []Mask{0x0F, 0x10},
			sizes:     []uint64{66, 33},
		},
		{
			name:      "x2 + x1",
			locations: []Location{2, 3, 4},
			size:      10,
			masks:     []Mask{0x0C, 0x10},
			sizes:     []uint64{6, 3},
		},
		{
			name:      "x4 preferred over x3",
			locations: []Location{0, 2, 4, 1, 3},
			size:      5,
			masks:     []Mask{0x0F, 0x10},
			sizes:     []uint64{4, 1},
		},
		{
			name:      "large sizes do not overflow",
			locations: []Location{0, 1, 2},
			size:      math.MaxUint64,
			masks:     []Mask{0x03, 0x04},
			sizes:     []uint64{math.MaxUint64 / 3 * 2, math.MaxUint64 / 3},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var (
				f        = &testFactory{}
				p        = newTestPlanner(t, f)
				goals    = NewGoalSet()
				setIndex = uint16(0)
			)

			err := p.Plan(&Request{
				Template: &testTemplate{},
				Modules:  modulesAt(tc.locations...),
				Size:     tc.size,
			}, goals, &setIndex)
			require.NoError(t, err)

			var (
				masks []Mask
				sizes []uint64
			)
			for _, g := range goalsOf(goals) {
				masks = append(masks, g.mask)
				sizes = append(sizes, g.size)
			}
			require.Equal(t, tc.masks, masks)
			require.Equal(t, tc.sizes, sizes)
			require.Equal(t, uint16(len(tc.masks)), setIndex)
		})
	}
}

func TestPlanCrossControllerPairs(t *testing.T) {
	for _, tc := range []struct {
		name      string
		locations []Location
		mask      Mask
	}{
		{"different controllers", []Location{2, 3}, 0x0C},
		{"same controller", []Location{0, 2}, 0x05},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var (
				f        = &testFactory{}
				p        = newTestPlanner(t, f)
				goals    = NewGoalSet()
				setIndex = uint16(0)
			)

			err := p.Plan(&Request{
				Template: &testTemplate{},
				Modules:  modulesAt(tc.locations...),
				Size:     2,
			}, goals, &setIndex)
			require.NoError(t, err)
			require.Equal(t, 1, goals.Len())
			require.Equal(t, tc.mask, goalsOf(goals)[0].mask)
		})
	}
}

func TestPlanZeroSize(t *testing.T) {
	var (
		f        = &testFactory{}
		stats    = NewStats()
		p        = newTestPlanner(t, f, WithStats(stats))
		goals    = NewGoalSet()
		setIndex = uint16(7)
	)

	err := p.Plan(&Request{
		Template: &testTemplate{},
		Modules:  modulesAt(0, 1, 2),
		Size:     0,
	}, goals, &setIndex)

	require.NoError(t, err)
	require.Equal(t, 0, goals.Len())
	require.Equal(t, uint16(7), setIndex)
	require.Empty(t, f.requests)
	require.Equal(t, int64(1), stats.Snapshot().Plans)
}

func TestPlanEmptyPool(t *testing.T) {
	var (
		f        = &testFactory{}
		p        = newTestPlanner(t, f)
		goals    = NewGoalSet()
		setIndex = uint16(0)
	)

	err := p.Plan(&Request{
		Template: &testTemplate{},
		Modules:  []Module{},
		Size:     100,
	}, goals, &setIndex)

	require.NoError(t, err)
	require.Equal(t, 0, goals.Len())
}

func TestPlanInvalidParameters(t *testing.T) {
	var (
		modules  = modulesAt(0, 1)
		tmpl     = &testTemplate{}
		setIndex = uint16(0)
	)

	type testCase struct {
		name     string
		req      *Request
		goals    *GoalSet
		setIndex *uint16
	}

	for _, tc := range []*testCase{
		{
			name:     "nil request",
			goals:    NewGoalSet(),
			setIndex: &setIndex,
		},
		{
			name:     "nil template",
			req:      &Request{Modules: modules, Size: 1},
			goals:    NewGoalSet(),
			setIndex: &setIndex,
		},
		{
			name:     "nil modules",
			req:      &Request{Template: tmpl, Size: 1},
			goals:    NewGoalSet(),
			setIndex: &setIndex,
		},
		{
			name:     "nil goals",
			req:      &Request{Template: tmpl, Modules: modules, Size: 1},
			setIndex: &setIndex,
		},
		{
			name:  "nil set index",
			req:   &Request{Template: tmpl, Modules: modules, Size: 1},
			goals: NewGoalSet(),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := &testFactory{}
			p := newTestPlanner(t, f)

			err := p.Plan(tc.req, tc.goals, tc.setIndex)
			require.ErrorIs(t, err, ErrInvalidParameter)
			require.Equal(t, InvalidParameter, KindOf(err))
			require.Empty(t, f.requests)
			require.Equal(t, uint16(0), setIndex)
		})
	}
}

func TestPlanOutOfGridModule(t *testing.T) {
	var (
		f        = &testFactory{}
		stats    = NewStats()
		p        = newTestPlanner(t, f, WithStats(stats))
		goals    = NewGoalSet()
		setIndex = uint16(0)
	)

	err := p.Plan(&Request{
		Template: &testTemplate{},
		Modules:  modulesAt(0, 1, 6),
		Size:     300,
	}, goals, &setIndex)

	require.ErrorIs(t, err, ErrNoSatisfiableTopology)
	require.Equal(t, NoSatisfiableTopology, KindOf(err))
	require.Equal(t, 1, goals.Len(), "goals created before failure are kept")
	require.Equal(t, uint16(1), setIndex)
	require.Equal(t, uint64(200), goalsOf(goals)[0].size)

	snap := stats.Snapshot()
	require.Equal(t, int64(1), snap.Failures[NoSatisfiableTopology])
	require.Equal(t, int64(1), snap.Goals)
	require.Equal(t, int64(2), snap.Modules)
}

func TestPlanResourceExhaustion(t *testing.T) {
	var (
		f        = &testFactory{failAt: 2}
		stats    = NewStats()
		p        = newTestPlanner(t, f, WithStats(stats))
		goals    = NewGoalSet()
		setIndex = uint16(0)
	)

	err := p.Plan(&Request{
		Template: &testTemplate{},
		Modules:  modulesAt(0, 1, 2),
		Size:     300,
	}, goals, &setIndex)

	require.ErrorIs(t, err, ErrResourceExhausted)
	require.Equal(t, ResourceExhaustion, KindOf(err))
	require.Equal(t, 1, goals.Len())
	require.Equal(t, uint16(1), setIndex)

	// the declined single module group is not counted as consumed
	snap := stats.Snapshot()
	require.Equal(t, int64(1), snap.Goals)
	require.Equal(t, int64(2), snap.Modules)
	require.Equal(t, map[int]int64{2: 1}, snap.Widths)
	require.Equal(t, int64(1), snap.Failures[ResourceExhaustion])
}

func TestPlanPassesRequestDetails(t *testing.T) {
	type prefs struct {
		channelInterleave int
	}

	var (
		f        = &testFactory{}
		p        = newTestPlanner(t, f)
		goals    = NewGoalSet()
		setIndex = uint16(3)
		tmpl     = &testTemplate{name: "t"}
		pref     = &prefs{channelInterleave: 4096}
	)

	err := p.Plan(&Request{
		Template:      tmpl,
		Modules:       modulesAt(0, 1, 4),
		Size:          3,
		Preferences:   pref,
		SequenceIndex: 5,
	}, goals, &setIndex)
	require.NoError(t, err)
	require.Len(t, f.requests, 2)

	for _, req := range f.requests {
		require.Same(t, tmpl, req.Template)
		require.Same(t, pref, req.Preferences)
		require.Equal(t, uint16(5), req.SequenceIndex)
	}

	got := goalsOf(goals)
	require.Equal(t, uint16(3), got[0].setIndex)
	require.Equal(t, uint16(4), got[1].setIndex)
	require.Equal(t, uint16(5), setIndex)
}

func TestPlanDoesNotModifyCallerModules(t *testing.T) {
	var (
		f        = &testFactory{}
		p        = newTestPlanner(t, f)
		modules  = modulesAt(5, 0, 3, 1)
		orig     = append([]Module{}, modules...)
		goals    = NewGoalSet()
		setIndex = uint16(0)
	)

	err := p.Plan(&Request{
		Template: &testTemplate{},
		Modules:  modules,
		Size:     4,
	}, goals, &setIndex)
	require.NoError(t, err)
	require.Equal(t, orig, modules)
}

func TestPlanCoversEveryModuleOnce(t *testing.T) {
	stats := NewStats()

	for pop := Mask(1); pop <= FullMask; pop++ {
		var (
			f        = &testFactory{}
			p        = newTestPlanner(t, f, WithStats(stats))
			modules  = modulesAt(pop.Slice()...)
			goals    = NewGoalSet()
			setIndex = uint16(0)
		)

		err := p.Plan(&Request{
			Template: &testTemplate{},
			Modules:  modules,
			Size:     uint64(len(modules)) * 1024,
		}, goals, &setIndex)
		require.NoError(t, err, "population %s", pop)

		seen := map[Module]int{}
		covered := Mask(0)
		total := uint64(0)
		for _, g := range goalsOf(goals) {
			require.True(t, IsSupported(g.mask), "population %s, goal %s", pop, g.mask)
			require.Zero(t, covered&g.mask, "population %s, overlapping %s", pop, g.mask)
			covered |= g.mask
			total += g.size
			for _, m := range g.modules {
				seen[m]++
			}
		}

		require.Equal(t, pop, covered)
		require.Len(t, seen, len(modules))
		for m, cnt := range seen {
			require.Equal(t, 1, cnt, "module %v", m)
		}
		require.Equal(t, uint64(len(modules))*1024, total)
	}

	snap := stats.Snapshot()
	require.Equal(t, int64(FullMask), snap.Plans)
	require.Empty(t, snap.Failures)
	require.Equal(t, int64(32*6), snap.Modules)
}

func TestShare(t *testing.T) {
	require.Equal(t, uint64(66), Share(100, 4, 6))
	require.Equal(t, uint64(33), Share(100, 2, 6))
	require.Equal(t, uint64(100), Share(100, 6, 6))
	require.Equal(t, uint64(0), Share(100, 0, 6))
	require.Equal(t, uint64(0), Share(100, 1, 0))
	require.Equal(t, uint64(0), Share(100, 7, 6))
	require.Equal(t, uint64(math.MaxUint64), Share(math.MaxUint64, 5, 5))
}
