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
	"fmt"

	. "github.com/intel/pmem-interleave/pkg/interleave"
)

type testModule struct {
	name string
	imc  int
	ch   int
}

func (m *testModule) ControllerID() int {
	return m.imc
}

func (m *testModule) ChannelID() int {
	return m.ch
}

func (m *testModule) String() string {
	return m.name
}

// modulesAt returns one module for each of the given locations. Locations
// past the grid get an out of range controller on the last channel.
func modulesAt(locations ...Location) []Module {
	modules := make([]Module, 0, len(locations))
	for i, l := range locations {
		m := &testModule{
			name: fmt.Sprintf("dimm#%d@%d", i, int(l)),
			imc:  int(l) % Controllers,
			ch:   int(l) / Controllers,
		}
		if l >= GridSize {
			m.ch = ChannelsPerController - 1
			m.imc = int(l) - Controllers*m.ch
		}
		modules = append(modules, m)
	}
	return modules
}

type testGoal struct {
	setIndex uint16
	seqIndex uint16
	size     uint64
	mask     Mask
	modules  []Module
}

// testFactory records goal requests and creates testGoals for them.
type testFactory struct {
	requests []*GoalRequest
	failAt   int
}

func (f *testFactory) CreateRegionGoal(req *GoalRequest, setIndex *uint16) (Goal, bool) {
	if f.failAt > 0 && len(f.requests)+1 == f.failAt {
		return nil, false
	}

	f.requests = append(f.requests, req)
	g := &testGoal{
		setIndex: *setIndex,
		seqIndex: req.SequenceIndex,
		size:     req.Size,
		mask:     req.Mask,
		modules:  req.Modules,
	}
	*setIndex++

	return g, true
}

func goalsOf(set *GoalSet) []*testGoal {
	var goals []*testGoal
	for _, g := range set.Goals() {
		goals = append(goals, g.(*testGoal))
	}
	return goals
}
