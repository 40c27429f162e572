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

import (
	"maps"
	"sync"
)

// Stats accumulates planning statistics. A nil *Stats records nothing.
type Stats struct {
	sync.Mutex
	plans    int64
	modules  int64
	goals    int64
	failures map[FailureKind]int64
	widths   map[int]int64
}

// StatsSnapshot is a point in time copy of Stats.
type StatsSnapshot struct {
	// Plans is the number of Plan invocations.
	Plans int64
	// Modules is the number of modules consumed into goals.
	Modules int64
	// Goals is the number of goals created.
	Goals int64
	// Failures is the number of failed invocations per FailureKind.
	Failures map[FailureKind]int64
	// Widths is the number of goals created per interleave set width.
	Widths map[int]int64
}

// NewStats returns a new, empty Stats.
func NewStats() *Stats {
	return &Stats{
		failures: make(map[FailureKind]int64),
		widths:   make(map[int]int64),
	}
}

func (s *Stats) recordPlan(err error, modules int, created []Mask) {
	if s == nil {
		return
	}

	s.Lock()
	defer s.Unlock()

	s.plans++
	s.goals += int64(len(created))
	s.modules += int64(modules)
	for _, m := range created {
		s.widths[m.Size()]++
	}
	if err != nil {
		s.failures[KindOf(err)]++
	}
}

// Snapshot returns a copy of the current statistics.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}

	s.Lock()
	defer s.Unlock()

	return StatsSnapshot{
		Plans:    s.plans,
		Modules:  s.modules,
		Goals:    s.goals,
		Failures: maps.Clone(s.failures),
		Widths:   maps.Clone(s.widths),
	}
}
