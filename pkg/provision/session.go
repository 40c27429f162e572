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
	"context"
	"sort"

	"github.com/pkg/errors"

	cfgapi "github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1"
	"github.com/intel/pmem-interleave/pkg/goal"
	"github.com/intel/pmem-interleave/pkg/interleave"
)

const (
	// FirstInterleaveSetIndex is the index of the first interleave set.
	FirstInterleaveSetIndex uint16 = 1
)

// Session plans the region goals of a validated InterleavePlan.
type Session struct {
	modules   []*goal.Module
	templates []*template
	prefs     *goal.Preferences
	maxGoals  int
	stats     *interleave.Stats
	logger    interleave.Logger
	goals     []*goal.RegionGoal
	setIndex  uint16
}

type template struct {
	*goal.Template
	seq  uint16
	pool []*goal.Module
}

// Option is an opaque option for a Session.
type Option func(*Session) error

// WithStats is an option to record planning statistics in stats.
func WithStats(stats *interleave.Stats) Option {
	return func(s *Session) error {
		s.stats = stats
		return nil
	}
}

// WithLogger is an option to set the logger used for planning.
func WithLogger(l interleave.Logger) Option {
	return func(s *Session) error {
		s.logger = l
		return nil
	}
}

// NewSession validates the plan and creates a planning session for it.
func NewSession(spec *cfgapi.InterleavePlanSpec, options ...Option) (*Session, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}

	s := &Session{
		maxGoals: spec.MaxGoals,
		setIndex: FirstInterleaveSetIndex,
	}

	for _, o := range options {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	byID := make(map[string]*goal.Module, len(spec.Modules))
	for _, m := range spec.Modules {
		capacity, _ := cfgapi.Bytes(m.Capacity)
		gm := &goal.Module{
			ID:         m.ID,
			Socket:     m.Socket,
			Controller: m.Controller,
			Channel:    m.Channel,
			Capacity:   capacity,
		}
		s.modules = append(s.modules, gm)
		byID[m.ID] = gm
	}

	for i, t := range spec.Templates {
		typ, _ := goal.ParseType(t.Type)
		size, _ := cfgapi.Bytes(&t.Size)

		tmpl := &template{
			Template: &goal.Template{
				Name: t.Name,
				Type: typ,
				Size: size,
			},
			seq: uint16(i),
		}

		if len(t.Modules) == 0 {
			tmpl.pool = append(tmpl.pool, s.modules...)
		} else {
			for _, id := range t.Modules {
				tmpl.pool = append(tmpl.pool, byID[id])
			}
		}

		s.templates = append(s.templates, tmpl)
	}

	if p := spec.Preferences; p != nil {
		chSize, _ := cfgapi.Bytes(p.ChannelInterleaveSize)
		imcSize, _ := cfgapi.Bytes(p.ImcInterleaveSize)
		s.prefs = &goal.Preferences{
			ChannelInterleaveSize: chSize,
			ImcInterleaveSize:     imcSize,
		}
	}

	return s, nil
}

// Plan plans all templates of the session in order. Interleave set indices
// start at FirstInterleaveSetIndex and are shared by all templates. On
// failure the goals created so far are returned together with the error.
// Plan can be called repeatedly, each call starts from scratch.
func (s *Session) Plan(ctx context.Context) ([]*goal.RegionGoal, error) {
	factory, err := goal.NewFactory(goal.WithMaxGoals(s.maxGoals))
	if err != nil {
		return nil, err
	}

	opts := []interleave.Option{interleave.WithStats(s.stats)}
	if s.logger != nil {
		opts = append(opts, interleave.WithLogger(s.logger))
	}
	planner, err := interleave.NewPlanner(factory, opts...)
	if err != nil {
		return nil, err
	}

	var (
		goals    = interleave.NewGoalSet()
		setIndex = FirstInterleaveSetIndex
	)

	defer func() {
		s.goals = goal.RegionGoals(goals)
		s.setIndex = setIndex
	}()

	for _, t := range s.templates {
		if err := ctx.Err(); err != nil {
			return goal.RegionGoals(goals), errors.Wrapf(err, "planning aborted before template %q", t.Name)
		}

		log.Info("planning template #%d %q (%s, size %d, %d modules)",
			t.seq, t.Name, t.Type, t.Size, len(t.pool))

		for _, req := range s.requests(t) {
			if err := planner.Plan(req, goals, &setIndex); err != nil {
				return goal.RegionGoals(goals), errors.Wrapf(err, "failed to plan template %q", t.Name)
			}
		}
	}

	return goal.RegionGoals(goals), nil
}

// requests splits the size of a template among its modules and returns
// the corresponding planning requests. Interleaved templates get a request
// per socket, others one per module.
func (s *Session) requests(t *template) []*interleave.Request {
	var (
		total = len(t.pool)
		reqs  []*interleave.Request
	)

	newRequest := func(modules []interleave.Module) *interleave.Request {
		req := &interleave.Request{
			Template:      t.Template,
			Modules:       modules,
			Size:          interleave.Share(t.Size, len(modules), total),
			SequenceIndex: t.seq,
		}
		if s.prefs != nil {
			req.Preferences = s.prefs
		}
		return req
	}

	if !t.Type.IsInterleaved() {
		for _, m := range t.pool {
			reqs = append(reqs, newRequest([]interleave.Module{m}))
		}
		return reqs
	}

	for _, modules := range bySocket(t.pool) {
		reqs = append(reqs, newRequest(modules))
	}

	return reqs
}

// bySocket groups modules by socket, in ascending socket order, keeping
// the order of modules within each socket.
func bySocket(modules []*goal.Module) [][]interleave.Module {
	var (
		groups  = map[int][]interleave.Module{}
		sockets []int
	)

	for _, m := range modules {
		if _, ok := groups[m.Socket]; !ok {
			sockets = append(sockets, m.Socket)
		}
		groups[m.Socket] = append(groups[m.Socket], m)
	}

	sort.Ints(sockets)

	result := make([][]interleave.Module, 0, len(sockets))
	for _, socket := range sockets {
		result = append(result, groups[socket])
	}

	return result
}

// Goals returns the goals created by the last Plan call.
func (s *Session) Goals() []*goal.RegionGoal {
	return s.goals
}

// NextInterleaveSetIndex returns the next free interleave set index after
// the last Plan call.
func (s *Session) NextInterleaveSetIndex() uint16 {
	return s.setIndex
}

// Modules returns the module inventory of the session.
func (s *Session) Modules() []*goal.Module {
	return s.modules
}

// Stats returns the statistics recorded by the session, if any.
func (s *Session) Stats() *interleave.Stats {
	return s.stats
}
