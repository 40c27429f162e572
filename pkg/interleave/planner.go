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
	"fmt"
	"math/bits"
)

// Goal is an opaque region goal created by a GoalFactory.
type Goal interface{}

// GoalRequest describes a single interleave set to create a goal for.
type GoalRequest struct {
	// Template is the opaque goal template being planned.
	Template interface{}
	// Modules are the modules of the interleave set.
	Modules []Module
	// Mask is the catalog entry the modules were matched against.
	Mask Mask
	// Size is the size allocated to the interleave set.
	Size uint64
	// Preferences are optional, opaque driver preferences.
	Preferences interface{}
	// SequenceIndex is the caller-supplied sequence index of the template.
	SequenceIndex uint16
}

// GoalFactory creates region goals for interleave sets.
type GoalFactory interface {
	// CreateRegionGoal creates a goal for the given request. It is
	// responsible for incrementing the shared interleave set index.
	// It returns false if no goal could be created.
	CreateRegionGoal(req *GoalRequest, setIndex *uint16) (Goal, bool)
}

// GoalFactoryFunc is a function implementing GoalFactory.
type GoalFactoryFunc func(req *GoalRequest, setIndex *uint16) (Goal, bool)

// CreateRegionGoal implements GoalFactory.
func (fn GoalFactoryFunc) CreateRegionGoal(req *GoalRequest, setIndex *uint16) (Goal, bool) {
	return fn(req, setIndex)
}

// GoalSet is an append-only ordered set of goals.
type GoalSet struct {
	goals []Goal
}

// NewGoalSet returns a new, empty GoalSet.
func NewGoalSet() *GoalSet {
	return &GoalSet{}
}

// Append adds a goal to the set.
func (s *GoalSet) Append(g Goal) {
	s.goals = append(s.goals, g)
}

// Len returns the number of goals in the set.
func (s *GoalSet) Len() int {
	return len(s.goals)
}

// Goals returns the goals in the set in creation order.
func (s *GoalSet) Goals() []Goal {
	return s.goals
}

// Request is a request to plan the interleave sets for a pool of modules.
type Request struct {
	// Template is the opaque goal template, passed on to the GoalFactory.
	Template interface{}
	// Modules are the modules to plan. They are never modified.
	Modules []Module
	// Size is the total size to distribute among the interleave sets.
	Size uint64
	// Preferences are optional driver preferences, passed on as such.
	Preferences interface{}
	// SequenceIndex is passed on to the GoalFactory as such.
	SequenceIndex uint16
}

// Logger is the logging hook of a Planner.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	DebugEnabled() bool
}

// Planner plans interleave sets for modules and creates goals for them.
type Planner struct {
	factory GoalFactory
	log     Logger
	stats   *Stats
}

// Option is an opaque option for a Planner.
type Option func(*Planner) error

// WithLogger is an option to set the logger used by a Planner.
func WithLogger(l Logger) Option {
	return func(p *Planner) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidParameter)
		}
		p.log = l
		return nil
	}
}

// WithStats is an option to make a Planner record statistics in stats.
func WithStats(stats *Stats) Option {
	return func(p *Planner) error {
		p.stats = stats
		return nil
	}
}

// NewPlanner creates a new planner which creates goals using the given
// factory.
func NewPlanner(factory GoalFactory, options ...Option) (*Planner, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil goal factory", ErrInvalidParameter)
	}

	p := &Planner{
		factory: factory,
		log:     log,
	}

	for _, o := range options {
		if err := o(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Stats returns the statistics recorded by the Planner, if any.
func (p *Planner) Stats() *Stats {
	return p.stats
}

type state int

const (
	statePlanning state = iota
	stateDone
	stateFailed
)

var stateToString = map[state]string{
	statePlanning: "planning",
	stateDone:     "done",
	stateFailed:   "failed",
}

func (s state) String() string {
	return stateToString[s]
}

// planning is the state of a single Plan invocation.
type planning struct {
	*Planner
	req      *Request
	pool     *Pool
	total    int
	used     int // modules taken from the pool
	goals    *GoalSet
	setIndex *uint16
	created  []Mask
	consumed int // modules in created goals, excludes a group the factory declined
	err      error
}

// Plan partitions the modules of the request into interleave sets and
// appends a goal for each set to goals. The shared setIndex is advanced
// by the GoalFactory for every goal created. A request with zero size is
// a no-op. On failure the goals created so far are left in goals.
func (p *Planner) Plan(req *Request, goals *GoalSet, setIndex *uint16) error {
	if req == nil || req.Template == nil || req.Modules == nil || goals == nil || setIndex == nil {
		err := fmt.Errorf("%w: missing request, template, modules, goals or set index",
			ErrInvalidParameter)
		p.stats.recordPlan(err, 0, nil)
		return err
	}

	if req.Size == 0 {
		p.log.Debug("zero size requested for %d modules, no goals to create", len(req.Modules))
		p.stats.recordPlan(nil, 0, nil)
		return nil
	}

	s := &planning{
		Planner:  p,
		req:      req,
		pool:     NewPool(req.Modules),
		total:    len(req.Modules),
		goals:    goals,
		setIndex: setIndex,
	}

	st := statePlanning
	if s.pool.Len() == 0 {
		st = stateDone
	}
	for st == statePlanning {
		st = s.step()
	}

	p.stats.recordPlan(s.err, s.consumed, s.created)

	if st == stateFailed {
		p.log.Warn("planning %d modules %s after %d goals: %v", s.total, st, len(s.created), s.err)
		return s.err
	}

	p.log.Debug("planning %d modules %s, %d interleave sets", s.total, st, len(s.created))
	return nil
}

// step carves out the next interleave set and creates a goal for it.
func (s *planning) step() state {
	mask, group, err := s.bestFit()
	if err != nil {
		s.err = err
		return stateFailed
	}

	s.pool.RemoveAll(group)
	s.used += len(group)
	if s.used > s.total {
		s.err = fmt.Errorf("%w: %d modules used out of %d", ErrAccountingInvariant,
			s.used, s.total)
		return stateFailed
	}

	req := &GoalRequest{
		Template:      s.req.Template,
		Modules:       group,
		Mask:          mask,
		Size:          Share(s.req.Size, len(group), s.total),
		Preferences:   s.req.Preferences,
		SequenceIndex: s.req.SequenceIndex,
	}

	goal, ok := s.factory.CreateRegionGoal(req, s.setIndex)
	if !ok || goal == nil {
		s.err = fmt.Errorf("%w: %s interleave set of size %d", ErrResourceExhausted,
			mask, req.Size)
		return stateFailed
	}

	s.goals.Append(goal)
	s.created = append(s.created, mask)
	s.consumed += len(group)
	s.log.Debug("created goal for %s interleave set, size %d (%d modules left)",
		mask, req.Size, s.pool.Len())

	if s.pool.Len() == 0 {
		return stateDone
	}
	return statePlanning
}

// bestFit picks the next interleave set from the pool, logging details.
func (s *planning) bestFit() (Mask, []Module, error) {
	modules := s.pool.Modules()
	if details.DebugEnabled() {
		dumpPool("best fit for pool", modules)
	}

	mask, group, err := BestFit(modules)
	if err != nil {
		s.log.Warn("interleaving match not found for %d modules", len(modules))
		return 0, nil, err
	}

	details.Debug("  => best fit %s (priority %d)", mask, Priority(mask))
	return mask, group, nil
}

// Share returns total * n / of, truncated toward zero, without overflowing
// for large totals. It returns 0 unless 0 <= n <= of and of > 0.
func Share(total uint64, n, of int) uint64 {
	if of <= 0 || n < 0 || n > of {
		return 0
	}

	hi, lo := bits.Mul64(total, uint64(n))
	q, _ := bits.Div64(hi, lo, uint64(of))
	return q
}
