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
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/intel/pmem-interleave/pkg/interleave"
	"github.com/intel/pmem-interleave/pkg/metrics"
)

const (
	// MetricsGroup is the metrics group of planner statistics.
	MetricsGroup = "interleave"
	// MetricsCollector is the name of the planner statistics collector.
	MetricsCollector = "planner"
)

// StatsCollector is a prometheus.Collector for interleave planning
// statistics.
type StatsCollector struct {
	stats    *interleave.Stats
	plans    *prometheus.Desc
	goals    *prometheus.Desc
	modules  *prometheus.Desc
	failures *prometheus.Desc
	widths   *prometheus.Desc
}

var _ prometheus.Collector = &StatsCollector{}

// NewStatsCollector creates a collector for the given statistics.
func NewStatsCollector(stats *interleave.Stats) *StatsCollector {
	return &StatsCollector{
		stats: stats,
		plans: prometheus.NewDesc(
			"plans_total",
			"Number of interleave planning requests.",
			nil, nil,
		),
		goals: prometheus.NewDesc(
			"goals_total",
			"Number of region goals created.",
			nil, nil,
		),
		modules: prometheus.NewDesc(
			"modules_total",
			"Number of modules consumed into region goals.",
			nil, nil,
		),
		failures: prometheus.NewDesc(
			"failures_total",
			"Number of failed planning requests by kind of failure.",
			[]string{"kind"}, nil,
		),
		widths: prometheus.NewDesc(
			"goals_by_ways_total",
			"Number of region goals created by interleave set width.",
			[]string{"ways"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.plans
	ch <- c.goals
	ch <- c.modules
	ch <- c.failures
	ch <- c.widths
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats.Snapshot()

	ch <- prometheus.MustNewConstMetric(c.plans, prometheus.CounterValue, float64(s.Plans))
	ch <- prometheus.MustNewConstMetric(c.goals, prometheus.CounterValue, float64(s.Goals))
	ch <- prometheus.MustNewConstMetric(c.modules, prometheus.CounterValue, float64(s.Modules))

	for _, kind := range interleave.FailureKinds() {
		ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue,
			float64(s.Failures[kind]), kind.String())
	}

	ways := make([]int, 0, len(s.Widths))
	for w := range s.Widths {
		ways = append(ways, w)
	}
	sort.Ints(ways)
	for _, w := range ways {
		ch <- prometheus.MustNewConstMetric(c.widths, prometheus.CounterValue,
			float64(s.Widths[w]), strconv.Itoa(w))
	}
}

// RegisterStats registers a collector for the given statistics.
func RegisterStats(r *metrics.Registry, stats *interleave.Stats) error {
	return r.Register(MetricsCollector, NewStatsCollector(stats), metrics.WithGroup(MetricsGroup))
}
