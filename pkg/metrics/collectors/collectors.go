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

package collectors

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/intel/pmem-interleave/pkg/metrics"
)

// StandardGroup is the group of the standard collectors.
const StandardGroup = "standard"

// NewVersionInfoCollector returns a collector for version and build info.
func NewVersionInfoCollector(v, b string) prometheus.Collector {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "version_info",
			Help: "A metric with constant '1' value labeled by version and build info.",
			ConstLabels: prometheus.Labels{
				"version": v,
				"build":   b,
			},
		},
		func() float64 { return 1 },
	)
}

// Register registers the standard collectors with the registry.
func Register(r *metrics.Registry, version, build string) error {
	var (
		collectors = map[string]prometheus.Collector{
			"buildinfo":   collectors.NewBuildInfoCollector(),
			"golang":      collectors.NewGoCollector(),
			"versioninfo": NewVersionInfoCollector(version, build),
		}
		options = []metrics.RegisterOption{
			metrics.WithGroup(StandardGroup),
			metrics.WithCollectorOptions(
				metrics.WithoutNamespace(),
				metrics.WithoutSubsystem(),
			),
		}
	)

	for name, collector := range collectors {
		if err := r.Register(name, collector, options...); err != nil {
			return fmt.Errorf("failed to register %s collector: %w", name, err)
		}
	}

	return nil
}
