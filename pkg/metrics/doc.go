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

package metrics

// The metrics package provides a simple framework for collecting and
// exporting metrics. It is implemented as a set of simple wrappers around
// prometheus types. These help enforce metrics namespacing, allow metrics
// grouping and provide runtime configurability of the collected metrics.
//
// Simple Usage
//
//package main
//
//import (
//    "log"
//    "os"
//
//    "github.com/intel/pmem-interleave/pkg/metrics"
//    "github.com/prometheus/client_golang/prometheus/collectors"
//    "github.com/prometheus/common/expfmt"
//)
//
//func main() {
//    r := metrics.NewRegistry()
//
//    err := r.Register(
//        "build",
//        collectors.NewBuildInfoCollector(),
//        metrics.WithGroup("group1"),
//    )
//    if err != nil {
//        log.Fatal(err)
//    }
//
//    g, err := r.NewGatherer(metrics.WithMetrics([]string{"*"}))
//    if err != nil {
//        log.Fatal(err)
//    }
//
//    mfs, err := g.Gather()
//    if err != nil {
//        log.Fatal(err)
//    }
//    for _, mf := range mfs {
//        expfmt.MetricFamilyToText(os.Stdout, mf)
//    }
//}
