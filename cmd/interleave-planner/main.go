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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/common/expfmt"

	cfgapi "github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1"
	logger "github.com/intel/pmem-interleave/pkg/log"
	"github.com/intel/pmem-interleave/pkg/interleave"
	"github.com/intel/pmem-interleave/pkg/metrics"
	"github.com/intel/pmem-interleave/pkg/metrics/collectors"
	"github.com/intel/pmem-interleave/pkg/provision"
)

var (
	log = logger.Get("planner")

	// Set at build time.
	version = "unknown"
	build   = "unknown"
)

type options struct {
	config      string
	output      string
	metrics     bool
	logSource   bool
	debug       string
	dumpCatalog bool
}

func main() {
	opts := &options{}

	flag.StringVar(&opts.config, "config", "", "InterleavePlan to plan ('-' for stdin)")
	flag.StringVar(&opts.output, "output", "yaml", "output format, yaml or json")
	flag.BoolVar(&opts.metrics, "metrics", false, "print planning metrics to stderr")
	flag.BoolVar(&opts.logSource, "log-source", false, "prefix log messages with their source")
	flag.StringVar(&opts.debug, "debug", "", "comma-separated list of sources to enable debugging for")
	flag.BoolVar(&opts.dumpCatalog, "dump-catalog", false, "log the interleaving catalog and exit")
	flag.Parse()

	logger.SetSlogLogger("slog")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, opts, os.Stdin, os.Stdout, os.Stderr)
	stop()
	logger.Flush()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.dumpCatalog {
		interleave.DumpCatalog("  ")
		return nil
	}

	switch opts.output {
	case "yaml", "json":
	default:
		return errors.Errorf("invalid output format %q", opts.output)
	}

	plan, err := loadPlan(opts.config, stdin)
	if err != nil {
		return err
	}

	logCfg := plan.Spec.Log
	if opts.debug != "" {
		logCfg.Debug = append(append([]string{}, logCfg.Debug...), opts.debug)
	}
	if opts.logSource {
		logCfg.LogSource = true
	}
	if err := logger.Configure(&logCfg); err != nil {
		return err
	}

	stats := interleave.NewStats()
	session, err := provision.NewSession(&plan.Spec, provision.WithStats(stats))
	if err != nil {
		return err
	}

	goals, planErr := session.Plan(ctx)
	if planErr != nil {
		log.Error("planning %q failed (%s): %v", plan.Name, interleave.KindOf(planErr), planErr)
	} else {
		log.Info("planned %d goals for %q", len(goals), plan.Name)
	}

	plan.Status = *cfgapi.NewPlanStatus(goals, planErr)

	if err := writePlan(stdout, plan, opts.output); err != nil {
		return err
	}

	if opts.metrics {
		if err := writeMetrics(stderr, stats, &plan.Spec); err != nil {
			return err
		}
	}

	return planErr
}

func loadPlan(path string, stdin io.Reader) (*cfgapi.InterleavePlan, error) {
	switch path {
	case "":
		return nil, errors.New("missing plan, use -config to give one")
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read plan from stdin")
		}
		return provision.ParsePlan(data)
	}
	return provision.LoadPlan(path)
}

func writePlan(w io.Writer, plan *cfgapi.InterleavePlan, format string) error {
	var (
		data []byte
		err  error
	)

	if format == "json" {
		data, err = json.MarshalIndent(plan, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = provision.DumpPlan(plan)
	}
	if err != nil {
		return errors.Wrap(err, "failed to render plan")
	}

	_, err = w.Write(data)
	return err
}

func writeMetrics(w io.Writer, stats *interleave.Stats, spec *cfgapi.InterleavePlanSpec) error {
	var (
		r         = metrics.NewRegistry()
		namespace = spec.Instrumentation.Namespace
		enabled   = []string{provision.MetricsGroup}
	)

	if err := provision.RegisterStats(r, stats); err != nil {
		return err
	}
	if err := collectors.Register(r, version, build); err != nil {
		return err
	}

	if namespace == "" {
		namespace = "pmem"
	}
	if m := spec.Instrumentation.Metrics; m != nil && len(m.Enabled) > 0 {
		enabled = m.Enabled
	}

	g, err := r.NewGatherer(metrics.WithNamespace(namespace), metrics.WithMetrics(enabled))
	if err != nil {
		return err
	}

	mfs, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather metrics")
	}

	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "failed to write metrics")
		}
	}

	log.Debug("wrote metrics for groups %s", strings.Join(r.Groups(), ","))

	return nil
}
