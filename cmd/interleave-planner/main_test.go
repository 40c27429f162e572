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
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	cfgapi "github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1"
	"github.com/intel/pmem-interleave/pkg/interleave"
	"github.com/intel/pmem-interleave/pkg/provision"
)

const testPlan = `
apiVersion: config.pmem.intel.com/v1alpha1
kind: InterleavePlan
metadata:
  name: socket0
spec:
  modules:
    - { id: a, controller: 0, channel: 0 }
    - { id: b, controller: 1, channel: 0 }
    - { id: c, controller: 0, channel: 1 }
    - { id: d, controller: 1, channel: 1 }
    - { id: e, controller: 0, channel: 2 }
  templates:
    - name: all
      size: 10Gi
`

func runPlan(t *testing.T, opts *options, plan string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	opts.config = "-"
	err := run(context.Background(), opts, strings.NewReader(plan), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunYAML(t *testing.T) {
	out, _, err := runPlan(t, &options{output: "yaml"}, testPlan)
	require.NoError(t, err)

	plan, err := provision.ParsePlan([]byte(out))
	require.NoError(t, err)
	require.Equal(t, cfgapi.StatusSuccess, plan.Status.Status)
	require.Len(t, plan.Status.Goals, 2)
	require.Equal(t, []string{"a", "b", "c", "d"}, plan.Status.Goals[0].Modules)
	require.Equal(t, uint64(8<<30), plan.Status.Goals[0].Size)
	require.Equal(t, []string{"e"}, plan.Status.Goals[1].Modules)
	require.Equal(t, uint16(2), plan.Status.Goals[1].InterleaveSetIndex)
}

func TestRunJSONWithMetrics(t *testing.T) {
	out, metrics, err := runPlan(t, &options{output: "json", metrics: true}, testPlan)
	require.NoError(t, err)

	plan := &cfgapi.InterleavePlan{}
	require.NoError(t, json.Unmarshal([]byte(out), plan))
	require.Len(t, plan.Status.Goals, 2)

	require.Contains(t, metrics, "pmem_interleave_plans_total 1")
	require.Contains(t, metrics, "pmem_interleave_goals_total 2")
	require.Contains(t, metrics, `pmem_interleave_goals_by_ways_total{ways="4"} 1`)
}

func TestRunPartialFailure(t *testing.T) {
	plan := strings.Replace(testPlan, "  templates:", "  maxGoals: 1\n  templates:", 1)

	out, _, err := runPlan(t, &options{output: "yaml"}, plan)
	require.Error(t, err)
	require.Equal(t, interleave.ResourceExhaustion, interleave.KindOf(err))

	result, perr := provision.ParsePlan([]byte(out))
	require.NoError(t, perr)
	require.Equal(t, cfgapi.StatusFailure, result.Status.Status)
	require.Contains(t, result.Status.Error, "failed to plan template \"all\"")
	require.Len(t, result.Status.Goals, 1)
}

func TestRunErrors(t *testing.T) {
	_, _, err := runPlan(t, &options{output: "xml"}, testPlan)
	require.ErrorContains(t, err, "invalid output format")

	_, _, err = runPlan(t, &options{output: "yaml"}, "spec: [")
	require.Error(t, err)

	_, _, err = runPlan(t, &options{output: "yaml"}, strings.Replace(testPlan, "id: e", "id: a", 1))
	require.ErrorIs(t, err, provision.ErrInvalidPlan)

	err = run(context.Background(), &options{output: "yaml"}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorContains(t, err, "missing plan")
}

func TestRunStdinReadError(t *testing.T) {
	readErr := errors.New("device gone")
	err := run(context.Background(), &options{config: "-", output: "yaml"},
		iotest.ErrReader(readErr), &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorContains(t, err, "failed to read plan from stdin")
	require.ErrorIs(t, err, readErr)
}
