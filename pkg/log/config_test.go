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

package log

import (
	"testing"

	"github.com/stretchr/testify/require"

	cfgapi "github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1/log"
)

func TestSrcmapParse(t *testing.T) {
	type testCase struct {
		name   string
		value  string
		result srcmap
		str    string
		fail   bool
	}

	for _, tc := range []*testCase{
		{
			name:   "empty",
			value:  "",
			result: srcmap{},
			str:    "",
		},
		{
			name:   "plain sources default to on",
			value:  "interleave, goal",
			result: srcmap{"interleave": true, "goal": true},
			str:    "on:goal,interleave",
		},
		{
			name:   "state is inherited",
			value:  "off:metrics,provision,on:goal",
			result: srcmap{"metrics": false, "provision": false, "goal": true},
			str:    "on:goal,off:metrics,provision",
		},
		{
			name:   "all is a wildcard",
			value:  "all,off:interleave-details",
			result: srcmap{"*": true, "interleave-details": false},
			str:    "on:*,off:interleave-details",
		},
		{
			name:  "bad state",
			value: "maybe:interleave",
			fail:  true,
		},
		{
			name:  "bad entry",
			value: "on:off:interleave",
			fail:  true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := srcmap{}
			err := m.parse(tc.value)
			if tc.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.result, m)
			require.Equal(t, tc.str, m.String())
		})
	}
}

func TestSrcmapEnabled(t *testing.T) {
	m := srcmap{}
	require.False(t, m.enabled("interleave"))

	require.NoError(t, m.parse("*,off:metrics"))
	require.True(t, m.enabled("interleave"))
	require.False(t, m.enabled("metrics"))
}

func TestConfigureDebug(t *testing.T) {
	l := Get("log-test")
	defer func() {
		require.NoError(t, Configure(&cfgapi.Config{}))
	}()

	require.NoError(t, Configure(&cfgapi.Config{Debug: []string{"log-test"}}))
	require.True(t, l.DebugEnabled())
	require.False(t, Get("log-test-other").DebugEnabled())

	require.NoError(t, Configure(&cfgapi.Config{Debug: []string{"all,off:log-test"}}))
	require.False(t, l.DebugEnabled())
	require.True(t, Get("log-test-other").DebugEnabled())

	require.Error(t, Configure(&cfgapi.Config{Debug: []string{"bogus:log-test"}}))

	require.NoError(t, Configure(&cfgapi.Config{}))
	require.False(t, l.DebugEnabled())
	EnableDebug("log-test")
	require.True(t, l.DebugEnabled())
	require.True(t, l.EnableDebug(false))
	require.False(t, l.DebugEnabled())
}

func TestParseEnabled(t *testing.T) {
	for _, v := range []string{"on", "TRUE", "enable", "Enabled", "1"} {
		state, err := parseEnabled(v)
		require.NoError(t, err, v)
		require.True(t, state, v)
	}
	for _, v := range []string{"off", "false", "Disable", "disabled", "0"} {
		state, err := parseEnabled(v)
		require.NoError(t, err, v)
		require.False(t, state, v)
	}
	_, err := parseEnabled("perhaps")
	require.Error(t, err)
}
