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

package klogcontrol

import (
	"strconv"
)

// Config represents runtime configuration for klog. Field names follow
// the corresponding klog command line flags.
//
//nolint:revive,stylecheck
type Config struct {
	// +optional
	Add_dir_header *bool `json:"add_dir_header,omitempty"`
	// +optional
	Alsologtostderr *bool `json:"alsologtostderr,omitempty"`
	// +optional
	Log_backtrace_at *string `json:"log_backtrace_at,omitempty"`
	// +optional
	Log_dir *string `json:"log_dir,omitempty"`
	// +optional
	Log_file *string `json:"log_file,omitempty"`
	// +optional
	Log_file_max_size *uint64 `json:"log_file_max_size,omitempty"`
	// +optional
	Logtostderr *bool `json:"logtostderr,omitempty"`
	// +optional
	One_output *bool `json:"one_output,omitempty"`
	// +optional
	Skip_headers *bool `json:"skip_headers,omitempty"`
	// +optional
	Skip_log_headers *bool `json:"skip_log_headers,omitempty"`
	// +optional
	Stderrthreshold *string `json:"stderrthreshold,omitempty"`
	// +optional
	V *int `json:"v,omitempty"`
	// +optional
	Vmodule *string `json:"vmodule,omitempty"`
}

// GetByFlag returns the configured value for the given klog flag, if any.
func (c *Config) GetByFlag(name string) (string, bool) {
	if c == nil {
		return "", false
	}

	var (
		b *bool
		s *string
	)

	switch name {
	case "add_dir_header":
		b = c.Add_dir_header
	case "alsologtostderr":
		b = c.Alsologtostderr
	case "log_backtrace_at":
		s = c.Log_backtrace_at
	case "log_dir":
		s = c.Log_dir
	case "log_file":
		s = c.Log_file
	case "log_file_max_size":
		if c.Log_file_max_size == nil {
			return "", false
		}
		return strconv.FormatUint(*c.Log_file_max_size, 10), true
	case "logtostderr":
		b = c.Logtostderr
	case "one_output":
		b = c.One_output
	case "skip_headers":
		b = c.Skip_headers
	case "skip_log_headers":
		b = c.Skip_log_headers
	case "stderrthreshold":
		s = c.Stderrthreshold
	case "v":
		if c.V == nil {
			return "", false
		}
		return strconv.Itoa(*c.V), true
	case "vmodule":
		s = c.Vmodule
	}

	switch {
	case b != nil:
		return strconv.FormatBool(*b), true
	case s != nil:
		return *s, true
	}

	return "", false
}
