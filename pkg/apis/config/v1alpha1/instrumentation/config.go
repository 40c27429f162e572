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

package instrumentation

import (
	"github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1/metrics"
)

// Config provides runtime configuration for instrumentation.
// +kubebuilder:object:generate=true
type Config struct {
	// Namespace is the prefix of exported metrics.
	// +optional
	// +kubebuilder:default="pmem"
	Namespace string `json:"namespace,omitempty"`
	// Metrics defines which metrics to collect.
	// +kubebuilder:default={"enabled": {"interleave"}}
	Metrics *metrics.Config `json:"metrics,omitempty"`
}
