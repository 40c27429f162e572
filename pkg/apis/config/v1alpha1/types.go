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

package v1alpha1

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1/instrumentation"
	"github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1/log"
)

const (
	// GroupName is the API group of interleave plans.
	GroupName = "config.pmem.intel.com"
	// Version is the API version of this package.
	Version = "v1alpha1"
	// APIVersion is the full API version of this package.
	APIVersion = GroupName + "/" + Version
	// InterleavePlanKind is the kind of an InterleavePlan.
	InterleavePlanKind = "InterleavePlan"
)

// InterleavePlan describes persistent memory modules and the region goals
// to plan for them.
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
type InterleavePlan struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   InterleavePlanSpec `json:"spec"`
	Status PlanStatus         `json:"status,omitempty"`
}

// InterleavePlanSpec describes the modules and templates of a plan.
type InterleavePlanSpec struct {
	// Modules is the inventory of persistent memory modules.
	Modules []Module `json:"modules"`
	// Templates are the region goal templates, planned in this order.
	Templates []Template `json:"templates"`
	// Preferences are optional driver preferences for interleaving.
	// +optional
	Preferences *Preferences `json:"preferences,omitempty"`
	// MaxGoals limits the number of goals created, 0 for no limit.
	// +optional
	// +kubebuilder:validation:Minimum=0
	MaxGoals int `json:"maxGoals,omitempty"`
	// +optional
	Log log.Config `json:"log,omitempty"`
	// +optional
	Instrumentation instrumentation.Config `json:"instrumentation,omitempty"`
}

// Module describes a single persistent memory module.
type Module struct {
	// ID uniquely identifies the module.
	ID string `json:"id"`
	// Socket is the socket of the module.
	// +optional
	Socket int `json:"socket,omitempty"`
	// Controller is the memory controller of the module within its socket.
	Controller int `json:"controller"`
	// Channel is the memory channel of the module within its controller.
	Channel int `json:"channel"`
	// Capacity of the module.
	// +optional
	Capacity *resource.Quantity `json:"capacity,omitempty"`
}

// Template describes region goals to plan for a set of modules.
type Template struct {
	// Name of the template.
	Name string `json:"name"`
	// Type of regions to create.
	// +optional
	// +kubebuilder:validation:Enum=AppDirect;AppDirectNotInterleaved
	// +kubebuilder:default=AppDirect
	Type string `json:"type,omitempty"`
	// Size is the total size of the regions.
	Size resource.Quantity `json:"size"`
	// Modules are the IDs of the modules to use. Empty means all.
	// +optional
	Modules []string `json:"modules,omitempty"`
}

// Preferences are driver preferences for interleaving.
type Preferences struct {
	// +optional
	ChannelInterleaveSize *resource.Quantity `json:"channelInterleaveSize,omitempty"`
	// +optional
	ImcInterleaveSize *resource.Quantity `json:"imcInterleaveSize,omitempty"`
}

// Bytes returns the given quantity as a number of bytes. A nil quantity
// is 0 bytes.
func Bytes(q *resource.Quantity) (uint64, error) {
	if q == nil {
		return 0, nil
	}
	if q.Sign() < 0 {
		return 0, fmt.Errorf("invalid negative quantity %s", q.String())
	}
	v, ok := q.AsInt64()
	if !ok {
		return 0, fmt.Errorf("quantity %s is not an integral number of bytes", q.String())
	}
	return uint64(v), nil
}
