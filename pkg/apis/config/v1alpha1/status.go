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

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/intel/pmem-interleave/pkg/goal"
)

const (
	// StatusSuccess indicates that all goals of a plan were created.
	StatusSuccess = metav1.StatusSuccess
	// StatusFailure indicates failure to create all goals of a plan.
	StatusFailure = metav1.StatusFailure
)

// PlanStatus is the outcome of planning an InterleavePlan.
type PlanStatus struct {
	// Status is either Success or Failure.
	// +optional
	Status string `json:"status,omitempty"`
	// Error is the error of a failed plan.
	// +optional
	Error string `json:"error,omitempty"`
	// Timestamp of planning.
	// +optional
	Timestamp *metav1.Time `json:"timestamp,omitempty"`
	// Goals are the region goals created, including those of a failed
	// plan.
	// +optional
	Goals []*goal.RegionGoal `json:"goals,omitempty"`
}

// NewPlanStatus creates a plan status for the given goals and error.
func NewPlanStatus(goals []*goal.RegionGoal, err error) *PlanStatus {
	now := metav1.Now()
	s := &PlanStatus{
		Timestamp: &now,
		Goals:     goals,
	}
	if err == nil {
		s.Status = StatusSuccess
	} else {
		s.Status = StatusFailure
		s.Error = fmt.Sprintf("%v", err)
	}
	return s
}
