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
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	cfgapi "github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1"
)

// LoadPlan reads an InterleavePlan from the given file.
func LoadPlan(path string) (*cfgapi.InterleavePlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read plan %q", path)
	}

	plan, err := ParsePlan(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load plan %q", path)
	}

	return plan, nil
}

// ParsePlan parses an InterleavePlan from YAML or JSON data. Unknown
// fields are rejected. A missing apiVersion or kind is defaulted.
func ParsePlan(data []byte) (*cfgapi.InterleavePlan, error) {
	plan := &cfgapi.InterleavePlan{}
	if err := yaml.UnmarshalStrict(data, plan); err != nil {
		return nil, errors.Wrap(err, "failed to parse plan")
	}

	switch plan.APIVersion {
	case "":
		plan.APIVersion = cfgapi.APIVersion
	case cfgapi.APIVersion:
	default:
		return nil, errors.Errorf("unsupported apiVersion %q", plan.APIVersion)
	}

	switch plan.Kind {
	case "":
		plan.Kind = cfgapi.InterleavePlanKind
	case cfgapi.InterleavePlanKind:
	default:
		return nil, errors.Errorf("unsupported kind %q", plan.Kind)
	}

	return plan, nil
}

// DumpPlan renders an InterleavePlan as YAML.
func DumpPlan(plan *cfgapi.InterleavePlan) ([]byte, error) {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal plan")
	}
	return data, nil
}
