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

package provision_test

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/resource"

	cfgapi "github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1"
)

func quantity(s string) *resource.Quantity {
	q := resource.MustParse(s)
	return &q
}

// socketModules returns fully populated modules for the given socket,
// named s<socket>d<location>.
func socketModules(socket int, capacity string, locations ...int) []cfgapi.Module {
	if len(locations) == 0 {
		locations = []int{0, 1, 2, 3, 4, 5}
	}

	var modules []cfgapi.Module
	for _, l := range locations {
		m := cfgapi.Module{
			ID:         fmt.Sprintf("s%dd%d", socket, l),
			Socket:     socket,
			Controller: l % 2,
			Channel:    l / 2,
		}
		if capacity != "" {
			m.Capacity = quantity(capacity)
		}
		modules = append(modules, m)
	}
	return modules
}

func newTemplate(name, typ, size string, modules ...string) cfgapi.Template {
	return cfgapi.Template{
		Name:    name,
		Type:    typ,
		Size:    resource.MustParse(size),
		Modules: modules,
	}
}
