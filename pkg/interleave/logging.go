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

package interleave

import (
	logger "github.com/intel/pmem-interleave/pkg/log"
)

var (
	log     = logger.Get("interleave")
	details = logger.Get("interleave-details")
)

// DumpCatalog logs the catalog in priority order.
func DumpCatalog(prefix string) {
	log.Info("%sinterleave set catalog:", prefix)
	for prio, m := range catalog {
		log.Info("%s  #%-2d %-12s (0x%02x, %d controller(s))", prefix, prio, m, uint32(m),
			m.Controllers())
	}
}

func dumpPool(header string, modules []Module) {
	details.Debug("%s (occupied %s):", header, PoolMask(modules))
	for i, m := range modules {
		loc := ModuleLocation(m)
		details.Debug("  #%d: controller %d, channel %d => location %s",
			i, m.ControllerID(), m.ChannelID(), loc)
	}
}
