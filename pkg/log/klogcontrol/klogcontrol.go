// Copyright 2019-2020 Intel Corporation. All Rights Reserved.
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
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	cfgapi "github.com/intel/pmem-interleave/pkg/apis/config/v1alpha1/log/klogcontrol"
	"k8s.io/klog/v2"
)

// Control implements runtime control for klog.
type Control struct {
	*flag.FlagSet
}

var ctl = &Control{FlagSet: flag.NewFlagSet("klog flags", flag.ContinueOnError)}

// Get returns the singleton klog Control instance.
func Get() *Control {
	return ctl
}

// Configure klog according to the given configuration. Flags the
// configuration leaves unset keep their current value.
func (c *Control) Configure(cfg *cfgapi.Config) error {
	var errs []error
	c.VisitAll(func(f *flag.Flag) {
		if value, ok := cfg.GetByFlag(f.Name); ok {
			if err := c.Set(f.Name, value); err != nil {
				errs = append(errs, klogError("failed to set klog flag %s to %s: %w",
					f.Name, value, err))
			}
		}
	})
	return errors.Join(errs...)
}

// EnvForFlag returns the name of the environment variable which can be
// used to seed the default value of the given klog flag.
func EnvForFlag(flagName string) string {
	return "LOGGER_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getEnvForFlag(flagName string) (string, string, bool) {
	name := EnvForFlag(flagName)
	if value, ok := os.LookupEnv(name); ok {
		return name, value, true
	}
	return "", "", false
}

func klogError(format string, args ...interface{}) error {
	return fmt.Errorf("klogcontrol: "+format, args...)
}

func init() {
	ctl.SetOutput(io.Discard)
	klog.InitFlags(ctl.FlagSet)
	ctl.VisitAll(func(f *flag.Flag) {
		if name, value, ok := getEnvForFlag(f.Name); ok {
			if err := ctl.Set(f.Name, value); err != nil {
				klog.Errorf("klog flag %q: invalid environment default %s=%q: %v",
					f.Name, name, value, err)
			}
		}
	})
}
