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

package goal

import (
	"fmt"
)

var (
	// ErrInvalidType indicates an unknown region goal type.
	ErrInvalidType = fmt.Errorf("goal: invalid region type")
	// ErrInvalidTemplate indicates a missing or invalid goal template.
	ErrInvalidTemplate = fmt.Errorf("goal: invalid template")
	// ErrInvalidModule indicates a module which is not a goal Module.
	ErrInvalidModule = fmt.Errorf("goal: invalid module")
	// ErrGoalLimit indicates that a Factory has reached its goal limit.
	ErrGoalLimit = fmt.Errorf("goal: goal limit reached")
)
