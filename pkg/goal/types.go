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
	"encoding/json"
	"fmt"
	"strings"
)

// Type is the type of a region goal.
type Type int

const (
	// TypeAppDirect regions interleave the modules of a set.
	TypeAppDirect Type = iota
	// TypeAppDirectNotInterleaved regions use a single module each.
	TypeAppDirectNotInterleaved
)

var (
	typeToString = map[Type]string{
		TypeAppDirect:               "AppDirect",
		TypeAppDirectNotInterleaved: "AppDirectNotInterleaved",
	}
	stringToType = map[string]Type{
		"APPDIRECT":               TypeAppDirect,
		"APPDIRECTNOTINTERLEAVED": TypeAppDirectNotInterleaved,
	}
)

// ParseType parses the given string into a region goal type. Parsing is
// case-insensitive. An empty string parses as TypeAppDirect.
func ParseType(str string) (Type, error) {
	if str == "" {
		return TypeAppDirect, nil
	}
	if t, ok := stringToType[strings.ToUpper(str)]; ok {
		return t, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidType, str)
}

// IsValid returns true if the type is known.
func (t Type) IsValid() bool {
	_, ok := typeToString[t]
	return ok
}

// IsInterleaved returns true if regions of this type interleave modules.
func (t Type) IsInterleaved() bool {
	return t == TypeAppDirect
}

// String returns a string representation of the type.
func (t Type) String() string {
	if str, ok := typeToString[t]; ok {
		return str
	}

	return fmt.Sprintf("%%!(goal:Bad-Type %d)", t)
}

// MarshalJSON is the json.Marshaller for Type.
func (t Type) MarshalJSON() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, t)
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON is the json.Unmarshaller for Type.
func (t *Type) UnmarshalJSON(data []byte) error {
	i := 0
	if err := json.Unmarshal(data, &i); err == nil {
		if _, ok := typeToString[Type(i)]; ok {
			*t = Type(i)
			return nil
		}
		return fmt.Errorf("%w: %d", ErrInvalidType, i)
	}

	str := ""
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidType, err)
	}

	typ, err := ParseType(str)
	if err != nil {
		return err
	}

	*t = typ
	return nil
}

// Template describes the region goals to create for a set of modules.
type Template struct {
	// Name of the template.
	Name string
	// Type of the regions to create.
	Type Type
	// Size is the total size of the regions.
	Size uint64
}

// Preferences are optional driver preferences for interleaving.
type Preferences struct {
	ChannelInterleaveSize uint64 `json:"channelInterleaveSize,omitempty"`
	ImcInterleaveSize     uint64 `json:"imcInterleaveSize,omitempty"`
}

// IsZero returns true if no preference is set.
func (p *Preferences) IsZero() bool {
	return p == nil || (p.ChannelInterleaveSize == 0 && p.ImcInterleaveSize == 0)
}
