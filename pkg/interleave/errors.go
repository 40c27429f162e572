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
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter      = fmt.Errorf("interleave: invalid parameter")
	ErrNoSatisfiableTopology = fmt.Errorf("interleave: no interleaving match")
	ErrAccountingInvariant   = fmt.Errorf("interleave: size accounting invariant violated")
	ErrResourceExhausted     = fmt.Errorf("interleave: failed to create region goal")
)

// FailureKind classifies the outcome of planning.
type FailureKind int

const (
	Success FailureKind = iota
	InvalidParameter
	NoSatisfiableTopology
	AccountingInvariantViolated
	ResourceExhaustion
	UnknownFailure
)

var (
	kindToString = map[FailureKind]string{
		Success:                     "success",
		InvalidParameter:            "invalid-parameter",
		NoSatisfiableTopology:       "no-satisfiable-topology",
		AccountingInvariantViolated: "accounting-invariant-violated",
		ResourceExhaustion:          "resource-exhaustion",
		UnknownFailure:              "unknown-failure",
	}
)

// KindOf returns the FailureKind for the given error.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrInvalidParameter):
		return InvalidParameter
	case errors.Is(err, ErrNoSatisfiableTopology):
		return NoSatisfiableTopology
	case errors.Is(err, ErrAccountingInvariant):
		return AccountingInvariantViolated
	case errors.Is(err, ErrResourceExhausted):
		return ResourceExhaustion
	}
	return UnknownFailure
}

// FailureKinds returns all failure kinds, Success excluded.
func FailureKinds() []FailureKind {
	return []FailureKind{
		InvalidParameter,
		NoSatisfiableTopology,
		AccountingInvariantViolated,
		ResourceExhaustion,
		UnknownFailure,
	}
}

// String returns a string representation of the FailureKind.
func (k FailureKind) String() string {
	if str, ok := kindToString[k]; ok {
		return str
	}
	return fmt.Sprintf("%%!(interleave:Bad-FailureKind %d)", k)
}
