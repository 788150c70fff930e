// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"fmt"
	"strings"
)

// ExternalServiceError is a failed call to the generation service.
type ExternalServiceError struct {
	Stage string
	Err   error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("stage %s: generation service: %v", e.Stage, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// DependencyMissing means a stage ran with its gate enabled but an
// upstream artifact it needs was never produced.
type DependencyMissing struct {
	Stage string
	Kind  Kind
}

func (e *DependencyMissing) Error() string {
	return fmt.Sprintf("stage %s: required artifact %s is missing", e.Stage, e.Kind)
}

// ContractViolation is a structured response that does not have the shape
// its contract demands. Contract is "reconciliation" or "identification".
type ContractViolation struct {
	Contract   string
	Missing    []string
	Unexpected []string
	Err        error
}

// ReconciliationContractViolation is the name used across the codebase for
// key-set mismatches in the reconciliation response.
type ReconciliationContractViolation = ContractViolation

func (e *ContractViolation) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s response violates its contract", e.Contract)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ", missing keys [%s]", strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		fmt.Fprintf(&b, ", unexpected keys [%s]", strings.Join(e.Unexpected, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ContractViolation) Unwrap() error { return e.Err }

// MaterializationError is a failed directory creation or file write.
type MaterializationError struct {
	Path string
	Err  error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *MaterializationError) Unwrap() error { return e.Err }

// ConfigurationError is reported at startup, before any stage runs.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}
