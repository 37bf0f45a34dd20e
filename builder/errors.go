//  Copyright (c) 2023 Uber Technologies, Inc.
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

package builder

import (
	"errors"
	"fmt"
)

// The four error kinds of the engine. Errors propagate synchronously and
// without recovery; each one is fatal to the current evaluation only.
var (
	// ErrMapAccess is returned when a consumer asks a map adapter for a
	// value without first having asked for a key.
	ErrMapAccess = errors.New("invalid map access sequence")

	// ErrArgument is returned for an argument index out of bounds, a
	// PopArgument on an empty stack, a Closure with no body, or an
	// IfThenElse with fewer than three children.
	ErrArgument = errors.New("invalid function argument")

	// ErrSelfReference is returned when a self-reference's target is no
	// longer owned anywhere in the tree.
	ErrSelfReference = errors.New("dangling self-reference")

	// ErrUnimplemented is returned for variants the evaluator declares
	// but does not implement (Empty and the reserved variants).
	ErrUnimplemented = errors.New("unimplemented variant")
)

// DecodeError is the deserialization error: the type-directed consumer
// rejected an evaluated value. It carries the consumer's message.
type DecodeError struct {
	// Message is the consumer's rejection message.
	Message string
}

// Error implementation for DecodeError.
func (e *DecodeError) Error() string {
	return "invalid deserialization: " + e.Message
}

// Decodef builds a DecodeError from a format string. Consumers use it to
// reject evaluated values with a message of their own.
func Decodef(format string, args ...any) error {
	return &DecodeError{Message: fmt.Sprintf(format, args...)}
}
