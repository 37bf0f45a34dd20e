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

// Package check validates the static structure of a value tree before it
// is handed to the evaluator. Validation is advisory: interior mutation
// (Store, Take) can repair or invalidate a tree between checking and
// evaluation, so the evaluator re-checks everything it depends on at
// evaluation time.
package check

import (
	"fmt"

	"go.uber.org/multierr"

	"treegen/tree"
)

// Tree walks root and reports every structural violation it can detect
// at rest, aggregated into a single error: closures with no body,
// conditionals without exactly three children, repetitions with no count
// child, negative argument slots, released references, and dangling
// self-references. A nil return means no violation was found.
func Tree(root tree.Node) error {
	c := &checker{}
	// The checker never aborts the walk; it accumulates instead.
	_ = tree.Walk(c, root)
	return c.violations
}

// checker is the tree.Walk visitor accumulating violations.
type checker struct {
	violations error
}

// Pre implementation for checker.
func (c *checker) Pre(n tree.Node) error {
	switch n := n.(type) {
	case *tree.Closure:
		if len(n.Nodes) == 0 {
			c.report(fmt.Errorf("closure with no body"))
		}
	case *tree.IfThenElse:
		if len(n.Nodes) != 3 {
			c.report(fmt.Errorf("conditional with %d children, want 3", len(n.Nodes)))
		}
	case *tree.Repeat:
		if len(n.Nodes) == 0 {
			c.report(fmt.Errorf("repetition with no count child"))
		}
	case *tree.Argument:
		if n.Slot < 0 {
			c.report(fmt.Errorf("negative argument slot %d", n.Slot))
		}
	case *tree.TakeFromArgument:
		if n.Slot < 0 {
			c.report(fmt.Errorf("negative argument slot %d", n.Slot))
		}
	case *tree.Reference:
		if !n.Target.Alive() {
			c.report(fmt.Errorf("released reference"))
		}
	case *tree.SelfReference:
		if _, ok := n.Target.Upgrade(); !ok {
			c.report(fmt.Errorf("dangling self-reference"))
		}
	}
	return nil
}

// Post implementation for checker.
func (c *checker) Post(tree.Node) error {
	return nil
}

func (c *checker) report(err error) {
	c.violations = multierr.Append(c.violations, err)
}
