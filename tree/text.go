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

package tree

// Text is an owned-or-borrowed string. Borrowed text aliases memory the
// caller keeps alive for the whole evaluation and is delivered to the
// consumer through the borrowed-text callback, enabling zero-copy
// consumption. Owned text is owned by the node and delivered through the
// owned-text callback (or the transient-text callback when the evaluator
// itself holds the node).
type Text struct {
	// Value is the text content.
	Value string
	// Borrowed indicates the content aliases caller-retained memory.
	Borrowed bool
}

// OwnedText returns an owned Text.
func OwnedText(s string) Text {
	return Text{Value: s}
}

// BorrowedText returns a borrowed Text.
func BorrowedText(s string) Text {
	return Text{Value: s, Borrowed: true}
}

// IsEmpty reports whether the text is empty.
func (t Text) IsEmpty() bool {
	return t.Value == ""
}

// Str is a convenience constructor for a String node carrying owned text.
func Str(s string) *String {
	return &String{Text: OwnedText(s)}
}

// BorrowedStr is a convenience constructor for a String node carrying
// borrowed text.
func BorrowedStr(s string) *String {
	return &String{Text: BorrowedText(s)}
}
