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

// Package bind materializes evaluated trees into Go values. It supplies
// the type-directed consumer glue on top of the builder visitor
// protocol: a reflection-driven visitor that fills structs (from
// name-keyed maps, index-keyed maps, or positional sequences), slices,
// arrays, maps and scalars, plus a generic visitor producing untyped
// bool/int64/uint64/float64/string/[]any/map[string]any values.
package bind

import (
	"fmt"
	"reflect"
	"strings"

	"treegen/builder"
	"treegen/tree"
)

// _tagName is the struct tag consulted for field naming, e.g.
// `tree:"field_name"`.
const _tagName = "tree"

// Unmarshal evaluates root in owning mode and stores the result into the
// value pointed to by out. See builder.FromTree for the ownership
// contract on root.
func Unmarshal(root tree.Node, out any) error {
	v, err := target(out)
	if err != nil {
		return err
	}
	_, err = builder.FromTree(root, &into{target: v})
	return err
}

// UnmarshalRef evaluates root in borrowing mode and stores the result
// into the value pointed to by out, leaving the tree structure intact.
func UnmarshalRef(root tree.Node, out any) error {
	v, err := target(out)
	if err != nil {
		return err
	}
	_, err = builder.FromTreeRef(root, &into{target: v})
	return err
}

// Value evaluates root in owning mode into a generic value.
func Value(root tree.Node) (any, error) {
	return builder.FromTree(root, generic{})
}

// ValueRef evaluates root in borrowing mode into a generic value.
func ValueRef(root tree.Node) (any, error) {
	return builder.FromTreeRef(root, generic{})
}

// target validates the output destination: a non-nil pointer.
func target(out any) (reflect.Value, error) {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("bind target must be a non-nil pointer, got %T", out)
	}
	return rv.Elem(), nil
}

// into is the reflection-driven visitor. Each callback fills the target
// value in place; the returned any is unused (nil) since the result
// materializes through the pointer the caller supplied.
type into struct {
	target reflect.Value
}

// indirect resolves pointer targets, allocating along the way, so that
// every callback works on a settable non-pointer value.
func (d *into) indirect() reflect.Value {
	t := d.target
	for t.Kind() == reflect.Ptr {
		if t.IsNil() {
			t.Set(reflect.New(t.Type().Elem()))
		}
		t = t.Elem()
	}
	return t
}

// VisitBool implementation for into.
func (d *into) VisitBool(v bool) (any, error) {
	t := d.indirect()
	switch t.Kind() {
	case reflect.Bool:
		t.SetBool(v)
	case reflect.Interface:
		return nil, d.setAny(t, v)
	default:
		return nil, builder.Decodef("cannot store bool into %s", t.Type())
	}
	return nil, nil
}

// VisitInt implementation for into.
func (d *into) VisitInt(v int64) (any, error) {
	t := d.indirect()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t.OverflowInt(v) {
			return nil, builder.Decodef("value %d overflows %s", v, t.Type())
		}
		t.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v < 0 || t.OverflowUint(uint64(v)) {
			return nil, builder.Decodef("value %d overflows %s", v, t.Type())
		}
		t.SetUint(uint64(v))
	case reflect.Float32, reflect.Float64:
		t.SetFloat(float64(v))
	case reflect.Interface:
		return nil, d.setAny(t, v)
	default:
		return nil, builder.Decodef("cannot store integer into %s", t.Type())
	}
	return nil, nil
}

// VisitUint implementation for into.
func (d *into) VisitUint(v uint64) (any, error) {
	t := d.indirect()
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if t.OverflowUint(v) {
			return nil, builder.Decodef("value %d overflows %s", v, t.Type())
		}
		t.SetUint(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v > 1<<63-1 || t.OverflowInt(int64(v)) {
			return nil, builder.Decodef("value %d overflows %s", v, t.Type())
		}
		t.SetInt(int64(v))
	case reflect.Float32, reflect.Float64:
		t.SetFloat(float64(v))
	case reflect.Interface:
		return nil, d.setAny(t, v)
	default:
		return nil, builder.Decodef("cannot store unsigned into %s", t.Type())
	}
	return nil, nil
}

// VisitFloat implementation for into.
func (d *into) VisitFloat(v float64) (any, error) {
	t := d.indirect()
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		t.SetFloat(v)
	case reflect.Interface:
		return nil, d.setAny(t, v)
	default:
		return nil, builder.Decodef("cannot store float into %s", t.Type())
	}
	return nil, nil
}

// VisitBorrowedText implementation for into. Go strings are immutable, so
// borrowed text can be stored directly.
func (d *into) VisitBorrowedText(s string) (any, error) {
	return nil, d.setText(s)
}

// VisitText implementation for into.
func (d *into) VisitText(s string) (any, error) {
	return nil, d.setText(s)
}

// VisitOwnedText implementation for into.
func (d *into) VisitOwnedText(s string) (any, error) {
	return nil, d.setText(s)
}

func (d *into) setText(s string) error {
	t := d.indirect()
	switch t.Kind() {
	case reflect.String:
		t.SetString(s)
	case reflect.Interface:
		return d.setAny(t, s)
	default:
		return builder.Decodef("cannot store text into %s", t.Type())
	}
	return nil
}

// VisitSeq implementation for into: slices grow per element, arrays fill
// up to their length, structs bind positionally over their exported
// fields, and empty-interface targets collect a []any.
func (d *into) VisitSeq(seq builder.SeqAccess) (any, error) {
	t := d.indirect()
	switch t.Kind() {
	case reflect.Slice:
		size, _ := seq.SizeHint()
		result := reflect.MakeSlice(t.Type(), 0, size)
		for {
			elem := reflect.New(t.Type().Elem()).Elem()
			_, more, err := seq.NextElement(&into{target: elem})
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			result = reflect.Append(result, elem)
		}
		t.Set(result)
	case reflect.Array:
		for i := 0; i < t.Len(); i++ {
			_, more, err := seq.NextElement(&into{target: t.Index(i)})
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		}
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.CanSet() {
				continue
			}
			_, more, err := seq.NextElement(&into{target: field})
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		}
	case reflect.Interface:
		value, err := generic{}.VisitSeq(seq)
		if err != nil {
			return nil, err
		}
		return nil, d.setAny(t, value)
	default:
		return nil, builder.Decodef("cannot store sequence into %s", t.Type())
	}
	return nil, nil
}

// VisitMap implementation for into: structs bind by field name (tag,
// exact, then case-insensitive match) or by unsigned field index, map
// targets bind key/value pairs, and empty-interface targets collect a
// map[string]any. Entries matching no struct field are skipped, with
// their value drained to keep the adapter protocol intact.
func (d *into) VisitMap(m builder.MapAccess) (any, error) {
	t := d.indirect()
	switch t.Kind() {
	case reflect.Struct:
		for {
			key, more, err := m.NextKey(generic{})
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			field, ok := structField(t, key)
			if !ok {
				if _, err := m.NextValue(skip{}); err != nil {
					return nil, err
				}
				continue
			}
			if _, err := m.NextValue(&into{target: field}); err != nil {
				return nil, err
			}
		}
	case reflect.Map:
		result := reflect.MakeMap(t.Type())
		for {
			key := reflect.New(t.Type().Key()).Elem()
			_, more, err := m.NextKey(&into{target: key})
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			value := reflect.New(t.Type().Elem()).Elem()
			if _, err := m.NextValue(&into{target: value}); err != nil {
				return nil, err
			}
			result.SetMapIndex(key, value)
		}
		t.Set(result)
	case reflect.Interface:
		value, err := generic{}.VisitMap(m)
		if err != nil {
			return nil, err
		}
		return nil, d.setAny(t, value)
	default:
		return nil, builder.Decodef("cannot store map into %s", t.Type())
	}
	return nil, nil
}

// setAny stores v into an interface target, which must be the empty
// interface.
func (d *into) setAny(t reflect.Value, v any) error {
	if t.NumMethod() != 0 {
		return builder.Decodef("cannot store value into non-empty interface %s", t.Type())
	}
	t.Set(reflect.ValueOf(v))
	return nil
}

// structField resolves an evaluated map key to a settable field of a
// struct value. String keys match the tree tag, the exact field name, or
// the name case-insensitively; unsigned (or signed) keys address fields
// by declaration index.
func structField(t reflect.Value, key any) (reflect.Value, bool) {
	switch key := key.(type) {
	case string:
		st := t.Type()
		for i := 0; i < st.NumField(); i++ {
			if tag, ok := st.Field(i).Tag.Lookup(_tagName); ok && tag == key {
				return settableField(t, i)
			}
		}
		if f, ok := st.FieldByName(key); ok && len(f.Index) == 1 {
			return settableField(t, f.Index[0])
		}
		for i := 0; i < st.NumField(); i++ {
			if strings.EqualFold(st.Field(i).Name, key) {
				return settableField(t, i)
			}
		}
	case uint64:
		return fieldByIndex(t, int(key))
	case int64:
		return fieldByIndex(t, int(key))
	}
	return reflect.Value{}, false
}

func fieldByIndex(t reflect.Value, i int) (reflect.Value, bool) {
	if i < 0 || i >= t.NumField() {
		return reflect.Value{}, false
	}
	return settableField(t, i)
}

func settableField(t reflect.Value, i int) (reflect.Value, bool) {
	field := t.Field(i)
	if !field.CanSet() {
		return reflect.Value{}, false
	}
	return field, true
}
