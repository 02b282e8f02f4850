/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package types provides the type catalog of the ODM: descriptors for the
// atomic kinds and the composite list and record types built from them,
// together with validity checks and value coercion.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the kind of an atomic type.
type Kind int

// Below are the atomic kinds of the catalog.
const (
	KindString Kind = iota + 1
	KindInteger
	KindDate
	KindBoolean
	KindObjectID
	KindUUID
)

var kindNames = map[Kind]string{
	KindString:   "String",
	KindInteger:  "Integer",
	KindDate:     "Date",
	KindBoolean:  "Boolean",
	KindObjectID: "ObjectID",
	KindUUID:     "UUID",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindOf returns the kind with the given name. "MongoObjectID" and
// "ExternalId" are accepted as aliases of "ObjectID".
func KindOf(name string) (Kind, bool) {
	switch name {
	case "MongoObjectID", "ExternalId":
		return KindObjectID, true
	}

	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, true
		}
	}
	return 0, false
}

// Descriptor describes the type of a value. It is one of Atomic, ListOf or
// RecordOf.
type Descriptor interface {
	fmt.Stringer
	isDescriptor()
}

// Atomic is the descriptor of an atomic kind.
type Atomic struct {
	Kind Kind
}

// ListOf is the descriptor of a sequence whose elements are all of Elem.
type ListOf struct {
	Elem Descriptor
}

// RecordOf is the descriptor of a keyed mapping. Fields maps a key to the
// descriptor its value must satisfy when present.
type RecordOf struct {
	Fields map[string]Descriptor
}

// Below are the descriptors of the atomic kinds.
var (
	String   Descriptor = Atomic{Kind: KindString}
	Integer  Descriptor = Atomic{Kind: KindInteger}
	Date     Descriptor = Atomic{Kind: KindDate}
	Boolean  Descriptor = Atomic{Kind: KindBoolean}
	ObjectID Descriptor = Atomic{Kind: KindObjectID}
	UUID     Descriptor = Atomic{Kind: KindUUID}
)

// List returns the descriptor of a list of elem.
func List(elem Descriptor) Descriptor {
	return ListOf{Elem: elem}
}

// Record returns the descriptor of a record with the given fields.
func Record(fields map[string]Descriptor) Descriptor {
	return RecordOf{Fields: fields}
}

func (Atomic) isDescriptor()   {}
func (ListOf) isDescriptor()   {}
func (RecordOf) isDescriptor() {}

// String returns the name of the kind.
func (a Atomic) String() string {
	return a.Kind.String()
}

// String returns the element type in brackets, e.g. "[Integer]".
func (l ListOf) String() string {
	return "[" + descriptorString(l.Elem) + "]"
}

// String returns the fields sorted by key, e.g. "{age: Integer, name: String}".
func (r RecordOf) String() string {
	keys := make([]string, 0, len(r.Fields))
	for key := range r.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, key+": "+descriptorString(r.Fields[key]))
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func descriptorString(d Descriptor) string {
	if d == nil {
		return "<nil>"
	}
	return d.String()
}

// IsValidType returns whether the given descriptor is a well-formed type:
// a known atomic kind, or a list or record built from well-formed types.
func IsValidType(d Descriptor) bool {
	switch t := d.(type) {
	case Atomic:
		_, ok := kindNames[t.Kind]
		return ok
	case ListOf:
		return IsValidType(t.Elem)
	case RecordOf:
		for _, field := range t.Fields {
			if !IsValidType(field) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
