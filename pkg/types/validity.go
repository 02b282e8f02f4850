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

package types

import (
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// uuidLength is the length of the canonical 8-4-4-4-12 representation.
const uuidLength = 36

// IsValidValueAs returns whether the given value already satisfies the
// descriptor without any coercion. Keys of a record descriptor that are
// absent from the value are ignored.
func IsValidValueAs(value interface{}, d Descriptor) bool {
	switch t := d.(type) {
	case Atomic:
		return isValidAtomic(value, t.Kind)
	case ListOf:
		elems, ok := AsSequence(value)
		if !ok {
			return false
		}
		for _, elem := range elems {
			if !IsValidValueAs(elem, t.Elem) {
				return false
			}
		}
		return true
	case RecordOf:
		entries, ok := AsMapping(value)
		if !ok {
			return false
		}
		for key, field := range t.Fields {
			v, ok := entries[key]
			if ok && !IsValidValueAs(v, field) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isValidAtomic(value interface{}, kind Kind) bool {
	switch kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindInteger:
		return isInteger(value)
	case KindDate:
		switch value.(type) {
		case time.Time, primitive.DateTime:
			return true
		}
		return false
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	case KindObjectID:
		switch v := value.(type) {
		case primitive.ObjectID:
			return true
		case string:
			_, err := primitive.ObjectIDFromHex(v)
			return err == nil
		}
		return false
	case KindUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return true
		case string:
			return isUUID(v)
		}
		return false
	default:
		return false
	}
}

// isInteger returns whether the value is a number equal to its own truncation.
func isInteger(value interface{}) bool {
	if value == nil {
		return false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		return math.Trunc(f) == f
	default:
		return false
	}
}

func isUUID(s string) bool {
	if len(s) != uuidLength {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// AsSequence returns the elements of the given value if it is a slice.
func AsSequence(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []interface{}:
		return v, true
	case primitive.A:
		return v, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}

	elems := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}

// AsMapping returns the entries of the given value if it is a map keyed by
// strings. Maps keyed by interface{} qualify when every key is a string, as
// produced by YAML decoders.
func AsMapping(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		return v, true
	case primitive.M:
		return v, true
	case primitive.D:
		return v.Map(), true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil, false
	}

	entries := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key()
		if key.Kind() == reflect.Interface {
			key = key.Elem()
		}
		if key.Kind() != reflect.String {
			return nil, false
		}
		entries[key.String()] = iter.Value().Interface()
	}
	return entries, true
}
