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
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dateLayouts are the layouts tried, in order, when a string is coerced to
// a date. Layouts without a zone are interpreted as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ConvertTo coerces the given value to the descriptor. It returns a
// *ConversionError if the value cannot be represented.
//
// Strings are rendered, integers are parsed from the leading digits of
// strings or truncated from floats, dates are parsed from strings or epoch
// milliseconds, booleans follow truthiness and object ids are parsed from
// their hex form. UUIDs are only checked and returned unchanged. Lists
// coerce every element, and records coerce the keys present in both the
// value and the descriptor, omitting the others.
func ConvertTo(value interface{}, d Descriptor) (interface{}, error) {
	switch t := d.(type) {
	case Atomic:
		return convertAtomic(value, t)
	case ListOf:
		elems, ok := AsSequence(value)
		if !ok {
			return nil, conversionError(value, t)
		}

		converted := make([]interface{}, len(elems))
		for i, elem := range elems {
			v, err := ConvertTo(elem, t.Elem)
			if err != nil {
				return nil, err
			}
			converted[i] = v
		}
		return converted, nil
	case RecordOf:
		entries, ok := AsMapping(value)
		if !ok {
			return nil, conversionError(value, t)
		}

		converted := make(map[string]interface{})
		for key, field := range t.Fields {
			v, ok := entries[key]
			if !ok {
				continue
			}

			c, err := ConvertTo(v, field)
			if err != nil {
				return nil, err
			}
			converted[key] = c
		}
		return converted, nil
	default:
		return nil, conversionError(value, d)
	}
}

func convertAtomic(value interface{}, t Atomic) (interface{}, error) {
	if t.Kind == KindBoolean {
		return truthy(value), nil
	}
	if value == nil {
		return nil, conversionError(value, t)
	}

	switch t.Kind {
	case KindString:
		return stringify(value), nil
	case KindInteger:
		i, ok := toInteger(value)
		if !ok {
			return nil, conversionError(value, t)
		}
		return i, nil
	case KindDate:
		date, ok := toDate(value)
		if !ok {
			return nil, conversionError(value, t)
		}
		return date, nil
	case KindObjectID:
		switch v := value.(type) {
		case primitive.ObjectID:
			return v, nil
		case string:
			id, err := primitive.ObjectIDFromHex(v)
			if err != nil {
				return nil, conversionError(value, t)
			}
			return id, nil
		}
		return nil, conversionError(value, t)
	case KindUUID:
		if !isValidAtomic(value, KindUUID) {
			return nil, conversionError(value, t)
		}
		return value, nil
	default:
		return nil, conversionError(value, t)
	}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	case primitive.ObjectID:
		return v.Hex()
	case uuid.UUID:
		return v.String()
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}

func toInteger(value interface{}) (int64, bool) {
	if s, ok := value.(string); ok {
		return parseLeadingInt(s)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := math.Trunc(rv.Float())
		if math.IsNaN(f) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

// parseLeadingInt parses the optional sign and the leading decimal digits of
// s, ignoring whatever follows them: "5.6" is 5 and "12px" is 12.
func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	i, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func toDate(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case primitive.DateTime:
		return v.Time(), true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if date, err := time.Parse(layout, s); err == nil {
				return date, true
			}
		}
		return time.Time{}, false
	}

	if !isNumber(value) {
		return time.Time{}, false
	}
	millis, ok := toInteger(value)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(millis).UTC(), true
}

func isNumber(value interface{}) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// truthy returns false for nil, false, "", zero and NaN, and true otherwise.
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}
