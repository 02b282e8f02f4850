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

package memory

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/types"
)

// keyOf returns the string form of an id, prefixed with its kind so that
// ids of different kinds never collide.
func keyOf(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return "oid:" + v.Hex()
	case string:
		return "str:" + v
	}
	if n, ok := number(id); ok {
		return fmt.Sprintf("num:%v", n)
	}
	return fmt.Sprintf("%T:%v", id, id)
}

// clone copies the document so that the stored one never shares maps or
// slices with callers.
func clone(doc database.Document) database.Document {
	if doc == nil {
		return nil
	}

	copied := make(database.Document, len(doc))
	for key, value := range doc {
		copied[key] = cloneValue(value)
	}
	return copied
}

func cloneValue(value interface{}) interface{} {
	switch value.(type) {
	case nil, string, []byte, primitive.ObjectID, time.Time:
		return value
	}

	if m, ok := types.AsMapping(value); ok {
		return clone(m)
	}
	if s, ok := types.AsSequence(value); ok {
		copied := make([]interface{}, len(s))
		for i, elem := range s {
			copied[i] = cloneValue(elem)
		}
		return copied
	}
	return value
}

// matches returns whether every field of the query equals the field of the
// document. A nil value in the query also matches an absent field.
func matches(doc database.Document, query database.Query) bool {
	for field, want := range query {
		got, ok := doc[field]
		if !ok {
			if want == nil {
				continue
			}
			return false
		}
		if !equal(got, want) {
			return false
		}
	}
	return true
}

func number(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func toInt64(v interface{}) (int64, bool) {
	n, ok := number(v)
	if !ok || math.IsNaN(n) || n != math.Trunc(n) {
		return 0, false
	}
	return int64(n), true
}

func timeOf(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}

func equal(a, b interface{}) bool {
	return compare(a, b) == 0
}

// Below are the ranks of values in sort order.
const (
	rankNull = iota
	rankNumber
	rankString
	rankObject
	rankArray
	rankObjectID
	rankBoolean
	rankDate
	rankOther
)

func rankOf(v interface{}) int {
	if v == nil {
		return rankNull
	}
	if _, ok := timeOf(v); ok {
		return rankDate
	}
	if _, ok := number(v); ok {
		return rankNumber
	}
	switch v.(type) {
	case string:
		return rankString
	case primitive.ObjectID:
		return rankObjectID
	case bool:
		return rankBoolean
	}
	if _, ok := types.AsMapping(v); ok {
		return rankObject
	}
	if _, ok := types.AsSequence(v); ok {
		return rankArray
	}
	return rankOther
}

// compare orders values the way documents are sorted: first by the rank of
// their kind, then by value.
func compare(a, b interface{}) int {
	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch ra {
	case rankNull:
		return 0
	case rankNumber:
		x, _ := number(a)
		y, _ := number(b)
		return compareFloat(x, y)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankObjectID:
		x, y := a.(primitive.ObjectID), b.(primitive.ObjectID)
		return bytes.Compare(x[:], y[:])
	case rankBoolean:
		x, y := a.(bool), b.(bool)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	case rankDate:
		x, _ := timeOf(a)
		y, _ := timeOf(b)
		switch {
		case x.Before(y):
			return -1
		case x.After(y):
			return 1
		}
		return 0
	case rankArray:
		x, _ := types.AsSequence(a)
		y, _ := types.AsSequence(b)
		for i := 0; i < len(x) && i < len(y); i++ {
			if c := compare(x[i], y[i]); c != 0 {
				return c
			}
		}
		return compareFloat(float64(len(x)), float64(len(y)))
	case rankObject:
		x, _ := types.AsMapping(a)
		y, _ := types.AsMapping(b)
		return compareMappings(x, y)
	}

	if reflect.DeepEqual(a, b) {
		return 0
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

func compareFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareMappings(x, y map[string]interface{}) int {
	keys := make(map[string]struct{}, len(x)+len(y))
	for key := range x {
		keys[key] = struct{}{}
	}
	for key := range y {
		keys[key] = struct{}{}
	}

	sorted := make([]string, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	for _, key := range sorted {
		xv, xok := x[key]
		yv, yok := y[key]
		switch {
		case !xok:
			return -1
		case !yok:
			return 1
		}
		if c := compare(xv, yv); c != 0 {
			return c
		}
	}
	return 0
}

func sortDocuments(docs []database.Document, fields []database.SortField) {
	if len(fields) == 0 {
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, field := range fields {
			c := compare(docs[i][field.Field], docs[j][field.Field])
			if c == 0 {
				continue
			}
			if field.Order == database.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func page(docs []database.Document, skip, limit int64) []database.Document {
	if skip > 0 {
		if skip >= int64(len(docs)) {
			return []database.Document{}
		}
		docs = docs[skip:]
	}
	if limit > 0 && limit < int64(len(docs)) {
		docs = docs[:limit]
	}
	return docs
}
