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

package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/odm/pkg/database"
)

// normalize turns the values decoded by the driver into the plain forms the
// models work with: mappings become map[string]interface{}, arrays become
// []interface{}, dates become time.Time and 32-bit integers become int64.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.M:
		return normalizeMap(t)
	case map[string]interface{}:
		return normalizeMap(t)
	case primitive.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.A:
		return normalizeSlice(t)
	case []interface{}:
		return normalizeSlice(t)
	case primitive.DateTime:
		return t.Time().UTC()
	case int32:
		return int64(t)
	}
	return v
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(m))
	for key, value := range m {
		result[key] = normalize(value)
	}
	return result
}

func normalizeSlice(s []interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, value := range s {
		result[i] = normalize(value)
	}
	return result
}

func toDocument(m primitive.M) database.Document {
	return normalizeMap(m)
}

func toDocuments(ms []primitive.M) []database.Document {
	docs := make([]database.Document, 0, len(ms))
	for _, m := range ms {
		docs = append(docs, toDocument(m))
	}
	return docs
}

// sortOf returns the ordered sort specification of the driver.
func sortOf(fields []database.SortField) primitive.D {
	sort := primitive.D{}
	for _, field := range fields {
		order := 1
		if field.Order == database.Descending {
			order = -1
		}
		sort = append(sort, primitive.E{Key: field.Field, Value: order})
	}
	return sort
}

// keysOf returns the fields of an index key specification in order.
func keysOf(key primitive.D) []string {
	keys := make([]string, 0, len(key))
	for _, e := range key {
		keys = append(keys, e.Key)
	}
	return keys
}
