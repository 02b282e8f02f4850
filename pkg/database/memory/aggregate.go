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
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/types"
)

// aggregate runs the stages $match, $sort, $skip, $limit, $project and
// $count over the documents.
func aggregate(docs []database.Document, pipeline []database.Stage) ([]database.Document, error) {
	for i, stage := range pipeline {
		if len(stage) != 1 {
			return nil, fmt.Errorf("stage %d has %d operators: %w", i, len(stage), database.ErrInvalidQuery)
		}

		for op, arg := range stage {
			var err error
			if docs, err = runStage(docs, op, arg); err != nil {
				return nil, fmt.Errorf("stage %d: %w", i, err)
			}
		}
	}

	return docs, nil
}

func runStage(docs []database.Document, op string, arg interface{}) ([]database.Document, error) {
	switch op {
	case "$match":
		query, ok := types.AsMapping(arg)
		if !ok {
			return nil, fmt.Errorf("$match %v: %w", arg, database.ErrInvalidQuery)
		}
		var matched []database.Document
		for _, doc := range docs {
			if matches(doc, query) {
				matched = append(matched, doc)
			}
		}
		return matched, nil
	case "$sort":
		fields, err := sortFieldsOf(arg)
		if err != nil {
			return nil, err
		}
		sortDocuments(docs, fields)
		return docs, nil
	case "$skip":
		n, ok := toInt64(arg)
		if !ok || n < 0 {
			return nil, fmt.Errorf("$skip %v: %w", arg, database.ErrInvalidQuery)
		}
		return page(docs, n, 0), nil
	case "$limit":
		n, ok := toInt64(arg)
		if !ok || n <= 0 {
			return nil, fmt.Errorf("$limit %v: %w", arg, database.ErrInvalidQuery)
		}
		return page(docs, 0, n), nil
	case "$project":
		spec, ok := types.AsMapping(arg)
		if !ok {
			return nil, fmt.Errorf("$project %v: %w", arg, database.ErrInvalidQuery)
		}
		return project(docs, spec)
	case "$count":
		name, ok := arg.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("$count %v: %w", arg, database.ErrInvalidQuery)
		}
		return []database.Document{{name: int64(len(docs))}}, nil
	}

	return nil, fmt.Errorf("%s: %w", op, database.ErrUnsupportedStage)
}

// sortFieldsOf reads a sort specification. Mappings have no order, so the
// fields of a mapping are sorted by name; an ordered primitive.D keeps its
// order.
func sortFieldsOf(arg interface{}) ([]database.SortField, error) {
	var fields []database.SortField

	add := func(field string, order interface{}) error {
		n, ok := toInt64(order)
		if !ok || (n != 1 && n != -1) {
			return fmt.Errorf("$sort %s: %v: %w", field, order, database.ErrInvalidQuery)
		}
		fields = append(fields, database.SortField{Field: field, Order: database.Order(n)})
		return nil
	}

	switch spec := arg.(type) {
	case []database.SortField:
		return spec, nil
	case primitive.D:
		for _, e := range spec {
			if err := add(e.Key, e.Value); err != nil {
				return nil, err
			}
		}
		return fields, nil
	}

	spec, ok := types.AsMapping(arg)
	if !ok {
		return nil, fmt.Errorf("$sort %v: %w", arg, database.ErrInvalidQuery)
	}
	keys := make([]string, 0, len(spec))
	for key := range spec {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := add(key, spec[key]); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func isIncluded(v interface{}) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if n, ok := toInt64(v); ok && (n == 0 || n == 1) {
		return n == 1, true
	}
	return false, false
}

// project keeps the included fields, or drops the excluded ones. The id is
// kept unless it is excluded explicitly.
func project(docs []database.Document, spec map[string]interface{}) ([]database.Document, error) {
	inclusion := false
	keepID := true
	for field, v := range spec {
		included, ok := isIncluded(v)
		if !ok {
			return nil, fmt.Errorf("$project %s: %v: %w", field, v, database.ErrInvalidQuery)
		}
		if field == database.IDField {
			keepID = included
			continue
		}
		if included {
			inclusion = true
		}
	}

	projected := make([]database.Document, 0, len(docs))
	for _, doc := range docs {
		result := database.Document{}
		for field, value := range doc {
			if field == database.IDField {
				if keepID {
					result[field] = value
				}
				continue
			}

			v, listed := spec[field]
			included, _ := isIncluded(v)
			if (inclusion && listed && included) || (!inclusion && !listed) {
				result[field] = value
			}
		}
		projected = append(projected, result)
	}
	return projected, nil
}
