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

// Package database provides the storage interface the models persist
// documents through.
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/yorkie-team/odm/pkg/errors"
)

var (
	// ErrDuplicateKey is returned when a write breaks a unique index.
	ErrDuplicateKey = errors.AlreadyExists("duplicate key").WithCode("ErrDuplicateKey")

	// ErrDocumentNotFound is returned when the document could not be found.
	ErrDocumentNotFound = errors.NotFound("document not found").WithCode("ErrDocumentNotFound")

	// ErrUnsupportedStage is returned when an aggregation stage is not
	// supported by the database.
	ErrUnsupportedStage = errors.InvalidArgument("unsupported aggregation stage").WithCode("ErrUnsupportedStage")

	// ErrInvalidQuery is returned when a query or a stage is malformed.
	ErrInvalidQuery = errors.InvalidArgument("invalid query").WithCode("ErrInvalidQuery")
)

// IDField is the field holding the id of a stored document.
const IDField = "_id"

// Document is a flat keyed mapping as it is stored.
type Document = map[string]interface{}

// Query selects the documents whose fields equal the given values.
type Query = map[string]interface{}

// Stage is a stage of an aggregation pipeline, e.g. {"$match": {...}}.
type Stage = map[string]interface{}

// Order is the direction of a sort.
type Order int

// Below are the directions of a sort.
const (
	Ascending  Order = 1
	Descending Order = -1
)

// SortField sorts documents by a field.
type SortField struct {
	Field string
	Order Order
}

// FindOptions are the options of FindMany.
type FindOptions struct {
	Sort  []SortField
	Limit int64
	Skip  int64
}

// UpdateResult is the result of UpdateOne.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// IndexInfo describes an index of a collection.
type IndexInfo struct {
	Name   string
	Keys   []string
	Unique bool
}

// DuplicateKeyError tells which field of a write broke a unique index.
type DuplicateKeyError struct {
	Collection string
	Field      string
	Value      interface{}
}

// Error returns the message of the error.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %s.%s: %v", e.Collection, e.Field, e.Value)
}

// Unwrap returns ErrDuplicateKey.
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// IndexName returns the name of the ascending index of the field.
func IndexName(field string) string {
	return field + "_1"
}

// FieldOfIndex returns the field of the ascending single-key index of the
// given name.
func FieldOfIndex(name string) string {
	return strings.TrimSuffix(name, "_1")
}

// Collection stores the documents of one schema.
type Collection interface {
	// Name returns the name of the collection.
	Name() string

	// FindMany returns the documents matching the query.
	FindMany(ctx context.Context, query Query, opts FindOptions) ([]Document, error)

	// FindOne returns the first document matching the query, or nil if there
	// is none.
	FindOne(ctx context.Context, query Query) (Document, error)

	// InsertOne stores the document and returns its id. The id is generated
	// if the document has none.
	InsertOne(ctx context.Context, doc Document) (interface{}, error)

	// UpdateOne sets the given values on the first document matching the
	// query.
	UpdateOne(ctx context.Context, query Query, values Document) (*UpdateResult, error)

	// DeleteOne removes the first document matching the query and returns
	// the number of removed documents.
	DeleteOne(ctx context.Context, query Query) (int64, error)

	// Aggregate runs the pipeline over the collection.
	Aggregate(ctx context.Context, pipeline []Stage) ([]Document, error)

	// IndexInfo returns the indexes of the collection.
	IndexInfo(ctx context.Context) ([]IndexInfo, error)

	// CreateUniqueIndex creates a unique index on the field. Creating an
	// index that already exists is a no-op.
	CreateUniqueIndex(ctx context.Context, field string) error
}

// Database represents a database holding collections of documents.
type Database interface {
	// Collection returns the collection of the given name.
	Collection(name string) Collection

	// Close all resources of this database.
	Close() error
}

// HasUniqueIndex returns whether the indexes contain a unique index on the
// field alone.
func HasUniqueIndex(infos []IndexInfo, field string) bool {
	for _, info := range infos {
		if info.Unique && len(info.Keys) == 1 && info.Keys[0] == field {
			return true
		}
	}
	return false
}
