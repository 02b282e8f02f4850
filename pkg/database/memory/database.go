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

// Package memory implements the database interface using in-memory database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/hashicorp/go-memdb"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/odm/pkg/database"
)

// DB is an in-memory database for testing or temporarily.
type DB struct {
	db  *memdb.MemDB
	seq uint64
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// Collection returns the collection of the given name.
func (d *DB) Collection(name string) database.Collection {
	return &Collection{db: d, name: name}
}

// Collection is a collection of the in-memory database.
type Collection struct {
	db   *DB
	name string
}

// Name returns the name of the collection.
func (c *Collection) Name() string {
	return c.name
}

// records returns the documents of the collection in insertion order.
func (c *Collection) records(txn *memdb.Txn) ([]*documentRecord, error) {
	it, err := txn.Get(tblDocuments, "collection", c.name)
	if err != nil {
		return nil, fmt.Errorf("find documents of %s: %w", c.name, err)
	}

	var records []*documentRecord
	for raw := it.Next(); raw != nil; raw = it.Next() {
		records = append(records, raw.(*documentRecord))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Seq < records[j].Seq
	})
	return records, nil
}

func (c *Collection) firstMatch(txn *memdb.Txn, query database.Query) (*documentRecord, []*documentRecord, error) {
	records, err := c.records(txn)
	if err != nil {
		return nil, nil, err
	}

	for _, record := range records {
		if matches(record.Doc, query) {
			return record, records, nil
		}
	}
	return nil, records, nil
}

// FindMany returns the documents matching the query.
func (c *Collection) FindMany(
	_ context.Context,
	query database.Query,
	opts database.FindOptions,
) ([]database.Document, error) {
	txn := c.db.db.Txn(false)
	defer txn.Abort()

	records, err := c.records(txn)
	if err != nil {
		return nil, err
	}

	docs := []database.Document{}
	for _, record := range records {
		if matches(record.Doc, query) {
			docs = append(docs, clone(record.Doc))
		}
	}

	sortDocuments(docs, opts.Sort)
	return page(docs, opts.Skip, opts.Limit), nil
}

// FindOne returns the first document matching the query.
func (c *Collection) FindOne(_ context.Context, query database.Query) (database.Document, error) {
	txn := c.db.db.Txn(false)
	defer txn.Abort()

	record, _, err := c.firstMatch(txn, query)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return clone(record.Doc), nil
}

// InsertOne stores the document. An ObjectID is generated if the document
// has no id.
func (c *Collection) InsertOne(_ context.Context, doc database.Document) (interface{}, error) {
	doc = clone(doc)
	if doc == nil {
		doc = database.Document{}
	}

	id, ok := doc[database.IDField]
	if !ok || id == nil {
		id = primitive.NewObjectID()
		doc[database.IDField] = id
	}
	key := keyOf(id)

	txn := c.db.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tblDocuments, "id", c.name, key)
	if err != nil {
		return nil, fmt.Errorf("find document of %s: %w", key, err)
	}
	if existing != nil {
		return nil, &database.DuplicateKeyError{Collection: c.name, Field: database.IDField, Value: id}
	}

	records, err := c.records(txn)
	if err != nil {
		return nil, err
	}
	if err := c.checkUnique(txn, records, doc, ""); err != nil {
		return nil, err
	}

	if err := txn.Insert(tblDocuments, &documentRecord{
		Collection: c.name,
		Key:        key,
		Seq:        atomic.AddUint64(&c.db.seq, 1),
		Doc:        doc,
	}); err != nil {
		return nil, fmt.Errorf("insert document of %s: %w", key, err)
	}

	txn.Commit()
	return id, nil
}

// UpdateOne sets the values on the first document matching the query.
func (c *Collection) UpdateOne(
	_ context.Context,
	query database.Query,
	values database.Document,
) (*database.UpdateResult, error) {
	txn := c.db.db.Txn(true)
	defer txn.Abort()

	record, records, err := c.firstMatch(txn, query)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &database.UpdateResult{}, nil
	}

	updated := clone(record.Doc)
	for field, value := range values {
		if field == database.IDField && !equal(record.Doc[field], value) {
			return nil, fmt.Errorf("update %s of %s: %w", field, record.Key, database.ErrInvalidQuery)
		}
		updated[field] = cloneValue(value)
	}

	if compareMappings(record.Doc, updated) == 0 {
		return &database.UpdateResult{Matched: 1}, nil
	}

	if err := c.checkUnique(txn, records, updated, record.Key); err != nil {
		return nil, err
	}

	if err := txn.Insert(tblDocuments, &documentRecord{
		Collection: record.Collection,
		Key:        record.Key,
		Seq:        record.Seq,
		Doc:        updated,
	}); err != nil {
		return nil, fmt.Errorf("update document of %s: %w", record.Key, err)
	}

	txn.Commit()
	return &database.UpdateResult{Matched: 1, Modified: 1}, nil
}

// DeleteOne removes the first document matching the query.
func (c *Collection) DeleteOne(_ context.Context, query database.Query) (int64, error) {
	txn := c.db.db.Txn(true)
	defer txn.Abort()

	record, _, err := c.firstMatch(txn, query)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, nil
	}

	if err := txn.Delete(tblDocuments, record); err != nil {
		return 0, fmt.Errorf("delete document of %s: %w", record.Key, err)
	}

	txn.Commit()
	return 1, nil
}

// Aggregate runs the pipeline over the documents in insertion order.
func (c *Collection) Aggregate(_ context.Context, pipeline []database.Stage) ([]database.Document, error) {
	txn := c.db.db.Txn(false)
	defer txn.Abort()

	records, err := c.records(txn)
	if err != nil {
		return nil, err
	}

	docs := make([]database.Document, 0, len(records))
	for _, record := range records {
		docs = append(docs, clone(record.Doc))
	}

	result, err := aggregate(docs, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", c.name, err)
	}
	if result == nil {
		result = []database.Document{}
	}
	return result, nil
}

// IndexInfo returns the id index and the unique indexes of the collection.
func (c *Collection) IndexInfo(_ context.Context) ([]database.IndexInfo, error) {
	txn := c.db.db.Txn(false)
	defer txn.Abort()

	indexes, err := c.uniqueIndexes(txn)
	if err != nil {
		return nil, err
	}

	infos := []database.IndexInfo{{Name: "_id_", Keys: []string{database.IDField}}}
	for _, index := range indexes {
		infos = append(infos, database.IndexInfo{
			Name:   index.Name,
			Keys:   []string{index.Field},
			Unique: true,
		})
	}
	return infos, nil
}

// CreateUniqueIndex creates a unique index on the field. It fails if stored
// documents already share a value of the field.
func (c *Collection) CreateUniqueIndex(_ context.Context, field string) error {
	txn := c.db.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tblIndexes, "id", c.name, field)
	if err != nil {
		return fmt.Errorf("find index of %s.%s: %w", c.name, field, err)
	}
	if existing != nil {
		return nil
	}

	records, err := c.records(txn)
	if err != nil {
		return err
	}
	for i, record := range records {
		for _, other := range records[:i] {
			if equal(record.Doc[field], other.Doc[field]) {
				return &database.DuplicateKeyError{Collection: c.name, Field: field, Value: record.Doc[field]}
			}
		}
	}

	if err := txn.Insert(tblIndexes, &indexRecord{
		Collection: c.name,
		Field:      field,
		Name:       database.IndexName(field),
	}); err != nil {
		return fmt.Errorf("create index of %s.%s: %w", c.name, field, err)
	}

	txn.Commit()
	return nil
}

func (c *Collection) uniqueIndexes(txn *memdb.Txn) ([]*indexRecord, error) {
	it, err := txn.Get(tblIndexes, "collection", c.name)
	if err != nil {
		return nil, fmt.Errorf("find indexes of %s: %w", c.name, err)
	}

	var indexes []*indexRecord
	for raw := it.Next(); raw != nil; raw = it.Next() {
		indexes = append(indexes, raw.(*indexRecord))
	}
	sort.Slice(indexes, func(i, j int) bool {
		return indexes[i].Field < indexes[j].Field
	})
	return indexes, nil
}

// checkUnique returns a DuplicateKeyError if the document shares the value
// of a uniquely indexed field with another stored document. The document
// stored under selfKey is skipped.
func (c *Collection) checkUnique(
	txn *memdb.Txn,
	records []*documentRecord,
	doc database.Document,
	selfKey string,
) error {
	indexes, err := c.uniqueIndexes(txn)
	if err != nil {
		return err
	}

	for _, index := range indexes {
		value := doc[index.Field]
		for _, record := range records {
			if record.Key == selfKey {
				continue
			}
			if equal(record.Doc[index.Field], value) {
				return &database.DuplicateKeyError{Collection: c.name, Field: index.Field, Value: value}
			}
		}
	}
	return nil
}
