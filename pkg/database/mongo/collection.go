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
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/errors"
	"github.com/yorkie-team/odm/pkg/log"
)

// Collection is a MongoDB collection.
type Collection struct {
	name   string
	col    *mongo.Collection
	logger log.Logger
}

// Name returns the name of the collection.
func (c *Collection) Name() string {
	return c.name
}

// wrap annotates a failure of the driver with the collection.
func (c *Collection) wrap(op string, err error) error {
	return errors.WithMetadata(
		fmt.Errorf("%s %s: %w", op, c.name, err),
		map[string]string{"collection": c.name},
	)
}

// FindMany returns the documents matching the query.
func (c *Collection) FindMany(
	ctx context.Context,
	query database.Query,
	opts database.FindOptions,
) ([]database.Document, error) {
	findOptions := options.Find()
	if len(opts.Sort) > 0 {
		findOptions.SetSort(sortOf(opts.Sort))
	}
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(opts.Skip)
	}

	cursor, err := c.col.Find(ctx, filterOf(query), findOptions)
	if err != nil {
		return nil, c.wrap("find", err)
	}

	var results []primitive.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, c.wrap("fetch", err)
	}

	return toDocuments(results), nil
}

// FindOne returns the first document matching the query.
func (c *Collection) FindOne(ctx context.Context, query database.Query) (database.Document, error) {
	result := c.col.FindOne(ctx, filterOf(query))

	var doc primitive.M
	if err := result.Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, c.wrap("find one", err)
	}

	return toDocument(doc), nil
}

// InsertOne stores the document. The driver generates an ObjectID if the
// document has no id.
func (c *Collection) InsertOne(ctx context.Context, doc database.Document) (interface{}, error) {
	if doc == nil {
		doc = database.Document{}
	}

	result, err := c.col.InsertOne(ctx, doc)
	if err != nil {
		if dupErr, ok := toDuplicateKeyError(c.name, err, doc); ok {
			c.logger.Debugf("insert into %s: %v", c.name, err)
			return nil, dupErr
		}
		return nil, c.wrap("insert into", err)
	}

	return result.InsertedID, nil
}

// UpdateOne sets the values on the first document matching the query.
func (c *Collection) UpdateOne(
	ctx context.Context,
	query database.Query,
	values database.Document,
) (*database.UpdateResult, error) {
	result, err := c.col.UpdateOne(ctx, filterOf(query), primitive.M{"$set": values})
	if err != nil {
		if dupErr, ok := toDuplicateKeyError(c.name, err, values); ok {
			c.logger.Debugf("update %s: %v", c.name, err)
			return nil, dupErr
		}
		return nil, c.wrap("update", err)
	}

	return &database.UpdateResult{
		Matched:  result.MatchedCount,
		Modified: result.ModifiedCount,
	}, nil
}

// DeleteOne removes the first document matching the query.
func (c *Collection) DeleteOne(ctx context.Context, query database.Query) (int64, error) {
	result, err := c.col.DeleteOne(ctx, filterOf(query))
	if err != nil {
		return 0, c.wrap("delete from", err)
	}

	return result.DeletedCount, nil
}

// Aggregate runs the pipeline over the collection.
func (c *Collection) Aggregate(ctx context.Context, pipeline []database.Stage) ([]database.Document, error) {
	stages := make([]primitive.M, 0, len(pipeline))
	for _, stage := range pipeline {
		stages = append(stages, primitive.M(stage))
	}

	cursor, err := c.col.Aggregate(ctx, stages)
	if err != nil {
		return nil, c.wrap("aggregate", err)
	}

	var results []primitive.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, c.wrap("fetch", err)
	}

	return toDocuments(results), nil
}

type indexSpec struct {
	Name   string      `bson:"name"`
	Key    primitive.D `bson:"key"`
	Unique bool        `bson:"unique"`
}

// IndexInfo returns the indexes of the collection.
func (c *Collection) IndexInfo(ctx context.Context) ([]database.IndexInfo, error) {
	cursor, err := c.col.Indexes().List(ctx)
	if err != nil {
		return nil, c.wrap("list indexes of", err)
	}

	var specs []indexSpec
	if err := cursor.All(ctx, &specs); err != nil {
		return nil, c.wrap("fetch indexes of", err)
	}

	infos := make([]database.IndexInfo, 0, len(specs))
	for _, spec := range specs {
		infos = append(infos, database.IndexInfo{
			Name:   spec.Name,
			Keys:   keysOf(spec.Key),
			Unique: spec.Unique,
		})
	}
	return infos, nil
}

// CreateUniqueIndex creates a unique index on the field. The server treats
// the creation of an identical index as a no-op.
func (c *Collection) CreateUniqueIndex(ctx context.Context, field string) error {
	name, err := c.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    primitive.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(database.IndexName(field)),
	})
	if err != nil {
		if dupErr, ok := toDuplicateKeyError(c.name, err, nil); ok {
			return dupErr
		}
		return c.wrap("create index of", err)
	}

	c.logger.Infof("index %s of %s is ready", name, c.name)
	return nil
}

// filterOf returns an empty filter for a nil query; the driver rejects nil.
func filterOf(query database.Query) primitive.M {
	if query == nil {
		return primitive.M{}
	}
	return primitive.M(query)
}
