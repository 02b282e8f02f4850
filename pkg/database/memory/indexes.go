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

import "github.com/hashicorp/go-memdb"

var (
	tblDocuments = "documents"
	tblIndexes   = "indexes"
)

// documentRecord is a stored document. Key is the string form of the id.
type documentRecord struct {
	Collection string
	Key        string
	Seq        uint64
	Doc        map[string]interface{}
}

// indexRecord is a unique index of a collection.
type indexRecord struct {
	Collection string
	Field      string
	Name       string
}

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblDocuments: {
			Name: tblDocuments,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Collection"},
							&memdb.StringFieldIndex{Field: "Key"},
						},
					},
				},
				"collection": {
					Name:    "collection",
					Indexer: &memdb.StringFieldIndex{Field: "Collection"},
				},
			},
		},
		tblIndexes: {
			Name: tblIndexes,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Collection"},
							&memdb.StringFieldIndex{Field: "Field"},
						},
					},
				},
				"collection": {
					Name:    "collection",
					Indexer: &memdb.StringFieldIndex{Field: "Collection"},
				},
			},
		},
	},
}
