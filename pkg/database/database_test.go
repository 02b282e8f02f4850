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

package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/errors"
)

func TestDuplicateKeyError(t *testing.T) {
	err := &database.DuplicateKeyError{Collection: "user", Field: "email", Value: "kim@example.com"}
	assert.ErrorIs(t, err, database.ErrDuplicateKey)
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.StatusOf(err))
	assert.Equal(t, "duplicate key on user.email: kim@example.com", err.Error())
}

func TestIndexes(t *testing.T) {
	assert.Equal(t, "email_1", database.IndexName("email"))
	assert.Equal(t, "email", database.FieldOfIndex("email_1"))

	infos := []database.IndexInfo{
		{Name: "_id_", Keys: []string{"_id"}},
		{Name: "name_1_age_1", Keys: []string{"name", "age"}, Unique: true},
		{Name: "nickname_1", Keys: []string{"nickname"}},
		{Name: "email_1", Keys: []string{"email"}, Unique: true},
	}
	assert.True(t, database.HasUniqueIndex(infos, "email"))
	assert.False(t, database.HasUniqueIndex(infos, "name"))
	assert.False(t, database.HasUniqueIndex(infos, "nickname"))
	assert.False(t, database.HasUniqueIndex(infos, "_id"))
}
