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
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yorkie-team/odm/pkg/database"
)

// duplicateKeyCode is the server error code of a unique index violation.
const duplicateKeyCode = 11000

// dupKeyIndexRegex finds the index in messages like
// "E11000 duplicate key error collection: odm.user index: email_1 dup key: { email: "a" }".
var dupKeyIndexRegex = regexp.MustCompile(`index: (\S+) dup key`)

// duplicateKeyMessages returns the messages of the duplicate key errors in
// the chain of err.
func duplicateKeyMessages(err error) []string {
	var messages []string

	var writeException mongo.WriteException
	if errors.As(err, &writeException) {
		for _, e := range writeException.WriteErrors {
			if e.Code == duplicateKeyCode {
				messages = append(messages, e.Message)
			}
		}
	}

	var commandError mongo.CommandError
	if errors.As(err, &commandError) && commandError.Code == duplicateKeyCode {
		messages = append(messages, commandError.Message)
	}

	if len(messages) == 0 {
		messages = append(messages, err.Error())
	}
	return messages
}

// duplicateKeyField returns the field of the index a duplicate key error
// was raised by.
func duplicateKeyField(err error) (string, bool) {
	for _, message := range duplicateKeyMessages(err) {
		if match := dupKeyIndexRegex.FindStringSubmatch(message); match != nil {
			if match[1] == "_id_" {
				return database.IDField, true
			}
			return database.FieldOfIndex(match[1]), true
		}
	}
	return "", false
}

// toDuplicateKeyError converts a duplicate key error of the driver into a
// DuplicateKeyError. The value is looked up in the written document.
func toDuplicateKeyError(collection string, err error, doc database.Document) (*database.DuplicateKeyError, bool) {
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false
	}

	field, _ := duplicateKeyField(err)
	var value interface{}
	if doc != nil {
		value = doc[field]
	}

	return &database.DuplicateKeyError{
		Collection: collection,
		Field:      field,
		Value:      value,
	}, true
}
