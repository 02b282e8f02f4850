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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/yorkie-team/odm/engine"
	"github.com/yorkie-team/odm/pkg/database"
	"github.com/yorkie-team/odm/pkg/schema"
)

var errSchemaRequired = errors.New(`--schema is required`)

// loadSchema reads the schema definition given by the --schema flag.
func loadSchema() (*schema.Schema, error) {
	if schemaPath == "" {
		return nil, errSchemaRequired
	}
	return schema.LoadDefinition(schemaPath)
}

// openEngine creates an engine from the --config flag and the environment.
func openEngine() (*engine.Engine, error) {
	conf := engine.NewConfig()
	if configPath != "" {
		var err error
		if conf, err = engine.NewConfigFromFile(configPath); err != nil {
			return nil, err
		}
	}
	if err := conf.ApplyEnv(); err != nil {
		return nil, err
	}

	return engine.New(conf)
}

// readDocument reads a JSON object from the given file, or from the reader
// if the path is "-".
func readDocument(path string, stdin io.Reader) (map[string]interface{}, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc := map[string]interface{}{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// formatQuery converts the values of the query that name a path of the
// schema to the type of the path.
func formatQuery(s *schema.Schema, query database.Query) (database.Query, error) {
	formatted := database.Query{}
	for field, value := range query {
		p, ok := s.Path(field)
		if !ok || value == nil {
			formatted[field] = value
			continue
		}

		converted, err := schema.FormattedValue(p, value)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", field, err)
		}
		formatted[field] = converted
	}
	return formatted, nil
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	return tw
}

// renderErrors renders the messages of every failed field sorted by field.
func renderErrors(errs map[string][]string) string {
	fields := make([]string, 0, len(errs))
	for field, messages := range errs {
		if len(messages) > 0 {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	tw := newTableWriter()
	tw.AppendHeader(table.Row{"FIELD", "MESSAGE"})
	for _, field := range fields {
		for _, message := range errs[field] {
			tw.AppendRow(table.Row{field, message})
		}
	}
	return tw.Render()
}
