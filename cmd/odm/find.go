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
	"context"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yorkie-team/odm/pkg/database"
)

var (
	findQuery string
	findSort  string
	findDesc  bool
	findLimit int64
	findSkip  int64
)

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Find the documents of a schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema()
			if err != nil {
				return err
			}

			query := database.Query{}
			if err := json.Unmarshal([]byte(findQuery), &query); err != nil {
				return fmt.Errorf("unmarshal query: %w", err)
			}
			if query, err = formatQuery(s, query); err != nil {
				return err
			}

			opts := database.FindOptions{Limit: findLimit, Skip: findSkip}
			if findSort != "" {
				order := database.Ascending
				if findDesc {
					order = database.Descending
				}
				opts.Sort = []database.SortField{{Field: findSort, Order: order}}
			}

			e, err := openEngine()
			if err != nil {
				return err
			}
			defer func() {
				_ = e.Close()
			}()

			models, err := e.Manager(s).FindMany(context.Background(), query, opts)
			if err != nil {
				return err
			}

			var names []string
			header := table.Row{}
			for _, p := range s.Paths() {
				if !p.IsProjected() {
					continue
				}
				names = append(names, p.Name())
				header = append(header, p.DisplayName())
			}

			tw := newTableWriter()
			tw.AppendHeader(header)
			for _, m := range models {
				values := m.ProjectedValues()
				row := table.Row{}
				for _, name := range names {
					row = append(row, values[name])
				}
				tw.AppendRow(row)
			}
			cmd.Printf("%s\n", tw.Render())

			return nil
		},
	}
}

func init() {
	cmd := newFindCmd()
	cmd.Flags().StringVarP(&findQuery, "query", "q", "{}", "Query of the documents as a JSON object")
	cmd.Flags().StringVar(&findSort, "sort", "", "Field to sort the documents by")
	cmd.Flags().BoolVar(&findDesc, "desc", false, "Sorts the documents in descending order")
	cmd.Flags().Int64Var(&findLimit, "limit", 0, "Maximum number of documents, 0 for no limit")
	cmd.Flags().Int64Var(&findSkip, "skip", 0, "Number of documents to skip")
	rootCmd.AddCommand(cmd)
}
