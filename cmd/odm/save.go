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
	"errors"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/odm/pkg/model"
)

var saveDocPath string

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save a document of a schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema()
			if err != nil {
				return err
			}

			doc, err := readDocument(saveDocPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			e, err := openEngine()
			if err != nil {
				return err
			}
			defer func() {
				_ = e.Close()
			}()

			m := e.Manager(s).New(doc)
			if err := m.Save(context.Background()); err != nil {
				var validationErr *model.ValidationError
				if errors.As(err, &validationErr) {
					cmd.Printf("%s\n", renderErrors(validationErr.Fields))
				}
				return err
			}

			if id := m.ID(); id != nil {
				cmd.Printf("saved %s %v\n", s.Name(), id)
			} else {
				cmd.Printf("saved %s\n", s.Name())
			}
			return nil
		},
	}
}

func init() {
	cmd := newSaveCmd()
	cmd.Flags().StringVarP(&saveDocPath, "doc", "d", "-", "Path of the JSON document, '-' for stdin")
	rootCmd.AddCommand(cmd)
}
