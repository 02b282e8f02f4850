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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/odm/pkg/schema"
)

var (
	checkDocPath string
	checkPhase   string
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Inspect a document against a schema without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			phase := schema.Phase(checkPhase)
			if phase != schema.PhaseCreate && phase != schema.PhaseUpdate {
				return fmt.Errorf(`--phase must be '%s' or '%s'`, schema.PhaseCreate, schema.PhaseUpdate)
			}

			s, err := loadSchema()
			if err != nil {
				return err
			}

			doc, err := readDocument(checkDocPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			errs := map[string][]string{}
			failed := false
			for _, p := range s.Paths() {
				messages := schema.InspectErrors(p, doc[p.Name()], phase)
				if len(messages) > 0 {
					errs[p.Name()] = messages
					failed = true
				}
			}

			if !failed {
				cmd.Printf("%s is valid\n", s.Name())
				return nil
			}

			cmd.Printf("%s\n", renderErrors(errs))
			return errors.New("document is invalid")
		},
	}
}

func init() {
	cmd := newCheckCmd()
	cmd.Flags().StringVarP(&checkDocPath, "doc", "d", "-", "Path of the JSON document, '-' for stdin")
	cmd.Flags().StringVar(&checkPhase, "phase", string(schema.PhaseCreate), "One of 'create' or 'update'")
	rootCmd.AddCommand(cmd)
}
