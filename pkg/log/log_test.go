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

package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/yorkie-team/odm/pkg/log"
)

func TestLog(t *testing.T) {
	t.Run("set log level", func(t *testing.T) {
		assert.NoError(t, log.SetLogLevel("warn"))
		assert.False(t, log.Enabled(zapcore.InfoLevel))
		assert.True(t, log.Enabled(zapcore.ErrorLevel))

		assert.Error(t, log.SetLogLevel("verbose"))
		assert.NoError(t, log.SetLogLevel("info"))
		assert.True(t, log.Enabled(zapcore.InfoLevel))
	})

	t.Run("logger from context", func(t *testing.T) {
		assert.Equal(t, log.DefaultLogger(), log.From(context.Background()))

		logger := log.New("model", log.NewField("schema", "user"))
		ctx := log.With(context.Background(), logger)
		assert.Equal(t, logger, log.From(ctx))
	})
}
