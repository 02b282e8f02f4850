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

package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/odm/internal/validation"
	"github.com/yorkie-team/odm/pkg/database/mongo"
)

// Below are the values of the default values of the engine config.
const (
	DatabaseMemory = "memory"
	DatabaseMongo  = "mongo"

	DefaultDatabase    = DatabaseMemory
	DefaultHookTimeout = 5 * time.Second
	DefaultLogLevel    = "info"
)

// HookConfig is the configuration of the hook listeners.
type HookConfig struct {
	// Timeout bounds the time each listener may take. "0s" disables it.
	Timeout string `yaml:"Timeout" validate:"required,duration"`
}

// LogConfig is the configuration of the loggers.
type LogConfig struct {
	Level string `yaml:"Level" validate:"required,oneof=debug info warn error panic fatal"`
}

// Config is the configuration for creating an Engine instance.
type Config struct {
	Database string        `yaml:"Database" validate:"required,oneof=memory mongo"`
	Mongo    *mongo.Config `yaml:"Mongo"`
	Hook     *HookConfig   `yaml:"Hook" validate:"required"`
	Log      *LogConfig    `yaml:"Log" validate:"required"`
}

// envConfig holds the values of the config that can be set by the
// environment.
type envConfig struct {
	Database      string `env:"ODM_DATABASE"`
	MongoURI      string `env:"ODM_MONGO_URI"`
	MongoDatabase string `env:"ODM_MONGO_DATABASE"`
	HookTimeout   string `env:"ODM_HOOK_TIMEOUT"`
	LogLevel      string `env:"ODM_LOG_LEVEL"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	conf := &Config{Database: DefaultDatabase}
	conf.ensureDefaultValue()
	return conf
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// ApplyEnv overrides the config with the ODM_* environment variables that
// are set.
func (c *Config) ApplyEnv() error {
	c.ensureDefaultValue()

	env := envConfig{}
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("decode environment: %w", err)
	}

	if env.Database != "" {
		c.Database = env.Database
	}
	if env.MongoURI != "" || env.MongoDatabase != "" {
		if c.Mongo == nil {
			c.Mongo = mongo.NewConfig()
		}
		if env.MongoURI != "" {
			c.Mongo.ConnectionURI = env.MongoURI
		}
		if env.MongoDatabase != "" {
			c.Mongo.Database = env.MongoDatabase
		}
	}
	if env.HookTimeout != "" {
		c.Hook.Timeout = env.HookTimeout
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}

	c.ensureDefaultValue()
	return nil
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if c.Database == DatabaseMongo {
		if c.Mongo == nil {
			return fmt.Errorf(`"Mongo" is required for the "%s" database`, DatabaseMongo)
		}
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ParseHookTimeout returns the timeout of the hook listeners.
func (c *Config) ParseHookTimeout() time.Duration {
	result, err := time.ParseDuration(c.Hook.Timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse hook timeout: %v\n", err)
		os.Exit(1)
	}

	return result
}

// ensureDefaultValue sets the value of the option to which the default value
// should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}

	if c.Hook == nil {
		c.Hook = &HookConfig{}
	}
	if c.Hook.Timeout == "" {
		c.Hook.Timeout = DefaultHookTimeout.String()
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	if c.Mongo != nil {
		if c.Mongo.ConnectionURI == "" {
			c.Mongo.ConnectionURI = mongo.DefaultConnectionURI
		}
		if c.Mongo.ConnectionTimeout == "" {
			c.Mongo.ConnectionTimeout = mongo.DefaultConnectionTimeout
		}
		if c.Mongo.Database == "" {
			c.Mongo.Database = mongo.DefaultDatabase
		}
		if c.Mongo.PingTimeout == "" {
			c.Mongo.PingTimeout = mongo.DefaultPingTimeout
		}
	}
}
