/*
   Copyright The containerd Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package xattrshim

import (
	"github.com/containerd/xattrshim/transfer"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EnvPrefix prefixes every environment variable read by LoadConfig, for
// example XATTRSHIM_BUFFER_SIZE.
const EnvPrefix = "XATTRSHIM"

// Config holds the settings of a Shim.
type Config struct {
	// BufferSize is the capacity of each transfer buffer and therefore the
	// largest value or name list a single get or list call can return.
	BufferSize int `envconfig:"BUFFER_SIZE" default:"65536"`

	// LogLevel is a logrus level name.
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
}

// DefaultConfig returns the configuration used when the environment sets
// nothing.
func DefaultConfig() Config {
	return Config{
		BufferSize: transfer.Capacity,
		LogLevel:   "warn",
	}
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to process environment")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that c can be used to build a Shim.
func (c Config) Validate() error {
	if c.BufferSize <= 0 || c.BufferSize > transfer.Capacity {
		return errors.Errorf("buffer size must be within [1, %d], got %d", transfer.Capacity, c.BufferSize)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return nil
}

func (c Config) level() logrus.Level {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return l
}
