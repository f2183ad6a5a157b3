/*
Copyright 2018 Iguazio Systems Ltd.

Licensed under the Apache License, Version 2.0 (the "License") with
an addition restriction as set forth herein. You may not use this
file except in compliance with the License. You may obtain a copy of
the License at http://www.apache.org/licenses/LICENSE-2.0.

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
implied. See the License for the specific language governing
permissions and limitations under the License.

In addition, you may not use the software for any purposes that are
illegal under applicable law, and the grant of the foregoing license
under the Apache 2.0 license is conditioned upon your compliance with
such restriction.
*/

package columnar

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// DefaultLimit is the default number of rows shown by query tools
const DefaultLimit = 100

// LogConfig is the logging configuration
type LogConfig struct {
	Level string `json:"level,omitempty" toml:"level"`
}

// QueryConfig is the query configuration
type QueryConfig struct {
	SortOrder   string `json:"sortOrder,omitempty" toml:"sortOrder"` // asc or desc
	LenientBool bool   `json:"lenientBool,omitempty" toml:"lenientBool"`
	Limit       int    `json:"limit,omitempty" toml:"limit"` // negative for no limit
}

// Ascending returns true unless the sort order is desc
func (qc *QueryConfig) Ascending() bool {
	return !strings.EqualFold(qc.SortOrder, "desc")
}

// DatasetConfig is a dataset to load
type DatasetConfig struct {
	Name string `json:"name" toml:"name"`
	Type string `json:"type" toml:"type"` // yaml, json, arrow ...
	Path string `json:"path" toml:"path"`
	// importer specific options
	Options map[string]interface{} `json:"options,omitempty" toml:"options"`
}

// Config is the configuration
type Config struct {
	Log      LogConfig        `json:"log" toml:"log"`
	Query    QueryConfig      `json:"query" toml:"query"`
	Datasets []*DatasetConfig `json:"datasets,omitempty" toml:"datasets"`
}

// LoadConfig reads configuration from path, TOML if the extension is .toml
// and YAML (or JSON) otherwise. Defaults are set and the result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't read config")
	}

	cfg := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrapf(err, "can't decode TOML config %q", path)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "can't unmarshal config %q", path)
		}
	}

	if err := cfg.InitDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "bad config %q", path)
	}

	return cfg, nil
}

// InitDefaults initializes the defaults for configuration
func (c *Config) InitDefaults() error {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	if c.Query.SortOrder == "" {
		c.Query.SortOrder = "asc"
	}

	if c.Query.Limit == 0 {
		c.Query.Limit = DefaultLimit
	}

	for _, dataset := range c.Datasets {
		if dataset.Name == "" {
			base := filepath.Base(dataset.Path)
			dataset.Name = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Query.SortOrder) {
	case "asc", "desc":
	default:
		return errors.Errorf("bad sort order - %q", c.Query.SortOrder)
	}

	names := make(map[string]bool)
	for i, dataset := range c.Datasets {
		if dataset.Type == "" {
			return errors.Errorf("dataset %q missing type", dataset.Name)
		}

		if dataset.Path == "" {
			return errors.Errorf("dataset %q missing path", dataset.Name)
		}

		if found := names[dataset.Name]; found {
			return errors.Errorf("dataset %d - duplicate name %q", i, dataset.Name)
		}

		names[dataset.Name] = true
	}

	return nil
}

// Dataset returns the dataset called name, nil if not found
func (c *Config) Dataset(name string) *DatasetConfig {
	for _, dataset := range c.Datasets {
		if dataset.Name == name {
			return dataset
		}
	}

	return nil
}
