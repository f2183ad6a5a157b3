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

// Package importers loads datasets into frames. Importers register a factory
// by type (e.g. yaml, arrow) and are looked up case insensitively.
package importers

import (
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/nuclio/logger"
	"github.com/pkg/errors"

	"github.com/v3io/columnar"
)

// Importer reads a frame
type Importer interface {
	Import(reader io.Reader) (columnar.Frame, error)
}

// Factory is an importer factory
type Factory func(logger.Logger, *columnar.DatasetConfig) (Importer, error)

var (
	factories     map[string]Factory
	lock          sync.RWMutex
	normalizeType = strings.ToLower
)

// Register registers an importer factory for a type
func Register(typ string, factory Factory) error {
	lock.Lock()
	defer lock.Unlock()

	if factories == nil {
		factories = make(map[string]Factory)
	}

	typ = normalizeType(typ)
	if _, ok := factories[typ]; ok {
		return errors.Errorf("importer %q already registered", typ)
	}

	factories[typ] = factory
	return nil
}

// GetFactory returns factory for an importer, nil if not found
func GetFactory(typ string) Factory {
	lock.RLock()
	defer lock.RUnlock()

	return factories[normalizeType(typ)]
}

// Types returns the registered types, sorted
func Types() []string {
	lock.RLock()
	defer lock.RUnlock()

	types := make([]string, 0, len(factories))
	for typ := range factories {
		types = append(types, typ)
	}
	sort.Strings(types)

	return types
}

// Load reads the dataset described by config, with a nil log the frame logger
// is used
func Load(log logger.Logger, config *columnar.DatasetConfig) (columnar.Frame, error) {
	factory := GetFactory(config.Type)
	if factory == nil {
		return nil, errors.Errorf("unknown dataset type %q (known: %s)", config.Type, strings.Join(Types(), ", "))
	}

	importer, err := factory(log, config)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create %s importer", config.Type)
	}

	file, err := os.Open(config.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open dataset %q", config.Name)
	}
	defer file.Close()

	frame, err := importer.Import(file)
	if err != nil {
		return nil, errors.Wrapf(err, "can't import dataset %q from %q", config.Name, config.Path)
	}

	if log == nil {
		log = frame.Logger()
	}

	log.InfoWith("Loaded dataset", "name", config.Name, "type", config.Type, "rows", frame.Len(), "columns", frame.Names())
	return frame, nil
}
