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

// Package arrow imports frames from Arrow IPC streams
package arrow

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/nuclio/logger"
	"github.com/pkg/errors"

	"github.com/v3io/columnar"
	"github.com/v3io/columnar/arrowio"
	"github.com/v3io/columnar/importers"
)

// Importer is an Arrow IPC stream importer
type Importer struct {
	logger logger.Logger
	mem    memory.Allocator
}

// NewImporter returns a new Arrow IPC importer
func NewImporter(log logger.Logger, config *columnar.DatasetConfig) (importers.Importer, error) {
	return &Importer{
		logger: log,
		mem:    memory.NewGoAllocator(),
	}, nil
}

// Import reads all the records in the stream
func (imp *Importer) Import(reader io.Reader) (columnar.Frame, error) {
	ipcReader, err := ipc.NewReader(reader, ipc.WithAllocator(imp.mem))
	if err != nil {
		return nil, errors.Wrap(err, "can't create IPC reader")
	}
	defer ipcReader.Release()

	var records []arrow.Record
	defer func() {
		for _, record := range records {
			record.Release()
		}
	}()

	for ipcReader.Next() {
		record := ipcReader.Record()
		record.Retain()
		records = append(records, record)
	}

	if err := ipcReader.Err(); err != nil {
		return nil, errors.Wrap(err, "can't read IPC stream")
	}

	return arrowio.FromRecords(imp.logger, ipcReader.Schema(), records)
}

func init() {
	for _, typ := range []string{"arrow", "arrows", "ipc"} {
		if err := importers.Register(typ, NewImporter); err != nil {
			panic(err)
		}
	}
}
