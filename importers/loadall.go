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

package importers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nuclio/logger"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"

	"github.com/v3io/columnar"
)

// LoadError is the failure to load a single dataset
type LoadError struct {
	Index   int
	Dataset string
	Err     error
}

func (le *LoadError) Error() string {
	return fmt.Sprintf("%d (%s): %s", le.Index, le.Dataset, le.Err)
}

func (le *LoadError) Unwrap() error {
	return le.Err
}

// LoadErrors are the failures of LoadAll, ordered by dataset index
type LoadErrors []*LoadError

func (le LoadErrors) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d dataset(s) failed to load", len(le))
	for _, err := range le {
		builder.WriteString("\n")
		builder.WriteString(err.Error())
	}

	return builder.String()
}

func (le LoadErrors) Unwrap() []error {
	errs := make([]error, len(le))
	for i, err := range le {
		errs[i] = err
	}

	return errs
}

// LoadAll loads datasets with up to parallel concurrent loads. Frames are
// returned in dataset order, the ones that failed to load are nil and the
// error is a LoadErrors.
func LoadAll(ctx context.Context, log logger.Logger, datasets []*columnar.DatasetConfig, parallel int) ([]columnar.Frame, error) {
	frames := make([]columnar.Frame, len(datasets))
	if len(datasets) == 0 {
		return frames, nil
	}

	if parallel < 1 {
		parallel = 1
	}

	if parallel > len(datasets) {
		parallel = len(datasets)
	}

	pool, err := ants.NewPool(parallel)
	if err != nil {
		return nil, errors.Wrap(err, "can't create load pool")
	}
	defer pool.Release()

	var (
		wg         sync.WaitGroup
		lock       sync.Mutex
		loadErrors LoadErrors
	)

	addError := func(index int, err error) {
		lock.Lock()
		defer lock.Unlock()
		loadErrors = append(loadErrors, &LoadError{Index: index, Dataset: datasets[index].Name, Err: err})
	}

	for index, dataset := range datasets {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					addError(index, errors.Errorf("panic - %v", r))
				}
			}()

			if err := ctx.Err(); err != nil {
				addError(index, errors.Wrap(err, "load canceled"))
				return
			}

			frame, err := Load(log, dataset)
			if err != nil {
				addError(index, err)
				return
			}

			frames[index] = frame
		})

		if err != nil {
			wg.Done()
			addError(index, errors.Wrap(err, "can't submit load"))
		}
	}

	wg.Wait()

	if log != nil {
		log.DebugWith("Loaded datasets", "datasets", len(datasets), "parallel", parallel, "errors", len(loadErrors))
	}
	if len(loadErrors) == 0 {
		return frames, nil
	}

	sort.Slice(loadErrors, func(i, j int) bool {
		return loadErrors[i].Index < loadErrors[j].Index
	})

	return frames, loadErrors
}
