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
	"os"
	"path/filepath"

	"github.com/v3io/columnar"
)

func (suite *importersSuite) writeDatasets(count int) []*columnar.DatasetConfig {
	dir := suite.T().TempDir()
	datasets := make([]*columnar.DatasetConfig, count)
	for i := range datasets {
		path := filepath.Join(dir, fmt.Sprintf("d%d.txt", i))
		content := ""
		for j := 0; j <= i; j++ {
			content += fmt.Sprintf("v%d\n", j)
		}
		suite.Require().NoError(os.WriteFile(path, []byte(content), 0600))

		datasets[i] = &columnar.DatasetConfig{
			Name:    fmt.Sprintf("d%d", i),
			Type:    "lines",
			Path:    path,
			Options: map[string]interface{}{"column": "value"},
		}
	}

	return datasets
}

func (suite *importersSuite) TestLoadAll() {
	datasets := suite.writeDatasets(17)

	for _, parallel := range []int{0, 1, 4, 64} {
		frames, err := LoadAll(context.Background(), suite.logger, datasets, parallel)
		suite.Require().NoError(err, "parallel %d", parallel)
		suite.Require().Len(frames, len(datasets))
		for i, frame := range frames {
			suite.Require().Equal(i+1, frame.Len(), "parallel %d, dataset %d", parallel, i)
		}
	}
}

func (suite *importersSuite) TestLoadAllErrors() {
	datasets := suite.writeDatasets(6)
	datasets[1].Path += ".missing"
	datasets[4].Type = "no-such-type"

	frames, err := LoadAll(context.Background(), suite.logger, datasets, 3)
	suite.Require().Error(err)

	loadErrors, ok := err.(LoadErrors)
	suite.Require().True(ok, "bad error type %T", err)
	suite.Require().Len(loadErrors, 2)
	suite.Require().Equal("d1", loadErrors[0].Dataset)
	suite.Require().Equal(4, loadErrors[1].Index)

	suite.Require().Nil(frames[1])
	suite.Require().Nil(frames[4])
	suite.Require().Equal(3, frames[2].Len())
}

func (suite *importersSuite) TestLoadAllCanceled() {
	datasets := suite.writeDatasets(5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadAll(ctx, suite.logger, datasets, 2)
	suite.Require().ErrorIs(err, context.Canceled)
	suite.Require().Len(err.(LoadErrors), len(datasets))
}

func (suite *importersSuite) TestLoadAllEmpty() {
	frames, err := LoadAll(context.Background(), suite.logger, nil, 4)
	suite.Require().NoError(err)
	suite.Require().Empty(frames)
}

func (suite *importersSuite) TestLoadNilLogger() {
	datasets := suite.writeDatasets(3)

	frame, err := Load(nil, datasets[0])
	suite.Require().NoError(err)
	suite.Require().Equal(1, frame.Len())

	frames, err := LoadAll(context.Background(), nil, datasets, 2)
	suite.Require().NoError(err)
	suite.Require().Len(frames, 3)

	datasets[2].Path += ".missing"
	_, err = LoadAll(context.Background(), nil, datasets, 2)
	suite.Require().Error(err)
}
