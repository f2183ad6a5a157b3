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

package yaml

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	nucliozap "github.com/nuclio/zap"
	"github.com/stretchr/testify/require"

	"github.com/v3io/columnar"
	"github.com/v3io/columnar/importers"
)

const peopleYAML = `
columns:
  - name: id
    type: long
    values: [1, 2, null, "x"]
  - name: score
    values: [3.5, null, 1, 2]
  - name: name
    values: [bugs, daffy, "", null]
  - name: vip
    values: [true, false, true, false]
  - name: count
    values: [1, 2, 3, null]
`

func TestImportYAML(t *testing.T) {
	log, err := nucliozap.NewNuclioZapTest("test")
	require.NoError(t, err)

	imp, err := NewImporter(log, nil)
	require.NoError(t, err)

	frame, err := imp.Import(strings.NewReader(peopleYAML))
	require.NoError(t, err)
	require.Equal(t, 4, frame.Len())
	require.Equal(t, []string{"id", "score", "name", "vip", "count"}, frame.Names())

	id := frame.Column("id").(*columnar.LongColumn)
	require.Equal(t, []int64{1, 2, 0, 0}, id.Values())
	require.Equal(t, 2, id.MissingCount())

	score := frame.Column("score")
	require.Equal(t, columnar.DoubleType, score.DType())
	require.True(t, math.IsNaN(score.(*columnar.DoubleColumn).Values()[1]))

	name := frame.Column("name")
	require.Equal(t, columnar.StringType, name.DType())
	require.False(t, name.IsMissing(2))
	require.True(t, name.IsMissing(3))

	require.Equal(t, columnar.BoolType, frame.Column("vip").DType())
	require.Equal(t, columnar.LongType, frame.Column("count").DType())
}

func TestImportJSON(t *testing.T) {
	imp, err := NewImporter(nil, nil)
	require.NoError(t, err)

	doc := `{"columns": [{"name": "n", "type": "double", "values": [1, "2.5", "oops"]}]}`
	frame, err := imp.Import(strings.NewReader(doc))
	require.NoError(t, err)

	values := frame.Column("n").(*columnar.DoubleColumn).Values()
	require.Equal(t, 1.0, values[0])
	require.Equal(t, 2.5, values[1])
	require.True(t, math.IsNaN(values[2]))
}

func TestImportErrors(t *testing.T) {
	imp, err := NewImporter(nil, nil)
	require.NoError(t, err)

	_, err = imp.Import(strings.NewReader("columns: [{name: a, type: time, values: [1]}]"))
	require.True(t, errors.Is(err, columnar.ErrTypeMismatch))

	_, err = imp.Import(strings.NewReader("columns: [{name: a, values: [[1]]}]"))
	require.True(t, errors.Is(err, columnar.ErrTypeMismatch))

	_, err = imp.Import(strings.NewReader("columns: [{name: a, values: [1]}, {name: b, values: [1, 2]}]"))
	require.True(t, errors.Is(err, columnar.ErrLengthMismatch))
}

func TestRegistered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.yml")
	require.NoError(t, os.WriteFile(path, []byte(peopleYAML), 0600))

	log, err := nucliozap.NewNuclioZapTest("test")
	require.NoError(t, err)

	frame, err := importers.Load(log, &columnar.DatasetConfig{Name: "people", Type: "YAML", Path: path})
	require.NoError(t, err)
	require.Equal(t, 4, frame.Len())
	require.NotNil(t, importers.GetFactory("json"))
}
