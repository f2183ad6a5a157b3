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

package csv

import (
	"bytes"
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

const peopleCSV = `id,name,score,vip
1,bugs,3.5,true
2,daffy,,false
,taz,1,true
4,,2,false
`

func TestImportCSV(t *testing.T) {
	log, err := nucliozap.NewNuclioZapTest("test")
	require.NoError(t, err)

	imp, err := NewImporter(log, nil)
	require.NoError(t, err)

	frame, err := imp.Import(strings.NewReader(peopleCSV))
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "score", "vip"}, frame.Names())
	require.Equal(t, 4, frame.Len())

	id := frame.Column("id").(*columnar.LongColumn)
	require.Equal(t, []int64{1, 2, 0, 4}, id.Values())
	require.True(t, id.IsMissing(2))

	name := frame.Column("name")
	require.Equal(t, columnar.StringType, name.DType())
	require.True(t, name.IsMissing(3))

	score := frame.Column("score")
	require.Equal(t, columnar.DoubleType, score.DType())
	require.True(t, math.IsNaN(score.(*columnar.DoubleColumn).Values()[1]))

	require.Equal(t, columnar.BoolType, frame.Column("vip").DType())
}

func TestImportCSVOptions(t *testing.T) {
	config := &columnar.DatasetConfig{
		Options: map[string]interface{}{
			"comma": ";",
			"limit": float64(2),
			"nulls": []interface{}{"NA"},
			"types": map[string]interface{}{"id": "string", "n": "long"},
		},
	}

	imp, err := NewImporter(nil, config)
	require.NoError(t, err)

	frame, err := imp.Import(strings.NewReader("id;n\n1;NA\n2;\n3;7\n"))
	require.NoError(t, err)
	require.Equal(t, 2, frame.Len())
	require.Equal(t, columnar.StringType, frame.Column("id").DType())

	n := frame.Column("n")
	require.Equal(t, columnar.LongType, n.DType())
	require.True(t, n.IsMissing(0))
	require.True(t, n.IsMissing(1)) // "" is not a long
}

func TestImportCSVErrors(t *testing.T) {
	imp, err := NewImporter(nil, nil)
	require.NoError(t, err)

	_, err = imp.Import(strings.NewReader(""))
	require.Error(t, err)

	_, err = imp.Import(strings.NewReader("a,b\n1,2\n3\n"))
	require.Error(t, err)

	for _, options := range []map[string]interface{}{
		{"comma": ",,"},
		{"limit": 1.5},
		{"limit": "x"},
		{"nulls": "NA"},
		{"types": map[string]interface{}{"a": "complex"}},
	} {
		_, err := NewImporter(nil, &columnar.DatasetConfig{Options: options})
		require.Error(t, err, "options %v", options)
	}
}

func TestWriteCSV(t *testing.T) {
	imp, err := NewImporter(nil, nil)
	require.NoError(t, err)

	frame, err := imp.Import(strings.NewReader(peopleCSV))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Write(&out, frame))
	require.Equal(t, peopleCSV, out.String())

	sorted, err := frame.SortBy("id", false)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, Write(&out, sorted))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, []string{"id,name,score,vip", ",taz,1,true", "4,,2,false", "2,daffy,,false", "1,bugs,3.5,true"}, lines)
}

func TestLoadCSV(t *testing.T) {
	log, err := nucliozap.NewNuclioZapTest("test")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(peopleCSV), 0600))

	frame, err := importers.Load(log, &columnar.DatasetConfig{Name: "people", Type: "csv", Path: path})
	require.NoError(t, err)
	require.Equal(t, 4, frame.Len())
}
