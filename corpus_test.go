// Copyright 2023-2026 The declower authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package declower

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/declower/declower/internal/corpora"
	"github.com/declower/declower/reporter"
)

// TestCorpus runs every source under testdata/lower through the transform
// and compares against the checked-in golden files. Set DECLOWER_REFRESH to
// a glob of test names to rewrite the goldens instead.
func TestCorpus(t *testing.T) {
	corpora.Corpus{
		Root:      "testdata/lower",
		Refresh:   "DECLOWER_REFRESH",
		Extension: "src",
		Outputs: []corpora.Output{
			{Extension: "lowered"},
			{Extension: "warnings"},
		},
		Test: func(t *testing.T, path, text string) []string {
			var warnings strings.Builder
			rep := reporter.NewReporter(nil, func(err reporter.ErrorWithPos) {
				warnings.WriteString(err.Error())
				warnings.WriteByte('\n')
			})
			tr := &Transformer{Resolver: MapResolver{}, Reporter: rep}
			h := reporter.NewHandler(rep)
			res, err := tr.transformSource(filepath.Base(path), []byte(text), h)
			require.NoError(t, err)
			return []string{res.Text, warnings.String()}
		},
	}.Run(t)
}
