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

// Package corpora runs file-system test corpora: directories of input
// sources paired with golden output files. Each input file is one test
// case; for every configured output the runner compares the produced text
// against the sibling golden file, or rewrites the golden file when
// refresh mode is requested.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// A Corpus describes a directory of test cases. It is a table-driven test
// whose table lives in the file system.
type Corpus struct {
	// The root of the test data directory, relative to the file that calls
	// [Corpus.Run].
	Root string

	// An environment variable naming a glob of test cases whose golden
	// files should be rewritten instead of compared.
	Refresh string

	// The file extension (without a dot) of files that define a test case.
	Extension string

	// The outputs each test produces. An output's golden file is the test
	// case's file name plus the output's extension; a missing golden file
	// is treated as expecting empty output.
	Outputs []Output

	// Test runs one test case and returns one string per element of
	// Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Output describes one comparable output of a test case.
type Output struct {
	// The extension appended to the test case's file name to locate the
	// golden file, e.g. "lowered" turns "foo.src" into "foo.src.lowered".
	Extension string

	// The comparison function for this output. Nil means compare byte for
	// byte with a unified diff on mismatch.
	Compare Compare
}

// Compare reports a mismatch between got and want as a non-empty message,
// or "" when they match.
type Compare func(got, want string) string

// Run discovers and executes every test case under the corpus root as a
// subtest of t.
func (c Corpus) Run(t *testing.T) {
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	var cases []string
	err := filepath.Walk(root, func(p string, fi fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && strings.TrimPrefix(path.Ext(p), ".") == c.Extension {
			cases = append(cases, p)
		}
		return nil
	})
	if err != nil {
		t.Fatal("corpora: error while walking testdata:", err)
	}

	var refreshGlob string
	if c.Refresh != "" {
		refreshGlob = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refreshGlob) {
			t.Fatalf("corpora: invalid glob in %s: %q", c.Refresh, refreshGlob)
		}
	}
	if refreshGlob != "" {
		// Force the overall run red so a refresh is never mistaken for a
		// passing CI run.
		t.Logf("corpora: refreshing golden files because %s=%s", c.Refresh, refreshGlob)
		t.Fail()
	}

	for _, casePath := range cases {
		casePath := casePath
		name, _ := filepath.Rel(testDir, casePath)
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(casePath)
			if err != nil {
				t.Fatalf("corpora: error while loading input file %q: %v", casePath, err)
			}

			results := c.Test(t, name, string(data))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: test returned %d outputs, want %d", len(results), len(c.Outputs))
			}

			refresh, _ := doublestar.Match(refreshGlob, name)
			for i, output := range c.Outputs {
				goldenPath := fmt.Sprint(casePath, ".", output.Extension)
				if refresh {
					c.refreshGolden(t, goldenPath, results[i])
					continue
				}

				want, err := os.ReadFile(goldenPath)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: error while loading golden file %q: %v", goldenPath, err)
					continue
				}

				cmp := output.Compare
				if cmp == nil {
					cmp = defaultCompare
				}
				if msg := cmp(results[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %q:\n%s", goldenPath, msg)
				}
			}
		})
	}
}

func (c Corpus) refreshGolden(t *testing.T, goldenPath, text string) {
	if text == "" {
		err := os.Remove(goldenPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			t.Errorf("corpora: error while deleting golden file %q: %v", goldenPath, err)
		}
		return
	}
	if err := os.WriteFile(goldenPath, []byte(text), 0o660); err != nil {
		t.Errorf("corpora: error while writing golden file %q: %v", goldenPath, err)
	}
}

func defaultCompare(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	// Colorize added and removed lines so mismatches are easier to scan.
	lines := strings.Split(diff, "\n")
	for i, s := range lines {
		if strings.HasPrefix(s, "+") {
			lines[i] = "\033[1;92m" + s + "\033[0m"
		} else if strings.HasPrefix(s, "-") {
			lines[i] = "\033[1;91m" + s + "\033[0m"
		}
	}
	return strings.Join(lines, "\n")
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
