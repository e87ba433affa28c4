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

// Command declower rewrites marked class declarations in the given source
// files into their lowered form and writes the results to an output
// directory or to stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/declower/declower"
	"github.com/declower/declower/reporter"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	outDir      string
	marker      string
	parallelism int
	cacheSize   int
	watch       bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "declower [globs...]",
		Short: "Lower marked class declarations in source files",
		Long: `declower parses each matched file, replaces every class declaration
carrying the marker decorator with its lowered form, and leaves all other
text untouched. Globs support ** for recursive matching.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to a declower.yaml config file")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory; stdout if unset")
	cmd.Flags().StringVar(&opts.marker, "marker", "", "marker decorator name (default "+declower.DefaultMarker+")")
	cmd.Flags().IntVar(&opts.parallelism, "parallelism", 0, "max files transformed concurrently; 0 means number of CPUs")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", 256, "lowered-fragment cache capacity; 0 disables the cache")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "watch matched files and re-transform on change")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, opts *options, globs []string) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		logger.Error("loading config", zap.Error(err))
		return err
	}
	cfg.apply(opts)

	if len(globs) == 0 {
		globs = cfg.Include
	}
	if len(globs) == 0 {
		err := errors.New("no input globs given and none configured")
		logger.Error("nothing to do", zap.Error(err))
		return err
	}

	files, err := discover(globs)
	if err != nil {
		logger.Error("resolving globs", zap.Error(err))
		return err
	}
	if len(files) == 0 {
		logger.Warn("no files matched", zap.Strings("globs", globs))
		return nil
	}
	logger.Debug("matched files", zap.Int("count", len(files)))

	r := &runner{
		logger: logger,
		outDir: opts.outDir,
		transformer: &declower.Transformer{
			Resolver:       &declower.SourceResolver{},
			MaxParallelism: opts.parallelism,
			Marker:         opts.marker,
			Cache:          declower.NewEmitCache(opts.cacheSize),
		},
	}
	r.transformer.Reporter = reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			logger.Error(err.Error())
			// Keep reporting; the transform still fails via the handler.
			return nil
		},
		func(err reporter.ErrorWithPos) {
			logger.Warn(err.Error())
		},
	)

	if !opts.watch {
		return r.runOnce(ctx, files)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A failing initial pass is not fatal in watch mode; the next edit may
	// fix it.
	if err := r.runOnce(ctx, files); err != nil {
		logger.Error("initial transform failed", zap.Error(err))
	}
	return r.watch(ctx, files)
}

type runner struct {
	logger      *zap.Logger
	outDir      string
	transformer *declower.Transformer
}

func (r *runner) runOnce(ctx context.Context, files []string) error {
	results, err := r.transformer.Transform(ctx, files...)
	if err != nil {
		r.logger.Error("transform failed", zap.Error(err))
		return err
	}
	for _, res := range results {
		if err := r.write(res); err != nil {
			r.logger.Error("writing output", zap.String("file", res.Name), zap.Error(err))
			return err
		}
		r.logger.Debug("transformed",
			zap.String("file", res.Name),
			zap.Bool("modified", res.Modified))
	}
	return nil
}

func (r *runner) write(res declower.Result) error {
	if r.outDir == "" {
		_, err := os.Stdout.WriteString(res.Text)
		return err
	}
	dst := filepath.Join(r.outDir, res.Name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(res.Text), 0o644)
}

func (r *runner) watch(ctx context.Context, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Watch directories rather than files so editors that replace files on
	// save keep being observed.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	r.logger.Info("watching", zap.Int("files", len(watched)), zap.Int("dirs", len(dirs)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("watch error", zap.Error(err))
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			rel := relOrSelf(ev.Name)
			r.logger.Info("change detected", zap.String("file", rel))
			if err := r.runOnce(ctx, []string{rel}); err != nil {
				r.logger.Error("transform failed", zap.String("file", rel), zap.Error(err))
			}
		}
	}
}

func relOrSelf(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}

// discover expands globs into a sorted, deduplicated file list.
func discover(globs []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, glob := range globs {
		matches, err := doublestar.FilepathGlob(glob)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", glob, err)
		}
		for _, m := range matches {
			fi, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if fi.IsDir() || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
