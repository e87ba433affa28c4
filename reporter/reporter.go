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

// Package reporter contains the types used for reporting errors and warnings
// from the transform. Parse failures and nested-compile failures are fatal for
// the file in which they occur; nested-compile diagnostics (things the legacy
// target downgrades or drops) are warnings and never fail the build.
package reporter

import (
	"sync"

	"github.com/declower/declower/ast"
)

// ErrorReporter is responsible for reporting the given error. If the reporter
// returns a non-nil error, the transform aborts with that error. If the
// reporter returns nil, the transform continues, trying to report as many
// errors as it can find.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. Warnings
// indicate constructs the legacy emission cannot fully honor; they never fail
// the transform. Though they are just warnings, the details are supplied to
// the reporter via an error type.
type WarningReporter func(ErrorWithPos)

// Reporter is a combined error and warning sink for a transform operation.
type Reporter interface {
	// Error is called when an error is encountered. If it returns non-nil,
	// the transform aborts with that error.
	Error(ErrorWithPos) error
	// Warning is called for non-fatal diagnostics.
	Warning(ErrorWithPos)
}

// NewReporter creates a new reporter that invokes the given functions on error
// or warning.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler is used by the transform internals to report errors and warnings.
// A handler is safe for concurrent use: per-file work may run in parallel but
// share one handler.
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler creates a new Handler that reports errors and warnings to the
// given reporter. If rep is nil, a default reporter is used that aborts on the
// first error and ignores all warnings.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorWithPos handles an error with an associated source position.
//
// If the handler has already aborted (by returning a non-nil error from a
// previous call), that same error is returned and the given error is not
// reported.
func (h *Handler) HandleErrorWithPos(pos ast.SourcePos, err error) error {
	if ewp, ok := err.(ErrorWithPos); ok {
		// err already has a position; the given pos is the more precise one
		ewp = Error(pos, ewp.Unwrap())
		err = ewp
	} else {
		err = Error(pos, err)
	}
	return h.HandleError(err)
}

// HandleErrorf handles an error with the given source position, creating the
// error using fmt.Errorf.
func (h *Handler) HandleErrorf(pos ast.SourcePos, format string, args ...any) error {
	return h.HandleError(Errorf(pos, format, args...))
}

// HandleError handles the given error. If the handler has already aborted,
// that same error is returned and the given error is not reported.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarningWithPos handles a warning with an associated source position.
// Once the handler has aborted, warnings are dropped.
func (h *Handler) HandleWarningWithPos(pos ast.SourcePos, err error) {
	h.HandleWarning(Error(pos, err))
}

// HandleWarningf handles a warning with the given source position, creating
// the warning using fmt.Errorf.
func (h *Handler) HandleWarningf(pos ast.SourcePos, format string, args ...any) {
	h.HandleWarning(Errorf(pos, format, args...))
}

// HandleWarning handles the given warning.
func (h *Handler) HandleWarning(err ErrorWithPos) {
	h.mu.Lock()
	aborted := h.err != nil
	h.mu.Unlock()
	if aborted {
		return
	}
	h.reporter.Warning(err)
}

// Err returns the handler's fatal state. If it returns non-nil, the transform
// should abort. If errors were reported but every reporter call returned nil,
// ErrInvalidSource is returned.
func (h *Handler) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the error returned by the handler's reporter, if it
// has aborted the operation.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
