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

package legacy

import "fmt"

// Target selects the output shape of the nested compile.
type Target int

const (
	// TargetPrototype emits explicit constructor-function/prototype chains in
	// place of class syntax. It is the only target: the whole point of the
	// nested compile is a single fixed legacy shape.
	TargetPrototype Target = iota + 1
)

// ModuleKind selects the module wrapping of the nested compile's output.
type ModuleKind int

const (
	// ModuleNone emits self-contained code with no module wrapper. The
	// emission is spliced back into the enclosing file, whose own module
	// handling applies.
	ModuleNone ModuleKind = iota + 1
)

// Config is the nested compile's configuration. The supported values are
// fixed; Config exists so cache keys and diagnostics can name the
// configuration a fragment was compiled under, not so callers can vary it.
type Config struct {
	// Target is the output shape. Must be TargetPrototype.
	Target Target
	// Module is the module wrapping. Must be ModuleNone.
	Module ModuleKind
	// Helpers controls injection of compatibility helper functions. Must be
	// false: fragments are self-contained and the emission uses only plain
	// runtime builtins.
	Helpers bool
}

// DefaultConfig returns the one supported configuration.
func DefaultConfig() Config {
	return Config{Target: TargetPrototype, Module: ModuleNone}
}

func (c Config) validate() error {
	if c != DefaultConfig() {
		return fmt.Errorf("unsupported legacy configuration %+v", c)
	}
	return nil
}

// String returns a stable textual form of the configuration, suitable for use
// in cache keys.
func (c Config) String() string {
	return fmt.Sprintf("target=%d,module=%d,helpers=%t", c.Target, c.Module, c.Helpers)
}
