// Package callsite finds the source location of the code that called into the
// document engine.
package callsite

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoCaller is returned when every frame on the stack belongs to the engine
// or the Go runtime.
var ErrNoCaller = errors.New("callsite: no caller frame outside the engine")

const maxDepth = 64

// Location identifies a line of source code.
type Location struct {
	// File is the path reported by the runtime; absolute unless built with -trimpath.
	File string
	// Line is 1-based.
	Line int
	// Function is the fully qualified runtime function name,
	// e.g. "example.com/mod/docs.TestReadme.func1".
	Function string
}

// Package returns the import path of the package the location belongs to.
func (l Location) Package() string {
	return PackageOf(l.Function)
}

// Base returns the file name without directory.
func (l Location) Base() string {
	return filepath.Base(l.File)
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

// Here returns the location of its caller.
func Here() Location {
	return Caller(1)
}

// Caller returns the location skip frames above its caller; Caller(0) is the
// caller itself.
func Caller(skip int) Location {
	pcs := make([]uintptr, 1)
	// skip runtime.Callers and Caller itself
	if runtime.Callers(skip+2, pcs) == 0 {
		return Location{}
	}
	frame, _ := runtime.CallersFrames(pcs).Next()
	return Location{File: frame.File, Line: frame.Line, Function: frame.Function}
}

// PackageOf extracts the import path from a runtime function name.
func PackageOf(function string) string {
	slash := strings.LastIndex(function, "/")
	dot := strings.Index(function[slash+1:], ".")
	if dot < 0 {
		return function
	}
	return function[:slash+1+dot]
}

// Locator walks the stack looking for the first frame that is caller code.
type Locator struct {
	skip []string
}

// defaultSkip are the Go runtime and test harness frames.
var defaultSkip = []string{"runtime.", "testing."}

// NewLocator creates a locator that also skips functions whose names start
// with one of the given prefixes.
func NewLocator(skipPrefixes ...string) *Locator {
	skip := append([]string{}, defaultSkip...)
	skip = append(skip, skipPrefixes...)
	return &Locator{skip: skip}
}

// Caller returns the first frame that belongs neither to the engine nor to the runtime.
func (l *Locator) Caller() (Location, error) {
	pcs := make([]uintptr, maxDepth)
	// skip runtime.Callers and Caller itself
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !l.skipped(frame.Function) {
			return Location{File: frame.File, Line: frame.Line, Function: frame.Function}, nil
		}
		if !more {
			break
		}
	}
	return Location{}, ErrNoCaller
}

func (l *Locator) skipped(function string) bool {
	for _, prefix := range l.skip {
		if strings.HasPrefix(function, prefix) {
			return true
		}
	}
	return false
}
