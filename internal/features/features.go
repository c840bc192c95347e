// Package features implements a feature flagging mechanism for the lowering.
//
// Features are intended to control properties of the code that can only be
// enabled globally, e.g. tracing every replacement the dispatcher makes.
package features

import (
	"strings"
	"sync"

	"github.com/xyproto/env/v2"
)

const (
	// EnvVarName is the name of the environment variable which contains the
	// list of feature flags.
	EnvVarName = "AMDILFEATURES"

	// Trace prints every node replacement to standard output.
	Trace = "trace"
	// Verify validates the graph after every lowering, even when the
	// compile-time validation is disabled.
	Verify = "verify"
)

var (
	lock sync.RWMutex
	list []string
)

// EnableFromEnvironment extracts the list of features enabled from the
// AMDILFEATURES environment variable.
func EnableFromEnvironment() {
	Enable(strings.Split(env.Str(EnvVarName), ",")...)
}

// Enable the list of features passed as arguments.
//
// The function is idempotent and atomic, features that are already present are
// skipped.
//
// Unrecognized features are ignored.
func Enable(features ...string) {
	lock.Lock()
	defer lock.Unlock()

	enabled := list
	for _, f := range features {
		f = strings.TrimSpace(f)
		if supported(f) && !have(enabled, f) {
			enabled = append(enabled, f)
		}
	}
	list = enabled
}

// Reset disables every feature.
func Reset() {
	lock.Lock()
	list = nil
	lock.Unlock()
}

// List returns the current list of features enabled.
//
// The program must treat the returned slice as read-only.
func List() []string {
	lock.RLock()
	defer lock.RUnlock()
	return list
}

// Enabled returns true if the given feature is enabled.
func Enabled(feature string) bool {
	lock.RLock()
	features := list
	lock.RUnlock()
	return have(features, feature)
}

func have(list []string, feature string) bool {
	for _, f := range list {
		if f == feature {
			return true
		}
	}
	return false
}

func supported(feature string) bool {
	switch feature {
	case Trace, Verify:
		return true
	default:
		return false
	}
}
