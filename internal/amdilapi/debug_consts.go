package amdilapi

// These consts are used in various places of the lowering implementation.
// Keeping them in one place avoids hunting for "where do we have debug logging?".

// ----- Debug logging -----
// These consts must be disabled by default. Enable them only when debugging.

const (
	DispatcherLoggingEnabled = false
	ABILoggingEnabled        = false
)

// ----- Output prints -----
// These consts must be disabled by default. Enable them only when debugging.

const (
	PrintGraphBeforeLowering = false
	PrintLoweredGraph        = false
	PrintLegalizeTable       = false
)

// ----- Validations -----
// These consts must be enabled by default until the emulation sequences have been fuzzed against hardware.

const (
	GraphValidationEnabled = true
)
