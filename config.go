package amdil

import (
	"runtime"

	"github.com/radeon-go/amdil/api"
)

// BackendConfig controls how graphs are lowered, with the default implementation as NewBackendConfig.
//
// BackendConfig is immutable: every With* method returns a modified clone.
type BackendConfig struct {
	device      api.Device
	parallelism int
}

// defaultConfig is an HD5XXX with the newest CAL compiler and every optional operation.
var defaultConfig = &BackendConfig{
	device: api.Device{
		Generation: api.GenerationHD5XXX,
		CALVersion: 139,
		Features:   api.FeaturesAll,
	},
}

// clone ensures all fields are copied even if nil.
func (c *BackendConfig) clone() *BackendConfig {
	ret := *c
	return &ret
}

// NewBackendConfig returns the default configuration: an HD5XXX device with CAL 139 and every optional operation
// enabled, lowering as many graphs in parallel as runtime.GOMAXPROCS allows.
func NewBackendConfig() *BackendConfig {
	return defaultConfig.clone()
}

// Device returns the device graphs are lowered for.
func (c *BackendConfig) Device() api.Device {
	return c.device
}

// WithDevice replaces the whole device descriptor.
func (c *BackendConfig) WithDevice(device api.Device) *BackendConfig {
	ret := c.clone()
	ret.device = device
	return ret
}

// WithGeneration sets the hardware generation.
func (c *BackendConfig) WithGeneration(generation api.Generation) *BackendConfig {
	ret := c.clone()
	ret.device.Generation = generation
	return ret
}

// WithCALVersion sets the version of the CAL compiler the lowered code is handed to. Versions before 135 lack the
// bias conversion trick and versions before 139 lack the native 64-bit multiply.
func (c *BackendConfig) WithCALVersion(version api.CALVersion) *BackendConfig {
	ret := c.clone()
	ret.device.CALVersion = version
	return ret
}

// WithFeatures sets the optional operations of the device, e.g. api.FeatureLongOps|api.FeatureDoubleOps.
func (c *BackendConfig) WithFeatures(features api.DeviceFeatures) *BackendConfig {
	ret := c.clone()
	ret.device.Features = features
	return ret
}

// WithProfile sets the device to the one described by profile.
func (c *BackendConfig) WithProfile(profile *DeviceProfile) (*BackendConfig, error) {
	device, err := profile.Device()
	if err != nil {
		return nil, err
	}
	return c.WithDevice(device), nil
}

// WithParallelism bounds the number of graphs Backend.LowerAll lowers at the same time. Zero or less means
// runtime.GOMAXPROCS(0).
func (c *BackendConfig) WithParallelism(n int) *BackendConfig {
	ret := c.clone()
	ret.parallelism = n
	return ret
}

// Parallelism returns the number of graphs Backend.LowerAll lowers at the same time.
func (c *BackendConfig) Parallelism() int {
	if c.parallelism <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.parallelism
}
