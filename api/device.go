// Package api includes constants and types used by both end-users and internal implementations to describe the
// AMD GPU a graph is lowered for.
package api

import (
	"fmt"
	"strings"
)

// Generation is the hardware generation of the target GPU. Generations are ordered: a later generation supports
// every capability of an earlier one.
type Generation byte

const (
	// GenerationHD4XXX is the R7xx family: no native find-first-bit, IEEE division done in software.
	GenerationHD4XXX Generation = iota + 1
	// GenerationHD5XXX is the Evergreen family.
	GenerationHD5XXX
	// GenerationHD6XXX is the Northern Islands family.
	GenerationHD6XXX
	// GenerationHD7XXX is the Southern Islands family, the first with native double to integer conversions.
	GenerationHD7XXX
)

var generationNames = [...]string{
	GenerationHD4XXX: "hd4xxx",
	GenerationHD5XXX: "hd5xxx",
	GenerationHD6XXX: "hd6xxx",
	GenerationHD7XXX: "hd7xxx",
}

// String implements fmt.Stringer.
func (g Generation) String() string {
	if g == 0 || int(g) >= len(generationNames) {
		return fmt.Sprintf("generation(%d)", g)
	}
	return generationNames[g]
}

// ParseGeneration returns the Generation named s, e.g. "hd5xxx".
func ParseGeneration(s string) (Generation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for g, name := range generationNames {
		if name != "" && name == s {
			return Generation(g), nil
		}
	}
	return 0, fmt.Errorf("unknown hardware generation %q", s)
}

// CALVersion is the version of the CAL shader compiler the lowered code is handed to.
type CALVersion uint32

// DeviceFeatures is a bit flag of the optional operations a device supports.
type DeviceFeatures uint64

const (
	// FeatureLongOps allows 64-bit integer registers and operations.
	FeatureLongOps DeviceFeatures = 1 << iota
	// FeatureDoubleOps allows 64-bit float registers and operations.
	FeatureDoubleOps
	// FeatureByteOps allows 8-bit integer registers.
	FeatureByteOps
	// FeatureShortOps allows 16-bit integer registers.
	FeatureShortOps

	// FeaturesAll enables every optional operation.
	FeaturesAll = FeatureLongOps | FeatureDoubleOps | FeatureByteOps | FeatureShortOps
)

var featureNames = []struct {
	f    DeviceFeatures
	name string
}{
	{FeatureLongOps, "long"},
	{FeatureDoubleOps, "double"},
	{FeatureByteOps, "byte"},
	{FeatureShortOps, "short"},
}

// SetEnabled enables or disables the feature or group of features.
func (f DeviceFeatures) SetEnabled(feature DeviceFeatures, val bool) DeviceFeatures {
	if val {
		return f | feature
	}
	return f &^ feature
}

// IsEnabled returns true if the feature (or group of features) is enabled.
func (f DeviceFeatures) IsEnabled(feature DeviceFeatures) bool {
	return f&feature == feature
}

// RequireEnabled returns an error if the feature (or group of features) is not enabled.
func (f DeviceFeatures) RequireEnabled(feature DeviceFeatures) error {
	if f&feature == 0 {
		return fmt.Errorf("feature %q is disabled", feature)
	}
	return nil
}

// String implements fmt.Stringer by returning each enabled feature, separated by '|'.
func (f DeviceFeatures) String() string {
	var builder strings.Builder
	for _, n := range featureNames {
		if f.IsEnabled(n.f) {
			if builder.Len() > 0 {
				builder.WriteByte('|')
			}
			builder.WriteString(n.name)
		}
	}
	return builder.String()
}

// ParseFeatures parses a comma or '|' separated list of feature names, e.g. "long,double".
func ParseFeatures(s string) (DeviceFeatures, error) {
	var ret DeviceFeatures
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "all" {
			ret |= FeaturesAll
			continue
		}
		found := false
		for _, n := range featureNames {
			if n.name == field {
				ret |= n.f
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown device feature %q", field)
		}
	}
	return ret, nil
}

// Device describes the GPU a graph is lowered for. It is established once per compilation context and never
// mutated afterwards.
type Device struct {
	Generation Generation
	CALVersion CALVersion
	Features   DeviceFeatures
}

// String implements fmt.Stringer.
func (d Device) String() string {
	return fmt.Sprintf("%s/cal%d/%s", d.Generation, d.CALVersion, d.Features)
}

// Validate returns an error if the descriptor cannot drive a backend.
func (d Device) Validate() error {
	if d.Generation < GenerationHD4XXX || d.Generation > GenerationHD7XXX {
		return fmt.Errorf("invalid hardware generation %d", d.Generation)
	}
	if d.CALVersion == 0 {
		return fmt.Errorf("missing CAL version for %s", d.Generation)
	}
	if d.Features&^FeaturesAll != 0 {
		return fmt.Errorf("unknown device features %#x", uint64(d.Features&^FeaturesAll))
	}
	return nil
}
