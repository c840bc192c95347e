package amdil

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/radeon-go/amdil/api"
)

// DeviceProfile is a named device description, as found in a profile file:
//
//	[profile.cypress]
//	generation = "hd5xxx"
//	cal = 139
//	features = ["long", "double", "byte", "short"]
type DeviceProfile struct {
	Name       string   `toml:"-"`
	Generation string   `toml:"generation"`
	CAL        uint32   `toml:"cal"`
	Features   []string `toml:"features"`
}

// Device returns the validated device descriptor of the profile.
func (p *DeviceProfile) Device() (api.Device, error) {
	generation, err := api.ParseGeneration(p.Generation)
	if err != nil {
		return api.Device{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	features, err := api.ParseFeatures(strings.Join(p.Features, ","))
	if err != nil {
		return api.Device{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	d := api.Device{Generation: generation, CALVersion: api.CALVersion(p.CAL), Features: features}
	if err = d.Validate(); err != nil {
		return api.Device{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return d, nil
}

// DeviceProfiles are the profiles of one file, by name.
type DeviceProfiles map[string]*DeviceProfile

// Names returns the sorted names of the profiles.
func (ps DeviceProfiles) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the profile called name.
func (ps DeviceProfiles) Lookup(name string) (*DeviceProfile, error) {
	p, ok := ps[name]
	if !ok {
		return nil, fmt.Errorf("unknown device profile %q, have %s", name, strings.Join(ps.Names(), ", "))
	}
	return p, nil
}

type profileFile struct {
	Profile map[string]*DeviceProfile `toml:"profile"`
}

// LoadDeviceProfiles decodes a TOML profile file. Keys the file format does not know are an error, so that a
// misspelled field is not silently ignored.
func LoadDeviceProfiles(r io.Reader) (DeviceProfiles, error) {
	var f profileFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("decoding device profiles: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decoding device profiles: unknown keys %s", strings.Join(keys, ", "))
	}
	ret := make(DeviceProfiles, len(f.Profile))
	for name, p := range f.Profile {
		p.Name = name
		if _, err = p.Device(); err != nil {
			return nil, err
		}
		ret[name] = p
	}
	return ret, nil
}
