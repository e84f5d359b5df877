package plugin

import (
	"fmt"
	"strings"

	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
)

// Feature is a named capability a plugin may or may not support.
type Feature uint32

const (
	FeatureConnection Feature = 1 << iota
	FeatureQuery
	FeatureTransaction
	FeatureMetadata
	FeatureRoutines
	FeatureTriggers
	FeatureDDL
	FeatureDrop
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureConnection, "CONNECTION"},
	{FeatureQuery, "QUERY"},
	{FeatureTransaction, "TRANSACTION"},
	{FeatureMetadata, "METADATA"},
	{FeatureRoutines, "ROUTINES"},
	{FeatureTriggers, "TRIGGERS"},
	{FeatureDDL, "DDL"},
	{FeatureDrop, "DROP"},
}

// String returns the feature names joined by "|".
func (f Feature) String() string {
	var names []string
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

// Names lists the features in the set.
func (f Feature) Names() []string {
	var names []string
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// Has reports whether every feature in want is in the set.
func (f Feature) Has(want Feature) bool {
	return f&want == want
}

// FeatureAll is the capability set of a full relational plugin.
const FeatureAll = FeatureConnection | FeatureQuery | FeatureTransaction | FeatureMetadata |
	FeatureRoutines | FeatureTriggers | FeatureDDL | FeatureDrop

// Artifact identifies the native driver library a plugin loads by default.
// Version is nil when any version is acceptable.
type Artifact struct {
	Group    string  `json:"group"`
	Artifact string  `json:"artifact"`
	Version  *string `json:"version,omitempty"`
}

// Coordinates returns "group:artifact[:version]".
func (a Artifact) Coordinates() string {
	if a.Version == nil {
		return a.Group + ":" + a.Artifact
	}
	return a.Group + ":" + a.Artifact + ":" + *a.Version
}

// FileName is the library file name the artifact is installed under.
func (a Artifact) FileName() string {
	if a.Version == nil {
		return a.Artifact + ".so"
	}
	return a.Artifact + "-" + *a.Version + ".so"
}

// Ver is a helper for Artifact.Version literals.
func Ver(v string) *string {
	return &v
}

// Descriptor is the static identity and capability record of a plugin. It
// is a value type; copies never alias mutable state.
//
// MinVersion is inclusive and MaxVersion exclusive. An empty MaxVersion
// leaves the band unbounded.
type Descriptor struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Version      string                    `json:"version"`
	Engine       dbcapabilities.DatabaseID `json:"engine"`
	Capabilities Feature                   `json:"capabilities"`
	MinVersion   string                    `json:"minVersion,omitempty"`
	MaxVersion   string                    `json:"maxVersion,omitempty"`
	Artifact     Artifact                  `json:"artifact"`

	// DriverSymbol is the exported symbol of the driver library. Defaults to "Driver".
	DriverSymbol string `json:"driverSymbol,omitempty"`
	// DSNSymbol, when set, names the function the driver library exports to
	// format its own data source names. Plugins without one format DSNs
	// through Plugin.DSN.
	DSNSymbol string `json:"dsnSymbol,omitempty"`
}

// Supports reports whether the plugin advertises feature f.
func (d Descriptor) Supports(f Feature) bool {
	return d.Capabilities.Has(f)
}

// Symbol returns the driver symbol, applying the default.
func (d Descriptor) Symbol() string {
	if d.DriverSymbol == "" {
		return DefaultDriverSymbol
	}
	return d.DriverSymbol
}

// DefaultDriverSymbol is looked up in driver libraries when a descriptor
// does not name one.
const DefaultDriverSymbol = "Driver"

// DefaultDSNSymbol is the conventional name of the DSN formatter a driver
// library exports.
const DefaultDSNSymbol = "DSN"

// SameLibrary reports whether d and o are served by the same driver library.
func (d Descriptor) SameLibrary(o Descriptor) bool {
	return d.Artifact.FileName() == o.Artifact.FileName() && d.Symbol() == o.Symbol()
}

// Covers reports whether an engine version falls in the descriptor's band.
// Unparseable versions are never covered.
func (d Descriptor) Covers(engineVersion string) bool {
	v, ok := CanonicalVersion(engineVersion)
	if !ok {
		return false
	}
	if d.MinVersion != "" {
		min, ok := CanonicalVersion(d.MinVersion)
		if !ok || compareVersions(v, min) < 0 {
			return false
		}
	}
	if d.MaxVersion != "" {
		max, ok := CanonicalVersion(d.MaxVersion)
		if !ok || compareVersions(v, max) >= 0 {
			return false
		}
	}
	return true
}

// Range renders the version band for display, e.g. "[5.7, 8.0)".
func (d Descriptor) Range() string {
	min, max := d.MinVersion, d.MaxVersion
	if min == "" {
		min = "*"
	}
	if max == "" {
		return fmt.Sprintf("[%s, *)", min)
	}
	return fmt.Sprintf("[%s, %s)", min, max)
}

func (d Descriptor) validate() error {
	if d.ID == "" || d.ID != strings.ToLower(d.ID) {
		return NewConfigurationError(d.Engine, "id", "plugin id must be a non-empty lowercase code")
	}
	if d.Engine == "" {
		return NewConfigurationError(d.Engine, "engine", "plugin "+d.ID+" has no engine type")
	}
	if d.MinVersion != "" {
		if _, ok := CanonicalVersion(d.MinVersion); !ok {
			return NewConfigurationError(d.Engine, "minVersion", "unparseable version "+d.MinVersion)
		}
	}
	if d.MaxVersion != "" {
		if _, ok := CanonicalVersion(d.MaxVersion); !ok {
			return NewConfigurationError(d.Engine, "maxVersion", "unparseable version "+d.MaxVersion)
		}
	}
	return nil
}
