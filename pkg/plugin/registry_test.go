package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
)

func band(id, min, max string) *Definition {
	return &Definition{Desc: Descriptor{
		ID:           id,
		Name:         "Demo " + id,
		Version:      "1.0.0",
		Engine:       "demo",
		Capabilities: FeatureConnection | FeatureQuery,
		MinVersion:   min,
		MaxVersion:   max,
		Artifact:     Artifact{Group: "example.com/demo", Artifact: "demo-driver", Version: Ver("1.2.3")},
	}}
}

func TestRegistryResolveOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(band("demo57", "5.7", "8.0")))
	require.NoError(t, r.Register(band("demo80", "8.0", "")))
	require.NoError(t, r.Register(&Definition{Desc: Descriptor{ID: "other", Engine: dbcapabilities.MySQL}}))

	got := r.Resolve("DEMO")
	require.Len(t, got, 2)
	assert.Equal(t, "demo57", got[0].Descriptor().ID)
	assert.Equal(t, "demo80", got[1].Descriptor().ID)

	// aliases resolve through the capability manifest
	assert.Len(t, r.Resolve("aurora-mysql"), 1)

	assert.Len(t, r.List(), 3)
	assert.Equal(t, []dbcapabilities.DatabaseID{"demo", dbcapabilities.MySQL}, r.Engines())
}

func TestRegistryUnknownEngineIsEmpty(t *testing.T) {
	r := NewRegistry()
	got := r.Resolve("nosuchengine")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRegistryRejectsDuplicatesAndBadDescriptors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(band("demo80", "8.0", "")))

	err := r.Register(band("demo80", "8.0", ""))
	assert.True(t, errors.Is(err, ErrDuplicatePlugin))

	err = r.Register(band("Upper", "", ""))
	assert.True(t, IsConfigurationError(err))

	err = r.Register(band("badrange", "eight", ""))
	assert.True(t, IsConfigurationError(err))

	assert.Panics(t, func() { r.MustRegister(band("demo80", "", "")) })
}

func TestRegistryGetAndUnregister(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(band("demo57", "5.7", "8.0"))
	r.MustRegister(band("demo80", "8.0", ""))

	p, err := r.Get("demo80")
	require.NoError(t, err)
	assert.Equal(t, "Demo demo80", p.Descriptor().Name)

	r.Unregister("demo80")
	_, err = r.Get("demo80")
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, ErrPluginNotFound))
	assert.Len(t, r.Resolve("demo"), 1)

	r.Unregister("demo57")
	assert.Empty(t, r.Engines())
}

func TestSelectBand(t *testing.T) {
	candidates := []Plugin{band("demo57", "5.7", "8.0"), band("demo80", "8.0", "")}

	tests := []struct {
		version string
		want    string
		found   bool
	}{
		{"5.7.44-log", "demo57", true},
		{"8.0.35-0ubuntu0.22.04.1", "demo80", true},
		{"9.1.0", "demo80", true},
		{"5.6.51", "", false},
		{"unknown", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			p, ok := SelectBand(candidates, tt.version)
			assert.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, p.Descriptor().ID)
			}
		})
	}
}

func TestCanonicalVersion(t *testing.T) {
	tests := map[string]string{
		"8.0.35-0ubuntu0.22.04.1":                 "v8.0.35",
		"PostgreSQL 15.4 on x86_64-pc-linux-gnu":  "v15.4.0",
		"15.0.4322.2":                             "v15.0.4322",
		"Oracle Database 19c Enterprise Edition":  "v19.0.0",
		"10.11.2-MariaDB-1:10.11.2+maria~ubu2204": "v10.11.2",
		"3.45.1": "v3.45.1",
		"05.07":  "v5.7.0",
	}
	for in, want := range tests {
		got, ok := CanonicalVersion(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := CanonicalVersion("no digits")
	assert.False(t, ok)
}

func TestDescriptorHelpers(t *testing.T) {
	d := band("demo57", "5.7", "8.0").Descriptor()
	assert.True(t, d.Supports(FeatureQuery))
	assert.False(t, d.Supports(FeatureTransaction))
	assert.Equal(t, "Driver", d.Symbol())
	assert.Equal(t, "[5.7, 8.0)", d.Range())
	assert.Equal(t, "example.com/demo:demo-driver:1.2.3", d.Artifact.Coordinates())
	assert.Equal(t, "demo-driver-1.2.3.so", d.Artifact.FileName())
	assert.Equal(t, "demo-driver.so", Artifact{Artifact: "demo-driver"}.FileName())
	assert.Equal(t, "CONNECTION|QUERY", d.Capabilities.String())

	err := RequireFeature(d, FeatureTransaction, "transactions")
	assert.True(t, IsUnsupported(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "TRANSACTION")
}

func TestDescriptorSameLibrary(t *testing.T) {
	a := band("a", "5.7", "8.0").Descriptor()
	b := band("b", "8.0", "").Descriptor()
	assert.True(t, a.SameLibrary(b))

	b.DriverSymbol = "LegacyDriver"
	assert.False(t, a.SameLibrary(b))

	c := band("c", "8.0", "").Descriptor()
	c.Artifact.Version = Ver("2.0.0")
	assert.False(t, a.SameLibrary(c))
}
