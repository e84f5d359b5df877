package connbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAddress(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		template string
		port     int
		want     string
	}{
		{
			name:     "explicit port",
			cfg:      Config{Host: "db.local", Port: 3307, Database: "shop"},
			template: "tcp(%s:%d)/%s",
			port:     3306,
			want:     "tcp(db.local:3307)/shop",
		},
		{
			name:     "default port",
			cfg:      Config{Host: "localhost", Database: "t"},
			template: "postgres://%s:%d/%s",
			port:     5432,
			want:     "postgres://localhost:5432/t",
		},
		{
			name:     "indexed template ignores host",
			cfg:      Config{Database: "/tmp/a.db"},
			template: "file:%[3]s",
			want:     "file:/tmp/a.db",
		},
		{
			name:     "empty database",
			cfg:      Config{Host: "h", Port: 1},
			template: "tcp(%s:%d)/%s",
			want:     "tcp(h:1)/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := BuildAddress(tt.cfg, tt.template, tt.port)
			second := BuildAddress(tt.cfg, tt.template, tt.port)
			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, second)
		})
	}
}

func TestBuildProperties(t *testing.T) {
	cfg := Config{
		Username:       "u",
		Password:       "p",
		TimeoutSeconds: 30,
		Properties:     map[string]string{"charset": "utf8mb4", "user": "override"},
	}

	props := BuildProperties(cfg)
	assert.Equal(t, "override", props.Get(PropUser))
	assert.Equal(t, "p", props.Get(PropPassword))
	assert.Equal(t, "30000", props.Get(PropConnectTimeout))
	assert.Equal(t, 30000, props.Int(PropConnectTimeout, 0))
	assert.Equal(t, []string{"charset"}, props.Extra())

	// the source map is never aliased
	props["charset"] = "latin1"
	assert.Equal(t, "utf8mb4", cfg.Properties["charset"])
}

func TestBuildPropertiesOmitsEmpty(t *testing.T) {
	props := BuildProperties(Config{})
	assert.Empty(t, props)
	assert.Equal(t, 7, props.Int("missing", 7))
}
