package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Target(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		host   string
		secure bool
	}{
		{name: "bare host follows UseSSL", cfg: Config{Endpoint: "minio:9000", UseSSL: true}, host: "minio:9000", secure: true},
		{name: "http overrides UseSSL", cfg: Config{Endpoint: "http://minio:9000", UseSSL: true}, host: "minio:9000"},
		{name: "https enables TLS", cfg: Config{Endpoint: "https://s3.amazonaws.com/"}, host: "s3.amazonaws.com", secure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure, err := tt.cfg.target()
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}
