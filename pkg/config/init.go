package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// generateJWTSecret returns a random 64-character hex string (32 bytes
// of entropy), suitable as a development JWT signing key.
func generateJWTSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// InitConfig writes a starter configuration file at the default
// location, returning its path. Fails if the file already exists unless
// force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a starter configuration file at path. Fails if
// the file already exists unless force is set.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}

	secret, err := generateJWTSecret()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(starterConfigTemplate, secret)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// starterConfigTemplate is the YAML written by `kreiosctl init`. It
// mirrors GetDefaultConfig's values, with three differences: it sets
// telemetry.insecure to true (the default is false), lists metrics.port
// 9090 (the default leaves it 0 while metrics are disabled), and carries
// a freshly generated jwt_secret.
const starterConfigTemplate = `# kreiosd Configuration File
#
# Generated by 'kreiosctl init'. Edit to match your analyzer and restart
# kreiosd to apply changes. Every field can also be overridden with a
# KREIOSD_<SECTION>_<KEY> environment variable, e.g. KREIOSD_PRODIGY_HOST.

logging:
  level: "INFO"
  format: "text"
  output: "stdout"

shutdown_timeout: 10s

prodigy:
  host: "localhost"
  port: 7010
  timeout: 10s

acquisition:
  poll_interval: 100ms
  max_values_per_read: 1000

telemetry:
  enabled: false
  endpoint: "localhost:4317"
  insecure: true
  sample_rate: 1.0
  profiling:
    enabled: false
    endpoint: "http://localhost:4040"

metrics:
  enabled: false
  port: 9090

api:
  enabled: true
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  idle_timeout: 60s
  auth_enabled: false
  # A random secret has been generated for development use. For
  # production, set KREIOSD_API_SECRET instead of committing a secret
  # to this file:
  #   export KREIOSD_API_SECRET=$(openssl rand -hex 32)
  jwt_secret: "%s"

history:
  path: "/var/lib/kreiosd/history"
  size: 256MiB
`
