package deviceid

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkit/deviceid/processor"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "no components", mutate: func(c *Config) { c.Components = nil }, wantErr: errConfigNoComponents},
		{name: "unknown component", mutate: func(c *Config) { c.Components = []string{"gpu"} }, wantErr: ErrUnknownComponent},
		{name: "duplicate component", mutate: func(c *Config) { c.Components = []string{ComponentOS, ComponentOS} }},
		{name: "protected without app id", mutate: func(c *Config) { c.Components = []string{ComponentProtectedMachineID} }, wantErr: errConfigAppIDRequired},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "powershell" }, wantErr: processor.ErrUnknownBackend},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "base64" }},
		{name: "namespace without uuid", mutate: func(c *Config) { c.UUIDNamespace = "6ba7b810-9dad-11d1-80b4-00c04fd430c8" }, wantErr: errConfigNamespaceFormat},
		{name: "bad namespace", mutate: func(c *Config) { c.Format = FormatUUID; c.UUIDNamespace = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), errConfigNil)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deviceid.yaml")
	content := "app_id: ms.azur.appX\nformat: uuid\ncomponents:\n  - protected_machine_id\n  - os\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ms.azur.appX", cfg.AppID)
	assert.Equal(t, FormatUUID, cfg.Format)
	assert.Equal(t, []string{ComponentProtectedMachineID, ComponentOS}, cfg.Components)
	assert.Empty(t, cfg.Backend)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("components: [\n"), 0o600))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("components: [gpu]\n"), 0o600))
	_, err = LoadConfig(invalid)
	assert.ErrorIs(t, err, ErrUnknownComponent)
}

func TestNewFromConfig(t *testing.T) {
	stubProtectedID(t, func(appID string) (string, error) { return "hmac:" + appID, nil })

	cfg := &Config{
		AppID:      "app",
		Format:     FormatString,
		Components: []string{ComponentProtectedMachineID, ComponentArch, ComponentProcessorID},
	}
	b, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{ComponentArch, ComponentProcessorID, ComponentProtectedMachineID}, b.Components())

	// 覆盖处理器组件，避免依赖主机硬件
	b.Add(ComponentProcessorID, fixed("ABC123"))
	b.Add(ComponentArch, fixed("arm64"))

	id, err := b.ID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "arch=arm64;processor_id=ABC123;protected_machine_id=hmac:app", id)
}

func TestNewFromConfigUnsupportedBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = string(processor.BackendSysctl)
	if processor.DefaultBackend() == processor.BackendSysctl {
		cfg.Backend = string(processor.BackendWMI)
	}
	_, err := NewFromConfig(cfg)
	assert.ErrorIs(t, err, processor.ErrUnsupported)
}
