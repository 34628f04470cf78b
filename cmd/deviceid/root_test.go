package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkit/deviceid/processor"
)

const (
	fixedBackend processor.Backend = "cli-fixed"
	emptyBackend processor.Backend = "cli-empty"
)

func init() {
	processor.RegisterBackend(fixedBackend, func() processor.Source {
		return processor.SourceFunc(func(context.Context) ([]processor.Record, error) {
			return []processor.Record{{ProcessorID: "B"}, {ProcessorID: "A"}}, nil
		})
	})
	processor.RegisterBackend(emptyBackend, func() processor.Source {
		return processor.SourceFunc(func(context.Context) ([]processor.Record, error) {
			return nil, nil
		})
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deviceid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootPrintsStringID(t *testing.T) {
	out, err := execute(t, "--component", "os", "--component", "arch", "--format", "string")
	require.NoError(t, err)
	assert.Regexp(t, `^arch=[^;]+;os=[^;]+\n$`, out)
}

func TestRootJSON(t *testing.T) {
	out, err := execute(t, "--component", "os", "--json")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "hash", got["format"])
	assert.Len(t, got["id"], 64)
}

func TestRootInvalidFlags(t *testing.T) {
	_, err := execute(t, "--component", "gpu")
	assert.Error(t, err)

	_, err = execute(t, "--format", "base64")
	assert.Error(t, err)
}

func TestRootConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deviceid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: string\ncomponents: [os]\n"), 0o600))

	out, err := execute(t, "--config", path)
	require.NoError(t, err)
	assert.Regexp(t, `^os=\S+\n$`, out)
}

func TestComponentsCommand(t *testing.T) {
	out, err := execute(t, "components", "--component", "os", "--json")
	require.NoError(t, err)

	var got []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "os", got[0]["name"])
}

func TestBackendsCommand(t *testing.T) {
	_, err := execute(t, "backends")
	require.NoError(t, err)
}

func TestProcessorCommand(t *testing.T) {
	color.NoColor = true

	out, err := execute(t, "processor", "--backend", string(fixedBackend))
	require.NoError(t, err)
	assert.Contains(t, out, "backend:     cli-fixed")
	assert.Contains(t, out, "fingerprint: A,B")

	out, err = execute(t, "processor", "--backend", string(emptyBackend))
	require.NoError(t, err)
	assert.Contains(t, out, "fingerprint: <none>")
}

func TestProcessorCommandUsesConfig(t *testing.T) {
	color.NoColor = true

	out, err := execute(t, "processor", "--config", writeConfig(t, "backend: cli-empty\ncomponents: [os]\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "backend:     cli-empty")
	assert.Contains(t, out, "fingerprint: <none>")

	// 命令行参数优先于配置文件
	out, err = execute(t, "processor", "--config", writeConfig(t, "backend: cli-empty\ncomponents: [os]\n"), "--backend", string(fixedBackend))
	require.NoError(t, err)
	assert.Contains(t, out, "fingerprint: A,B")

	_, err = execute(t, "processor", "--config", writeConfig(t, "backend: definitely-bogus\n"))
	assert.ErrorIs(t, err, processor.ErrUnknownBackend)
}

func TestProcessorCommandJSON(t *testing.T) {
	out, err := execute(t, "processor", "--backend", string(fixedBackend), "--json")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "A,B", got["fingerprint"])
	assert.Equal(t, "cli-fixed", got["backend"])
}
