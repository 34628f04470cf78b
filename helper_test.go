package deviceid

import (
	"context"
	"testing"
)

func stubMachineID(t *testing.T, fn func() (string, error)) {
	t.Helper()
	orig := machineIDProvider
	machineIDProvider = fn
	t.Cleanup(func() { machineIDProvider = orig })
}

func stubProtectedID(t *testing.T, fn func(appID string) (string, error)) {
	t.Helper()
	orig := protectedIDProvider
	protectedIDProvider = fn
	t.Cleanup(func() { protectedIDProvider = orig })
}

func stubHostname(t *testing.T, fn func() (string, error)) {
	t.Helper()
	orig := hostnameProvider
	hostnameProvider = fn
	t.Cleanup(func() { hostnameProvider = orig })
}

func fixed(value string) Component {
	return ComponentFunc(func(context.Context) (string, bool) { return value, true })
}

func absent() Component {
	return ComponentFunc(func(context.Context) (string, bool) { return "", false })
}
