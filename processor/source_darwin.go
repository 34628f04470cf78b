//go:build darwin
// +build darwin

package processor

const defaultBackend = BackendSysctl

var platformBackends = map[Backend]SourceFactory{
	BackendSysctl: func() Source { return sysctlSource{} },
}
