//go:build linux
// +build linux

package processor

const defaultBackend = BackendCPUInfo

var platformBackends = map[Backend]SourceFactory{
	BackendCPUInfo: func() Source { return NewCPUInfoSource(procCPUInfoPath) },
}
