//go:build !linux && !windows && !darwin
// +build !linux,!windows,!darwin

package processor

const defaultBackend = BackendAuto

var platformBackends = map[Backend]SourceFactory{}
