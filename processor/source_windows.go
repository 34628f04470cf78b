//go:build windows
// +build windows

package processor

// processorQuery 所有 WMI 实现共用的查询语句
const processorQuery = "SELECT ProcessorId, Manufacturer, Name, NumberOfCores FROM Win32_Processor"

const cimv2Namespace = `root\cimv2`

const defaultBackend = BackendWMI

var platformBackends = map[Backend]SourceFactory{
	BackendWMI:           func() Source { return wmiSource{} },
	BackendStackExchange: func() Source { return stackExchangeSource{} },
	BackendMI:            func() Source { return miSource{} },
	BackendWMIC:          func() Source { return NewWMICSource() },
	BackendRegistry:      func() Source { return registrySource{} },
}
