//go:build windows
// +build windows

package processor

import (
	"context"
	"fmt"

	"github.com/microsoft/wmi/pkg/base/host"
	"github.com/microsoft/wmi/pkg/base/instance"
	"github.com/microsoft/wmi/pkg/base/query"
	"github.com/microsoft/wmi/pkg/constant"
)

// miSource 通过 github.com/microsoft/wmi 在本机 CIM 会话上枚举 Win32_Processor。
type miSource struct{}

func (miSource) Records(ctx context.Context) (records []Record, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	instances, err := instance.GetWmiInstancesFromHost(host.NewWmiLocalHost(), string(constant.CimV2), query.NewWmiQuery("Win32_Processor"))
	if err != nil {
		return nil, fmt.Errorf("processor: mi query: %w", err)
	}
	// 集合关闭时逐个释放实例
	defer instances.Close()

	records = make([]Record, 0, len(instances))
	for _, inst := range instances {
		records = append(records, Record{
			ProcessorID:   anyProperty(inst.GetProperty("ProcessorId")),
			Manufacturer:  anyProperty(inst.GetProperty("Manufacturer")),
			Name:          anyProperty(inst.GetProperty("Name")),
			NumberOfCores: anyProperty(inst.GetProperty("NumberOfCores")),
		})
	}
	return records, nil
}
