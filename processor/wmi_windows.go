//go:build windows
// +build windows

package processor

import (
	"context"
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

// win32Processor Win32_Processor 中参与指纹的列；指针字段用于区分 NULL。
// 字段名必须与 WMI 属性名一致。
type win32Processor struct {
	ProcessorId   *string
	Manufacturer  *string
	Name          *string
	NumberOfCores *uint32
}

func (p win32Processor) record() Record {
	return Record{
		ProcessorID:   stringProperty(p.ProcessorId),
		Manufacturer:  stringProperty(p.Manufacturer),
		Name:          stringProperty(p.Name),
		NumberOfCores: uint32Property(p.NumberOfCores),
	}
}

func toRecords(rows []win32Processor) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records
}

// wmiSource 通过 github.com/yusufpapurcu/wmi 查询。
// COM 初始化与释放由 wmi 包在每次查询内部完成。
type wmiSource struct{}

func (wmiSource) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var dst []win32Processor
	if err := wmi.QueryNamespace(processorQuery, &dst, cimv2Namespace); err != nil {
		return nil, fmt.Errorf("processor: wmi query: %w", err)
	}
	return toRecords(dst), nil
}
