//go:build windows
// +build windows

package processor

import (
	"context"
	"fmt"

	stackwmi "github.com/StackExchange/wmi"
)

// stackExchangeSource 通过 github.com/StackExchange/wmi 查询，
// 供仍依赖旧版 wmi 包的宿主程序使用。
type stackExchangeSource struct{}

func (stackExchangeSource) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var dst []win32Processor
	if err := stackwmi.QueryNamespace(processorQuery, &dst, cimv2Namespace); err != nil {
		return nil, fmt.Errorf("processor: stackexchange wmi query: %w", err)
	}
	return toRecords(dst), nil
}
