//go:build darwin
// +build darwin

package processor

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/sys/unix"
)

// sysctlSource 从 sysctl 读取处理器信息。
// macOS 只暴露单个处理器封装；Apple Silicon 上没有 machdep.cpu.vendor。
type sysctlSource struct{}

func (sysctlSource) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var r Record
	var errs []error
	if v, err := unix.Sysctl("machdep.cpu.vendor"); err == nil {
		r.Manufacturer = cleanWMIValue(v)
	}
	if v, err := unix.Sysctl("machdep.cpu.brand_string"); err == nil {
		r.Name = cleanWMIValue(v)
	} else {
		errs = append(errs, err)
	}
	if n, err := unix.SysctlUint32("hw.physicalcpu"); err == nil && n > 0 {
		r.NumberOfCores = strconv.FormatUint(uint64(n), 10)
	} else if err != nil {
		errs = append(errs, err)
	}

	if r == (Record{}) {
		return nil, errors.Join(errs...)
	}
	return []Record{r}, nil
}
