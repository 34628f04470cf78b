package processor

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

const procCPUInfoPath = "/proc/cpuinfo"

// CPUInfoSource 解析 Linux /proc/cpuinfo。
// 每个 physical id 对应一条记录；x86 上内核不暴露 ProcessorId，
// 只有部分 ARM 板卡提供 Serial，可用时作为 ProcessorID。
type CPUInfoSource struct {
	path string
}

// NewCPUInfoSource 创建读取指定 cpuinfo 文件的 Source
func NewCPUInfoSource(path string) *CPUInfoSource {
	return &CPUInfoSource{path: path}
}

// Records 实现 Source
func (s *CPUInfoSource) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("processor: read %s: %w", s.path, err)
	}
	return parseCPUInfo(string(data)), nil
}

type cpuPackage struct {
	vendor  string
	model   string
	cores   string
	logical int
}

// parseCPUInfo 将 cpuinfo 文本按空行分块，processor 块按 physical id 归并。
func parseCPUInfo(content string) []Record {
	packages := map[string]*cpuPackage{}
	global := map[string]string{}

	for _, block := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
		fields := parseCPUInfoBlock(block)
		if len(fields) == 0 {
			continue
		}
		if _, ok := fields["processor"]; !ok {
			// 树莓派等平台在末尾追加 Hardware/Serial/Model 块
			for k, v := range fields {
				global[k] = v
			}
			continue
		}

		id := fields["physical id"]
		if id == "" {
			id = "0"
		}
		pkg, ok := packages[id]
		if !ok {
			pkg = &cpuPackage{}
			packages[id] = pkg
		}
		pkg.logical++
		if pkg.vendor == "" {
			pkg.vendor = firstNonEmpty(fields["vendor_id"], fields["CPU implementer"])
		}
		if pkg.model == "" {
			pkg.model = firstNonEmpty(fields["model name"], fields["cpu model"])
		}
		if pkg.cores == "" {
			pkg.cores = fields["cpu cores"]
		}
	}
	if len(packages) == 0 {
		return nil
	}

	ids := make([]string, 0, len(packages))
	for id := range packages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	serial := global["Serial"]
	if looksLikePlaceholderSerial(serial) {
		serial = ""
	}

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		pkg := packages[id]
		r := Record{
			Manufacturer:  pkg.vendor,
			Name:          firstNonEmpty(pkg.model, global["Model"], global["Hardware"]),
			NumberOfCores: pkg.cores,
		}
		if r.NumberOfCores == "" {
			r.NumberOfCores = strconv.Itoa(pkg.logical)
		}
		// 板卡序列号只能归属唯一的处理器
		if len(ids) == 1 {
			r.ProcessorID = serial
		}
		records = append(records, r)
	}
	return records
}

func parseCPUInfoBlock(block string) map[string]string {
	fields := map[string]string{}
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
