//go:build windows
// +build windows

package processor

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const centralProcessorKey = `HARDWARE\DESCRIPTION\System\CentralProcessor`

// registrySource 在 WMI 被策略禁用时从注册表读取处理器信息。
// 注册表按逻辑处理器列出子键且不提供 ProcessorId，因此相同型号合并为一条记录，
// NumberOfCores 为该型号的逻辑处理器数量。
type registrySource struct{}

func (registrySource) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k, err := registry.OpenKey(registry.LOCAL_MACHINE, centralProcessorKey, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, fmt.Errorf("processor: open %s: %w", centralProcessorKey, err)
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("processor: enumerate %s: %w", centralProcessorKey, err)
	}

	type model struct {
		vendor, name string
	}
	counts := map[model]int{}
	for _, sub := range names {
		path := centralProcessorKey + `\` + sub
		m := model{
			vendor: readRegistryString(registry.LOCAL_MACHINE, path, "VendorIdentifier"),
			name:   readRegistryString(registry.LOCAL_MACHINE, path, "ProcessorNameString"),
		}
		counts[m]++
	}

	records := make([]Record, 0, len(counts))
	for m, n := range counts {
		records = append(records, Record{
			Manufacturer:  m.vendor,
			Name:          m.name,
			NumberOfCores: strconv.Itoa(n),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Manufacturer+records[i].Name < records[j].Manufacturer+records[j].Name
	})
	return records, nil
}

// readRegistryString 读取注册表字符串值，失败返回空串。
func readRegistryString(root registry.Key, path, name string) string {
	k, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()

	value, _, err := k.GetStringValue(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
