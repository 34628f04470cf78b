// Package processor 读取主机处理器标识并归一化为稳定的指纹字符串。
//
// 每个处理器对应一条 Record。x86/x64 上优先使用 ProcessorId；
// ARM64 等平台通常没有 ProcessorId，此时退化为 Manufacturer|Name|NumberOfCores。
// 多条记录排序后以逗号拼接，保证结果与查询返回顺序无关。
package processor // import "github.com/darkit/deviceid/processor"

import (
	"sort"
	"strings"
)

const (
	// fieldSeparator 单条记录内部回退字段的分隔符
	fieldSeparator = "|"
	// recordSeparator 多条记录之间的分隔符
	recordSeparator = ","
)

// Record 描述一次查询返回的单个处理器。空字符串表示字段缺失。
type Record struct {
	ProcessorID   string `json:"processor_id,omitempty"`
	Manufacturer  string `json:"manufacturer,omitempty"`
	Name          string `json:"name,omitempty"`
	NumberOfCores string `json:"number_of_cores,omitempty"`
}

// RecordValue 计算单条记录的取值。
// ProcessorID 非空时原样返回；否则按 Manufacturer、Name、NumberOfCores 的顺序
// 拼接非空字段。全部为空时返回 false，该记录不参与指纹。
func RecordValue(r Record) (string, bool) {
	if r.ProcessorID != "" {
		return r.ProcessorID, true
	}

	parts := make([]string, 0, 3)
	for _, field := range []string{r.Manufacturer, r.Name, r.NumberOfCores} {
		if field != "" {
			parts = append(parts, field)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, fieldSeparator), true
}

// Values 返回所有有效记录的取值，按字节序升序排列。
func Values(records []Record) []string {
	values := make([]string, 0, len(records))
	for _, r := range records {
		if v, ok := RecordValue(r); ok {
			values = append(values, v)
		}
	}
	// WMI 返回的行顺序不保证稳定
	sort.Strings(values)
	return values
}

// Normalize 将一组处理器记录归一化为指纹。
// 没有任何有效记录时返回 ("", false)，调用方据此区分“未知”与空串。
func Normalize(records []Record) (string, bool) {
	values := Values(records)
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, recordSeparator), true
}
