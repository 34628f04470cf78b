package processor

import (
	"fmt"
	"strconv"
	"strings"
)

// cleanWMIValue 去除文本输出（wmic 表格、sysctl）中单元格两侧的空白与 NUL。
// 这些填充来自输出排版而非属性值本身；WMI 对象属性不经过这里。
func cleanWMIValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\u0000")
	return strings.TrimSpace(s)
}

func stringProperty(p *string) string {
	if p == nil {
		return ""
	}
	// 原样返回：ProcessorId 等属性值参与指纹，不能改写
	return *p
}

func uint32Property(p *uint32) string {
	if p == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*p), 10)
}

// anyProperty 转换动态类型的属性值，读取失败或 NULL 视为缺失，字符串原样返回。
func anyProperty(v interface{}, err error) string {
	if err != nil || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case *string:
		return stringProperty(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// looksLikePlaceholderSerial 识别固件填充的占位序列号
func looksLikePlaceholderSerial(s string) bool {
	if s == "" {
		return true
	}
	l := strings.ToLower(strings.TrimSpace(s))
	switch l {
	case "none", "to be filled by o.e.m.", "to be filled by oem", "default string",
		"unknown", "not specified", "na", "n/a":
		return true
	}
	if strings.Trim(l, "0") == "" || strings.Trim(l, "f") == "" {
		return true
	}
	return false
}
