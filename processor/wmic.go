package processor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// wmicColumns wmic 按字母序输出列，这里保持同样顺序
var wmicColumns = []string{"Manufacturer", "Name", "NumberOfCores", "ProcessorId"}

// WMICSource 通过 wmic 命令行查询处理器信息。
// 部分新版 Windows 已移除 wmic，此时查询失败并由调用方降级。
type WMICSource struct {
	run func(ctx context.Context, args ...string) (string, error)
}

// NewWMICSource 创建使用系统 wmic 的 Source
func NewWMICSource() *WMICSource {
	return &WMICSource{run: runWMIC}
}

// Records 实现 Source
func (s *WMICSource) Records(ctx context.Context) ([]Record, error) {
	out, err := s.run(ctx, "cpu", "get", strings.Join(wmicColumns, ","))
	if err != nil {
		return nil, fmt.Errorf("processor: wmic: %w", err)
	}

	rows := parseWMICTable(decodeWMICOutput(out))
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			ProcessorID:   row["ProcessorId"],
			Manufacturer:  row["Manufacturer"],
			Name:          row["Name"],
			NumberOfCores: row["NumberOfCores"],
		})
	}
	return records, nil
}

// runWMIC 执行 wmic 并返回 stdout 文本。
func runWMIC(ctx context.Context, args ...string) (string, error) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, "wmic", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// 不把 stderr 暴露给上层，只返回错误以触发降级
		return "", err
	}
	return stdout.String(), nil
}

// decodeWMICOutput 输出被重定向时 wmic 可能写出 UTF-16LE，
// 列名与取值均为 ASCII 时去掉 BOM 和 NUL 即可还原。
func decodeWMICOutput(out string) string {
	out = strings.TrimPrefix(out, "\xff\xfe")
	return strings.ReplaceAll(out, "\x00", "")
}

// parseWMICTable 解析 wmic 表格输出。
// wmic 以表头为准按固定宽度对齐各列，空值只留下空白，
// 因此按表头中每列的起始位置切分，而不是按空白分词。
func parseWMICTable(output string) []map[string]string {
	lines := splitNonEmptyLines(output)
	if len(lines) < 2 {
		return nil
	}

	header := []rune(lines[0])
	type column struct {
		name  string
		start int
	}
	var cols []column
	for i := 0; i < len(header); i++ {
		if header[i] == ' ' || header[i] == '\t' {
			continue
		}
		if i == 0 || header[i-1] == ' ' || header[i-1] == '\t' {
			end := i
			for end < len(header) && header[end] != ' ' && header[end] != '\t' {
				end++
			}
			cols = append(cols, column{name: string(header[i:end]), start: i})
			i = end
		}
	}
	if len(cols) == 0 {
		return nil
	}

	var rows []map[string]string
	for _, line := range lines[1:] {
		r := []rune(line)
		row := make(map[string]string, len(cols))
		for i, col := range cols {
			end := len(r)
			if i+1 < len(cols) && cols[i+1].start < end {
				end = cols[i+1].start
			}
			if col.start >= end {
				row[col.name] = ""
				continue
			}
			row[col.name] = cleanWMIValue(string(r[col.start:end]))
		}
		rows = append(rows, row)
	}
	return rows
}

func splitNonEmptyLines(s string) []string {
	raw := strings.Split(s, "\n")
	var out []string
	for _, line := range raw {
		// 只去掉右侧空白，左侧的空白决定列位置
		line = strings.TrimRight(line, " \t\r\u0000")
		if strings.TrimSpace(line) == "" {
			continue
		}
		// 过滤掉 wmic 可能输出的 “No Instance(s) Available.”
		if strings.Contains(strings.ToLower(line), "no instance") {
			continue
		}
		out = append(out, line)
	}
	return out
}
