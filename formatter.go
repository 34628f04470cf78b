package deviceid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// 输出格式名称
const (
	FormatString = "string"
	FormatHash   = "hash"
	FormatUUID   = "uuid"
)

// DefaultNamespace UUIDFormatter 默认使用的命名空间
var DefaultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/darkit/deviceid"))

// ComponentValue 单个组件的名称与取值
type ComponentValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Formatter 把按名称排序的组件取值格式化为最终设备标识
type Formatter interface {
	Format(values []ComponentValue) string
}

// StringFormatter 输出可读的 name=value;name=value 形式，主要用于调试。
// 名称与取值中的 \ ; = 以反斜杠转义，保证不同组件组合不会得到相同字符串。
type StringFormatter struct{}

var componentEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `=`, `\=`)

// Format 实现 Formatter
func (StringFormatter) Format(values []ComponentValue) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, componentEscaper.Replace(v.Name)+"="+componentEscaper.Replace(v.Value))
	}
	return strings.Join(parts, ";")
}

// HashFormatter 输出字符串形式的 SHA-256 十六进制摘要
type HashFormatter struct{}

// Format 实现 Formatter
func (HashFormatter) Format(values []ComponentValue) string {
	sum := sha256.Sum256([]byte(StringFormatter{}.Format(values)))
	return hex.EncodeToString(sum[:])
}

// UUIDFormatter 输出基于 SHA-1 的 v5 UUID
type UUIDFormatter struct {
	Namespace uuid.UUID
}

// Format 实现 Formatter
func (f UUIDFormatter) Format(values []ComponentValue) string {
	ns := f.Namespace
	if ns == uuid.Nil {
		ns = DefaultNamespace
	}
	return uuid.NewSHA1(ns, []byte(StringFormatter{}.Format(values))).String()
}

// NewFormatter 按名称创建 Formatter，namespace 仅对 uuid 格式生效，为空时使用 DefaultNamespace。
func NewFormatter(name, namespace string) (Formatter, error) {
	switch name {
	case FormatString:
		return StringFormatter{}, nil
	case FormatHash, "":
		return HashFormatter{}, nil
	case FormatUUID:
		f := UUIDFormatter{Namespace: DefaultNamespace}
		if namespace != "" {
			ns, err := uuid.Parse(namespace)
			if err != nil {
				return nil, fmt.Errorf("deviceid: invalid uuid namespace %q: %w", namespace, err)
			}
			f.Namespace = ns
		}
		return f, nil
	default:
		return nil, fmt.Errorf("deviceid: unknown format %q", name)
	}
}
