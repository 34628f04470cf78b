package deviceid

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/darkit/deviceid/processor"
)

// Config 描述组合标识的组件与输出格式。
//
// 说明：
//   - Components 为参与组合的内置组件名称，顺序不影响结果。
//   - Backend 为处理器组件的查询方式，为空时按平台选择。
//   - Format 为输出格式：string/hash/uuid。
//   - UUIDNamespace 仅在 uuid 格式下生效。
//   - AppID 供 protected_machine_id 组件使用。
type Config struct {
	AppID         string   `yaml:"app_id" json:"app_id,omitempty"`
	Backend       string   `yaml:"backend" json:"backend,omitempty"`
	Format        string   `yaml:"format" json:"format,omitempty"`
	Components    []string `yaml:"components" json:"components"`
	UUIDNamespace string   `yaml:"uuid_namespace" json:"uuid_namespace,omitempty"`
}

// DefaultConfig 返回默认配置：处理器标识 + 机器码，输出 SHA-256。
func DefaultConfig() *Config {
	return &Config{
		Format:     FormatHash,
		Components: []string{ComponentProcessorID, ComponentMachineID},
	}
}

var (
	errConfigNil             = errors.New("deviceid: config is nil")
	errConfigNoComponents    = errors.New("deviceid: config has no components")
	errConfigAppIDRequired   = errors.New("deviceid: app_id is required by protected_machine_id")
	errConfigNamespaceFormat = errors.New("deviceid: uuid_namespace only applies to uuid format")
)

// Validate 校验配置是否自洽。
// 只做静态校验；查询方式在当前平台是否可用由 NewFromConfig 判断。
func (c *Config) Validate() error {
	if c == nil {
		return errConfigNil
	}
	if len(c.Components) == 0 {
		return errConfigNoComponents
	}

	seen := make(map[string]struct{}, len(c.Components))
	for _, name := range c.Components {
		if !isBuiltinComponent(name) {
			return unknownComponentError(name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("deviceid: duplicate component %q", name)
		}
		seen[name] = struct{}{}
	}

	if _, ok := seen[ComponentProtectedMachineID]; ok && c.AppID == "" {
		return errConfigAppIDRequired
	}

	if !processor.IsKnownBackend(processor.Backend(c.Backend)) {
		return fmt.Errorf("%w: %q", processor.ErrUnknownBackend, c.Backend)
	}

	switch c.Format {
	case "", FormatString, FormatHash, FormatUUID:
	default:
		return fmt.Errorf("deviceid: unknown format %q", c.Format)
	}

	if c.UUIDNamespace != "" {
		if c.Format != FormatUUID {
			return errConfigNamespaceFormat
		}
		if _, err := uuid.Parse(c.UUIDNamespace); err != nil {
			return fmt.Errorf("deviceid: invalid uuid_namespace: %w", err)
		}
	}
	return nil
}

// LoadConfig 读取 YAML 配置文件，未出现的字段沿用 DefaultConfig。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("deviceid: read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("deviceid: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFromConfig 按配置创建 Builder。opts 在配置之后应用，可覆盖格式。
func NewFromConfig(cfg *Config, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	formatter, err := NewFormatter(cfg.Format, cfg.UUIDNamespace)
	if err != nil {
		return nil, err
	}

	b := New(append([]Option{WithFormatter(formatter)}, opts...)...)
	for _, name := range cfg.Components {
		c, err := newBuiltinComponent(name, cfg, b.logger)
		if err != nil {
			return nil, err
		}
		b.Add(name, c)
	}
	return b, nil
}
