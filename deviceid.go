// Package deviceid builds a stable composite device identifier from a set of
// host components (processor id, OS machine id, hostname, ...).
//
// https://github.com/darkit/deviceid
//
// Each component is best-effort: a component that cannot be read on the
// current host (missing WMI provider, permission denied, container without
// /proc) is simply left out of the identifier instead of failing the whole
// computation. Components are evaluated in name order so the result does not
// depend on the order they were added.
//
// The processor component lives in the processor sub-package and can query
// Windows Management Instrumentation through several interchangeable
// backends; see processor.Backend.
package deviceid // import "github.com/darkit/deviceid"

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoComponents 所有组件都没有取值
	ErrNoComponents = errors.New("deviceid: no component produced a value")
	// ErrUnknownComponent 配置中出现未知的组件名称
	ErrUnknownComponent = errors.New("deviceid: unknown component")
)

func unknownComponentError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownComponent, name)
}

// Builder 组合多个 Component 生成设备标识。
// Builder 不缓存结果，每次调用 ID 都会重新读取所有组件。
type Builder struct {
	components map[string]Component
	formatter  Formatter
	logger     logrus.FieldLogger
}

// Option 配置 Builder
type Option func(*Builder)

// WithFormatter 指定输出格式，默认 HashFormatter
func WithFormatter(f Formatter) Option {
	return func(b *Builder) {
		if f != nil {
			b.formatter = f
		}
	}
}

// WithLogger 指定日志输出，默认丢弃
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// New 创建空的 Builder
func New(opts ...Option) *Builder {
	b := &Builder{
		components: map[string]Component{},
		formatter:  HashFormatter{},
		logger:     discardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add 添加组件；同名组件会被替换。name 为空或 c 为 nil 时忽略。
func (b *Builder) Add(name string, c Component) *Builder {
	if name == "" || c == nil {
		return b
	}
	b.components[name] = c
	return b
}

// Components 返回已添加的组件名称，按名称排序
func (b *Builder) Components() []string {
	names := make([]string, 0, len(b.components))
	for name := range b.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve 依次读取所有组件，返回有取值的组件（按名称排序）。
func (b *Builder) Resolve(ctx context.Context) []ComponentValue {
	names := b.Components()
	values := make([]ComponentValue, 0, len(names))
	for _, name := range names {
		v, ok := b.components[name].Value(ctx)
		if !ok {
			b.logger.WithField("component", name).Debug("component omitted")
			continue
		}
		values = append(values, ComponentValue{Name: name, Value: v})
	}
	return values
}

// ID 生成设备标识。没有任何组件取值时返回 ErrNoComponents。
func (b *Builder) ID(ctx context.Context) (string, error) {
	values := b.Resolve(ctx)
	if len(values) == 0 {
		return "", ErrNoComponents
	}
	return b.formatter.Format(values), nil
}
