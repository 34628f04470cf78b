package processor

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Component 处理器标识组件。
// 每次调用 Value 只查询一次，查询失败视为没有记录，错误不会传递给调用方。
type Component struct {
	backend Backend
	source  Source
	logger  logrus.FieldLogger
}

// Option 配置 Component
type Option func(*Component)

// WithBackend 指定查询方式，默认按平台选择
func WithBackend(b Backend) Option {
	return func(c *Component) { c.backend = b }
}

// WithSource 直接指定查询实现，优先于 WithBackend
func WithSource(s Source) Option {
	return func(c *Component) { c.source = s }
}

// WithLogger 指定日志输出，默认丢弃
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Component) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewComponent 创建处理器标识组件。只有查询方式名称无效或当前平台不可用时返回错误。
func NewComponent(opts ...Option) (*Component, error) {
	c := &Component{logger: discardLogger()}
	for _, opt := range opts {
		opt(c)
	}
	if c.source != nil {
		return c, nil
	}

	src, err := NewSource(c.backend)
	if err != nil {
		return nil, err
	}
	if c.backend == BackendAuto {
		c.backend = defaultBackend
	}
	c.source = src
	return c, nil
}

// Backend 返回组件使用的查询方式
func (c *Component) Backend() Backend {
	return c.backend
}

// Value 返回处理器指纹；没有可用记录或查询失败时返回 ("", false)。
func (c *Component) Value(ctx context.Context) (value string, ok bool) {
	records, err := c.fetch(ctx)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"backend": string(c.backend),
			"error":   err.Error(),
		}).Debug("processor query unavailable")
		return "", false
	}
	return Normalize(records)
}

// fetch 调用一次 Source，并把实现中的 panic 转为错误
func (c *Component) fetch(ctx context.Context) (records []Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("processor: source panic: %v", r)
		}
	}()
	return c.source.Records(ctx)
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
