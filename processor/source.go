package processor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Backend 标识一种处理器信息查询实现
type Backend string

const (
	// BackendAuto 按当前平台选择默认实现
	BackendAuto          Backend = ""
	BackendWMI           Backend = "wmi"
	BackendStackExchange Backend = "stackexchange"
	BackendMI            Backend = "mi"
	BackendWMIC          Backend = "wmic"
	BackendRegistry      Backend = "registry"
	BackendCPUInfo       Backend = "cpuinfo"
	BackendSysctl        Backend = "sysctl"
)

var (
	// ErrUnsupported 当前平台不支持所请求的查询方式
	ErrUnsupported = errors.New("processor: backend not supported on this platform")
	// ErrUnknownBackend 未注册的查询方式
	ErrUnknownBackend = errors.New("processor: unknown backend")
)

// Source 返回主机上每个处理器的一条记录。
// 实现必须在所有返回路径上释放其打开的查询会话。
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// SourceFunc 将普通函数适配为 Source
type SourceFunc func(ctx context.Context) ([]Record, error)

// Records 实现 Source
func (f SourceFunc) Records(ctx context.Context) ([]Record, error) {
	return f(ctx)
}

// SourceFactory 创建 Source 实例
type SourceFactory func() Source

type registeredBackend struct {
	name    Backend
	factory SourceFactory
}

var (
	backendsMu     sync.RWMutex
	customBackends []registeredBackend
)

// RegisterBackend 注册自定义查询方式，名称需唯一；重复注册会替换已有实现。
// 自定义实现优先于平台内置实现。
func RegisterBackend(name Backend, factory SourceFactory) {
	if name == BackendAuto || factory == nil {
		return
	}
	backendsMu.Lock()
	defer backendsMu.Unlock()
	for i, b := range customBackends {
		if b.name == name {
			customBackends[i].factory = factory
			return
		}
	}
	customBackends = append(customBackends, registeredBackend{name: name, factory: factory})
}

func lookupCustomBackend(name Backend) (SourceFactory, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	for _, b := range customBackends {
		if b.name == name {
			return b.factory, true
		}
	}
	return nil, false
}

// knownBackends 所有平台上可能出现的内置实现
var knownBackends = map[Backend]struct{}{
	BackendWMI:           {},
	BackendStackExchange: {},
	BackendMI:            {},
	BackendWMIC:          {},
	BackendRegistry:      {},
	BackendCPUInfo:       {},
	BackendSysctl:        {},
}

// DefaultBackend 返回当前平台的默认查询方式；不支持的平台返回 BackendAuto。
func DefaultBackend() Backend {
	return defaultBackend
}

// IsKnownBackend 判断名称是否为内置或已注册的查询方式。
// 只做名称校验，不代表该实现在当前平台可用。
func IsKnownBackend(name Backend) bool {
	if name == BackendAuto {
		return true
	}
	if _, ok := knownBackends[name]; ok {
		return true
	}
	_, ok := lookupCustomBackend(name)
	return ok
}

// Backends 返回当前平台可用的查询方式（含自定义注册），按名称排序。
func Backends() []Backend {
	seen := map[Backend]struct{}{}
	for name := range platformBackends {
		seen[name] = struct{}{}
	}
	backendsMu.RLock()
	for _, b := range customBackends {
		seen[b.name] = struct{}{}
	}
	backendsMu.RUnlock()

	out := make([]Backend, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NewSource 按名称创建查询实现。BackendAuto 选择平台默认实现；
// 平台没有默认实现时返回一个始终报告 ErrUnsupported 的 Source。
func NewSource(name Backend) (Source, error) {
	if name == BackendAuto {
		name = defaultBackend
		if name == BackendAuto {
			return unsupportedSource{}, nil
		}
	}
	if factory, ok := lookupCustomBackend(name); ok {
		return factory(), nil
	}
	if factory, ok := platformBackends[name]; ok {
		return factory(), nil
	}
	if _, ok := knownBackends[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, string(name))
}

type unsupportedSource struct{}

func (unsupportedSource) Records(context.Context) ([]Record, error) {
	return nil, ErrUnsupported
}
