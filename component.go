package deviceid

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/sirupsen/logrus"

	"github.com/darkit/deviceid/processor"
)

// 内置组件名称
const (
	ComponentProcessorID        = "processor_id"
	ComponentMachineID          = "machine_id"
	ComponentProtectedMachineID = "protected_machine_id"
	ComponentHostname           = "hostname"
	ComponentOS                 = "os"
	ComponentArch               = "arch"
)

var builtinComponents = []string{
	ComponentArch,
	ComponentHostname,
	ComponentMachineID,
	ComponentOS,
	ComponentProcessorID,
	ComponentProtectedMachineID,
}

var (
	machineIDProvider   = machineid.ID
	protectedIDProvider = machineid.ProtectedID
	hostnameProvider    = os.Hostname
)

// Component 设备标识的一个组成部分。
// 返回 false 表示该组件在当前主机上没有取值，组合标识会跳过它。
type Component interface {
	Value(ctx context.Context) (string, bool)
}

// ComponentFunc 将普通函数适配为 Component
type ComponentFunc func(ctx context.Context) (string, bool)

// Value 实现 Component
func (f ComponentFunc) Value(ctx context.Context) (string, bool) {
	return f(ctx)
}

// valueOrAbsent 把 (value, error) 形式的读取结果转换为组件取值
func valueOrAbsent(logger logrus.FieldLogger, name string, value string, err error) (string, bool) {
	if err != nil {
		logger.WithFields(logrus.Fields{
			"component": name,
			"error":     err.Error(),
		}).Debug("component unavailable")
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// MachineIDComponent 操作系统机器码（Linux machine-id、Windows MachineGuid、macOS IOPlatformUUID）。
func MachineIDComponent(logger logrus.FieldLogger) Component {
	return ComponentFunc(func(context.Context) (string, bool) {
		id, err := machineIDProvider()
		return valueOrAbsent(logger, ComponentMachineID, id, err)
	})
}

// ProtectedMachineIDComponent 以机器码为密钥对 appID 做 HMAC-SHA256，
// 避免在组合标识中泄露原始机器码。
func ProtectedMachineIDComponent(appID string, logger logrus.FieldLogger) Component {
	return ComponentFunc(func(context.Context) (string, bool) {
		id, err := protectedIDProvider(appID)
		return valueOrAbsent(logger, ComponentProtectedMachineID, id, err)
	})
}

// HostnameComponent 主机名
func HostnameComponent(logger logrus.FieldLogger) Component {
	return ComponentFunc(func(context.Context) (string, bool) {
		name, err := hostnameProvider()
		return valueOrAbsent(logger, ComponentHostname, name, err)
	})
}

// OSComponent 操作系统名称
func OSComponent() Component {
	return ComponentFunc(func(context.Context) (string, bool) {
		return runtime.GOOS, true
	})
}

// ArchComponent 处理器架构
func ArchComponent() Component {
	return ComponentFunc(func(context.Context) (string, bool) {
		return runtime.GOARCH, true
	})
}

// newBuiltinComponent 按名称创建内置组件
func newBuiltinComponent(name string, cfg *Config, logger logrus.FieldLogger) (Component, error) {
	switch name {
	case ComponentProcessorID:
		return processor.NewComponent(
			processor.WithBackend(processor.Backend(cfg.Backend)),
			processor.WithLogger(logger),
		)
	case ComponentMachineID:
		return MachineIDComponent(logger), nil
	case ComponentProtectedMachineID:
		return ProtectedMachineIDComponent(cfg.AppID, logger), nil
	case ComponentHostname:
		return HostnameComponent(logger), nil
	case ComponentOS:
		return OSComponent(), nil
	case ComponentArch:
		return ArchComponent(), nil
	default:
		return nil, unknownComponentError(name)
	}
}

func isBuiltinComponent(name string) bool {
	for _, n := range builtinComponents {
		if n == name {
			return true
		}
	}
	return false
}
