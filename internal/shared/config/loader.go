package config

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ChangeFunc 配置文件变更回调，拿到的是最新的 viper 实例
type ChangeFunc func(v *viper.Viper)

var (
	listenersMu sync.Mutex
	listeners   []ChangeFunc
)

// OnChange 注册热更新回调。
// 热更新不会改写已经 Unmarshal 出去的结构体，需要热更的字段由回调自己取。
func OnChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	listenersMu.Lock()
	listeners = append(listeners, fn)
	listenersMu.Unlock()
}

func notify(v *viper.Viper) {
	listenersMu.Lock()
	snapshot := make([]ChangeFunc, len(listeners))
	copy(snapshot, listeners)
	listenersMu.Unlock()
	for _, fn := range snapshot {
		fn(v)
	}
}

func load(configPath string, out any) {
	if !fileExist(configPath) {
		panic(fmt.Sprintf("config file not exist, configPath=%v", configPath))
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		notify(v)
	})
	v.WatchConfig()
	// 加载配置
	if err := v.ReadInConfig(); err != nil {
		panic(err)
	}
	if err := v.Unmarshal(out, decodeHook()); err != nil {
		panic(err)
	}
}

// Read 一次性读取文件，不监听变更，返回错误而不是 panic
func Read(path string, out any) error {
	if !fileExist(path) {
		return fmt.Errorf("config file not exist, path=%v", path)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(out, decodeHook())
}

// ReadBytes 从内存读取，typ 为 json/yaml 等 viper 支持的格式
func ReadBytes(raw []byte, typ string, out any) error {
	v := viper.New()
	v.SetConfigType(typ)
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return err
	}
	return v.Unmarshal(out, decodeHook())
}

// 支持 "30s" 这类时长和实现了 TextUnmarshaler 的枚举
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
