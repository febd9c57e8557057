package logs

import (
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"Sanguo/internal/shared/serverconfig"
	"Sanguo/modules/kit/logx"
)

var (
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init 控制台彩色输出，配置了 FileDir 时另写一份 JSON 到滚动文件
func Init(appName string, cfg serverconfig.LogConfig) error {
	level.SetLevel(parseLevel(cfg.Level))

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), level),
	}
	if cfg.FileDir != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig(zapcore.CapitalLevelEncoder)),
			zapcore.AddSync(rollingFile(cfg)),
			level,
		))
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	_ = logger.Sync()
	logger = zap.New(zapcore.NewTee(cores...), opts...).Named(appName)
	// 没有注入 logger 的基础包（config 热更新等）走 zap.L()
	zap.ReplaceGlobals(logger)
	return nil
}

func encoderConfig(lvl zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    lvl,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// 文件里不写 ANSI 颜色
func consoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(encoderConfig(zapcore.CapitalColorLevelEncoder))
}

func rollingFile(cfg serverconfig.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.FileDir,
		MaxSize:    max(1, cfg.MaxSize),
		MaxBackups: max(0, cfg.MaxBackups),
		MaxAge:     max(0, cfg.MaxAge),
		Compress:   cfg.Compress,
	}
}

// SetLevel 运行时调整日志级别，非法值忽略
func SetLevel(s string) {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return
	}
	level.SetLevel(lvl)
}

func parseLevel(s string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// L 当前全局 zap logger
func L() *zap.Logger {
	return logger
}

// Logx 包装成 logx.Logger，注入到各业务组件
func Logx() logx.Logger {
	return logx.NewZapLogger(logger)
}

func Sync() {
	_ = logger.Sync()
}

func Debug(msg string, fields ...zap.Field) { logger.Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { logger.Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { logger.Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { logger.Error(msg, fields...) }

// Fatal 写日志后 os.Exit(1)
func Fatal(msg string, fields ...zap.Field) { logger.Fatal(msg, fields...) }
