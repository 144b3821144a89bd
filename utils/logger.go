package utils

import (
	"os"
	"path/filepath"
	"time"

	"github.com/avezhov/pulse/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the application-wide structured logger.
	Logger *zap.Logger
	// Sugar is the sugared form of Logger.
	Sugar *zap.SugaredLogger
)

// InitLogger wires the global zap logger: JSON to stdout, plus a rolling
// file sink when LogPath is set. The access log uses its own logger, see
// NewRollingFileLogger.
func InitLogger(cfg config.AppConfig) error {
	level := parseLevel(cfg.LogLevel)
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(os.Stdout), level),
	}

	if cfg.LogPath != "" {
		if dir := filepath.Dir(cfg.LogPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		ws := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    nz(cfg.LogMaxSizeMB, 100),
			MaxBackups: nz(cfg.LogMaxBackups, 3),
			MaxAge:     nz(cfg.LogMaxAgeDays, 7),
			Compress:   cfg.LogCompress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, level))
	}

	opts := []zap.Option{zap.AddCaller()}
	if level == zapcore.DebugLevel {
		opts = append(opts, zap.Development())
	}
	Logger = zap.New(zapcore.NewTee(cores...), opts...)
	Sugar = Logger.Sugar()
	return nil
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func nz(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
