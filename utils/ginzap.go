package utils

import (
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// NewRollingFileLogger builds a zap logger that writes JSON lines to a
// rolling file. Used for the HTTP access log, separate from the app log.
func NewRollingFileLogger(path, level string, maxSizeMB, maxBackups, maxAgeDays int, compress bool) (*zap.Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	ws := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    nz(maxSizeMB, 100),
		MaxBackups: nz(maxBackups, 3),
		MaxAge:     nz(maxAgeDays, 7),
		Compress:   compress,
	})
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, parseLevel(level))
	return zap.New(core), nil
}

// Ginzap returns a gin middleware that logs each request through zap.
func Ginzap(logger *zap.Logger, timeFormat string, utc bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)
		if utc {
			end = end.UTC()
		}

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("time", end.Format(timeFormat)),
			zap.Duration("latency", latency),
		}
		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				logger.Error(e, fields...)
			}
			return
		}
		logger.Info(path, fields...)
	}
}

// RecoveryWithZap returns a gin middleware that recovers from panics, logs
// them through zap, and responds 500. Broken-pipe panics are logged and the
// request aborted without writing a status.
func RecoveryWithZap(logger *zap.Logger, stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				if isBrokenPipe(err) {
					logger.Error("broken pipe",
						zap.Any("error", err),
						zap.String("path", c.Request.URL.Path),
					)
					c.Abort()
					return
				}

				fields := []zap.Field{
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				}
				if stack {
					fields = append(fields, zap.String("stack", string(debug.Stack())))
				}
				logger.Error("panic recovered", fields...)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

func isBrokenPipe(err interface{}) bool {
	ne, ok := err.(*net.OpError)
	if !ok {
		return false
	}
	msg := strings.ToLower(ne.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
