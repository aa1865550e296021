package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Init 配置全局 zerolog：Unix 时间戳、服务名字段。
// 所有二进制在启动早期调用一次。
func Init(serviceName string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Ctx 返回带追踪上下文的 logger：当前 span 有效时自动附带 trace_id，
// 方便用日志反查 Jaeger 里的调用链。
func Ctx(ctx context.Context) *zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return &log.Logger
	}
	l := log.Logger.With().
		Str("trace_id", span.SpanContext().TraceID().String()).
		Logger()
	return &l
}
