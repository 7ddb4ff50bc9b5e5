package logger

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger. Development gets a human readable console writer.
func Setup(development bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if development {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// TaskLogger adapts zerolog to the asynq.Logger interface
type TaskLogger struct{}

func NewTaskLogger() *TaskLogger {
	return &TaskLogger{}
}

func (logger *TaskLogger) Print(level zerolog.Level, args ...interface{}) {
	log.WithLevel(level).Msg(fmt.Sprint(args...))
}

func (logger *TaskLogger) Debug(args ...interface{}) {
	logger.Print(zerolog.DebugLevel, args...)
}

func (logger *TaskLogger) Info(args ...interface{}) {
	logger.Print(zerolog.InfoLevel, args...)
}

func (logger *TaskLogger) Warn(args ...interface{}) {
	logger.Print(zerolog.WarnLevel, args...)
}

func (logger *TaskLogger) Error(args ...interface{}) {
	logger.Print(zerolog.ErrorLevel, args...)
}

func (logger *TaskLogger) Fatal(args ...interface{}) {
	logger.Print(zerolog.FatalLevel, args...)
}

// HttpLogger logs every request handled by the router
func HttpLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		startTime := time.Now()
		ctx.Next()
		duration := time.Since(startTime)

		statusCode := ctx.Writer.Status()
		logger := log.Info()
		if statusCode >= 500 {
			logger = log.Error()
		}

		logger.Str("protocol", "http").
			Str("method", ctx.Request.Method).
			Str("path", ctx.FullPath()).
			Int("status_code", statusCode).
			Str("status_text", http.StatusText(statusCode)).
			Dur("duration", duration).
			Msg("received a HTTP request")
	}
}
