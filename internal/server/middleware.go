package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/knigibg/bookstore/internal/logger"
)

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log := logger.Get()
		rid := ctx.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		ctx.Header("X-Request-ID", rid)

		start := time.Now()
		ctx.Next()

		log.Info().
			Str("rid", rid).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
