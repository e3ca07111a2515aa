package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"go-tasks-api/backend/internal/handlers"
	"go-tasks-api/backend/internal/repositories"
)

// RequestIDHeader はリクエストIDを受け渡すヘッダーです。
const RequestIDHeader = "X-Request-Id"

// RequestIDKey はコンテキストにリクエストIDを保存するキーです。
const RequestIDKey = "request_id"

const maxRequestIDLength = 255

// RequestID はすべてのリクエストに相関IDを付与するミドルウェアです。
// クライアントが送ったIDがあればそれを使い、無ければUUIDを生成します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

const faviconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><text y=".9em" x="50%" font-size="90" text-anchor="middle">📝</text></svg>`

// Favicon は /favicon.ico に絵文字のSVGを返します。
func Favicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path != "/favicon.ico" {
			c.Next()
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(faviconSVG))
		c.Abort()
	}
}

// Logger はリクエストごとに1行の構造化ログを出力するミドルウェアです。
func Logger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(log.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request completed")
		case status >= http.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// DB はストアをリクエストコンテキストに設定するミドルウェアです。
func DB(store repositories.TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(handlers.StoreKey, store)
		c.Next()
	}
}

// ErrorHandler はハンドラーが c.Error で記録したエラーを 500 レスポンスに変換します。
// exposeErrors が false の場合はエラー内容を隠します。
func ErrorHandler(exposeErrors bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, c.Errors.Last().Err, exposeErrors)
	}
}

// Recovery は panic を 500 レスポンスに変換します。
func Recovery(logger *log.Logger, exposeErrors bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.WithFields(log.Fields{
			"request_id": c.GetString(RequestIDKey),
			"panic":      recovered,
		}).Error("panic recovered")
		err, ok := recovered.(error)
		if !ok {
			err = &panicError{value: recovered}
		}
		writeError(c, err, exposeErrors)
	})
}

type panicError struct{ value any }

func (p *panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }

func writeError(c *gin.Context, err error, exposeErrors bool) {
	message := http.StatusText(http.StatusInternalServerError)
	if exposeErrors && err != nil {
		message = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": message})
}

// NotFound は一致するルートが無い場合のハンドラーです。
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": http.StatusText(http.StatusNotFound) + " - " + c.Request.URL.Path})
}
