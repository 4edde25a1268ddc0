package middleware

import (
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Oikion/mvp-sub017/pkg/context"
	"github.com/Oikion/mvp-sub017/pkg/metrics"
)

// Logger logs every request once it has been handled and records its HTTP metrics.
// Errors are handed to the echo error handler first so the logged status is the final one.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}

			stop := time.Now()
			duration := stop.Sub(start)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordHTTPRequest(req.Method, route, strconv.Itoa(res.Status), duration.Seconds())

			ctx := req.Context()
			log := logger.WithContext(ctx).WithFields(map[string]any{
				"request_id":    context.GetRequestID(ctx),
				"tenant_id":     context.GetTenantID(ctx),
				"method":        req.Method,
				"uri":           req.RequestURI,
				"status":        res.Status,
				"route":         route,
				"remote_ip":     c.RealIP(),
				"user_agent":    req.UserAgent(),
				"response_time": duration,
				"request_size":  req.Header.Get(echo.HeaderContentLength),
				"response_size": strconv.FormatInt(res.Size, 10),
			})
			if res.Status >= 500 {
				log.Warn("Request")
				return nil
			}
			log.Info("Request")

			return nil
		}
	}
}
