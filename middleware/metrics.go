package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequestObserver receives one call per served request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int)
}

// Metrics returns an Echo middleware that reports each request by its
// registered route pattern, so path parameters do not explode label cardinality.
func Metrics(obs RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			obs.ObserveRequest(c.Request().Method, route, status)
			return err
		}
	}
}
