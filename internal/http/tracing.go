package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// Tracing opens one Datadog span per request and puts it in the request context,
// so store spans and log lines below it share the trace id.
func Tracing(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := tracer.StartSpanFromContext(c.Request.Context(), "http.request",
			tracer.ServiceName(service),
			tracer.SpanType(ext.SpanTypeWeb),
			tracer.Tag(ext.HTTPMethod, c.Request.Method),
			tracer.Tag(ext.HTTPURL, c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		span.SetTag(ext.ResourceName, c.Request.Method+" "+routeOf(c))
		status := c.Writer.Status()
		span.SetTag(ext.HTTPCode, strconv.Itoa(status))
		var err error
		if status >= 500 && len(c.Errors) > 0 {
			err = c.Errors.Last().Err
		}
		span.Finish(tracer.WithError(err))
	}
}
