package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type logFields struct {
	userID int64
}

const contextKeyLogFields contextKey = "log_fields"

// Logging escreve logs estruturados por requisição.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		fields := &logFields{}

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), contextKeyLogFields, fields)))

		dur := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event = event.Str("method", r.Method).Str("path", r.URL.Path).
			Int("status", status).Dur("duration", dur)

		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			event = event.Str("request_id", reqID)
		}

		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			event = event.Str("ip", ip)
		} else {
			event = event.Str("ip", r.RemoteAddr)
		}

		if ua := r.Header.Get("User-Agent"); ua != "" {
			event = event.Str("user_agent", ua)
		}

		if fields.userID != 0 {
			event = event.Int64("user_id", fields.userID)
		}

		event.Msg("http_request")
	})
}

func annotateUser(ctx context.Context, userID int64) {
	if fields, ok := ctx.Value(contextKeyLogFields).(*logFields); ok {
		fields.userID = userID
	}
}
