package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Recover garante resposta sanitizada em caso de panic.
// Com exposeDetails o corpo inclui o valor do panic e o stack trace.
func Recover(exposeDetails bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					stack := debug.Stack()
					log.Error().
						Interface("panic", rec).
						Str("request_id", middleware.GetReqID(r.Context())).
						Bytes("stack", stack).
						Msg("panic recuperado")

					var details any
					if exposeDetails {
						details = map[string]string{
							"panic": fmt.Sprint(rec),
							"stack": string(stack),
						}
					}
					writeRecoverError(w, details)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeRecoverError(w http.ResponseWriter, details any) {
	body := map[string]any{
		"code":    "INTERNAL",
		"message": "erro interno",
	}
	if details != nil {
		body["details"] = details
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":  nil,
		"error": body,
	})
}
