package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	corsMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsHeaders = "Origin, X-Requested-With, Content-Type, Accept, Authorization"
)

// originPolicy decide quais origens recebem cabeçalhos CORS.
// Entradas aceitas: "*", origem exata ou "*.dominio" (somente subdomínios).
type originPolicy struct {
	any      bool
	exact    map[string]struct{}
	suffixes []string
}

func newOriginPolicy(entries []string) originPolicy {
	p := originPolicy{exact: make(map[string]struct{}, len(entries))}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "":
		case entry == "*":
			p.any = true
		case strings.HasPrefix(entry, "*."):
			p.suffixes = append(p.suffixes, strings.ToLower(entry[1:]))
		default:
			p.exact[entry] = struct{}{}
		}
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.any {
		return true
	}
	if _, ok := p.exact[origin]; ok {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(host, suffix) && host != suffix[1:] {
			return true
		}
	}
	return false
}

// CORS aplica a política de ALLOW_ORIGINS. OPTIONS responde 200 sem chegar ao handler.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := newOriginPolicy(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()
			switch {
			case policy.allows(origin):
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				allowRequested(h, r)
			case policy.any:
				h.Set("Access-Control-Allow-Origin", "*")
				allowRequested(h, r)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allowRequested ecoa os cabeçalhos pedidos no preflight.
func allowRequested(h http.Header, r *http.Request) {
	headers := corsHeaders
	if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		headers = requested
	}
	h.Set("Access-Control-Allow-Headers", headers)
	h.Set("Access-Control-Allow-Methods", corsMethods)
}
