package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type ctxKey string

const clientKeyKey ctxKey = "client_key"

// UnknownClient es la clave compartida cuando no hay X-Forwarded-For.
const UnknownClient = "unknown"

// FallbackMode define qué clave usar cuando falta X-Forwarded-For.
type FallbackMode string

const (
	// FallbackUnknown: todos los callers sin header comparten el bucket "unknown".
	FallbackUnknown FallbackMode = "unknown"
	// FallbackRemoteAddr: se usa el host de la conexión TCP.
	FallbackRemoteAddr FallbackMode = "remote_addr"
)

func ParseFallbackMode(s string) FallbackMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FallbackRemoteAddr):
		return FallbackRemoteAddr
	default:
		return FallbackUnknown
	}
}

// ClientKey resuelve la clave del caller para el rate limit y la deja en el contexto.
// No corta la request; el handler decide.
func ClientKey(mode FallbackMode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientKeyKey, ResolveClientKey(r, mode))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientKey devuelve la clave resuelta por ClientKey, o UnknownClient.
func GetClientKey(ctx context.Context) string {
	if v, ok := ctx.Value(clientKeyKey).(string); ok && v != "" {
		return v
	}
	return UnknownClient
}

// ResolveClientKey: primer valor de X-Forwarded-For, trimmeado.
func ResolveClientKey(r *http.Request, mode FallbackMode) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if mode == FallbackRemoteAddr {
		if host := remoteHost(r.RemoteAddr); host != "" {
			return host
		}
	}
	return UnknownClient
}

func remoteHost(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
