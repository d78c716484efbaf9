package clientip

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/dmitrymomot/bluebird/pkg/logger"
)

// forwardedHeaders are consulted in order, and only for trusted peers.
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolver finds the client address of a request. Forwarding headers are
// ignored unless the direct peer is inside one of the trusted prefixes.
type Resolver struct {
	trusted []netip.Prefix
}

// New builds a Resolver. Entries are CIDR prefixes or bare addresses;
// an unparsable entry is returned as an error.
func New(trustedProxies ...string) (*Resolver, error) {
	r := &Resolver{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if p, err := netip.ParsePrefix(raw); err == nil {
			r.trusted = append(r.trusted, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		r.trusted = append(r.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return r, nil
}

// IP returns the client address or "" when none can be parsed.
func (r *Resolver) IP(req *http.Request) string {
	peer := parse(req.RemoteAddr)
	if !peer.IsValid() {
		return ""
	}
	if !r.isTrusted(peer) {
		return peer.String()
	}

	for _, h := range forwardedHeaders {
		v := req.Header.Get(h)
		if v == "" {
			continue
		}
		// first hop of a list
		first, _, _ := strings.Cut(v, ",")
		if addr := parse(first); addr.IsValid() {
			return addr.String()
		}
	}
	return peer.String()
}

func (r *Resolver) isTrusted(addr netip.Addr) bool {
	for _, p := range r.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func parse(s string) netip.Addr {
	s = strings.TrimSpace(s)
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}
	}
	return addr.Unmap().WithZone("")
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the client address stored by Middleware or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware stores the resolved client address in the request context.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		next.ServeHTTP(w, req.WithContext(WithContext(req.Context(), r.IP(req))))
	})
}

// LoggerExtractor adds client_ip to records logged with the request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return slog.String("client_ip", ip), true
		}
		return slog.Attr{}, false
	}
}
