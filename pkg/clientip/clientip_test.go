package clientip_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bluebird/pkg/clientip"
	"github.com/dmitrymomot/bluebird/pkg/logger"
)

func request(remote string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = remote
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := clientip.New("10.0.0.0/8", "192.168.1.5", " ", "::1")
	require.NoError(t, err)

	_, err = clientip.New("not-an-ip")
	assert.Error(t, err)
}

func TestResolver_IP(t *testing.T) {
	t.Parallel()

	resolver, err := clientip.New("10.0.0.0/8")
	require.NoError(t, err)

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"direct peer", "203.0.113.7:5555", nil, "203.0.113.7"},
		{"untrusted peer cannot spoof", "203.0.113.7:5555", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "203.0.113.7"},
		{"trusted proxy forwards", "10.1.2.3:80", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.1.2.3"}, "198.51.100.1"},
		{"cloudflare header wins", "10.1.2.3:80", map[string]string{
			"CF-Connecting-IP": "198.51.100.2",
			"X-Forwarded-For":  "198.51.100.1",
		}, "198.51.100.2"},
		{"garbage header falls through", "10.1.2.3:80", map[string]string{
			"X-Forwarded-For": "garbage",
			"X-Real-IP":       "198.51.100.3",
		}, "198.51.100.3"},
		{"only garbage keeps peer", "10.1.2.3:80", map[string]string{"X-Real-IP": "nope"}, "10.1.2.3"},
		{"ipv6 peer", "[2001:db8::1]:443", nil, "2001:db8::1"},
		{"ipv4 mapped ipv6", "[::ffff:203.0.113.9]:443", nil, "203.0.113.9"},
		{"bare address", "203.0.113.7", nil, "203.0.113.7"},
		{"unparsable peer", "somewhere", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, resolver.IP(request(tt.remote, tt.headers)))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	resolver, err := clientip.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithJSONFormatter(),
		logger.WithContextExtractors(clientip.LoggerExtractor()),
	)

	var seen string
	h := resolver.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = clientip.FromContext(r.Context())
		log.InfoContext(r.Context(), "hit")
	}))
	h.ServeHTTP(httptest.NewRecorder(), request("203.0.113.7:1234", nil))

	assert.Equal(t, "203.0.113.7", seen)
	assert.Contains(t, buf.String(), `"client_ip":"203.0.113.7"`)
	assert.Empty(t, clientip.FromContext(context.Background()))
}
