package providers

import (
	"net/http"
	"time"
)

const userAgent = "herbal-site/1.0 (+admin image search)"

// userAgentTransport fügt jeder Anfrage einen User-Agent-Header hinzu.
type userAgentTransport struct {
	Transport http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	return t.Transport.RoundTrip(req)
}

// NewHTTPClient liefert den HTTP-Client für externe Provider-Aufrufe.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{Transport: http.DefaultTransport},
	}
}
