package youdao

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/net/publicsuffix"
)

// session is the cookie-carrying HTTP client shared by bootstrap and all
// translate calls of one provider state
type session struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

// headerTransport adds the browser fingerprint to requests that do not set
// the headers themselves
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for key, values := range t.headers {
		if r.Header.Get(key) == "" {
			r.Header[key] = values
		}
	}
	return t.base.RoundTrip(r)
}

func newSession(cfg Config) (*session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	headers := http.Header{}
	headers.Set("User-Agent", UserAgent)
	headers.Set("Origin", Origin)
	headers.Set("Referer", Referer)

	s := &session{
		client: &http.Client{
			Jar:       jar,
			Transport: &headerTransport{base: base, headers: headers},
		},
		logger: cfg.Logger,
	}

	if cfg.BreakerFailures > 0 {
		limit := cfg.BreakerFailures
		s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "youdao",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= limit
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				s.logger.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state changed")
			},
		})
	}

	return s, nil
}

// get fetches rawURL with optional query parameters and returns the body
func (s *session) get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	target := rawURL
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		target = rawURL + sep + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return s.do(req)
}

// postForm sends form url-encoded with explicit Accept and Content-Type
// headers. A non-empty host replaces the Host header.
func (s *session) postForm(ctx context.Context, rawURL, host string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if host != "" {
		req.Host = host
	}

	return s.do(req)
}

func (s *session) do(req *http.Request) ([]byte, error) {
	if s.breaker == nil {
		return s.roundTrip(req)
	}

	body, err := s.breaker.Execute(func() (interface{}, error) {
		return s.roundTrip(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %w", ErrTransport, req.URL.Host, err)
		}
		return nil, err
	}
	return body.([]byte), nil
}

func (s *session) roundTrip(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: redact(req.URL), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}
	return body, nil
}

// redact drops the query string, which carries signatures
func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}
