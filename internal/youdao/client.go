package youdao

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/fanyi/internal/codec"
	"codeberg.org/snonux/fanyi/internal/signer"
)

// Request describes one translation
type Request struct {
	Text string
	// From defaults to "auto"
	From string
	// To defaults to "", letting the service pick the target
	To string
	// Domain selects the translation scenario, 0 is general
	Domain int
}

// Client issues translate requests for a bootstrapped State. It is safe
// for concurrent use.
type Client struct {
	state      *State
	session    *session
	signer     signer.Signer
	translate  string
	host       string
	deviceUUID string
	logger     zerolog.Logger
}

// New bootstraps a session and returns a ready client
func New(ctx context.Context, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	state, sess, err := bootstrap(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newClient(cfg, state, sess), nil
}

// newFromState creates a client for an existing State with a fresh session
func newFromState(state *State, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	sess, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	return newClient(cfg, state, sess), nil
}

func newClient(cfg Config, state *State, sess *session) *Client {
	return &Client{
		state:      state,
		session:    sess,
		signer:     cfg.Signer,
		translate:  cfg.Endpoints.Translate,
		host:       cfg.TranslateHost,
		deviceUUID: cfg.DeviceUUID,
		logger:     cfg.Logger.With().Str("provider", "youdao").Logger(),
	}
}

// Domains returns the translation scenarios
func (c *Client) Domains() []string {
	return c.state.Domains()
}

// Languages returns the supported languages
func (c *Client) Languages() []Language {
	return c.state.Languages()
}

// Translate sends a signed translate request and decodes the response
func (c *Client) Translate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	from := req.From
	if from == "" {
		from = AutoLanguage.Code
	}

	form := c.signer.Build(TranslateKeyID, c.state.secretKey, c.deviceUUID).With(map[string]string{
		"i":          req.Text,
		"from":       from,
		"to":         req.To,
		"domain":     strconv.Itoa(req.Domain),
		"dictResult": "true",
	})

	body, err := c.session.postForm(ctx, c.translate, c.host, form.Values())
	if err != nil {
		return nil, err
	}

	text, err := codec.Decode(body, c.state.decodeKey, c.state.decodeIV)
	if err != nil {
		return nil, err
	}

	result, err := ParseResult(text)
	if err != nil {
		return nil, err
	}

	if result.Code != 0 {
		c.logger.Debug().Int("code", result.Code).Str("from", from).Str("to", req.To).Msg("upstream reported a non-zero code")
	}
	return result, nil
}
