package youdao

import (
	"net/http"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/fanyi/internal/extract"
	"codeberg.org/snonux/fanyi/internal/signer"
)

// Live endpoints of the web front-end
const (
	DefaultLandingURL   = "https://fanyi.youdao.com/#/TextTranslate"
	DefaultKeyURL       = "https://dict.youdao.com/webtranslate/key"
	DefaultDomainURL    = "https://doctrans-service.youdao.com/common/enums/list"
	DefaultLanguageURL  = "https://api-overmind.youdao.com/openapi/get/luna/dict/luna-front/prod/langType"
	DefaultTranslateURL = "https://dict.youdao.com/webtranslate"
)

// Browser fingerprint the upstream correlates with the session cookies
const (
	UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36 Edg/114.0.1823.37"
	Origin    = "https://fanyi.youdao.com"
	Referer   = "https://fanyi.youdao.com/"
)

// TranslateKeyID is the key id of signed translate requests
const TranslateKeyID = "webfanyi"

// DefaultTranslateHost is the Host header of translate requests
const DefaultTranslateHost = "dict.youdao.com"

// Endpoints holds the URLs the client talks to
type Endpoints struct {
	Landing   string
	Key       string
	Domains   string
	Languages string
	Translate string
}

// DefaultEndpoints returns the live youdao endpoints
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Landing:   DefaultLandingURL,
		Key:       DefaultKeyURL,
		Domains:   DefaultDomainURL,
		Languages: DefaultLanguageURL,
		Translate: DefaultTranslateURL,
	}
}

// Config configures bootstrap and translate calls
type Config struct {
	Endpoints Endpoints
	Extractor extract.Extractor
	Signer    signer.Signer
	Logger    zerolog.Logger

	// DeviceUUID is sent as yduuid on translate requests. Empty uses the
	// signer default. The key exchange always uses the default.
	DeviceUUID string

	// TranslateHost overrides the Host header of translate requests.
	// Empty sends the host of the translate endpoint.
	TranslateHost string

	// Transport is the base round tripper, http.DefaultTransport if nil
	Transport http.RoundTripper

	// BreakerFailures opens a circuit breaker after that many consecutive
	// transport failures. Zero disables the breaker.
	BreakerFailures uint32
}

// DefaultConfig returns a configuration for the live service
func DefaultConfig() Config {
	return Config{
		Endpoints:     DefaultEndpoints(),
		Extractor:     extract.Default,
		Signer:        signer.Default,
		Logger:        zerolog.Nop(),
		TranslateHost: DefaultTranslateHost,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Endpoints.Landing == "" {
		c.Endpoints.Landing = def.Endpoints.Landing
	}
	if c.Endpoints.Key == "" {
		c.Endpoints.Key = def.Endpoints.Key
	}
	if c.Endpoints.Domains == "" {
		c.Endpoints.Domains = def.Endpoints.Domains
	}
	if c.Endpoints.Languages == "" {
		c.Endpoints.Languages = def.Endpoints.Languages
	}
	if c.Endpoints.Translate == "" {
		c.Endpoints.Translate = def.Endpoints.Translate
	}
	if c.Extractor == nil {
		c.Extractor = def.Extractor
	}
	if c.Signer.Now == nil {
		c.Signer = def.Signer
	}
	return c
}
