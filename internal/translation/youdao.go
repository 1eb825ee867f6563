package translation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"codeberg.org/snonux/fanyi/internal/youdao"
)

// YoudaoArgs are the options accepted by the youdao provider, given as a
// comma separated key=value list such as "domain=1,uuid=random"
type YoudaoArgs struct {
	Domain     int
	DeviceUUID string
}

// ParseYoudaoArgs parses the provider argument string
func ParseYoudaoArgs(args string) (YoudaoArgs, error) {
	var parsed YoudaoArgs

	for _, part := range strings.Split(args, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return parsed, fmt.Errorf("%w: %q, want key=value", ErrInvalidArgs, part)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "domain":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return parsed, fmt.Errorf("%w: domain index %q", ErrInvalidArgs, value)
			}
			parsed.Domain = n
		case "uuid":
			if value == "random" {
				value = uuid.NewString()
			}
			parsed.DeviceUUID = value
		default:
			return parsed, fmt.Errorf("%w: unknown key %q", ErrInvalidArgs, key)
		}
	}

	return parsed, nil
}

// Youdao is the youdao web translator provider
type Youdao struct {
	client *youdao.Client
	domain int
}

// NewYoudao bootstraps a youdao session
func NewYoudao(ctx context.Context, args string, cfg youdao.Config) (*Youdao, error) {
	parsed, err := ParseYoudaoArgs(args)
	if err != nil {
		return nil, err
	}
	if parsed.DeviceUUID != "" {
		cfg.DeviceUUID = parsed.DeviceUUID
	}

	client, err := youdao.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Youdao{client: client, domain: parsed.Domain}, nil
}

// Translate implements Provider and renders the result with its dictionary
// lines
func (y *Youdao) Translate(ctx context.Context, text, from, to string) (string, error) {
	result, err := y.TranslateResult(ctx, text, from, to)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// TranslateResult returns the structured result
func (y *Youdao) TranslateResult(ctx context.Context, text, from, to string) (*youdao.Result, error) {
	return y.client.Translate(ctx, youdao.Request{
		Text:   text,
		From:   from,
		To:     to,
		Domain: y.domain,
	})
}

// SupportLanguages implements Provider
func (y *Youdao) SupportLanguages() []Language {
	return y.client.Languages()
}

// Domains returns the translation scenarios of the provider
func (y *Youdao) Domains() []string {
	return y.client.Domains()
}

// Domain returns the domain index used for translations
func (y *Youdao) Domain() int {
	return y.domain
}

// Name implements Provider
func (y *Youdao) Name() string {
	return ProviderYoudao
}
