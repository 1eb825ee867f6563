package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/fanyi/internal/youdao"
)

// Provider names
const (
	ProviderYoudao = "youdao"
)

var (
	ErrUnknownProvider = errors.New("can not find this api")
	ErrNoProvider      = errors.New("please choose api")
	ErrInvalidArgs     = errors.New("invalid provider arguments")
)

// Language is a (code, label) pair offered by a provider
type Language = youdao.Language

// Provider defines the interface for translation backends
type Provider interface {
	// Translate translates text. Empty from and to let the provider detect
	// or pick the language.
	Translate(ctx context.Context, text, from, to string) (string, error)

	// SupportLanguages lists the selectable languages
	SupportLanguages() []Language

	// Name returns the provider name
	Name() string
}

// Options configures provider construction
type Options struct {
	Youdao youdao.Config
}

// SupportAPIs returns the names of all providers
func SupportAPIs() []string {
	return []string{ProviderYoudao}
}

// Choose bootstraps the named provider. args carries provider specific
// options.
func Choose(ctx context.Context, name, args string, opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderYoudao:
		return NewYoudao(ctx, args, opts.Youdao)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
}
