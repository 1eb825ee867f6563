package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// DefaultKeyGetterID is the constant the app bundle uses to request the
// text translation secret key
const DefaultKeyGetterID = "webfanyi-key-getter-2025"

// appChunkMarker identifies the main application chunk among the scripts
// referenced by the landing page
const appChunkMarker = "js/app."

// keyGetterWindow bounds the distance between the key getter id and the
// literal holding its secret
const keyGetterWindow = 256

var (
	ErrBundleNotFound        = errors.New("app bundle not found in landing page")
	ErrKeyGetterNotFound     = errors.New("key getter literal not found in bundle")
	ErrCryptoMaterialMissing = errors.New("decode key or iv literal not found in bundle")
)

var (
	scriptSrcRe = regexp.MustCompile(`src="([^"]+?/js/[^"]+?\.js)"`)
	decodeKeyRe = regexp.MustCompile(`decodeKey:\s*"([^"]+)"`)
	decodeIvRe  = regexp.MustCompile(`decodeIv:\s*"([^"]+)"`)
)

// KeyGetter is the identifier and secret pair the bundle uses to sign the
// key exchange request
type KeyGetter struct {
	ID     string
	Secret string
}

// Extractor isolates every scraping assumption about the upstream front-end
type Extractor interface {
	// BundleURL returns the src of the main application script
	BundleURL(html string) (string, error)

	// KeyGetter returns the key getter id and its secret literal
	KeyGetter(bundle string) (KeyGetter, error)

	// CryptoMaterial returns the decode key and iv source literals
	CryptoMaterial(bundle string) (key, iv string, err error)
}

// Patterns is the regex based Extractor for the current front-end layout
type Patterns struct {
	KeyGetterID string
	keyGetterRe *regexp.Regexp
}

// Default matches the live front-end
var Default Extractor = NewPatterns(DefaultKeyGetterID)

// NewPatterns creates an extractor looking for the given key getter id
func NewPatterns(keyGetterID string) *Patterns {
	expr := `"` + regexp.QuoteMeta(keyGetterID) + `"[^\n]{1,` + strconv.Itoa(keyGetterWindow) + `}?"([^"\n]+)"`
	return &Patterns{
		KeyGetterID: keyGetterID,
		keyGetterRe: regexp.MustCompile(expr),
	}
}

// BundleURL implements Extractor
func (p *Patterns) BundleURL(html string) (string, error) {
	return BundleURL(html)
}

// KeyGetter implements Extractor
func (p *Patterns) KeyGetter(bundle string) (KeyGetter, error) {
	m := p.keyGetterRe.FindStringSubmatch(bundle)
	if m == nil {
		return KeyGetter{}, ErrKeyGetterNotFound
	}
	return KeyGetter{ID: p.KeyGetterID, Secret: m[1]}, nil
}

// CryptoMaterial implements Extractor
func (p *Patterns) CryptoMaterial(bundle string) (string, string, error) {
	return CryptoMaterial(bundle)
}

// BundleURL finds the first script whose path marks it as the app chunk,
// skipping vendor and lazy chunks
func BundleURL(html string) (string, error) {
	for _, m := range scriptSrcRe.FindAllStringSubmatch(html, -1) {
		if strings.Contains(m[1], appChunkMarker) {
			return m[1], nil
		}
	}
	return "", ErrBundleNotFound
}

// CryptoMaterial finds the decodeKey and decodeIv literals. Both are
// required.
func CryptoMaterial(bundle string) (string, string, error) {
	key := decodeKeyRe.FindStringSubmatch(bundle)
	iv := decodeIvRe.FindStringSubmatch(bundle)
	if key == nil || iv == nil {
		return "", "", ErrCryptoMaterialMissing
	}
	return key[1], iv[1], nil
}
