package signer

import (
	"fmt"
	"net/url"
	"time"

	"codeberg.org/snonux/fanyi/internal"
)

// Fixed values of the desktop web client fingerprint
const (
	Client      = "fanyideskweb"
	Product     = "webfanyi"
	AppVersion  = "1.0.0"
	Vendor      = "web"
	PointParam  = "client,mysticTime,product"
	KeyFrom     = "fanyi.web"
	Network     = "wifi"
	DefaultUUID = "abcdefg"
)

// Form is a signed request form. Keys are youdao parameter names.
type Form map[string]string

// Signer builds forms with a configurable clock
type Signer struct {
	Now func() time.Time
}

// Default uses the wall clock
var Default = Signer{Now: time.Now}

// Build creates a signed form using the wall clock
func Build(keyID, secret, deviceUUID string) Form {
	return Default.Build(keyID, secret, deviceUUID)
}

// Build creates a signed form for keyID and secret. An empty deviceUUID
// falls back to DefaultUUID.
func (s Signer) Build(keyID, secret, deviceUUID string) Form {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	mysticTime := internal.EpochMillis(now())

	if deviceUUID == "" {
		deviceUUID = DefaultUUID
	}

	return Form{
		"keyid":      keyID,
		"sign":       Sign(mysticTime, secret),
		"client":     Client,
		"product":    Product,
		"appVersion": AppVersion,
		"vendor":     Vendor,
		"pointParam": PointParam,
		"mysticTime": mysticTime,
		"keyfrom":    KeyFrom,
		"mid":        "1",
		"screen":     "1",
		"model":      "1",
		"network":    Network,
		"abtest":     "0",
		"yduuid":     deviceUUID,
	}
}

// Sign returns the lowercase hex MD5 over the canonical signing string
func Sign(mysticTime, secret string) string {
	raw := fmt.Sprintf("client=%s&mysticTime=%s&product=%s&key=%s", Client, mysticTime, Product, secret)
	return internal.MD5Hex(raw)
}

// With returns a copy of f extended with extra fields. Extra fields
// override the fingerprint fields of the same name.
func (f Form) With(extra map[string]string) Form {
	out := make(Form, len(f)+len(extra))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Values converts the form into url.Values for query strings and bodies
func (f Form) Values() url.Values {
	values := make(url.Values, len(f))
	for k, v := range f {
		values.Set(k, v)
	}
	return values
}
