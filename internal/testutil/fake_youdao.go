package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"codeberg.org/snonux/fanyi/internal"
	"codeberg.org/snonux/fanyi/internal/codec"
	"codeberg.org/snonux/fanyi/internal/extract"
	"codeberg.org/snonux/fanyi/internal/signer"
)

// Paths served by FakeYoudao
const (
	LandingPath   = "/"
	BundlePath    = "/static/js/app.5f3c9e1a.js"
	VendorPath    = "/static/js/chunk-vendors.0b1d2c3e.js"
	KeyPath       = "/webtranslate/key"
	DomainPath    = "/common/enums/list"
	LanguagePath  = "/openapi/get/luna/dict/luna-front/prod/langType"
	TranslatePath = "/webtranslate"
	SessionCookie = "OUTFOX_SEARCH_USER_ID"
)

// RecordedRequest is a request seen by FakeYoudao
type RecordedRequest struct {
	Method string
	Path   string
	Host   string
	Header http.Header
	Form   url.Values
}

// FakeYoudao is an in-process stand-in for the youdao web front-end and its
// APIs. Fields may be changed before the first request to break individual
// bootstrap steps.
type FakeYoudao struct {
	Server *httptest.Server

	KeyGetterSecret string
	SecretKey       string
	DecodeKeySource string
	DecodeIVSource  string
	Domains         []string
	Languages       [][2]string

	// Overrides, used verbatim when not empty
	LandingHTML      string
	Bundle           string
	KeyResponse      string
	DomainResponse   string
	LanguageResponse string

	// KeyStatus and TranslateStatus override the HTTP status when not zero
	KeyStatus       int
	TranslateStatus int

	// TranslateBody replaces the encrypted translate response when not nil
	TranslateBody []byte

	// Translate builds the plaintext JSON answer for a translate form.
	// The default uppercases the input text.
	Translate func(form url.Values) string

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewFakeYoudao starts a fake service that is closed with the test
func NewFakeYoudao(t *testing.T) *FakeYoudao {
	t.Helper()

	f := &FakeYoudao{
		KeyGetterSecret: "yU5nT5dK3eZ1pI4j",
		SecretKey:       "fsdsogkndfokasodnaso",
		DecodeKeySource: "ydsecret://query/key/B*RGygVywfNBwpmBaZg*WT7SIOUP2T0C9WHMZN39j^DAdaZhAnxvGcCY6VYFwnHl",
		DecodeIVSource:  "ydsecret://query/iv/C@lZe2YzHtZ2CYgaXKSVfsb7Y4QWHjITPPZ0nQp87fBeJ!Iv6v^6fvi2WN@bYpJ4",
		Domains:         []string{"general", "computers", "medicine"},
		Languages: [][2]string{
			{"zh-CHS", "Chinese (Simplified)"},
			{"en", "English"},
			{"ja", "Japanese"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc(LandingPath, f.handleLanding)
	mux.HandleFunc(BundlePath, f.handleBundle)
	mux.HandleFunc(VendorPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "/* vendor */")
	})
	mux.HandleFunc(KeyPath, f.handleKey)
	mux.HandleFunc(DomainPath, f.handleDomains)
	mux.HandleFunc(LanguagePath, f.handleLanguages)
	mux.HandleFunc(TranslatePath, f.handleTranslate)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the absolute URL of path on the fake server
func (f *FakeYoudao) URL(path string) string {
	return f.Server.URL + path
}

// LandingURL mirrors the live landing page URL including its fragment
func (f *FakeYoudao) LandingURL() string {
	return f.URL(LandingPath) + "#/TextTranslate"
}

// DecodeKey is the AES key derived from DecodeKeySource
func (f *FakeYoudao) DecodeKey() [16]byte {
	return internal.MD5Bytes(f.DecodeKeySource)
}

// DecodeIV is the AES iv derived from DecodeIVSource
func (f *FakeYoudao) DecodeIV() [16]byte {
	return internal.MD5Bytes(f.DecodeIVSource)
}

// Requests returns a copy of the recorded requests
func (f *FakeYoudao) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest{}, f.requests...)
}

// RequestsTo returns the recorded requests for path
func (f *FakeYoudao) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeYoudao) record(r *http.Request) {
	_ = r.ParseForm()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Host:   r.Host,
		Header: r.Header.Clone(),
		Form:   r.Form,
	})
}

func (f *FakeYoudao) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != LandingPath {
		http.NotFound(w, r)
		return
	}
	f.record(r)

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "-1234567890@127.0.0.1", Path: "/"})
	if f.LandingHTML != "" {
		fmt.Fprint(w, f.LandingHTML)
		return
	}
	fmt.Fprintf(w, `<!DOCTYPE html><html><head>
<script defer="defer" src="%s"></script>
<script defer="defer" src="%s"></script>
</head><body><div id="app"></div></body></html>`, VendorPath, BundlePath)
}

func (f *FakeYoudao) handleBundle(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if f.Bundle != "" {
		fmt.Fprint(w, f.Bundle)
		return
	}
	fmt.Fprint(w, f.DefaultBundle())
}

// DefaultBundle renders a minified bundle carrying the configured secrets
func (f *FakeYoudao) DefaultBundle() string {
	return fmt.Sprintf(`(self.webpackChunk=self.webpackChunk||[]).push([[143],{1:function(e,t,a){`+
		`fetchTextTranslateSecretKey:async({commit:e},t)=>{const a="%s",n="%s";return new Promise((t=>{o.A.getTextTranslateSecretKey({keyid:a},n)}))},`+
		`state:{secretKey:"",decodeKey:"%s",decodeIv:"%s"}}}]);`,
		extract.DefaultKeyGetterID, f.KeyGetterSecret, f.DecodeKeySource, f.DecodeIVSource)
}

func (f *FakeYoudao) handleKey(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if f.KeyStatus != 0 {
		w.WriteHeader(f.KeyStatus)
		return
	}
	if f.KeyResponse != "" {
		fmt.Fprint(w, f.KeyResponse)
		return
	}

	q := r.URL.Query()
	if _, err := r.Cookie(SessionCookie); err != nil {
		fmt.Fprint(w, `{"code":40,"msg":"missing session cookie"}`)
		return
	}
	if q.Get("keyid") != extract.DefaultKeyGetterID || q.Get("sign") != signer.Sign(q.Get("mysticTime"), f.KeyGetterSecret) {
		fmt.Fprint(w, `{"code":50,"msg":"sign error"}`)
		return
	}
	writeJSON(w, map[string]any{
		"code": 0,
		"msg":  "OK",
		"data": map[string]any{
			"secretKey": f.SecretKey,
			"aesKey":    f.DecodeKeySource,
			"aesIv":     f.DecodeIVSource,
		},
	})
}

func (f *FakeYoudao) handleDomains(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if f.DomainResponse != "" {
		fmt.Fprint(w, f.DomainResponse)
		return
	}

	entries := make([]map[string]any, 0, len(f.Domains))
	for i, d := range f.Domains {
		entries = append(entries, map[string]any{"code": i, "msg": d})
	}
	writeJSON(w, map[string]any{"code": 0, "data": entries})
}

func (f *FakeYoudao) handleLanguages(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if f.LanguageResponse != "" {
		fmt.Fprint(w, f.LanguageResponse)
		return
	}

	specify := make([]map[string]any, 0, len(f.Languages))
	for _, l := range f.Languages {
		specify = append(specify, map[string]any{"code": l[0], "label": l[1]})
	}
	writeJSON(w, map[string]any{
		"code": 0,
		"data": map[string]any{
			"value": map[string]any{
				"textTranslate": map[string]any{
					"common":  []any{},
					"specify": specify,
				},
			},
		},
	})
}

func (f *FakeYoudao) handleTranslate(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if f.TranslateStatus != 0 {
		w.WriteHeader(f.TranslateStatus)
		return
	}
	if f.TranslateBody != nil {
		w.Write(f.TranslateBody)
		return
	}

	form := r.PostForm
	if form.Get("keyid") != "webfanyi" || form.Get("sign") != signer.Sign(form.Get("mysticTime"), f.SecretKey) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	plain := f.defaultTranslate(form)
	if f.Translate != nil {
		plain = f.Translate(form)
	}

	body, err := codec.Encode([]byte(plain), f.DecodeKey(), f.DecodeIV())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write(body)
}

func (f *FakeYoudao) defaultTranslate(form url.Values) string {
	doc := map[string]any{
		"code": 0,
		"translateResult": [][]map[string]string{
			{{"src": form.Get("i"), "tgt": strings.ToUpper(form.Get("i"))}},
		},
		"type": form.Get("from") + "2" + form.Get("to"),
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
