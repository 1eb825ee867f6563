package youdao

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"codeberg.org/snonux/fanyi/internal/codec"
	"codeberg.org/snonux/fanyi/internal/testutil"
)

func fakeConfig(f *testutil.FakeYoudao) Config {
	cfg := DefaultConfig()
	cfg.Endpoints = Endpoints{
		Landing:   f.LandingURL(),
		Key:       f.URL(testutil.KeyPath),
		Domains:   f.URL(testutil.DomainPath),
		Languages: f.URL(testutil.LanguagePath),
		Translate: f.URL(testutil.TranslatePath),
	}
	return cfg
}

func TestBootstrap(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)

	state, err := Bootstrap(context.Background(), fakeConfig(fake))
	if err != nil {
		t.Fatalf("Bootstrap() error: %v", err)
	}

	if state.secretKey != fake.SecretKey {
		t.Errorf("secretKey = %s, want %s", state.secretKey, fake.SecretKey)
	}
	if state.decodeKey != fake.DecodeKey() {
		t.Error("decodeKey is not the MD5 of the decodeKey literal")
	}
	if state.decodeIV != fake.DecodeIV() {
		t.Error("decodeIV is not the MD5 of the decodeIv literal")
	}

	domains := state.Domains()
	if strings.Join(domains, ",") != "general,computers,medicine" {
		t.Errorf("Domains() = %v", domains)
	}

	langs := state.Languages()
	if len(langs) != 4 {
		t.Fatalf("Expected 4 languages, got %d: %v", len(langs), langs)
	}
	if langs[0] != (Language{Code: "zh-CHS", Label: "Chinese (Simplified)"}) {
		t.Errorf("First language = %v", langs[0])
	}
	if langs[len(langs)-1] != AutoLanguage {
		t.Errorf("Last language = %v, want %v", langs[len(langs)-1], AutoLanguage)
	}
}

func TestBootstrap_RequestFingerprint(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)

	if _, err := Bootstrap(context.Background(), fakeConfig(fake)); err != nil {
		t.Fatalf("Bootstrap() error: %v", err)
	}

	for _, r := range fake.Requests() {
		if r.Header.Get("User-Agent") != UserAgent {
			t.Errorf("%s: User-Agent = %q", r.Path, r.Header.Get("User-Agent"))
		}
		if r.Header.Get("Origin") != Origin || r.Header.Get("Referer") != Referer {
			t.Errorf("%s: Origin/Referer = %q/%q", r.Path, r.Header.Get("Origin"), r.Header.Get("Referer"))
		}
	}

	keyReqs := fake.RequestsTo(testutil.KeyPath)
	if len(keyReqs) != 1 {
		t.Fatalf("Expected one key exchange, got %d", len(keyReqs))
	}
	if keyReqs[0].Form.Get("yduuid") != "abcdefg" {
		t.Errorf("key exchange yduuid = %q", keyReqs[0].Form.Get("yduuid"))
	}

	domainReqs := fake.RequestsTo(testutil.DomainPath)
	if len(domainReqs) != 1 || domainReqs[0].Form.Get("key") != "domain" || domainReqs[0].Form.Get("_") == "" {
		t.Errorf("domain request = %+v", domainReqs)
	}
}

func TestBootstrap_StepFailures(t *testing.T) {
	tests := []struct {
		name    string
		breakFn func(f *testutil.FakeYoudao)
		step    string
		wantErr error
	}{
		{
			name:    "no app bundle",
			breakFn: func(f *testutil.FakeYoudao) { f.LandingHTML = `<script src="/static/js/chunk-vendors.1.js"></script>` },
			step:    StepLandingPage,
			wantErr: ErrBundleNotFound,
		},
		{
			name:    "no key getter",
			breakFn: func(f *testutil.FakeYoudao) { f.Bundle = `decodeKey:"a",decodeIv:"b"` },
			step:    StepKeyGetter,
			wantErr: ErrKeyGetterNotFound,
		},
		{
			name:    "key exchange rejected",
			breakFn: func(f *testutil.FakeYoudao) { f.KeyResponse = `{"code":50,"msg":"sign error"}` },
			step:    StepKeyExchange,
			wantErr: ErrSecretKeyMissing,
		},
		{
			name:    "key exchange without secret",
			breakFn: func(f *testutil.FakeYoudao) { f.KeyResponse = `{"code":0,"data":{}}` },
			step:    StepKeyExchange,
			wantErr: ErrSecretKeyMissing,
		},
		{
			name:    "key exchange wrong secret literal",
			breakFn: func(f *testutil.FakeYoudao) { f.KeyGetterSecret = "rotated"; f.Bundle = strings.Replace(f.DefaultBundle(), "rotated", "stale", 1) },
			step:    StepKeyExchange,
			wantErr: ErrSecretKeyMissing,
		},
		{
			name:    "key exchange http error",
			breakFn: func(f *testutil.FakeYoudao) { f.KeyStatus = http.StatusInternalServerError },
			step:    StepKeyExchange,
			wantErr: ErrTransport,
		},
		{
			name:    "domain list missing",
			breakFn: func(f *testutil.FakeYoudao) { f.DomainResponse = `{"code":0}` },
			step:    StepDomainList,
			wantErr: ErrDomainListMalformed,
		},
		{
			name:    "domain entry without label",
			breakFn: func(f *testutil.FakeYoudao) { f.DomainResponse = `{"data":[{"code":0}]}` },
			step:    StepDomainList,
			wantErr: ErrDomainListMalformed,
		},
		{
			name: "no crypto material",
			breakFn: func(f *testutil.FakeYoudao) {
				f.Bundle = strings.Replace(f.DefaultBundle(), "decodeIv:", "decodeIV_:", 1)
			},
			step:    StepCryptoMaterial,
			wantErr: ErrCryptoMaterialMissing,
		},
		{
			name:    "language path missing",
			breakFn: func(f *testutil.FakeYoudao) { f.LanguageResponse = `{"data":{"value":{}}}` },
			step:    StepLanguageList,
			wantErr: ErrLanguageListMalformed,
		},
		{
			name:    "language list not json",
			breakFn: func(f *testutil.FakeYoudao) { f.LanguageResponse = `<html>` },
			step:    StepLanguageList,
			wantErr: ErrLanguageListMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeYoudao(t)
			tt.breakFn(fake)

			state, err := Bootstrap(context.Background(), fakeConfig(fake))
			if state != nil {
				t.Error("Expected no state on failure")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Bootstrap() error = %v, want %v", err, tt.wantErr)
			}

			var bErr *BootstrapError
			if !errors.As(err, &bErr) {
				t.Fatalf("Expected *BootstrapError, got %T", err)
			}
			if bErr.Step != tt.step {
				t.Errorf("Step = %s, want %s", bErr.Step, tt.step)
			}
		})
	}
}

func TestBootstrap_Cancelled(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Bootstrap(ctx, fakeConfig(fake))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected ErrTransport, got %v", err)
	}
}

func TestNewState(t *testing.T) {
	var key, iv [16]byte

	if _, err := NewState([]string{"general"}, []Language{}, "", key, iv); !errors.Is(err, ErrSecretKeyMissing) {
		t.Errorf("Expected ErrSecretKeyMissing, got %v", err)
	}
	if _, err := NewState(nil, []Language{}, "s", key, iv); !errors.Is(err, ErrDomainListMalformed) {
		t.Errorf("Expected ErrDomainListMalformed, got %v", err)
	}
	if _, err := NewState([]string{}, nil, "s", key, iv); !errors.Is(err, ErrLanguageListMalformed) {
		t.Errorf("Expected ErrLanguageListMalformed, got %v", err)
	}
}

func TestNewState_AutoAlwaysLast(t *testing.T) {
	var key, iv [16]byte
	upstream := []Language{
		{Code: "auto", Label: "detect"},
		{Code: "en", Label: "English"},
		{Code: "zh-CHS", Label: "Chinese"},
	}

	state, err := NewState([]string{"general"}, upstream, "s", key, iv)
	if err != nil {
		t.Fatalf("NewState() error: %v", err)
	}

	langs := state.Languages()
	if len(langs) != 3 {
		t.Fatalf("Expected 3 languages, got %v", langs)
	}
	if langs[2] != AutoLanguage {
		t.Errorf("Last language = %v", langs[2])
	}
	if langs[0].Code != "en" {
		t.Errorf("Upstream order not preserved: %v", langs)
	}

	// Accessors return copies
	langs[0].Code = "xx"
	if state.Languages()[0].Code != "en" {
		t.Error("Languages() exposed internal state")
	}
}

func TestTranslate(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)
	client, err := New(context.Background(), fakeConfig(fake))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	result, err := client.Translate(context.Background(), Request{Text: "hello"})
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	if result.Text != "HELLO" {
		t.Errorf("Text = %q, want HELLO", result.Text)
	}

	reqs := fake.RequestsTo(testutil.TranslatePath)
	if len(reqs) != 1 {
		t.Fatalf("Expected one translate request, got %d", len(reqs))
	}
	r := reqs[0]
	checks := map[string]string{
		"i":          "hello",
		"from":       "auto",
		"to":         "",
		"domain":     "0",
		"dictResult": "true",
		"keyid":      "webfanyi",
		"yduuid":     "abcdefg",
	}
	for key, want := range checks {
		if got := r.Form.Get(key); got != want {
			t.Errorf("form[%s] = %q, want %q", key, got, want)
		}
	}
	if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
	}
	if r.Header.Get("Accept") != "application/json, text/plain, */*" {
		t.Errorf("Accept = %q", r.Header.Get("Accept"))
	}
	if r.Host != "dict.youdao.com" {
		t.Errorf("Host = %q, want dict.youdao.com", r.Host)
	}
}

func TestTranslate_HostFromEndpoint(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)
	cfg := fakeConfig(fake)
	cfg.TranslateHost = ""

	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := client.Translate(context.Background(), Request{Text: "hello"}); err != nil {
		t.Fatalf("Translate() error: %v", err)
	}

	u, _ := url.Parse(fake.Server.URL)
	r := fake.RequestsTo(testutil.TranslatePath)[0]
	if r.Host != u.Host {
		t.Errorf("Host = %q, want %q", r.Host, u.Host)
	}
}

func TestTranslate_Options(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)
	cfg := fakeConfig(fake)
	cfg.DeviceUUID = "device-1"

	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = client.Translate(context.Background(), Request{Text: "hi", From: "en", To: "zh-CHS", Domain: 2})
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}

	r := fake.RequestsTo(testutil.TranslatePath)[0]
	if r.Form.Get("from") != "en" || r.Form.Get("to") != "zh-CHS" || r.Form.Get("domain") != "2" || r.Form.Get("yduuid") != "device-1" {
		t.Errorf("form = %v", r.Form)
	}
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		breakFn func(f *testutil.FakeYoudao)
		wantErr error
	}{
		{
			name:    "http status",
			breakFn: func(f *testutil.FakeYoudao) { f.TranslateStatus = http.StatusBadGateway },
			wantErr: ErrTransport,
		},
		{
			name:    "bad base64",
			breakFn: func(f *testutil.FakeYoudao) { f.TranslateBody = []byte("%%%not-base64%%%") },
			wantErr: codec.ErrBase64,
		},
		{
			name:    "bad ciphertext",
			breakFn: func(f *testutil.FakeYoudao) { f.TranslateBody = []byte("AQIDBAU=") },
			wantErr: codec.ErrDecrypt,
		},
		{
			name:    "not json",
			breakFn: func(f *testutil.FakeYoudao) { f.Translate = func(url.Values) string { return "<html>" } },
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeYoudao(t)
			client, err := New(context.Background(), fakeConfig(fake))
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			tt.breakFn(fake)

			_, err = client.Translate(context.Background(), Request{Text: "hello"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Translate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTranslate_EmptyText(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)
	client, err := New(context.Background(), fakeConfig(fake))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if _, err := client.Translate(context.Background(), Request{Text: "  "}); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Expected ErrEmptyText, got %v", err)
	}
	if n := len(fake.RequestsTo(testutil.TranslatePath)); n != 0 {
		t.Errorf("Expected no translate request, got %d", n)
	}
}

func TestTranslate_UpstreamCode(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)
	fake.Translate = func(url.Values) string { return `{"code":30}` }

	client, err := New(context.Background(), fakeConfig(fake))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	result, err := client.Translate(context.Background(), Request{Text: "hello", Domain: 1})
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	if result.Code != 30 || !strings.Contains(result.Text, "30") || result.Dictionary != nil {
		t.Errorf("Result = %+v", result)
	}
}

func TestTranslate_Concurrent(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)
	client, err := New(context.Background(), fakeConfig(fake))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}
	var wg sync.WaitGroup
	errs := make(chan error, len(words))
	for _, w := range words {
		wg.Add(1)
		go func(w string) {
			defer wg.Done()
			res, err := client.Translate(context.Background(), Request{Text: w})
			if err != nil {
				errs <- err
				return
			}
			if res.Text != strings.ToUpper(w) {
				errs <- errors.New("unexpected text " + res.Text)
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestNewFromState_SkipsBootstrap(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)
	state, err := NewState([]string{"general"}, []Language{{Code: "en", Label: "English"}}, fake.SecretKey, fake.DecodeKey(), fake.DecodeIV())
	if err != nil {
		t.Fatalf("NewState() error: %v", err)
	}

	client, err := newFromState(state, fakeConfig(fake))
	if err != nil {
		t.Fatalf("newFromState() error: %v", err)
	}
	if client.state != state {
		t.Error("client carries a different state")
	}

	result, err := client.Translate(context.Background(), Request{Text: "ok"})
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	if result.Text != "OK" {
		t.Errorf("Text = %q", result.Text)
	}
	if n := len(fake.RequestsTo(testutil.KeyPath)); n != 0 {
		t.Errorf("Expected no bootstrap requests, got %d key exchanges", n)
	}
}

func TestBreaker(t *testing.T) {
	fake := testutil.NewFakeYoudao(t)
	cfg := fakeConfig(fake)
	cfg.BreakerFailures = 2

	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	fake.TranslateStatus = http.StatusServiceUnavailable

	for i := 0; i < 2; i++ {
		_, err := client.Translate(context.Background(), Request{Text: "x"})
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("attempt %d: expected *StatusError, got %v", i, err)
		}
	}

	before := len(fake.RequestsTo(testutil.TranslatePath))
	_, err = client.Translate(context.Background(), Request{Text: "x"})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected ErrTransport from open breaker, got %v", err)
	}
	if after := len(fake.RequestsTo(testutil.TranslatePath)); after != before {
		t.Errorf("Open breaker still sent a request (%d -> %d)", before, after)
	}
}
