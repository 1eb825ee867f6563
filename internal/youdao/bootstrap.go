package youdao

import (
	"context"
	"fmt"
	"net/url"

	"codeberg.org/snonux/fanyi/internal"
)

// Bootstrap runs the session setup against the configured endpoints and
// returns the resulting State. It is all or nothing: on error no State
// exists.
func Bootstrap(ctx context.Context, cfg Config) (*State, error) {
	state, _, err := bootstrap(ctx, cfg.withDefaults())
	return state, err
}

func bootstrap(ctx context.Context, cfg Config) (*State, *session, error) {
	log := cfg.Logger.With().Str("provider", "youdao").Logger()

	sess, err := newSession(cfg)
	if err != nil {
		return nil, nil, err
	}

	landing, err := sess.get(ctx, cfg.Endpoints.Landing, nil)
	if err != nil {
		return nil, nil, &BootstrapError{Step: StepLandingPage, Err: err}
	}

	bundleRef, err := cfg.Extractor.BundleURL(string(landing))
	if err != nil {
		return nil, nil, &BootstrapError{Step: StepLandingPage, Err: err}
	}
	bundleURL, err := resolve(cfg.Endpoints.Landing, bundleRef)
	if err != nil {
		return nil, nil, &BootstrapError{Step: StepLandingPage, Err: fmt.Errorf("%w: %v", ErrBundleNotFound, err)}
	}
	log.Debug().Str("bundle", bundleURL).Msg("found app bundle")

	raw, err := sess.get(ctx, bundleURL, nil)
	if err != nil {
		return nil, nil, &BootstrapError{Step: StepBundle, Err: err}
	}
	bundle := string(raw)

	keyGetter, err := cfg.Extractor.KeyGetter(bundle)
	if err != nil {
		return nil, nil, &BootstrapError{Step: StepKeyGetter, Err: err}
	}

	secretKey, err := exchangeKey(ctx, sess, cfg, keyGetter.ID, keyGetter.Secret)
	if err != nil {
		return nil, nil, &BootstrapError{Step: StepKeyExchange, Err: err}
	}
	log.Debug().Msg("exchanged secret key")

	domains, err := fetchDomains(ctx, sess, cfg)
	if err != nil {
		return nil, nil, &BootstrapError{Step: StepDomainList, Err: err}
	}
	log.Debug().Int("domains", len(domains)).Msg("fetched domain list")

	keySource, ivSource, err := cfg.Extractor.CryptoMaterial(bundle)
	if err != nil {
		return nil, nil, &BootstrapError{Step: StepCryptoMaterial, Err: err}
	}

	languages, err := fetchLanguages(ctx, sess, cfg)
	if err != nil {
		return nil, nil, &BootstrapError{Step: StepLanguageList, Err: err}
	}
	log.Debug().Int("languages", len(languages)).Msg("fetched language list")

	state, err := NewState(domains, languages, secretKey, internal.MD5Bytes(keySource), internal.MD5Bytes(ivSource))
	if err != nil {
		return nil, nil, err
	}

	log.Info().Msg("bootstrap complete")
	return state, sess, nil
}

// exchangeKey trades the bundle's key getter literal for the translate
// secret key
func exchangeKey(ctx context.Context, sess *session, cfg Config, keyID, secret string) (string, error) {
	form := cfg.Signer.Build(keyID, secret, "")
	body, err := sess.get(ctx, cfg.Endpoints.Key, form.Values())
	if err != nil {
		return "", err
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSecretKeyMissing, err)
	}
	if code, ok := lookup(keyCodeQuery, doc); ok && !isZeroNumber(code) {
		return "", fmt.Errorf("%w: code %v", ErrSecretKeyMissing, code)
	}

	key, ok := lookupString(secretKeyQuery, doc)
	if !ok || key == "" {
		return "", ErrSecretKeyMissing
	}
	return key, nil
}

// fetchDomains lists the translation scenarios by their display label
func fetchDomains(ctx context.Context, sess *session, cfg Config) ([]string, error) {
	query := url.Values{}
	query.Set("key", "domain")
	query.Set("_", internal.EpochMillis(cfg.Signer.Now()))

	body, err := sess.get(ctx, cfg.Endpoints.Domains, query)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDomainListMalformed, err)
	}

	entries, ok := lookupArray(domainsQuery, doc)
	if !ok {
		return nil, ErrDomainListMalformed
	}

	domains := make([]string, 0, len(entries))
	for i, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is not an object", ErrDomainListMalformed, i)
		}
		label, ok := obj["msg"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d has no label", ErrDomainListMalformed, i)
		}
		domains = append(domains, label)
	}
	return domains, nil
}

// fetchLanguages reads the text translation language list
func fetchLanguages(ctx context.Context, sess *session, cfg Config) ([]Language, error) {
	body, err := sess.get(ctx, cfg.Endpoints.Languages, nil)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLanguageListMalformed, err)
	}

	entries, ok := lookupArray(languagesQuery, doc)
	if !ok {
		return nil, ErrLanguageListMalformed
	}

	languages := make([]Language, 0, len(entries)+1)
	for i, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is not an object", ErrLanguageListMalformed, i)
		}
		code, codeOK := obj["code"].(string)
		label, labelOK := obj["label"].(string)
		if !codeOK || !labelOK {
			return nil, fmt.Errorf("%w: entry %d lacks code or label", ErrLanguageListMalformed, i)
		}
		languages = append(languages, Language{Code: code, Label: label})
	}
	return languages, nil
}

func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
