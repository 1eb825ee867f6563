package youdao

import (
	"errors"
	"fmt"

	"codeberg.org/snonux/fanyi/internal/extract"
)

// Bootstrap failures, one per extraction step
var (
	ErrBundleNotFound        = extract.ErrBundleNotFound
	ErrKeyGetterNotFound     = extract.ErrKeyGetterNotFound
	ErrSecretKeyMissing      = errors.New("secret key missing from key exchange response")
	ErrDomainListMalformed   = errors.New("domain list malformed")
	ErrCryptoMaterialMissing = extract.ErrCryptoMaterialMissing
	ErrLanguageListMalformed = errors.New("language list malformed")
)

var (
	// ErrTransport matches network failures and non-success HTTP statuses
	ErrTransport = errors.New("youdao request failed")

	ErrMalformedResponse = errors.New("malformed translate response")
	ErrEmptyText         = errors.New("text to translate is empty")
)

// Bootstrap steps as reported by BootstrapError
const (
	StepLandingPage    = "landing page"
	StepBundle         = "app bundle"
	StepKeyGetter      = "key getter"
	StepKeyExchange    = "key exchange"
	StepDomainList     = "domain list"
	StepCryptoMaterial = "crypto material"
	StepLanguageList   = "language list"
)

// BootstrapError reports which bootstrap step failed
type BootstrapError struct {
	Step string
	Err  error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("youdao bootstrap failed at %s: %v", e.Step, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// StatusError is returned for non-success HTTP responses
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

// Is makes every StatusError match ErrTransport
func (e *StatusError) Is(target error) bool {
	return target == ErrTransport
}
