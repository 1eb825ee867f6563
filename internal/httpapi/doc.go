// Package httpapi exposes the translation host over a local JSON API so a
// UI can list providers, choose one, list its languages and translate.
// Responses use jsend envelopes.
package httpapi
