// Package translation exposes the translation providers behind one
// interface and implements the host surface a UI talks to: listing
// providers, choosing one, listing its languages and translating text.
// Exactly one provider is active per Host.
package translation
