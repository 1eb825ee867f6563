// Package processor contains the command logic of fanyi. It chooses the
// provider, runs single and batch translations, prints the language and
// domain lists and starts the JSON API. This package serves as the main
// coordinator between all other components.
package processor
