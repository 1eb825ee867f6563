package youdao

import (
	"encoding/json"

	"github.com/itchyny/gojq"
)

// Paths into the bootstrap and translate JSON documents
var (
	keyCodeQuery   = mustCompile(".code")
	secretKeyQuery = mustCompile(".data.secretKey")
	domainsQuery   = mustCompile(".data")
	languagesQuery = mustCompile(".data.value.textTranslate.specify")

	translateResultQuery = mustCompile(".translateResult")
	wordQuery            = mustCompile(".dictResult.ec.word")
)

func mustCompile(expr string) *gojq.Code {
	q, err := gojq.Parse(expr)
	if err != nil {
		panic(err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		panic(err)
	}
	return code
}

// decodeDocument parses body into the generic form gojq expects
func decodeDocument(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// lookup returns the first non-null result of code over doc
func lookup(code *gojq.Code, doc any) (any, bool) {
	v, ok := code.Run(doc).Next()
	if !ok {
		return nil, false
	}
	if _, isErr := v.(error); isErr {
		return nil, false
	}
	return v, v != nil
}

func lookupString(code *gojq.Code, doc any) (string, bool) {
	v, ok := lookup(code, doc)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func lookupArray(code *gojq.Code, doc any) ([]any, bool) {
	v, ok := lookup(code, doc)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// isZeroNumber reports whether v is the number 0. gojq may hand back
// integral values as int or float64.
func isZeroNumber(v any) bool {
	switch n := v.(type) {
	case int:
		return n == 0
	case float64:
		return n == 0
	case json.Number:
		return n.String() == "0"
	default:
		return false
	}
}
