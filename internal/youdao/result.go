package youdao

import (
	"fmt"
	"strings"
)

// Result is a decoded translate response
type Result struct {
	// Code is the upstream status code, 0 on success
	Code int `json:"code"`

	// Text is the translation, or a diagnostic when Code is not 0
	Text string `json:"text"`

	// Dictionary is only present for short, word-like queries
	Dictionary *Dictionary `json:"dictionary,omitempty"`
}

// Dictionary holds the dictionary entry of a single word
type Dictionary struct {
	USPhone      string         `json:"usphone"`
	UKPhone      string         `json:"ukphone"`
	Translations []PartOfSpeech `json:"translations"`
	WordForms    []WordForm     `json:"word_forms"`
}

// PartOfSpeech is one meaning of a dictionary word
type PartOfSpeech struct {
	Pos  string `json:"pos"`
	Tran string `json:"tran"`
}

// WordForm is an inflection such as the plural or past tense
type WordForm struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// String renders the result the way the host shows it: the translation
// followed by one line per dictionary item
func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString(r.Text)

	if d := r.Dictionary; d != nil {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%s %s\n", d.USPhone, d.UKPhone)
		for _, tr := range d.Translations {
			fmt.Fprintf(&sb, "%s%s\n", tr.Pos, tr.Tran)
		}
		for _, wf := range d.WordForms {
			fmt.Fprintf(&sb, "%s: %s\n", wf.Name, wf.Value)
		}
	}
	return sb.String()
}

// diagnostic is the text of results carrying a non-zero upstream code
func diagnostic(code int) string {
	return fmt.Sprintf("code: %d\nnote: only the general domain supports Chinese-English", code)
}

// ParseResult turns a decrypted translate response into a Result. A
// non-zero upstream code is data, not an error. Segments and dictionary
// fields of unexpected shape are skipped or left empty.
func ParseResult(text string) (*Result, error) {
	doc, err := decodeDocument([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	code := 0
	if v, ok := lookup(keyCodeQuery, doc); ok {
		switch n := v.(type) {
		case float64:
			code = int(n)
		case int:
			code = n
		default:
			return nil, fmt.Errorf("%w: code %v is not a number", ErrMalformedResponse, v)
		}
	}
	if code != 0 {
		return &Result{Code: code, Text: diagnostic(code)}, nil
	}

	var sb strings.Builder
	groups, _ := lookupArray(translateResultQuery, doc)
	for _, group := range groups {
		segments, ok := group.([]any)
		if !ok {
			continue
		}
		for _, seg := range segments {
			sb.WriteString(stringField(seg, "tgt"))
		}
	}

	result := &Result{Text: sb.String()}
	if word, ok := lookup(wordQuery, doc); ok {
		result.Dictionary = dictionary(word)
	}
	return result, nil
}

// dictionary reads a dictResult.ec.word object, nil if word is not an
// object
func dictionary(word any) *Dictionary {
	obj, ok := word.(map[string]any)
	if !ok {
		return nil
	}

	d := &Dictionary{
		USPhone:      stringField(obj, "usphone"),
		UKPhone:      stringField(obj, "ukphone"),
		Translations: []PartOfSpeech{},
		WordForms:    []WordForm{},
	}
	trs, _ := obj["trs"].([]any)
	for _, tr := range trs {
		if _, ok := tr.(map[string]any); !ok {
			continue
		}
		d.Translations = append(d.Translations, PartOfSpeech{
			Pos:  stringField(tr, "pos"),
			Tran: stringField(tr, "tran"),
		})
	}
	wfs, _ := obj["wfs"].([]any)
	for _, wf := range wfs {
		entry, ok := wf.(map[string]any)
		if !ok {
			continue
		}
		inner, ok := entry["wf"].(map[string]any)
		if !ok {
			continue
		}
		d.WordForms = append(d.WordForms, WordForm{
			Name:  stringField(inner, "name"),
			Value: stringField(inner, "value"),
		})
	}
	return d
}

// stringField returns v[key] when v is an object and the field a string
func stringField(v any, key string) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}
