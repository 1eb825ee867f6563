package youdao

// AutoLanguage is the synthetic entry terminating every language list
var AutoLanguage = Language{Code: "auto", Label: "auto-detect"}

// Language is a selectable source or target language
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// State is the immutable result of a successful bootstrap. There is no
// partially populated State: NewState either returns a complete value or an
// error.
type State struct {
	domains   []string
	languages []Language
	secretKey string
	decodeKey [16]byte
	decodeIV  [16]byte
}

// NewState assembles a State. Upstream "auto" entries are dropped and the
// synthetic AutoLanguage is appended as the last language.
func NewState(domains []string, languages []Language, secretKey string, decodeKey, decodeIV [16]byte) (*State, error) {
	if secretKey == "" {
		return nil, ErrSecretKeyMissing
	}
	if domains == nil {
		return nil, ErrDomainListMalformed
	}
	if languages == nil {
		return nil, ErrLanguageListMalformed
	}

	langs := make([]Language, 0, len(languages)+1)
	for _, l := range languages {
		if l.Code == AutoLanguage.Code {
			continue
		}
		langs = append(langs, l)
	}
	langs = append(langs, AutoLanguage)

	return &State{
		domains:   append([]string{}, domains...),
		languages: langs,
		secretKey: secretKey,
		decodeKey: decodeKey,
		decodeIV:  decodeIV,
	}, nil
}

// Domains returns the translation scenarios, indexed by domain index
func (s *State) Domains() []string {
	return append([]string{}, s.domains...)
}

// Languages returns the supported languages ending with AutoLanguage
func (s *State) Languages() []Language {
	return append([]Language{}, s.languages...)
}
