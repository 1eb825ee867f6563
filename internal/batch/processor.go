package batch

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Entry is one text to translate with optional language overrides
type Entry struct {
	Text string
	From string
	To   string
}

// ReadBatchFile reads texts from a file, one per line.
// Supports formats:
// - Text only: "hello" (languages come from the command line)
// - With target: "hello = zh-CHS"
// - With source and target: "bonjour = fr:en"
// Empty lines and lines starting with '#' are skipped.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []Entry
	for i, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// languagePart matches "to" or "from:to" language codes such as zh-CHS
var languagePart = regexp.MustCompile(`^[A-Za-z-]+(:[A-Za-z-]+)?$`)

func parseLine(line string) (Entry, error) {
	// The last '=' separates the language part so texts may contain '='
	idx := strings.LastIndex(line, "=")
	if idx < 0 {
		return Entry{Text: line}, nil
	}

	text := strings.TrimSpace(line[:idx])
	langs := strings.TrimSpace(line[idx+1:])
	if !languagePart.MatchString(langs) {
		// Not a language part, treat the whole line as text
		return Entry{Text: line}, nil
	}
	if text == "" {
		return Entry{}, fmt.Errorf("missing text before '='")
	}

	if from, to, ok := strings.Cut(langs, ":"); ok {
		return Entry{Text: text, From: from, To: to}, nil
	}
	return Entry{Text: text, To: langs}, nil
}

// splitLines splits on newlines, accepting Windows line endings
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
