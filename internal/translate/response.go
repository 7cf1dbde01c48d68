package translate

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var codeFenceRegex = regexp.MustCompile("```(?:json)?\\s*")

// parseResponse pulls the JSON results out of a model reply and checks they
// cover exactly the requested indices
func parseResponse(
	response string,
	items []TranslationItem,
) ([]TranslationResult, error) {
	response = cleanJSONResponse(response)
	if response == "" {
		return nil, errors.New("empty model response")
	}

	results, err := extractTranslationResults(response)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"failed to parse JSON response (response: %s)",
			truncateString(response, 200),
		)
	}

	if len(results) != len(items) {
		return nil, errors.Newf(
			"expected %d results, got %d",
			len(items),
			len(results),
		)
	}

	wanted := make(map[int]bool, len(items))
	for _, item := range items {
		wanted[item.Index] = true
	}
	for _, r := range results {
		if !wanted[r.Index] {
			return nil, errors.Newf("unexpected result index %d", r.Index)
		}
		delete(wanted, r.Index)
	}
	if len(wanted) > 0 {
		return nil, errors.Newf("%d indices missing from response", len(wanted))
	}

	return results, nil
}

func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = codeFenceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// escapes backslashes that start invalid JSON escapes such as \N, so the
// literal ASS line break survives decoding
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			result.WriteByte(s[i])
			continue
		}
		switch next := s[i+1]; next {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
			result.WriteByte('\\')
			result.WriteByte(next)
		default:
			result.WriteString(`\\`)
			result.WriteByte(next)
		}
		i++
	}

	return result.String()
}

// scans for the first JSON value that decodes to results, either a bare
// array or an array under a wrapper key
func extractTranslationResults(text string) ([]TranslationResult, error) {
	text = fixInvalidEscapes(text)

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		if results, ok := tryExtractResults(raw); ok {
			return results, nil
		}
	}
	return nil, errors.New("no valid translation JSON found in response")
}

var wrapperKeys = []string{"results", "translations", "data", "items"}

func tryExtractResults(raw json.RawMessage) ([]TranslationResult, bool) {
	var results []TranslationResult
	if err := json.Unmarshal(raw, &results); err == nil && hasText(results) {
		return results, true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}
	for _, key := range wrapperKeys {
		fieldRaw, ok := wrapper[key]
		if !ok {
			continue
		}
		var fieldResults []TranslationResult
		if err := json.Unmarshal(fieldRaw, &fieldResults); err == nil && hasText(fieldResults) {
			return fieldResults, true
		}
	}

	return nil, false
}

func hasText(results []TranslationResult) bool {
	for _, r := range results {
		if r.Text != "" {
			return true
		}
	}
	return false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
