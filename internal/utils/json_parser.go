package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseModelJSON decodes a JSON object out of raw language-model output. The
// model is asked for a bare JSON object but in practice may wrap it in a
// markdown code fence or surround it with prose, so decoding walks an
// extraction ladder:
//  1. direct parse
//  2. strip markdown code-fence markers
//  3. balanced-brace substring between the first '{' and its closing '}'
// A trailing-comma cleanup is applied as a last resort before giving up.
func ParseModelJSON(input string, target interface{}) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := stripCodeFence(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractObject(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
		if cleaned := dropTrailingCommas(extracted); cleaned != extracted {
			if err := json.Unmarshal([]byte(cleaned), target); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("no JSON object found in input: %s", truncate(input, 100))
}

// stripCodeFence extracts the body of a ```json ... ``` (or bare ```) block.
func stripCodeFence(input string) string {
	re := regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	if m := re.FindStringSubmatch(input); len(m) > 1 {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") {
			return body
		}
	}
	return ""
}

// extractObject returns the first balanced top-level JSON object in the text,
// ignoring braces inside string literals.
func extractObject(input string) string {
	start := strings.Index(input, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	for i, ch := range input[start:] {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return input[start : start+i+1]
			}
		}
	}
	return ""
}

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

func dropTrailingCommas(s string) string {
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
