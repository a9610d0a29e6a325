// ABOUTME: Repair pipeline turning free-form LLM replies into JSON objects
// ABOUTME: Ordered strategies are applied cumulatively until the candidate parses

package translation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Strategy rewrites a candidate that failed to parse. Returning the input
// unchanged means the strategy does not apply.
type Strategy struct {
	Name  string
	Apply func(candidate string) string
}

// DefaultStrategies is the repair order used by Repair
var DefaultStrategies = []Strategy{
	{Name: "extract_delimited", Apply: ExtractDelimited},
	{Name: "trim_trailing_closers", Apply: TrimTrailingClosers},
	{Name: "normalize_quotes", Apply: NormalizeQuotes},
	{Name: "wrap_bare_key_value", Apply: WrapBareKeyValue},
}

var bareKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ -]*$`)

// Repair parses raw as a JSON object using DefaultStrategies
func Repair(raw string) (map[string]interface{}, bool) {
	return RepairWith(raw, DefaultStrategies)
}

// RepairWith tries a strict parse first and then applies each strategy in
// order to the running candidate, re-parsing after every change. A top-level
// array yields its first object.
func RepairWith(raw string, strategies []Strategy) (map[string]interface{}, bool) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nil, false
	}
	if obj, ok := decodeObject(candidate); ok {
		return obj, true
	}

	for _, strategy := range strategies {
		next := strategy.Apply(candidate)
		if next == candidate {
			continue
		}
		candidate = next
		if obj, ok := decodeObject(candidate); ok {
			return obj, true
		}
	}
	return nil, false
}

func decodeObject(candidate string) (map[string]interface{}, bool) {
	var value interface{}
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, false
	}

	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case []interface{}:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]interface{}); ok {
				return obj, true
			}
		}
	}
	return nil, false
}

// ExtractDelimited cuts the first balanced object or array out of the
// text, dropping surrounding prose or code fences. An unbalanced candidate
// is cut at the last closer of the opener's kind, or kept to the end when
// there is none.
func ExtractDelimited(candidate string) string {
	start := strings.IndexAny(candidate, "{[")
	if start < 0 {
		return candidate
	}

	if end := balancedEnd(candidate, start); end >= 0 {
		return candidate[start : end+1]
	}

	closer := "}"
	if candidate[start] == '[' {
		closer = "]"
	}

	end := strings.LastIndex(candidate, closer)
	if end < start {
		return strings.TrimSpace(candidate[start:])
	}
	return candidate[start : end+1]
}

// TrimTrailingClosers drops closing braces and brackets from the end of the
// candidate while there are more closers than openers outside strings.
func TrimTrailingClosers(candidate string) string {
	excess := closerExcess(candidate)
	trimmed := strings.TrimRightFunc(candidate, isSpace)
	for excess > 0 && trimmed != "" {
		last := trimmed[len(trimmed)-1]
		if last != '}' && last != ']' {
			break
		}
		trimmed = strings.TrimRightFunc(trimmed[:len(trimmed)-1], isSpace)
		excess--
	}
	if excess == closerExcess(candidate) {
		return candidate
	}
	return trimmed
}

// NormalizeQuotes turns a single-quoted object into a double-quoted one. It
// only applies to delimited candidates that contain no double quotes.
func NormalizeQuotes(candidate string) string {
	if !strings.HasPrefix(candidate, "{") && !strings.HasPrefix(candidate, "[") {
		return candidate
	}
	if strings.Contains(candidate, `"`) {
		return candidate
	}
	return strings.ReplaceAll(candidate, "'", `"`)
}

// WrapBareKeyValue rebuilds "key: value" lines as a JSON object, quoting
// bare keys and values. Outer braces are tolerated. Every non-blank line
// must be a key/value pair for the strategy to apply.
func WrapBareKeyValue(candidate string) string {
	body := strings.TrimSpace(candidate)
	if strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}") {
		body = body[1 : len(body)-1]
	}

	var fields []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		idx := strings.Index(line, ":")
		if idx <= 0 {
			return candidate
		}

		key := strings.Trim(strings.TrimSpace(line[:idx]), `"'`)
		if !bareKeyPattern.MatchString(key) {
			return candidate
		}

		rest := line[idx+1:]
		if strings.HasPrefix(rest, "//") {
			return candidate
		}

		value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), ","))
		if !json.Valid([]byte(value)) {
			quoted, err := json.Marshal(strings.Trim(value, `"'`))
			if err != nil {
				return candidate
			}
			value = string(quoted)
		}

		encodedKey, _ := json.Marshal(key)
		fields = append(fields, string(encodedKey)+": "+value)
	}

	if len(fields) == 0 {
		return candidate
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

// closerExcess counts closers minus openers, ignoring string contents
func closerExcess(candidate string) int {
	depth := 0
	walkStructural(candidate, 0, func(i int, ch byte) bool {
		switch ch {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
		return true
	})
	return -depth
}

// balancedEnd returns the index where the nesting opened at start closes,
// or -1 when it never does.
func balancedEnd(candidate string, start int) int {
	depth := 0
	end := -1
	walkStructural(candidate, start, func(i int, ch byte) bool {
		switch ch {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				end = i
				return false
			}
		}
		return true
	})
	return end
}

// walkStructural calls visit for every byte from start that lies outside a
// double-quoted string, stopping when visit returns false.
func walkStructural(candidate string, start int, visit func(i int, ch byte) bool) {
	inString := false
	escaped := false
	for i := start; i < len(candidate); i++ {
		ch := candidate[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			continue
		}
		if !visit(i, ch) {
			return
		}
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\r' || r == '\t'
}
