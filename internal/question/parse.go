package question

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
	"github.com/shubham-0921/kbc-ai/internal/game"
)

// Draft is a validated provider answer before it is bound to a topic, team
// and ID.
type Draft struct {
	Question     string
	Options      [game.OptionCount]string
	CorrectIndex int
	Explanation  string
}

// ExtractJSON returns the first balanced {...} block in content. Braces
// inside string literals are ignored.
func ExtractJSON(content string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escape := false
	for i, r := range content {
		if start == -1 {
			if r == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if inString {
			switch {
			case escape:
				escape = false
			case r == '\\':
				escape = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseQuestion extracts and validates a question object from raw provider
// output. Each failed rule yields a *errors.ValidationError naming the
// offending field.
func ParseQuestion(content string) (Draft, error) {
	obj, ok := ExtractJSON(content)
	if !ok {
		return Draft{}, kbcerrors.NewValidationError("json", "no JSON object in response")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return Draft{}, kbcerrors.NewValidationError("json", "response is not valid JSON").WithCause(err)
	}

	var d Draft
	var err error
	if d.Question, err = nonEmptyString(fields, "question"); err != nil {
		return Draft{}, err
	}
	if d.Options, err = options(fields); err != nil {
		return Draft{}, err
	}
	if d.CorrectIndex, err = correctIndex(fields); err != nil {
		return Draft{}, err
	}
	if d.Explanation, err = nonEmptyString(fields, "explanation"); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func nonEmptyString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", kbcerrors.NewValidationError(name, "missing")
	}
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return "", kbcerrors.NewValidationError(name, "must be a string").WithValue(string(raw))
	}
	if strings.TrimSpace(s) == "" {
		return "", kbcerrors.NewValidationError(name, "must not be empty")
	}
	return s, nil
}

func options(fields map[string]json.RawMessage) ([game.OptionCount]string, error) {
	var out [game.OptionCount]string
	raw, ok := fields["options"]
	if !ok {
		return out, kbcerrors.NewValidationError("options", "missing")
	}
	var list []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &list) != nil {
		return out, kbcerrors.NewValidationError("options", "must be an array")
	}
	if len(list) != game.OptionCount {
		return out, kbcerrors.NewValidationError("options", "must contain exactly 4 entries").WithValue(len(list))
	}
	for i, item := range list {
		if isNull(item) || json.Unmarshal(item, &out[i]) != nil {
			return out, kbcerrors.NewValidationError("options", "entries must be strings").WithValue(string(item))
		}
	}
	return out, nil
}

func correctIndex(fields map[string]json.RawMessage) (int, error) {
	raw, ok := fields["correctIndex"]
	if !ok {
		return 0, kbcerrors.NewValidationError("correctIndex", "missing")
	}
	var n float64
	if isNull(raw) || json.Unmarshal(raw, &n) != nil {
		return 0, kbcerrors.NewValidationError("correctIndex", "must be a number").WithValue(string(raw))
	}
	if n != math.Trunc(n) || n < 0 || n >= game.OptionCount {
		return 0, kbcerrors.NewValidationError("correctIndex", "must be an integer between 0 and 3").WithValue(n)
	}
	return int(n), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
