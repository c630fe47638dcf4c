package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

var (
	ErrPathNotFound = errors.New("result path not found in response")
	ErrEmptyResult  = errors.New("result value is empty")
	ErrInvalidJSON  = errors.New("response body is not valid JSON")
)

// Result is the generated content pulled out of a provider response.
// Exactly one of Text or Structured is set.
type Result struct {
	Text       string
	Structured json.RawMessage
}

// ParsePath turns "candidates[0].content.parts[0].text" into the key list
// jsonparser expects: candidates, [0], content, parts, [0], text.
func ParsePath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("result path is empty")
	}

	var keys []string
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil, fmt.Errorf("result path %q has an empty segment", path)
		}

		name := segment
		var indexes string
		if i := strings.IndexByte(segment, '['); i >= 0 {
			name, indexes = segment[:i], segment[i:]
		}
		if name != "" {
			keys = append(keys, name)
		}

		for indexes != "" {
			end := strings.IndexByte(indexes, ']')
			if indexes[0] != '[' || end < 0 {
				return nil, fmt.Errorf("result path %q has a malformed index in %q", path, segment)
			}
			n, err := strconv.Atoi(indexes[1:end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("result path %q has a non-numeric index in %q", path, segment)
			}
			keys = append(keys, "["+strconv.Itoa(n)+"]")
			indexes = indexes[end+1:]
		}
	}

	return keys, nil
}

// ExtractResult walks the profile's result path through a successful
// provider response body.
func (p *Profile) ExtractResult(body []byte) (*Result, error) {
	// jsonparser stops reading once the path is found, so a truncated
	// document would otherwise pass
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}

	value, dataType, _, err := jsonparser.Get(body, p.resultKeys...)
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, p.ResultPath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", p.ResultPath, err)
	}

	switch dataType {
	case jsonparser.String:
		text, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", p.ResultPath, err)
		}
		if p.StripFences {
			text = StripCodeFences(text)
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyResult, p.ResultPath)
		}
		return &Result{Text: text}, nil
	case jsonparser.Object, jsonparser.Array:
		raw := make(json.RawMessage, len(value))
		copy(raw, value)
		return &Result{Structured: raw}, nil
	case jsonparser.Number, jsonparser.Boolean:
		return &Result{Text: string(value)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, p.ResultPath)
	}
}

var errorMessagePaths = [][]string{
	{"error", "message"},
	{"error"},
	{"message"},
	{"detail"},
}

// ErrorMessage returns the provider's error message from a failure body, or
// "" when none of the usual locations carries a string.
func ErrorMessage(body []byte) string {
	for _, keys := range errorMessagePaths {
		value, dataType, _, err := jsonparser.Get(body, keys...)
		if err != nil || dataType != jsonparser.String {
			continue
		}
		msg, err := jsonparser.ParseString(value)
		if err != nil {
			continue
		}
		if msg = strings.TrimSpace(msg); msg != "" {
			return msg
		}
	}
	return ""
}
