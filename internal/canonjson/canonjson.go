// Package canonjson produces deterministic JSON for the analyzer output
// document and for stored run records.
//
// Determinism rules:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats, no null - both return an error
//
// The analyzer emits the same document bytes for the same design on every
// run; run history diffs and golden tests depend on that.
package canonjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Marshal serializes v into canonical JSON bytes.
//
// Supported value types: string, bool, int, int64, uint32, uint64,
// []any, []string and map[string]any. Anything else is an error; the
// document builders only produce these shapes.
func Marshal(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return marshalString(val)
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case int:
		return fmt.Appendf(nil, "%d", val), nil
	case int64:
		return fmt.Appendf(nil, "%d", val), nil
	case uint32:
		return fmt.Appendf(nil, "%d", val), nil
	case uint64:
		return fmt.Appendf(nil, "%d", val), nil
	case []string:
		arr := make([]any, len(val))
		for i, s := range val {
			arr[i] = s
		}
		return marshalArray(arr)
	case []any:
		return marshalArray(val)
	case map[string]any:
		return marshalObject(val)
	case float64, float32:
		return nil, fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

func marshalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := Marshal(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sortKeysUTF16(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalString(k)
		if err != nil {
			return nil, fmt.Errorf("object key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := Marshal(obj[k])
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// sortKeysUTF16 sorts keys by their UTF-16 code unit sequences.
// For ASCII keys this matches byte order; it only diverges for keys
// containing supplementary-plane characters.
func sortKeysUTF16(keys []string) {
	slices.SortFunc(keys, func(a, b string) int {
		ua := utf16.Encode([]rune(a))
		ub := utf16.Encode([]rune(b))
		return slices.Compare(ua, ub)
	})
}

// marshalString produces a canonical JSON string with NFC normalization.
// Only control characters (U+0000..U+001F), backslash and quote are
// escaped; < > & and U+2028/U+2029 are emitted literally.
func marshalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}

	// json.Encoder escapes U+2028/U+2029 for JavaScript embedding; undo
	// that without touching a literal backslash followed by "u2028".
	result = unescapeSeparators(result)

	return result, nil
}

func unescapeSeparators(b []byte) []byte {
	s := string(b)
	if !strings.Contains(s, `\u202`) {
		return b
	}
	var out strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\\' {
			out.WriteString(`\\`)
			i += 2
			continue
		}
		if strings.HasPrefix(s[i:], `\u2028`) {
			out.WriteString(" ")
			i += 6
			continue
		}
		if strings.HasPrefix(s[i:], `\u2029`) {
			out.WriteString(" ")
			i += 6
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return []byte(out.String())
}
