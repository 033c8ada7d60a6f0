package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

const recordIndent = "    "

// decodeObject parses a JSON document whose top level must be an object,
// keeping key order and number literals intact
func decodeObject(data []byte) (*domain.Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("top-level value is not an object")
	}

	obj, err := readObject(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}
	return obj, nil
}

func readValue(dec *json.Decoder, tok json.Token) (any, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		return readObject(dec)
	case '[':
		return readArray(dec)
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

func readObject(dec *json.Decoder) (*domain.Object, error) {
	obj := domain.NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, not string", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := readValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func readArray(dec *json.Decoder) ([]any, error) {
	arr := make([]any, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := readValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// encodeObject writes obj with four-space indentation. Non-ASCII text and
// characters such as '&' in URLs are written as-is.
func encodeObject(obj *domain.Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, obj, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any, depth int) error {
	switch val := v.(type) {
	case *domain.Object:
		if val.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, key := range val.Keys() {
			buf.WriteString(strings.Repeat(recordIndent, depth+1))
			if err := encodeString(buf, key); err != nil {
				return err
			}
			buf.WriteString(": ")
			child, _ := val.Get(key)
			if err := encodeValue(buf, child, depth+1); err != nil {
				return err
			}
			if i < val.Len()-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(recordIndent, depth))
		buf.WriteByte('}')
	case []any:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, child := range val {
			buf.WriteString(strings.Repeat(recordIndent, depth+1))
			if err := encodeValue(buf, child, depth+1); err != nil {
				return err
			}
			if i < len(val)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(recordIndent, depth))
		buf.WriteByte(']')
	case string:
		return encodeString(buf, val)
	case json.Number:
		buf.WriteString(val.String())
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
