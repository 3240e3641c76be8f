package linkscan

import (
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"webmention/internal/weburl"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a key/value pair of a JSON object, kept in document order.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON value. Only the fields matching Kind are set: Bool
// for KindBool, Text for KindString and KindNumber (the number literal),
// Items for KindArray and Members for KindObject.
type Value struct {
	Kind    Kind
	Bool    bool
	Text    string
	Items   []Value
	Members []Member
}

// MaxDepth is the deepest nesting ParseJSON decodes, matching the decoder's
// own limit.
const MaxDepth = 10000

// ErrTooDeep is returned by ParseJSON for a document that opens more than
// MaxDepth arrays or objects. Such documents can still be searched with
// RawJSONContainsURL.
var ErrTooDeep = errors.New("json nesting exceeds maximum depth")

// ParseJSON decodes b, which must hold exactly one JSON value optionally
// surrounded by whitespace.
func ParseJSON(b []byte) (Value, error) {
	if nestingDepth(b) > MaxDepth {
		return Value{}, ErrTooDeep
	}
	if err := jx.DecodeBytes(b).Validate(); err != nil {
		return Value{}, errors.Wrap(err, "validate json")
	}

	v, err := decodeValue(jx.DecodeBytes(b))
	if err != nil {
		return Value{}, errors.Wrap(err, "decode json")
	}

	return v, nil
}

func decodeValue(d *jx.Decoder) (Value, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return Value{}, errors.Wrap(err, "string")
		}

		return Value{Kind: KindString, Text: s}, nil
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return Value{}, errors.Wrap(err, "number")
		}

		return Value{Kind: KindNumber, Text: n.String()}, nil
	case jx.Bool:
		b, err := d.Bool()
		if err != nil {
			return Value{}, errors.Wrap(err, "bool")
		}

		return Value{Kind: KindBool, Bool: b}, nil
	case jx.Null:
		if err := d.Null(); err != nil {
			return Value{}, errors.Wrap(err, "null")
		}

		return Value{Kind: KindNull}, nil
	case jx.Array:
		v := Value{Kind: KindArray}
		err := d.Arr(func(d *jx.Decoder) error {
			item, err := decodeValue(d)
			if err != nil {
				return err
			}
			v.Items = append(v.Items, item)

			return nil
		})
		if err != nil {
			return Value{}, errors.Wrap(err, "array")
		}

		return v, nil
	case jx.Object:
		v := Value{Kind: KindObject}
		err := d.Obj(func(d *jx.Decoder, key string) error {
			item, err := decodeValue(d)
			if err != nil {
				return err
			}
			v.Members = append(v.Members, Member{Key: key, Value: item})

			return nil
		})
		if err != nil {
			return Value{}, errors.Wrap(err, "object")
		}

		return v, nil
	default:
		return Value{}, errors.New("unexpected token")
	}
}

// Visit walks v depth-first, calling fn for v and every nested value. It
// stops as soon as fn returns false and reports whether the walk completed.
func (v Value) Visit(fn func(Value) bool) bool {
	if !fn(v) {
		return false
	}

	switch v.Kind {
	case KindArray:
		for _, item := range v.Items {
			if !item.Visit(fn) {
				return false
			}
		}
	case KindObject:
		for _, m := range v.Members {
			if !m.Value.Visit(fn) {
				return false
			}
		}
	case KindNull, KindBool, KindNumber, KindString:
	}

	return true
}

// JSONContainsURL reports whether some string value of v, at any depth, equals
// target once both are normalized. Object keys are not considered.
func JSONContainsURL(v Value, target *url.URL) bool {
	want := target.String()
	found := false
	v.Visit(func(n Value) bool {
		if n.Kind == KindString && sameURL(n.Text, want) {
			found = true

			return false
		}

		return true
	})

	return found
}

func sameURL(candidate, want string) bool {
	if candidate == want {
		return true
	}

	got, err := weburl.NormalizeString(candidate)

	return err == nil && got == want
}

// RawJSONContainsURL is JSONContainsURL working on the encoded document
// without building a Value, so it has no depth bound. Every string literal
// not followed by a colon is a value. The document is not validated.
func RawJSONContainsURL(b []byte, target *url.URL) bool {
	want := target.String()
	for i := 0; i < len(b); i++ {
		if b[i] != '"' {
			continue
		}
		end := stringEnd(b, i)
		if end < 0 {
			return false
		}
		literal := b[i : end+1]
		i = end

		if isKey(b, end+1) {
			continue
		}
		s, err := jx.DecodeBytes(literal).Str()
		if err == nil && sameURL(s, want) {
			return true
		}
	}

	return false
}

// nestingDepth reports the deepest array or object nesting in b, ignoring
// brackets inside string literals. Only documents starting with '[' or '{'
// are measured.
func nestingDepth(b []byte) int {
	i := skipSpace(b, 0)
	if i == len(b) || (b[i] != '[' && b[i] != '{') {
		return 0
	}

	depth, deepest := 0, 0
	for ; i < len(b); i++ {
		switch b[i] {
		case '"':
			end := stringEnd(b, i)
			if end < 0 {
				return deepest
			}
			i = end
		case '[', '{':
			depth++
			deepest = max(deepest, depth)
		case ']', '}':
			depth--
		}
	}

	return deepest
}

// stringEnd returns the index of the quote closing the literal opened at
// start, or -1 when it is unterminated.
func stringEnd(b []byte, start int) int {
	for i := start + 1; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}

	return -1
}

func isKey(b []byte, i int) bool {
	i = skipSpace(b, i)

	return i < len(b) && b[i] == ':'
}

func skipSpace(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}

	return i
}
