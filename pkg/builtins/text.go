package builtins

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/lemonberrylabs/asteval/pkg/types"
)

var errURIMalformed = errors.New("URIError: URI malformed")

// registerText registers the URI and base64 string helpers.
func (r *Registry) registerText() {
	r.Register("encodeURIComponent", encodeURIComponent)
	r.Register("decodeURIComponent", decodeURIComponent)
	r.Register("btoa", btoa)
	r.Register("atob", atob)
}

func encodeURIComponent(args []types.Value) (types.Value, error) {
	s := types.ToString(arg(args, 0))
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0xf])
	}
	return types.NewString(b.String()), nil
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

func decodeURIComponent(args []types.Value) (types.Value, error) {
	decoded, err := url.PathUnescape(types.ToString(arg(args, 0)))
	if err != nil || !utf8.ValidString(decoded) {
		return types.Undefined, errURIMalformed
	}
	return types.NewString(decoded), nil
}

// btoa encodes a string of Latin-1 characters.
func btoa(args []types.Value) (types.Value, error) {
	s := types.ToString(arg(args, 0))
	data := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return types.Undefined, errors.New("InvalidCharacterError: btoa: the string contains characters outside of the Latin1 range")
		}
		data = append(data, byte(r))
	}
	return types.NewString(base64.StdEncoding.EncodeToString(data)), nil
}

// atob decodes base64 into a string with one character per byte. ASCII
// whitespace is ignored and padding is optional.
func atob(args []types.Value) (types.Value, error) {
	s := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r' {
			return -1
		}
		return r
	}, types.ToString(arg(args, 0)))

	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return types.Undefined, errors.New("InvalidCharacterError: atob: the string to be decoded is not correctly encoded")
	}
	var b strings.Builder
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return types.NewString(b.String()), nil
}
