package pattern

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrSyntax is wrapped by every mini-notation parse failure.
var ErrSyntax = errors.New("syntax error")

var tokenRe = regexp.MustCompile(`^[A-Za-z0-9_.:#-]+$`)

func validToken(s string) bool {
	return s == Rest || tokenRe.MatchString(s)
}

// Mini parses a flat mini-notation sequence such as "[bd ~ hh bd]" into a
// single-layer pattern. The surrounding brackets are optional; nesting is not
// supported.
func Mini(src string) (Pattern, error) {
	body := strings.TrimSpace(src)
	if strings.HasPrefix(body, "[") {
		if !strings.HasSuffix(body, "]") {
			return Pattern{}, errors.Wrapf(ErrSyntax, "unclosed group in %q", src)
		}
		body = strings.TrimSpace(body[1 : len(body)-1])
	} else if strings.HasSuffix(body, "]") {
		return Pattern{}, errors.Wrapf(ErrSyntax, "unexpected ] in %q", src)
	}

	tokens := strings.Fields(body)
	if len(tokens) == 0 {
		return Pattern{}, errors.Wrapf(ErrSyntax, "empty sequence %q", src)
	}
	for i, tok := range tokens {
		if strings.ContainsAny(tok, "[]") {
			return Pattern{}, errors.Wrapf(ErrSyntax, "nested group at step %d in %q", i, src)
		}
		if !validToken(tok) {
			return Pattern{}, errors.Wrapf(ErrSyntax, "bad token %q at step %d", tok, i)
		}
	}
	return Sequence(tokens...), nil
}

// MustMini is like Mini but panics on error.
func MustMini(src string) Pattern {
	p, err := Mini(src)
	if err != nil {
		panic(err)
	}
	return p
}
