package template

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Text returns the output with markup stripped and entities decoded.
func (o Output) Text() string {
	if !strings.ContainsAny(o.Value, "<&") {
		return o.Value
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(o.Value))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String()
			}
			return o.Value
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
