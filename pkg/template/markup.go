package template

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/expression"
	"github.com/goliatone/go-formexpr/pkg/value"
)

const (
	attrIf    = "x-if"
	attrFor   = "x-for"
	indexName = "$index"
)

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

type nodeKind int

const (
	nodeText nodeKind = iota
	nodeElement
)

// piece is literal text or a compiled `{expr}` placeholder.
type piece struct {
	literal string
	expr    *expression.Expression
}

type attribute struct {
	namespace string
	key       string
	pieces    []piece
}

type node struct {
	kind     nodeKind
	tag      string
	dataAtom atom.Atom
	attrs    []attribute
	text     []piece
	children []*node

	cond    *expression.Expression
	loopVar string
	loop    *expression.Expression
}

func (c *Compiler) parseMarkup(src string) ([]*node, error) {
	trimmed := strings.TrimSpace(src)
	body := trimmed[len(fragmentOpen) : len(trimmed)-len(fragmentClose)]

	parsed, err := html.ParseFragment(strings.NewReader(body), fragmentContext)
	if err != nil {
		return nil, &expression.ParseError{Source: src, Offset: -1, Err: err}
	}

	out := make([]*node, 0, len(parsed))
	for _, n := range parsed {
		compiled, err := c.compileNode(src, n)
		if err != nil {
			return nil, err
		}
		if compiled != nil {
			out = append(out, compiled)
		}
	}
	return out, nil
}

func (c *Compiler) compileNode(src string, n *html.Node) (*node, error) {
	switch n.Type {
	case html.TextNode:
		pieces, err := c.compilePieces(src, n.Data)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeText, text: pieces}, nil
	case html.ElementNode:
	default:
		// comments and doctypes are dropped
		return nil, nil
	}

	out := &node{kind: nodeElement, tag: n.Data, dataAtom: n.DataAtom}
	for _, a := range n.Attr {
		switch {
		case a.Namespace == "" && a.Key == attrIf:
			cond, err := c.exprs.Compile(unwrapBraces(a.Val))
			if err != nil {
				return nil, err
			}
			out.cond = cond
		case a.Namespace == "" && a.Key == attrFor:
			name, list, err := splitLoop(a.Val)
			if err != nil {
				return nil, &expression.ParseError{Source: src, Offset: -1, Err: err}
			}
			loop, err := c.exprs.Compile(list)
			if err != nil {
				return nil, err
			}
			out.loopVar = name
			out.loop = loop
		default:
			pieces, err := c.compilePieces(src, a.Val)
			if err != nil {
				return nil, err
			}
			out.attrs = append(out.attrs, attribute{namespace: a.Namespace, key: a.Key, pieces: pieces})
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		compiled, err := c.compileNode(src, child)
		if err != nil {
			return nil, err
		}
		if compiled != nil {
			out.children = append(out.children, compiled)
		}
	}
	return out, nil
}

// compilePieces splits text on `{expr}` placeholders. Braces nest and quoted
// strings are skipped so `{ {a: 1}.a }` and `{"}"}` work.
func (c *Compiler) compilePieces(src, text string) ([]piece, error) {
	var (
		pieces []piece
		start  int
	)

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			end, err := matchBrace(text, i)
			if err != nil {
				return nil, &expression.ParseError{Source: src, Offset: -1, Err: err}
			}
			if i > start {
				pieces = append(pieces, piece{literal: text[start:i]})
			}
			code := strings.TrimSpace(text[i+1 : end])
			if code != "" {
				e, err := c.exprs.Compile(code)
				if err != nil {
					return nil, err
				}
				pieces = append(pieces, piece{expr: e})
			}
			i = end
			start = end + 1
		case '}':
			return nil, &expression.ParseError{Source: src, Offset: -1, Err: fmt.Errorf("unexpected '}' in %q", text)}
		}
	}
	if start < len(text) {
		pieces = append(pieces, piece{literal: text[start:]})
	}
	return pieces, nil
}

func matchBrace(text string, open int) (int, error) {
	var (
		depth   int
		quote   byte
		escaped bool
	)
	for i := open; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("unterminated '{' in %q", text)
}

func unwrapBraces(v string) string {
	trimmed := strings.TrimSpace(v)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	return trimmed
}

// splitLoop parses `item in expr`.
func splitLoop(v string) (string, string, error) {
	trimmed := unwrapBraces(v)
	name, list, ok := strings.Cut(trimmed, " in ")
	name = strings.TrimSpace(name)
	list = strings.TrimSpace(list)
	if !ok || !isIdentifier(name) || list == "" {
		return "", "", fmt.Errorf("invalid %s %q: want \"item in list\"", attrFor, v)
	}
	return name, list, nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (t *Template) renderMarkup(ctx evalctx.EvalContext) (Output, error) {
	var buf bytes.Buffer
	for _, n := range t.nodes {
		rendered, err := n.render(ctx)
		if err != nil {
			return Output{}, err
		}
		for _, r := range rendered {
			if err := html.Render(&buf, r); err != nil {
				return Output{}, fmt.Errorf("template: render markup: %w", err)
			}
		}
	}

	out := buf.String()
	if t.policy != nil {
		out = t.policy.Sanitize(out)
	}
	return Output{Kind: KindMarkup, Value: out}, nil
}

func (n *node) render(ctx evalctx.EvalContext) ([]*html.Node, error) {
	if n.loop == nil {
		return n.renderOnce(ctx)
	}

	v, err := n.loop.Eval(ctx)
	if err != nil {
		return nil, err
	}
	items, err := listItems(v)
	if err != nil {
		return nil, &expression.EvaluationError{Source: n.loop.Source(), Err: err}
	}

	var out []*html.Node
	for i, item := range items {
		scope := make(evalctx.EvalContext, len(ctx)+2)
		for key, val := range ctx {
			scope[key] = val
		}
		scope[n.loopVar] = item
		scope[indexName] = i

		rendered, err := n.renderOnce(scope)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered...)
	}
	return out, nil
}

func (n *node) renderOnce(ctx evalctx.EvalContext) ([]*html.Node, error) {
	if n.cond != nil {
		ok, err := n.cond.Bool(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}

	if n.kind == nodeText {
		text, err := joinPieces(n.text, ctx)
		if err != nil {
			return nil, err
		}
		return []*html.Node{{Type: html.TextNode, Data: text}}, nil
	}

	el := &html.Node{Type: html.ElementNode, Data: n.tag, DataAtom: n.dataAtom}
	for _, a := range n.attrs {
		val, keep, err := attributeValue(a.pieces, ctx)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		el.Attr = append(el.Attr, html.Attribute{Namespace: a.namespace, Key: a.key, Val: val})
	}

	for _, child := range n.children {
		rendered, err := child.render(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range rendered {
			el.AppendChild(r)
		}
	}
	return []*html.Node{el}, nil
}

// attributeValue follows JSX rules for a lone placeholder: nil and false drop
// the attribute, true renders it empty.
func attributeValue(pieces []piece, ctx evalctx.EvalContext) (string, bool, error) {
	if len(pieces) == 1 && pieces[0].expr != nil {
		v, err := pieces[0].expr.Eval(ctx)
		if err != nil {
			return "", false, err
		}
		switch t := v.(type) {
		case nil:
			return "", false, nil
		case bool:
			return "", t, nil
		default:
			return displayPiece(v), true, nil
		}
	}
	text, err := joinPieces(pieces, ctx)
	return text, true, err
}

func joinPieces(pieces []piece, ctx evalctx.EvalContext) (string, error) {
	var b strings.Builder
	for _, p := range pieces {
		if p.expr == nil {
			b.WriteString(p.literal)
			continue
		}
		v, err := p.expr.Eval(ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(displayPiece(v))
	}
	return b.String(), nil
}

// displayPiece renders lists by concatenating their items and drops
// booleans, as JSX children do.
func displayPiece(v any) string {
	switch t := v.(type) {
	case bool:
		return ""
	case []any:
		var b strings.Builder
		for _, item := range t {
			b.WriteString(displayPiece(item))
		}
		return b.String()
	default:
		return value.Display(v)
	}
}

var errNotList = errors.New("x-for value is not a list")

func listItems(v any) ([]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return t, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T", errNotList, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
