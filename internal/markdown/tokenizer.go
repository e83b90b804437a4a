package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// TokenType distinguishes structural tokens from leaves.
type TokenType int

const (
	TokenLeaf TokenType = iota
	TokenOpen
	TokenClose
)

// Token is one element of the flat stream produced by Tokenize.
type Token struct {
	Type    TokenType
	Kind    string
	Content string
}

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
)

// rawMatter receives the undecoded front matter text.
type rawMatter struct {
	data  []byte
	found bool
}

var yamlMatter = frontmatter.NewFormat("---", "---", func(data []byte, v interface{}) error {
	m, ok := v.(*rawMatter)
	if !ok {
		return fmt.Errorf("markdown: unexpected front matter target %T", v)
	}
	m.data = append([]byte(nil), data...)
	m.found = true
	return nil
})

// splitFrontMatter separates a --- delimited block on the first line from the
// body. A block without a closing delimiter is treated as body.
func splitFrontMatter(source []byte) (rawMatter, []byte) {
	if !bytes.HasPrefix(source, []byte("---")) {
		return rawMatter{}, source
	}
	var m rawMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &m, yamlMatter)
	if err != nil {
		return rawMatter{}, source
	}
	return m, body
}

// Tokenize converts Markdown source into a flat token stream. Containers are
// emitted as paired open/close tokens; text-bearing nodes are leaves.
func Tokenize(source []byte) ([]Token, error) {
	matter, body := splitFrontMatter(source)

	t := &tokenizer{source: body}
	if matter.found {
		t.leaf(KindFrontMatter, string(matter.data))
	}

	doc := engine.Parser().Parse(text.NewReader(body))
	if err := ast.Walk(doc, t.visit); err != nil {
		return nil, fmt.Errorf("markdown: walk: %w", err)
	}
	return t.tokens, nil
}

type tokenizer struct {
	source []byte
	tokens []Token
}

func (t *tokenizer) open(kind string) {
	t.tokens = append(t.tokens, Token{Type: TokenOpen, Kind: kind})
}

func (t *tokenizer) close(kind string) {
	t.tokens = append(t.tokens, Token{Type: TokenClose, Kind: kind})
}

func (t *tokenizer) leaf(kind, content string) {
	t.tokens = append(t.tokens, Token{Type: TokenLeaf, Kind: kind, Content: content})
}

func (t *tokenizer) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Document:
		return ast.WalkContinue, nil

	case *ast.Text:
		if entering {
			value := n.Segment.Value(t.source)
			if !n.IsRaw() {
				value = resolve(value)
			}
			t.leaf(KindText, string(value))
			switch {
			case n.HardLineBreak():
				t.leaf(KindHardBreak, "\n")
			case n.SoftLineBreak():
				t.leaf(KindSoftBreak, "\n")
			}
		}
		return ast.WalkSkipChildren, nil

	case *ast.String:
		if entering {
			value := n.Value
			if !n.IsCode() && !n.IsRaw() {
				value = resolve(value)
			}
			t.leaf(KindText, string(value))
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeSpan:
		if entering {
			t.leaf(KindCodeInline, childText(n, t.source))
		}
		return ast.WalkSkipChildren, nil

	case *ast.FencedCodeBlock:
		if entering {
			t.leaf(KindFence, lines(n, t.source))
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			t.leaf(KindCodeBlock, lines(n, t.source))
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock:
		if entering {
			content := lines(n, t.source)
			if n.HasClosure() {
				content += string(n.ClosureLine.Value(t.source))
			}
			t.leaf(KindHTMLBlock, content)
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			var sb strings.Builder
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				sb.Write(seg.Value(t.source))
			}
			t.leaf(KindHTMLInline, sb.String())
		}
		return ast.WalkSkipChildren, nil

	case *ast.AutoLink:
		if entering {
			t.leaf(KindAutoLink, string(n.Label(t.source)))
		}
		return ast.WalkSkipChildren, nil

	case *ast.ThematicBreak:
		if entering {
			t.leaf(KindHR, "")
		}
		return ast.WalkSkipChildren, nil

	// goldmark's header is itself the row; the body has no wrapper node.
	case *east.TableHeader:
		if entering {
			t.open(KindTableHead)
			t.open(KindTableRow)
		} else {
			t.close(KindTableRow)
			t.close(KindTableHead)
		}
		return ast.WalkContinue, nil

	case *east.TableRow:
		if entering {
			if _, ok := n.PreviousSibling().(*east.TableHeader); ok {
				t.open(KindTableBody)
			}
			t.open(KindTableRow)
		} else {
			t.close(KindTableRow)
			if n.NextSibling() == nil {
				t.close(KindTableBody)
			}
		}
		return ast.WalkContinue, nil
	}

	kind := containerKind(n)
	if entering {
		t.open(kind)
	} else {
		t.close(kind)
	}
	return ast.WalkContinue, nil
}

func containerKind(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return KindParagraph
	case *ast.Heading:
		return KindHeading
	case *ast.Blockquote:
		return KindBlockquote
	case *ast.List:
		if n.IsOrdered() {
			return KindOrderedList
		}
		return KindBulletList
	case *ast.ListItem:
		return KindListItem
	case *ast.Emphasis:
		if n.Level >= 2 {
			return KindStrong
		}
		return KindEm
	case *ast.Link:
		return KindLink
	case *ast.Image:
		return KindImage
	case *east.Table:
		return KindTable
	case *east.TableCell:
		if _, ok := n.Parent().(*east.TableHeader); ok {
			return KindHeaderCell
		}
		return KindCell
	case *east.Strikethrough:
		return KindStrike
	}
	return strings.ToLower(n.Kind().String())
}

// resolve applies backslash escapes and character references to inline text.
func resolve(value []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(value)))
}

func lines(n ast.Node, source []byte) string {
	var sb strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func childText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
		case *ast.String:
			sb.Write(c.Value)
		}
	}
	return sb.String()
}
