// Package markdown parses Markdown documents into a tree of typed blocks and
// extracts structured data (front matter, tables) from that tree.
package markdown

import "strings"

// Block kinds produced by the tokenizer.
const (
	KindRoot        = "root"
	KindFrontMatter = "front_matter"

	KindParagraph   = "paragraph"
	KindHeading     = "heading"
	KindBlockquote  = "blockquote"
	KindBulletList  = "bullet_list"
	KindOrderedList = "ordered_list"
	KindListItem    = "list_item"

	KindTable      = "table"
	KindTableHead  = "thead"
	KindTableBody  = "tbody"
	KindTableRow   = "tr"
	KindHeaderCell = "th"
	KindCell       = "td"

	KindEm     = "em"
	KindStrong = "strong"
	KindStrike = "s"
	KindLink   = "link"
	KindImage  = "image"

	KindText       = "text"
	KindSoftBreak  = "softbreak"
	KindHardBreak  = "hardbreak"
	KindCodeInline = "code_inline"
	KindFence      = "fence"
	KindCodeBlock  = "code_block"
	KindHTMLBlock  = "html_block"
	KindHTMLInline = "html_inline"
	KindAutoLink   = "autolink"
	KindHR         = "hr"
)

// Block is a single node of a parsed document. Containers carry children and
// no content; leaves carry content and no children.
type Block struct {
	Kind     string
	Content  string
	Children []*Block
}

// Inline returns the block's content followed by the inline text of all of
// its descendants, in document order.
func (b *Block) Inline() string {
	var sb strings.Builder
	b.writeInline(&sb)
	return sb.String()
}

func (b *Block) writeInline(sb *strings.Builder) {
	sb.WriteString(b.Content)
	for _, c := range b.Children {
		c.writeInline(sb)
	}
}

// Each returns the direct children of the given kind.
func (b *Block) Each(kind string) []*Block {
	var out []*Block
	for _, c := range b.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Only returns the first direct child of the given kind, or an empty block of
// that kind when there is none.
func (b *Block) Only(kind string) *Block {
	for _, c := range b.Children {
		if c.Kind == kind {
			return c
		}
	}
	return &Block{Kind: kind}
}

// Leaves returns the content of every leaf block in document order.
func (b *Block) Leaves() []string {
	if len(b.Children) == 0 {
		if b.Content == "" {
			return nil
		}
		return []string{b.Content}
	}
	var out []string
	for _, c := range b.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}
