package markdown

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalanced is returned when open and close tokens do not pair up.
	ErrUnbalanced = errors.New("markdown: unbalanced block structure")
	// ErrMismatchedBlock is returned when a close token does not match the open block.
	ErrMismatchedBlock = errors.New("markdown: mismatched closing block")
)

// Parse tokenizes source and builds its block tree.
func Parse(source []byte) (*Block, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Build(tokens)
}

// Build assembles a token stream into a tree rooted at a synthetic root block.
func Build(tokens []Token) (*Block, error) {
	stack := []*Block{{Kind: KindRoot}}
	for _, tok := range tokens {
		top := stack[len(stack)-1]
		switch tok.Type {
		case TokenOpen:
			b := &Block{Kind: tok.Kind}
			top.Children = append(top.Children, b)
			stack = append(stack, b)
		case TokenClose:
			if len(stack) == 1 {
				return nil, fmt.Errorf("%w: %q closed with nothing open", ErrUnbalanced, tok.Kind)
			}
			if top.Kind != tok.Kind {
				return nil, fmt.Errorf("%w: %q closes open %q", ErrMismatchedBlock, tok.Kind, top.Kind)
			}
			stack = stack[:len(stack)-1]
		default:
			top.Children = append(top.Children, &Block{Kind: tok.Kind, Content: tok.Content})
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: %d block(s) left open", ErrUnbalanced, len(stack)-1)
	}
	return stack[0], nil
}
