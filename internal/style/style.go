// Package style renders the tag stylesheet.
package style

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/starford/notes/internal/notes"
)

//go:embed tag.css
var tagTemplate string

const tagColorsSlot = "{{ tagcolors }}"

// Rule returns the rule that points links to tag t at its group's colour.
func Rule(t notes.Tag) string {
	return fmt.Sprintf(`.tag[href$="/tags/%s/"], .tag[href="#%s"] { --tag-group: var(--tag-group-%s); }`,
		t.Name, t.Name, t.Group)
}

// TagCSS renders the stylesheet with one rule per tag, in the given order.
func TagCSS(tags []notes.Tag) string {
	rules := make([]string, 0, len(tags))
	for _, t := range tags {
		rules = append(rules, Rule(t))
	}
	return strings.ReplaceAll(tagTemplate, tagColorsSlot, strings.Join(rules, "\n"))
}
