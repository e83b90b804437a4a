package notes

import (
	"slices"
	"strings"
)

// GroupUnknown is the group of tags listed before any group marker.
const GroupUnknown = "unknown"

// Tag is a classification applied to notes. Tags compare and sort by name.
type Tag struct {
	Name  string
	Group string
}

// NewTag builds a tag, stripping leading '#' markers from name and group.
func NewTag(name, group string) Tag {
	return Tag{
		Name:  strings.TrimLeft(name, "#"),
		Group: strings.TrimLeft(group, "#"),
	}
}

// String returns the tag name with its marker, e.g. "#go".
func (t Tag) String() string {
	return "#" + t.Name
}

// Compare orders tags by name.
func (t Tag) Compare(other Tag) int {
	return strings.Compare(t.Name, other.Name)
}

// SortTags sorts tags by name in place.
func SortTags(tags []Tag) {
	slices.SortFunc(tags, Tag.Compare)
}
