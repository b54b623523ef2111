package issue

import (
	"fmt"
	"strings"
)

// MaxSlugLength caps the title-derived part of a filename.
const MaxSlugLength = 40

// Slug derives the filesystem-safe part of a filename from a title: lowercase,
// spaces become hyphens, everything but [a-z0-9-] is dropped, then truncated.
func Slug(title string) string {
	var builder strings.Builder

	for _, r := range strings.ToLower(title) {
		switch {
		case r == ' ':
			builder.WriteByte('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			builder.WriteRune(r)
		}
	}

	slug := builder.String()
	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
	}

	return slug
}

// Filename returns the on-disk name for an issue: zero-padded id, hyphen, slug.
func Filename(id int, title string) string {
	return fmt.Sprintf("%04d-%s.md", id, Slug(title))
}

// Filename returns the on-disk name for i.
func (i Issue) Filename() string {
	return Filename(i.ID, i.Title)
}
