package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markupParts returns the text pieces of a lightly marked-up string such as
// "College of Eng<p>Computer Science", one per text node.
func markupParts(s string) []string {
	if !strings.ContainsRune(s, '<') {
		return []string{strings.TrimSpace(s)}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return []string{strings.TrimSpace(s)}
	}

	var parts []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if text := strings.TrimSpace(c.Text()); text != "" {
					parts = append(parts, text)
				}
				return
			}
			walk(c)
		})
	}
	walk(doc.Find("body"))
	return parts
}

// MajorLabel renders a major for display with its markup replaced by spaces.
func MajorLabel(major string) string {
	return strings.Join(markupParts(major), " ")
}

// MajorShort returns the most specific part of a major, its last text piece.
func MajorShort(major string) string {
	parts := markupParts(major)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
