package fetch

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// Content is the readable part of a page.
type Content struct {
	Title string
	Text  string
}

// Extractor turns fetched pages into prompt text.
type Extractor struct {
	// Markdown keeps document structure instead of flattening to plain text.
	Markdown bool
	// MaxChars truncates the result. Zero means no limit.
	MaxChars int
}

// Extract returns the title and readable text of p.
func (e Extractor) Extract(p *Page) (Content, error) {
	if !p.IsHTML() {
		return Content{Text: Truncate(CollapseWhitespace(p.HTML), e.MaxChars)}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	if err != nil {
		return Content{}, fmt.Errorf("parse html: %w", err)
	}
	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	stripNonContent(doc)

	var text string
	if e.Markdown {
		cleaned, err := doc.Html()
		if err != nil {
			return Content{}, fmt.Errorf("render cleaned html: %w", err)
		}
		if text, err = htmltomarkdown.ConvertString(cleaned); err != nil {
			return Content{}, fmt.Errorf("convert to markdown: %w", err)
		}
		text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	} else {
		text = CollapseWhitespace(doc.Text())
	}

	return Content{Title: title, Text: Truncate(text, e.MaxChars)}, nil
}

// ExtractText returns the visible text of an HTML document with script and
// style blocks removed and whitespace collapsed.
func ExtractText(html string) (string, error) {
	c, err := Extractor{}.Extract(&Page{HTML: html})
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

// ExtractMarkdown converts an HTML document to markdown after removing
// script and style blocks.
func ExtractMarkdown(html string) (string, error) {
	c, err := Extractor{Markdown: true}.Extract(&Page{HTML: html})
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

func stripNonContent(doc *goquery.Document) {
	doc.Find("script, style, noscript").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})
}

// CollapseWhitespace trims every line, splits lines on runs of two spaces
// and joins the non-empty pieces with single spaces.
func CollapseWhitespace(s string) string {
	var chunks []string
	for _, line := range strings.Split(s, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if p := strings.TrimSpace(phrase); p != "" {
				chunks = append(chunks, p)
			}
		}
	}
	return strings.Join(chunks, " ")
}

// Truncate shortens s to at most n characters. n <= 0 means no limit.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
