package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"golang.org/x/net/html"
)

// ignoredTags are never sent to the provider.
var ignoredTags = map[string]bool{
	"script": true,
	"style":  true,
	"code":   true,
	"pre":    true,
}

// tagPattern matches the start of an element, end tag, comment or doctype.
// A bare "<" as in "1 < 2" does not.
var tagPattern = regexp.MustCompile(`<[a-zA-Z/!]`)

// HasMarkup reports whether text contains something shaped like an HTML tag.
func HasMarkup(text string) bool {
	return tagPattern.MatchString(text)
}

// Markup translates rich-text answers node by node so the provider only
// sees text and the surrounding markup survives untouched. Text without
// tags is passed byte for byte to the wrapped Translator.
type Markup struct {
	next Translator
}

func NewMarkup(next Translator) *Markup {
	return &Markup{next: next}
}

func (m *Markup) Translate(ctx context.Context, text string, lang faq.Lang) (string, error) {
	if !HasMarkup(text) {
		return m.next.Translate(ctx, text, lang)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}
	body := doc.Find("body")

	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range body.Nodes {
		walk(n)
	}

	translated := make(map[string]string, len(nodes))
	for _, n := range nodes {
		src := strings.TrimSpace(n.Data)
		out, ok := translated[src]
		if !ok {
			out, err = m.next.Translate(ctx, src, lang)
			if err != nil {
				return "", err
			}
			translated[src] = out
		}
		n.Data = preserveWhitespace(n.Data, out)
	}

	result, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("serialize markup: %w", err)
	}
	return result, nil
}

// preserveWhitespace keeps the leading and trailing whitespace of original
// around translated.
func preserveWhitespace(original, translated string) string {
	lead := original[:len(original)-len(strings.TrimLeft(original, " \t\r\n"))]
	trail := original[len(strings.TrimRight(original, " \t\r\n")):]
	return lead + strings.TrimSpace(translated) + trail
}

var _ Translator = (*Markup)(nil)
