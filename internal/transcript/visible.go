package transcript

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// VisibleText approximates the rendered text of a selection: hidden subtrees
// are skipped, block boundaries and <br> become spaces, and whitespace runs
// collapse to one space.
func VisibleText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeVisible(&b, n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func writeVisible(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if hidden(n) {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte(' ')
			return
		}
	}
	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeVisible(b, c)
	}
	if block {
		b.WriteByte(' ')
	}
}

var blockElements = map[atom.Atom]bool{
	atom.Div: true, atom.P: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Blockquote: true, atom.Pre: true,
}

var nonRendered = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Template: true, atom.Noscript: true, atom.Head: true,
}

func hidden(n *html.Node) bool {
	if nonRendered[n.DataAtom] {
		return true
	}
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(strings.TrimSpace(attr.Val), "true") {
				return true
			}
		case "style":
			style := strings.ToLower(strings.ReplaceAll(attr.Val, " ", ""))
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}
