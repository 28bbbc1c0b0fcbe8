package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CleanedHTML is page markup reduced to its semantic skeleton, suitable for
// terminal output or downstream parsing.
type CleanedHTML struct {
	HTML        string
	Title       string
	Description string
	Truncated   bool
}

// cleanHTML parses raw markup and rebuilds it without scripts, styles, and
// other noise, preserving structure and the attributes useful for building
// selectors (id, class, href, form fields).
func cleanHTML(rawHTML string, maxLength int) (*CleanedHTML, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &CleanedHTML{
		Title:       findTitle(doc),
		Description: findMetaDescription(doc),
	}

	c := &cleaner{max: maxLength}
	result.Truncated = c.writeNode(doc, 0)
	result.HTML = c.out.String()
	return result, nil
}

// cleaner accumulates cleaned markup up to a length budget.
type cleaner struct {
	out strings.Builder
	len int
	max int
}

// writeNode renders n and its children, returning true once the budget is
// exhausted.
func (c *cleaner) writeNode(n *html.Node, depth int) bool {
	if c.len >= c.max {
		return true
	}

	switch n.Type {
	case html.CommentNode:
		return false
	case html.TextNode:
		return c.writeText(n.Data)
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if skippedTag(tag) {
			return false
		}
		return c.writeElement(n, tag, depth)
	default:
		return c.writeChildren(n, depth)
	}
}

func (c *cleaner) writeText(data string) bool {
	text := strings.TrimSpace(data)
	if text == "" {
		return false
	}

	if c.len+len(text) > c.max {
		remaining := c.max - c.len
		c.out.WriteString(text[:remaining])
		c.out.WriteString("...")
		c.len = c.max
		return true
	}

	c.out.WriteString(text)
	c.len += len(text)
	return false
}

func (c *cleaner) writeElement(n *html.Node, tag string, depth int) bool {
	if depth > 0 && blockTag(tag) {
		c.out.WriteString("\n")
		c.out.WriteString(strings.Repeat("  ", depth))
	}

	c.out.WriteString("<")
	c.out.WriteString(tag)
	for _, attr := range n.Attr {
		if keepAttribute(tag, strings.ToLower(attr.Key)) {
			fmt.Fprintf(&c.out, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
		}
	}
	c.out.WriteString(">")
	c.len += len(tag) + 2

	truncated := c.writeChildren(n, depth+1)

	if !voidTag(tag) {
		if blockTag(tag) {
			c.out.WriteString("\n")
			c.out.WriteString(strings.Repeat("  ", depth))
		}
		c.out.WriteString("</")
		c.out.WriteString(tag)
		c.out.WriteString(">")
		c.len += len(tag) + 3
	}
	return truncated
}

func (c *cleaner) writeChildren(n *html.Node, depth int) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if c.writeNode(child, depth) {
			return true
		}
	}
	return false
}

// skippedTag reports whether an element is dropped entirely.
func skippedTag(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "iframe", "embed", "object", "svg":
		return true
	}
	return false
}

// blockTag reports whether an element gets its own line in the output.
func blockTag(tag string) bool {
	switch tag {
	case "div", "p", "section", "article", "header", "footer", "nav",
		"main", "aside", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "table", "tr", "td", "th",
		"form", "fieldset", "blockquote", "pre":
		return true
	}
	return false
}

// voidTag reports whether an element has no closing tag.
func voidTag(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// keepAttribute reports whether an attribute survives cleaning. Kept
// attributes are the ones useful for writing selectors against the output.
func keepAttribute(tag, attr string) bool {
	switch attr {
	case "id", "class", "role", "aria-label", "aria-describedby":
		return true
	}
	if strings.HasPrefix(attr, "data-") {
		return true
	}

	switch tag {
	case "a":
		return attr == "href" || attr == "target"
	case "img":
		return attr == "src" || attr == "alt"
	case "input", "textarea", "select":
		return attr == "name" || attr == "type" || attr == "placeholder" || attr == "value"
	case "button":
		return attr == "type" || attr == "name"
	case "form":
		return attr == "action" || attr == "method"
	}
	return false
}

// findTitle extracts the page title from the document.
func findTitle(doc *html.Node) string {
	node := findElement(doc, "title")
	if node == nil || node.FirstChild == nil || node.FirstChild.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(node.FirstChild.Data)
}

// findMetaDescription extracts the meta description from the document.
func findMetaDescription(doc *html.Node) string {
	var description string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if description != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			var isDescription bool
			var content string
			for _, attr := range n.Attr {
				if attr.Key == "name" && attr.Val == "description" {
					isDescription = true
				}
				if attr.Key == "content" {
					content = attr.Val
				}
			}
			if isDescription && content != "" {
				description = strings.TrimSpace(content)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return description
}

// findElement returns the first element with the given tag, depth first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
