// Package verify checks generated documents after the fact: canonical
// marker pairs must be balanced, the document must parse as Markdown
// with the markers surviving as raw HTML, and single-line <pre>
// fallback blocks must hold their escaping.
package verify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/actiondocs/internal/content"
	"git.home.luguber.info/inful/actiondocs/internal/errors"
	"git.home.luguber.info/inful/actiondocs/internal/markdown"
	"git.home.luguber.info/inful/actiondocs/internal/section"
)

// Issue is one verification finding.
type Issue struct {
	Check   string
	Message string
}

func (i Issue) String() string {
	return i.Check + ": " + i.Message
}

// Document runs all checks against a generated document and returns the
// findings. An empty slice means the document verified clean.
func Document(c content.Content) []Issue {
	var issues []Issue
	issues = append(issues, checkMarkers(c)...)
	issues = append(issues, checkMarkdown(c)...)
	issues = append(issues, checkPreBlocks(c)...)
	issues = append(issues, checkLinks(c)...)
	return issues
}

// checkLinks extracts every link and confirms a usable destination.
// Generated badge and license links are templated from repository data,
// so a malformed one points at a rendering bug.
func checkLinks(c content.Content) []Issue {
	var issues []Issue
	for _, link := range markdown.ExtractLinks(c) {
		if link.Destination == "" {
			issues = append(issues, Issue{"links", fmt.Sprintf("empty %s link destination", link.Kind)})
			continue
		}
		u, err := url.Parse(link.Destination)
		if err != nil {
			issues = append(issues, Issue{"links",
				fmt.Sprintf("unparseable link destination %q", link.Destination)})
			continue
		}
		if u.IsAbs() && u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "mailto" {
			issues = append(issues, Issue{"links",
				fmt.Sprintf("unexpected link scheme %q", u.Scheme)})
		}
	}
	return issues
}

// Error converts findings into a single error, nil when there are none.
func Error(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = issue.String()
	}
	return errors.New(errors.CategoryRender, errors.SeverityError,
		"verification failed: "+strings.Join(msgs, "; "))
}

// checkMarkers walks every canonical marker in order and reports
// unbalanced pairs: an end without a start, a start inside another
// section, a start never closed, or the same section opened twice.
func checkMarkers(c content.Content) []Issue {
	var issues []Issue
	open := ""
	seen := map[string]bool{}

	cur := c.NewCursor()
	for {
		m := cur.Next(section.MarkerPattern)
		if m == nil {
			break
		}
		id, kind := m.Groups[1], m.Groups[2]
		if !section.Valid(section.Identifier(id)) {
			continue
		}
		switch kind {
		case "start":
			if open != "" {
				issues = append(issues, Issue{"markers",
					fmt.Sprintf("section %s starts inside unclosed section %s", id, open)})
			}
			if seen[id] {
				issues = append(issues, Issue{"markers",
					fmt.Sprintf("section %s appears more than once", id)})
			}
			open = id
			seen[id] = true
		case "end":
			if open != id {
				issues = append(issues, Issue{"markers",
					fmt.Sprintf("section %s ends without a matching start", id)})
			}
			open = ""
		}
	}
	if open != "" {
		issues = append(issues, Issue{"markers",
			fmt.Sprintf("section %s is never closed", open)})
	}
	return issues
}

// checkMarkdown parses the document and confirms every marker pair
// survived as raw HTML rather than being swallowed into some other
// construct (a marker inside a fenced block would disappear here).
func checkMarkdown(c content.Content) []Issue {
	body := c.Bytes()
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(body))

	var raw strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.HTMLBlock:
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				raw.Write(seg.Value(body))
			}
		case *gmast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				raw.Write(seg.Value(body))
			}
		}
		return gmast.WalkContinue, nil
	})

	var issues []Issue
	rawText := raw.String()
	for _, id := range section.All() {
		start, end := section.Start(id), section.End(id)
		if strings.Contains(c.String(), start) && !strings.Contains(rawText, start) {
			issues = append(issues, Issue{"markdown",
				fmt.Sprintf("start marker for %s is not parsed as HTML", id)})
		}
		if strings.Contains(c.String(), end) && !strings.Contains(rawText, end) {
			issues = append(issues, Issue{"markdown",
				fmt.Sprintf("end marker for %s is not parsed as HTML", id)})
		}
	}
	return issues
}

// checkPreBlocks parses each <pre lang="..."> fallback line and
// confirms it yields exactly one pre element with only text content.
// Child elements mean a payload broke out of its escaping.
func checkPreBlocks(c content.Content) []Issue {
	var issues []Issue
	text := c.String()
	for _, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, "<pre lang=")
		if idx < 0 {
			continue
		}
		if issue := checkPreLine(line[idx:]); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

func checkPreLine(fragment string) *Issue {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return &Issue{"pre", "unparseable pre block: " + err.Error()}
	}

	var pre *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "pre" {
			pre = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			find(child)
		}
	}
	find(doc)

	if pre == nil {
		return &Issue{"pre", "pre block lost during parsing"}
	}
	if getAttr(pre, "lang") == "" {
		return &Issue{"pre", "pre block has no lang attribute"}
	}
	for child := pre.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			return &Issue{"pre", "pre block contains unescaped element <" + child.Data + ">"}
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
