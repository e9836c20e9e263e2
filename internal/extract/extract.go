package extract

import (
    "bytes"
    "strings"
    "unicode"

    "github.com/PuerkitoBio/goquery"
    "golang.org/x/net/html"
)

// Document is the flattened text of a fetched page.
type Document struct {
    Title string
    Text  string
}

// FromHTML flattens a page into one line of visible text. Every text node of
// the document contributes in order, stripped and joined by a single space.
// Script, style and template bodies and comments are skipped.
func FromHTML(input []byte) Document {
    doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
    if err != nil || doc == nil {
        return Document{}
    }
    doc.Find("script, style, template").Remove()

    title := collapseSpaces(strings.TrimSpace(doc.Find("title").First().Text()))

    parts := make([]string, 0, 64)
    for _, n := range doc.Nodes {
        collectText(&parts, n)
    }
    return Document{Title: title, Text: strings.Join(parts, " ")}
}

func collectText(parts *[]string, n *html.Node) {
    switch n.Type {
    case html.TextNode:
        if s := collapseSpaces(strings.TrimFunc(n.Data, unicode.IsSpace)); s != "" {
            *parts = append(*parts, s)
        }
        return
    case html.CommentNode, html.DoctypeNode:
        return
    case html.ElementNode:
        switch strings.ToLower(n.Data) {
        case "script", "style", "template":
            return
        }
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        collectText(parts, c)
    }
}

// collapseSpaces folds every run of Unicode whitespace, NBSP included, into a
// single ASCII space.
func collapseSpaces(s string) string {
    var b strings.Builder
    b.Grow(len(s))
    lastSpace := false
    for _, r := range s {
        if unicode.IsSpace(r) {
            if !lastSpace {
                b.WriteByte(' ')
                lastSpace = true
            }
            continue
        }
        b.WriteRune(r)
        lastSpace = false
    }
    return b.String()
}
