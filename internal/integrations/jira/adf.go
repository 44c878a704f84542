// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package jira

import (
	"regexp"
	"strings"
)

// Document is an Atlassian Document Format root node.
// See https://developer.atlassian.com/cloud/jira/platform/apis/document/structure/
type Document struct {
	Version int    `json:"version"`
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

// Node is an ADF block or inline node. Only the node types this tool
// emits are modelled.
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
}

const lineSeparator = "\u2028"

var blankLines = regexp.MustCompile(`\n[ \t]*\n`)

// TextToADF converts plain text to an ADF document. Blocks separated by
// blank lines become paragraphs; lines inside a block are trimmed and
// joined with hard breaks. Empty blocks are dropped.
func TextToADF(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, lineSeparator, "\n")

	doc := &Document{Version: 1, Type: "doc", Content: []Node{}}
	for _, block := range blankLines.Split(text, -1) {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}

		para := Node{Type: "paragraph"}
		for i, line := range lines {
			if i > 0 {
				para.Content = append(para.Content, Node{Type: "hardBreak"})
			}
			para.Content = append(para.Content, Node{Type: "text", Text: line})
		}
		doc.Content = append(doc.Content, para)
	}
	return doc
}

// Paragraphs returns the paragraph nodes of the document.
func (d *Document) Paragraphs() []Node {
	var out []Node
	for _, n := range d.Content {
		if n.Type == "paragraph" {
			out = append(out, n)
		}
	}
	return out
}

// PlainText returns the text of a paragraph, hard breaks rendered as newlines.
func (n Node) PlainText() string {
	var sb strings.Builder
	for _, c := range n.Content {
		switch c.Type {
		case "text":
			sb.WriteString(c.Text)
		case "hardBreak":
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
