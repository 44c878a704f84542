// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package email

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jhillyerd/enmime"
)

// Message is one notification email as read from disk.
type Message struct {
	// Subject is set only when the input carried RFC 5322 headers.
	Subject string

	// Text is the plain-text body with line endings normalised to LF.
	Text string
}

// headerLine matches an RFC 5322 header field at the start of a line.
var headerLine = regexp.MustCompile(`(?m)^(?i:from|to|subject|date|mime-version|content-type|message-id):`)

// ReadFile reads a message file. Raw MIME messages are decoded with
// enmime; anything else is taken as the plain-text body.
func ReadFile(path string) (*Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Message from raw bytes.
func Parse(data []byte) (*Message, error) {
	if !hasHeaderBlock(data) {
		return &Message{Text: normalize(string(data))}, nil
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode MIME message: %w", err)
	}
	if strings.TrimSpace(env.Text) == "" {
		return nil, fmt.Errorf("MIME message has no text body")
	}

	return &Message{
		Subject: env.GetHeader("Subject"),
		Text:    normalize(env.Text),
	}, nil
}

// hasHeaderBlock reports whether the data begins with a header section
// terminated by a blank line.
func hasHeaderBlock(data []byte) bool {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	end := strings.Index(text, "\n\n")
	if end <= 0 {
		return false
	}
	head := text[:end]
	if !headerLine.MatchString(head[:strings.IndexByte(head+"\n", '\n')]) {
		return false
	}
	return len(headerLine.FindAllString(head, -1)) >= 2
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
