// Package chat assembles prompts and persists conversation history.
package chat

import (
	"fmt"
	"strings"
)

// Role identifies the author of a history entry.
type Role uint8

const (
	RoleUser Role = iota
	RoleSystem
)

// String returns the role's prompt label.
func (r Role) String() string {
	if r == RoleSystem {
		return "System"
	}
	return "User"
}

// Attachment is a file loaded into the conversation context.
type Attachment struct {
	Path    string
	Content string
}

// Entry is one exchange in the conversation history.
type Entry struct {
	Role Role
	Text string
}

// DefaultSystemPrompt scopes answers to programming questions.
const DefaultSystemPrompt = "You are a programming assistant. Answer questions about code concisely."

// Context accumulates the attachments and history that frame each
// request to the AI backend.
type Context struct {
	attachments []Attachment
	history     []Entry
}

// NewContext creates an empty conversation context.
func NewContext() *Context {
	return &Context{}
}

// Attach adds a file to the context.
func (c *Context) Attach(path, content string) {
	c.attachments = append(c.attachments, Attachment{Path: path, Content: content})
}

// Record appends an exchange to the conversation history.
func (c *Context) Record(role Role, text string) {
	c.history = append(c.history, Entry{Role: role, Text: text})
}

// Attachments returns the loaded files.
func (c *Context) Attachments() []Attachment {
	return c.attachments
}

// History returns the recorded exchanges.
func (c *Context) History() []Entry {
	return c.history
}

// Reset clears attachments and history.
func (c *Context) Reset() {
	c.attachments = nil
	c.history = nil
}

// BuildPrompt assembles the full prompt for a question: attached files
// first, then the conversation so far, then the current question.
func (c *Context) BuildPrompt(question string) string {
	var sb strings.Builder

	for _, a := range c.attachments {
		fmt.Fprintf(&sb, "Path '%s' \n Content: %s\n", a.Path, a.Content)
	}
	for _, e := range c.history {
		fmt.Fprintf(&sb, "%s: %s\n", e.Role, e.Text)
	}
	fmt.Fprintf(&sb, "Current question: %s", question)

	return sb.String()
}
