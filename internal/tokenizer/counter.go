package tokenizer

import (
	"encoding/json"
	"strings"
)

// Per-message framing overhead, following OpenAI's counting guide.
const (
	messageOverheadGPT4  = 3
	messageOverheadGPT35 = 4
	replyPrimingTokens   = 3
	nameOverhead         = 1
)

// Message is the part of a chat message that contributes prompt tokens.
type Message struct {
	Role    string          `json:"role"`
	Name    string          `json:"name,omitempty"`
	Content json.RawMessage `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CountRequest counts prompt tokens in a recorded request body. The model
// named in the body is used when model is empty.
func (t *Tiktoken) CountRequest(body string, model string) (int, error) {
	var req chatRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil || len(req.Messages) == 0 {
		return t.CountTokens(body, model)
	}
	if model == "" {
		model = req.Model
	}
	return t.CountMessages(req.Messages, model)
}

// CountMessages counts tokens for a conversation including framing overhead.
func (t *Tiktoken) CountMessages(messages []Message, model string) (int, error) {
	overhead := messageOverhead(model)
	total := replyPrimingTokens

	for _, msg := range messages {
		n, err := t.countMessage(msg, model)
		if err != nil {
			return 0, err
		}
		total += n + overhead
	}
	return total, nil
}

func (t *Tiktoken) countMessage(msg Message, model string) (int, error) {
	total, err := t.CountTokens(msg.Role, model)
	if err != nil {
		return 0, err
	}

	n, err := t.CountTokens(messageText(msg.Content), model)
	if err != nil {
		return 0, err
	}
	total += n

	if msg.Name != "" {
		n, err := t.CountTokens(msg.Name, model)
		if err != nil {
			return 0, err
		}
		total += n + nameOverhead
	}
	return total, nil
}

// messageText flattens string or multi-part content into its text. Non-text
// parts such as images are ignored.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var parts []contentPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Type == "text" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func messageOverhead(model string) int {
	if strings.HasPrefix(strings.ToLower(model), "gpt-3.5") {
		return messageOverheadGPT35
	}
	return messageOverheadGPT4
}
