package contentlog

import (
	"encoding/json"
	"fmt"
)

// LogEntry is one content log row as returned by the server.
type LogEntry struct {
	ID               int64   `json:"id"`
	CreatedAt        int64   `json:"created_at"`
	Username         string  `json:"username"`
	TokenName        string  `json:"token_name"`
	ModelName        string  `json:"model_name"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	Quota            int64   `json:"quota"`
	Channel          int     `json:"channel"`
	ChannelName      string  `json:"channel_name"`
	RequestContent   *string `json:"request_content"`
	ResponseContent  *string `json:"response_content"`
}

// Page is one page of results.
type Page struct {
	Items []LogEntry
	Total int
}

// ParsePage decodes the data member of a successful envelope. Missing or
// null items and total are not errors; they default to empty and zero.
func ParsePage(data json.RawMessage) (Page, error) {
	var raw struct {
		Items []LogEntry `json:"items"`
		Total *int       `json:"total"`
	}
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Page{}, fmt.Errorf("parse log page: %w", err)
		}
	}

	p := Page{Items: raw.Items}
	if p.Items == nil {
		p.Items = []LogEntry{}
	}
	if raw.Total != nil {
		p.Total = *raw.Total
	}
	return p, nil
}
