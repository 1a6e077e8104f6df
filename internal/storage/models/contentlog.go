package models

// ContentLog is one recorded AI request with its request and response bodies.
type ContentLog struct {
	ID               int64   `json:"id"`
	CreatedAt        int64   `json:"created_at"` // unix seconds
	Type             int     `json:"type"`
	Username         string  `json:"username"`
	TokenName        string  `json:"token_name"`
	ModelName        string  `json:"model_name"`
	Group            string  `json:"group"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	Quota            int64   `json:"quota"`
	ChannelID        int     `json:"channel"`
	ChannelName      string  `json:"channel_name"`
	RequestContent   *string `json:"request_content"`
	ResponseContent  *string `json:"response_content"`
}

// ContentLogFilter contains parameters for filtering content logs.
// Zero values leave the corresponding column unfiltered.
type ContentLogFilter struct {
	Type           int
	Username       string
	TokenName      string
	ModelName      string // LIKE pattern
	Group          string
	ChannelID      *int
	StartTimestamp int64
	EndTimestamp   int64
	Limit          int
	Offset         int
}
