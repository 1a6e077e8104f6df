package contentlog

import (
	"bytes"
	"encoding/json"

	"github.com/mandalnilabja/logview/internal/i18n"
)

// ContentPair is the request/response text shown for one log row.
type ContentPair struct {
	Request  string
	Response string
}

// NewContentPair builds the pair for entry, substituting placeholders for
// missing content.
func NewContentPair(entry LogEntry, p *i18n.Printer) ContentPair {
	return ContentPair{
		Request:  orPlaceholder(entry.RequestContent, p.T(i18n.NoRequestContent)),
		Response: orPlaceholder(entry.ResponseContent, p.T(i18n.NoResponseContent)),
	}
}

func orPlaceholder(s *string, placeholder string) string {
	if s == nil || *s == "" {
		return placeholder
	}
	return *s
}

// PrettyJSON indents text by two spaces if it is valid JSON and returns it
// unchanged otherwise.
func PrettyJSON(text string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", "  "); err != nil {
		return text
	}
	return buf.String()
}
