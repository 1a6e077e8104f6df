package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mandalnilabja/logview/internal/contentlog"
	"github.com/mandalnilabja/logview/internal/i18n"
)

// timeInputLayouts are accepted by the start and end fields.
var timeInputLayouts = []string{
	contentlog.TimeLayout,
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimeInput parses a form time in loc. Blank input is the zero time.
func parseTimeInput(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeInputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// formatTimeInput renders epoch seconds for a form field; zero is blank.
func formatTimeInput(sec int64, loc *time.Location) string {
	if sec == 0 {
		return ""
	}
	return contentlog.FormatTimestamp(sec, loc)
}

// formValues are the raw strings of the filter form.
type formValues struct {
	Username  string
	TokenName string
	ModelName string
	Channel   string
	Start     string
	End       string
}

// toFilters converts the form to controller filters. The returned string
// is the offending input when a time fails to parse.
func (f formValues) toFilters(loc *time.Location) (contentlog.Filters, string, error) {
	start, err := parseTimeInput(f.Start, loc)
	if err != nil {
		return contentlog.Filters{}, f.Start, err
	}
	end, err := parseTimeInput(f.End, loc)
	if err != nil {
		return contentlog.Filters{}, f.End, err
	}
	return contentlog.Filters{
		Username:  strings.TrimSpace(f.Username),
		TokenName: strings.TrimSpace(f.TokenName),
		ModelName: strings.TrimSpace(f.ModelName),
		Channel:   strings.TrimSpace(f.Channel),
		Start:     start,
		End:       end,
	}, "", nil
}

// columns lists the table headers in display order.
var columns = []string{
	i18n.ColTime, i18n.ColUser, i18n.ColToken, i18n.ColModel,
	i18n.ColPrompt, i18n.ColCompletion, i18n.ColCost, i18n.ColChannel,
}

// numericColumns are right-aligned.
var numericColumns = map[int]bool{4: true, 5: true, 6: true}

// rowCells renders one entry in column order.
func rowCells(e contentlog.LogEntry, loc *time.Location, quota contentlog.QuotaFormat, p *i18n.Printer) []string {
	return []string{
		contentlog.FormatTimestamp(e.CreatedAt, loc),
		e.Username,
		e.TokenName,
		e.ModelName,
		contentlog.FormatTokens(e.PromptTokens),
		contentlog.FormatTokens(e.CompletionTokens),
		contentlog.FormatQuota(e.Quota, quota),
		channelLabel(e, p),
	}
}

func channelLabel(e contentlog.LogEntry, p *i18n.Printer) string {
	switch {
	case e.ChannelName != "":
		return e.ChannelName
	case e.Channel > 0:
		return "#" + strconv.Itoa(e.Channel)
	default:
		return p.T(i18n.UnknownChannel)
	}
}

// statusLine is the text of the status bar.
func statusLine(st contentlog.State, p *i18n.Printer, notice string) string {
	q := st.Query
	line := p.T(i18n.PageStatus, q.Page, contentlog.PageCount(st.Total, q.PageSize), st.Total, q.PageSize)
	if st.Loading {
		line += "  " + p.T(i18n.Loading)
	}
	if notice != "" {
		line += "  " + notice
	}
	return line
}

// nextPageSize returns the page size after cur, wrapping around.
func nextPageSize(cur int) int {
	for i, s := range contentlog.PageSizes {
		if s == cur {
			return contentlog.PageSizes[(i+1)%len(contentlog.PageSizes)]
		}
	}
	return contentlog.PageSizes[0]
}
