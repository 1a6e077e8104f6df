package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/logview/internal/contentlog"
)

var timeFlagLayouts = []string{contentlog.TimeLayout, "2006-01-02 15:04", "2006-01-02"}

// parseTimeFlag parses a date or date-time in loc. Empty input is the zero
// time.
func parseTimeFlag(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeFlagLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", s)
}

// queryFlags are the filter flags shared by list and view.
type queryFlags struct {
	username  string
	tokenName string
	modelName string
	channel   string
	group     string
	logType   int
	start     string
	end       string
	page      int
	pageSize  int
}

func addQueryFlags(cmd *cobra.Command) *queryFlags {
	qf := &queryFlags{}
	f := cmd.Flags()
	f.StringVar(&qf.username, "username", "", "filter by user name")
	f.StringVar(&qf.tokenName, "token", "", "filter by token name")
	f.StringVar(&qf.modelName, "model", "", "filter by model name")
	f.StringVar(&qf.channel, "channel", "", "filter by channel ID")
	f.StringVar(&qf.group, "group", "", "filter by group")
	f.IntVar(&qf.logType, "type", 0, "log type: 0 all, 1 top-up, 2 consume, 3 manage, 4 system (default from config)")
	f.StringVar(&qf.start, "start", "", "start time, YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
	f.StringVar(&qf.end, "end", "", "end time, YYYY-MM-DD or YYYY-MM-DD HH:MM:SS (default now)")
	f.IntVar(&qf.page, "page", 1, "page number")
	f.IntVar(&qf.pageSize, "page-size", 0, "rows per page: 10, 20, 50 or 100 (default from config)")
	return qf
}

// query builds the initial Query. Unset type and page size fall back to
// the configured defaults.
func (qf *queryFlags) query(cmd *cobra.Command, defaults contentlog.Query, loc *time.Location) (contentlog.Query, error) {
	q := defaults
	q.Username = qf.username
	q.TokenName = qf.tokenName
	q.ModelName = qf.modelName
	q.Channel = qf.channel
	q.Group = qf.group

	if cmd.Flags().Changed("type") {
		if qf.logType < contentlog.LogTypeUnknown || qf.logType > contentlog.LogTypeSystem {
			return q, fmt.Errorf("--type must be between %d and %d", contentlog.LogTypeUnknown, contentlog.LogTypeSystem)
		}
		q.LogType = qf.logType
	}
	if cmd.Flags().Changed("page-size") {
		q.PageSize = qf.pageSize
	}
	if !contentlog.ValidPageSize(q.PageSize) {
		return q, fmt.Errorf("page size must be one of %v, got %d", contentlog.PageSizes, q.PageSize)
	}
	if qf.page < 1 {
		return q, fmt.Errorf("--page must be at least 1, got %d", qf.page)
	}
	q.Page = qf.page

	start, err := parseTimeFlag(qf.start, loc)
	if err != nil {
		return q, fmt.Errorf("--start: %w", err)
	}
	end, err := parseTimeFlag(qf.end, loc)
	if err != nil {
		return q, fmt.Errorf("--end: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return q, fmt.Errorf("--start %s is after --end %s", qf.start, qf.end)
	}
	if !start.IsZero() {
		q.StartTimestamp = start.Unix()
	}
	if !end.IsZero() {
		q.EndTimestamp = end.Unix()
	}
	return q, nil
}

// defaultQuery is the configured starting point for list and view.
func (a *cli) defaultQuery() contentlog.Query {
	return contentlog.Query{
		Page:     1,
		PageSize: a.cfg.PageSize,
		LogType:  a.cfg.LogType,
	}
}
