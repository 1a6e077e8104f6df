package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/mandalnilabja/logview/internal/contentlog"
	"github.com/mandalnilabja/logview/internal/i18n"
)

// maxCellWidth caps a column; longer values are truncated.
const maxCellWidth = 28

var errLoadFailed = errors.New("failed to load logs")

// stderrNotifier prints controller messages and remembers failures.
type stderrNotifier struct {
	w      io.Writer
	failed bool
}

func (n *stderrNotifier) Success(msg string) {
	color.New(color.FgGreen).Fprintln(n.w, msg)
}

func (n *stderrNotifier) Error(msg string) {
	n.failed = true
	color.New(color.FgRed).Fprintln(n.w, msg)
}

func newListCmd(a *cli) *cobra.Command {
	var (
		asJSON bool
		flags  *queryFlags
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of content logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			q, err := flags.query(cmd, a.defaultQuery(), loc)
			if err != nil {
				return err
			}

			p := a.printer()
			notifier := &stderrNotifier{w: cmd.ErrOrStderr()}
			ctrl := contentlog.New(a.client(a.logger),
				contentlog.WithQuery(q),
				contentlog.WithDispatcher(contentlog.Inline),
				contentlog.WithNotifier(notifier),
				contentlog.WithPrinter(p),
				contentlog.WithLogger(a.logger),
			)
			ctrl.Refresh(cmd.Context())
			if notifier.failed {
				return errLoadFailed
			}

			st := ctrl.State()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			writeTable(cmd.OutOrStdout(), st, loc, a.quotaFormat(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the page as JSON")
	flags = addQueryFlags(cmd)
	return cmd
}

// listPage is the --json output.
type listPage struct {
	Items    []contentlog.LogEntry `json:"items"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

func writeJSON(w io.Writer, st contentlog.State) error {
	items := st.Items
	if items == nil {
		items = []contentlog.LogEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listPage{
		Items:    items,
		Total:    st.Total,
		Page:     st.Query.Page,
		PageSize: st.Query.PageSize,
	})
}

var listColumns = []string{
	i18n.ColTime, i18n.ColUser, i18n.ColToken, i18n.ColModel,
	i18n.ColPrompt, i18n.ColCompletion, i18n.ColCost, i18n.ColChannel,
}

// right-aligned columns
var listNumeric = map[int]bool{4: true, 5: true, 6: true}

func listRow(e contentlog.LogEntry, loc *time.Location, quota contentlog.QuotaFormat, p *i18n.Printer) []string {
	channel := e.ChannelName
	switch {
	case channel != "":
	case e.Channel > 0:
		channel = "#" + strconv.Itoa(e.Channel)
	default:
		channel = p.T(i18n.UnknownChannel)
	}
	return []string{
		contentlog.FormatTimestamp(e.CreatedAt, loc),
		e.Username,
		e.TokenName,
		e.ModelName,
		contentlog.FormatTokens(e.PromptTokens),
		contentlog.FormatTokens(e.CompletionTokens),
		contentlog.FormatQuota(e.Quota, quota),
		channel,
	}
}

// writeTable prints the page as aligned columns followed by a status line.
func writeTable(w io.Writer, st contentlog.State, loc *time.Location, quota contentlog.QuotaFormat, p *i18n.Printer) {
	q := st.Query
	status := p.T(i18n.PageStatus, q.Page, contentlog.PageCount(st.Total, q.PageSize), st.Total, q.PageSize)
	if len(st.Items) == 0 {
		fmt.Fprintln(w, p.T(i18n.NoRecords))
		fmt.Fprintln(w, status)
		return
	}

	header := make([]string, len(listColumns))
	for i, c := range listColumns {
		header[i] = p.T(c)
	}
	rows := make([][]string, len(st.Items))
	for i, e := range st.Items {
		rows[i] = listRow(e, loc, quota, p)
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], min(runewidth.StringWidth(cell), maxCellWidth))
		}
	}

	bold := color.New(color.FgYellow, color.Bold)
	bold.Fprintln(w, joinCells(header, widths))
	for _, row := range rows {
		fmt.Fprintln(w, joinCells(row, widths))
	}
	color.New(color.Faint).Fprintln(w, status)
}

func joinCells(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		cell = runewidth.Truncate(cell, widths[i], "…")
		if listNumeric[i] {
			padded[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			padded[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}
