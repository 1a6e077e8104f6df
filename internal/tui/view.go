// Package tui is the terminal content-log viewer built on tview.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mandalnilabja/logview/internal/clipboard"
	"github.com/mandalnilabja/logview/internal/contentlog"
	"github.com/mandalnilabja/logview/internal/i18n"
)

const (
	pageMain    = "main"
	pageContent = "content"

	tabRequest  = 0
	tabResponse = 1
)

// Options configures a View.
type Options struct {
	Fetcher   contentlog.Fetcher
	Query     contentlog.Query
	Printer   *i18n.Printer
	Location  *time.Location
	Quota     contentlog.QuotaFormat
	Clipboard clipboard.Clipboard // nil uses clipboard.Default
	Logger    *slog.Logger
}

// View is the full-screen log viewer. All widget access happens on the
// tview event goroutine; controller callbacks are queued onto it.
type View struct {
	app   *tview.Application
	ctrl  *contentlog.Controller
	p     *i18n.Printer
	loc   *time.Location
	quota contentlog.QuotaFormat

	logger *slog.Logger
	now    func() time.Time
	ctx    context.Context

	pages   *tview.Pages
	form    *tview.Form
	table   *tview.Table
	status  *tview.TextView
	hotbar  *tview.TextView
	tabs    *tview.TextView
	body    *tview.TextView
	content contentlog.ContentPair
	tab     int
	items   []contentlog.LogEntry
	notice  notice
}

// New builds the viewer and its controller.
func New(opts Options) *View {
	v := &View{
		app:    tview.NewApplication(),
		p:      opts.Printer,
		loc:    opts.Location,
		quota:  opts.Quota,
		logger: opts.Logger,
		now:    time.Now,
		ctx:    context.Background(),
	}
	if v.p == nil {
		v.p = i18n.New("")
	}
	if v.loc == nil {
		v.loc = time.Local
	}
	if v.logger == nil {
		v.logger = slog.New(slog.DiscardHandler)
	}

	ctrlOpts := []contentlog.Option{
		contentlog.WithNotifier(v),
		contentlog.WithPrinter(v.p),
		contentlog.WithLogger(v.logger),
		contentlog.WithQuery(opts.Query),
	}
	if opts.Clipboard != nil {
		ctrlOpts = append(ctrlOpts, contentlog.WithClipboard(opts.Clipboard))
	}
	v.ctrl = contentlog.New(opts.Fetcher, ctrlOpts...)

	v.build()
	return v
}

// Run starts the first load and blocks until the user quits or ctx ends.
func (v *View) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.ctx = ctx

	unsubscribe := v.ctrl.Subscribe(func() {
		v.app.QueueUpdateDraw(v.render)
	})
	defer unsubscribe()

	go func() {
		<-ctx.Done()
		v.app.Stop()
	}()

	v.ctrl.Start(ctx)
	defer v.ctrl.Close()

	return v.app.SetRoot(v.pages, true).SetFocus(v.table).Run()
}

func (v *View) build() {
	st := v.ctrl.State()

	v.form = tview.NewForm().
		AddInputField(v.p.T(i18n.Username), st.Query.Username, 20, nil, nil).
		AddInputField(v.p.T(i18n.TokenName), st.Query.TokenName, 20, nil, nil).
		AddInputField(v.p.T(i18n.ModelName), st.Query.ModelName, 20, nil, nil).
		AddInputField(v.p.T(i18n.Channel), st.Query.Channel, 10, nil, nil).
		AddInputField(v.p.T(i18n.StartTime), formatTimeInput(st.Query.StartTimestamp, v.loc), 20, nil, nil).
		AddInputField(v.p.T(i18n.EndTime), formatTimeInput(st.Query.EndTimestamp, v.loc), 20, nil, nil).
		AddButton(v.p.T(i18n.Search), v.submitFilters).
		AddButton(v.p.T(i18n.Reset), v.resetFilters)
	v.form.SetHorizontal(true).SetBorder(true).SetTitle(" " + v.p.T(i18n.FiltersTitle) + " ")
	v.form.SetCancelFunc(func() { v.app.SetFocus(v.table) })

	v.table = tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0).
		SetSelectable(true, false)
	for i, key := range columns {
		cell := tview.NewTableCell(v.p.T(key)).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false)
		if numericColumns[i] {
			cell.SetAlign(tview.AlignRight)
		}
		v.table.SetCell(0, i, cell)
	}
	v.table.SetInputCapture(v.tableKeys)
	v.table.SetSelectedFunc(func(row, _ int) { v.openRow(row) })

	v.status = tview.NewTextView().SetDynamicColors(true)
	v.status.SetBorder(true).SetTitle(" logview ")

	v.hotbar = tview.NewTextView().SetDynamicColors(false)
	v.hotbar.SetText(v.p.T(i18n.Hotkeys))

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.form, 5, 0, false).
		AddItem(v.table, 0, 1, true).
		AddItem(v.status, 3, 0, false).
		AddItem(v.hotbar, 1, 0, false)

	v.tabs = tview.NewTextView().SetDynamicColors(true)
	v.body = tview.NewTextView().SetScrollable(true).SetWrap(true)
	modalHint := tview.NewTextView().SetText(v.p.T(i18n.ModalHotkeys))

	inner := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.tabs, 1, 0, false).
		AddItem(v.body, 0, 1, true).
		AddItem(modalHint, 1, 0, false)
	inner.SetBorder(true).SetTitle(" " + v.p.T(i18n.ContentTitle) + " ")
	inner.SetInputCapture(v.modalKeys)

	modal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(inner, 0, 8, true).
			AddItem(nil, 0, 1, false), 0, 8, true).
		AddItem(nil, 0, 1, false)

	v.pages = tview.NewPages().
		AddPage(pageMain, main, true, true).
		AddPage(pageContent, modal, true, false)

	v.app.SetInputCapture(v.globalKeys)
	v.render()
}

// render copies controller state into the widgets.
func (v *View) render() {
	st := v.ctrl.State()

	v.items = st.Items
	for r := v.table.GetRowCount() - 1; r > 0; r-- {
		v.table.RemoveRow(r)
	}
	if len(st.Items) == 0 {
		v.table.SetCell(1, 0, tview.NewTableCell(v.p.T(i18n.NoRecords)).
			SetTextColor(tcell.ColorGray).
			SetSelectable(false))
	}
	for i, e := range st.Items {
		for col, text := range rowCells(e, v.loc, v.quota, v.p) {
			cell := tview.NewTableCell(escape(text)).SetMaxWidth(40)
			if numericColumns[col] {
				cell.SetAlign(tview.AlignRight)
			}
			v.table.SetCell(i+1, col, cell)
		}
	}

	v.renderStatus()

	switch {
	case st.ContentOpen && !v.modalOpen():
		v.content = st.Content
		v.tab = tabRequest
		v.renderContent()
		v.pages.ShowPage(pageContent)
		v.app.SetFocus(v.body)
	case !st.ContentOpen && v.modalOpen():
		v.pages.HidePage(pageContent)
		v.app.SetFocus(v.table)
	}
}

func (v *View) renderStatus() {
	v.status.SetText(statusLine(v.ctrl.State(), v.p, v.noticeText()))
}

func (v *View) renderContent() {
	labels := []string{v.p.T(i18n.RequestTab), v.p.T(i18n.ResponseTab)}
	labels[v.tab] = "[black:white] " + labels[v.tab] + " [-:-]"
	v.tabs.SetText(labels[0] + "  " + labels[1])

	v.body.SetText(contentlog.PrettyJSON(v.activeContent()))
	v.body.ScrollToBeginning()
}

func (v *View) activeContent() string {
	if v.tab == tabResponse {
		return v.content.Response
	}
	return v.content.Request
}

func (v *View) modalOpen() bool {
	name, _ := v.pages.GetFrontPage()
	return name == pageContent
}

// selected returns the entry under the table cursor.
func (v *View) selected() (contentlog.LogEntry, bool) {
	row, _ := v.table.GetSelection()
	if row < 1 || row > len(v.items) {
		return contentlog.LogEntry{}, false
	}
	return v.items[row-1], true
}

func (v *View) openRow(row int) {
	if row >= 1 && row <= len(v.items) {
		v.ctrl.OpenContent(v.items[row-1])
	}
}

func (v *View) formValues() formValues {
	text := func(i int) string {
		return v.form.GetFormItem(i).(*tview.InputField).GetText()
	}
	return formValues{
		Username:  text(0),
		TokenName: text(1),
		ModelName: text(2),
		Channel:   text(3),
		Start:     text(4),
		End:       text(5),
	}
}

func (v *View) submitFilters() {
	filters, bad, err := v.formValues().toFilters(v.loc)
	if err != nil {
		v.Error(v.p.T(i18n.InvalidTime, bad))
		return
	}
	v.app.SetFocus(v.table)
	go v.ctrl.ApplyFilters(v.ctx, filters)
}

func (v *View) resetFilters() {
	for i := 0; i < v.form.GetFormItemCount(); i++ {
		v.form.GetFormItem(i).(*tview.InputField).SetText("")
	}
	v.app.SetFocus(v.table)
	go v.ctrl.ResetFilters(v.ctx)
}

func escape(s string) string {
	return tview.Escape(s)
}
