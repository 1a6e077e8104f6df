// Package contentlog holds the filter, pagination and fetch state behind the
// content-log viewer. Views read a State snapshot and call the mutators; the
// controller decides when to talk to the server.
package contentlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/mandalnilabja/logview/internal/client"
	"github.com/mandalnilabja/logview/internal/clipboard"
	"github.com/mandalnilabja/logview/internal/i18n"
)

// Fetcher retrieves one page of content logs.
type Fetcher interface {
	FetchContentLogs(ctx context.Context, params url.Values) (*client.Envelope, error)
}

// Notifier shows messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Dispatcher runs refreshes triggered by state changes.
type Dispatcher func(func())

// Async runs each refresh on its own goroutine.
func Async(f func()) { go f() }

// Inline runs each refresh on the caller's goroutine.
func Inline(f func()) { f() }

// Field names a string-valued filter for SetFilter.
type Field int

const (
	FieldUsername Field = iota
	FieldTokenName
	FieldModelName
	FieldChannel
	FieldGroup
	FieldLogType
)

// Filters are the values submitted from the filter form. A zero Start or End
// means no time range was chosen.
type Filters struct {
	Username  string
	TokenName string
	ModelName string
	Channel   string
	Start     time.Time
	End       time.Time
}

// State is a point-in-time copy of everything a view renders.
type State struct {
	Query       Query
	Items       []LogEntry
	Total       int
	Loading     bool
	ContentOpen bool
	Content     ContentPair
}

// Controller owns the query state of one log view. It is safe for
// concurrent use.
type Controller struct {
	fetcher   Fetcher
	notifier  Notifier
	clipboard clipboard.Clipboard
	printer   *i18n.Printer
	dispatch  Dispatcher
	now       func() time.Time
	logger    *slog.Logger

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	query    Query
	observed Query
	batch    int

	items      []LogEntry
	total      int
	inflight   int
	generation uint64

	content     ContentPair
	contentOpen bool

	lmu       sync.Mutex
	listeners map[int]func()
	nextID    int
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where success and error messages go.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithClipboard sets the clipboard used by CopyField.
func WithClipboard(cb clipboard.Clipboard) Option {
	return func(c *Controller) { c.clipboard = cb }
}

// WithPrinter sets the translations used for messages and placeholders.
func WithPrinter(p *i18n.Printer) Option {
	return func(c *Controller) { c.printer = p }
}

// WithDispatcher sets how change-triggered refreshes are run.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Controller) { c.dispatch = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithQuery seeds the initial query. Zero Page, PageSize and EndTimestamp
// are replaced by their defaults.
func WithQuery(q Query) Option {
	return func(c *Controller) { c.query = q }
}

// New creates a controller that loads pages through f.
func New(f Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:   f,
		notifier:  nopNotifier{},
		clipboard: clipboard.Default(),
		printer:   i18n.New(""),
		dispatch:  Async,
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
		ctx:       context.Background(),
		query:     Query{LogType: LogTypeConsume},
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.query.Page < 1 {
		c.query.Page = 1
	}
	if c.query.PageSize == 0 {
		c.query.PageSize = DefaultPageSize
	}
	if c.query.EndTimestamp == 0 {
		c.query.EndTimestamp = c.now().Unix()
	}
	c.observed = c.query
	return c
}

// Start binds the controller to ctx and dispatches the initial load.
// Refreshes triggered by later state changes run under ctx until Close.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx, c.cancel = context.WithCancel(ctx)
	ctx = c.ctx
	c.mu.Unlock()

	c.dispatch(func() { c.Refresh(ctx) })
}

// Close cancels in-flight requests started by the change watcher.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Subscribe registers fn to be called after every state change and returns
// a function that removes it.
func (c *Controller) Subscribe(fn func()) (unsubscribe func()) {
	c.lmu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.lmu.Unlock()

	return func() {
		c.lmu.Lock()
		delete(c.listeners, id)
		c.lmu.Unlock()
	}
}

func (c *Controller) emit() {
	c.lmu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.lmu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]LogEntry, len(c.items))
	copy(items, c.items)
	return State{
		Query:       c.query,
		Items:       items,
		Total:       c.total,
		Loading:     c.inflight > 0,
		ContentOpen: c.contentOpen,
		Content:     c.content,
	}
}

// Refresh loads the page described by the current query. It sends exactly
// one request and never returns the failure; errors are shown through the
// notifier and leave the previous results in place. A response that arrives
// after a newer Refresh has started is dropped.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.inflight++
	params := c.query.Params()
	c.mu.Unlock()
	c.emit()

	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
		c.emit()
	}()

	page, err := c.fetch(ctx, params)

	c.mu.Lock()
	stale := gen != c.generation
	if !stale && err == nil {
		c.items = page.Items
		c.total = page.Total
	}
	c.mu.Unlock()

	switch {
	case stale:
		c.logger.Debug("dropped superseded log page", "generation", gen)
	case err != nil:
		c.report(err)
	}
}

func (c *Controller) fetch(ctx context.Context, params url.Values) (Page, error) {
	env, err := c.fetcher.FetchContentLogs(ctx, params)
	if err != nil {
		return Page{}, err
	}
	if !env.Success {
		return Page{}, &ApplicationError{Message: env.Message}
	}
	page, err := ParsePage(env.Data)
	if err != nil {
		return Page{}, &client.TransportError{Op: "parse " + client.ContentLogsPath, Err: err}
	}
	return page, nil
}

func (c *Controller) report(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		c.logger.Warn("log query rejected", "message", appErr.Message)
		c.notifier.Error(appErr.Message)
		return
	}

	c.logger.Error("failed to load logs", "error", err)
	c.notifier.Error(c.printer.T(i18n.LoadFailed))
}

// update applies fn to the query and dispatches a refresh if the query
// changed and no batch is open.
func (c *Controller) update(fn func(q *Query)) {
	c.mu.Lock()
	fn(&c.query)
	fire := c.changedLocked()
	ctx := c.ctx
	c.mu.Unlock()

	c.emit()
	if fire {
		c.dispatch(func() { c.Refresh(ctx) })
	}
}

func (c *Controller) changedLocked() bool {
	if c.batch > 0 || c.query == c.observed {
		return false
	}
	c.observed = c.query
	return true
}

// Batch runs fn with change detection suspended, then checks once. Setters
// called inside fn cause at most one refresh.
func (c *Controller) Batch(fn func()) {
	c.mu.Lock()
	c.batch++
	c.mu.Unlock()

	defer c.update(func(*Query) {
		c.batch--
	})
	fn()
}

// SetUsername sets the username filter.
func (c *Controller) SetUsername(v string) { c.update(func(q *Query) { q.Username = v }) }

// SetTokenName sets the token name filter.
func (c *Controller) SetTokenName(v string) { c.update(func(q *Query) { q.TokenName = v }) }

// SetModelName sets the model name filter.
func (c *Controller) SetModelName(v string) { c.update(func(q *Query) { q.ModelName = v }) }

// SetChannel sets the channel id filter.
func (c *Controller) SetChannel(v string) { c.update(func(q *Query) { q.Channel = v }) }

// SetGroup sets the group filter.
func (c *Controller) SetGroup(v string) { c.update(func(q *Query) { q.Group = v }) }

// SetLogType sets the log category; zero means all categories.
func (c *Controller) SetLogType(v int) { c.update(func(q *Query) { q.LogType = v }) }

// SetStartTimestamp sets the lower time bound in epoch seconds.
func (c *Controller) SetStartTimestamp(v int64) { c.update(func(q *Query) { q.StartTimestamp = v }) }

// SetEndTimestamp sets the upper time bound in epoch seconds.
func (c *Controller) SetEndTimestamp(v int64) { c.update(func(q *Query) { q.EndTimestamp = v }) }

// SetFilter assigns a filter by field. FieldLogType values must be integers.
func (c *Controller) SetFilter(field Field, value string) error {
	switch field {
	case FieldUsername:
		c.SetUsername(value)
	case FieldTokenName:
		c.SetTokenName(value)
	case FieldModelName:
		c.SetModelName(value)
	case FieldChannel:
		c.SetChannel(value)
	case FieldGroup:
		c.SetGroup(value)
	case FieldLogType:
		n := 0
		if value != "" {
			var err error
			if n, err = strconv.Atoi(value); err != nil {
				return fmt.Errorf("log type %q: %w", value, err)
			}
		}
		c.SetLogType(n)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownField, field)
	}
	return nil
}

// SetTimeRange sets both time bounds. If either end is zero the range is
// cleared to {0, now}. The caller refreshes.
func (c *Controller) SetTimeRange(start, end time.Time) {
	now := c.now()
	c.update(func(q *Query) { setTimeRange(q, start, end, now) })
}

func setTimeRange(q *Query, start, end, now time.Time) {
	if start.IsZero() || end.IsZero() {
		q.StartTimestamp = 0
		q.EndTimestamp = now.Unix()
		return
	}
	q.StartTimestamp = start.Unix()
	q.EndTimestamp = end.Unix()
}

// ApplyFilters stores the submitted form values and loads the first
// matching page with a single request.
func (c *Controller) ApplyFilters(ctx context.Context, f Filters) {
	now := c.now()
	c.mu.Lock()
	c.query.Username = f.Username
	c.query.TokenName = f.TokenName
	c.query.ModelName = f.ModelName
	c.query.Channel = f.Channel
	setTimeRange(&c.query, f.Start, f.End, now)
	c.observed = c.query
	c.mu.Unlock()

	c.emit()
	c.Refresh(ctx)
}

// ResetFilters clears the form filters and the time range, then refreshes.
// LogType and Group are kept.
func (c *Controller) ResetFilters(ctx context.Context) {
	c.ApplyFilters(ctx, Filters{})
}

// SetPage moves to page n (clamped to 1).
func (c *Controller) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	c.update(func(q *Query) { q.Page = n })
}

// SetPageSize changes the page size and returns to the first page.
func (c *Controller) SetPageSize(n int) error {
	if !ValidPageSize(n) {
		c.notifier.Error(c.printer.T(i18n.InvalidPageSize, n))
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	c.update(func(q *Query) {
		q.PageSize = n
		q.Page = 1
	})
	return nil
}

// OpenContent shows the request and response of entry.
func (c *Controller) OpenContent(entry LogEntry) {
	pair := NewContentPair(entry, c.printer)

	c.mu.Lock()
	c.content = pair
	c.contentOpen = true
	c.mu.Unlock()
	c.emit()
}

// CloseContent hides the content view.
func (c *Controller) CloseContent() {
	c.mu.Lock()
	c.contentOpen = false
	c.content = ContentPair{}
	c.mu.Unlock()
	c.emit()
}

// CopyField copies text to the clipboard and reports the outcome. The
// returned error is informational; nothing else depends on it.
func (c *Controller) CopyField(text string) error {
	if err := c.clipboard.Copy(text); err != nil {
		c.logger.Warn("clipboard copy failed", "error", err)
		c.notifier.Error(c.printer.T(i18n.CopyFailed))
		return err
	}
	c.notifier.Success(c.printer.T(i18n.Copied))
	return nil
}
