package admin

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mandalnilabja/logview/internal/storage"
	"github.com/mandalnilabja/logview/internal/transport/http/handler/shared"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// contentLogPage is the data member of a list response.
type contentLogPage struct {
	Items    []*storage.ContentLog `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// ListContentLogs handles GET /api/log/content.
// Invalid parameters produce success:false with status 200, as the
// dashboard expects.
func (h *Handlers) ListContentLogs(w http.ResponseWriter, r *http.Request) {
	filter, page, pageSize, err := parseContentLogQuery(r.URL.Query())
	if err != nil {
		shared.WriteFailure(w, err.Error(), http.StatusOK)
		return
	}

	total, err := h.countContentLogs(filter)
	if err != nil {
		h.Logger.Error("failed to count content logs", "error", err)
		shared.WriteFailure(w, "failed to count logs", http.StatusInternalServerError)
		return
	}

	items := []*storage.ContentLog{}
	if offset, ok := pageOffset(page, pageSize); ok {
		filter.Limit = pageSize
		filter.Offset = offset
		items, err = h.Storage.ListContentLogs(filter)
		if err != nil {
			h.Logger.Error("failed to list content logs", "error", err)
			shared.WriteFailure(w, "failed to list logs", http.StatusInternalServerError)
			return
		}
	}

	shared.WriteSuccess(w, contentLogPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// DeleteContentLogs handles DELETE /api/log/content?target_timestamp=N.
func (h *Handlers) DeleteContentLogs(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("target_timestamp")
	before, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || before <= 0 {
		shared.WriteFailure(w, "target_timestamp is required", http.StatusOK)
		return
	}

	deleted, err := h.Storage.DeleteContentLogs(before)
	if err != nil {
		h.Logger.Error("failed to delete content logs", "error", err)
		shared.WriteFailure(w, "failed to delete logs", http.StatusInternalServerError)
		return
	}
	if h.Counts != nil {
		h.Counts.Clear()
	}

	h.Logger.Info("deleted content logs", "before", before, "count", deleted)
	shared.WriteSuccess(w, deleted)
}

// pageOffset returns the row offset of page. ok is false when the offset
// does not fit in an int, so no row can be on that page.
func pageOffset(page, pageSize int) (offset int, ok bool) {
	if page-1 > math.MaxInt/pageSize {
		return 0, false
	}
	return (page - 1) * pageSize, true
}

// countContentLogs returns the total for filter, served from the cache
// while the entry is fresh.
func (h *Handlers) countContentLogs(filter storage.ContentLogFilter) (int64, error) {
	if h.Counts == nil {
		return h.Storage.CountContentLogs(filter)
	}

	key := countKey(filter)
	if total, ok := h.Counts.Get(key); ok {
		return total, nil
	}

	total, err := h.Storage.CountContentLogs(filter)
	if err != nil {
		return 0, err
	}
	h.Counts.SetWithTTL(key, total, 1, h.CountTTL)
	return total, nil
}

// countKey identifies a filter independent of paging.
func countKey(f storage.ContentLogFilter) string {
	channel := "-"
	if f.ChannelID != nil {
		channel = strconv.Itoa(*f.ChannelID)
	}
	return fmt.Sprintf("%d|%q|%q|%q|%q|%s|%d|%d",
		f.Type, f.Username, f.TokenName, f.ModelName, f.Group, channel, f.StartTimestamp, f.EndTimestamp)
}

func parseContentLogQuery(q url.Values) (filter storage.ContentLogFilter, page, pageSize int, err error) {
	page, pageSize = 1, defaultPageSize

	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return filter, 0, 0, fmt.Errorf("invalid page %q", v)
		}
	}
	page = max(page, 1)

	if v := q.Get("page_size"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			return filter, 0, 0, fmt.Errorf("invalid page_size %q", v)
		}
	}
	pageSize = min(max(pageSize, 1), maxPageSize)

	if v := q.Get("type"); v != "" {
		if filter.Type, err = strconv.Atoi(v); err != nil {
			return filter, 0, 0, fmt.Errorf("invalid type %q", v)
		}
	}
	if v := q.Get("channel"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return filter, 0, 0, fmt.Errorf("invalid channel %q", v)
		}
		filter.ChannelID = &id
	}
	if v := q.Get("start_timestamp"); v != "" {
		if filter.StartTimestamp, err = strconv.ParseInt(v, 10, 64); err != nil {
			return filter, 0, 0, fmt.Errorf("invalid start_timestamp %q", v)
		}
	}
	if v := q.Get("end_timestamp"); v != "" {
		if filter.EndTimestamp, err = strconv.ParseInt(v, 10, 64); err != nil {
			return filter, 0, 0, fmt.Errorf("invalid end_timestamp %q", v)
		}
	}

	filter.Username = q.Get("username")
	filter.TokenName = q.Get("token_name")
	filter.ModelName = q.Get("model_name")
	filter.Group = q.Get("group")
	return filter, page, pageSize, nil
}
