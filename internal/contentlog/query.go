package contentlog

import (
	"net/url"
	"strconv"
)

// Log categories as stored by the gateway. LogTypeConsume is the default
// filter: consumption logs only.
const (
	LogTypeUnknown = 0
	LogTypeTopUp   = 1
	LogTypeConsume = 2
	LogTypeManage  = 3
	LogTypeSystem  = 4
)

// DefaultPageSize is the page size a new controller starts with.
const DefaultPageSize = 10

// PageSizes lists the page sizes the table offers.
var PageSizes = []int{10, 20, 50, 100}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Query is the filter and pagination state of a log listing. Every field
// takes part in change detection, so the struct must stay comparable.
type Query struct {
	Page     int
	PageSize int
	LogType  int

	Username  string
	TokenName string
	ModelName string
	Channel   string
	Group     string

	// Epoch seconds; zero means unbounded.
	StartTimestamp int64
	EndTimestamp   int64
}

// Params encodes q as query parameters. page and page_size are always
// present; other fields only when non-empty or non-zero.
func (q Query) Params() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("page_size", strconv.Itoa(q.PageSize))

	if q.LogType != 0 {
		v.Set("type", strconv.Itoa(q.LogType))
	}
	setIf(v, "model_name", q.ModelName)
	setIf(v, "username", q.Username)
	setIf(v, "token_name", q.TokenName)
	if q.StartTimestamp != 0 {
		v.Set("start_timestamp", strconv.FormatInt(q.StartTimestamp, 10))
	}
	if q.EndTimestamp != 0 {
		v.Set("end_timestamp", strconv.FormatInt(q.EndTimestamp, 10))
	}
	setIf(v, "channel", q.Channel)
	setIf(v, "group", q.Group)
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
