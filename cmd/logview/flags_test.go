package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/logview/internal/contentlog"
)

var cst = time.FixedZone("CST", 8*3600)

func parseQuery(t *testing.T, args ...string) (contentlog.Query, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	flags := addQueryFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	defaults := contentlog.Query{Page: 1, PageSize: 20, LogType: contentlog.LogTypeConsume}
	return flags.query(cmd, defaults, cst)
}

func TestQueryDefaults(t *testing.T) {
	q, err := parseQuery(t)
	require.NoError(t, err)
	assert.Equal(t, contentlog.Query{Page: 1, PageSize: 20, LogType: contentlog.LogTypeConsume}, q)
}

func TestQueryFlags(t *testing.T) {
	q, err := parseQuery(t,
		"--username", "alice",
		"--token", "prod",
		"--model", "gpt-4o",
		"--channel", "3",
		"--group", "vip",
		"--type", "0",
		"--start", "2024-01-02",
		"--end", "2024-01-02 12:30:00",
		"--page", "4",
		"--page-size", "50",
	)
	require.NoError(t, err)

	assert.Equal(t, "alice", q.Username)
	assert.Equal(t, "prod", q.TokenName)
	assert.Equal(t, "gpt-4o", q.ModelName)
	assert.Equal(t, "3", q.Channel)
	assert.Equal(t, "vip", q.Group)
	assert.Equal(t, contentlog.LogTypeUnknown, q.LogType)
	assert.Equal(t, 4, q.Page)
	assert.Equal(t, 50, q.PageSize)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, cst).Unix(), q.StartTimestamp)
	assert.Equal(t, time.Date(2024, 1, 2, 12, 30, 0, 0, cst).Unix(), q.EndTimestamp)
}

func TestQueryFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"page size", []string{"--page-size", "15"}},
		{"page", []string{"--page", "0"}},
		{"type", []string{"--type", "9"}},
		{"start", []string{"--start", "yesterday"}},
		{"end", []string{"--end", "2024/01/02"}},
		{"reversed range", []string{"--start", "2024-02-01", "--end", "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseQuery(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseTimeFlag(t *testing.T) {
	got, err := parseTimeFlag("", cst)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseTimeFlag("2024-03-04 05:06", cst)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 4, 5, 6, 0, 0, cst), got)
}
