package contentlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryParams(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		want    map[string]string
		missing []string
	}{
		{
			name:    "only pagination",
			query:   Query{Page: 1, PageSize: 10},
			want:    map[string]string{"page": "1", "page_size": "10"},
			missing: []string{"type", "username", "token_name", "model_name", "channel", "group", "start_timestamp", "end_timestamp"},
		},
		{
			name: "all filters",
			query: Query{
				Page: 3, PageSize: 50, LogType: 2,
				Username: "alice", TokenName: "prod key", ModelName: "gpt-4o",
				Channel: "7", Group: "vip",
				StartTimestamp: 100, EndTimestamp: 200,
			},
			want: map[string]string{
				"page": "3", "page_size": "50", "type": "2",
				"username": "alice", "token_name": "prod key", "model_name": "gpt-4o",
				"channel": "7", "group": "vip",
				"start_timestamp": "100", "end_timestamp": "200",
			},
		},
		{
			name:    "end without start",
			query:   Query{Page: 1, PageSize: 20, EndTimestamp: 1_700_000_000},
			want:    map[string]string{"end_timestamp": "1700000000"},
			missing: []string{"start_timestamp", "type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.query.Params()
			for k, v := range tt.want {
				assert.Equal(t, v, got.Get(k), k)
			}
			for _, k := range tt.missing {
				assert.False(t, got.Has(k), "unexpected %s", k)
			}
		})
	}
}

func TestQueryParamsEscapes(t *testing.T) {
	q := Query{Page: 1, PageSize: 10, Username: "a&b=c"}
	assert.Contains(t, q.Params().Encode(), "username=a%26b%3Dc")
}

func TestValidPageSize(t *testing.T) {
	for _, n := range []int{10, 20, 50, 100} {
		assert.True(t, ValidPageSize(n), n)
	}
	for _, n := range []int{0, 5, 25, 1000} {
		assert.False(t, ValidPageSize(n), n)
	}
}
