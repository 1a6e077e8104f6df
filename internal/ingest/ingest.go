// Package ingest imports content logs from JSON Lines exports.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mandalnilabja/logview/internal/storage"
	"github.com/mandalnilabja/logview/internal/tokenizer"
)

// maxLineSize bounds a single record; request bodies can be large.
const maxLineSize = 16 << 20

// Result summarizes an import.
type Result struct {
	Inserted int
	Skipped  int // malformed lines
	Failed   int // well-formed records the store rejected
}

// Importer writes decoded records into a store.
type Importer struct {
	store   storage.Storage
	counter tokenizer.Counter
	logger  *slog.Logger
}

// New creates an Importer. A nil counter disables token backfill.
func New(store storage.Storage, counter tokenizer.Counter, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, counter: counter, logger: logger}
}

// Import reads one record per line from r. Blank lines are ignored.
// It stops early only when ctx is cancelled or r fails.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	channels := make(map[int]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return res, err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var log storage.ContentLog
		if err := json.Unmarshal([]byte(text), &log); err != nil {
			im.logger.Warn("skipping malformed line", "line", line, "error", err)
			res.Skipped++
			continue
		}

		if log.ChannelID > 0 && log.ChannelName != "" && channels[log.ChannelID] != log.ChannelName {
			ch := &storage.Channel{ID: log.ChannelID, Name: log.ChannelName}
			if err := im.store.UpsertChannel(ch); err != nil {
				im.logger.Warn("failed to upsert channel", "line", line, "channel", log.ChannelID, "error", err)
			} else {
				channels[log.ChannelID] = log.ChannelName
			}
		}

		im.backfillTokens(&log)

		if err := im.store.InsertContentLog(&log); err != nil {
			im.logger.Warn("failed to insert log", "line", line, "error", err)
			res.Failed++
			continue
		}
		res.Inserted++
	}

	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read line %d: %w", line+1, err)
	}
	return res, nil
}

// backfillTokens fills zero token counts from the recorded content.
func (im *Importer) backfillTokens(log *storage.ContentLog) {
	if im.counter == nil {
		return
	}

	if log.PromptTokens == 0 && log.RequestContent != nil && *log.RequestContent != "" {
		n, err := im.counter.CountRequest(*log.RequestContent, log.ModelName)
		if err != nil {
			im.logger.Debug("prompt token count failed", "model", log.ModelName, "error", err)
		} else {
			log.PromptTokens = n
		}
	}

	if log.CompletionTokens == 0 && log.ResponseContent != nil && *log.ResponseContent != "" {
		n, err := im.counter.CountTokens(*log.ResponseContent, log.ModelName)
		if err != nil {
			im.logger.Debug("completion token count failed", "model", log.ModelName, "error", err)
		} else {
			log.CompletionTokens = n
		}
	}
}
