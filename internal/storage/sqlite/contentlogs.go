package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mandalnilabja/logview/internal/storage/models"
)

// InsertContentLog stores a content log entry. ID and CreatedAt are filled
// in when zero.
func (s *Storage) InsertContentLog(log *models.ContentLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if log.CreatedAt == 0 {
		log.CreatedAt = time.Now().Unix()
	}

	request, err := s.sealContent(log.RequestContent)
	if err != nil {
		return err
	}
	response, err := s.sealContent(log.ResponseContent)
	if err != nil {
		return err
	}

	var id any
	if log.ID != 0 {
		id = log.ID
	}

	result, err := s.db.Exec(`
		INSERT INTO content_logs (id, created_at, type, username, token_name, model_name, "group",
			prompt_tokens, completion_tokens, quota, channel_id, request_content, response_content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, log.CreatedAt, log.Type, log.Username, log.TokenName, log.ModelName, log.Group,
		log.PromptTokens, log.CompletionTokens, log.Quota, log.ChannelID, request, response)
	if err != nil {
		return err
	}

	if log.ID == 0 {
		log.ID, err = result.LastInsertId()
	}
	return err
}

// ListContentLogs retrieves content logs with filtering, newest first.
func (s *Storage) ListContentLogs(filter models.ContentLogFilter) ([]*models.ContentLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	where, args := contentLogWhere(filter)
	query := `SELECT l.id, l.created_at, l.type, l.username, l.token_name, l.model_name, l."group",
		l.prompt_tokens, l.completion_tokens, l.quota, l.channel_id, COALESCE(c.name, ''),
		l.request_content, l.response_content
		FROM content_logs l LEFT JOIN channels c ON c.id = l.channel_id` + where +
		" ORDER BY l.id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.ContentLog{}
	for rows.Next() {
		var log models.ContentLog
		var request, response sql.NullString

		err := rows.Scan(&log.ID, &log.CreatedAt, &log.Type, &log.Username, &log.TokenName,
			&log.ModelName, &log.Group, &log.PromptTokens, &log.CompletionTokens, &log.Quota,
			&log.ChannelID, &log.ChannelName, &request, &response)
		if err != nil {
			return nil, err
		}

		if log.RequestContent, err = s.openContent(request); err != nil {
			return nil, fmt.Errorf("log %d request: %w", log.ID, err)
		}
		if log.ResponseContent, err = s.openContent(response); err != nil {
			return nil, fmt.Errorf("log %d response: %w", log.ID, err)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// CountContentLogs returns how many logs match filter, ignoring paging.
func (s *Storage) CountContentLogs(filter models.ContentLogFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStorageClosed
	}

	where, args := contentLogWhere(filter)
	var total int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM content_logs l"+where, args...).Scan(&total)
	return total, err
}

// DeleteContentLogs removes logs created before the given unix timestamp.
func (s *Storage) DeleteContentLogs(before int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStorageClosed
	}

	result, err := s.db.Exec("DELETE FROM content_logs WHERE created_at < ?", before)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// contentLogWhere builds the WHERE clause shared by list and count.
func contentLogWhere(filter models.ContentLogFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Type != 0 {
		conds = append(conds, "l.type = ?")
		args = append(args, filter.Type)
	}
	if filter.Username != "" {
		conds = append(conds, "l.username = ?")
		args = append(args, filter.Username)
	}
	if filter.TokenName != "" {
		conds = append(conds, "l.token_name = ?")
		args = append(args, filter.TokenName)
	}
	if filter.ModelName != "" {
		conds = append(conds, "l.model_name LIKE ?")
		args = append(args, filter.ModelName)
	}
	if filter.Group != "" {
		conds = append(conds, `l."group" = ?`)
		args = append(args, filter.Group)
	}
	if filter.ChannelID != nil {
		conds = append(conds, "l.channel_id = ?")
		args = append(args, *filter.ChannelID)
	}
	if filter.StartTimestamp != 0 {
		conds = append(conds, "l.created_at >= ?")
		args = append(args, filter.StartTimestamp)
	}
	if filter.EndTimestamp != 0 {
		conds = append(conds, "l.created_at <= ?")
		args = append(args, filter.EndTimestamp)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// sealContent encrypts a body for storage; nil stays NULL.
func (s *Storage) sealContent(content *string) (any, error) {
	if content == nil {
		return nil, nil
	}
	sealed, err := s.encryptor.Encrypt(*content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}
	return sealed, nil
}

// openContent decrypts a stored body.
func (s *Storage) openContent(v sql.NullString) (*string, error) {
	if !v.Valid {
		return nil, nil
	}
	plain, err := s.encryptor.Decrypt(v.String)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}
	return &plain, nil
}
