package sqlite

import "github.com/mandalnilabja/logview/internal/storage/models"

// UpsertChannel creates or renames a channel.
func (s *Storage) UpsertChannel(ch *models.Channel) error {
	if ch.ID <= 0 || ch.Name == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO channels (id, name, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = CURRENT_TIMESTAMP
	`, ch.ID, ch.Name)

	return err
}

// ListChannels returns all known channels ordered by id.
func (s *Storage) ListChannels() ([]*models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query("SELECT id, name FROM channels ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []*models.Channel
	for rows.Next() {
		var ch models.Channel
		if err := rows.Scan(&ch.ID, &ch.Name); err != nil {
			return nil, err
		}
		channels = append(channels, &ch)
	}
	return channels, rows.Err()
}
