package sqlite

// migrateContentLogs adds the group column to databases created before
// group filtering existed. SQLite has no ADD COLUMN IF NOT EXISTS, so the
// column list is checked first.
func (s *Storage) migrateContentLogs() error {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('content_logs') WHERE name = 'group'
	`).Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		if _, err := s.db.Exec(`ALTER TABLE content_logs ADD COLUMN "group" TEXT NOT NULL DEFAULT ''`); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_content_logs_group ON content_logs("group")`)
	return err
}
