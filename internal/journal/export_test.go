package journal

import "context"

// SetSchemaVersionForTest overwrites the stored schema version.
func SetSchemaVersionForTest(ctx context.Context, s *Store, version int) error {
	_, err := s.db.ExecContext(ctx, "UPDATE schema_version SET version = ?", version)
	return err
}
