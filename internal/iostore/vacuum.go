package iostore

import (
	"context"
	"log/slog"
	"time"
)

// Vacuum reclaims space left by deleted rows and updates planner
// statistics. It cannot run inside a transaction.
func (s *Store) Vacuum(ctx context.Context) error {
	d, err := s.db()
	if err != nil {
		return err
	}
	stmts := []string{"VACUUM ANALYZE"}
	if s.operator.Driver() == "sqlite" {
		stmts = []string{"VACUUM", "ANALYZE"}
	}

	slog.Info("Running VACUUM on database...")
	start := time.Now()
	for _, q := range stmts {
		if _, err = d.ExecContext(ctx, q); err != nil {
			return WriteError("vacuum", err)
		}
	}
	slog.Info("VACUUM completed", "duration", time.Since(start).String())
	return nil
}
