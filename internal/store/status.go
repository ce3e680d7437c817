package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/apperrors"
	"github.com/Monticola-data/backend-kalendar/internal/models"
)

// PublishStatus unconditionally overwrites the refresh-status singleton with
// {kind: update, rowId}. Earlier unconsumed signals are superseded; the
// consumer always re-fetches full state, so holding only the most recent
// row id is enough.
func (s *Store) PublishStatus(ctx context.Context, rowID string) error {
	err := s.db.WithContext(ctx).Exec(`
		UPDATE refresh_status
		SET kind = ?, row_id = ?, updated_at = ?
		WHERE id = ?
	`, models.RefreshUpdate, rowID, time.Now().UTC(), models.RefreshStatusKey).Error
	if err != nil {
		return &apperrors.StoreError{Op: "publish refresh status", Err: err}
	}

	s.logger.Info("Refresh status published",
		zap.String("row_id", rowID),
	)
	return nil
}

// DrainStatus reads the singleton and, if it holds an update, clears it in
// the same statement. The read-and-clear is one UPDATE so two racing pollers
// cannot both lose the signal; at most one sees {kind: update}.
func (s *Store) DrainStatus(ctx context.Context) (models.RefreshStatus, error) {
	var drained []struct {
		RowID *string
	}

	err := s.db.WithContext(ctx).Raw(`
		UPDATE refresh_status r
		SET kind = ?, row_id = NULL, updated_at = ?
		FROM (
			SELECT id, row_id FROM refresh_status
			WHERE id = ? AND kind = ?
			FOR UPDATE
		) prev
		WHERE r.id = prev.id
		RETURNING prev.row_id
	`, models.RefreshNone, time.Now().UTC(), models.RefreshStatusKey, models.RefreshUpdate).
		Scan(&drained).Error
	if err != nil {
		return models.RefreshStatus{}, &apperrors.StoreError{Op: "drain refresh status", Err: err}
	}

	if len(drained) == 0 {
		return models.RefreshStatus{ID: models.RefreshStatusKey, Kind: models.RefreshNone}, nil
	}

	return models.RefreshStatus{
		ID:    models.RefreshStatusKey,
		Kind:  models.RefreshUpdate,
		RowID: drained[0].RowID,
	}, nil
}
