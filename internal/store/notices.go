package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/apperrors"
	"github.com/Monticola-data/backend-kalendar/internal/models"
)

// AppendNotice appends a ChangeNotice with status waiting. The log is
// append-only; notices are never deleted.
func (s *Store) AppendNotice(ctx context.Context, rowID string) (*models.ChangeNotice, error) {
	if rowID == "" {
		return nil, apperrors.NewValidation("rowId")
	}

	now := time.Now().UTC()
	notice := models.ChangeNotice{
		ID:         uuid.New(),
		RowID:      rowID,
		Status:     models.NoticeWaiting,
		EnqueuedAt: now,
		UpdatedAt:  now,
	}

	if err := s.db.WithContext(ctx).Create(&notice).Error; err != nil {
		return nil, &apperrors.StoreError{Op: "append notice", Err: err}
	}

	s.logger.Info("Change notice appended",
		zap.String("notice_id", notice.ID.String()),
		zap.String("row_id", rowID),
	)
	return &notice, nil
}

// LoadNotice loads one notice by id
func (s *Store) LoadNotice(ctx context.Context, id uuid.UUID) (*models.ChangeNotice, error) {
	var notice models.ChangeNotice
	if err := s.db.WithContext(ctx).First(&notice, "id = ?", id).Error; err != nil {
		return nil, &apperrors.StoreError{Op: "load notice", Err: err}
	}
	return &notice, nil
}

// MarkNoticeDone transitions a notice to done
func (s *Store) MarkNoticeDone(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Model(&models.ChangeNotice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.NoticeDone,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return &apperrors.StoreError{Op: "mark notice done", Err: err}
	}
	return nil
}

// MarkNoticeError transitions a notice to error with the failure detail. The
// notice stays in the log for manual inspection; it is not retried.
func (s *Store) MarkNoticeError(ctx context.Context, id uuid.UUID, detail string) error {
	err := s.db.WithContext(ctx).Model(&models.ChangeNotice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.NoticeError,
			"error_detail": detail,
			"updated_at":   time.Now().UTC(),
		}).Error
	if err != nil {
		return &apperrors.StoreError{Op: "mark notice error", Err: err}
	}
	return nil
}
