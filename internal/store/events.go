package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Monticola-data/backend-kalendar/internal/apperrors"
	"github.com/Monticola-data/backend-kalendar/internal/models"
	"github.com/Monticola-data/backend-kalendar/internal/normalize"
)

// UpsertEvent merges the provided fields into the event document with the
// given id. Absent fields are left untouched (field-level merge via INSERT
// ... ON CONFLICT DO UPDATE over the provided columns only). Dates, flags
// and identifier lists are normalized and the color is resolved from the
// team before the merge.
func (s *Store) UpsertEvent(ctx context.Context, id string, fields map[string]any) error {
	if id == "" {
		return apperrors.NewValidation("eventId")
	}

	event := models.Event{ID: id, UpdatedAt: time.Now().UTC()}
	assignments := map[string]interface{}{
		"updated_at": event.UpdatedAt,
	}

	if raw, ok := fields["title"]; ok {
		event.Title = normalize.String(raw, "")
		assignments["title"] = event.Title
	}
	if raw, ok := fields["start"]; ok {
		event.StartDate = normalize.Date(normalize.String(raw, ""))
		assignments["start_date"] = event.StartDate
	}
	if raw, ok := fields["teamId"]; ok {
		event.TeamID = normalize.String(raw, "")
		event.Color = s.ResolveColor(ctx, event.TeamID)
		assignments["team_id"] = event.TeamID
		assignments["color"] = event.Color
	}
	if raw, ok := fields["parentJobId"]; ok {
		event.ParentJobID = normalize.String(raw, "")
		assignments["parent_job_id"] = event.ParentJobID
	}
	if raw, ok := fields["sent"]; ok {
		event.Sent = normalize.Flag(raw)
		assignments["sent"] = event.Sent
	}
	if raw, ok := fields["done"]; ok {
		event.Done = normalize.Flag(raw)
		assignments["done"] = event.Done
	}
	if raw, ok := fields["handedOff"]; ok {
		event.HandedOff = normalize.Flag(raw)
		assignments["handed_off"] = event.HandedOff
	}
	if raw, ok := fields["detail"]; ok {
		event.Detail = normalize.String(raw, "")
		assignments["detail"] = event.Detail
	}
	if raw, ok := fields["securityFilter"]; ok {
		event.SecurityFilter = models.StringList(normalize.Set(raw))
		assignments["security_filter"] = event.SecurityFilter
	}
	if raw, ok := fields["assignedUsers"]; ok {
		event.AssignedUsers = models.StringList(normalize.Set(raw))
		assignments["assigned_users"] = event.AssignedUsers
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&event).Error
	if err != nil {
		return &apperrors.StoreError{Op: "upsert event", Err: err}
	}

	s.logger.Info("Event document upserted",
		zap.String("event_id", id),
		zap.Int("field_count", len(fields)),
	)
	return nil
}

// DeleteEvent removes one event document. Deleting an absent document is a
// no-op, not an error.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidation("eventId")
	}

	result := s.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return &apperrors.StoreError{Op: "delete event", Err: result.Error}
	}

	s.logger.Info("Event document deleted",
		zap.String("event_id", id),
		zap.Int64("rows", result.RowsAffected),
	)
	return nil
}

// DeleteEventsByParentJob removes every event document referencing the given
// parent job and returns the count deleted. Zero is a normal outcome.
func (s *Store) DeleteEventsByParentJob(ctx context.Context, parentJobID string) (int64, error) {
	if parentJobID == "" {
		return 0, apperrors.NewValidation("jobId")
	}

	result := s.db.WithContext(ctx).Delete(&models.Event{}, "parent_job_id = ?", parentJobID)
	if result.Error != nil {
		return 0, &apperrors.StoreError{Op: "delete events by parent job", Err: result.Error}
	}

	s.logger.Info("Event documents deleted by parent job",
		zap.String("parent_job_id", parentJobID),
		zap.Int64("deleted", result.RowsAffected),
	)
	return result.RowsAffected, nil
}

// ResolveColor looks up the team and returns its stored color, or the fixed
// fallback when the team is missing or unreadable. A missing team is logged,
// never propagated.
func (s *Store) ResolveColor(ctx context.Context, teamID string) string {
	if teamID == "" {
		return models.FallbackColor
	}

	var team models.Team
	err := s.db.WithContext(ctx).First(&team, "id = ?", teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Team not found, using fallback color",
				zap.String("team_id", teamID),
			)
		} else {
			s.logger.Error("Failed to load team, using fallback color",
				zap.String("team_id", teamID),
				zap.Error(err),
			)
		}
		return models.FallbackColor
	}

	if team.ColorHex == "" {
		return models.FallbackColor
	}
	return team.ColorHex
}

// UpsertTeam merges the provided fields into the team document with the
// given id, with the same field-level merge semantics as UpsertEvent.
func (s *Store) UpsertTeam(ctx context.Context, id string, fields map[string]any) error {
	if id == "" {
		return apperrors.NewValidation("teamId")
	}

	team := models.Team{ID: id, UpdatedAt: time.Now().UTC()}
	assignments := map[string]interface{}{
		"updated_at": team.UpdatedAt,
	}

	if raw, ok := fields["name"]; ok {
		team.Name = normalize.String(raw, "")
		assignments["name"] = team.Name
	}
	if raw, ok := fields["colorHex"]; ok {
		team.ColorHex = normalize.String(raw, "")
		assignments["color_hex"] = team.ColorHex
	}
	if raw, ok := fields["department"]; ok {
		team.Department = normalize.String(raw, "")
		assignments["department"] = team.Department
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&team).Error
	if err != nil {
		return &apperrors.StoreError{Op: "upsert team", Err: err}
	}

	s.logger.Info("Team document upserted",
		zap.String("team_id", id),
	)
	return nil
}
