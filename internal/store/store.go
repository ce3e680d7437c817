// Package store implements the event-store side of the bridge on top of
// PostgreSQL: the append-only change-notice log, the refresh-status
// singleton, and the event/team documents.
package store

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a store bound to the given database connection
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}
