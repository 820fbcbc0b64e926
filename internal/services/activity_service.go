package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"go.uber.org/zap"
)

// ActivityLogger appends user actions to reports/user_activity.json
type ActivityLogger struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewActivityLogger creates a new activity logger
func NewActivityLogger(st *store.Store, logger *zap.Logger) *ActivityLogger {
	return &ActivityLogger{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// Log records one action. A missing log document is started fresh.
func (al *ActivityLogger) Log(ctx context.Context, userID, role, action, details string) error {
	entries, err := al.load(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, models.Activity{
		UserID:    userID,
		Role:      role,
		Action:    action,
		Timestamp: al.now().Format(models.TimestampLayout),
		Details:   details,
	})
	if err := al.store.Save(ctx, store.ActivityDocument, entries); err != nil {
		return fmt.Errorf("failed to write activity log: %w", err)
	}
	al.logger.Debug("activity recorded",
		zap.String("user_id", userID),
		zap.String("action", action))
	return nil
}

// Record is Log for callers that cannot do anything about a failure
func (al *ActivityLogger) Record(ctx context.Context, userID, role, action, details string) {
	if err := al.Log(ctx, userID, role, action, details); err != nil {
		al.logger.Warn("failed to record activity",
			zap.String("user_id", userID),
			zap.String("action", action),
			zap.Error(err))
	}
}

// List returns the logged activities, only those of userID when it is not empty
func (al *ActivityLogger) List(ctx context.Context, userID string) ([]models.Activity, error) {
	entries, err := al.load(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return entries, nil
	}
	var filtered []models.Activity
	for _, e := range entries {
		if e.UserID == userID {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (al *ActivityLogger) load(ctx context.Context) ([]models.Activity, error) {
	entries, err := store.LoadList[models.Activity](ctx, al.store, store.ActivityDocument)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load activity log: %w", err)
	}
	return entries, nil
}
