// Package services holds application services shared by several command
// handlers.
package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hivemind/application/ports"
	"hivemind/domain/hive"
	"hivemind/domain/user"
	"hivemind/pkg/errors"
)

// ParticipationTracker records participation events against hive manifests.
// Every graph mutation in a hive counts as participation by its author: the
// daily bucket moves at most once per user per hive per calendar day, and the
// cumulative total moves only the first time a user ever acts in the hive.
type ParticipationTracker struct {
	manifests     ports.ManifestRepository
	participation ports.ParticipationRepository
	logger        *zap.Logger
}

// NewParticipationTracker creates a new tracker.
func NewParticipationTracker(
	manifests ports.ManifestRepository,
	participation ports.ParticipationRepository,
	logger *zap.Logger,
) *ParticipationTracker {
	return &ParticipationTracker{
		manifests:     manifests,
		participation: participation,
		logger:        logger,
	}
}

// MarkParticipant records that userID acted in hiveID at now.
func (t *ParticipationTracker) MarkParticipant(ctx context.Context, userID, hiveID string, now time.Time) error {
	today := hive.DayOf(now)

	edge, err := t.participation.Get(ctx, userID, hiveID)
	if err != nil {
		return errors.Wrap(err, "load participation edge")
	}

	switch {
	case edge == nil:
		// First-ever participation in this hive.
		if err := t.participation.Create(ctx, &user.Participation{
			From:    userID,
			To:      hiveID,
			LastDay: today,
		}); err != nil {
			return errors.Wrap(err, "create participation edge")
		}
		return t.manifests.BumpParticipation(ctx, hiveID, today, now, true)

	case edge.LastDay != today:
		// First participation today.
		if err := t.participation.SetLastDay(ctx, edge.Key, today); err != nil {
			return errors.Wrap(err, "advance participation day")
		}
		return t.manifests.BumpParticipation(ctx, hiveID, today, now, false)

	default:
		// Repeat participation on the same day only refreshes the timestamp.
		return t.manifests.TouchLastParticipation(ctx, hiveID, now)
	}
}

// MarkPointCreated records a point creation in hiveID at now.
func (t *ParticipationTracker) MarkPointCreated(ctx context.Context, hiveID string, now time.Time) error {
	return t.manifests.BumpPointCount(ctx, hiveID, hive.DayOf(now))
}
