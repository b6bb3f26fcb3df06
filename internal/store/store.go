// Package store persists the event index, the collected video records,
// fetch checkpoints and matching runs between CLI invocations.
package store

import (
	"context"

	"github.com/capitolstream/hearings-cli/internal/model"
)

// Store defines the persistence interface for the matching pipeline.
type Store interface {
	// Event index
	UpsertEvents(ctx context.Context, events []model.CongressEvent) (int, error)
	ListEvents(ctx context.Context) ([]model.CongressEvent, error)

	// Video records
	UpsertVideos(ctx context.Context, videos []model.VideoRecord) (int, error)
	ListVideos(ctx context.Context) ([]model.VideoRecord, error)

	// Fetch checkpoints. Keys name a unit of fetch work, e.g. one
	// committee code and congress; a done checkpoint is skipped on
	// resume.
	IsCheckpointDone(ctx context.Context, key string) (bool, error)
	MarkCheckpointDone(ctx context.Context, key string) error
	ClearCheckpoints(ctx context.Context) error

	// Matching runs
	CreateRun(ctx context.Context) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, report *model.MatchReport) error
	FailRun(ctx context.Context, runID string, runErr error) error
	LatestRun(ctx context.Context) (*model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
