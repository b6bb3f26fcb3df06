package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitolstream/hearings-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func datePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestUpsertAndListEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	events := []model.CongressEvent{
		{EventID: "115001", Congress: 118, Title: "Hearing on Broadband", Date: datePtr("2024-03-10"), EventType: "Hearing"},
		{EventID: "115002", Congress: 118, Title: "Markup of H.R. 1", Date: datePtr("2024-03-12"), EventType: "Markup"},
	}

	n, err := s.UpsertEvents(ctx, events)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest date first.
	assert.Equal(t, "115002", got[0].EventID)
	assert.Equal(t, "Markup of H.R. 1", got[0].Title)

	// Upsert with a changed title replaces the record.
	events[1].Title = "Markup of H.R. 1 (amended)"
	_, err = s.UpsertEvents(ctx, events[1:])
	require.NoError(t, err)

	got, err = s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Markup of H.R. 1 (amended)", got[0].Title)
}

func TestUpsertEventsDedupByEventID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Event IDs are unique across congresses, so the same ID arriving
	// from a later fetch replaces the record rather than duplicating it.
	_, err := s.UpsertEvents(ctx, []model.CongressEvent{
		{EventID: "115001", Congress: 118, Title: "Hearing on Broadband", Date: datePtr("2024-03-10")},
	})
	require.NoError(t, err)

	_, err = s.UpsertEvents(ctx, []model.CongressEvent{
		{EventID: "115001", Congress: 119, Title: "Hearing on Broadband", Date: datePtr("2024-03-10")},
	})
	require.NoError(t, err)

	got, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "115001", got[0].EventID)
	assert.Equal(t, 119, got[0].Congress)
}

func TestUpsertVideosExactDateWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	exact := model.VideoRecord{
		VideoID:    "vid1",
		Title:      "Health Hearing",
		Date:       datePtr("2024-03-12"),
		DateSource: model.DateSourceExact,
	}
	n, err := s.UpsertVideos(ctx, []model.VideoRecord{exact})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// An approximate record for the same video must not clobber the
	// exact date.
	approx := exact
	approx.Date = datePtr("2024-03-01")
	approx.DateSource = model.DateSourceApproximate

	n, err = s.UpsertVideos(ctx, []model.VideoRecord{approx})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := s.ListVideos(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.DateSourceExact, got[0].DateSource)
	assert.Equal(t, "2024-03-12", got[0].DateString())

	// An exact record replaces an approximate one.
	_, err = s.UpsertVideos(ctx, []model.VideoRecord{{
		VideoID: "vid2", Title: "x", Date: datePtr("2024-01-01"), DateSource: model.DateSourceApproximate,
	}})
	require.NoError(t, err)
	n, err = s.UpsertVideos(ctx, []model.VideoRecord{{
		VideoID: "vid2", Title: "x", Date: datePtr("2024-01-03"), DateSource: model.DateSourceExact,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCheckpoints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	done, err := s.IsCheckpointDone(ctx, "hsif00/118")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, s.MarkCheckpointDone(ctx, "hsif00/118"))

	done, err = s.IsCheckpointDone(ctx, "hsif00/118")
	require.NoError(t, err)
	assert.True(t, done)

	require.NoError(t, s.ClearCheckpoints(ctx))

	done, err = s.IsCheckpointDone(ctx, "hsif00/118")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	report := &model.MatchReport{
		Metadata: model.ReportMetadata{
			TotalVideos: 10,
			Matched:     7,
			Unmatched:   3,
			MatchRate:   "70.0%",
			GeneratedAt: time.Now().UTC(),
		},
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, report))

	latest, err = s.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, model.RunStatusComplete, latest.Status)
	require.NotNil(t, latest.Report)
	assert.Equal(t, "70.0%", latest.Report.Metadata.MatchRate)
	assert.NotNil(t, latest.CompletedAt)
}

func TestFailRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID, assert.AnError))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, latest.Status)
	assert.NotEmpty(t, latest.Error)
}

func TestCompleteRunUnknownID(t *testing.T) {
	s := newTestStore(t)
	err := s.CompleteRun(context.Background(), "no-such-run", &model.MatchReport{})
	assert.Error(t, err)
}
