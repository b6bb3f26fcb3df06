package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/capitolstream/hearings-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS events (
	event_id   TEXT PRIMARY KEY,
	congress   INTEGER NOT NULL,
	date       TEXT,
	doc        TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS videos (
	video_id   TEXT PRIMARY KEY,
	date       TEXT,
	channel_id TEXT,
	doc        TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS checkpoints (
	key        TEXT PRIMARY KEY,
	done_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'running',
	report       TEXT,
	error        TEXT,
	started_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
CREATE INDEX IF NOT EXISTS idx_videos_date ON videos(date);
CREATE INDEX IF NOT EXISTS idx_videos_channel_id ON videos(channel_id);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertEvents inserts or replaces events by event ID in one
// transaction. Returns the number of rows written.
func (s *SQLiteStore) UpsertEvents(ctx context.Context, events []model.CongressEvent) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert events")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (event_id, congress, date, doc, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(event_id) DO UPDATE SET
			congress = excluded.congress,
			date = excluded.date,
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert events")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	count := 0
	for _, ev := range events {
		doc, err := json.Marshal(ev)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal event")
		}
		if _, err := stmt.ExecContext(ctx, ev.EventID, ev.Congress, ev.DateString(), string(doc), now); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert event %s", ev.EventID)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert events")
	}
	return count, nil
}

// ListEvents returns all stored events, newest date first.
func (s *SQLiteStore) ListEvents(ctx context.Context) ([]model.CongressEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM events ORDER BY date DESC, event_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list events")
	}
	defer rows.Close()

	var events []model.CongressEvent
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan event")
		}
		var ev model.CongressEvent
		if err := json.Unmarshal([]byte(doc), &ev); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal event")
		}
		events = append(events, ev)
	}
	return events, eris.Wrap(rows.Err(), "sqlite: list events iterate")
}

// UpsertVideos inserts or replaces videos by video ID in one
// transaction. A record with an exact date always wins over a stored
// approximate one; otherwise the newer fetch wins.
func (s *SQLiteStore) UpsertVideos(ctx context.Context, videos []model.VideoRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert videos")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	count := 0
	for _, v := range videos {
		existing, err := getVideoTx(ctx, tx, v.VideoID)
		if err != nil {
			return 0, err
		}
		if existing != nil && existing.DateSource == model.DateSourceExact && v.DateSource != model.DateSourceExact {
			continue
		}

		doc, err := json.Marshal(v)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal video")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO videos (video_id, date, channel_id, doc, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(video_id) DO UPDATE SET
				date = excluded.date,
				channel_id = excluded.channel_id,
				doc = excluded.doc,
				updated_at = excluded.updated_at`,
			v.VideoID, v.DateString(), v.ChannelID, string(doc), now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert video %s", v.VideoID)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert videos")
	}
	return count, nil
}

// ListVideos returns all stored videos, newest date first.
func (s *SQLiteStore) ListVideos(ctx context.Context) ([]model.VideoRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM videos ORDER BY date DESC, video_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list videos")
	}
	defer rows.Close()

	var videos []model.VideoRecord
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan video")
		}
		var v model.VideoRecord
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal video")
		}
		videos = append(videos, v)
	}
	return videos, eris.Wrap(rows.Err(), "sqlite: list videos iterate")
}

func (s *SQLiteStore) IsCheckpointDone(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM checkpoints WHERE key = ?`, key,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: get checkpoint %s", key)
	}
	return true, nil
}

func (s *SQLiteStore) MarkCheckpointDone(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (key, done_at) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET done_at = excluded.done_at`,
		key, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: mark checkpoint %s", key)
}

func (s *SQLiteStore) ClearCheckpoints(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints`)
	return eris.Wrap(err, "sqlite: clear checkpoints")
}

func (s *SQLiteStore) CreateRun(ctx context.Context) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		id, string(model.RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Status:    model.RunStatusRunning,
		StartedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, report *model.MatchReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, report = ?, completed_at = ? WHERE id = ?`,
		string(model.RunStatusComplete), string(reportJSON), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), msg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

// LatestRun returns the most recently started run, or nil if none exist.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, report, error, started_at, completed_at
		 FROM runs ORDER BY started_at DESC LIMIT 1`,
	)

	var r model.Run
	var reportJSON, errMsg sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(&r.ID, &r.Status, &reportJSON, &errMsg, &r.StartedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest run")
	}

	if reportJSON.Valid {
		r.Report = &model.MatchReport{}
		if err := json.Unmarshal([]byte(reportJSON.String), r.Report); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal report")
		}
	}
	r.Error = errMsg.String
	if completedAt.Valid {
		r.CompletedAt = &completedAt.Time
	}
	return &r, nil
}

// helpers

func getVideoTx(ctx context.Context, tx *sql.Tx, videoID string) (*model.VideoRecord, error) {
	var doc string
	err := tx.QueryRowContext(ctx,
		`SELECT doc FROM videos WHERE video_id = ?`, videoID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get video %s", videoID)
	}

	var v model.VideoRecord
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal video")
	}
	return &v, nil
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
