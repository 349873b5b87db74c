package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/GisaacPr/Metheus-Extension-sub001/internal/db"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/session"
)

// MediaState is one saved media entry.
type MediaState struct {
	Key       string
	Settings  session.Settings
	UpdatedAt time.Time
}

func getMedia(db *sql.DB, key string) (*MediaState, error) {
	row := db.QueryRow(`
		SELECT media_key, offset_ms, mode, updated_at
		FROM media_state WHERE media_key = ?
	`, key)

	st, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid for new media
	}
	if err != nil {
		return nil, err
	}

	tracks, err := disabledTracks(db, key)
	if err != nil {
		return nil, err
	}
	st.Settings.DisabledTracks = tracks
	return st, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedia(row scanner) (*MediaState, error) {
	var (
		st        MediaState
		offsetMs  int64
		mode      sql.NullString
		updatedAt int64
	)
	if err := row.Scan(&st.Key, &offsetMs, &mode, &updatedAt); err != nil {
		return nil, err
	}
	st.Settings.Offset = time.Duration(offsetMs) * time.Millisecond
	// Unknown or missing modes load as normal
	st.Settings.Mode, _ = playback.ParseMode(dbutil.NullStringValue(mode))
	st.UpdatedAt = time.Unix(updatedAt, 0)
	return &st, nil
}

func disabledTracks(db *sql.DB, key string) ([]int, error) {
	rows, err := db.Query(`
		SELECT track FROM disabled_tracks WHERE media_key = ? ORDER BY track
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []int
	for rows.Next() {
		var track int
		if err := rows.Scan(&track); err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

func saveMedia(db *sql.DB, key string, s session.Settings, now time.Time) error {
	return dbutil.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO media_state (media_key, offset_ms, mode, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(media_key) DO UPDATE SET
				offset_ms = excluded.offset_ms,
				mode = excluded.mode,
				updated_at = excluded.updated_at
		`, key, s.Offset.Milliseconds(), s.Mode.String(), now.Unix())
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM disabled_tracks WHERE media_key = ?`, key); err != nil {
			return err
		}
		for _, track := range s.DisabledTracks {
			if _, err := tx.Exec(`
				INSERT OR IGNORE INTO disabled_tracks (media_key, track) VALUES (?, ?)
			`, key, track); err != nil {
				return err
			}
		}
		return nil
	})
}

func listMedia(ctx context.Context, db *sql.DB, limit int) ([]MediaState, error) {
	query := `
		SELECT media_key, offset_ms, mode, updated_at
		FROM media_state ORDER BY updated_at DESC, media_key
	`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MediaState
	for rows.Next() {
		st, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		tracks, err := disabledTracks(db, out[i].Key)
		if err != nil {
			return nil, err
		}
		out[i].Settings.DisabledTracks = tracks
	}
	return out, nil
}

func deleteMedia(db *sql.DB, key string) error {
	return dbutil.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM disabled_tracks WHERE media_key = ?`, key); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM media_state WHERE media_key = ?`, key)
		return err
	})
}
