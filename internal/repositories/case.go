package repositories

import (
	"context"
	"database/sql"
	"github.com/jmoiron/sqlx"
	"github.com/myrjola/detectivequest/internal/errors"
	"github.com/myrjola/detectivequest/internal/models"
	"github.com/myrjola/detectivequest/internal/sqlite"
	"log/slog"
)

var ErrCaseNotFound = errors.NewSentinel("case not found")

type CaseRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewCaseRepository(dbs *sqlite.Database, logger *slog.Logger) *CaseRepository {
	return &CaseRepository{
		dbs:    dbs,
		logger: logger.With("source", "CaseRepository"),
	}
}

// Get loads the case with its rooms and clues in their original order.
func (r *CaseRepository) Get(ctx context.Context, caseID string) (*models.Case, error) {
	var (
		c   models.Case
		err error
	)

	stmt := `SELECT id, title FROM cases WHERE id = ?`
	if err = r.dbs.ReadOnly.GetContext(ctx, &c, stmt, caseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrCaseNotFound, "read case", slog.String("case_id", caseID))
		}
		return nil, errors.Wrap(err, "read case", slog.String("case_id", caseID))
	}

	stmt = `SELECT room_key,
       name,
       COALESCE(clue, '')      AS clue,
       COALESCE(left_key, '')  AS left_key,
       COALESCE(right_key, '') AS right_key
FROM rooms
WHERE case_id = ?
ORDER BY position`
	if err = r.dbs.ReadOnly.SelectContext(ctx, &c.Rooms, stmt, caseID); err != nil {
		return nil, errors.Wrap(err, "query rooms", slog.String("case_id", caseID))
	}

	stmt = `SELECT clue, suspect FROM clue_suspects WHERE case_id = ? ORDER BY position`
	if err = r.dbs.ReadOnly.SelectContext(ctx, &c.Clues, stmt, caseID); err != nil {
		return nil, errors.Wrap(err, "query clues", slog.String("case_id", caseID))
	}

	return &c, nil
}

// Save stores the case, replacing an existing case with the same ID.
//
// The case must build into a valid mansion so that everything in the catalog is playable.
func (r *CaseRepository) Save(ctx context.Context, c *models.Case) error {
	var err error
	if _, _, err = c.Build(); err != nil {
		return errors.Wrap(err, "check case", slog.String("case_id", c.ID))
	}

	var tx *sqlx.Tx
	if tx, err = r.dbs.ReadWrite.BeginTxx(ctx, nil); err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		// Rollback after a successful commit is a no-op returning sql.ErrTxDone.
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction",
				errors.SlogError(errors.Wrap(rollbackErr, "rollback")))
		}
	}()

	// Rooms and clues of a previous version are removed by the foreign key cascade.
	if _, err = tx.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, c.ID); err != nil {
		return errors.Wrap(err, "delete previous case", slog.String("case_id", c.ID))
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO cases (id, title) VALUES (?, ?)`, c.ID, c.Title); err != nil {
		return errors.Wrap(err, "insert case", slog.String("case_id", c.ID))
	}

	stmt := `INSERT INTO rooms (case_id, position, room_key, name, clue, left_key, right_key)
VALUES (?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''))`
	for i, room := range c.Rooms {
		if _, err = tx.ExecContext(ctx, stmt, c.ID, i, room.Key, room.Name, room.Clue, room.Left, room.Right); err != nil {
			return errors.Wrap(err, "insert room", slog.String("case_id", c.ID), slog.String("room_key", room.Key))
		}
	}

	stmt = `INSERT INTO clue_suspects (case_id, position, clue, suspect) VALUES (?, ?, ?, ?)`
	for i, pair := range c.Clues {
		if _, err = tx.ExecContext(ctx, stmt, c.ID, i, pair.Clue, pair.Suspect); err != nil {
			return errors.Wrap(err, "insert clue", slog.String("case_id", c.ID), slog.Int("position", i))
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "saved case", slog.String("case_id", c.ID),
		slog.Int("rooms", len(c.Rooms)), slog.Int("clues", len(c.Clues)))
	return nil
}

// List returns a summary of every case ordered by ID.
func (r *CaseRepository) List(ctx context.Context) ([]models.CaseSummary, error) {
	var summaries []models.CaseSummary
	stmt := `SELECT c.id, c.title, COUNT(r.position) AS room_count
FROM cases c
         LEFT JOIN rooms r ON r.case_id = c.id
GROUP BY c.id, c.title
ORDER BY c.id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &summaries, stmt); err != nil {
		return nil, errors.Wrap(err, "query cases")
	}
	return summaries, nil
}
