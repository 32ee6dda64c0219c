// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/meetslot/models"
)

// Store is the durable keyed storage for polls, options and votes. All
// multi-statement mutations run inside a single transaction so readers
// never observe a half-applied state.
type Store struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

const schema = `
CREATE TABLE IF NOT EXISTS polls (
    poll_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    slot_minutes INTEGER NOT NULL,
    poll_password TEXT,
    final_start_ts TEXT,
    final_end_ts TEXT,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS options (
    option_id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(poll_id) ON DELETE CASCADE,
    start_ts TEXT NOT NULL,
    end_ts TEXT NOT NULL,
    UNIQUE (poll_id, start_ts, end_ts)
);

CREATE INDEX IF NOT EXISTS idx_options_poll_id ON options(poll_id);

CREATE TABLE IF NOT EXISTS votes (
    vote_id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(poll_id) ON DELETE CASCADE,
    voter_name TEXT NOT NULL,
    option_id TEXT NOT NULL REFERENCES options(option_id) ON DELETE CASCADE,
    available INTEGER NOT NULL,
    comment TEXT,
    voter_password TEXT,
    UNIQUE (poll_id, voter_name, option_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_poll_id ON votes(poll_id);
CREATE INDEX IF NOT EXISTS idx_votes_voter ON votes(poll_id, voter_name);
`

// Columns added after the first release. Each ALTER is attempted on every
// startup and its "duplicate column" failure ignored; these are the only
// errors the system swallows.
var migrations = []string{
	"ALTER TABLE polls ADD COLUMN poll_password TEXT",
	"ALTER TABLE polls ADD COLUMN final_start_ts TEXT",
	"ALTER TABLE polls ADD COLUMN final_end_ts TEXT",
	"ALTER TABLE votes ADD COLUMN voter_password TEXT",
}

// Init creates the schema. Safe to call multiple times.
func (s *Store) Init() error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return &models.StorageError{Op: "create schema", Err: err}
		}
	}
	for _, stmt := range migrations {
		s.db.Exec(stmt) //nolint:errcheck // column may already exist
	}
	return nil
}

// rebind rewrites ? placeholders to $N for the postgres driver.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}

// OverwritePoll replaces a poll wholesale: existing votes and options for
// the poll id are discarded, the poll row is rewritten from p, and one
// option row is inserted per generated slot. Returns the persisted options
// in start order.
func (s *Store) OverwritePoll(p models.Poll, sl []models.Slot) ([]models.Option, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, &models.StorageError{Op: "overwrite poll", Err: err}
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM votes WHERE poll_id = ?",
		"DELETE FROM options WHERE poll_id = ?",
		"DELETE FROM polls WHERE poll_id = ?",
	} {
		if _, err := tx.Exec(s.rebind(q), p.ID); err != nil {
			return nil, &models.StorageError{Op: "overwrite poll", Err: err}
		}
	}

	_, err = tx.Exec(s.rebind(`
		INSERT INTO polls (poll_id, title, description, start_date, end_date,
			start_time, end_time, slot_minutes, poll_password, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		p.ID, p.Title, p.Description,
		p.Config.StartDate.Format(models.DateLayout),
		p.Config.EndDate.Format(models.DateLayout),
		p.Config.StartTime.String(), p.Config.EndTime.String(),
		p.Config.SlotMinutes, nullable(p.Password),
		p.CreatedAt.Format(models.TimestampLayout),
	)
	if err != nil {
		return nil, &models.StorageError{Op: "insert poll", Err: err}
	}

	options := make([]models.Option, 0, len(sl))
	for _, slot := range sl {
		opt := models.Option{ID: uuid.NewString(), PollID: p.ID, Start: slot.Start, End: slot.End}
		_, err := tx.Exec(s.rebind(`
			INSERT INTO options (option_id, poll_id, start_ts, end_ts)
			VALUES (?, ?, ?, ?)
		`), opt.ID, opt.PollID, formatTS(opt.Start), formatTS(opt.End))
		if err != nil {
			return nil, &models.StorageError{Op: "insert option", Err: err}
		}
		options = append(options, opt)
	}

	if err := tx.Commit(); err != nil {
		return nil, &models.StorageError{Op: "overwrite poll", Err: err}
	}
	return options, nil
}

// NarrowOptions deletes every option of the poll that is not in keep,
// together with the dropped options' votes. When the poll's finalized slot
// was one of the dropped options, the finalization pointer is cleared in
// the same transaction.
func (s *Store) NarrowOptions(pollID string, keep []string) error {
	if len(keep) == 0 {
		return &models.ValidationError{Field: "keep", Reason: "keep set must not be empty"}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return &models.StorageError{Op: "narrow options", Err: err}
	}
	defer tx.Rollback()

	var finalStart, finalEnd sql.NullString
	err = tx.QueryRow(s.rebind(
		"SELECT final_start_ts, final_end_ts FROM polls WHERE poll_id = ?",
	), pollID).Scan(&finalStart, &finalEnd)
	if err == sql.ErrNoRows {
		return models.ErrPollNotFound
	}
	if err != nil {
		return &models.StorageError{Op: "narrow options", Err: err}
	}

	rows, err := tx.Query(s.rebind(
		"SELECT option_id, start_ts, end_ts FROM options WHERE poll_id = ?",
	), pollID)
	if err != nil {
		return &models.StorageError{Op: "narrow options", Err: err}
	}
	current := make(map[string][2]string)
	for rows.Next() {
		var id, start, end string
		if err := rows.Scan(&id, &start, &end); err != nil {
			rows.Close()
			return &models.StorageError{Op: "narrow options", Err: err}
		}
		current[id] = [2]string{start, end}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return &models.StorageError{Op: "narrow options", Err: err}
	}

	keepSet := make(map[string]bool, len(keep))
	for _, id := range keep {
		if _, ok := current[id]; !ok {
			return &models.ValidationError{Field: "keep", Reason: "unknown option id " + id}
		}
		keepSet[id] = true
	}

	var dropped []string
	clearFinal := false
	for id, span := range current {
		if keepSet[id] {
			continue
		}
		dropped = append(dropped, id)
		if finalStart.Valid && finalEnd.Valid && span[0] == finalStart.String && span[1] == finalEnd.String {
			clearFinal = true
		}
	}
	if len(dropped) == 0 {
		return tx.Commit()
	}

	placeholders := strings.Repeat("?,", len(dropped))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(dropped)+1)
	args = append(args, pollID)
	for _, id := range dropped {
		args = append(args, id)
	}

	q := fmt.Sprintf("DELETE FROM votes WHERE poll_id = ? AND option_id IN (%s)", placeholders)
	if _, err := tx.Exec(s.rebind(q), args...); err != nil {
		return &models.StorageError{Op: "narrow options", Err: err}
	}
	q = fmt.Sprintf("DELETE FROM options WHERE poll_id = ? AND option_id IN (%s)", placeholders)
	if _, err := tx.Exec(s.rebind(q), args...); err != nil {
		return &models.StorageError{Op: "narrow options", Err: err}
	}

	if clearFinal {
		_, err := tx.Exec(s.rebind(
			"UPDATE polls SET final_start_ts = NULL, final_end_ts = NULL WHERE poll_id = ?",
		), pollID)
		if err != nil {
			return &models.StorageError{Op: "narrow options", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &models.StorageError{Op: "narrow options", Err: err}
	}
	return nil
}

// SaveBallot replaces a participant's ballot: their existing vote rows are
// deleted and one explicit 0/1 row is written per current option. Every key
// of avail must reference an option of the poll.
func (s *Store) SaveBallot(pollID, voter string, avail map[string]bool, comment, credential string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &models.StorageError{Op: "save ballot", Err: err}
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(s.rebind("SELECT 1 FROM polls WHERE poll_id = ?"), pollID).Scan(&exists)
	if err == sql.ErrNoRows {
		return models.ErrPollNotFound
	}
	if err != nil {
		return &models.StorageError{Op: "save ballot", Err: err}
	}

	rows, err := tx.Query(s.rebind(
		"SELECT option_id FROM options WHERE poll_id = ? ORDER BY start_ts",
	), pollID)
	if err != nil {
		return &models.StorageError{Op: "save ballot", Err: err}
	}
	var optionIDs []string
	known := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return &models.StorageError{Op: "save ballot", Err: err}
		}
		optionIDs = append(optionIDs, id)
		known[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return &models.StorageError{Op: "save ballot", Err: err}
	}

	for id := range avail {
		if !known[id] {
			return &models.ValidationError{Field: "available", Reason: "unknown option id " + id}
		}
	}

	_, err = tx.Exec(s.rebind(
		"DELETE FROM votes WHERE poll_id = ? AND voter_name = ?",
	), pollID, voter)
	if err != nil {
		return &models.StorageError{Op: "save ballot", Err: err}
	}

	for _, id := range optionIDs {
		available := 0
		if avail[id] {
			available = 1
		}
		_, err := tx.Exec(s.rebind(`
			INSERT INTO votes (vote_id, poll_id, voter_name, option_id, available, comment, voter_password)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`), uuid.NewString(), pollID, voter, id, available, nullable(comment), nullable(credential))
		if err != nil {
			return &models.StorageError{Op: "save ballot", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &models.StorageError{Op: "save ballot", Err: err}
	}
	return nil
}

// Finalize binds the poll to one of its existing options.
func (s *Store) Finalize(pollID, optionID string) (models.Option, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Option{}, &models.StorageError{Op: "finalize", Err: err}
	}
	defer tx.Rollback()

	var startTS, endTS string
	err = tx.QueryRow(s.rebind(
		"SELECT start_ts, end_ts FROM options WHERE option_id = ? AND poll_id = ?",
	), optionID, pollID).Scan(&startTS, &endTS)
	if err == sql.ErrNoRows {
		return models.Option{}, models.ErrOptionNotFound
	}
	if err != nil {
		return models.Option{}, &models.StorageError{Op: "finalize", Err: err}
	}

	res, err := tx.Exec(s.rebind(
		"UPDATE polls SET final_start_ts = ?, final_end_ts = ? WHERE poll_id = ?",
	), startTS, endTS, pollID)
	if err != nil {
		return models.Option{}, &models.StorageError{Op: "finalize", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Option{}, models.ErrPollNotFound
	}

	if err := tx.Commit(); err != nil {
		return models.Option{}, &models.StorageError{Op: "finalize", Err: err}
	}

	start, err := parseTS(startTS)
	if err != nil {
		return models.Option{}, &models.StorageError{Op: "finalize", Err: err}
	}
	end, err := parseTS(endTS)
	if err != nil {
		return models.Option{}, &models.StorageError{Op: "finalize", Err: err}
	}
	return models.Option{ID: optionID, PollID: pollID, Start: start, End: end}, nil
}

// DeletePoll removes a poll with its options and votes.
func (s *Store) DeletePoll(pollID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &models.StorageError{Op: "delete poll", Err: err}
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM votes WHERE poll_id = ?",
		"DELETE FROM options WHERE poll_id = ?",
	} {
		if _, err := tx.Exec(s.rebind(q), pollID); err != nil {
			return &models.StorageError{Op: "delete poll", Err: err}
		}
	}
	res, err := tx.Exec(s.rebind("DELETE FROM polls WHERE poll_id = ?"), pollID)
	if err != nil {
		return &models.StorageError{Op: "delete poll", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrPollNotFound
	}
	if err := tx.Commit(); err != nil {
		return &models.StorageError{Op: "delete poll", Err: err}
	}
	return nil
}

// UpdateVoterCredential rewrites the stored credential on all of a
// participant's vote rows. Used for the opportunistic plaintext-to-hash
// upgrade after a successful match.
func (s *Store) UpdateVoterCredential(pollID, voter, credential string) error {
	_, err := s.db.Exec(s.rebind(
		"UPDATE votes SET voter_password = ? WHERE poll_id = ? AND voter_name = ?",
	), nullable(credential), pollID, voter)
	if err != nil {
		return &models.StorageError{Op: "update credential", Err: err}
	}
	return nil
}

// ListPolls returns id, title and creation time for every poll, most
// recent first.
func (s *Store) ListPolls() ([]models.PollSummary, error) {
	rows, err := s.db.Query("SELECT poll_id, title, created_at FROM polls ORDER BY created_at DESC")
	if err != nil {
		return nil, &models.StorageError{Op: "list polls", Err: err}
	}
	defer rows.Close()

	var out []models.PollSummary
	for rows.Next() {
		var p models.PollSummary
		var created string
		if err := rows.Scan(&p.ID, &p.Title, &created); err != nil {
			return nil, &models.StorageError{Op: "list polls", Err: err}
		}
		if p.CreatedAt, err = parseTS(created); err != nil {
			return nil, &models.StorageError{Op: "list polls", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StorageError{Op: "list polls", Err: err}
	}
	return out, nil
}

// GetPoll fetches one poll by id.
func (s *Store) GetPoll(pollID string) (models.Poll, error) {
	var (
		p                           models.Poll
		desc, password              sql.NullString
		startDate, endDate          string
		startTime, endTime, created string
		finalStart, finalEnd        sql.NullString
	)
	err := s.db.QueryRow(s.rebind(`
		SELECT poll_id, title, description, start_date, end_date, start_time, end_time,
		       slot_minutes, poll_password, final_start_ts, final_end_ts, created_at
		FROM polls WHERE poll_id = ?
	`), pollID).Scan(
		&p.ID, &p.Title, &desc, &startDate, &endDate, &startTime, &endTime,
		&p.Config.SlotMinutes, &password, &finalStart, &finalEnd, &created,
	)
	if err == sql.ErrNoRows {
		return models.Poll{}, models.ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, &models.StorageError{Op: "get poll", Err: err}
	}

	p.Description = desc.String
	p.Password = password.String
	if p.Config.StartDate, err = time.Parse(models.DateLayout, startDate); err != nil {
		return models.Poll{}, &models.StorageError{Op: "get poll", Err: err}
	}
	if p.Config.EndDate, err = time.Parse(models.DateLayout, endDate); err != nil {
		return models.Poll{}, &models.StorageError{Op: "get poll", Err: err}
	}
	if p.Config.StartTime, err = models.ParseTimeOfDay(startTime); err != nil {
		return models.Poll{}, &models.StorageError{Op: "get poll", Err: err}
	}
	if p.Config.EndTime, err = models.ParseTimeOfDay(endTime); err != nil {
		return models.Poll{}, &models.StorageError{Op: "get poll", Err: err}
	}
	if p.CreatedAt, err = parseTS(created); err != nil {
		return models.Poll{}, &models.StorageError{Op: "get poll", Err: err}
	}
	if finalStart.Valid && finalEnd.Valid {
		start, err := parseTS(finalStart.String)
		if err != nil {
			return models.Poll{}, &models.StorageError{Op: "get poll", Err: err}
		}
		end, err := parseTS(finalEnd.String)
		if err != nil {
			return models.Poll{}, &models.StorageError{Op: "get poll", Err: err}
		}
		p.FinalStart, p.FinalEnd = &start, &end
	}
	return p, nil
}

// Options returns a poll's options ordered by start timestamp.
func (s *Store) Options(pollID string) ([]models.Option, error) {
	rows, err := s.db.Query(s.rebind(
		"SELECT option_id, poll_id, start_ts, end_ts FROM options WHERE poll_id = ? ORDER BY start_ts",
	), pollID)
	if err != nil {
		return nil, &models.StorageError{Op: "fetch options", Err: err}
	}
	defer rows.Close()

	var out []models.Option
	for rows.Next() {
		var o models.Option
		var start, end string
		if err := rows.Scan(&o.ID, &o.PollID, &start, &end); err != nil {
			return nil, &models.StorageError{Op: "fetch options", Err: err}
		}
		if o.Start, err = parseTS(start); err != nil {
			return nil, &models.StorageError{Op: "fetch options", Err: err}
		}
		if o.End, err = parseTS(end); err != nil {
			return nil, &models.StorageError{Op: "fetch options", Err: err}
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StorageError{Op: "fetch options", Err: err}
	}
	return out, nil
}

// Votes returns all vote rows of a poll.
func (s *Store) Votes(pollID string) ([]models.Vote, error) {
	return s.queryVotes(
		"SELECT vote_id, poll_id, voter_name, option_id, available, comment, voter_password FROM votes WHERE poll_id = ?",
		pollID,
	)
}

// VoterBallot returns one participant's vote rows for a poll.
func (s *Store) VoterBallot(pollID, voter string) ([]models.Vote, error) {
	return s.queryVotes(
		"SELECT vote_id, poll_id, voter_name, option_id, available, comment, voter_password FROM votes WHERE poll_id = ? AND voter_name = ?",
		pollID, voter,
	)
}

// VoterState reports whether a participant has voted on a poll, along with
// their stored credential and comment (first non-empty of each).
func (s *Store) VoterState(pollID, voter string) (credential, comment string, exists bool, err error) {
	votes, err := s.VoterBallot(pollID, voter)
	if err != nil {
		return "", "", false, err
	}
	for _, v := range votes {
		if credential == "" && v.Credential != "" {
			credential = v.Credential
		}
		if comment == "" && v.Comment != "" {
			comment = v.Comment
		}
	}
	return credential, comment, len(votes) > 0, nil
}

func (s *Store) queryVotes(query string, args ...any) ([]models.Vote, error) {
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, &models.StorageError{Op: "fetch votes", Err: err}
	}
	defer rows.Close()

	var out []models.Vote
	for rows.Next() {
		var v models.Vote
		var available int
		var comment, credential sql.NullString
		if err := rows.Scan(&v.ID, &v.PollID, &v.VoterName, &v.OptionID, &available, &comment, &credential); err != nil {
			return nil, &models.StorageError{Op: "fetch votes", Err: err}
		}
		v.Available = available != 0
		v.Comment = comment.String
		v.Credential = credential.String
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StorageError{Op: "fetch votes", Err: err}
	}
	return out, nil
}

func formatTS(t time.Time) string {
	return t.Format(models.TimestampLayout)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(models.TimestampLayout, s)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
