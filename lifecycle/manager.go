// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/meetslot/aggregate"
	"github.com/danielhkuo/meetslot/auth"
	"github.com/danielhkuo/meetslot/models"
	"github.com/danielhkuo/meetslot/slots"
	"github.com/danielhkuo/meetslot/store"
)

// Manager drives the poll state machine (draft -> collecting -> finalized)
// on top of the transactional store. Handlers call it; it owns validation,
// credential checks and cascade rules.
type Manager struct {
	store *store.Store
}

func New(st *store.Store) *Manager {
	return &Manager{store: st}
}

// StateOf derives the lifecycle state of a poll from its finalization
// pointer and vote count.
func StateOf(p models.Poll, voteCount int) string {
	switch {
	case p.Finalized():
		return models.StateFinalized
	case voteCount > 0:
		return models.StateCollecting
	default:
		return models.StateDraft
	}
}

// CreateOrOverwrite validates the configuration, generates the option set
// and replaces the poll wholesale. Any existing votes and finalization for
// the poll id are discarded; the poll returns to the draft state.
func (m *Manager) CreateOrOverwrite(req models.CreatePollRequest) (models.Poll, []models.Option, error) {
	if !models.ValidPollID(req.ID) {
		return models.Poll{}, nil, &models.ValidationError{
			Field: "id", Reason: "poll id must be a short code of letters, digits, - or _",
		}
	}
	if req.Title == "" {
		return models.Poll{}, nil, &models.ValidationError{Field: "title", Reason: "title is required"}
	}

	cfg, err := parseConfig(req)
	if err != nil {
		return models.Poll{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return models.Poll{}, nil, err
	}

	generated := slots.Generate(cfg)
	if len(generated) == 0 {
		return models.Poll{}, nil, &models.ValidationError{
			Field: "slots", Reason: "no slots generated; check the time window and slot length",
		}
	}

	poll := models.Poll{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Config:      cfg,
		Password:    req.Password,
		CreatedAt:   time.Now(),
	}
	options, err := m.store.OverwritePoll(poll, generated)
	if err != nil {
		return models.Poll{}, nil, err
	}

	slog.Info("poll created", "poll_id", poll.ID, "options", len(options), "signature", slots.Signature(cfg))
	return poll, options, nil
}

// Narrow removes every option not in keep. Votes on removed options are
// deleted; if the finalized slot was removed, finalization is cleared and
// the poll drops back to collecting (or draft).
func (m *Manager) Narrow(pollID string, keep []string) error {
	if len(keep) == 0 {
		return &models.ValidationError{Field: "keep", Reason: "keep set must not be empty"}
	}
	if err := m.store.NarrowOptions(pollID, keep); err != nil {
		return err
	}
	slog.Info("poll narrowed", "poll_id", pollID, "kept", len(keep))
	return nil
}

// SubmitBallot records a participant's whole ballot, replacing any earlier
// one: one explicit 0/1 row per current option. The first submission claims
// the participant's credential; later submissions must present a matching
// one. A matching legacy plaintext credential is upgraded to its hashed
// form on the way through.
func (m *Manager) SubmitBallot(pollID string, req models.SubmitBallotRequest) error {
	if req.VoterName == "" {
		return &models.ValidationError{Field: "voter_name", Reason: "name is required"}
	}
	if req.Credential == "" {
		return &models.ValidationError{Field: "credential", Reason: "participant password is required"}
	}

	poll, err := m.store.GetPoll(pollID)
	if err != nil {
		return err
	}
	if err := checkPollPassword(poll, req.PollPassword); err != nil {
		return err
	}

	stored, _, exists, err := m.store.VoterState(pollID, req.VoterName)
	if err != nil {
		return err
	}

	credential, err := resolveCredential(req.Credential, stored, exists)
	if err != nil {
		return err
	}

	if err := m.store.SaveBallot(pollID, req.VoterName, req.Available, req.Comment, credential); err != nil {
		return err
	}
	slog.Info("ballot saved", "poll_id", pollID, "voter", req.VoterName, "is_update", exists)
	return nil
}

// EditBallot rewrites one participant's availability rows on behalf of the
// organizer, preserving the participant's stored comment and credential.
func (m *Manager) EditBallot(pollID, voter string, avail map[string]bool) error {
	if voter == "" {
		return &models.ValidationError{Field: "voter_name", Reason: "name is required"}
	}
	credential, comment, exists, err := m.store.VoterState(pollID, voter)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrVoterNotFound
	}
	if err := m.store.SaveBallot(pollID, voter, avail, comment, credential); err != nil {
		return err
	}
	slog.Info("ballot edited", "poll_id", pollID, "voter", voter)
	return nil
}

// Ballot verifies a participant's credential and returns their stored
// rows. Rows saved before the credential column existed are claimed by the
// presented credential, matching the legacy load behavior.
func (m *Manager) Ballot(pollID, voter, credential string) ([]models.Vote, error) {
	if credential == "" {
		return nil, &models.ValidationError{Field: "credential", Reason: "participant password is required"}
	}
	if _, err := m.store.GetPoll(pollID); err != nil {
		return nil, err
	}
	stored, _, exists, err := m.store.VoterState(pollID, voter)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrVoterNotFound
	}

	if stored == "" {
		hashed, err := auth.Hash(credential)
		if err != nil {
			return nil, fmt.Errorf("failed to hash credential: %w", err)
		}
		if err := m.store.UpdateVoterCredential(pollID, voter, hashed.Encode()); err != nil {
			return nil, err
		}
	} else {
		match, shouldUpgrade := auth.Verify(credential, stored)
		if !match {
			return nil, &models.AuthError{Reason: "participant password does not match"}
		}
		if shouldUpgrade {
			if hashed, err := auth.Hash(credential); err == nil {
				if err := m.store.UpdateVoterCredential(pollID, voter, hashed.Encode()); err != nil {
					return nil, err
				}
			}
		}
	}

	return m.store.VoterBallot(pollID, voter)
}

// Finalize binds the poll to one of its current options. No vote-count
// threshold applies: the organizer may finalize a poll with zero votes.
func (m *Manager) Finalize(pollID, optionID string) (models.Option, error) {
	if _, err := m.store.GetPoll(pollID); err != nil {
		return models.Option{}, err
	}
	opt, err := m.store.Finalize(pollID, optionID)
	if err != nil {
		return models.Option{}, err
	}
	slog.Info("poll finalized", "poll_id", pollID, "option_id", optionID)
	return opt, nil
}

// Delete removes a poll after the caller re-types its id, mirroring the
// confirmation the organizer UI always required.
func (m *Manager) Delete(pollID, confirm string) error {
	if confirm != pollID {
		return &models.ValidationError{Field: "confirm", Reason: "confirmation must match the poll id"}
	}
	if err := m.store.DeletePoll(pollID); err != nil {
		return err
	}
	slog.Info("poll deleted", "poll_id", pollID)
	return nil
}

// Poll fetches a poll with its options and derived state.
func (m *Manager) Poll(pollID string) (models.PollWithOptions, error) {
	poll, err := m.store.GetPoll(pollID)
	if err != nil {
		return models.PollWithOptions{}, err
	}
	options, err := m.store.Options(pollID)
	if err != nil {
		return models.PollWithOptions{}, err
	}
	votes, err := m.store.Votes(pollID)
	if err != nil {
		return models.PollWithOptions{}, err
	}
	return models.PollWithOptions{Poll: poll, Options: options, State: StateOf(poll, len(votes))}, nil
}

// ListPolls returns poll summaries, most recent first.
func (m *Manager) ListPolls() ([]models.PollSummary, error) {
	return m.store.ListPolls()
}

// Results recomputes the aggregated view of a poll: per-option popularity
// with voter lists and unanimity tags, per-participant chosen-slot
// summaries, and the deterministic best slot. Nothing here is cached.
func (m *Manager) Results(pollID string) (models.PollResults, error) {
	poll, err := m.store.GetPoll(pollID)
	if err != nil {
		return models.PollResults{}, err
	}
	options, err := m.store.Options(pollID)
	if err != nil {
		return models.PollResults{}, err
	}
	votes, err := m.store.Votes(pollID)
	if err != nil {
		return models.PollResults{}, err
	}

	res := models.PollResults{
		PollID:             pollID,
		State:              StateOf(poll, len(votes)),
		Participants:       aggregate.Participants(votes),
		Options:            aggregate.Counts(options, votes),
		ParticipantChoices: aggregate.ParticipantChoices(options, votes),
		VoterSummary:       aggregate.VoterSummary(options, votes),
	}
	if best, ok := aggregate.Best(options, votes); ok {
		res.BestOptionID = best.ID
	}
	return res, nil
}

// ExportSlot picks the slot a calendar export should carry: the finalized
// slot when set, otherwise the current best slot. Exporting a poll with
// neither is a reportable condition, not a silent no-op.
func (m *Manager) ExportSlot(pollID string) (models.Poll, models.Slot, error) {
	poll, err := m.store.GetPoll(pollID)
	if err != nil {
		return models.Poll{}, models.Slot{}, err
	}
	if poll.Finalized() {
		return poll, models.Slot{Start: *poll.FinalStart, End: *poll.FinalEnd}, nil
	}

	options, err := m.store.Options(pollID)
	if err != nil {
		return models.Poll{}, models.Slot{}, err
	}
	votes, err := m.store.Votes(pollID)
	if err != nil {
		return models.Poll{}, models.Slot{}, err
	}
	best, ok := aggregate.Best(options, votes)
	if !ok {
		return models.Poll{}, models.Slot{}, &models.ValidationError{
			Field: "slot", Reason: "poll has no finalized or voted slot to export",
		}
	}
	return poll, models.Slot{Start: best.Start, End: best.End}, nil
}

func parseConfig(req models.CreatePollRequest) (models.SlotConfig, error) {
	var cfg models.SlotConfig
	var err error
	if cfg.StartDate, err = time.Parse(models.DateLayout, req.StartDate); err != nil {
		return cfg, &models.ValidationError{Field: "start_date", Reason: "expected YYYY-MM-DD"}
	}
	if cfg.EndDate, err = time.Parse(models.DateLayout, req.EndDate); err != nil {
		return cfg, &models.ValidationError{Field: "end_date", Reason: "expected YYYY-MM-DD"}
	}
	if cfg.StartTime, err = models.ParseTimeOfDay(req.StartTime); err != nil {
		return cfg, &models.ValidationError{Field: "start_time", Reason: "expected HH:MM"}
	}
	if cfg.EndTime, err = models.ParseTimeOfDay(req.EndTime); err != nil {
		return cfg, &models.ValidationError{Field: "end_time", Reason: "expected HH:MM"}
	}
	cfg.SlotMinutes = req.SlotMinutes
	return cfg, nil
}

func checkPollPassword(poll models.Poll, candidate string) error {
	if poll.Password == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(poll.Password)) != 1 {
		return &models.AuthError{Reason: "poll password does not match"}
	}
	return nil
}

func resolveCredential(candidate, stored string, exists bool) (string, error) {
	if exists && stored != "" {
		match, shouldUpgrade := auth.Verify(candidate, stored)
		if !match {
			return "", &models.AuthError{Reason: "participant password does not match"}
		}
		if !shouldUpgrade {
			return stored, nil
		}
	}
	hashed, err := auth.Hash(candidate)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}
	return hashed.Encode(), nil
}
