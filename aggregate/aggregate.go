// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"sort"
	"strings"

	"github.com/danielhkuo/meetslot/models"
	"github.com/danielhkuo/meetslot/slots"
)

// Popularity counts "yes" votes per option id. Negative rows (explicit
// unavailability) contribute nothing.
func Popularity(votes []models.Vote) map[string]int {
	counts := make(map[string]int)
	for _, v := range votes {
		if v.Available {
			counts[v.OptionID]++
		}
	}
	return counts
}

// VotersByOption lists the distinct participants who marked each option
// available.
func VotersByOption(votes []models.Vote) map[string][]string {
	seen := make(map[string]map[string]bool)
	out := make(map[string][]string)
	for _, v := range votes {
		if !v.Available {
			continue
		}
		if seen[v.OptionID] == nil {
			seen[v.OptionID] = make(map[string]bool)
		}
		if seen[v.OptionID][v.VoterName] {
			continue
		}
		seen[v.OptionID][v.VoterName] = true
		out[v.OptionID] = append(out[v.OptionID], v.VoterName)
	}
	return out
}

// Participants returns the sorted distinct voter names across all ballots,
// including participants whose ballots marked nothing available.
func Participants(votes []models.Vote) []string {
	seen := make(map[string]bool)
	var names []string
	for _, v := range votes {
		if !seen[v.VoterName] {
			seen[v.VoterName] = true
			names = append(names, v.VoterName)
		}
	}
	sort.Strings(names)
	return names
}

// ParticipantChoices maps each participant to a display string of the slot
// labels they marked available, sorted, deduplicated and comma-joined.
func ParticipantChoices(options []models.Option, votes []models.Vote) map[string]string {
	labels := optionLabels(options)
	chosen := make(map[string]map[string]bool)
	for _, v := range votes {
		if !v.Available {
			continue
		}
		label, ok := labels[v.OptionID]
		if !ok {
			continue
		}
		if chosen[v.VoterName] == nil {
			chosen[v.VoterName] = make(map[string]bool)
		}
		chosen[v.VoterName][label] = true
	}
	out := make(map[string]string, len(chosen))
	for name, set := range chosen {
		out[name] = joinSorted(set)
	}
	return out
}

// VoterSummary maps each option id to the sorted, deduplicated,
// comma-joined names of participants who marked it available.
func VoterSummary(options []models.Option, votes []models.Vote) map[string]string {
	known := make(map[string]bool, len(options))
	for _, o := range options {
		known[o.ID] = true
	}
	voters := make(map[string]map[string]bool)
	for _, v := range votes {
		if !v.Available || !known[v.OptionID] {
			continue
		}
		if voters[v.OptionID] == nil {
			voters[v.OptionID] = make(map[string]bool)
		}
		voters[v.OptionID][v.VoterName] = true
	}
	out := make(map[string]string, len(voters))
	for id, set := range voters {
		out[id] = joinSorted(set)
	}
	return out
}

// Best returns the option with the highest popularity count. Ties break to
// the earliest start timestamp, so the result does not depend on map
// iteration order. ok is false when there are no options or no "yes" votes.
func Best(options []models.Option, votes []models.Vote) (models.Option, bool) {
	counts := Popularity(votes)

	ordered := make([]models.Option, len(options))
	copy(ordered, options)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	var best models.Option
	bestCount := 0
	for _, o := range ordered {
		if c := counts[o.ID]; c > bestCount {
			best = o
			bestCount = c
		}
	}
	if bestCount == 0 {
		return models.Option{}, false
	}
	return best, true
}

// Unanimous reports whether an option's popularity equals the poll's
// distinct participant count. A poll with no participants is never
// unanimous.
func Unanimous(count, participants int) bool {
	return participants > 0 && count == participants
}

// Counts assembles the per-option result rows in option order: popularity,
// deduplicated sorted voter list, and the unanimity tag.
func Counts(options []models.Option, votes []models.Vote) []models.OptionResult {
	counts := Popularity(votes)
	voters := VotersByOption(votes)
	total := len(Participants(votes))

	out := make([]models.OptionResult, 0, len(options))
	for _, o := range options {
		names := append([]string(nil), voters[o.ID]...)
		sort.Strings(names)
		out = append(out, models.OptionResult{
			OptionID:  o.ID,
			Label:     slots.Label(o.Start, o.End),
			Start:     o.Start,
			End:       o.End,
			Count:     counts[o.ID],
			Voters:    names,
			Unanimous: Unanimous(counts[o.ID], total),
		})
	}
	return out
}

func optionLabels(options []models.Option) map[string]string {
	labels := make(map[string]string, len(options))
	for _, o := range options {
		labels[o.ID] = slots.Label(o.Start, o.End)
	}
	return labels
}

func joinSorted(set map[string]bool) string {
	items := make([]string, 0, len(set))
	for s := range set {
		items = append(items, s)
	}
	sort.Strings(items)
	return strings.Join(items, ", ")
}
