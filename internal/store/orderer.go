package store

import "github.com/desertthunder/tvx/internal/models"

// PlanReorder computes the batch of position assignments for a completed drag.
//
// The input is the channel sequence the user actually saw being dragged,
// which may be a filtered or grouped subset of the playlist, plus the drop's
// source and destination indices. The element at SourceIndex is removed and
// reinserted at DestinationIndex, then positions are renumbered as 1-based
// contiguous integers over the reordered displayed sequence, one pair per
// displayed channel.
//
// Returns ok=false (no submission, no network call) when the drop landed
// outside a valid target, when source equals destination, or when either
// index is out of range.
//
// Channels hidden by an active filter are absent from the submission and keep
// their server-stored positions; the reloaded playlist after submission is
// the authoritative merged order.
func PlanReorder(displayed []models.Channel, drop models.DropResult) ([]models.ChannelPosition, bool) {
	if drop.DestinationIndex == nil {
		return nil, false
	}

	src, dst := drop.SourceIndex, *drop.DestinationIndex
	if src == dst {
		return nil, false
	}
	if src < 0 || src >= len(displayed) || dst < 0 || dst >= len(displayed) {
		return nil, false
	}

	moved := displayed[src]
	rest := make([]models.Channel, 0, len(displayed)-1)
	rest = append(rest, displayed[:src]...)
	rest = append(rest, displayed[src+1:]...)

	reordered := make([]models.Channel, 0, len(displayed))
	reordered = append(reordered, rest[:dst]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[dst:]...)

	positions := make([]models.ChannelPosition, len(reordered))
	for i, ch := range reordered {
		positions[i] = models.ChannelPosition{ID: ch.ID, Position: i + 1}
	}
	return positions, true
}
