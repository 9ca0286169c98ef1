package coordination

import (
	"fmt"
	"math"

	"tourhub/internal/models"
)

// Tone is the colour family a dashboard uses for a badge.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
	ToneMuted   Tone = "muted"
	ToneDanger  Tone = "danger"
)

// Badge is a label plus tone rendered next to a group.
type Badge struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

// Badges collects every badge shown for a group.
type Badges struct {
	Priority     Badge `json:"priority"`
	Status       Badge `json:"status"`
	Coordination Badge `json:"coordination"`
	Confirmation Badge `json:"confirmation"`
}

var priorityBadges = map[int]Badge{
	1: {"critical", ToneDanger},
	2: {"high", ToneWarning},
	3: {"medium", ToneInfo},
	4: {"low", ToneNeutral},
	5: {"minimal", ToneMuted},
}

// PriorityBadge labels a priority level; out-of-range levels render as "unknown".
func PriorityBadge(level int) Badge {
	if b, ok := priorityBadges[level]; ok {
		return b
	}
	return Badge{"unknown", ToneNeutral}
}

func StatusBadge(s models.GroupStatus) Badge {
	switch s {
	case models.StatusPlanning:
		return Badge{"planning", ToneNeutral}
	case models.StatusConfirmed:
		return Badge{"confirmed", ToneInfo}
	case models.StatusInTransit:
		return Badge{"in transit", ToneWarning}
	case models.StatusArrived:
		return Badge{"arrived", ToneSuccess}
	case models.StatusDeparted:
		return Badge{"departed", ToneMuted}
	case models.StatusCancelled:
		return Badge{"cancelled", ToneDanger}
	}
	return Badge{string(s), ToneNeutral}
}

func CoordinationBadge(f models.CoordinationFlags) Badge {
	label := f.Label()
	switch {
	case f.Complete():
		return Badge{string(label), ToneSuccess}
	case label == models.CoordinationPending:
		return Badge{string(label), ToneWarning}
	default:
		return Badge{string(label), ToneInfo}
	}
}

// ConfirmationPercent is the share of members who have confirmed, rounded.
func ConfirmationPercent(confirmed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(confirmed) / float64(total) * 100))
}

func confirmationBadge(confirmed, total int) Badge {
	pct := ConfirmationPercent(confirmed, total)
	tone := ToneWarning
	switch {
	case total == 0:
		tone = ToneNeutral
	case pct == 100:
		tone = ToneSuccess
	case pct >= 50:
		tone = ToneInfo
	}
	return Badge{Label: fmt.Sprintf("%d/%d confirmed", confirmed, total), Tone: tone}
}

// BadgesFor derives every badge of a group from its stored state.
func BadgesFor(g models.TravelGroup) Badges {
	return Badges{
		Priority:     PriorityBadge(g.PriorityLevel),
		Status:       StatusBadge(g.Status),
		Coordination: CoordinationBadge(g.CoordinationFlags),
		Confirmation: confirmationBadge(g.ConfirmedMembers, g.TotalMembers),
	}
}
