package coordination

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tourhub/internal/models"
)

func TestPriorityBadge(t *testing.T) {
	assert.Equal(t, Badge{"critical", ToneDanger}, PriorityBadge(1))
	assert.Equal(t, Badge{"minimal", ToneMuted}, PriorityBadge(5))
	assert.Equal(t, "unknown", PriorityBadge(9).Label)
}

func TestConfirmationPercent(t *testing.T) {
	assert.Equal(t, 0, ConfirmationPercent(0, 0))
	assert.Equal(t, 33, ConfirmationPercent(1, 3))
	assert.Equal(t, 100, ConfirmationPercent(4, 4))
}

func TestBadgesFor(t *testing.T) {
	g := models.TravelGroup{
		PriorityLevel:     2,
		Status:            models.StatusInTransit,
		TotalMembers:      4,
		ConfirmedMembers:  2,
		CoordinationFlags: models.CoordinationFlags{FlightsDone: true, HotelsDone: true, TransportDone: true},
	}

	b := BadgesFor(g)
	assert.Equal(t, "high", b.Priority.Label)
	assert.Equal(t, ToneWarning, b.Status.Tone)
	assert.Equal(t, Badge{"complete", ToneSuccess}, b.Coordination)
	assert.Equal(t, "2/4 confirmed", b.Confirmation.Label)
	assert.Equal(t, ToneInfo, b.Confirmation.Tone)
}

func TestCoordinationBadge_Pending(t *testing.T) {
	assert.Equal(t, Badge{"pending", ToneWarning}, CoordinationBadge(models.CoordinationFlags{}))
	assert.Equal(t, Badge{"transport_arranged", ToneInfo}, CoordinationBadge(models.CoordinationFlags{TransportDone: true}))
}
