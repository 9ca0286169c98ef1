package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourhub/internal/apperr"
	"tourhub/internal/members"
	"tourhub/internal/models"
	"tourhub/internal/store"
	"tourhub/internal/testutil"
)

func TestBulkCreateGroupMembers_EmptyListRejected(t *testing.T) {
	ctx := testutil.TestContext(t)
	s := testutil.SetupStore(t)
	g := testutil.NewFixtures(t, s).Group(ctx, "Crew", "tour-1")

	_, err := s.BulkCreateGroupMembers(ctx, g.ID, nil)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	got, err := s.FetchGroupMembers(ctx, store.MemberFilter{GroupID: g.ID})
	require.NoError(t, err)
	assert.Empty(t, got)
	group, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Zero(t, group.TotalMembers)
}

func TestBulkCreateGroupMembers_UnknownGroup(t *testing.T) {
	ctx := testutil.TestContext(t)
	s := testutil.SetupStore(t)

	_, err := s.BulkCreateGroupMembers(ctx, "missing", []models.MemberInput{{Name: "Ana"}})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestBulkCreateGroupMembers_InvalidRowRejectsBatch(t *testing.T) {
	ctx := testutil.TestContext(t)
	s := testutil.SetupStore(t)
	g := testutil.NewFixtures(t, s).Group(ctx, "Crew", "tour-1")

	_, err := s.BulkCreateGroupMembers(ctx, g.ID, []models.MemberInput{{Name: "Ana"}, {Name: " "}})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	got, err := s.FetchGroupMembers(ctx, store.MemberFilter{GroupID: g.ID})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMembershipScenario(t *testing.T) {
	ctx := testutil.TestContext(t)
	s := testutil.SetupStore(t)

	g := models.TravelGroup{Name: "Main Stage Crew", GroupType: models.GroupCrew, PriorityLevel: 1}
	require.NoError(t, s.CreateTravelGroup(ctx, &g))

	parsed, err := members.ParseMemberLines(
		"John Smith, john@example.com, +1234567890, Sound Engineer\nJane Doe, jane@example.com\nSam Lee\n\n",
		members.Options{})
	require.NoError(t, err)
	created, err := s.BulkCreateGroupMembers(ctx, g.ID, parsed.Members)
	require.NoError(t, err)
	require.Len(t, created, 3)
	for _, m := range created {
		assert.Equal(t, models.MemberPending, m.Status)
		assert.NotEmpty(t, m.ID)
	}

	group, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, group.TotalMembers)
	assert.Equal(t, 0, group.ConfirmedMembers)

	_, err = s.UpdateMemberStatus(ctx, created[0].ID, models.MemberConfirmed)
	require.NoError(t, err)
	group, err = s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, group.ConfirmedMembers)
	assert.LessOrEqual(t, group.ConfirmedMembers, group.TotalMembers)

	require.NoError(t, s.DeleteGroupMember(ctx, created[0].ID))
	group, err = s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, group.TotalMembers)
	assert.Equal(t, 0, group.ConfirmedMembers)
}

func TestConfirmedNeverExceedsTotal(t *testing.T) {
	ctx := testutil.TestContext(t)
	s := testutil.SetupStore(t)
	fx := testutil.NewFixtures(t, s)
	g := fx.Group(ctx, "Band", "tour-1")
	ms := fx.Members(ctx, g.ID, "A", "B", "C", "D")

	steps := []struct {
		member int
		status models.MemberStatus
	}{
		{0, models.MemberConfirmed},
		{1, models.MemberConfirmed},
		{1, models.MemberConfirmed},
		{2, models.MemberDeclined},
		{0, models.MemberCancelled},
		{3, models.MemberConfirmed},
	}
	for _, st := range steps {
		_, err := s.UpdateMemberStatus(ctx, ms[st.member].ID, st.status)
		require.NoError(t, err)
		group, err := s.GetGroup(ctx, g.ID)
		require.NoError(t, err)
		assert.LessOrEqual(t, group.ConfirmedMembers, group.TotalMembers)
	}
	require.NoError(t, s.DeleteGroupMember(ctx, ms[1].ID))
	require.NoError(t, s.DeleteGroupMember(ctx, ms[3].ID))

	group, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, group.TotalMembers)
	assert.Equal(t, 0, group.ConfirmedMembers)
}

func TestUpdateMemberStatus_Errors(t *testing.T) {
	ctx := testutil.TestContext(t)
	s := testutil.SetupStore(t)
	fx := testutil.NewFixtures(t, s)
	g := fx.Group(ctx, "Band", "tour-1")
	ms := fx.Members(ctx, g.ID, "A")

	_, err := s.UpdateMemberStatus(ctx, ms[0].ID, "maybe")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = s.UpdateMemberStatus(ctx, "missing", models.MemberConfirmed)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	err = s.DeleteGroupMember(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestFetchGroupMembers_ByScope(t *testing.T) {
	ctx := testutil.TestContext(t)
	s := testutil.SetupStore(t)
	fx := testutil.NewFixtures(t, s)

	a := fx.Group(ctx, "A", "tour-1")
	b := fx.EventGroup(ctx, "B", "event-1")
	fx.Members(ctx, a.ID, "Zoe", "Adam")
	fx.Members(ctx, b.ID, "Mia")

	got, err := s.FetchGroupMembers(ctx, store.MemberFilter{TourID: "tour-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Adam", got[0].MemberName)
	assert.Equal(t, "Zoe", got[1].MemberName)

	got, err = s.FetchGroupMembers(ctx, store.MemberFilter{EventID: "event-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mia", got[0].MemberName)

	got, err = s.FetchGroupMembers(ctx, store.MemberFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
