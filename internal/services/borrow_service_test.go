package services

import (
	"context"
	"testing"
	"time"

	"buckeyeborrow/internal/models"
	"buckeyeborrow/internal/repositories"
	"buckeyeborrow/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type borrowFixture struct {
	svc      *BorrowService
	itemRepo *repositories.MockItemRepository
	userRepo *repositories.MockUserRepository
	events   *recordingPublisher
	item     *models.Item
}

func newBorrowFixture(t *testing.T) *borrowFixture {
	t.Helper()
	itemRepo := repositories.NewMockItemRepository()
	userRepo := repositories.NewMockUserRepository()
	borrowRepo := repositories.NewMockBorrowRequestRepository()
	events := &recordingPublisher{}

	item := &models.Item{
		OwnerID:           "owner-1",
		ItemName:          "Cordless Drill",
		Category:          "Tools / Fix-It",
		CampusArea:        "South Campus",
		PickupLocation:    "Smith-Steeb lobby",
		PickupTimeWindow:  "Evenings",
		MaxBorrowDuration: "1 week",
		CostType:          models.CostTypeFavor,
		ContactMethod:     models.ContactPhone,
	}
	require.NoError(t, itemRepo.Create(context.Background(), item))

	return &borrowFixture{
		svc:      NewBorrowService(borrowRepo, itemRepo, userRepo, events),
		itemRepo: itemRepo,
		userRepo: userRepo,
		events:   events,
		item:     item,
	}
}

func validBorrowInput() BorrowRequestInput {
	today := time.Now()
	return BorrowRequestInput{
		NeededFrom:         today.Format("2006-01-02"),
		NeededUntil:        today.AddDate(0, 0, 3).Format("2006-01-02"),
		Purpose:            "Hanging shelves in my dorm room",
		ContactPhone:       "(614) 555-0100",
		AgreedToGuidelines: true,
	}
}

func TestValidPhone(t *testing.T) {
	accept := []string{"(614) 555-0100", "+16145550100", "614-555-0100", "6145550100"}
	for _, phone := range accept {
		assert.True(t, ValidPhone(phone), phone)
	}

	reject := []string{"555-0100", "614-555-010a", "614.555.0100", "61+45550100", ""}
	for _, phone := range reject {
		assert.False(t, ValidPhone(phone), phone)
	}
}

func TestCreateBorrowRequestValidationOrder(t *testing.T) {
	f := newBorrowFixture(t)

	// Every rule violated at once: the missing-fields rule fires first.
	_, err := f.svc.CreateRequest(context.Background(), "req-1", f.item.ID, BorrowRequestInput{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "form", vErr.Field)

	// Fields present, guidelines unchecked, phone bad: guidelines first.
	in := validBorrowInput()
	in.AgreedToGuidelines = false
	in.ContactPhone = "nope"
	_, err = f.svc.CreateRequest(context.Background(), "req-1", f.item.ID, in)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "agreed_to_guidelines", vErr.Field)

	// Guidelines checked, phone bad, dates bad: phone first.
	in = validBorrowInput()
	in.ContactPhone = "nope"
	in.NeededFrom = "2000-01-01"
	_, err = f.svc.CreateRequest(context.Background(), "req-1", f.item.ID, in)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "contact_phone", vErr.Field)

	// Past start date beats the range rule.
	in = validBorrowInput()
	in.NeededFrom = "2000-01-01"
	in.NeededUntil = "2000-01-01"
	_, err = f.svc.CreateRequest(context.Background(), "req-1", f.item.ID, in)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "needed_from", vErr.Field)

	// End date must be strictly after the start.
	in = validBorrowInput()
	in.NeededUntil = in.NeededFrom
	_, err = f.svc.CreateRequest(context.Background(), "req-1", f.item.ID, in)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "needed_until", vErr.Field)
}

func TestCreateBorrowRequestStartingTodayIsAllowed(t *testing.T) {
	f := newBorrowFixture(t)

	req, err := f.svc.CreateRequest(context.Background(), "req-1", f.item.ID, validBorrowInput())
	require.NoError(t, err)
	assert.Equal(t, models.BorrowRequestPending, req.Status)

	payload, ok := f.events.events[len(f.events.events)-1].Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, rabbitmq.EventBorrowRequested, f.events.events[len(f.events.events)-1].Type)
	assert.Equal(t, f.item.ID, payload["item_id"])
	assert.Equal(t, "owner-1", payload["owner_id"])
}

func TestConcurrentPendingRequestsAllowed(t *testing.T) {
	f := newBorrowFixture(t)

	for _, requester := range []string{"req-1", "req-2", "req-3"} {
		_, err := f.svc.CreateRequest(context.Background(), requester, f.item.ID, validBorrowInput())
		require.NoError(t, err)
	}

	counts, err := f.svc.PendingCounts(context.Background(), []string{f.item.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[f.item.ID])
}

func TestPendingCountsZeroFillsUnrequestedItems(t *testing.T) {
	f := newBorrowFixture(t)

	counts, err := f.svc.PendingCounts(context.Background(), []string{f.item.ID, "never-requested"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts[f.item.ID])
	assert.Equal(t, int64(0), counts["never-requested"])

	_, err = f.svc.CreateRequest(context.Background(), "req-1", f.item.ID, validBorrowInput())
	require.NoError(t, err)

	counts, err = f.svc.PendingCounts(context.Background(), []string{f.item.ID, "never-requested"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[f.item.ID])
	assert.Equal(t, int64(0), counts["never-requested"])
}

func TestListForItemOwnerOnlyWithNameEnrichment(t *testing.T) {
	f := newBorrowFixture(t)

	// Empty state before anyone asks.
	views, err := f.svc.ListForItem(context.Background(), "owner-1", f.item.ID)
	require.NoError(t, err)
	assert.Empty(t, views)

	requester := &models.User{Email: "carmen.2@osu.edu", Password: "hash"}
	profile := &models.Profile{FullName: "Carmen Ohio"}
	require.NoError(t, f.userRepo.CreateUser(context.Background(), requester, profile))

	_, err = f.svc.CreateRequest(context.Background(), requester.ID, f.item.ID, validBorrowInput())
	require.NoError(t, err)
	_, err = f.svc.CreateRequest(context.Background(), "no-profile", f.item.ID, validBorrowInput())
	require.NoError(t, err)

	_, err = f.svc.ListForItem(context.Background(), "intruder", f.item.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	views, err = f.svc.ListForItem(context.Background(), "owner-1", f.item.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	names := map[string]string{}
	for _, v := range views {
		names[v.RequesterID] = v.RequesterName
	}
	assert.Equal(t, "Carmen Ohio", names[requester.ID])
	assert.Equal(t, "OSU Student", names["no-profile"])
}

func TestCreateBorrowRequestUnknownItem(t *testing.T) {
	f := newBorrowFixture(t)

	_, err := f.svc.CreateRequest(context.Background(), "req-1", "missing-item", validBorrowInput())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
