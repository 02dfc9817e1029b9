package repositories

import (
	"context"
	"testing"
	"time"

	"buckeyeborrow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// TranslateError matches the production config; the item and request
	// repositories depend on gorm.ErrDuplicatedKey for number retries.
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Item{},
		&models.BorrowRequest{},
		&models.CommunityRequest{},
		&models.RequestComment{},
		&models.UserPreferences{},
	))
	return db
}

func TestGORMUserRepositoryCreatesUserAndProfileTogether(t *testing.T) {
	db := openTestDB(t)
	repo := NewGORMUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "brutus.1@osu.edu", Password: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user, &models.Profile{FullName: "Brutus Buckeye"}))

	profile, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "Brutus Buckeye", profile.FullName)

	_, err = repo.GetUserByEmail(ctx, "missing@osu.edu")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.MarkVerified(ctx, user.ID))
	fetched, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Verified)
}

func TestGORMItemRepositoryAssignsUniqueNumbers(t *testing.T) {
	db := openTestDB(t)
	repo := NewGORMItemRepository(db)
	ctx := context.Background()

	numbers := make(map[string]bool)
	for i := 0; i < 20; i++ {
		item := &models.Item{
			OwnerID:           "owner-1",
			ItemName:          "Thing",
			Category:          "Tech",
			CampusArea:        "North Campus",
			PickupLocation:    "Lobby",
			PickupTimeWindow:  "Evenings",
			MaxBorrowDuration: "1 day",
			CostType:          models.CostTypeFree,
			ContactMethod:     models.ContactEmail,
		}
		require.NoError(t, repo.Create(ctx, item))
		assert.Len(t, item.ItemNumber, 5)
		assert.False(t, numbers[item.ItemNumber], "duplicate item number assigned")
		numbers[item.ItemNumber] = true
		assert.Equal(t, models.ItemStatusAvailable, item.Status)
	}
}

func TestGORMItemRepositoryStatusAndDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewGORMItemRepository(db)
	ctx := context.Background()

	item := &models.Item{
		OwnerID:           "owner-1",
		ItemName:          "Ladder",
		Category:          "Tools / Fix-It",
		CampusArea:        "West Campus",
		PickupLocation:    "Garage",
		PickupTimeWindow:  "Weekends",
		MaxBorrowDuration: "1 week",
		CostType:          models.CostTypeFavor,
		ContactMethod:     models.ContactPhone,
	}
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.UpdateStatus(ctx, item.ID, models.ItemStatusBorrowed))
	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusBorrowed, fetched.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", models.ItemStatusBorrowed), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), ErrNotFound)
}

func TestGORMBorrowRepositoryCountsPendingPerItem(t *testing.T) {
	db := openTestDB(t)
	repo := NewGORMBorrowRequestRepository(db)
	ctx := context.Background()

	mk := func(itemID, requesterID string) {
		req := &models.BorrowRequest{
			ItemID:             itemID,
			RequesterID:        requesterID,
			NeededFrom:         time.Now(),
			NeededUntil:        time.Now().AddDate(0, 0, 2),
			Purpose:            "test",
			ContactPhone:       "6145550100",
			AgreedToGuidelines: true,
			Status:             models.BorrowRequestPending,
		}
		require.NoError(t, repo.Create(ctx, req))
	}
	mk("item-a", "u1")
	mk("item-a", "u2")
	mk("item-b", "u1")

	counts, err := repo.CountPendingByItems(ctx, []string{"item-a", "item-b", "item-c"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["item-a"])
	assert.Equal(t, int64(1), counts["item-b"])
	_, present := counts["item-c"]
	assert.False(t, present, "items without pending requests stay absent")
}

func TestGORMCommunityRequestRepositoryCommentOrdering(t *testing.T) {
	db := openTestDB(t)
	repo := NewGORMCommunityRequestRepository(db)
	ctx := context.Background()

	req := &models.CommunityRequest{
		RequesterID:  "user-1",
		ItemName:     "Tent",
		NeededByDate: time.Now().AddDate(0, 0, 7),
		Purpose:      "camping",
		Status:       models.RequestStatusOpen,
	}
	require.NoError(t, repo.CreateRequest(ctx, req))
	assert.Len(t, req.RequestNumber, 5)

	for _, text := range []string{"first", "second", "third"} {
		comment := &models.RequestComment{RequestID: req.ID, CommenterID: "user-2", CommentText: text}
		require.NoError(t, repo.CreateComment(ctx, comment))
	}

	comments, err := repo.ListComments(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].CommentText)
	assert.Equal(t, "third", comments[2].CommentText)

	require.NoError(t, repo.UpdateRequestStatus(ctx, req.ID, models.RequestStatusClosed))
	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestGORMPreferencesRepositoryLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewGORMPreferencesRepository(db)
	ctx := context.Background()

	_, err := repo.GetByUser(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	prefs := models.DefaultPreferences("user-1")
	require.NoError(t, repo.Create(ctx, &prefs))

	fetched, err := repo.GetByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, fetched.EmailNotifications)
	assert.False(t, fetched.ShowEmail)

	fetched.ShowEmail = true
	require.NoError(t, repo.Update(ctx, fetched))
	again, err := repo.GetByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, again.ShowEmail)
}
