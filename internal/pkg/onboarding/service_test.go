package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
)

func setupOnboardingTest(t *testing.T) (*Service, *gorm.DB, *[]uint) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PendingVendor{}, &models.Vendor{}, &models.Gig{}))

	var mailed []uint
	svc := NewService(
		repository.NewPendingVendorRepository(db),
		repository.NewVendorRepository(db),
		repository.NewGigRepository(db),
		func(v *models.Vendor) error {
			mailed = append(mailed, v.ID)
			return nil
		},
	)
	return svc, db, &mailed
}

func createPending(t *testing.T, db *gorm.DB) *models.PendingVendor {
	t.Helper()
	pending := &models.PendingVendor{
		Name:     "Studio Or",
		Category: "photography",
		City:     "Haifa",
		Email:    "or@example.com",
		Status:   models.PendingStatusInvited,
	}
	require.NoError(t, db.Create(pending).Error)
	return pending
}

func TestConfirmActivatesVendorOnce(t *testing.T) {
	svc, db, mailed := setupOnboardingTest(t)
	pending := createPending(t, db)

	vendor, editLink, err := svc.Confirm(pending.ConfirmationToken, ConfirmInput{Bio: "Wedding photography"})
	require.NoError(t, err)

	assert.Equal(t, "Studio Or", vendor.Name)
	assert.Equal(t, "Wedding photography", vendor.Bio)
	assert.NotEmpty(t, vendor.EditToken)
	assert.Contains(t, editLink, vendor.EditToken)
	assert.Equal(t, []uint{vendor.ID}, *mailed)

	var got models.PendingVendor
	require.NoError(t, db.First(&got, pending.ID).Error)
	assert.Equal(t, models.PendingStatusConfirmed, got.Status)
	assert.NotNil(t, got.ConfirmedAt)

	// Replaying the token must not mint a second vendor.
	_, _, err = svc.Confirm(pending.ConfirmationToken, ConfirmInput{})
	assert.ErrorIs(t, err, ErrAlreadyConsumed)

	var count int64
	require.NoError(t, db.Model(&models.Vendor{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConfirmOverridesPrefilledFields(t *testing.T) {
	svc, db, _ := setupOnboardingTest(t)
	pending := createPending(t, db)

	vendor, _, err := svc.Confirm(pending.ConfirmationToken, ConfirmInput{
		Name: "Or Photography",
		City: "Tel Aviv",
	})
	require.NoError(t, err)

	assert.Equal(t, "Or Photography", vendor.Name, "submitted fields win")
	assert.Equal(t, "Tel Aviv", vendor.City)
	assert.Equal(t, "photography", vendor.Category, "omitted fields fall back to the scraped record")
}

func TestDeclineIsIdempotentButBlocksAfterConfirm(t *testing.T) {
	svc, db, _ := setupOnboardingTest(t)

	pending := createPending(t, db)
	require.NoError(t, svc.Decline(pending.ConfirmationToken, "not interested"))
	require.NoError(t, svc.Decline(pending.ConfirmationToken, "still not interested"), "second decline is a no-op")

	var got models.PendingVendor
	require.NoError(t, db.First(&got, pending.ID).Error)
	assert.Equal(t, models.PendingStatusDeclined, got.Status)
	assert.Equal(t, "not interested", got.DeclineReason, "the original reason stays")

	// A declined token cannot be confirmed.
	_, _, err := svc.Confirm(pending.ConfirmationToken, ConfirmInput{})
	assert.ErrorIs(t, err, ErrAlreadyConsumed)

	// And a confirmed token cannot be declined.
	confirmed := createPending(t, db)
	_, _, err = svc.Confirm(confirmed.ConfirmationToken, ConfirmInput{})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Decline(confirmed.ConfirmationToken, "too late"), ErrAlreadyConsumed)
}

func TestUnknownTokenNotFound(t *testing.T) {
	svc, _, _ := setupOnboardingTest(t)

	_, err := svc.GetPendingByToken("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.Confirm("nope", ConfirmInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteOnboardingLinksGigAndReusesVendor(t *testing.T) {
	svc, db, _ := setupOnboardingTest(t)

	userID := uint(11)
	gig := &models.Gig{Title: "My DJ gig", OwnerUserID: &userID, ShareSlug: "draft1", Status: models.GigStatusDraft}
	require.NoError(t, db.Create(gig).Error)

	vendor, editLink, err := svc.CompleteOnboarding(userID, gig.ID, "DJ Noam", "music", "Jerusalem")
	require.NoError(t, err)
	assert.NotEmpty(t, editLink)

	var gotGig models.Gig
	require.NoError(t, db.First(&gotGig, gig.ID).Error)
	require.NotNil(t, gotGig.VendorID)
	assert.Equal(t, vendor.ID, *gotGig.VendorID)
	assert.Equal(t, models.GigStatusPendingReview, gotGig.Status)
	assert.Equal(t, models.ModerationPending, gotGig.ModerationStatus)

	// A second completion for the same user reuses the vendor row.
	second := &models.Gig{Title: "Another gig", OwnerUserID: &userID, ShareSlug: "draft2", Status: models.GigStatusDraft}
	require.NoError(t, db.Create(second).Error)

	vendor2, _, err := svc.CompleteOnboarding(userID, second.ID, "DJ Noam", "music", "Jerusalem")
	require.NoError(t, err)
	assert.Equal(t, vendor.ID, vendor2.ID, "one vendor per owner user")

	var count int64
	require.NoError(t, db.Model(&models.Vendor{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCompleteOnboardingEnforcesGigOwnership(t *testing.T) {
	svc, db, _ := setupOnboardingTest(t)

	ownerID := uint(11)
	gig := &models.Gig{Title: "Not yours", OwnerUserID: &ownerID, ShareSlug: "draft3", Status: models.GigStatusDraft}
	require.NoError(t, db.Create(gig).Error)

	_, _, err := svc.CompleteOnboarding(12, gig.ID, "Imposter", "music", "Eilat")
	assert.ErrorIs(t, err, ErrNotGigOwner)

	_, _, err = svc.CompleteOnboarding(11, 999, "Ghost", "music", "Eilat")
	assert.ErrorIs(t, err, ErrGigNotFound)
}
