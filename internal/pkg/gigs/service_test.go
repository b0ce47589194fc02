package gigs

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

func setupGigTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Vendor{}, &models.Gig{}))

	return NewService(repository.NewGigRepository(db)), db
}

func createVendor(t *testing.T, db *gorm.DB) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{Name: "DJ Maor"}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func TestCreateMintsDraftWithSlug(t *testing.T) {
	svc, db := setupGigTest(t)
	vendor := createVendor(t, db)

	gig, err := svc.Create(Actor{VendorID: vendor.ID}, CreateInput{Title: "Wedding DJ set"})
	require.NoError(t, err)

	assert.Equal(t, models.GigStatusDraft, gig.Status)
	assert.Equal(t, models.ModerationPending, gig.ModerationStatus)
	assert.Len(t, gig.ShareSlug, 8)
	assert.NotEmpty(t, gig.UUID)
	require.NotNil(t, gig.VendorID)
	assert.Equal(t, vendor.ID, *gig.VendorID)
}

func TestCreateRequiresACredential(t *testing.T) {
	svc, _ := setupGigTest(t)
	_, err := svc.Create(Actor{}, CreateInput{Title: "ghost"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPublicVisibilityInvariant(t *testing.T) {
	svc, db := setupGigTest(t)
	vendor := createVendor(t, db)
	actor := Actor{VendorID: vendor.ID}

	gig, err := svc.Create(actor, CreateInput{Title: "Magician"})
	require.NoError(t, err)

	// Draft resolves to a refusal, not a not-found: the link is real but
	// the page is not servable yet.
	_, err = svc.GetBySlug(gig.ShareSlug)
	assert.ErrorIs(t, err, ErrNotVisible)

	// Published but moderation-pending stays invisible to the public.
	require.NoError(t, db.Model(gig).Updates(map[string]interface{}{
		"status": models.GigStatusPublished, "moderation_status": models.ModerationPending,
	}).Error)
	_, err = svc.GetBySlug(gig.ShareSlug)
	assert.ErrorIs(t, err, ErrNotFound)

	// Published and approved serves.
	require.NoError(t, db.Model(gig).Update("moderation_status", models.ModerationApproved).Error)
	got, err := svc.GetBySlug(gig.ShareSlug)
	require.NoError(t, err)
	assert.Equal(t, gig.ID, got.ID)

	// Unlisted and approved stays reachable by link.
	require.NoError(t, db.Model(gig).Update("status", models.GigStatusUnlisted).Error)
	_, err = svc.GetBySlug(gig.ShareSlug)
	assert.NoError(t, err)

	// Archived refuses again.
	require.NoError(t, db.Model(gig).Update("status", models.GigStatusArchived).Error)
	_, err = svc.GetBySlug(gig.ShareSlug)
	assert.ErrorIs(t, err, ErrNotVisible)
}

func TestGetBySlugCountsEveryView(t *testing.T) {
	svc, db := setupGigTest(t)
	vendor := createVendor(t, db)

	gig, err := svc.Create(Actor{VendorID: vendor.ID}, CreateInput{Title: "Band"})
	require.NoError(t, err)
	require.NoError(t, db.Model(gig).Updates(map[string]interface{}{
		"status": models.GigStatusPublished, "moderation_status": models.ModerationApproved,
	}).Error)

	for i := 0; i < 3; i++ {
		_, err = svc.GetBySlug(gig.ShareSlug)
		require.NoError(t, err)
	}

	var got models.Gig
	require.NoError(t, db.First(&got, gig.ID).Error)
	assert.Equal(t, 3, got.ViewCount)
}

func TestPublishAutoApproves(t *testing.T) {
	svc, db := setupGigTest(t)
	vendor := createVendor(t, db)
	actor := Actor{VendorID: vendor.ID}

	gig, err := svc.Create(actor, CreateInput{Title: "Catering"})
	require.NoError(t, err)

	published, err := svc.Publish(actor, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GigStatusPublished, published.Status)
	assert.Equal(t, models.ModerationApproved, published.ModerationStatus)
	assert.True(t, published.WizardCompleted)
	assert.NotNil(t, published.PublishedAt)
}

func TestPublishHonorsReviewGate(t *testing.T) {
	t.Setenv("AUTO_APPROVE_ON_PUBLISH", "false")

	svc, db := setupGigTest(t)
	vendor := createVendor(t, db)
	actor := Actor{VendorID: vendor.ID}

	gig, err := svc.Create(actor, CreateInput{Title: "Catering"})
	require.NoError(t, err)

	published, err := svc.Publish(actor, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GigStatusPublished, published.Status)
	assert.Equal(t, models.ModerationPending, published.ModerationStatus)

	// Not approved yet, so the public page does not serve.
	_, err = svc.GetBySlug(published.ShareSlug)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegenerateSlugInvalidatesOldLink(t *testing.T) {
	svc, db := setupGigTest(t)
	vendor := createVendor(t, db)
	actor := Actor{VendorID: vendor.ID}

	gig, err := svc.Create(actor, CreateInput{Title: "Photographer"})
	require.NoError(t, err)
	_, err = svc.Publish(actor, gig.ID)
	require.NoError(t, err)

	oldSlug, newSlug, err := svc.RegenerateSlug(actor, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, gig.ShareSlug, oldSlug)
	assert.Len(t, newSlug, 12)
	assert.NotEqual(t, oldSlug, newSlug)

	_, err = svc.GetBySlug(oldSlug)
	assert.ErrorIs(t, err, ErrNotFound, "old slug must stop resolving")

	got, err := svc.GetBySlug(newSlug)
	require.NoError(t, err)
	assert.Equal(t, gig.ID, got.ID)
}

func TestUnlistRotatesSlugAndKeepsLinkAccess(t *testing.T) {
	svc, db := setupGigTest(t)
	vendor := createVendor(t, db)
	actor := Actor{VendorID: vendor.ID}

	gig, err := svc.Create(actor, CreateInput{Title: "Violinist"})
	require.NoError(t, err)
	published, err := svc.Publish(actor, gig.ID)
	require.NoError(t, err)

	unlisted, err := svc.Unlist(actor, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GigStatusUnlisted, unlisted.Status)
	assert.NotEqual(t, published.ShareSlug, unlisted.ShareSlug)

	// Reachable by the new link, absent from the public listing.
	_, err = svc.GetBySlug(unlisted.ShareSlug)
	require.NoError(t, err)

	public, err := svc.ListPublic(0, 10)
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestArchiveRefusesPublicResolution(t *testing.T) {
	svc, db := setupGigTest(t)
	vendor := createVendor(t, db)
	actor := Actor{VendorID: vendor.ID}

	gig, err := svc.Create(actor, CreateInput{Title: "Retired act"})
	require.NoError(t, err)
	_, err = svc.Publish(actor, gig.ID)
	require.NoError(t, err)

	archived, err := svc.Archive(actor, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GigStatusArchived, archived.Status)

	_, err = svc.GetBySlug(archived.ShareSlug)
	assert.ErrorIs(t, err, ErrNotVisible)
}

func TestOwnershipIsEnforced(t *testing.T) {
	svc, db := setupGigTest(t)
	owner := createVendor(t, db)
	stranger := createVendor(t, db)

	gig, err := svc.Create(Actor{VendorID: owner.ID}, CreateInput{Title: "Stylist", PriceAmount: 10000})
	require.NoError(t, err)

	newTitle := "Hijacked"
	_, err = svc.Update(Actor{VendorID: stranger.ID}, gig.ID, UpdateInput{Title: &newTitle})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Publish(Actor{VendorID: stranger.ID}, gig.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(Actor{VendorID: stranger.ID}, gig.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	var got models.Gig
	require.NoError(t, db.First(&got, gig.ID).Error)
	assert.Equal(t, "Stylist", got.Title)
	assert.Equal(t, models.GigStatusDraft, got.Status)
}

func TestUpdateMergesSparsely(t *testing.T) {
	svc, db := setupGigTest(t)
	vendor := createVendor(t, db)
	actor := Actor{VendorID: vendor.ID}

	gig, err := svc.Create(actor, CreateInput{Title: "Original", City: "Tel Aviv", PriceAmount: 5000})
	require.NoError(t, err)

	price := int64(7500)
	updated, err := svc.Update(actor, gig.ID, UpdateInput{PriceAmount: &price})
	require.NoError(t, err)

	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, "Tel Aviv", updated.City)
	assert.Equal(t, int64(7500), updated.PriceAmount)
}

func TestOnboardingDraftOwnedBySessionUser(t *testing.T) {
	svc, _ := setupGigTest(t)

	gig, err := svc.Create(Actor{UserID: 42}, CreateInput{Title: "My first gig"})
	require.NoError(t, err)
	assert.Nil(t, gig.VendorID)
	require.NotNil(t, gig.OwnerUserID)
	assert.Equal(t, uint(42), *gig.OwnerUserID)

	// The owning user can keep editing the vendor-less draft.
	step := 3
	_, err = svc.Update(Actor{UserID: 42}, gig.ID, UpdateInput{CurrentStep: &step})
	require.NoError(t, err)

	// Another user cannot.
	_, err = svc.Update(Actor{UserID: 43}, gig.ID, UpdateInput{CurrentStep: &step})
	assert.ErrorIs(t, err, ErrForbidden)
}
