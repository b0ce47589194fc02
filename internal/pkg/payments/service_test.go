package payments

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
)

const testSecret = "webhook-test-secret"

func setupPaymentsTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Transaction{}))

	svc := NewService(repository.NewTransactionRepository(db), repository.NewUserRepository(db))
	return svc, db
}

func createTestUser(t *testing.T, db *gorm.DB, referredBy *uint) *models.User {
	t.Helper()
	user := &models.User{
		Name:       "Test Vendor",
		Email:      "vendor-" + time.Now().Format("150405.000000000") + "@example.com",
		Password:   "x",
		Role:       "user",
		Status:     "active",
		ReferredBy: referredBy,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func webhookBody(t *testing.T, orderID, status, amount string, userID uint, purchaseType, packLine string) []byte {
	t.Helper()
	meta, err := json.Marshal(AdditionalData{UserID: userID, Type: purchaseType, PackLine: packLine})
	require.NoError(t, err)
	body, err := json.Marshal(WebhookPayload{
		Status:         status,
		Amount:         amount,
		Currency:       "ILS",
		OrderID:        orderID,
		AdditionalData: string(meta),
	})
	require.NoError(t, err)
	return body
}

func TestHandleWebhookFulfillsCreditsOnce(t *testing.T) {
	svc, db := setupPaymentsTest(t)
	user := createTestUser(t, db, nil)

	body := webhookBody(t, "order-1", models.PaymentStatusPaid, "79.00", user.ID, models.PurchaseTypeCredits, "pro")
	sig := Sign(body, testSecret)

	result, err := svc.HandleWebhook(body, sig, testSecret)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.False(t, result.Duplicate)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, int64(200), got.Credits)

	var tx models.Transaction
	require.NoError(t, db.Where("order_id = ?", "order-1").First(&tx).Error)
	assert.NotNil(t, tx.FulfilledAt)

	// Re-delivery of the same order id acknowledges without mutating.
	result, err = svc.HandleWebhook(body, sig, testSecret)
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.False(t, result.Applied)

	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, int64(200), got.Credits, "replay must not grant credits twice")

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("order_id = ?", "order-1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHandleWebhookFulfilledOrderStaysTerminalAfterCancel(t *testing.T) {
	svc, db := setupPaymentsTest(t)
	user := createTestUser(t, db, nil)

	paidBody := webhookBody(t, "order-9", models.PaymentStatusPaid, "79.00", user.ID, models.PurchaseTypeCredits, "pro")
	paidSig := Sign(paidBody, testSecret)

	result, err := svc.HandleWebhook(paidBody, paidSig, testSecret)
	require.NoError(t, err)
	require.True(t, result.Applied)

	// A cancel delivery for the same order id flips the mirrored status.
	cancelBody := webhookBody(t, "order-9", models.PaymentStatusCancel, "79.00", user.ID, models.PurchaseTypeCredits, "pro")
	result, err = svc.HandleWebhook(cancelBody, Sign(cancelBody, testSecret), testSecret)
	require.NoError(t, err)
	assert.True(t, result.Ignored)

	var tx models.Transaction
	require.NoError(t, db.Where("order_id = ?", "order-9").First(&tx).Error)
	assert.Equal(t, models.PaymentStatusCancel, tx.Status)
	assert.NotNil(t, tx.FulfilledAt)

	// A second paid delivery after the cancel is still a duplicate.
	result, err = svc.HandleWebhook(paidBody, paidSig, testSecret)
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.False(t, result.Applied)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, int64(200), got.Credits, "a fulfilled order must never fulfill again")
}

func TestHandleWebhookRejectsBadSignatureWithoutWrites(t *testing.T) {
	svc, db := setupPaymentsTest(t)
	user := createTestUser(t, db, nil)

	body := webhookBody(t, "order-2", models.PaymentStatusPaid, "79.00", user.ID, models.PurchaseTypeCredits, "pro")

	_, err := svc.HandleWebhook(body, "deadbeef", testSecret)
	require.ErrorIs(t, err, ErrInvalidSignature)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Zero(t, got.Credits)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected webhook must not persist anything")
}

func TestHandleWebhookIgnoresNonPaidStatuses(t *testing.T) {
	svc, db := setupPaymentsTest(t)
	user := createTestUser(t, db, nil)

	body := webhookBody(t, "order-3", models.PaymentStatusFail, "79.00", user.ID, models.PurchaseTypeCredits, "pro")
	sig := Sign(body, testSecret)

	result, err := svc.HandleWebhook(body, sig, testSecret)
	require.NoError(t, err)
	assert.True(t, result.Ignored)
	assert.False(t, result.Applied)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Zero(t, got.Credits)
}

func TestHandleWebhookBusinessExtensionIsMonotonic(t *testing.T) {
	svc, db := setupPaymentsTest(t)

	// Expired subscription restarts from now.
	expired := createTestUser(t, db, nil)
	past := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, db.Model(expired).Update("business_expires_at", past).Error)

	body := webhookBody(t, "order-4", models.PaymentStatusPaid, "99.00", expired.ID, models.PurchaseTypeBusiness, "")
	_, err := svc.HandleWebhook(body, Sign(body, testSecret), testSecret)
	require.NoError(t, err)

	var got models.User
	require.NoError(t, db.First(&got, expired.ID).Error)
	require.NotNil(t, got.BusinessExpiresAt)
	wantMin := time.Now().Add(models.BusinessPeriod - time.Minute)
	assert.True(t, got.BusinessExpiresAt.After(wantMin), "expired subscription must restart from now")

	// Active subscription stacks on top of the current expiry.
	active := createTestUser(t, db, nil)
	future := time.Now().Add(5 * 24 * time.Hour).Truncate(time.Second)
	require.NoError(t, db.Model(active).Update("business_expires_at", future).Error)

	body = webhookBody(t, "order-5", models.PaymentStatusPaid, "99.00", active.ID, models.PurchaseTypeBusiness, "")
	_, err = svc.HandleWebhook(body, Sign(body, testSecret), testSecret)
	require.NoError(t, err)

	got = models.User{}
	require.NoError(t, db.First(&got, active.ID).Error)
	require.NotNil(t, got.BusinessExpiresAt)
	wantMin = future.Add(models.BusinessPeriod - time.Minute)
	assert.True(t, got.BusinessExpiresAt.After(wantMin), "active subscription must extend from its current expiry, not from now")
}

func TestHandleWebhookAgencyPackGrantsCreditsAndBusiness(t *testing.T) {
	svc, db := setupPaymentsTest(t)
	user := createTestUser(t, db, nil)

	body := webhookBody(t, "order-6", models.PaymentStatusPaid, "199.00", user.ID, models.PurchaseTypeCredits, PackLineAgency)
	_, err := svc.HandleWebhook(body, Sign(body, testSecret), testSecret)
	require.NoError(t, err)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, int64(500), got.Credits)
	require.NotNil(t, got.BusinessExpiresAt)
	assert.True(t, got.BusinessExpiresAt.After(time.Now().Add(29*24*time.Hour)))
}

func TestHandleWebhookPaysReferralCommission(t *testing.T) {
	svc, db := setupPaymentsTest(t)
	referrer := createTestUser(t, db, nil)
	buyer := createTestUser(t, db, &referrer.ID)

	body := webhookBody(t, "order-7", models.PaymentStatusPaid, "79.00", buyer.ID, models.PurchaseTypeCredits, "pro")
	sig := Sign(body, testSecret)
	_, err := svc.HandleWebhook(body, sig, testSecret)
	require.NoError(t, err)

	var got models.User
	require.NoError(t, db.First(&got, referrer.ID).Error)
	assert.Equal(t, int64(3950), got.AffiliateBalance, "referrer gets half of 7900 agorot")

	// Replay pays no second commission.
	_, err = svc.HandleWebhook(body, sig, testSecret)
	require.NoError(t, err)
	require.NoError(t, db.First(&got, referrer.ID).Error)
	assert.Equal(t, int64(3950), got.AffiliateBalance)
}

func TestHandleWebhookUnknownPack(t *testing.T) {
	svc, db := setupPaymentsTest(t)
	user := createTestUser(t, db, nil)

	body := webhookBody(t, "order-8", models.PaymentStatusPaid, "10.00", user.ID, models.PurchaseTypeCredits, "mystery")
	_, err := svc.HandleWebhook(body, Sign(body, testSecret), testSecret)
	require.True(t, errors.Is(err, ErrUnknownPack))

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Zero(t, got.Credits)
}
