package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentr-app/talentr/app/models"
)

// transactionRepository implements the TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// GetByOrderID retrieves a transaction by the provider order id
func (r *transactionRepository) GetByOrderID(orderID string) (*models.Transaction, error) {
	if orderID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var tx models.Transaction
	err := r.db.Where("order_id = ?", orderID).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Upsert writes the transaction row keyed by order id. Safe to repeat on
// webhook re-delivery; fulfilled_at is never touched by the upsert so the
// fulfillment marker survives replays.
func (r *transactionRepository) Upsert(tx *models.Transaction) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "order_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"amount",
			"currency",
			"purchase_type",
			"pack_line",
			"raw_payload",
			"updated_at",
		}),
	}).Create(tx).Error; err != nil {
		return err
	}

	// Ensure ID and fulfilled_at are populated after upsert.
	return r.db.Where("order_id = ?", tx.OrderID).First(tx).Error
}

// MarkFulfilled stamps the fulfillment marker exactly once.
func (r *transactionRepository) MarkFulfilled(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Transaction{}).
		Where("id = ? AND fulfilled_at IS NULL", id).
		Update("fulfilled_at", &now).Error
}

// ListByUserID returns the payment history of a user, newest first
func (r *transactionRepository) ListByUserID(userID uint, offset, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&txs).Error
	return txs, err
}
