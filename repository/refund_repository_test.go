package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestRefundCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRefundRepo(gormDB)

	refund := &models.Refund{
		ID:         "rfnd_abc123",
		PaymentID:  "pay_abc123",
		MerchantID: uuid.New(),
		Amount:     4000,
		Status:     models.RefundStatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "refunds"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), refund)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRefundRepo(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "refunds"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	r, err := repo.FindByID(context.Background(), "rfnd_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, r)
}

func TestRefundFindByID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRefundRepo(gormDB)

	merchantID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "payment_id", "merchant_id", "amount", "status", "created_at", "updated_at"}).
		AddRow("rfnd_abc123", "pay_abc123", merchantID, int64(4000), models.RefundStatusProcessed, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "refunds"`)).
		WillReturnRows(rows)

	r, err := repo.FindByID(context.Background(), "rfnd_abc123")
	assert.NoError(t, err)
	assert.Equal(t, "pay_abc123", r.PaymentID)
	assert.Equal(t, int64(4000), r.Amount)
}

func TestRefundSumActiveByPaymentID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRefundRepo(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM "refunds"`)).
		WithArgs("pay_abc123", models.RefundStatusPending, models.RefundStatusProcessed).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(11000)))

	total, err := repo.SumActiveByPaymentID(context.Background(), "pay_abc123")
	assert.NoError(t, err)
	assert.Equal(t, int64(11000), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundSumActiveByPaymentID_NoRefunds(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRefundRepo(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM "refunds"`)).
		WithArgs("pay_empty", models.RefundStatusPending, models.RefundStatusProcessed).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(0)))

	total, err := repo.SumActiveByPaymentID(context.Background(), "pay_empty")
	assert.NoError(t, err)
	assert.Zero(t, total)
}

func TestRefundSave_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRefundRepo(gormDB)

	now := time.Now()
	refund := &models.Refund{
		ID:          "rfnd_abc123",
		PaymentID:   "pay_abc123",
		MerchantID:  uuid.New(),
		Amount:      4000,
		Status:      models.RefundStatusProcessed,
		ProcessedAt: &now,
		CreatedAt:   now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "refunds"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Save(context.Background(), refund)
	assert.NoError(t, err)
}
