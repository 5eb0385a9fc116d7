package auth

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPIssueStoresCode(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewOTPStoreWithClient(db)
	ctx := context.Background()

	mock.ExpectIncr("otp_requests:user@example.com").SetVal(1)
	mock.ExpectExpire("otp_requests:user@example.com", time.Hour).SetVal(true)
	mock.Regexp().ExpectSet("otp:user@example.com", `^\d{6}$`, 10*time.Minute).SetVal("OK")

	code, err := store.Issue(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPIssueRateLimited(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewOTPStoreWithClient(db)
	ctx := context.Background()

	mock.ExpectIncr("otp_requests:user@example.com").SetVal(6)

	_, err := store.Issue(ctx, "user@example.com")
	assert.ErrorIs(t, err, ErrOTPRateLimited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPVerifySuccessConsumesCode(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewOTPStoreWithClient(db)
	ctx := context.Background()

	mock.ExpectGet("otp:user@example.com").SetVal("123456")
	mock.ExpectDel("otp:user@example.com").SetVal(1)

	err := store.Verify(ctx, "user@example.com", "123456")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPVerifyWrongCode(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewOTPStoreWithClient(db)
	ctx := context.Background()

	mock.ExpectGet("otp:user@example.com").SetVal("123456")

	err := store.Verify(ctx, "user@example.com", "654321")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestOTPVerifyExpired(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewOTPStoreWithClient(db)
	ctx := context.Background()

	mock.ExpectGet("otp:user@example.com").RedisNil()

	err := store.Verify(ctx, "user@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}
