package wallet

import "context"

type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	HasSufficientBalance(ctx context.Context, userID int, amountCents int64) (bool, error)
	Deposit(ctx context.Context, userID int, amountCents int64, description string) (*Transaction, error)
	Reserve(ctx context.Context, userID int, amountCents int64, productID int, description string) (*Transaction, error)
	Deduct(ctx context.Context, userID int, amountCents int64, productID int, description string) (*Transaction, error)
	CompleteReservation(ctx context.Context, transactionID int) (*Transaction, error)
	RefundReservation(ctx context.Context, transactionID int) (*Transaction, error)
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}
