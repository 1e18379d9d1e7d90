package wallet

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/metrics"
)

var ErrInvalidAmount = errors.New("amount must be positive")

const (
	TxTypeTopUp         = "topup"
	TxTypeBookingCharge = "booking_payment"
	TxTypeBookingRefund = "booking_refund"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetWallet(userID int) (*Wallet, error) {
	w, err := s.repo.GetByUserID(userID)
	if err == ErrWalletNotFound {
		return s.repo.Create(userID)
	}
	return w, err
}

func (s *Service) TopUp(userID int, amountCents int64) (*Wallet, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.GetWallet(userID); err != nil {
		return nil, err
	}
	w, err := s.repo.AddTransaction(userID, amountCents, TxTypeTopUp)
	if err != nil {
		return nil, fmt.Errorf("failed to top up wallet: %w", err)
	}
	metrics.RecordWalletTopUp()
	return w, nil
}

// ChargeTx debits the cash leg of a booking inside the booking's transaction.
func (s *Service) ChargeTx(tx *sqlx.Tx, userID int, amountCents int64) (*Wallet, error) {
	if amountCents < 0 {
		return nil, ErrInvalidAmount
	}
	if amountCents == 0 {
		return s.repo.GetByUserID(userID)
	}
	return s.repo.AddTransactionTx(tx, userID, -amountCents, TxTypeBookingCharge)
}

// RefundTx credits a booking refund inside the caller's transaction.
func (s *Service) RefundTx(tx *sqlx.Tx, userID int, amountCents int64) (*Wallet, error) {
	if amountCents < 0 {
		return nil, ErrInvalidAmount
	}
	if amountCents == 0 {
		return s.repo.GetByUserID(userID)
	}
	return s.repo.AddTransactionTx(tx, userID, amountCents, TxTypeBookingRefund)
}

func (s *Service) GetTransactions(userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetTransactions(userID, limit, offset)
}
