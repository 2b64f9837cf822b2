package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

// Store almacenamiento en memoria para desarrollo y tests. Un único mutex
// protege todo el estado; una transacción lo retiene de principio a fin.
type Store struct {
	mu         sync.Mutex
	accounts   map[string]entity.Account // id -> cuenta
	byEmail    map[string]string         // email -> id
	codes      []entity.VerificationCode
	nextCodeID int64
	payments   []entity.Payment
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]entity.Account),
		byEmail:  make(map[string]string),
	}
}

// Accounts repositorio de cuentas fuera de transacción.
func (s *Store) Accounts() *AccountRepo { return &AccountRepo{s: s} }

// Codes repositorio de códigos fuera de transacción.
func (s *Store) Codes() *VerificationCodeRepo { return &VerificationCodeRepo{s: s} }

// Payments repositorio de pagos fuera de transacción.
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s} }

// lock toma el mutex salvo que el repo ya opere dentro de una transacción.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	accounts   map[string]entity.Account
	byEmail    map[string]string
	codes      []entity.VerificationCode
	nextCodeID int64
	payments   []entity.Payment
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		accounts:   make(map[string]entity.Account, len(s.accounts)),
		byEmail:    make(map[string]string, len(s.byEmail)),
		codes:      append([]entity.VerificationCode(nil), s.codes...),
		nextCodeID: s.nextCodeID,
		payments:   append([]entity.Payment(nil), s.payments...),
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.byEmail {
		snap.byEmail[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.byEmail = snap.byEmail
	s.codes = snap.codes
	s.nextCodeID = snap.nextCodeID
	s.payments = snap.payments
}

// TxRunner transacciones en memoria: serializa y revierte el estado si fn falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// RunVerification ver verification.TxRunner.
func (r *TxRunner) RunVerification(ctx context.Context, fn func(codes repository.VerificationCodeRepository) error) error {
	return r.run(ctx, func() error {
		return fn(&VerificationCodeRepo{s: r.s, inTx: true})
	})
}

// RunBilling ver billing.BillingTxRunner.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(accounts repository.AccountRepository, payments repository.PaymentRepository) error) error {
	return r.run(ctx, func() error {
		return fn(&AccountRepo{s: r.s, inTx: true}, &PaymentRepo{s: r.s, inTx: true})
	})
}
