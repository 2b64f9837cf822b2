package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación en memoria de AccountRepository.
type AccountRepo struct {
	s    *Store
	inTx bool
}

func (r *AccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	defer r.s.lock(r.inTx)()
	_, ok := r.s.byEmail[email]
	return ok, nil
}

func (r *AccountRepo) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	defer r.s.lock(r.inTx)()
	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, nil
	}
	a := r.s.accounts[id]
	return &a, nil
}

func (r *AccountRepo) FindByID(_ context.Context, id string) (*entity.Account, error) {
	defer r.s.lock(r.inTx)()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AccountRepo) Create(_ context.Context, account *entity.Account) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.byEmail[account.Email]; ok {
		return domain.ErrDuplicate
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	r.s.accounts[account.ID] = *account
	r.s.byEmail[account.Email] = account.ID
	return nil
}

func (r *AccountRepo) UpdatePaymentStatus(_ context.Context, id string, status entity.PaymentStatus) error {
	defer r.s.lock(r.inTx)()
	a, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.PaymentStatus = status
	a.UpdatedAt = time.Now().UTC()
	r.s.accounts[id] = a
	return nil
}
