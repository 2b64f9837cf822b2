package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación en memoria de PaymentRepository.
type PaymentRepo struct {
	s    *Store
	inTx bool
}

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	defer r.s.lock(r.inTx)()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.s.payments = append(r.s.payments, *p)
	return nil
}

func (r *PaymentRepo) ListByAccount(_ context.Context, accountID string) ([]*entity.Payment, error) {
	defer r.s.lock(r.inTx)()
	var out []*entity.Payment
	for i := range r.s.payments {
		if r.s.payments[i].AccountID == accountID {
			p := r.s.payments[i]
			out = append(out, &p)
		}
	}
	return out, nil
}
