package memory

import (
	"context"
	"time"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

var _ repository.VerificationCodeRepository = (*VerificationCodeRepo)(nil)

// VerificationCodeRepo implementación en memoria de VerificationCodeRepository.
type VerificationCodeRepo struct {
	s    *Store
	inTx bool
}

// LockEmail no hace nada: la transacción ya retiene el mutex del store.
func (r *VerificationCodeRepo) LockEmail(context.Context, string) error { return nil }

func (r *VerificationCodeRepo) DeleteByEmail(_ context.Context, email string) (int64, error) {
	defer r.s.lock(r.inTx)()
	kept := r.s.codes[:0]
	var n int64
	for _, c := range r.s.codes {
		if c.Email == email {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.s.codes = kept
	return n, nil
}

func (r *VerificationCodeRepo) Create(_ context.Context, code *entity.VerificationCode) error {
	defer r.s.lock(r.inTx)()
	r.s.nextCodeID++
	code.ID = r.s.nextCodeID
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	r.s.codes = append(r.s.codes, *code)
	return nil
}

func (r *VerificationCodeRepo) FindByEmailAndCode(_ context.Context, email, code string) (*entity.VerificationCode, error) {
	defer r.s.lock(r.inTx)()
	var found *entity.VerificationCode
	for i := range r.s.codes {
		c := r.s.codes[i]
		if c.Email == email && c.Code == code && newer(c, found) {
			found = &c
		}
	}
	return found, nil
}

func (r *VerificationCodeRepo) FindLatestByEmail(_ context.Context, email string) (*entity.VerificationCode, error) {
	defer r.s.lock(r.inTx)()
	var latest *entity.VerificationCode
	for i := range r.s.codes {
		c := r.s.codes[i]
		if c.Email == email && newer(c, latest) {
			latest = &c
		}
	}
	return latest, nil
}

func (r *VerificationCodeRepo) MarkConsumed(_ context.Context, id int64) (bool, error) {
	defer r.s.lock(r.inTx)()
	for i := range r.s.codes {
		if r.s.codes[i].ID != id {
			continue
		}
		if r.s.codes[i].Consumed {
			return false, nil
		}
		r.s.codes[i].Consumed = true
		return true, nil
	}
	return false, nil
}

// newer: created_at DESC, id DESC.
func newer(c entity.VerificationCode, than *entity.VerificationCode) bool {
	if than == nil {
		return true
	}
	if !c.CreatedAt.Equal(than.CreatedAt) {
		return c.CreatedAt.After(than.CreatedAt)
	}
	return c.ID > than.ID
}
