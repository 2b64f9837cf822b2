package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `id, first_name, last_name, email, password_hash, role, payment_status, created_at, updated_at`

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// ExistsByEmail comparación exacta (el email se guarda tal cual).
func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists account by email: %w", err)
	}
	return exists, nil
}

func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *AccountRepo) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepo) findOne(ctx context.Context, query string, arg any) (*entity.Account, error) {
	var a entity.Account
	var role, status string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &role, &status,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.Role = entity.Role(role)
	a.PaymentStatus = entity.PaymentStatus(status)
	return &a, nil
}

// Create persiste una nueva cuenta. El índice único de email decide entre inserts concurrentes.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.FirstName, a.LastName, a.Email, a.PasswordHash, string(a.Role), string(a.PaymentStatus),
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepo) UpdatePaymentStatus(ctx context.Context, id string, status entity.PaymentStatus) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE accounts SET payment_status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
