package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

var _ repository.VerificationCodeRepository = (*VerificationCodeRepo)(nil)

const codeColumns = `id, email, code, expires_at, consumed, created_at`

// VerificationCodeRepo códigos de verificación sobre PostgreSQL (usable con pool o tx).
type VerificationCodeRepo struct {
	q Querier
}

// NewVerificationCodeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVerificationCodeRepository(q Querier) *VerificationCodeRepo {
	return &VerificationCodeRepo{q: q}
}

// LockEmail toma un advisory lock transaccional por email: se libera con Commit/Rollback.
// Fuera de una tx el lock dura solo la sentencia y no serializa nada.
func (r *VerificationCodeRepo) LockEmail(ctx context.Context, email string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, email); err != nil {
		return fmt.Errorf("lock email: %w", err)
	}
	return nil
}

// DeleteByEmail corre bajo un savepoint: si falla, la tx exterior sigue usable.
func (r *VerificationCodeRepo) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	sp, err := r.q.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("savepoint: %w", err)
	}
	defer func() { _ = sp.Rollback(ctx) }()

	tag, err := sp.Exec(ctx, `DELETE FROM verification_codes WHERE email = $1`, email)
	if err != nil {
		return 0, fmt.Errorf("delete codes: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return 0, fmt.Errorf("release savepoint: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *VerificationCodeRepo) Create(ctx context.Context, c *entity.VerificationCode) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO verification_codes (email, code, expires_at, consumed, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, c.Email, c.Code, c.ExpiresAt, c.Consumed, c.CreatedAt).Scan(&c.ID); err != nil {
		return fmt.Errorf("insert code: %w", err)
	}
	return nil
}

// FindByEmailAndCode si hubiera repetidos devuelve el más reciente.
func (r *VerificationCodeRepo) FindByEmailAndCode(ctx context.Context, email, code string) (*entity.VerificationCode, error) {
	query := `SELECT ` + codeColumns + ` FROM verification_codes
		WHERE email = $1 AND code = $2
		ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.findOne(ctx, query, email, code)
}

func (r *VerificationCodeRepo) FindLatestByEmail(ctx context.Context, email string) (*entity.VerificationCode, error) {
	query := `SELECT ` + codeColumns + ` FROM verification_codes
		WHERE email = $1
		ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.findOne(ctx, query, email)
}

func (r *VerificationCodeRepo) findOne(ctx context.Context, query string, args ...any) (*entity.VerificationCode, error) {
	var c entity.VerificationCode
	err := r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Email, &c.Code, &c.ExpiresAt, &c.Consumed, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get code: %w", err)
	}
	return &c, nil
}

// MarkConsumed update condicional: de dos verificaciones simultáneas solo una afecta la fila.
func (r *VerificationCodeRepo) MarkConsumed(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE verification_codes SET consumed = TRUE WHERE id = $1 AND consumed = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("consume code: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
