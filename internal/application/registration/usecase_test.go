package registration_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/internal/application/registration"
	"github.com/jhoicas/cuentas-api/internal/application/verification"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/memory"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/security"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (n *captureNotifier) Dispatch(_ context.Context, msg ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *captureNotifier) last(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1].Code
}

type fakePublisher struct {
	events []ports.AccountRegisteredEvent
	err    error
}

func (p *fakePublisher) PublishAccountRegistered(_ context.Context, evt ports.AccountRegisteredEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

type fixture struct {
	uc        *registration.UseCase
	engine    *verification.Engine
	store     *memory.Store
	notifier  *captureNotifier
	publisher *fakePublisher
	hasher    *security.BcryptHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := &captureNotifier{}
	engine := verification.NewEngine(store.Codes(), memory.NewTxRunner(store), notifier,
		verification.Config{CodeLength: 6, Expiration: 5 * time.Minute}, nil)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	pub := &fakePublisher{}
	return &fixture{
		uc:        registration.NewUseCase(store.Accounts(), engine, hasher, pub, nil),
		engine:    engine,
		store:     store,
		notifier:  notifier,
		publisher: pub,
		hasher:    hasher,
	}
}

func request(role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:     "a@x.com",
		Password:  "secreta",
		FirstName: "Ana",
		LastName:  "Pérez",
		Role:      role,
	}
}

// verified recorre initiate + verify para el email del request.
func (f *fixture) verified(t *testing.T, in dto.RegisterRequest) {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.Initiate(ctx, in)
	require.NoError(t, err)
	ok, err := f.engine.Verify(ctx, in.Email, f.notifier.last(t))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInitiate_EmailNuevo(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Initiate(context.Background(), request("RETAIL"))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resp.Email)
	assert.NotEmpty(t, resp.Message)
	assert.Len(t, f.notifier.sent, 1)
}

func TestInitiate_ValidacionAntesDeEfectos(t *testing.T) {
	f := newFixture(t)

	in := request("RETAIL")
	in.Password = "   "
	_, err := f.uc.Initiate(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.notifier.sent, "no se emite código si la entrada es inválida")

	in = request("RETAIL")
	in.Email = ""
	_, err = f.uc.Initiate(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestInitiate_DosVecesInvalidaPrimerCodigo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Initiate(ctx, request("RETAIL"))
	require.NoError(t, err)
	first := f.notifier.last(t)

	_, err = f.uc.Initiate(ctx, request("RETAIL"))
	require.NoError(t, err)
	second := f.notifier.last(t)

	if first != second {
		ok, err := f.engine.Verify(ctx, "a@x.com", first)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err := f.engine.Verify(ctx, "a@x.com", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFinalize_SinVerificar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Initiate(ctx, request("RETAIL"))
	require.NoError(t, err)

	_, err = f.uc.Finalize(ctx, request("RETAIL"))
	assert.ErrorIs(t, err, domain.ErrNotVerified)

	exists, err := f.store.Accounts().ExistsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFinalize_CreaCuenta(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus entity.PaymentStatus
	}{
		{"RETAIL", entity.PaymentCleared},
		{"WHOLESALE", entity.PaymentPending},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			in := request(tt.role)
			f.verified(t, in)

			resp, err := f.uc.Finalize(ctx, in)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.ID)
			assert.Equal(t, tt.role, resp.Role)
			assert.Equal(t, string(tt.wantStatus), resp.PaymentStatus)

			stored, err := f.store.Accounts().FindByEmail(ctx, in.Email)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.NotEqual(t, in.Password, stored.PasswordHash)
			assert.True(t, f.hasher.Compare(stored.PasswordHash, in.Password))
			assert.False(t, f.hasher.Compare(stored.PasswordHash, "otra"))

			require.Len(t, f.publisher.events, 1)
			assert.Equal(t, resp.ID, f.publisher.events[0].AccountID)
		})
	}
}

func TestFinalize_ValidaRol(t *testing.T) {
	f := newFixture(t)
	in := request("ADMIN")
	_, err := f.uc.Finalize(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFinalize_YaRegistrado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := request("RETAIL")
	f.verified(t, in)
	_, err := f.uc.Finalize(ctx, in)
	require.NoError(t, err)

	_, err = f.uc.Finalize(ctx, in)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	_, err = f.uc.Initiate(ctx, in)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered, "registro completo bloquea initiate")
}

func TestInitiate_CuentaExistenteSinVerificarReemiteCodigo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Accounts().Create(ctx, &entity.Account{Email: "a@x.com", Role: entity.RoleRetail}))

	resp, err := f.uc.Initiate(ctx, request("RETAIL"))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resp.Email)
	assert.Len(t, f.notifier.sent, 1)
}

func TestFinalize_PublicadorFallaNoEsFatal(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker caído")
	in := request("RETAIL")
	f.verified(t, in)

	_, err := f.uc.Finalize(context.Background(), in)
	require.NoError(t, err)
}

// racyAccounts simula otra instancia que insertó la cuenta entre el pre-check y el insert.
type racyAccounts struct {
	repository.AccountRepository
}

func (racyAccounts) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (racyAccounts) Create(context.Context, *entity.Account) error       { return domain.ErrDuplicate }

func TestFinalize_DuplicadoEnStoreSeMapeaAConflicto(t *testing.T) {
	f := newFixture(t)
	in := request("RETAIL")
	f.verified(t, in)

	uc := registration.NewUseCase(racyAccounts{f.store.Accounts()}, f.engine, f.hasher, nil, nil)
	_, err := uc.Finalize(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestSendCode_CuentaRegistradaNoReemite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := request("RETAIL")
	f.verified(t, in)
	_, err := f.uc.Finalize(ctx, in)
	require.NoError(t, err)
	sent := len(f.notifier.sent)

	require.NoError(t, f.uc.SendCode(ctx, in.Email))
	assert.Len(t, f.notifier.sent, sent, "no se emite código para una cuenta registrada")

	verified, err := f.engine.IsVerified(ctx, in.Email)
	require.NoError(t, err)
	assert.True(t, verified, "el estado verificado se conserva")

	_, err = f.uc.Initiate(ctx, in)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestSendCode_EmailSinCuentaEmite(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.uc.SendCode(context.Background(), "nuevo@x.com"))
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "nuevo@x.com", f.notifier.sent[0].To)
}

func TestSendCode_Validacion(t *testing.T) {
	f := newFixture(t)
	err := f.uc.SendCode(context.Background(), "no-es-email")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.notifier.sent)
}
