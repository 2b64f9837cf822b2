package verification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/internal/application/verification"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
	"github.com/jhoicas/cuentas-api/internal/infrastructure/memory"
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

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	engine   *verification.Engine
	store    *memory.Store
	notifier *captureNotifier
	clock    *fakeClock
}

func newFixture(t *testing.T, codes ...string) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := &captureNotifier{}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	e := verification.NewEngine(store.Codes(), memory.NewTxRunner(store), notifier,
		verification.Config{CodeLength: 6, Expiration: time.Minute}, nil)
	e.WithClock(clock.Now)
	if len(codes) > 0 {
		i := 0
		e.WithCodeGenerator(func(int) (string, error) {
			c := codes[i%len(codes)]
			i++
			return c, nil
		})
	}
	return &fixture{engine: e, store: store, notifier: notifier, clock: clock}
}

func activeCodes(t *testing.T, s *memory.Store, email string, now time.Time) int {
	t.Helper()
	latest, err := s.Codes().FindLatestByEmail(context.Background(), email)
	require.NoError(t, err)
	if latest == nil {
		return 0
	}
	n := 0
	for _, code := range []string{"111111", "222222", "123456"} {
		c, err := s.Codes().FindByEmailAndCode(context.Background(), email, code)
		require.NoError(t, err)
		if c != nil && c.IsValid(now) {
			n++
		}
	}
	return n
}

func TestIssue_PersisteYNotifica(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()

	code, err := f.engine.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "a@x.com", f.notifier.sent[0].To)
	assert.Equal(t, "123456", f.notifier.sent[0].Code)
	assert.Equal(t, time.Minute, f.notifier.sent[0].Expiration)

	verified, err := f.engine.IsVerified(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, verified, "emitido pero no verificado")
}

func TestIssue_ReemplazaCodigoAnterior(t *testing.T) {
	f := newFixture(t, "111111", "222222")
	ctx := context.Background()

	_, err := f.engine.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	_, err = f.engine.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, 1, activeCodes(t, f.store, "a@x.com", f.clock.Now()))

	ok, err := f.engine.Verify(ctx, "a@x.com", "111111")
	require.NoError(t, err)
	assert.False(t, ok, "el primer código quedó invalidado")

	ok, err = f.engine.Verify(ctx, "a@x.com", "222222")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_SoloUnaVez(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()
	_, err := f.engine.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	ok, err := f.engine.Verify(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.engine.Verify(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok, "segundo intento con el mismo código")
}

func TestVerify_CodigoExpirado(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()
	_, err := f.engine.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	f.clock.Advance(time.Minute)

	ok, err := f.engine.Verify(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)

	verified, err := f.engine.IsVerified(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, verified)

	c, err := f.store.Codes().FindByEmailAndCode(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, c.Consumed, "un código expirado no se marca consumido")
}

func TestVerify_EmailIncorrecto(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()
	_, err := f.engine.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	ok, err := f.engine.Verify(ctx, "b@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsVerified_CicloCompleto(t *testing.T) {
	f := newFixture(t, "111111", "222222")
	ctx := context.Background()

	verified, err := f.engine.IsVerified(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, verified, "sin códigos")

	_, err = f.engine.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	ok, err := f.engine.Verify(ctx, "a@x.com", "111111")
	require.NoError(t, err)
	require.True(t, ok)

	verified, err = f.engine.IsVerified(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, verified)

	_, err = f.engine.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	verified, err = f.engine.IsVerified(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, verified, "un código nuevo reinicia el estado")
}

func TestVerify_ConcurrenteUnSoloTrue(t *testing.T) {
	f := newFixture(t, "123456")
	ctx := context.Background()
	_, err := f.engine.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	results := make(chan bool, 16)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := f.engine.Verify(ctx, "a@x.com", "123456")
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestIssue_ConcurrenteMismoEmail_UnCodigoActivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Issue(ctx, "a@x.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	latest, err := f.store.Codes().FindLatestByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, latest)
	n, err := f.store.Codes().DeleteByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "solo queda la fila del último issue")
}

// failingDelete simula un fallo al borrar códigos previos.
type failingDelete struct {
	repository.VerificationCodeRepository
}

func (failingDelete) DeleteByEmail(context.Context, string) (int64, error) {
	return 0, errors.New("delete falló")
}

type failingDeleteTx struct{ inner *memory.TxRunner }

func (r failingDeleteTx) RunVerification(ctx context.Context, fn func(repository.VerificationCodeRepository) error) error {
	return r.inner.RunVerification(ctx, func(codes repository.VerificationCodeRepository) error {
		return fn(failingDelete{codes})
	})
}

func TestIssue_FalloAlBorrarNoEsFatal(t *testing.T) {
	store := memory.NewStore()
	notifier := &captureNotifier{}
	e := verification.NewEngine(store.Codes(), failingDeleteTx{memory.NewTxRunner(store)}, notifier,
		verification.Config{CodeLength: 6, Expiration: time.Minute}, nil)

	code, err := e.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Len(t, notifier.sent, 1)
}

func TestGenerateNumericCode(t *testing.T) {
	for _, n := range []int{1, 6, 12} {
		code, err := verification.GenerateNumericCode(n)
		require.NoError(t, err)
		require.Len(t, code, n)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
	_, err := verification.GenerateNumericCode(0)
	assert.Error(t, err)
}

func TestGenerateNumericCode_TodosLosDigitos(t *testing.T) {
	seen := map[rune]bool{}
	for i := 0; i < 200; i++ {
		code, err := verification.GenerateNumericCode(6)
		require.NoError(t, err)
		for _, r := range code {
			seen[r] = true
		}
	}
	assert.Len(t, seen, 10)
}
