package mail

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/jhoicas/cuentas-api/internal/application/ports"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/pkg/logger"
)

var _ ports.Notifier = (*Dispatcher)(nil)

// DispatcherConfig tamaño de cola, workers y timeout por envío.
type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher cola acotada de correos atendida por un grupo fijo de workers.
// Dispatch nunca bloquea: con la cola llena el correo se descarta y se registra.
type Dispatcher struct {
	sender  Sender
	metrics *Metrics
	log     *logger.Logger
	timeout time.Duration

	queue chan Message
	wg    conc.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher arranca los workers. metrics puede ser nil.
func NewDispatcher(sender Sender, cfg DispatcherConfig, metrics *Metrics, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	d := &Dispatcher{
		sender:  sender,
		metrics: metrics,
		log:     log.Named("mail"),
		timeout: cfg.SendTimeout,
		queue:   make(chan Message, cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Go(d.work)
	}
	return d
}

// Dispatch encola el correo de verificación.
func (d *Dispatcher) Dispatch(_ context.Context, n ports.Notification) {
	msg, err := VerificationMessage(n.To, n.Code, n.Expiration)
	if err != nil {
		d.fail(n.To, ResultFailed, err)
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.fail(n.To, ResultDropped, nil)
		return
	}
	select {
	case d.queue <- msg:
	default:
		d.fail(n.To, ResultDropped, nil)
	}
}

func (d *Dispatcher) work() {
	for msg := range d.queue {
		d.send(msg)
	}
}

func (d *Dispatcher) send(msg Message) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		d.fail(msg.To, ResultFailed, err)
		return
	}
	d.metrics.inc(ResultSent)
	d.log.Debug().Str("to", logger.MaskEmail(msg.To)).Msg("correo enviado")
}

func (d *Dispatcher) fail(to, result string, err error) {
	d.metrics.inc(result)
	ev := d.log.Error().Str("to", logger.MaskEmail(to)).Str("result", result)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(domain.ErrDelivery.Error())
}

// Close deja de aceptar correos y espera a que la cola se vacíe o venza ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		if r := d.wg.WaitAndRecover(); r != nil {
			d.log.Error().Err(r.AsError()).Msg("worker de correo terminó con panic")
		}
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
