package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sendTimeout = 15 * time.Second

type Worker struct {
	ID         int
	WorkerPool chan chan Email
	JobChannel chan Email
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Email, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Email),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Email)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker sending email", "worker_id", w.ID, "to", job.To)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Dispatcher fans queued emails out to a worker pool. Delivery is best
// effort: a full queue drops the message with a warning, a failed send is
// logged and not retried.
type Dispatcher struct {
	mailer Mailer
	logger *slog.Logger

	jobQueue   chan Email
	workerPool chan chan Email
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type DispatcherConfig struct {
	MaxWorkers int
	QueueSize  int
}

func NewDispatcher(cfg DispatcherConfig, mailer Mailer, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	d := &Dispatcher{
		mailer:     mailer,
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan Email, queueSize),
		workerPool: make(chan chan Email, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.start()
	return d
}

func (d *Dispatcher) start() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.deliver)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					return
				}
			case <-d.ctx.Done():
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("notification dispatcher shutting down")
			return
		}
	}
}

// Enqueue never blocks the caller; a saturated queue loses the email.
func (d *Dispatcher) Enqueue(email Email) {
	select {
	case d.jobQueue <- email:
		d.logger.Debug("email queued", "to", email.To, "subject", email.Subject)
	default:
		d.logger.Warn("notification queue full, dropping email", "to", email.To, "subject", email.Subject)
	}
}

func (d *Dispatcher) deliver(email Email) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.mailer.Send(ctx, email); err != nil {
		d.logger.Error("email delivery failed", "to", email.To, "subject", email.Subject, "error", err)
	}
}

func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
}
