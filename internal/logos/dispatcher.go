package logos

import (
	"context"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/metrics"
)

const defaultDispatchTimeout = 30 * time.Second

// Dispatcher hands uploads to the notifier without blocking the caller.
// Delivery failures are logged and counted, never returned.
type Dispatcher struct {
	notifier Notifier
	logg     *logger.Logger
	metrics  *metrics.NotificationMetrics
	timeout  time.Duration
	wg       sync.WaitGroup
}

type DispatcherParams struct {
	Notifier Notifier
	Logger   *logger.Logger
	Metrics  *metrics.NotificationMetrics
	Timeout  time.Duration
}

func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logo notifier required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Timeout <= 0 {
		params.Timeout = defaultDispatchTimeout
	}
	return &Dispatcher{
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
		timeout:  params.Timeout,
	}, nil
}

// Dispatch validates the upload and starts delivery in the background. The
// delivery outlives the request context.
func (d *Dispatcher) Dispatch(ctx context.Context, upload Upload) error {
	if strings.TrimSpace(upload.FileName) == "" || len(upload.Content) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "No logo file provided")
	}

	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(detached, upload)
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, upload Upload) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	channel := d.notifier.Channel()
	start := time.Now()
	err := d.notifier.Notify(ctx, upload)
	d.metrics.ObserveDuration(channel, time.Since(start))

	ctx = d.logg.WithFields(ctx, map[string]any{
		"channel":  channel,
		"order_id": upload.OrderID,
	})
	if err != nil {
		d.metrics.IncFailed(channel)
		d.logg.Error(ctx, "logo.notification_failed", err)
		return
	}
	d.metrics.IncSent(channel)
	d.logg.Info(ctx, "logo.notification_sent")
}
