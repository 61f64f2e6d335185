package inventory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type LedgerDeps struct {
	Log     *zap.Logger
	Metrics *LedgerMetrics
	// Now defaults to time.Now.
	Now func() time.Time
	// Locale orders product names. Defaults to English.
	Locale language.Tag
}

// ledger is the load-mutate-save plumbing shared by Products and Rentals.
type ledger struct {
	store   Store
	log     *zap.Logger
	metrics *LedgerMetrics
	now     func() time.Time
	locale  language.Tag
}

func newLedger(store Store, deps LedgerDeps) ledger {
	l := ledger{
		store:   store,
		log:     deps.Log,
		metrics: deps.Metrics,
		now:     deps.Now,
		locale:  deps.Locale,
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.locale == language.Und {
		l.locale = language.English
	}
	return l
}

func (l *ledger) load(ctx context.Context, op string) (Dataset, error) {
	d, err := l.store.Load(ctx)
	if err != nil {
		l.log.Error("load inventory failed", zap.String("operation", op), zap.Error(err))
		return Dataset{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	d.normalize()
	return d, nil
}

func (l *ledger) save(ctx context.Context, op string, d *Dataset) error {
	if err := l.store.Save(ctx, *d); err != nil {
		l.log.Error("save inventory failed", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	l.metrics.snapshot(d)
	return nil
}

func (l *ledger) done(op string, err error) error {
	l.metrics.observe(op, err)
	return err
}
