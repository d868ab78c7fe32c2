package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/finboard/internal/cache"
	"github.com/rshade/finboard/internal/logging"
	"github.com/rshade/finboard/internal/upstream"
)

// snapshotConcurrency bounds the sections fetched at once.
const snapshotConcurrency = 4

// Snapshot section names.
const (
	SectionOverview   = "overview"
	SectionSummary    = "autotrader_summary"
	SectionStocks     = "stocks"
	SectionCryptos    = "cryptos"
	SectionAutotrader = "autotrader_positions"
	SectionManual     = "manual_positions"
)

// ErrSnapshotUnavailable is returned when no snapshot section could be loaded.
var ErrSnapshotUnavailable = errors.New("no dashboard section could be loaded")

// Snapshot is one read of every dashboard panel. Sections that failed are
// left zero and listed in Errors.
type Snapshot struct {
	TakenAt             time.Time                   `json:"taken_at"`
	Overview            *upstream.PortfolioOverview `json:"overview,omitempty"`
	Summary             *upstream.AutotraderSummary `json:"autotrader_summary,omitempty"`
	Stocks              []upstream.Stock            `json:"stocks,omitempty"`
	Cryptos             []upstream.Crypto           `json:"cryptos,omitempty"`
	AutotraderPositions []upstream.Position         `json:"autotrader_positions,omitempty"`
	ManualPositions     []upstream.Position         `json:"manual_positions,omitempty"`
	Errors              map[string]string           `json:"errors,omitempty"`
	Cache               cache.Stats                 `json:"cache"`
}

// Snapshot loads every panel concurrently through the cache. A failing
// section does not cancel the others; the call fails only when every
// section failed.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	log := logging.FromContext(ctx)
	snap := &Snapshot{TakenAt: time.Now()}

	var mu sync.Mutex
	var errs []error
	record := func(section string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if snap.Errors == nil {
			snap.Errors = make(map[string]string)
		}
		snap.Errors[section] = err.Error()
		errs = append(errs, err)
	}

	sections := map[string]func(context.Context) error{
		SectionOverview: func(ctx context.Context) error {
			v, err := s.PortfolioOverview(ctx)
			if err == nil {
				snap.Overview = &v
			}
			return err
		},
		SectionSummary: func(ctx context.Context) error {
			v, err := s.AutotraderSummary(ctx)
			if err == nil {
				snap.Summary = &v
			}
			return err
		},
		SectionStocks: func(ctx context.Context) (err error) {
			snap.Stocks, err = s.Stocks(ctx, true)
			return err
		},
		SectionCryptos: func(ctx context.Context) (err error) {
			snap.Cryptos, err = s.Cryptos(ctx, true)
			return err
		},
		SectionAutotrader: func(ctx context.Context) (err error) {
			snap.AutotraderPositions, err = s.AutotraderPositions(ctx, "")
			return err
		},
		SectionManual: func(ctx context.Context) (err error) {
			snap.ManualPositions, err = s.ManualPositions(ctx)
			return err
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotConcurrency)

	for name, load := range sections {
		g.Go(func() error {
			if err := load(gCtx); err != nil {
				log.Warn().Ctx(ctx).Str("section", name).Err(err).Msg("dashboard section failed")
				record(name, err)
			}
			// Never fail the group; one section must not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	snap.Cache = s.Store().Stats()

	if len(errs) == len(sections) {
		return snap, errors.Join(append([]error{ErrSnapshotUnavailable}, errs...)...)
	}
	return snap, nil
}
