// Package stacktrack builds wallet balance charts from transaction lists.
package stacktrack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/wombat6/stacktrack/internal/aggregate"
	"github.com/wombat6/stacktrack/internal/logger"
	"github.com/wombat6/stacktrack/internal/settings"
	"github.com/wombat6/stacktrack/internal/txlist"
	"github.com/wombat6/stacktrack/internal/window"
)

// ErrOverviewDisabled is returned when the user turned the overview chart off.
var ErrOverviewDisabled = errors.New("overview chart disabled")

// Config holds the Service dependencies. Nil or empty fields pick defaults.
type Config struct {
	Clock       clock.Clock
	Location    *time.Location
	DefaultSpan string
	MarkFuture  bool
	Settings    settings.Store
}

// Service resolves spans and aggregates transaction lists into charts.
type Service struct {
	clock       clock.Clock
	loc         *time.Location
	defaultSpan string
	markFuture  bool
	settings    settings.Store
}

// Chart is a titled, aggregated series ready for rendering.
type Chart struct {
	Title   string
	Span    string
	Wallets []string
	Series  aggregate.Series
}

// NewService creates a Service.
func NewService(cfg Config) *Service {
	s := &Service{
		clock:       cfg.Clock,
		loc:         cfg.Location,
		defaultSpan: cfg.DefaultSpan,
		markFuture:  cfg.MarkFuture,
		settings:    cfg.Settings,
	}
	if s.clock == nil {
		s.clock = clock.NewDefaultClock()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.defaultSpan == "" {
		s.defaultSpan = window.Span1Y
	}
	if s.settings == nil {
		s.settings = settings.NewMemoryStore()
	}
	return s
}

// WalletChart charts a single wallet. An empty span uses the default span.
func (s *Service) WalletChart(ctx context.Context, w txlist.Wallet, span string) (Chart, error) {
	return s.build(ctx, w.Name+" Balance", []txlist.Wallet{w}, span)
}

// OverviewChart charts the combined transactions of all wallets. It fails
// with ErrOverviewDisabled unless user enabled the overview chart.
func (s *Service) OverviewChart(ctx context.Context, user string, wallets []txlist.Wallet, span string) (Chart, error) {
	show, err := settings.ShowOverviewChart(s.settings, user)
	if err != nil {
		return Chart{}, fmt.Errorf("reading settings: %w", err)
	}
	if !show {
		log := logger.FromContext(ctx)
		log.Warn().Str("user", user).Msg("overview chart disabled")
		return Chart{}, ErrOverviewDisabled
	}
	return s.build(ctx, "Balance", wallets, span)
}

// AssociatedWallet returns the transaction list user charts by default, or ""
// when none is set.
func (s *Service) AssociatedWallet(user string) (string, error) {
	return s.settings.Get(user, settings.KeyWallet)
}

// SetAssociatedWallet stores the default transaction list for user.
func (s *Service) SetAssociatedWallet(user, wallet string) error {
	return s.settings.Set(user, settings.KeyWallet, wallet)
}

func (s *Service) build(ctx context.Context, title string, wallets []txlist.Wallet, span string) (Chart, error) {
	if span == "" {
		span = s.defaultSpan
	}

	txs := txlist.Merge(wallets)
	now := s.clock.Now().In(s.loc)

	w, err := window.Resolve(span, now, txs)
	if err != nil {
		return Chart{}, err
	}

	var opts aggregate.Options
	if s.markFuture {
		opts.Now = now
	}
	series, err := aggregate.Aggregate(txs, w, opts)
	if err != nil {
		return Chart{}, fmt.Errorf("aggregating %s: %w", title, err)
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Str("span", span).
		Stringer("window", w).
		Int("transactions", len(txs)).
		Int("buckets", len(series.Rows)).
		Int64("prior_sats", int64(series.Prior)).
		Msg("chart built")

	names := make([]string, len(wallets))
	for i, wl := range wallets {
		names[i] = wl.Name
	}
	return Chart{Title: title, Span: span, Wallets: names, Series: series}, nil
}
