package allocation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/hierarch/internal/modules/universe"
	"github.com/aristath/hierarch/pkg/hrp"
)

// Defaults are applied to run requests that omit the corresponding field.
type Defaults struct {
	Linkage      string
	LookbackDays int
}

// Service runs HRP allocations and persists run records
type Service struct {
	allocator  *hrp.Allocator
	repo       *Repository
	securities *universe.SecurityRepository
	history    *universe.HistoryDB
	defaults   Defaults
	log        zerolog.Logger
}

// NewService creates a new allocation service
func NewService(
	allocator *hrp.Allocator,
	repo *Repository,
	securities *universe.SecurityRepository,
	history *universe.HistoryDB,
	defaults Defaults,
	log zerolog.Logger,
) *Service {
	if defaults.Linkage == "" {
		defaults.Linkage = string(hrp.LinkageSingle)
	}
	if defaults.LookbackDays <= 0 {
		defaults.LookbackDays = 252
	}

	return &Service{
		allocator:  allocator,
		repo:       repo,
		securities: securities,
		history:    history,
		defaults:   defaults,
		log:        log.With().Str("service", "allocation").Logger(),
	}
}

// Run executes one allocation and persists the result.
func (s *Service) Run(req RunRequest) (*Run, error) {
	hrpReq, err := s.buildRequest(req)
	if err != nil {
		return nil, err
	}

	result, err := s.allocator.Allocate(hrpReq)
	if err != nil {
		return nil, fmt.Errorf("allocation failed: %w", err)
	}

	for _, warning := range result.Warnings {
		s.log.Warn().Str("warning", warning).Msg("Allocation degeneracy")
	}

	run := &Run{
		ID:            uuid.NewString(),
		Linkage:       string(result.Linkage),
		Assets:        hrpReq.Assets,
		Weights:       result.Weights,
		Order:         result.Order,
		OrderedAssets: result.OrderedAssets,
		Merges:        result.Merges,
		Warnings:      result.Warnings,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Save(run); err != nil {
		return nil, fmt.Errorf("failed to persist allocation run: %w", err)
	}

	s.log.Info().
		Str("run_id", run.ID).
		Str("linkage", run.Linkage).
		Int("assets", len(run.Assets)).
		Msg("Allocation run completed")

	return run, nil
}

// GetRun returns one persisted run by id
func (s *Service) GetRun(id string) (*Run, error) {
	return s.repo.GetByID(id)
}

// LatestRun returns the most recent persisted run
func (s *Service) LatestRun() (*Run, error) {
	return s.repo.Latest()
}

// ListRuns returns recent runs, newest first
func (s *Service) ListRuns(limit int) ([]*Run, error) {
	return s.repo.List(limit)
}

// DendrogramForRun returns the plotting payload for one run
func (s *Service) DendrogramForRun(id string) (*Dendrogram, error) {
	run, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	return &Dendrogram{
		RunID:   run.ID,
		Labels:  run.OrderedAssets,
		Merges:  run.Merges,
		Linkage: run.Linkage,
	}, nil
}

// buildRequest turns a RunRequest into an hrp.Request, loading prices from
// the universe store when the request names symbols instead of supplying
// matrices. An empty request allocates over all active securities.
func (s *Service) buildRequest(req RunRequest) (hrp.Request, error) {
	linkage := req.Linkage
	if linkage == "" {
		linkage = s.defaults.Linkage
	}

	if len(req.Assets) > 0 {
		return hrp.Request{
			Assets:      req.Assets,
			Prices:      req.Prices,
			Returns:     req.Returns,
			Covariance:  req.Covariance,
			Distance:    req.Distance,
			SideWeights: req.SideWeights,
			Linkage:     hrp.Linkage(linkage),
		}, nil
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		var err error
		symbols, err = s.securities.GetActiveSymbols()
		if err != nil {
			return hrp.Request{}, fmt.Errorf("failed to load active securities: %w", err)
		}
		if len(symbols) == 0 {
			return hrp.Request{}, fmt.Errorf("no active securities in universe")
		}
	}

	lookback := req.LookbackDays
	if lookback <= 0 {
		lookback = s.defaults.LookbackDays
	}

	prices, err := s.history.ClosesForSymbols(symbols, lookback)
	if err != nil {
		return hrp.Request{}, fmt.Errorf("failed to load price history: %w", err)
	}

	return hrp.Request{
		Assets:      symbols,
		Prices:      prices,
		SideWeights: req.SideWeights,
		Linkage:     hrp.Linkage(linkage),
	}, nil
}
