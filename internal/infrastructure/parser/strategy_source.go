package parser

import (
	"context"
	"fmt"
	"log/slog"

	"PaperSummarizer/internal/config"
	"PaperSummarizer/internal/domain"
	"PaperSummarizer/internal/ports"
	"PaperSummarizer/internal/scanner"
)

// StrategySource implements ListingSource via registered scanner
// strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.ListingSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// ListRecent iterates over configured sites and executes their scanners.
// The overall limit bounds the aggregated result, not each site.
func (s *StrategySource) ListRecent(ctx context.Context, limit int) ([]domain.PaperListing, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("list recent", "sites", len(s.sites), "limit", limit)

	var aggregated []domain.PaperListing
	for _, site := range s.sites {
		if limit > 0 && len(aggregated) >= limit {
			break
		}

		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		siteLimit := site.Limit
		if limit > 0 && (siteLimit <= 0 || siteLimit > limit-len(aggregated)) {
			siteLimit = limit - len(aggregated)
		}

		req := scanner.Request{
			SiteName: site.Name,
			Category: site.Category,
			BaseURL:  site.URL,
			Limit:    siteLimit,
			Options:  site.Options,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
		}

		s.debug("site produced listings", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_listings", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
