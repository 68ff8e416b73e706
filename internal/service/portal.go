package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"portal/internal/config"
	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/repositories"
	"portal/internal/domain/services"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	portalCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_cache_hits_total",
		Help: "Portal lookups served from the in-memory cache",
	})
	portalCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_cache_misses_total",
		Help: "Portal lookups that went to the database",
	})
)

type portalService struct {
	portalRepo repositories.PortalRepository
	cache      *expirable.LRU[string, *models.Portal]
	logger     *slog.Logger
}

// NewPortalService creates a portal lookup service.
// cacheSize <= 0 disables caching; every lookup then reads the database.
func NewPortalService(
	portalRepo repositories.PortalRepository,
	cacheSize int,
	ttl time.Duration,
	logger *slog.Logger,
) services.PortalService {
	s := &portalService{
		portalRepo: portalRepo,
		logger:     logger,
	}
	if cacheSize > 0 {
		s.cache = expirable.NewLRU[string, *models.Portal](cacheSize, nil, ttl)
	}
	return s
}

// GetPortalInfo returns the active portal with the given name
func (s *portalService) GetPortalInfo(ctx context.Context, name string) (*models.Portal, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: portal name is required", domain.ErrValidation)
	}
	if len(name) > config.MaxPortalNameLength {
		return nil, fmt.Errorf("%w: portal name too long", domain.ErrValidation)
	}

	if s.cache != nil {
		if portal, ok := s.cache.Get(name); ok {
			portalCacheHitsTotal.Inc()
			return portal, nil
		}
		portalCacheMissesTotal.Inc()
	}

	portal, err := s.portalRepo.GetActiveByName(ctx, name)
	if err != nil {
		return nil, err
	}

	// Misses are not cached so a newly activated portal shows up immediately
	if s.cache != nil {
		s.cache.Add(name, portal)
	}

	s.logger.Debug("portal loaded", "name", name, "portal_id", portal.ID)
	return portal, nil
}
