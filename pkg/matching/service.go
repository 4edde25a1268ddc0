package matching

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"golang.org/x/sync/errgroup"

	"github.com/Oikion/mvp-sub017/pkg/criteria"
	"github.com/Oikion/mvp-sub017/pkg/events"
	"github.com/Oikion/mvp-sub017/pkg/metrics"
	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/normalizers"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
)

// Ranking sources used in metrics
const (
	SourceInline   = "inline"
	SourceClient   = "client"
	SourceProperty = "property"
)

// ClientStore loads stored clients of one organization
type ClientStore interface {
	Get(ctx context.Context, tenantID, id string) (*models.Client, error)
	ListActive(ctx context.Context, tenantID string) ([]models.Client, error)
}

// PropertyStore loads stored properties of one organization
type PropertyStore interface {
	Get(ctx context.Context, tenantID, id string) (*models.Property, error)
	ListActive(ctx context.Context, tenantID string, locations ...string) ([]models.Property, error)
}

// PreferenceCache memoises note extraction
type PreferenceCache interface {
	Get(ctx context.Context, text string) ([]models.ExtractedPreference, bool, error)
	Set(ctx context.Context, text string, prefs []models.ExtractedPreference) error
}

// EventPublisher announces finished rankings
type EventPublisher interface {
	PublishMatchesRanked(ctx context.Context, event *events.MatchesRankedEvent) error
}

// Service runs matching for the API. Loading, caching and event publishing happen here so
// the Engine stays pure. cache and publisher are optional.
type Service struct {
	log        ectologger.Logger
	engine     *Engine
	clients    ClientStore
	properties PropertyStore
	cache      PreferenceCache
	publisher  EventPublisher
}

// NewService creates a new matching service
func NewService(
	log ectologger.Logger,
	engine *Engine,
	clients ClientStore,
	properties PropertyStore,
	cache PreferenceCache,
	publisher EventPublisher,
) *Service {
	return &Service{
		log:        log,
		engine:     engine,
		clients:    clients,
		properties: properties,
		cache:      cache,
		publisher:  publisher,
	}
}

// Engine returns the ranking engine
func (s *Service) Engine() *Engine {
	return s.engine
}

// ExtractPreferences extracts preferences from text, going through the cache when one is
// configured. Cache failures are logged and never fail extraction.
func (s *Service) ExtractPreferences(ctx context.Context, text string) []models.ExtractedPreference {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.ExtractPreferences")
	defer span.End()

	log := s.log.WithContext(ctx)

	if s.cache != nil {
		prefs, ok, err := s.cache.Get(ctx, text)
		switch {
		case err != nil:
			metrics.RecordCacheLookup(metrics.CacheError)
			log.WithError(err).Warn("Preference cache lookup failed")
		case ok:
			metrics.RecordCacheLookup(metrics.CacheHit)
			return prefs
		default:
			metrics.RecordCacheLookup(metrics.CacheMiss)
		}
	}

	prefs := s.engine.Scorer().Extractor().Extract(text)
	for _, p := range prefs {
		metrics.RecordPreference(string(p.Type), string(p.Importance))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, text, prefs); err != nil {
			log.WithError(err).Warn("Failed to cache preferences")
		}
	}

	return prefs
}

// Profile normalizes a profile, extracting its notes through the cache
func (s *Service) Profile(ctx context.Context, p models.RequirementProfile) normalizers.NormalizedProfile {
	var extracted []models.ExtractedPreference
	if p.HasNotes() {
		extracted = s.ExtractPreferences(ctx, *p.Notes)
	}
	return normalizers.NormalizeProfile(p, p.MergePreferences(extracted))
}

// ScoreOne scores a single caller supplied pair
func (s *Service) ScoreOne(ctx context.Context, profile models.RequirementProfile, listing models.CandidateListing) models.MatchResult {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.ScoreOne")
	defer span.End()

	return s.engine.Scorer().Score(s.Profile(ctx, profile), normalizers.NormalizeListing(listing))
}

// RankInline ranks caller supplied profiles and listings
func (s *Service) RankInline(ctx context.Context, profiles []models.RequirementProfile, listings []models.CandidateListing, req RankRequest) ([]models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.RankInline")
	defer span.End()

	if err := s.engine.Validate(req); err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := s.rank(ctx, profiles, listings, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordRanking(SourceInline, len(profiles)*len(listings), scores(results), time.Since(start).Seconds())

	return results, nil
}

// MatchesForClient ranks the organization's active properties for one stored client.
// filters are extra listing conditions in criteria syntax, e.g. {"floor": {"$gte": 1}}.
func (s *Service) MatchesForClient(ctx context.Context, tenantID, clientID string, req RankRequest, filters map[string]any) ([]models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.MatchesForClient")
	defer span.End()

	log := s.log.WithContext(ctx).WithFields(map[string]any{
		"tenant_id": tenantID,
		"client_id": clientID,
	})

	if err := s.engine.Validate(req); err != nil {
		return nil, err
	}

	start := time.Now()

	var (
		client     *models.Client
		properties []models.Property
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		client, err = s.clients.Get(gctx, tenantID, clientID)
		return err
	})
	g.Go(func() error {
		var err error
		properties, err = s.properties.ListActive(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("Failed to load client matching data")
		return nil, err
	}

	listings := make([]models.CandidateListing, 0, len(properties))
	for _, p := range properties {
		listing := p.ToListing()
		if len(filters) > 0 && !criteria.MatchesCriteria(FilterFields(listing), filters) {
			continue
		}
		listings = append(listings, listing)
	}

	results, err := s.rank(ctx, []models.RequirementProfile{client.ToProfile()}, listings, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordRanking(SourceClient, len(listings), scores(results), time.Since(start).Seconds())

	log.WithFields(map[string]any{
		"candidates": len(listings),
		"results":    len(results),
	}).Info("Ranked properties for client")

	s.publish(ctx, events.NewMatchesRankedEvent(tenantID, events.SubjectClient, clientID, req.Threshold, req.Limit, results))
	return results, nil
}

// MatchesForProperty ranks the organization's active clients for one stored property
func (s *Service) MatchesForProperty(ctx context.Context, tenantID, propertyID string, req RankRequest) ([]models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.MatchesForProperty")
	defer span.End()

	log := s.log.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":   tenantID,
		"property_id": propertyID,
	})

	if err := s.engine.Validate(req); err != nil {
		return nil, err
	}

	start := time.Now()

	var (
		property *models.Property
		clients  []models.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		property, err = s.properties.Get(gctx, tenantID, propertyID)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.clients.ListActive(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("Failed to load property matching data")
		return nil, err
	}

	profiles := make([]models.RequirementProfile, len(clients))
	for i, c := range clients {
		profiles[i] = c.ToProfile()
	}

	results, err := s.rank(ctx, profiles, []models.CandidateListing{property.ToListing()}, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordRanking(SourceProperty, len(profiles), scores(results), time.Since(start).Seconds())

	log.WithFields(map[string]any{
		"candidates": len(profiles),
		"results":    len(results),
	}).Info("Ranked clients for property")

	s.publish(ctx, events.NewMatchesRankedEvent(tenantID, events.SubjectProperty, propertyID, req.Threshold, req.Limit, results))
	return results, nil
}

func (s *Service) rank(ctx context.Context, profiles []models.RequirementProfile, listings []models.CandidateListing, req RankRequest) ([]models.MatchResult, error) {
	normalizedProfiles := make([]normalizers.NormalizedProfile, len(profiles))
	for i, p := range profiles {
		normalizedProfiles[i] = s.Profile(ctx, p)
	}
	normalizedListings := make([]normalizers.NormalizedListing, len(listings))
	for i, l := range listings {
		normalizedListings[i] = normalizers.NormalizeListing(l)
	}
	return s.engine.Rank(normalizedProfiles, normalizedListings, req)
}

// publish sends the ranking event. Failures are logged only.
func (s *Service) publish(ctx context.Context, event *events.MatchesRankedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMatchesRanked(ctx, event); err != nil {
		s.log.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"subject_type": event.SubjectType,
			"subject_id":   event.SubjectID,
		}).Warn("Failed to publish matches ranked event")
	}
}

// FilterFields exposes a listing to filter conditions: the explicit fields at the top level,
// with the raw amenities and attributes nested under their own keys.
func FilterFields(l models.CandidateListing) map[string]any {
	fields := map[string]any{
		"amenities":  l.Amenities,
		"attributes": l.Attributes,
	}
	if l.Price != nil {
		fields["price"] = *l.Price
	}
	if l.Location != nil {
		fields["location"] = *l.Location
	}
	if l.Bedrooms != nil {
		fields["bedrooms"] = *l.Bedrooms
	}
	if l.Bathrooms != nil {
		fields["bathrooms"] = *l.Bathrooms
	}
	if l.PropertyType != nil {
		fields["property_type"] = *l.PropertyType
	}
	if l.Floor != nil {
		fields["floor"] = *l.Floor
	}
	if l.Elevator != nil {
		fields["elevator"] = *l.Elevator
	}
	if l.Condition != nil {
		fields["condition"] = *l.Condition
	}
	return fields
}

func scores(results []models.MatchResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.OverallScore
	}
	return out
}
