// Package services holds the application layer between HTTP handlers
// and the persistence store.
package services

import (
	"keepsake-backend/domain/scrapbook"
	"keepsake-backend/infrastructure/persistence/jsonfile"
	"keepsake-backend/pkg/observability"

	"go.uber.org/zap"
)

// Interaction types recorded automatically when sections are edited.
const (
	InteractionMomentAdded     = "moment_added"
	InteractionAdorationAdded  = "adoration_added"
	InteractionStoryUpdated    = "story_updated"
	InteractionSurpriseUpdated = "surprise_updated"
)

// ScrapbookService orchestrates scrapbook mutations: it applies the
// requested change, records the companion visitor interaction, and
// keeps the business metrics current.
type ScrapbookService struct {
	store   *jsonfile.Store
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewScrapbookService creates the service.
func NewScrapbookService(
	store *jsonfile.Store,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ScrapbookService {
	return &ScrapbookService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Document returns a copy of the full scrapbook.
func (s *ScrapbookService) Document() *scrapbook.Document {
	return s.store.Document()
}

// Moments returns the cherished-moments list.
func (s *ScrapbookService) Moments() []scrapbook.Moment {
	return s.store.Document().Sections.Moments.Items
}

// AddMoment appends a moment, defaulting the emoji, and records a
// moment_added interaction.
func (s *ScrapbookService) AddMoment(title, description, emoji string) (scrapbook.Moment, error) {
	if emoji == "" {
		emoji = scrapbook.DefaultEmoji
	}

	moment, err := s.store.AddMoment(title, description, emoji)
	if err != nil {
		s.metrics.SaveFailures.Inc()
		return scrapbook.Moment{}, err
	}
	s.metrics.MomentsAdded.Inc()

	s.recordFollowUp(InteractionMomentAdded, map[string]interface{}{
		"moment_id": moment.ID,
		"title":     moment.Title,
	})
	return moment, nil
}

// AdorationItems returns the adoration list.
func (s *ScrapbookService) AdorationItems() []scrapbook.AdorationItem {
	return s.store.Document().Sections.Adoration.Items
}

// AddAdorationItem appends an adoration item and records an
// adoration_added interaction.
func (s *ScrapbookService) AddAdorationItem(label, description string) (scrapbook.AdorationItem, error) {
	item, err := s.store.AddAdorationItem(label, description)
	if err != nil {
		s.metrics.SaveFailures.Inc()
		return scrapbook.AdorationItem{}, err
	}
	s.metrics.AdorationAdded.Inc()

	s.recordFollowUp(InteractionAdorationAdded, map[string]interface{}{
		"item_id": item.ID,
		"label":   item.Label,
	})
	return item, nil
}

// Story returns the story section.
func (s *ScrapbookService) Story() scrapbook.StorySection {
	return s.store.Document().Sections.Story
}

// UpdateStory overwrites the story content and records a story_updated
// interaction.
func (s *ScrapbookService) UpdateStory(content string) error {
	if err := s.store.UpdateStory(content); err != nil {
		s.metrics.SaveFailures.Inc()
		return err
	}
	s.recordFollowUp(InteractionStoryUpdated, nil)
	return nil
}

// Surprise returns the surprise section. The lock flag is advisory;
// content is always included.
func (s *ScrapbookService) Surprise() scrapbook.SurpriseSection {
	return s.store.Document().Sections.Surprise
}

// UpdateSurprise overwrites the surprise content and records a
// surprise_updated interaction.
func (s *ScrapbookService) UpdateSurprise(content string) error {
	if err := s.store.UpdateSurprise(content); err != nil {
		s.metrics.SaveFailures.Inc()
		return err
	}
	s.recordFollowUp(InteractionSurpriseUpdated, nil)
	return nil
}

// RecordInteraction appends a visitor interaction.
func (s *ScrapbookService) RecordInteraction(interactionType string, data map[string]interface{}) (scrapbook.Interaction, error) {
	interaction, err := s.store.RecordInteraction(interactionType, data)
	if err != nil {
		s.metrics.SaveFailures.Inc()
		return scrapbook.Interaction{}, err
	}
	s.metrics.InteractionsRecorded.Inc()
	return interaction, nil
}

// Analytics computes interaction totals from the visitor log.
func (s *ScrapbookService) Analytics() scrapbook.Analytics {
	return s.store.Document().ComputeAnalytics()
}

// Theme returns the current theme colors.
func (s *ScrapbookService) Theme() map[string]string {
	return s.store.Document().Theme
}

// UpdateTheme shallow-merges the patch into the theme and returns the
// merged result.
func (s *ScrapbookService) UpdateTheme(patch map[string]string) (map[string]string, error) {
	theme, err := s.store.UpdateTheme(patch)
	if err != nil {
		s.metrics.SaveFailures.Inc()
		return nil, err
	}
	return theme, nil
}

// recordFollowUp logs companion interactions best-effort: the primary
// mutation already persisted, so its success is reported even when the
// follow-up record cannot be saved.
func (s *ScrapbookService) recordFollowUp(interactionType string, data map[string]interface{}) {
	if _, err := s.store.RecordInteraction(interactionType, data); err != nil {
		s.metrics.SaveFailures.Inc()
		s.logger.Warn("Failed to record follow-up interaction",
			zap.String("type", interactionType),
			zap.Error(err),
		)
		return
	}
	s.metrics.InteractionsRecorded.Inc()
}
