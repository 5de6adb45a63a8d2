package service

import (
	"context"
	"fmt"

	"pagebuilder/internal/api"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/logger"
)

// PageStore loads and saves a page's composition. Each call is one
// request against the backend.
type PageStore interface {
	Load(ctx context.Context, pageID string) (domain.PageContent, error)
	Save(ctx context.Context, pageID string, c domain.Composition) error
}

// PageService is the PageStore backed by the REST API.
type PageService struct {
	client *api.Client
	log    *logger.Logger
}

func NewPageService(client *api.Client, log *logger.Logger) *PageService {
	if log == nil {
		log = logger.Nop()
	}
	return &PageService{client: client, log: log}
}

// Load fetches the raw page. The markup fields come along untouched.
func (s *PageService) Load(ctx context.Context, pageID string) (domain.PageContent, error) {
	content, err := s.client.GetRawPage(ctx, pageID)
	if err != nil {
		return domain.PageContent{}, fmt.Errorf("load page %s: %w", pageID, err)
	}
	if err := content.Components.Validate(); err != nil {
		return domain.PageContent{}, fmt.Errorf("load page %s: %w", pageID, err)
	}
	s.log.Debug("page loaded", "page_id", pageID, "blocks", len(content.Components))
	return content, nil
}

// Save replaces the stored composition. There is no retry and no conflict
// check; the last writer wins.
func (s *PageService) Save(ctx context.Context, pageID string, c domain.Composition) error {
	resp, err := s.client.SaveComponents(ctx, pageID, c)
	if err != nil {
		return fmt.Errorf("save page %s: %w", pageID, err)
	}
	if resp.Malformed {
		s.log.Warn("save answered with a non-JSON body, assuming success", "page_id", pageID)
	}
	s.log.Info("page saved", "page_id", pageID, "blocks", len(c))
	return nil
}
