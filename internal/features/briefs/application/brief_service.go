package application

import (
	"context"
	"fmt"
	"time"

	"specforge/internal/features/briefs/domain"
	"specforge/internal/features/briefs/infrastructure"
	configdomain "specforge/internal/features/config/domain"
	"specforge/internal/logging"
)

// BriefService defines the interface for the brief application service.
type BriefService interface {
	ListBriefs(ctx context.Context) ([]domain.Brief, error)
	GetBrief(ctx context.Context, id uint) (*domain.Brief, error)
	CreateBrief(ctx context.Context, req *domain.CreateBriefRequest, settings *configdomain.AppConfig) (*domain.Brief, error)
	DeleteBrief(ctx context.Context, id uint) error
}

// briefService is the implementation of BriefService.
type briefService struct {
	aiClient infrastructure.AIClient
	repo     infrastructure.BriefRepository
	cache    infrastructure.BriefListCache
	now      func() time.Time
}

// NewBriefService creates a new instance of briefService. A nil cache disables caching.
func NewBriefService(aiClient infrastructure.AIClient, repo infrastructure.BriefRepository, cache infrastructure.BriefListCache) BriefService {
	if cache == nil {
		cache = infrastructure.NoopBriefListCache{}
	}
	return &briefService{
		aiClient: aiClient,
		repo:     repo,
		cache:    cache,
		now:      time.Now,
	}
}

// ListBriefs returns every brief newest first, served from the cache when warm.
func (s *briefService) ListBriefs(ctx context.Context) ([]domain.Brief, error) {
	logger := logging.FromContext(ctx)

	cached, gen, ok, cacheErr := s.cache.Get(ctx)
	if cacheErr != nil {
		logger.Warnf("list_briefs", "cache read failed: %v", cacheErr)
	} else if ok {
		return cached, nil
	}

	briefs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	// stored under the pre-read generation; a write since then has moved readers on
	if cacheErr == nil {
		if err := s.cache.Set(ctx, gen, briefs); err != nil {
			logger.Warnf("list_briefs", "cache write failed: %v", err)
		}
	}
	return briefs, nil
}

func (s *briefService) GetBrief(ctx context.Context, id uint) (*domain.Brief, error) {
	return s.repo.Get(ctx, id)
}

// CreateBrief asks the model for a spec and stores the brief. Nothing is
// persisted when generation or decoding fails.
func (s *briefService) CreateBrief(ctx context.Context, req *domain.CreateBriefRequest, settings *configdomain.AppConfig) (*domain.Brief, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = configdomain.DefaultAppConfig()
	}
	logger := logging.FromContext(ctx)

	messages := []infrastructure.Message{
		{Role: infrastructure.RoleSystem, Content: settings.SystemPrompt},
		{Role: infrastructure.RoleUser, Content: buildUserPrompt(req, settings.ItemsPerSection)},
	}
	opts := infrastructure.CompletionOptions{
		Model:       settings.ModelParams.Model,
		Temperature: float32(settings.ModelParams.Temperature),
		MaxTokens:   settings.ModelParams.MaxTokens,
		JSONMode:    true,
	}

	start := s.now()
	resp, err := s.aiClient.Complete(ctx, messages, opts)
	if err != nil {
		logger.Errorf("create_brief", "generation failed for %q: %v", req.AppName, err)
		return nil, fmt.Errorf("failed to generate spec: %w", err)
	}
	logger.Infof("create_brief", "model=%s prompt_tokens=%d completion_tokens=%d took=%s",
		resp.Model, resp.PromptTokens, resp.CompletionTokens, s.now().Sub(start))

	spec, err := domain.DecodeGeneratedSpec(resp.Content)
	if err != nil {
		logger.Errorf("create_brief", "undecodable model output for %q: %v", req.AppName, err)
		return nil, err
	}

	brief := &domain.Brief{
		AppName:       req.AppName,
		Description:   req.Description,
		TargetUsers:   req.TargetUsers,
		ExtraContext:  req.ExtraContext,
		GeneratedSpec: spec,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.Create(ctx, brief); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create_brief")
	return brief, nil
}

func (s *briefService) DeleteBrief(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete_brief")
	return nil
}

func (s *briefService) invalidate(ctx context.Context, operation string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warnf(operation, "cache invalidation failed: %v", err)
	}
}
