package application

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specforge/internal/features/briefs/domain"
	"specforge/internal/features/briefs/infrastructure"
	configdomain "specforge/internal/features/config/domain"
)

type fakeAIClient struct {
	content string
	err     error
	calls   int
	last    []infrastructure.Message
	opts    infrastructure.CompletionOptions
}

func (f *fakeAIClient) Complete(_ context.Context, messages []infrastructure.Message, opts infrastructure.CompletionOptions) (*infrastructure.AIResponse, error) {
	f.calls++
	f.last = messages
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &infrastructure.AIResponse{Content: f.content, Model: opts.Model}, nil
}

func (f *fakeAIClient) Close() error { return nil }

const taskFlowSpec = `{
  "summary": "TaskFlow keeps remote teams shipping.",
  "mvp_features": [{"feature": "Boards", "description": "Kanban boards", "priority": "Must Have"}],
  "risks": [{"risk": "Scope creep", "severity": "Medium", "mitigation": "Weekly triage"}],
  "success_metrics": ["100 teams onboarded"]
}`

type testEnv struct {
	service BriefService
	ai      *fakeAIClient
	repo    infrastructure.BriefRepository
	cache   infrastructure.BriefListCache
	mr      *miniredis.Miniredis
}

func setupService(t *testing.T) *testEnv {
	t.Helper()
	db, err := infrastructure.OpenDatabase(infrastructure.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "briefs.db")})
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ai := &fakeAIClient{content: taskFlowSpec}
	repo := infrastructure.NewBriefRepository(db)
	cache := infrastructure.NewRedisBriefListCache(client, time.Minute)
	return &testEnv{
		service: NewBriefService(ai, repo, cache),
		ai:      ai,
		repo:    repo,
		cache:   cache,
		mr:      mr,
	}
}

func taskFlowRequest() *domain.CreateBriefRequest {
	return &domain.CreateBriefRequest{
		AppName:     "TaskFlow",
		Description: "A kanban-style project management tool for remote teams",
		TargetUsers: "Remote software teams of 5-50 people",
	}
}

func TestBriefService_CreateBrief(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	brief, err := env.service.CreateBrief(ctx, taskFlowRequest(), nil)
	require.NoError(t, err)
	assert.NotZero(t, brief.ID)
	assert.Equal(t, "TaskFlow", brief.AppName)
	assert.Equal(t, "TaskFlow keeps remote teams shipping.", brief.GeneratedSpec.Summary)
	require.Len(t, brief.GeneratedSpec.MVPFeatures, 1)
	assert.Equal(t, domain.PriorityMustHave, brief.GeneratedSpec.MVPFeatures[0].Priority)
	assert.False(t, brief.CreatedAt.IsZero())

	require.Equal(t, 1, env.ai.calls)
	require.Len(t, env.ai.last, 2)
	assert.Equal(t, infrastructure.RoleSystem, env.ai.last[0].Role)
	assert.Equal(t, configdomain.DefaultSystemPrompt, env.ai.last[0].Content)
	assert.Contains(t, env.ai.last[1].Content, "App Name: TaskFlow")
	assert.Contains(t, env.ai.last[1].Content, "Extra Context: None provided")
	assert.True(t, env.ai.opts.JSONMode)
	assert.Equal(t, configdomain.DefaultModel, env.ai.opts.Model)

	stored, err := env.repo.Get(ctx, brief.ID)
	require.NoError(t, err)
	assert.Equal(t, brief.GeneratedSpec, stored.GeneratedSpec)
}

func TestBriefService_CreateBriefUsesSettings(t *testing.T) {
	env := setupService(t)
	settings := &configdomain.AppConfig{
		SystemPrompt:    "custom system",
		ItemsPerSection: configdomain.ItemRange{Min: 3, Max: 3},
		ModelParams:     configdomain.ModelParams{Model: "gpt-4o", Temperature: 0.2, MaxTokens: 900},
	}
	req := taskFlowRequest()
	req.ExtraContext = "Must integrate with Slack"

	_, err := env.service.CreateBrief(context.Background(), req, settings)
	require.NoError(t, err)

	assert.Equal(t, "custom system", env.ai.last[0].Content)
	assert.Contains(t, env.ai.last[1].Content, "Extra Context: Must integrate with Slack")
	assert.Contains(t, env.ai.last[1].Content, "Generate 3 items per array section.")
	assert.Equal(t, "gpt-4o", env.ai.opts.Model)
	assert.InDelta(t, 0.2, env.ai.opts.Temperature, 0.0001)
	assert.Equal(t, 900, env.ai.opts.MaxTokens)
}

func TestBriefService_CreateBriefMissingFieldSkipsModel(t *testing.T) {
	env := setupService(t)
	req := taskFlowRequest()
	req.TargetUsers = ""

	_, err := env.service.CreateBrief(context.Background(), req, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingField))
	assert.Equal(t, 0, env.ai.calls)
}

func TestBriefService_FailedGenerationPersistsNothing(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		env := setupService(t)
		env.ai.err = errors.New("rate limited upstream")

		_, err := env.service.CreateBrief(context.Background(), taskFlowRequest(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited upstream")

		briefs, err := env.repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, briefs)
	})

	t.Run("invalid json", func(t *testing.T) {
		env := setupService(t)
		env.ai.content = "Here is your spec:"

		_, err := env.service.CreateBrief(context.Background(), taskFlowRequest(), nil)
		assert.True(t, errors.Is(err, domain.ErrInvalidSpec))

		briefs, err := env.repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, briefs)
	})
}

func TestBriefService_CreateBriefAcceptsLooselyTypedOutput(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	env.ai.content = `{"summary":"ok","milestones":[{"phase":"Alpha","duration":4,"deliverables":["Boards"]}],` +
		`"api_endpoints":[{"method":"GET","path":"/boards","auth_required":"yes"}]}`

	brief, err := env.service.CreateBrief(ctx, taskFlowRequest(), nil)
	require.NoError(t, err)
	require.Len(t, brief.GeneratedSpec.Milestones, 1)
	assert.Equal(t, "4", brief.GeneratedSpec.Milestones[0].Duration)
	require.Len(t, brief.GeneratedSpec.APIEndpoints, 1)
	assert.True(t, brief.GeneratedSpec.APIEndpoints[0].AuthRequired)

	briefs, err := env.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, briefs, 1)
	assert.Equal(t, brief.GeneratedSpec, briefs[0].GeneratedSpec)
}

func TestBriefService_ListUsesAndInvalidatesCache(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	first, err := env.service.CreateBrief(ctx, taskFlowRequest(), nil)
	require.NoError(t, err)

	briefs, err := env.service.ListBriefs(ctx)
	require.NoError(t, err)
	require.Len(t, briefs, 1)
	assert.True(t, env.mr.Exists("specforge:briefs:list:1"))

	req := taskFlowRequest()
	req.AppName = "MealMate"
	second, err := env.service.CreateBrief(ctx, req, nil)
	require.NoError(t, err)
	assert.False(t, env.mr.Exists("specforge:briefs:list:1"), "create must invalidate the list cache")
	gen, err := env.mr.Get("specforge:briefs:gen")
	require.NoError(t, err)
	assert.Equal(t, "2", gen)

	briefs, err = env.service.ListBriefs(ctx)
	require.NoError(t, err)
	require.Len(t, briefs, 2)
	assert.Equal(t, second.ID, briefs[0].ID, "newest first")

	require.NoError(t, env.service.DeleteBrief(ctx, first.ID))
	assert.False(t, env.mr.Exists("specforge:briefs:list:2"), "delete must invalidate the list cache")

	briefs, err = env.service.ListBriefs(ctx)
	require.NoError(t, err)
	require.Len(t, briefs, 1)
	assert.Equal(t, "MealMate", briefs[0].AppName)
}

// stallingRepo parks the first List after it has read the database, until
// release is closed.
type stallingRepo struct {
	infrastructure.BriefRepository
	once    sync.Once
	listed  chan struct{}
	release chan struct{}
}

func (r *stallingRepo) List(ctx context.Context) ([]domain.Brief, error) {
	briefs, err := r.BriefRepository.List(ctx)
	r.once.Do(func() {
		close(r.listed)
		<-r.release
	})
	return briefs, err
}

func TestBriefService_ListDoesNotCacheSnapshotOlderThanWrite(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	repo := &stallingRepo{
		BriefRepository: env.repo,
		listed:          make(chan struct{}),
		release:         make(chan struct{}),
	}
	service := NewBriefService(env.ai, repo, env.cache)

	done := make(chan []domain.Brief, 1)
	go func() {
		briefs, err := service.ListBriefs(ctx)
		assert.NoError(t, err)
		done <- briefs
	}()

	<-repo.listed
	created, err := service.CreateBrief(ctx, taskFlowRequest(), nil)
	require.NoError(t, err)
	close(repo.release)
	assert.Empty(t, <-done, "the stalled list read the database before the create")

	briefs, err := service.ListBriefs(ctx)
	require.NoError(t, err)
	require.Len(t, briefs, 1)
	assert.Equal(t, created.ID, briefs[0].ID)
}

func TestBriefService_ListSurvivesCacheOutage(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	_, err := env.service.CreateBrief(ctx, taskFlowRequest(), nil)
	require.NoError(t, err)

	env.mr.SetError("server down")
	briefs, err := env.service.ListBriefs(ctx)
	require.NoError(t, err)
	assert.Len(t, briefs, 1)
}

func TestBriefService_DeleteTwice(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	brief, err := env.service.CreateBrief(ctx, taskFlowRequest(), nil)
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteBrief(ctx, brief.ID))
	err = env.service.DeleteBrief(ctx, brief.ID)
	assert.True(t, errors.Is(err, domain.ErrBriefNotFound))
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt(taskFlowRequest(), configdomain.ItemRange{Min: 4, Max: 6})
	assert.True(t, strings.HasPrefix(prompt, "Generate a comprehensive engineering spec"))
	assert.Contains(t, prompt, "Target Users: Remote software teams of 5-50 people")
	assert.Contains(t, prompt, `"priority": "Must Have | Should Have | Nice to Have"`)
	assert.True(t, strings.HasSuffix(prompt, "Generate 4-6 items per array section. Be thorough but realistic."))
}
