package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specforge/internal/config"
	"specforge/internal/features/briefs/application"
	"specforge/internal/features/briefs/domain"
	"specforge/internal/features/briefs/infrastructure"
	configapp "specforge/internal/features/config/application"
)

type stubAIClient struct {
	content string
	err     error
	calls   int
}

func (s *stubAIClient) Complete(_ context.Context, _ []infrastructure.Message, _ infrastructure.CompletionOptions) (*infrastructure.AIResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &infrastructure.AIResponse{Content: s.content}, nil
}

func (s *stubAIClient) Close() error { return nil }

func setupRouter(t *testing.T) (*gin.Engine, *stubAIClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := infrastructure.OpenDatabase(infrastructure.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "briefs.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ai := &stubAIClient{content: `{"summary":"MealMate plans your week.","success_metrics":["1k weekly planners"]}`}
	briefService := application.NewBriefService(ai, infrastructure.NewBriefRepository(db), nil)
	configService := configapp.NewConfigService(config.NewAppConfigService(filepath.Join(t.TempDir(), "app_config.json")))

	router := gin.New()
	NewBriefHandler(briefService, configService).RegisterRoutes(router.Group("/api/briefs"))
	return router, ai
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp["error"]
}

const mealMateBody = `{"app_name":"MealMate","description":"AI-powered meal planning app","target_users":"Busy professionals"}`

func TestCreateBrief(t *testing.T) {
	router, ai := setupRouter(t)

	rr := doRequest(router, http.MethodPost, "/api/briefs", mealMateBody)
	require.Equal(t, http.StatusCreated, rr.Code)

	var brief domain.Brief
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &brief))
	assert.NotZero(t, brief.ID)
	assert.Equal(t, "MealMate", brief.AppName)
	assert.Equal(t, "", brief.ExtraContext)
	assert.Equal(t, "MealMate plans your week.", brief.GeneratedSpec.Summary)
	assert.Equal(t, 1, ai.calls)
}

func TestCreateBriefMissingField(t *testing.T) {
	router, ai := setupRouter(t)

	cases := map[string]struct {
		body  string
		field string
	}{
		"no app name":     {`{"description":"d","target_users":"u"}`, "app_name"},
		"no description":  {`{"app_name":"a","target_users":"u"}`, "description"},
		"blank users":     {`{"app_name":"a","description":"d","target_users":"   "}`, "target_users"},
		"empty json body": {`{}`, "app_name"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr := doRequest(router, http.MethodPost, "/api/briefs", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "Missing required field: "+tc.field, decodeError(t, rr))
		})
	}
	assert.Equal(t, 0, ai.calls)
}

func TestCreateBriefMalformedBody(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodPost, "/api/briefs", `{"app_name":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NotEmpty(t, decodeError(t, rr))
}

func TestCreateBriefGenerationFailure(t *testing.T) {
	router, ai := setupRouter(t)
	ai.err = errors.New("invalid api key")

	rr := doRequest(router, http.MethodPost, "/api/briefs", mealMateBody)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, decodeError(t, rr), "invalid api key")

	rr = doRequest(router, http.MethodGet, "/api/briefs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListBriefsNewestFirst(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodGet, "/api/briefs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	require.Equal(t, http.StatusCreated, doRequest(router, http.MethodPost, "/api/briefs", mealMateBody).Code)
	second := `{"app_name":"PitchPerfect","description":"Practice pitches","target_users":"Founders"}`
	require.Equal(t, http.StatusCreated, doRequest(router, http.MethodPost, "/api/briefs", second).Code)

	rr = doRequest(router, http.MethodGet, "/api/briefs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var briefs []domain.Brief
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &briefs))
	require.Len(t, briefs, 2)
	assert.Equal(t, "PitchPerfect", briefs[0].AppName)
	assert.Equal(t, "MealMate", briefs[1].AppName)
}

func TestGetBrief(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodPost, "/api/briefs", mealMateBody)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created domain.Brief
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = doRequest(router, http.MethodGet, "/api/briefs/"+jsonID(created.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.Brief
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.GeneratedSpec, got.GeneratedSpec)

	for _, path := range []string{"/api/briefs/999", "/api/briefs/abc", "/api/briefs/0"} {
		rr = doRequest(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.Equal(t, "Brief not found", decodeError(t, rr))
	}
}

func TestDeleteBrief(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodPost, "/api/briefs", mealMateBody)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created domain.Brief
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	path := "/api/briefs/" + jsonID(created.ID)

	rr = doRequest(router, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Brief deleted successfully"}`, rr.Body.String())

	rr = doRequest(router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Brief not found", decodeError(t, rr))

	rr = doRequest(router, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
