package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-agent-api/internal/application/generation"
	"content-agent-api/internal/config"
	"content-agent-api/internal/infrastructure/llm"
	"content-agent-api/internal/interfaces/http/handler"
	"content-agent-api/internal/interfaces/http/router"
)

const handlerPlanJSON = `{
	"kind": "plan",
	"sourceReadiness": {
		"sourcesProvided": false,
		"canReliablyUseSources": true,
		"messageToUser": "model claims everything is fine",
		"missingSourceText": []
	},
	"whatIGot": {
		"topicUnderstanding": "t",
		"audienceUnderstanding": "a",
		"ctaUnderstanding": "c",
		"toneUnderstanding": "tone",
		"platformUnderstanding": "p",
		"formatUnderstanding": "f"
	},
	"editorialOptions": [
		{"optionId": "A", "label": "l", "editorialAngle": "e", "tone": "t", "focus": "f", "howSourcesAreUsed": "h", "expectedReaction": "r", "ctaSuggestion": "cta"}
	]
}`

const handlerContentJSON = `{
	"kind": "content",
	"title": "Generated title",
	"copy": "Generated copy",
	"hashtags": ["one", "two", "three", "four", "five", "six"],
	"cta": "Do the thing",
	"designElements": {
		"headline": "Short headline",
		"subheadline": "Sub",
		"layout": "single image",
		"visualConcept": "clean"
	}
}`

// fakeGateway 固定返回同一结果的网关桩
type fakeGateway struct {
	calls   int
	output  string
	err     error
	lastReq *llm.CompletionRequest
}

func (f *fakeGateway) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{OutputText: f.output, Model: "gpt-4o-mini"}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "content-agent-api"
	cfg.App.Env = "test"
	cfg.LLM.APIKey = "sk-test"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.Generation.DefaultPlatform = "instagram"
	cfg.Generation.DefaultFormat = "feed"
	cfg.Generation.DefaultCharacteristic = "educational"
	cfg.Generation.ReadableTextMinChars = 60
	cfg.Generation.PlanMaxOutputTokens = 650
	cfg.Generation.ContentMaxOutputTokens = 900
	cfg.Security.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, gateway llm.CompletionClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := generation.NewService(gateway, &cfg.Generation, nil)
	generationHandler := handler.NewGenerationHandler(svc, cfg)
	healthHandler := handler.NewHealthHandler(cfg, nil, nil)

	return router.New(cfg, generationHandler, healthHandler, nil).Engine()
}

func postGenerate(t *testing.T, engine *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGenerateMethodNotAllowed(t *testing.T) {
	engine := newTestServer(t, testConfig(), &fakeGateway{})

	req := httptest.NewRequest(http.MethodGet, "/api/generate", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["error"])
	assert.NotEmpty(t, body["traceId"])
	assert.NotContains(t, body, "code")
}

func TestGenerateMissingTopic(t *testing.T) {
	gateway := &fakeGateway{output: handlerContentJSON}
	engine := newTestServer(t, testConfig(), gateway)

	for _, payload := range []string{`{}`, `{"topic":"   "}`, `not even json`} {
		w := postGenerate(t, engine, payload, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %q", payload)
		body := decodeBody(t, w)
		assert.Equal(t, "topic is required", body["error"])
		assert.NotContains(t, body, "code")
	}
	assert.Equal(t, 0, gateway.calls)
}

func TestGenerateMissingCredential(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.APIKey = ""
	gateway := &fakeGateway{output: handlerContentJSON}
	engine := newTestServer(t, cfg, gateway)

	w := postGenerate(t, engine, `{"topic":"t","selectedOptionId":"A"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "OPENAI_API_KEY")
	assert.NotEmpty(t, body["detail"])
	assert.Equal(t, 0, gateway.calls)
}

func TestGenerateInvalidPhase(t *testing.T) {
	engine := newTestServer(t, testConfig(), &fakeGateway{})

	w := postGenerate(t, engine, `{"topic":"t","phase":"review"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "invalid_phase", body["code"])
}

func TestGenerateDefaultsToGeneratePhase(t *testing.T) {
	gateway := &fakeGateway{output: handlerContentJSON}
	engine := newTestServer(t, testConfig(), gateway)

	w := postGenerate(t, engine, `{"topic":"t","selectedOptionId":"A"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "content", body["kind"])
	assert.Equal(t, 1, gateway.calls)
}

// 平台等缺省值由编排服务统一补齐，HTTP 层直接透传请求体字段
func TestGenerateAppliesDefaultsThroughService(t *testing.T) {
	gateway := &fakeGateway{output: handlerContentJSON}
	engine := newTestServer(t, testConfig(), gateway)

	w := postGenerate(t, engine, `{"topic":"t","selectedOptionId":"A"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gateway.lastReq)
	assert.Contains(t, gateway.lastReq.User, "instagram")
	assert.Contains(t, gateway.lastReq.User, "feed")
	assert.Contains(t, gateway.lastReq.User, "educational")
}

func TestGenerateSourcesNeedPaste(t *testing.T) {
	gateway := &fakeGateway{output: handlerContentJSON}
	engine := newTestServer(t, testConfig(), gateway)

	w := postGenerate(t, engine,
		`{"topic":"t","selectedOptionId":"A","sources":["https://example.com/article"]}`, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "sources_need_paste", body["code"])
	assert.NotEmpty(t, body["detail"])
	assert.Equal(t, 0, gateway.calls)
}

func TestGenerateMissingDirection(t *testing.T) {
	gateway := &fakeGateway{output: handlerContentJSON}
	engine := newTestServer(t, testConfig(), gateway)

	w := postGenerate(t, engine, `{"topic":"t"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "missing_direction", body["code"])
	assert.Equal(t, 0, gateway.calls)
}

func TestPlanEndToEndOverlay(t *testing.T) {
	gateway := &fakeGateway{output: handlerPlanJSON}
	engine := newTestServer(t, testConfig(), gateway)

	w := postGenerate(t, engine,
		`{"phase":"plan","topic":"Bitcoin ETF approval","sources":["https://example.com/article"]}`,
		map[string]string{"x-vercel-id": "vercel-trace-1"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "vercel-trace-1", body["traceId"])

	readiness, ok := body["sourceReadiness"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, readiness["sourcesProvided"])
	assert.Equal(t, false, readiness["canReliablyUseSources"])

	missing, ok := readiness["missingSourceText"].([]any)
	require.True(t, ok)
	require.Len(t, missing, 1)
	entry := missing[0].(map[string]any)
	assert.Equal(t, float64(1), entry["sourceId"])
}

func TestPlanUpstreamInvalidJSON(t *testing.T) {
	gateway := &fakeGateway{output: "not json"}
	engine := newTestServer(t, testConfig(), gateway)

	w := postGenerate(t, engine, `{"phase":"plan","topic":"t"}`, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "invalid JSON")
	assert.NotEmpty(t, body["detail"])
}

func TestGenerateProviderErrorMapping(t *testing.T) {
	newProviderErr := func(status int, code, message string) *openai.Error {
		req, _ := http.NewRequest(http.MethodPost, "https://api.openai.com/v1/chat/completions", nil)
		return &openai.Error{
			StatusCode: status,
			Code:       code,
			Message:    message,
			Request:    req,
			Response:   &http.Response{StatusCode: status},
		}
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "quota exhausted",
			err:        newProviderErr(429, "insufficient_quota", "You exceeded your current quota"),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "insufficient_quota",
		},
		{
			name:       "rate limited",
			err:        newProviderErr(429, "rate_limit_exceeded", "Rate limit reached"),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "rate_limited",
		},
		{
			name:       "server error",
			err:        newProviderErr(503, "", "The engine is currently overloaded"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "temporary_error",
		},
		{
			name:       "unknown error",
			err:        newProviderErr(401, "invalid_api_key", "Incorrect API key provided"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "unknown_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestServer(t, testConfig(), &fakeGateway{err: tt.err})

			w := postGenerate(t, engine, `{"topic":"t","selectedOptionId":"A"}`, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["detail"])
			assert.NotEmpty(t, body["traceId"])
		})
	}
}

func TestTraceIDDerivation(t *testing.T) {
	gateway := &fakeGateway{output: handlerContentJSON}
	engine := newTestServer(t, testConfig(), gateway)

	t.Run("x-request-id fallback", func(t *testing.T) {
		w := postGenerate(t, engine, `{"topic":"t","selectedOptionId":"A"}`,
			map[string]string{"x-request-id": "req-42"})

		body := decodeBody(t, w)
		assert.Equal(t, "req-42", body["traceId"])
		assert.Equal(t, "req-42", w.Header().Get("X-Trace-ID"))
	})

	t.Run("x-vercel-id wins", func(t *testing.T) {
		w := postGenerate(t, engine, `{"topic":"t","selectedOptionId":"A"}`,
			map[string]string{"x-request-id": "req-42", "x-vercel-id": "vercel-7"})

		body := decodeBody(t, w)
		assert.Equal(t, "vercel-7", body["traceId"])
	})

	t.Run("local fallback", func(t *testing.T) {
		w := postGenerate(t, engine, `{"topic":"t","selectedOptionId":"A"}`, nil)

		body := decodeBody(t, w)
		assert.True(t, strings.HasPrefix(body["traceId"].(string), "local_"))
	})
}

func TestHealthEndpoints(t *testing.T) {
	engine := newTestServer(t, testConfig(), &fakeGateway{})

	for _, path := range []string{"/health", "/live"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	t.Run("ready with credential", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ready without credential", func(t *testing.T) {
		cfg := testConfig()
		cfg.LLM.APIKey = ""
		e := newTestServer(t, cfg, &fakeGateway{})

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
