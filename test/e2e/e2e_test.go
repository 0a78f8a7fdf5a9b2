// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/database"
	"crm-ai-gateway/internal/common/logger"
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/server"
	"crm-ai-gateway/internal/skills"
	"crm-ai-gateway/pkg/registry"
)

const communicationStrategyReply = `Here is the plan:
{"strategy":"Quarterly reviews anchored on store performance","keyMessages":["Growth"],
"channels":[{"channel":"video","frequency":"quarterly","purpose":"Business review"}],
"tone":"consultative","culturalConsiderations":[],"nextSteps":["Book the first review"]}`

// upstream fakes the text-generation service. It answers the
// communication-strategy prompt with JSON and refuses everything else.
type upstream struct {
	srv   *httptest.Server
	calls atomic.Int32
	last  atomic.Value
}

func newUpstream(t *testing.T, key string) *upstream {
	u := &upstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+key {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
			return
		}

		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		u.last.Store(req)

		text := "I cannot comply."
		if p, _ := req["prompt"].(string); strings.Contains(p, "communication strategy") {
			text = communicationStrategyReply
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": text})
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func configYAML(baseURL, apiKey, redisAddr string) string {
	redis := "enabled: false"
	if redisAddr != "" {
		redis = fmt.Sprintf("enabled: true\n  address: %s\n  fallback_key: ai:fallbacks", redisAddr)
	}
	return fmt.Sprintf(`
app:
  name: crm-ai-gateway-e2e
  version: 9.9.9
genai:
  provider: http
  base_url: %s
  api_key: %q
  model: test-model
  timeout: 2000
  max_retries: 0
redis:
  %s
skills:
  follow-up-email:
    enabled: false
  lead-score:
    temperature: 0.1
logging:
  level: error
`, baseURL, apiKey, redis)
}

// startGateway wires the service the same way cmd/gateway does.
func startGateway(t *testing.T, cfgPath string) *httptest.Server {
	t.Helper()
	cfg, err := config.LoadFromFile(cfgPath)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	ctx := context.Background()

	var ready func(context.Context) error
	var overrides map[string]json.RawMessage
	if cfg.Redis.Enabled {
		rc := database.NewRedis(cfg.Redis)
		t.Cleanup(func() { _ = rc.Close() })
		require.NoError(t, rc.Ping(ctx))
		overrides, err = gateway.LoadFallbackOverrides(ctx, rc, cfg.Redis.FallbackKey, log)
		require.NoError(t, err)
		ready = rc.Ping
	}

	model := llm.New(ctx, cfg.GenAI, log)
	endpoints, err := skills.Endpoints(&gateway.Runtime{
		Model:             model,
		Logger:            log,
		DefaultTimeout:    config.GetDuration(cfg.GenAI.Timeout),
		Skills:            cfg.Skills,
		FallbackOverrides: overrides,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(server.New(server.Options{
		Config:    cfg.Server,
		Version:   cfg.App.Version,
		Provider:  model.Provider(),
		Live:      model.Configured(),
		Endpoints: endpoints,
		Logger:    log,
		Ready:     ready,
	}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// ==========================
// Scenarios
// ==========================

func TestE2E_LiveModelResult(t *testing.T) {
	up := newUpstream(t, "secret")
	gw := startGateway(t, writeConfig(t, configYAML(up.srv.URL, "secret", "")))

	status, body := postJSON(t, gw.URL+"/api/ai/clients/communication-strategy",
		`{"clientData":{"name":"Acme","industry":"retail"},"dataHash":"snap-1"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["usingFallback"])
	assert.Equal(t, "Quarterly reviews anchored on store performance", body["strategy"])
	assert.Equal(t, "snap-1", body["dataHash"])

	sent := up.last.Load().(map[string]interface{})
	assert.Equal(t, "test-model", sent["model"])
	assert.Equal(t, float64(2048), sent["max_tokens"])
	assert.Contains(t, sent["prompt"], "- Name: Acme")
}

func TestE2E_RefusalServesFallback(t *testing.T) {
	up := newUpstream(t, "secret")
	gw := startGateway(t, writeConfig(t, configYAML(up.srv.URL, "secret", "")))

	status, body := postJSON(t, gw.URL+"/api/ai/sales/target-analysis", `{"target":{"period":"Q3"}}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["usingFallback"])
	assert.NotContains(t, body, "error")
	assert.Equal(t, "at-risk", body["status"])
}

func TestE2E_RejectedCredential(t *testing.T) {
	up := newUpstream(t, "secret")
	gw := startGateway(t, writeConfig(t, configYAML(up.srv.URL, "wrong", "")))

	status, body := postJSON(t, gw.URL+"/api/ai/leads/lead-score", `{"leadData":{"name":"Jo"}}`)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "api_key", body["errorType"])
	assert.Equal(t, true, body["usingFallback"])
	assert.Equal(t, "C", body["grade"])
}

func TestE2E_NoCredentialNeverCallsUpstream(t *testing.T) {
	up := newUpstream(t, "secret")
	gw := startGateway(t, writeConfig(t, configYAML(up.srv.URL, "", "")))

	status, body := postJSON(t, gw.URL+"/api/ai/clients/communication-strategy", `{"clientData":{"name":"Acme"}}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["usingFallback"])
	assert.Equal(t, int32(0), up.calls.Load())
}

func TestE2E_DisabledSkill(t *testing.T) {
	up := newUpstream(t, "secret")
	gw := startGateway(t, writeConfig(t, configYAML(up.srv.URL, "secret", "")))

	status, body := postJSON(t, gw.URL+"/api/ai/leads/follow-up-email", `{}`)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "generic", body["errorType"])
}

func TestE2E_EveryEnabledSkillAnswers(t *testing.T) {
	up := newUpstream(t, "secret")
	gw := startGateway(t, writeConfig(t, configYAML(up.srv.URL, "secret", "")))

	resp, err := http.Get(gw.URL + "/api/ai/skills")
	require.NoError(t, err)
	defer resp.Body.Close()
	var reg registry.SkillRegistry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reg))
	require.Len(t, reg.Skills, skills.Count())
	assert.Equal(t, "9.9.9", reg.Version)

	leadScore, ok := reg.Find("lead-score")
	require.True(t, ok)
	assert.Equal(t, 0.1, leadScore.Temperature)

	for _, s := range reg.Skills {
		if !s.Enabled {
			continue
		}
		status, body := postJSON(t, gw.URL+s.Route, `{}`)
		assert.Equal(t, http.StatusOK, status, s.Name)
		assert.Contains(t, body, "usingFallback", s.Name)
	}
}

func TestE2E_FallbackOverrideFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.HSet("ai:fallbacks", "target-analysis",
		`{"status":"on-track","summary":"Operator summary","gapAnalysis":"n/a","actions":[],"forecast":"steady"}`)
	mr.HSet("ai:fallbacks", "lead-score", `{"unknownField":true}`)

	up := newUpstream(t, "secret")
	gw := startGateway(t, writeConfig(t, configYAML(up.srv.URL, "secret", mr.Addr())))

	_, body := postJSON(t, gw.URL+"/api/ai/sales/target-analysis", `{}`)
	assert.Equal(t, true, body["usingFallback"])
	assert.Equal(t, "Operator summary", body["summary"])

	_, body = postJSON(t, gw.URL+"/api/ai/leads/lead-score", `{}`)
	assert.Equal(t, "C", body["grade"], "invalid override must be ignored")

	resp, err := http.Get(gw.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
