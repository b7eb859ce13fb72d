package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civreg/internal/platform/config"
	"civreg/internal/registration/models"
)

// fakeProvider serves the embeddings and chat completion endpoints.
func fakeProvider(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/embeddings":
			var req struct {
				Input []string `json:"input"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			resp := openai.EmbeddingResponse{Object: "list"}
			for i := range req.Input {
				resp.Data = append(resp.Data, openai.Embedding{Object: "embedding", Index: i, Embedding: []float32{1, float32(i)}})
			}
			_ = json.NewEncoder(w).Encode(resp)
		case "/chat/completions":
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{{
					Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: answer},
				}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, providerURL string) config.Config {
	t.Helper()
	dir := t.TempDir()
	source := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(source, []byte("death:\n  required_documents:\n    - National ID\n"), 0o600))

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Knowledge.SourcePath = source
	cfg.Knowledge.IndexPath = filepath.Join(dir, "index.json")
	cfg.Knowledge.EmbeddingAPIKey = "test-key"
	cfg.Knowledge.EmbeddingBaseURL = providerURL
	cfg.Reasoning.APIKey = "test-key"
	cfg.Reasoning.BaseURL = providerURL
	cfg.Certificate.OutputDir = filepath.Join(dir, "certificates")
	cfg.Registration.DocumentsDir = filepath.Join(dir, "documents")
	return cfg
}

func TestBuildRunsAgainstMemoryStore(t *testing.T) {
	ctx := context.Background()
	srv := fakeProvider(t, "approved")
	cfg := testConfig(t, srv.URL)

	a, err := Build(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.Nil(t, a.Producer)
	assert.Empty(t, a.HealthChecks())
	assert.FileExists(t, cfg.Knowledge.IndexPath)

	initial, err := models.NewCaseRecord(uuid.New(), models.Submission{
		NationalID:    "1234567890",
		FullName:      "Abebe Kebede",
		DateOfDeath:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		InformantName: "Almaz Kebede",
	})
	require.NoError(t, err)

	final, err := a.Pipeline.Run(ctx, initial)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, final.Status)
	assert.NotZero(t, final.RecordID)
	assert.Equal(t, "DC-0001", final.CertificateNumber)
	assert.FileExists(t, final.CertificatePath)

	events, err := a.Audit.List(ctx, initial.CaseID.String())
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}

func TestBuildRequiresProviderKeys(t *testing.T) {
	srv := fakeProvider(t, "approved")
	cfg := testConfig(t, srv.URL)
	cfg.Reasoning.APIKey = ""

	_, err := Build(context.Background(), cfg, nil, WithRegisterer(prometheus.NewRegistry()))
	require.Error(t, err)
}

func TestBuildKafkaRequiresDatabase(t *testing.T) {
	srv := fakeProvider(t, "approved")
	cfg := testConfig(t, srv.URL)
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	_, err := Build(context.Background(), cfg, nil, WithRegisterer(prometheus.NewRegistry()))
	require.Error(t, err)
}
