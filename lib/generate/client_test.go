package generate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khuang/screenroast/models"
	openai "github.com/sashabaranov/go-openai"
)

func TestBuildPrompt(t *testing.T) {
	prompt, err := buildPrompt(Input{
		Title:     "The Long Night",
		MediaType: models.MediaTV,
		Language:  models.LangTW,
		Overview:  "A detective returns home.",
		Style:     models.StyleToxic,
	})
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}

	for _, want := range []string{
		`"The Long Night"`,
		"TV show",
		"roast-style",
		"Traditional Chinese",
		"A detective returns home.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "movie \"") {
		t.Fatal("expected the TV type name, not movie")
	}
}

func TestBuildPrompt_MovieTypeName(t *testing.T) {
	prompt, err := buildPrompt(Input{
		Title:     "Dune",
		MediaType: models.MediaMovie,
		Language:  models.LangEN,
		Style:     models.StyleHumorous,
	})
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(prompt, "movie") || !strings.Contains(prompt, "English") {
		t.Fatalf("unexpected prompt:\n%s", prompt)
	}
}

func clientAgainst(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewOpenAIWithClient(openai.NewClientWithConfig(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOpenAI_Generate(t *testing.T) {
	o := clientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"The Good: plenty."}}]}`))
	})

	got, err := o.Generate(context.Background(), Input{
		Title:     "Dune",
		MediaType: models.MediaMovie,
		Language:  models.LangEN,
		Style:     models.StyleHumorous,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "The Good: plenty." {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestOpenAI_Generate_EntityNotFoundSignalsReauth(t *testing.T) {
	o := clientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"Entity Not Found","type":"invalid_request_error"}}`))
	})

	_, err := o.Generate(context.Background(), Input{Title: "Dune", MediaType: models.MediaMovie, Language: models.LangEN})
	if !errors.Is(err, ErrGenerationAuth) {
		t.Fatalf("expected ErrGenerationAuth, got %v", err)
	}
}

func TestOpenAI_Generate_EmptyResponseFails(t *testing.T) {
	o := clientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"   "}}]}`))
	})

	if _, err := o.Generate(context.Background(), Input{Title: "Dune", MediaType: models.MediaMovie, Language: models.LangEN}); err == nil {
		t.Fatal("expected error for blank completion")
	}
}

func TestOpenAI_ReadyRequiresKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if NewOpenAI("", logger).Ready() {
		t.Fatal("expected not ready without a key")
	}
	if !NewOpenAI("sk-test", logger).Ready() {
		t.Fatal("expected ready with a key")
	}

	if _, err := NewOpenAI("", logger).Generate(context.Background(), Input{}); !errors.Is(err, ErrMissingGenerationKey) {
		t.Fatalf("expected ErrMissingGenerationKey, got %v", err)
	}
}
