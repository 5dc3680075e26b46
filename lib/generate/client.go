package generate

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"log/slog"

	"github.com/khuang/screenroast/lib/generate/prompts"
	"github.com/khuang/screenroast/models"
	openai "github.com/sashabaranov/go-openai"
)

// Input carries everything the prompt is built from. The same title,
// overview and style go into every per-locale call.
type Input struct {
	Title     string
	MediaType models.MediaType
	Language  models.Language
	Overview  string
	Style     models.AuthorStyle
}

// TextGenerator produces one piece of review prose per call.
type TextGenerator interface {
	// Ready reports whether a credential has been established.
	Ready() bool
	Generate(ctx context.Context, in Input) (string, error)
}

var languageNames = map[models.Language]string{
	models.LangEN: "English",
	models.LangTW: "Traditional Chinese (繁體中文)",
	models.LangCN: "Simplified Chinese (简体中文)",
}

var styleDescriptions = map[models.AuthorStyle]string{
	models.StyleHumorous:    "funny, witty, and lighthearted with a touch of playful irony.",
	models.StyleToxic:       "extremely sarcastic, cynical, 'roast-style' and blunt. Point out every flaw with biting humor.",
	models.StyleSentimental: "emotional, poetic, and deep. Focus on the feelings and themes, slightly nostalgic and moving.",
}

// OpenAI generates review text through the chat-completions API.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAI returns a generation client, or one that reports not-ready when
// the key is empty.
func NewOpenAI(apiKey string, logger *slog.Logger) *OpenAI {
	var client *openai.Client
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return &OpenAI{
		client: client,
		model:  openai.GPT4oMini,
		logger: logger,
	}
}

// NewOpenAIWithClient wires a preconfigured API client. Used by tests to
// point at a fake server.
func NewOpenAIWithClient(client *openai.Client, logger *slog.Logger) *OpenAI {
	return &OpenAI{client: client, model: openai.GPT4oMini, logger: logger}
}

func (o *OpenAI) Ready() bool { return o.client != nil }

func (o *OpenAI) Generate(ctx context.Context, in Input) (string, error) {
	if o.client == nil {
		return "", ErrMissingGenerationKey
	}

	prompt, err := buildPrompt(in)
	if err != nil {
		return "", err
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.9,
		TopP:        0.95,
	})
	if err != nil {
		// The provider reports a revoked or wrong credential with this
		// substring; surface it as a re-auth signal.
		if strings.Contains(strings.ToLower(err.Error()), "entity not found") {
			return "", fmt.Errorf("%w: %v", ErrGenerationAuth, err)
		}
		return "", fmt.Errorf("failed to get completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("generation provider returned an empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildPrompt renders the embedded review template for one locale.
func buildPrompt(in Input) (string, error) {
	content, err := prompts.FS.ReadFile("review.txt")
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file: %w", err)
	}

	tmpl, err := template.New("review").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %w", err)
	}

	typeName := "movie"
	if in.MediaType == models.MediaTV {
		typeName = "TV show"
	}

	var out strings.Builder
	err = tmpl.Execute(&out, struct {
		TypeName         string
		Title            string
		StyleDescription string
		LanguageName     string
		Overview         string
	}{
		TypeName:         typeName,
		Title:            in.Title,
		StyleDescription: styleDescriptions[in.Style],
		LanguageName:     languageNames[in.Language],
		Overview:         in.Overview,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt template: %w", err)
	}
	return out.String(), nil
}
