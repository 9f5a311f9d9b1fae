package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotBaseURL  = "https://api.githubcopilot.com"

	// DefaultModel is the default model used for recommendations.
	DefaultModel = "gpt-4o"

	userAgent = "SchedulePlanner/1.0"
)

// CopilotClient implements the Client interface using GitHub Copilot's API.
type CopilotClient struct {
	openAIChat
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewCopilotClient loads the GitHub token and exchanges it for a Copilot
// bearer token.
func NewCopilotClient(ctx context.Context, model string) (*CopilotClient, error) {
	if model == "" {
		model = DefaultModel
	}

	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	bearer, err := exchangeToken(ctx, httpClient, copilotTokenURL, githubToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}

	client := openai.NewClient(
		option.WithBaseURL(copilotBaseURL),
		option.WithAPIKey(bearer),
		option.WithHeader("Editor-Version", userAgent),
		option.WithHeader("Editor-Plugin-Version", userAgent),
		option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
	)

	return &CopilotClient{openAIChat{client: client, model: model, label: "copilot"}}, nil
}

// exchangeToken trades a GitHub OAuth token for a Copilot bearer token.
func exchangeToken(ctx context.Context, httpClient *http.Client, tokenURL, githubToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+githubToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if tr.Token == "" {
		return "", fmt.Errorf("token exchange returned an empty token")
	}
	return tr.Token, nil
}
