package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostRiskAlert posts a high-denial-risk prediction to the risk channel.
// Returns the message timestamp.
func (p *Poster) PostRiskAlert(ctx context.Context, predictionID string, out predictor.PredictionOutput) (string, error) {
	text := formatRiskAlert(predictionID, out)

	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted risk alert to slack", "ts", slackResp.TS, "claim_id", out.ClaimID)
	return slackResp.TS, nil
}

func formatRiskAlert(predictionID string, out predictor.PredictionOutput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, ":warning: *High denial risk* on claim `%s` (org %s)\n", out.ClaimID, out.OrgID)
	fmt.Fprintf(&sb, "*Outlook:* %d%% full | %d%% partial | %d%% deny (confidence %d)\n",
		out.Full, out.Partial, out.Deny, out.ConfidenceScore)
	if out.NextMove != "" {
		fmt.Fprintf(&sb, "*Next move:* %s\n", out.NextMove)
	}

	if len(out.RiskFlags) > 0 {
		sb.WriteString("\n*Risk flags:*\n")
		for _, f := range out.RiskFlags {
			fmt.Fprintf(&sb, "• %s\n", f)
		}
	}

	if predictionID != "" {
		fmt.Fprintf(&sb, "\n_Prediction %s_", predictionID)
	}
	return sb.String()
}
