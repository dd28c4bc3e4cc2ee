package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/salarynorm/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends run summaries to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each run summary to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends the run summary as one Slack message using Block Kit. Non-200
// responses come back as *model.HTTPError carrying any Retry-After hint.
func (s *SlackNotifier) Notify(ctx context.Context, stats model.RunStats) error {
	body, err := json.Marshal(buildPayload(stats))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httpErr := &model.HTTPError{StatusCode: resp.StatusCode}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			httpErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return fmt.Errorf("slack webhook: %w", httpErr)
	}
	s.logger.Info("slack message sent", "run_id", stats.RunID)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Fields   []slackText `json:"fields,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a dummy run summary to verify the integration works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	return n.Notify(ctx, model.RunStats{
		RunID:             "test-run",
		StartedAt:         time.Now(),
		Duration:          1200 * time.Millisecond,
		RawRows:           120,
		CleanRows:         100,
		DroppedDuplicates: 15,
		Filtered:          5,
		Malformed:         2,
		Parsed:            88,
		Unparsed:          12,
	})
}

func buildPayload(stats model.RunStats) slackPayload {
	return slackPayload{Blocks: []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("📊 Salary cleaning run: %d clean rows", stats.CleanRows)},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Raw rows:*\n" + strconv.Itoa(stats.RawRows)},
				{Type: "mrkdwn", Text: "*Clean rows:*\n" + strconv.Itoa(stats.CleanRows)},
				{Type: "mrkdwn", Text: "*Duplicates dropped:*\n" + strconv.Itoa(stats.DroppedDuplicates)},
				{Type: "mrkdwn", Text: "*Filtered:*\n" + strconv.Itoa(stats.Filtered)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Salary parsed:*\n" + parseRate(stats)},
				{Type: "mrkdwn", Text: "*Malformed lines:*\n" + strconv.Itoa(stats.Malformed)},
			},
		},
		{
			Type: "context",
			Elements: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("Run %s · %s · took %s",
					stats.RunID, stats.StartedAt.Format(time.RFC1123), stats.Duration.Round(time.Millisecond))},
			},
		},
		{Type: "divider"},
	}}
}

func formatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
