package alumnietl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// Notifier reports the result of a pipeline run.
type Notifier interface {
	Notify(context.Context, *Result) error
}

// SlackNotifier posts run results to a Slack channel.
type SlackNotifier struct {
	Channel   string
	IconEmoji string
	Username  string
	Token     string

	// HTTPClient is the client to post with. http.DefaultClient when nil.
	HTTPClient *http.Client
}

type slackMessage struct {
	Channel   string `json:"channel"`
	IconEmoji string `json:"icon_emoji,omitempty"`
	Text      string `json:"text"`
	Username  string `json:"username,omitempty"`
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Notify posts a one-line run summary to the Slack channel, with one
// extra line per failed table.
func (n *SlackNotifier) Notify(ctx context.Context, r *Result) error {
	m := &slackMessage{
		Channel:   n.Channel,
		IconEmoji: n.IconEmoji,
		Text:      resultText(ctx, r),
		Username:  n.Username,
	}

	if err := n.postMessage(ctx, m); err != nil {
		return xerrors.Errorf("slack postMessage failed: %w", err)
	}

	return nil
}

func resultText(ctx context.Context, r *Result) string {
	var b strings.Builder

	switch r.Status {
	case StatusAborted:
		fmt.Fprintf(&b, "alumni ETL run aborted: %s", r.Err)
	case StatusPartial:
		fmt.Fprintf(&b, "alumni ETL run completed with load failures (%d records extracted)", r.Extracted)
	default:
		fmt.Fprintf(&b, "alumni ETL run succeeded (%d records extracted)", r.Extracted)
	}

	for _, t := range r.Failed() {
		fmt.Fprintf(&b, "\n%s: %s", t.Table, t.Err)
	}

	if started, ok := startedTimeFrom(ctx); ok {
		fmt.Fprintf(&b, "\ntook %s", time.Since(started).Round(time.Millisecond))
	}

	return b.String()
}

func (n *SlackNotifier) postMessage(ctx context.Context, m *slackMessage) error {
	l := log.Ctx(ctx)

	reqJSON, err := json.Marshal(m)
	if err != nil {
		return xerrors.Errorf("failed to marshal json: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, "https://slack.com/api/chat.postMessage", bytes.NewReader(reqJSON))
	if err != nil {
		return xerrors.Errorf("failed to build http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.Token)

	c := n.HTTPClient
	if c == nil {
		c = http.DefaultClient
	}

	resp, err := c.Do(req)
	if err != nil {
		return xerrors.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return xerrors.Errorf("failed to read response body: %w", err)
	}

	l.Debug().Msgf("body = %s", body)

	if resp.StatusCode >= 400 {
		return xerrors.Errorf(
			"slack request failed with status code %d (%s)", resp.StatusCode, body)
	}

	var sres slackResponse
	if err := json.Unmarshal(body, &sres); err != nil {
		return xerrors.Errorf("failed to unmarshal response body: %w", err)
	}

	if !sres.OK {
		return xerrors.Errorf("failed to send message: %s", sres.Error)
	}

	return nil
}
