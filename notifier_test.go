package alumnietl_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	alumnietl "github.com/Josh-Pai/alumni-analytics-etl"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(f roundTripperFunc) *http.Client {
	return &http.Client{Transport: f}
}

func TestSlackNotifier(t *testing.T) {
	t.Parallel()

	var posted struct {
		Channel string `json:"channel"`
		Text    string `json:"text"`
	}

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &posted); err != nil {
			t.Errorf("request body is not json: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"ok":true}`)),
			Header:     http.Header{},
		}, nil
	})

	n := &alumnietl.SlackNotifier{
		Channel:    "#etl",
		Token:      "token",
		HTTPClient: client,
	}

	r := &alumnietl.Result{
		Status:    alumnietl.StatusPartial,
		Extracted: 42,
		Tables: []alumnietl.TableResult{
			{Table: "stats_company", Rows: 10},
			{Table: "stats_major", Err: io.ErrUnexpectedEOF},
		},
	}

	if err := n.Notify(context.Background(), r); err != nil {
		t.Fatalf("unexpected notify error: %v", err)
	}

	if posted.Channel != "#etl" {
		t.Errorf("channel = %q, want #etl", posted.Channel)
	}
	if !strings.Contains(posted.Text, "load failures") {
		t.Errorf("text %q does not mention load failures", posted.Text)
	}
	if !strings.Contains(posted.Text, "stats_major") {
		t.Errorf("text %q does not name the failed table", posted.Text)
	}
	if strings.Contains(posted.Text, "stats_company") {
		t.Errorf("text %q names a table that loaded fine", posted.Text)
	}
}

func TestSlackNotifier_APIError(t *testing.T) {
	t.Parallel()

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"ok":false,"error":"channel_not_found"}`)),
			Header:     http.Header{},
		}, nil
	})

	n := &alumnietl.SlackNotifier{Channel: "#missing", Token: "token", HTTPClient: client}

	err := n.Notify(context.Background(), &alumnietl.Result{Status: alumnietl.StatusSucceeded})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "channel_not_found") {
		t.Errorf("error %q does not carry the slack error", err)
	}
}
