package alumnietl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// sourceEndpoint is the REST root of the tabular source backend.
const sourceEndpoint = "https://api.airtable.com/v0"

// Source fetches the complete raw record set from the source backend.
type Source interface {
	FetchAll(context.Context) ([]Record, error)
}

// airtableSource lists every record of one base's table over the REST
// API, following the offset token until the backend stops returning one.
// A single attempt only: any transport, auth or decode failure aborts the
// fetch with an extraction error.
type airtableSource struct {
	baseID string
	table  string
	apiKey string

	endpoint   string
	httpClient *http.Client
}

func newAirtableSource(baseID, table, apiKey string) *airtableSource {
	return &airtableSource{
		baseID:     baseID,
		table:      table,
		apiKey:     apiKey,
		endpoint:   sourceEndpoint,
		httpClient: &http.Client{},
	}
}

// listResponse is one page of the backend's record listing.
type listResponse struct {
	Records []struct {
		ID     string `json:"id"`
		Fields Record `json:"fields"`
	} `json:"records"`
	Offset string `json:"offset"`
}

func (s *airtableSource) FetchAll(ctx context.Context) ([]Record, error) {
	l := log.Ctx(ctx)

	var records []Record
	offset := ""
	for page := 1; ; page++ {
		res, err := s.fetchPage(ctx, offset)
		if err != nil {
			return nil, &Error{Kind: KindExtraction, err: err}
		}

		for _, rec := range res.Records {
			records = append(records, rec.Fields)
		}
		l.Debug().Int("page", page).Int("records", len(res.Records)).Msg("fetched source page")

		if res.Offset == "" {
			return records, nil
		}
		offset = res.Offset
	}
}

func (s *airtableSource) fetchPage(ctx context.Context, offset string) (*listResponse, error) {
	u := fmt.Sprintf("%s/%s/%s", s.endpoint, url.PathEscape(s.baseID), url.PathEscape(s.table))
	if offset != "" {
		u += "?offset=" + url.QueryEscape(offset)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, xerrors.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("failed to list records of %s: %w", s.table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, xerrors.Errorf(
			"listing records of %s failed with status code %d (%s)", s.table, resp.StatusCode, body)
	}

	var res listResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, xerrors.Errorf("failed to unmarshal record listing: %w", err)
	}

	return &res, nil
}
