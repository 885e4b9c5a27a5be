package alumnietl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *airtableSource {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := newAirtableSource("appTEST", "Alumni", "secret-key")
	s.endpoint = srv.URL
	s.httpClient = srv.Client()

	return s
}

func TestAirtableSource_FetchAll(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"": `{
			"records": [
				{"id": "rec1", "fields": {"Current Company": "Acme", "Location": "Austin, TX"}},
				{"id": "rec2", "fields": {"Current Company": "Initech"}}
			],
			"offset": "next"
		}`,
		"next": `{
			"records": [
				{"id": "rec3", "fields": {"Major": "CS", "Graduation Year": 2019}}
			]
		}`,
	}

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-key" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if got, want := r.URL.Path, "/appTEST/Alumni"; got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
		fmt.Fprint(w, pages[r.URL.Query().Get("offset")])
	})

	records, err := s.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 across both pages", len(records))
	}

	if v, _ := records[0].Field(FieldCompany); v != "Acme" {
		t.Errorf("records[0] company = %q, want Acme", v)
	}
	if v, _ := records[2].Field(FieldGradYear); v != "2019" {
		t.Errorf("records[2] graduation year = %q, want 2019", v)
	}
}

func TestAirtableSource_AuthFailure(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"type": "AUTHENTICATION_REQUIRED"}}`)
	})

	_, err := s.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if KindOf(err) != KindExtraction {
		t.Errorf("KindOf(err) = %v, want KindExtraction", KindOf(err))
	}
}

func TestAirtableSource_MalformedBody(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})

	_, err := s.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if KindOf(err) != KindExtraction {
		t.Errorf("KindOf(err) = %v, want KindExtraction", KindOf(err))
	}
}

func TestAirtableSource_TableNameEscaped(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		fmt.Fprint(w, `{"records": []}`)
	}))
	t.Cleanup(srv.Close)

	s := newAirtableSource("appTEST", "Alumni Survey", "key")
	s.endpoint = srv.URL
	s.httpClient = srv.Client()

	if _, err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "/appTEST/Alumni%20Survey"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}
