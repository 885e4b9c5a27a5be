package alumnietl

import (
	"context"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
	"google.golang.org/api/googleapi"
)

// Sink loads one aggregate table into the warehouse, replacing whatever
// the table held before.
type Sink interface {
	Load(context.Context, Table) error
}

// Fixed schemas of the four aggregate tables. Loads carry them explicitly
// so a first run creates the tables; after that WriteTruncate keeps the
// shape stable across overwrites.
var tableSchemas = map[string]bigquery.Schema{
	TableCompany: {
		{Name: "company_name", Type: bigquery.StringFieldType},
		{Name: "alumni_count", Type: bigquery.IntegerFieldType},
	},
	TableJobTitle: {
		{Name: "job_title", Type: bigquery.StringFieldType},
		{Name: "job_count", Type: bigquery.IntegerFieldType},
	},
	TableMajor: {
		{Name: "major", Type: bigquery.StringFieldType},
		{Name: "major_count", Type: bigquery.IntegerFieldType},
	},
	TableLocation: {
		{Name: "country", Type: bigquery.StringFieldType},
		{Name: "state", Type: bigquery.StringFieldType},
		{Name: "city", Type: bigquery.StringFieldType},
		{Name: "alumni_count", Type: bigquery.IntegerFieldType},
	},
}

// warehouse is the BigQuery sink. Each Load runs one load job against
// {project}.{dataset}.{table} and blocks until the job finishes;
// WriteTruncate gives the full-replace semantics.
type warehouse struct {
	ds *bigquery.Dataset
}

func newWarehouse(ctx context.Context, projectID, datasetID string) (*warehouse, error) {
	bq, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, &Error{
			Kind: KindConnection,
			err:  xerrors.Errorf("failed to build bigquery client for %s: %w", projectID, err),
		}
	}

	return &warehouse{ds: bq.Dataset(datasetID)}, nil
}

func (w *warehouse) Load(ctx context.Context, t Table) error {
	l := log.Ctx(ctx)

	schema, ok := tableSchemas[t.Name]
	if !ok {
		return &Error{Kind: KindLoad, Table: t.Name, err: xerrors.Errorf("no schema registered")}
	}

	buf, err := csvBytes(t.Rows)
	if err != nil {
		return &Error{Kind: KindLoad, Table: t.Name, err: err}
	}

	rs := bigquery.NewReaderSource(buf)
	rs.Schema = schema

	loader := w.ds.Table(t.Name).LoaderFrom(rs)
	loader.WriteDisposition = bigquery.WriteTruncate

	l.Debug().Str("table", t.Name).Int("rows", len(t.Rows)).Msg("starting load job")

	job, err := loader.Run(ctx)
	if err != nil {
		return w.loadError(t.Name, xerrors.Errorf("failed to run load job: %w", err))
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return w.loadError(t.Name, xerrors.Errorf("failed to wait for load job: %w", err))
	}

	if err := status.Err(); err != nil {
		return w.loadError(t.Name, xerrors.Errorf("load job failed: %w", err))
	}

	return nil
}

// loadError distinguishes a missing dataset from every other load
// failure, so callers can report "create the dataset" instead of a bare
// transport error.
func (w *warehouse) loadError(table string, err error) error {
	kind := KindLoad

	var gerr *googleapi.Error
	if xerrors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		kind = KindDatasetNotFound
	}

	return &Error{Kind: kind, Table: table, err: err}
}
