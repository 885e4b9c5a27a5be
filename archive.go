package alumnietl

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// archive keeps an audit copy of each run's aggregate tables in Cloud
// Storage. The warehouse is fully overwritten every run, so these
// objects are the only record of what a past run produced.
type archive struct {
	bucket  string
	storage *storage.Client

	// now stamps the run's object prefix; replaceable for tests.
	now func() time.Time
}

func newArchive(ctx context.Context, bucket string) (*archive, error) {
	s, err := storage.NewClient(ctx)
	if err != nil {
		return nil, &Error{
			Kind: KindConnection,
			err:  xerrors.Errorf("failed to build storage client for %s: %w", bucket, err),
		}
	}

	return &archive{bucket: bucket, storage: s, now: time.Now}, nil
}

// Store uploads every table as gs://{bucket}/{runTimestamp}/{table}.csv.
// Uploads fan out concurrently; the first failure cancels the rest.
func (a *archive) Store(ctx context.Context, tables []Table) error {
	l := log.Ctx(ctx)
	prefix := a.now().UTC().Format("20060102T150405Z")

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range tables {
		t := t
		g.Go(func() error {
			name := fmt.Sprintf("%s/%s.csv", prefix, t.Name)
			if err := a.put(ctx, name, t); err != nil {
				return xerrors.Errorf("failed to archive %s: %w", name, err)
			}
			l.Debug().Str("object", name).Int("rows", len(t.Rows)).Msg("table archived")
			return nil
		})
	}

	return g.Wait()
}

func (a *archive) put(ctx context.Context, name string, t Table) error {
	buf, err := csvBytes(t.Rows)
	if err != nil {
		return err
	}

	w := a.storage.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "text/csv"

	if _, err := w.Write(buf.Bytes()); err != nil {
		w.Close()
		return xerrors.Errorf("failed to write object: %w", err)
	}

	if err := w.Close(); err != nil {
		return xerrors.Errorf("failed to close object writer: %w", err)
	}

	return nil
}
