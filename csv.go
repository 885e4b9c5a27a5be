package alumnietl

import (
	"bytes"
	"encoding/csv"

	"golang.org/x/xerrors"
)

// csvBytes renders sink rows as headerless CSV, the batch format both the
// warehouse load job and the archive object consume. Quoting is the csv
// package's: company names with commas survive the round trip.
func csvBytes(rows [][]string) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	if err := csv.NewWriter(buf).WriteAll(rows); err != nil {
		return nil, xerrors.Errorf("failed to write csv: %w", err)
	}
	return buf, nil
}
