package alumnietl

import (
	"sort"
	"strconv"
	"strings"
)

// Names of the four aggregate tables kept in the warehouse dataset.
const (
	TableCompany  = "stats_company"
	TableJobTitle = "stats_job_title"
	TableMajor    = "stats_major"
	TableLocation = "stats_location"
)

// locationCountry is fixed for every location row; the survey never
// records alumni outside the United States.
const locationCountry = "United States"

// CountRow is one row of a single-key aggregate table: a distinct field
// value and how many alumni share it.
type CountRow struct {
	Value string
	Count int
}

// LocationRow is one row of stats_location.
type LocationRow struct {
	Country string
	State   string
	City    string
	Count   int
}

// Summary holds the four aggregate tables computed from one extract. It
// lives only for the duration of a run; the warehouse receives it and the
// process forgets it.
type Summary struct {
	Companies []CountRow
	JobTitles []CountRow
	Majors    []CountRow
	Locations []LocationRow
}

// Aggregate anonymizes raw records down to the safe columns and computes
// the four aggregate tables. It is pure and deterministic: no I/O, no
// errors. A record whose field is absent in one dimension is excluded
// from that dimension only, never from its siblings.
func Aggregate(records []Record) *Summary {
	records = restrict(records)

	return &Summary{
		Companies: countByField(records, FieldCompany),
		JobTitles: countByField(records, FieldTitle),
		Majors:    countByField(records, FieldMajor),
		Locations: countByLocation(records),
	}
}

// restrict projects every record onto SafeFields. Names, emails and any
// other identifying columns the source table carries stop here.
func restrict(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		safe := make(Record, len(SafeFields))
		for _, f := range SafeFields {
			if v, ok := r[f]; ok {
				safe[f] = v
			}
		}
		out[i] = safe
	}
	return out
}

// countByField groups records on the exact string value of one field and
// counts each distinct value. Records without the field are dropped from
// this aggregate. No trimming, no case folding: the value in the source
// is the grouping key.
func countByField(records []Record, field string) []CountRow {
	counts := make(map[string]int)
	for _, r := range records {
		if v, ok := r.Field(field); ok {
			counts[v]++
		}
	}

	rows := make([]CountRow, 0, len(counts))
	for v, n := range counts {
		rows = append(rows, CountRow{Value: v, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Value < rows[j].Value })

	return rows
}

// splitLocation normalizes one raw location string into (city, state).
// Only the first comma splits, so "Austin, TX, USA" keeps "TX, USA" as
// the state part. Both parts are trimmed. Without a comma the whole
// trimmed string is the city and the state stays empty; such records
// remain in the aggregate.
func splitLocation(loc string) (city, state string) {
	head, rest, found := strings.Cut(loc, ",")
	city = strings.TrimSpace(head)
	if found {
		state = strings.TrimSpace(rest)
	}
	return city, state
}

func countByLocation(records []Record) []LocationRow {
	type key struct{ state, city string }

	counts := make(map[key]int)
	for _, r := range records {
		loc, ok := r.Field(FieldLocation)
		if !ok {
			continue
		}
		city, state := splitLocation(loc)
		counts[key{state: state, city: city}]++
	}

	rows := make([]LocationRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, LocationRow{
			Country: locationCountry,
			State:   k.state,
			City:    k.city,
			Count:   n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].State != rows[j].State {
			return rows[i].State < rows[j].State
		}
		return rows[i].City < rows[j].City
	})

	return rows
}

// Table is one aggregate table ready for the sink: its warehouse name and
// its rows in column order.
type Table struct {
	Name string
	Rows [][]string
}

// Tables flattens the summary into the four sink tables in load order.
func (s *Summary) Tables() []Table {
	return []Table{
		{Name: TableCompany, Rows: countRows(s.Companies)},
		{Name: TableJobTitle, Rows: countRows(s.JobTitles)},
		{Name: TableMajor, Rows: countRows(s.Majors)},
		{Name: TableLocation, Rows: locationRows(s.Locations)},
	}
}

func countRows(rows []CountRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Value, strconv.Itoa(r.Count)}
	}
	return out
}

func locationRows(rows []LocationRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Country, r.State, r.City, strconv.Itoa(r.Count)}
	}
	return out
}
