// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"strings"
)

// SearchOptions holds parameters for archive queries.
type SearchOptions struct {
	// Query is the FTS5 full-text search string over report text.
	Query string

	// Gender filters by the recorded patient gender.
	Gender string

	// Code filters to consultations carrying the given finding code.
	Code string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (o SearchOptions) IsEmpty() bool {
	return o.Query == "" && o.Gender == "" && o.Code == ""
}

// SearchResult is one archive hit.
type SearchResult struct {
	ID          string `json:"id"`
	SampleName  string `json:"sample_name"`
	DateOfVisit string `json:"date_of_visit"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// Search queries the archive with optional full-text search over report
// text and structured filters. Full-text hits are ranked by relevance;
// structured-only queries sort by visit date descending.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	qb.WriteString(`SELECT c.id, c.sample_name, c.date_of_visit, c.description, c.created_at FROM consultations c`)
	if useFTS {
		qb.WriteString(` JOIN consultations_fts f ON f.rowid = c.rowid`)
	}

	var conds []string
	if useFTS {
		conds = append(conds, `consultations_fts MATCH ?`)
		args = append(args, opts.Query)
	}
	if opts.Gender != "" {
		conds = append(conds, `c.gender = ?`)
		args = append(args, opts.Gender)
	}
	if opts.Code != "" {
		conds = append(conds, `c.id IN (SELECT consultation_id FROM findings WHERE code = ?)`)
		args = append(args, opts.Code)
	}
	if len(conds) > 0 {
		qb.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}

	if useFTS {
		qb.WriteString(` ORDER BY f.rank`)
	} else {
		qb.WriteString(` ORDER BY c.date_of_visit DESC, c.created_at DESC`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.SampleName, &r.DateOfVisit, &r.Description, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
