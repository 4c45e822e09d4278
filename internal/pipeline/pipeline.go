// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline chains the three consultation stages: field extraction,
// report assembly, and code extraction. Each run is a pure function over
// its inputs; no state is shared between invocations, so any number of
// transcripts may be processed concurrently.
package pipeline

import (
	"context"
	"errors"

	"github.com/babuconsultant/medical-consultation-ai/internal/codes"
	"github.com/babuconsultant/medical-consultation-ai/internal/fields"
	"github.com/babuconsultant/medical-consultation-ai/internal/report"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// Result holds the outputs of one full pipeline run. Every value is
// complete and internally consistent; degraded stages show up as empty
// fields or lists plus a warning, never as a half-built value.
type Result struct {
	Record     types.StructuredRecord
	Report     types.Report
	ReportText string
	Codes      types.CodeSet

	// Warnings lists non-fatal degradations, e.g. an extraction that
	// needed defaulted fields after the bounded retry.
	Warnings []string
}

// Run executes transcript → record → report → codes. An incomplete
// extraction degrades to empty fields and a warning; collaborator
// timeouts and failures abort the run with no partial result.
func Run(ctx context.Context, extractor fields.Extractor, coder codes.Coder, transcript string, meta types.VisitMetadata) (Result, error) {
	var res Result

	record, err := extractor.Extract(ctx, transcript)
	if err != nil {
		var incomplete *fields.IncompleteError
		if !errors.As(err, &incomplete) {
			return Result{}, err
		}
		record = incomplete.Record
		res.Warnings = append(res.Warnings, incomplete.Error())
	}
	res.Record = record

	res.Report = report.Render(record, meta)
	res.ReportText = report.Text(res.Report)

	set, err := coder.ExtractCodes(ctx, res.ReportText)
	if err != nil {
		return Result{}, err
	}
	res.Codes = set

	return res, nil
}
