// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/babuconsultant/medical-consultation-ai/internal/codes"
)

// ExportJSON writes one consultation as indented JSON: metadata, record,
// report text, and code lists.
func (s *Store) ExportJSON(ctx context.Context, id string, w io.Writer) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ExportText writes one consultation as a plain-text document: the report
// followed by the rendered code blocks.
func (s *Store) ExportText(ctx context.Context, id string, w io.Writer) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, c.Report); err != nil {
		return err
	}
	if _, err := io.WriteString(w, codes.FormatCodeSet(c.Codes)); err != nil {
		return err
	}
	if c.CreatedAt != "" {
		_, err = fmt.Fprintf(w, "Generated: %s\n", c.CreatedAt)
	}
	return err
}
