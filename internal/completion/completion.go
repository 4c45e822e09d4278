// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package completion abstracts the text-completion collaborator the pipeline
// stages call. Each stage makes exactly one completion call per invocation;
// the call is synchronous, single-shot, and bounded by the caller's context.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Format selects the response shape requested from the collaborator.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Completer is the collaborator interface. Implementations must not retain
// state between calls; concurrent use from multiple pipeline invocations is
// expected.
type Completer interface {
	Complete(ctx context.Context, prompt string, format Format) (string, error)
}

// ErrUpstreamTimeout indicates the completion call was cancelled or exceeded
// its deadline. Fatal for the current invocation; no partial output exists.
var ErrUpstreamTimeout = errors.New("completion upstream timeout")

// ErrUpstreamUnavailable indicates the collaborator failed outright: a
// transport error or a non-success HTTP status.
var ErrUpstreamUnavailable = errors.New("completion upstream unavailable")

// ExtractJSON isolates the outermost {...} block in collaborator output,
// tolerating code fences and surrounding prose. Returns "" when no balanced
// object exists.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// classify wraps a transport-level failure with the matching sentinel so
// callers can branch on errors.Is.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}
