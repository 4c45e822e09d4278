// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/babuconsultant/medical-consultation-ai/internal/codes"
	"github.com/babuconsultant/medical-consultation-ai/internal/completion"
	"github.com/babuconsultant/medical-consultation-ai/internal/fields"
)

const defaultClaudeModel = "claude-sonnet-4-20250514"

// backendFlags adds the collaborator selection flags shared by the stage
// commands.
func backendFlags(cmd *cobra.Command) {
	cmd.Flags().String("backend", "rules", "completion backend: rules, claude, or ollama")
	cmd.Flags().String("model", "", "model identifier for the claude or ollama backend")
	cmd.Flags().String("api-key", "", "Claude API key (default: .secrets/anthropic-api-key)")
	cmd.Flags().String("ollama-host", "", "Ollama host URL (default: .secrets/ollama-host or localhost)")
	cmd.Flags().Duration("timeout", 2*time.Minute, "per-call completion timeout")
}

// newCompleter builds the completion collaborator selected by flags.
// Returns nil for the rule-based backend.
func newCompleter(cmd *cobra.Command) (completion.Completer, error) {
	backend, _ := cmd.Flags().GetString("backend")
	if backend == "" {
		backend = viper.GetString("backend")
	}
	model, _ := cmd.Flags().GetString("model")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	client := &http.Client{Timeout: timeout}

	switch backend {
	case "rules", "":
		return nil, nil
	case "claude":
		apiKey, _ := cmd.Flags().GetString("api-key")
		apiKey = secretDefault("anthropic-api-key", apiKey)
		if apiKey == "" {
			return nil, fmt.Errorf("claude backend requires an API key: pass --api-key or create .secrets/anthropic-api-key")
		}
		if model == "" {
			model = defaultClaudeModel
		}
		return &completion.ClaudeClient{APIKey: apiKey, Model: model, Client: client}, nil
	case "ollama":
		host, _ := cmd.Flags().GetString("ollama-host")
		host = secretDefault("ollama-host", host)
		if host == "" {
			host = completion.DefaultOllamaHost
		}
		if model == "" {
			return nil, fmt.Errorf("ollama backend requires --model")
		}
		return &completion.OllamaClient{Host: host, Model: model, Client: client}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q: use rules, claude, or ollama", backend)
	}
}

// newExtractor builds the field extractor selected by flags.
func newExtractor(cmd *cobra.Command) (fields.Extractor, error) {
	completer, err := newCompleter(cmd)
	if err != nil {
		return nil, err
	}
	if completer == nil {
		return fields.RuleExtractor{}, nil
	}
	return &fields.ModelExtractor{Completer: completer}, nil
}

// newCoder builds the code extractor selected by flags.
func newCoder(cmd *cobra.Command) (codes.Coder, error) {
	completer, err := newCompleter(cmd)
	if err != nil {
		return nil, err
	}
	if completer == nil {
		return codes.RuleCoder{}, nil
	}
	return &codes.ModelCoder{Completer: completer}, nil
}
