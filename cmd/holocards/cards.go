// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/holomush/holocards/internal/card"
	"github.com/holomush/holocards/internal/config"
)

// cardsConfig holds configuration for the cards command.
type cardsConfig struct {
	match      string
	jsonOutput bool
}

// cardView is the JSON form of a listed card.
type cardView struct {
	Ref    string   `json:"ref"`
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Cost   uint32   `json:"cost"`
	Attack uint32   `json:"attack,omitempty"`
	Health uint32   `json:"health,omitempty"`
	Text   string   `json:"text,omitempty"`
	Hooks  []string `json:"triggers,omitempty"`
}

// NewCardsCmd creates the cards subcommand.
func NewCardsCmd() *cobra.Command {
	cfg := &cardsConfig{}

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List the cards in the catalog",
		Long: `List the core set and every loaded card set file.
--match filters names with a glob such as "*bolt" or "{fire,frost}*".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCards(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.match, "match", "", "glob on card names (case-insensitive)")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output cards as JSON")
	cmd.Flags().StringSlice("catalogs", nil, "card set files to load next to the core set")

	return cmd
}

func runCards(cmd *cobra.Command, cfg *cardsConfig) error {
	settings, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	cat, err := loadCatalog(settings.Catalogs)
	if err != nil {
		return err
	}

	var defs []*card.Definition
	if cfg.match != "" {
		if defs, err = cat.Match(cfg.match); err != nil {
			return err
		}
	} else {
		defs = slices.Collect(cat.All())
	}

	views := make([]cardView, 0, len(defs))
	for _, d := range defs {
		views = append(views, viewOf(d))
	}

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal cards: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	return formatCardTable(cmd.OutOrStdout(), views)
}

func viewOf(d *card.Definition) cardView {
	v := cardView{
		Ref:  card.FormatRef(d.Ref),
		Name: d.Name,
		Kind: string(d.Kind),
		Cost: d.Cost,
		Text: d.Text,
	}
	if d.Kind == card.KindMinion {
		v.Attack, v.Health = d.Attack, d.Health
	}
	for _, t := range d.Triggers {
		v.Hooks = append(v.Hooks, fmt.Sprintf("%s/%s:%s", t.Timing, t.Event, t.Name))
	}
	return v
}

// formatCardTable writes cards as a human-readable table.
func formatCardTable(out io.Writer, views []cardView) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "REF\tNAME\tKIND\tCOST\tSTATS\tTEXT")
	_, _ = fmt.Fprintln(w, "---\t----\t----\t----\t-----\t----")
	for _, v := range views {
		stats := "-"
		if v.Kind == string(card.KindMinion) {
			stats = fmt.Sprintf("%d/%d", v.Attack, v.Health)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", v.Ref, v.Name, v.Kind, v.Cost, stats, v.Text)
	}

	return w.Flush() //nolint:wrapcheck // io passthrough
}
