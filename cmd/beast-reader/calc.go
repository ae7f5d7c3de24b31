package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/store"
)

var (
	trackFlags    []string
	straightFlag  string
	boxFlag       string
	comboFlag     string
	stateFileFlag string
)

func init() {
	for _, c := range []*cobra.Command{classifyCmd, totalCmd, quickPickCmd, ocrCmd} {
		c.Flags().StringSliceVarP(&trackFlags, "tracks", "t", nil, "Selected tracks (defaults to the configured tracks)")
	}
	for _, c := range []*cobra.Command{totalCmd, quickPickCmd} {
		addAmountFlags(c)
	}
	for _, c := range []*cobra.Command{grandTotalCmd, ticketCmd} {
		c.Flags().StringVar(&stateFileFlag, "state", "", "Saved session file (defaults to the configured file store)")
	}
}

func addAmountFlags(c *cobra.Command) {
	c.Flags().StringVar(&straightFlag, "straight", "", "Straight amount")
	c.Flags().StringVar(&boxFlag, "box", "", "Box amount")
	c.Flags().StringVar(&comboFlag, "combo", "", "Combo amount")
}

func selectedTracks() []string {
	if len(trackFlags) > 0 {
		return trackFlags
	}
	return cfg.Session.DefaultTracks
}

func parseAmount(name, value string) (*decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid %s amount %q: %w", name, value, err)
	}
	return &d, nil
}

func amountFlags() (models.Amounts, error) {
	var (
		a   models.Amounts
		err error
	)
	if a.Straight, err = parseAmount("straight", straightFlag); err != nil {
		return a, err
	}
	if a.Box, err = parseAmount("box", boxFlag); err != nil {
		return a, err
	}
	if a.Combo, err = parseAmount("combo", comboFlag); err != nil {
		return a, err
	}
	return a, a.Validate()
}

var classifyCmd = &cobra.Command{
	Use:   "classify BET_NUMBER...",
	Short: "Show the game mode of bet numbers for a track selection",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		selected := selectedTracks()
		out := cmd.OutOrStdout()
		for _, bet := range args {
			bet = models.TruncateBetNumber(bet)
			mode := calculator.Classify(bet, selected)
			fmt.Fprintf(out, "%-6s %-12s permutations=%d\n", bet, mode,
				calculator.PermutationCount(calculator.DigitsOnly(bet)))
		}
	},
}

var totalCmd = &cobra.Command{
	Use:   "total BET_NUMBER",
	Short: "Price a single play",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amounts, err := amountFlags()
		if err != nil {
			return err
		}
		bet := models.TruncateBetNumber(args[0])
		mode := calculator.Classify(bet, selectedTracks())
		total := calculator.RowTotal(bet, mode, amounts.Straight, amounts.Box, amounts.Combo)
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", bet, mode, total.StringFixed(2))
		return nil
	},
}

var grandTotalCmd = &cobra.Command{
	Use:   "grand-total",
	Short: "Compute the grand total of a saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadState(cmd.Context())
		if err != nil {
			return err
		}
		total := calculator.GrandTotal(state.Plays, state.SelectedTracks)
		fmt.Fprintf(cmd.OutOrStdout(), "%d plays x %d tracks = %s\n",
			len(state.Plays), calculator.EffectiveTrackCount(state.SelectedTracks), total.StringFixed(2))
		return nil
	},
}

// loadState reads a saved session from --state or the configured file store
func loadState(ctx context.Context) (*models.SessionState, error) {
	path := stateFileFlag
	if path == "" {
		path = cfg.Storage.FilePath
	}
	state, err := store.NewFileStore(path).Load(ctx)
	if errors.Is(err, store.ErrPartialState) && state != nil {
		appLog.WithError(err).Warn("Using defaults for unreadable session fields")
		err = nil
	}
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("no saved session at %s", path)
	}
	return state, nil
}
