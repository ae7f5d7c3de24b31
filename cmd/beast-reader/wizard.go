package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/wizard"
)

var (
	quickPickMode  string
	quickPickCount int
)

func init() {
	quickPickCmd.Flags().StringVarP(&quickPickMode, "mode", "m", string(models.GameModePick3), "Game mode: Pick 3, Win 4, Pulito or Pale-RD")
	quickPickCmd.Flags().IntVarP(&quickPickCount, "count", "n", 5, "Number of plays to draw")
	roundDownCmd.Flags().StringVar(&straightFlag, "straight", "", "Straight amount")
}

var quickPickCmd = &cobra.Command{
	Use:   "quickpick",
	Short: "Draw random bet numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		amounts, err := amountFlags()
		if err != nil {
			return err
		}
		rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		plays, err := wizard.QuickPick(rng, models.GameMode(quickPickMode), quickPickCount, amounts)
		if err != nil {
			return fmt.Errorf("%s", models.UserMessage(err))
		}
		printPreview(cmd, plays)
		return nil
	},
}

var roundDownCmd = &cobra.Command{
	Use:   "rounddown RANGE",
	Short: "Expand a range like 120-129 into ten Pick 3 plays",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		straight, err := parseAmount("straight", straightFlag)
		if err != nil {
			return err
		}
		plays, err := wizard.RoundDown(args[0], straight)
		if err != nil {
			return fmt.Errorf("%s", models.UserMessage(err))
		}
		printPreview(cmd, plays)
		return nil
	},
}

func printPreview(cmd *cobra.Command, plays []models.WizardPlay) {
	preview := wizard.BuildPreview(plays)
	out := cmd.OutOrStdout()
	for _, row := range preview.Rows {
		fmt.Fprintf(out, "%-6s %-8s %s\n", row.BetNumber, row.GameMode, row.Total.StringFixed(2))
	}
	fmt.Fprintf(out, "Total: %s\n", preview.Total.StringFixed(2))
}
