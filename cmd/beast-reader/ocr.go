package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/config"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/ocr"
)

var ocrJSON bool

func init() {
	ocrCmd.Flags().BoolVar(&ocrJSON, "json", false, "Print the raw interpreted plays as JSON")
}

var ocrCmd = &cobra.Command{
	Use:   "ocr IMAGE",
	Short: "Read plays from a ticket photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadSecretsFromAWS(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		img, err := ocr.EncodeImage(f)
		if err != nil {
			return err
		}

		cfg.OCR.Enabled = true
		interp, closeInterp := newInterpreter(cfg, appLog)
		defer closeInterp()

		results, err := interp.Interpret(cmd.Context(), img)
		if err != nil {
			return fmt.Errorf("%s", models.UserMessage(err))
		}

		out := cmd.OutOrStdout()
		if ocrJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		selected := selectedTracks()
		for _, r := range results {
			bet := models.TruncateBetNumber(r.BetNumber)
			mode := calculator.Classify(bet, selected)
			total := calculator.RowTotal(bet, mode, r.StraightAmount, r.BoxAmount, r.ComboAmount)
			fmt.Fprintf(out, "%-6s %-12s %s\n", bet, mode, total.StringFixed(2))
		}
		return nil
	},
}
