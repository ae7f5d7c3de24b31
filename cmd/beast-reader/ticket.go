package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/session"
	"github.com/yourusername/beast-reader/internal/ticket"
	"github.com/yourusername/beast-reader/internal/tracks"
)

var (
	qrOutFlag string
	dateFlag  string
)

func init() {
	ticketCmd.Flags().StringVar(&qrOutFlag, "qr", "", "Write the QR code PNG to this path")
	tracksCmd.Flags().StringVar(&dateFlag, "date", "", "Bet date (YYYY-MM-DD), defaults to today")
}

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Issue a ticket from a saved session and print the receipt",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadState(cmd.Context())
		if err != nil {
			return err
		}

		sess := session.New(session.Config{
			MaxPlays:      cfg.Session.MaxPlays,
			DefaultTracks: cfg.Session.DefaultTracks,
			Location:      cfg.Location(),
		})
		sess.Restore(*state)

		issuer := ticket.NewIssuer(cfg.Ticket.Title, cfg.Ticket.QRSize, nil, logger.NewAuditLogger(appLog))
		t, err := issuer.Issue(sess)
		if err != nil {
			return fmt.Errorf("%s", models.UserMessage(err))
		}

		fmt.Fprint(cmd.OutOrStdout(), t.Receipt())

		if qrOutFlag != "" {
			png, err := t.QRCodePNG(issuer.QRSize())
			if err != nil {
				return fmt.Errorf("failed to encode QR code: %w", err)
			}
			if err := os.WriteFile(qrOutFlag, png, 0o644); err != nil {
				return err
			}
		}
		return nil
	},
}

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List tracks with their cutoff times",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now().In(cfg.Location())
		date := dateFlag
		if date == "" {
			date = tracks.Today(now)
		} else if _, err := tracks.ParseDate(date); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}

		out := cmd.OutOrStdout()
		for _, cat := range tracks.Categories() {
			fmt.Fprintf(out, "%s\n", cat.Name)
			for _, t := range cat.Tracks {
				state := "open"
				if tracks.IsClosed(t.Name, date, now) {
					state = "closed"
				}
				fmt.Fprintf(out, "  %-22s %s  %s\n", t.Name, t.Cutoff, state)
			}
		}
		return nil
	},
}
