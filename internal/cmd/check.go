package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/GoPolymarket/liqwatch/internal/dashboard"
	"github.com/GoPolymarket/liqwatch/internal/market"
	"github.com/GoPolymarket/liqwatch/internal/model"
	"github.com/spf13/cobra"
)

var (
	checkSize       float64
	checkEntry      float64
	checkCollateral float64
	checkJSON       bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch the mark price once and print the liquidation price",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("size") {
			cfg.Position.Size = checkSize
		}
		if flags.Changed("entry") {
			cfg.Position.EntryPrice = checkEntry
		}
		if flags.Changed("collateral") {
			cfg.Position.Collateral = checkCollateral
		}

		board := dashboard.NewBoard()
		session := newSession(cfg, market.NewCoinGeckoClient(cfg.Price, nil), board)
		defer session.Dispose()

		refreshErr := session.Refresh(cmd.Context())
		return printSnapshot(cmd, board.Snapshot(), refreshErr)
	},
}

func init() {
	checkCmd.Flags().Float64Var(&checkSize, "size", 0, "position size (overrides position.size)")
	checkCmd.Flags().Float64Var(&checkEntry, "entry", 0, "entry price (overrides position.entry_price)")
	checkCmd.Flags().Float64Var(&checkCollateral, "collateral", 0, "collateral (overrides position.collateral)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the snapshot as JSON")
}

func printSnapshot(cmd *cobra.Command, snap model.Snapshot, refreshErr error) error {
	out := cmd.OutOrStdout()
	if checkJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return refreshErr
	}

	fmt.Fprintf(out, "Mark price:        %s\n", snap.MarkPrice)
	fmt.Fprintf(out, "Liquidation price: %s\n", snap.LiquidationPrice)
	fmt.Fprintf(out, "Position:          size=%g entry=%g collateral=%g\n",
		snap.Position.Size, snap.Position.EntryPrice, snap.Position.Collateral)
	fmt.Fprintf(out, "Last updated:      %s\n", snap.LastUpdated)
	return refreshErr
}
