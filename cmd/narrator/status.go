package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tatianab/life-narrator/internal/models"
	"github.com/tatianab/life-narrator/internal/store"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved character",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			gw, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			state, err := gw.Load(cmd.Context())
			if errors.Is(err, store.ErrNoSave) {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved game.")
				return nil
			}
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func printStatus(w io.Writer, state models.GameState) {
	s, st := state.Settings, state.Stats
	fmt.Fprintf(w, "%s (%s, %s) - %s world, %s difficulty\n", s.PlayerName, s.Country, s.Year, s.WorldType, s.Difficulty)
	fmt.Fprintf(w, "Turn %d\n", state.TurnCount)
	fmt.Fprintf(w, "Age: %d years (%d days lived)\n", st.AgeYears, st.DaysLived)
	fmt.Fprintf(w, "Health: %d%%  Wealth: %d gold\n", st.Health, st.Wealth)
	if len(st.Inventory) == 0 {
		fmt.Fprintln(w, "Inventory: (empty)")
	} else {
		fmt.Fprintf(w, "Inventory: %s\n", strings.Join(st.Inventory, ", "))
	}
	for _, a := range st.Achievements {
		fmt.Fprintf(w, "★ %s: %s\n", a.Title, a.Description)
	}
	if state.IsDead() {
		fmt.Fprintf(w, "Dead. Final score: %d days lived, %d achievements\n", st.DaysLived, len(st.Achievements))
	}
}

func newResetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			gw, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if !hasSave(ctx, gw) {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved game.")
				return nil
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err := gw.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved game deleted.")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "do not ask for confirmation")
	return cmd
}

func confirm(r io.Reader, w io.Writer) bool {
	fmt.Fprint(w, "Are you sure? Your current progress will be deleted. [y/N] ")
	line, _ := bufio.NewReader(r).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
