package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tatianab/life-narrator/internal/config"
	"github.com/tatianab/life-narrator/internal/store"
)

// app carries what every subcommand needs.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "narrator",
		Short: "Live a life narrated by an AI game master",
		Long: `narrator is a single-player interactive fiction game. A Gemini-driven narrator
tells the story of your character; you answer with one of the offered choices
or anything you can think of, while health, wealth, age, inventory and
achievements evolve turn by turn.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				return nil
			}
			a.v.SetConfigFile(path)
			if err := a.v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config %s: %w", path, err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "optional YAML config file")
	flags.String("language", "", "narrator language (ar, tr, en)")
	flags.String("model", "", "Gemini model name")
	flags.String("store", "", "save backend: file or sqlite")
	flags.String("save-dir", "", "directory for YAML saves")
	flags.String("sqlite-path", "", "SQLite database path")
	flags.String("log-file", "", "file that receives the log while playing")

	for key, flag := range map[string]string{
		"language":    "language",
		"model":       "model",
		"store":       "store",
		"save_dir":    "save-dir",
		"sqlite_path": "sqlite-path",
		"log_file":    "log-file",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newPlayCmd(a), newStatusCmd(a), newResetCmd(a))
	return root
}

func (a *app) config() (*config.Config, error) {
	return config.LoadConfig(a.v)
}

// openStore returns the configured persistence gateway and its closer.
func openStore(cfg *config.Config) (store.Gateway, func() error, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return store.NewFile(cfg.SaveDir), func() error { return nil }, nil
	}
}

func hasSave(ctx context.Context, gw store.Gateway) bool {
	ok, err := gw.HasSave(ctx)
	return err == nil && ok
}
