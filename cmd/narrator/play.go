package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tatianab/life-narrator/internal/engine"
	"github.com/tatianab/life-narrator/internal/models"
	"github.com/tatianab/life-narrator/internal/narrator"
	"github.com/tatianab/life-narrator/internal/store"
	"github.com/tatianab/life-narrator/internal/tui"
)

func newPlayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Continue the saved life, or start a new one",
		Long: `Resumes the saved game when there is one. Pass --new, or play without a save,
to create a character from the flags below.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd)
		},
	}

	f := cmd.Flags()
	f.Bool("new", false, "start a new life even if a save exists")
	f.String("name", "", "player name")
	f.String("difficulty", string(models.DifficultyMedium), "very_easy, easy, medium, hard, very_hard or impossible")
	f.String("realism", string(models.RealismHigh), "high, medium or low")
	f.String("trait", string(models.TraitNone), "intelligence, precision, religious, charismatic, strong or none")
	f.String("country", "", "country of birth")
	f.String("year", "", "year of birth, free text (e.g. 2024 or 300 BC)")
	f.String("world", string(models.WorldRealistic), "historical, realistic, fantasy, post_apocalyptic or cyberpunk")
	f.Int("age", 0, "starting age (0-20)")
	return cmd
}

func settingsFromFlags(cmd *cobra.Command) (models.GameSettings, error) {
	f := cmd.Flags()
	name, _ := f.GetString("name")
	difficulty, _ := f.GetString("difficulty")
	realism, _ := f.GetString("realism")
	trait, _ := f.GetString("trait")
	country, _ := f.GetString("country")
	year, _ := f.GetString("year")
	world, _ := f.GetString("world")
	age, _ := f.GetInt("age")

	return models.NewSettings(models.GameSettings{
		PlayerName:  name,
		Difficulty:  models.Difficulty(difficulty),
		Realism:     models.Realism(realism),
		Trait:       models.Trait(trait),
		Country:     country,
		Year:        year,
		WorldType:   models.WorldType(world),
		StartingAge: age,
	})
}

func (a *app) play(cmd *cobra.Command) error {
	ctx := context.Background()

	cfg, err := a.config()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	logFile, err := tea.LogToFile(cfg.LogFile, "narrator")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	gw, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	gen, err := narrator.New(ctx, cfg.GeminiAPIKey, narrator.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("create narrator: %w", err)
	}
	defer gen.Close()

	eng := engine.New(gen, gw, engine.WithLanguage(cfg.LanguageTag()))

	fresh, _ := cmd.Flags().GetBool("new")
	var settings models.GameSettings
	if !fresh {
		state, err := eng.Restore(ctx)
		switch {
		case errors.Is(err, store.ErrNoSave):
			fresh = true
		case err != nil:
			return err
		default:
			settings = state.Settings
			log.Printf("resumed %s at turn %d", settings.PlayerName, state.TurnCount)
		}
	}
	if fresh {
		settings, err = settingsFromFlags(cmd)
		if err != nil {
			return err
		}
		if _, err := eng.Start(settings); err != nil {
			return err
		}
		log.Printf("started a new life for %s", settings.PlayerName)
	}

	return tui.Run(eng, settings)
}
