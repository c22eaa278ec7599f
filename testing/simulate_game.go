package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/life-narrator/internal/config"
	"github.com/tatianab/life-narrator/internal/engine"
	"github.com/tatianab/life-narrator/internal/models"
	"github.com/tatianab/life-narrator/internal/narrator"
	"github.com/tatianab/life-narrator/internal/store"
	"google.golang.org/api/option"
)

const maxTurns = 10

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig(nil)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		log.Fatal(err)
	}

	// The narrator plays game master; saves stay in memory.
	gm, err := narrator.New(ctx, cfg.GeminiAPIKey, narrator.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create narrator: %v", err)
	}
	defer gm.Close()
	eng := engine.New(gm, store.NewMemory(), engine.WithLanguage(cfg.LanguageTag()))

	// A second model plays the character.
	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel(cfg.Model)

	settings := models.GameSettings{
		PlayerName:  "Deniz",
		Difficulty:  models.DifficultyMedium,
		Realism:     models.RealismHigh,
		Trait:       models.TraitCharismatic,
		Country:     "Turkey",
		Year:        "1990",
		WorldType:   models.WorldRealistic,
		StartingAge: 16,
	}
	if _, err := eng.Start(settings); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	fmt.Println("--- Opening ---")
	res, err := eng.Open(ctx)
	if err != nil {
		log.Fatalf("Failed to open game: %v", err)
	}
	report(res)

	for turn := 1; turn <= maxTurns; turn++ {
		if eng.Phase() == engine.PhaseDead {
			fmt.Println("Game Ended: the character died.")
			break
		}
		state, _ := eng.State()

		fmt.Printf("--- Turn %d ---\n", turn)
		action := getPlayerAction(ctx, playerModel, state)
		fmt.Printf("Player Action: %s\n", action)

		res, err := eng.SubmitAction(ctx, action)
		if err != nil {
			fmt.Printf("Error processing turn: %v\n", err)
			break
		}
		report(res)
	}

	if state, ok := eng.State(); ok {
		fmt.Printf("Final score: %d days lived, %d achievements\n", state.Stats.DaysLived, len(state.Stats.Achievements))
	}
}

func report(res engine.TurnResult) {
	if res.Fallback {
		fmt.Printf("Fallback turn: %v\n", res.Cause)
	}
	if res.State.CurrentTurn != nil {
		fmt.Printf("Narrator: %s\n", res.State.CurrentTurn.StorySegment)
		for i, opt := range res.State.CurrentTurn.Options {
			fmt.Printf("  %d. %s\n", i+1, opt)
		}
	}
	if res.Achievement != nil {
		fmt.Printf("ACHIEVEMENT: %s\n", res.Achievement.Title)
	}
	st := res.State.Stats
	fmt.Printf("Stats: Age=%d, Health=%d, Wealth=%d, Inventory=%v\n\n", st.AgeYears, st.Health, st.Wealth, st.Inventory)
}

func getPlayerAction(ctx context.Context, model *genai.GenerativeModel, state models.GameState) string {
	var history strings.Builder
	for _, entry := range state.History {
		fmt.Fprintf(&history, "%s: %s\n", entry.Role, entry.Text)
	}
	var options []string
	if state.CurrentTurn != nil {
		options = state.CurrentTurn.Options
	}

	prompt := fmt.Sprintf(`You are playing a life simulation game as %s.
Age: %d, Health: %d, Wealth: %d, Inventory: %v

Story so far:
%s
Offered choices: %v

Pick one of the choices or invent your own action. Return ONLY the action string, no extra commentary.`,
		state.Settings.PlayerName,
		state.Stats.AgeYears, state.Stats.Health, state.Stats.Wealth, state.Stats.Inventory,
		history.String(),
		options,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "look around"
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "look around"
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}
