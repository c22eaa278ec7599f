// Package narrator generates narrative deltas with Gemini.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/life-narrator/internal/i18n"
	"github.com/tatianab/life-narrator/internal/models"
	"google.golang.org/api/option"
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/opening.txt
var openingPrompt string

//go:embed prompts/continue.txt
var continuePrompt string

var (
	systemTmpl   = template.Must(template.New("system").Parse(systemPrompt))
	openingTmpl  = template.Must(template.New("opening").Parse(openingPrompt))
	continueTmpl = template.Must(template.New("continue").Parse(continuePrompt))
)

// Options tunes the model behind the narrator.
type Options struct {
	Model       string
	Temperature float32
	Timeout     time.Duration
}

type Narrator struct {
	client *genai.Client
	opts   Options
}

func New(ctx context.Context, apiKey string, opts Options) (*Narrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}
	return &Narrator{client: client, opts: opts}, nil
}

func (n *Narrator) Close() {
	n.client.Close()
}

// Narrate asks the model for the next turn. Transport failures wrap
// models.ErrGeneratorUnavailable; unusable output wraps models.ErrInvalidDelta.
func (n *Narrator) Narrate(ctx context.Context, req models.NarrationRequest) (models.NarrativeDelta, error) {
	if n.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.opts.Timeout)
		defer cancel()
	}

	system, err := render(systemTmpl, promptData(req))
	if err != nil {
		return models.NarrativeDelta{}, err
	}
	model := n.client.GenerativeModel(n.opts.Model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema()
	model.SetTemperature(n.opts.Temperature)

	history, parts, err := buildConversation(req)
	if err != nil {
		return models.NarrativeDelta{}, err
	}
	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, parts...)
	if err != nil {
		return models.NarrativeDelta{}, fmt.Errorf("%w: %v", models.ErrGeneratorUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return models.NarrativeDelta{}, fmt.Errorf("%w: no content returned from Gemini", models.ErrInvalidDelta)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return models.ParseDelta([]byte(cleanJSON(text.String())))
}

type templateData struct {
	Settings     models.GameSettings
	Stats        models.CharacterStats
	Inventory    string
	Action       string
	LanguageName string
}

func promptData(req models.NarrationRequest) templateData {
	inventory := "None"
	if len(req.Stats.Inventory) > 0 {
		inventory = strings.Join(req.Stats.Inventory, ", ")
	}
	data := templateData{
		Settings:     req.Settings,
		Stats:        req.Stats,
		Inventory:    inventory,
		LanguageName: i18n.Name(req.Language),
	}
	if req.Action != nil {
		data.Action = *req.Action
	}
	return data
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// buildConversation maps the turn log onto chat contents and returns the
// parts of the message to send. The player's latest action is already the
// last history entry, so it is sent together with the turn prompt. Until the
// narrator has spoken once, the turn prompt is the opening prompt, even when
// the player acted first.
func buildConversation(req models.NarrationRequest) ([]*genai.Content, []genai.Part, error) {
	data := promptData(req)
	opened := slices.ContainsFunc(req.History, func(e models.HistoryEntry) bool {
		return e.Role == models.RoleNarrator
	})
	tmpl := continueTmpl
	if !opened {
		tmpl = openingTmpl
	}
	prompt, err := render(tmpl, data)
	if err != nil {
		return nil, nil, err
	}

	var contents []*genai.Content
	if opened {
		// replay the opening prompt the first narration answered
		first := data
		first.Action = ""
		if req.History[0].Role == models.RolePlayer {
			first.Action = req.History[0].Text
		}
		opening, err := render(openingTmpl, first)
		if err != nil {
			return nil, nil, err
		}
		contents = append(contents, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(opening)}})
	}
	for _, entry := range req.History {
		role := "user"
		if entry.Role == models.RoleNarrator {
			role = "model"
		}
		if last := len(contents) - 1; last >= 0 && contents[last].Role == role {
			contents[last].Parts = append(contents[last].Parts, genai.Text(entry.Text))
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(entry.Text)}})
	}

	parts := []genai.Part{genai.Text(prompt)}
	if last := len(contents) - 1; last >= 0 && contents[last].Role == "user" {
		parts = append(contents[last].Parts, parts...)
		contents = contents[:last]
	}
	return contents, parts, nil
}

func cleanJSON(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

func responseSchema() *genai.Schema {
	stringList := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"story_text": {
				Type:        genai.TypeString,
				Description: "The narrative text. Use **bold** for key items and names. Engaging, non-repetitive.",
			},
			"choices": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Exactly 3 distinct, logical choices. Empty if the character died.",
			},
			"time_passed_days": {
				Type:        genai.TypeNumber,
				Description: "Estimated days passed. 0 for immediate actions.",
			},
			"health_change": {
				Type:        genai.TypeNumber,
				Description: "Change in health (-100 to +100).",
			},
			"wealth_change": {
				Type:        genai.TypeNumber,
				Description: "Change in wealth.",
				Nullable:    true,
			},
			"new_achievement": {
				Type:        genai.TypeObject,
				Description: "Significant milestones only.",
				Nullable:    true,
				Properties: map[string]*genai.Schema{
					"title":       {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
				},
			},
			"inventory_updates": {
				Type:        genai.TypeObject,
				Description: "Items to add or remove.",
				Nullable:    true,
				Properties: map[string]*genai.Schema{
					"add":    stringList,
					"remove": stringList,
				},
			},
		},
		Required: []string{"story_text", "choices", "time_passed_days", "health_change"},
	}
}
