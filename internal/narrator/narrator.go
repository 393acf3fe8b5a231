// Package narrator asks Gemini for one-line quips about notable game moments.
// It is optional: the game runs without it when no API key is configured.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/bufo-clicker/internal/events"
)

//go:embed prompts/quip.txt
var quipPrompt string

var quipTmpl = template.Must(template.New("quip").Parse(quipPrompt))

// DefaultModel is used when the config does not name one.
const DefaultModel = "gemini-2.5-flash"

// maxQuipLen caps replies so a chatty model cannot flood the screen.
const maxQuipLen = 120

var ErrEmptyReply = errors.New("no content returned from Gemini")

// Moment is a game event worth commenting on.
type Moment struct {
	Kind   string
	Name   string
	Detail string
	Bufos  float64
}

// Narrator wraps a Gemini model.
type Narrator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *slog.Logger
}

func New(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Narrator, error) {
	if apiKey == "" {
		return nil, errors.New("narrator: missing API key")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	return &Narrator{
		client: client,
		model:  model,
		log:    logger.With("component", "narrator", "model", modelName),
	}, nil
}

func (n *Narrator) Close() {
	n.client.Close()
}

// Quip returns a single line of flavor text for the moment.
func (n *Narrator) Quip(ctx context.Context, m Moment) (string, error) {
	prompt, err := render(m)
	if err != nil {
		return "", err
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		n.log.Warn("quip request failed", "kind", m.Kind, "err", err)
		return "", fmt.Errorf("failed to generate quip: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyReply
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}

	quip := cleanReply(string(text))
	if quip == "" {
		return "", ErrEmptyReply
	}
	n.log.Debug("quip", "kind", m.Kind, "text", quip)
	return quip, nil
}

// MomentFor picks out the events worth narrating: achievements, boosts and
// golden bufo catches. Clicks and purchases are too frequent.
func MomentFor(ev events.Event, bufos float64) (Moment, bool) {
	switch d := ev.Data.(type) {
	case events.AchievementData:
		return Moment{Kind: "achievement unlocked", Name: d.Name, Detail: d.Description, Bufos: bufos}, true
	case events.BoostData:
		if ev.Type != events.EventBoostActivated {
			return Moment{}, false
		}
		return Moment{Kind: "boost activated", Name: d.ID, Detail: d.Description, Bufos: bufos}, true
	case events.BonusData:
		if ev.Type != events.EventBonusClaimed {
			return Moment{}, false
		}
		return Moment{Kind: "golden bufo caught", Name: d.BoostID, Bufos: bufos}, true
	}
	return Moment{}, false
}

func render(m Moment) (string, error) {
	var buf bytes.Buffer
	if err := quipTmpl.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("failed to render quip prompt: %w", err)
	}
	return buf.String(), nil
}

// cleanReply keeps the first non-empty line and strips the decorations models
// like to add.
func cleanReply(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "\"'*")
		if line == "" {
			continue
		}
		if len(line) > maxQuipLen {
			line = strings.TrimSpace(line[:maxQuipLen]) + "..."
		}
		return line
	}
	return ""
}
