// Package adjudicator decides uncertain video/event matches with an LLM.
// It receives the scored candidate set the matcher could not resolve on
// its own and asks the model to pick the event the video records, or none.
package adjudicator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/capitolstream/hearings-cli/internal/config"
	"github.com/capitolstream/hearings-cli/internal/model"
	"github.com/capitolstream/hearings-cli/pkg/anthropic"
)

const systemPrompt = `You match YouTube videos of congressional committee events with official Congress records. Be precise and only match if you're confident they refer to the same event. Respond with a valid JSON object: {"event_id": "<eventId or null>", "confidence": "<high|medium|low>", "reasoning": "<brief explanation>"}`

const userPromptHeader = `You are matching YouTube videos of congressional committee events with official Congress records.

YouTube Video:
- Date: %s
- Title: %s

Potential Congress Matches:
%s
Which Congress event (if any) matches this YouTube video? Consider:
1. Dates should be the same or very close (within a few days)
2. Titles should refer to the same event (even if worded differently)
3. "Full Committee Markup" on YouTube likely matches any "Markup" event on the same day
4. Sometimes YouTube titles are more descriptive than Congress titles

Return the event_id of the best match, or null if none are good matches.`

// Adjudicator resolves uncertain matches via the Anthropic API.
type Adjudicator struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// New creates an Adjudicator using the given Anthropic client.
func New(client anthropic.Client, cfg config.AnthropicConfig) *Adjudicator {
	return &Adjudicator{client: client, cfg: cfg}
}

// Decide asks the model which of the candidate events the video records.
// A nil Adjudication with a nil error means the model declined to match.
func (a *Adjudicator) Decide(ctx context.Context, video *model.VideoRecord, candidates []*model.CongressEvent) (*model.Adjudication, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	temp := 0.0
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		System:      systemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(video, candidates)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "adjudicator: create message")
	}
	resp.Usage.LogCost(a.cfg.Model, "adjudicate")

	decision, err := parseDecision(resp.Text)
	if err != nil {
		return nil, eris.Wrap(err, "adjudicator: parse decision")
	}

	zap.L().Debug("adjudicator: decision",
		zap.String("video_id", video.VideoID),
		zap.String("event_id", decision.EventID),
		zap.String("confidence", string(decision.Confidence)),
	)

	if decision.EventID == "" {
		return nil, nil
	}
	return decision, nil
}

func buildPrompt(video *model.VideoRecord, candidates []*model.CongressEvent) string {
	var b strings.Builder
	for i, ev := range candidates {
		fmt.Fprintf(&b, "%d. Congress Event ID: %s\n", i+1, ev.EventID)
		fmt.Fprintf(&b, "   Date: %s\n", orUnknown(ev.DateString()))
		fmt.Fprintf(&b, "   Title: %s\n", ev.Title)
		fmt.Fprintf(&b, "   Type: %s\n", orUnknown(ev.EventType))
		fmt.Fprintf(&b, "   Committee: %s\n", orUnknown(ev.CommitteeName))
	}
	return fmt.Sprintf(userPromptHeader, orUnknown(video.DateString()), video.Title, b.String())
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// parseDecision unmarshals the model's JSON reply. The model sometimes
// wraps the object in markdown fences or surrounding prose; cleanJSON
// strips both before unmarshaling. "null", "none" and empty event IDs
// all mean no match.
func parseDecision(text string) (*model.Adjudication, error) {
	text = cleanJSON(text)

	var result struct {
		EventID    *string `json:"event_id"`
		Confidence string  `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, eris.Wrap(err, "unmarshal decision")
	}

	decision := &model.Adjudication{
		Confidence: normalizeConfidence(result.Confidence),
		Reasoning:  strings.TrimSpace(result.Reasoning),
	}
	if result.EventID != nil {
		id := strings.TrimSpace(*result.EventID)
		if !strings.EqualFold(id, "null") && !strings.EqualFold(id, "none") {
			decision.EventID = id
		}
	}
	return decision, nil
}

func normalizeConfidence(s string) model.AdjudicationConfidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return model.AdjudicationHigh
	case "medium":
		return model.AdjudicationMedium
	default:
		return model.AdjudicationLow
	}
}

// cleanJSON strips markdown code fences and surrounding prose from a
// model response, leaving the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
