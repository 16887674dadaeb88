package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/anthropic"
)

const systemPrompt = `You are an expert technical recruiter and networker helping the operator described below reach out to new contacts. Write in the operator's voice where asked to.

Operator bio: %s`

const summaryPrompt = `Summarize the following profile in 4-6 bullet points: focus on seniority, notable work, tech stack, domain expertise, and signals of influence (talks, OSS, publications).

%s

Return only the bullet list, concise and specific.`

const notePrompt = `Write a short, warm, and specific connection note (max 280 characters) that sounds human, not salesy.
Include one concrete detail from their profile (project, role, domain, or skill).
Avoid emojis. Use first name if available.

%s

Return only the final note, no preface.`

// Summarizer generates profile summaries and connection notes with Claude.
// The operator bio is an explicit configuration value threaded into every
// prompt; it rides in a cached system block since it repeats per profile.
type Summarizer struct {
	client   anthropic.Client
	cfg      config.AnthropicConfig
	ownerBio string
	log      *zap.Logger
}

// New creates a Summarizer.
func New(client anthropic.Client, cfg config.AnthropicConfig, ownerBio string) *Summarizer {
	return &Summarizer{
		client:   client,
		cfg:      cfg,
		ownerBio: ownerBio,
		log:      zap.L().Named("summarize"),
	}
}

// Summarize produces a recruiter-style bullet summary of the profile.
func (s *Summarizer) Summarize(ctx context.Context, p *model.Profile) (string, error) {
	text, err := s.generate(ctx, fmt.Sprintf(summaryPrompt, profileContext(p)))
	if err != nil {
		return "", eris.Wrap(err, "summarize: profile summary")
	}
	return text, nil
}

// CraftNote produces a personalized connection note. The actor enforces the
// 280-character contract at fill time; the prompt just aims for it.
func (s *Summarizer) CraftNote(ctx context.Context, p *model.Profile) (string, error) {
	text, err := s.generate(ctx, fmt.Sprintf(notePrompt, profileContext(p)))
	if err != nil {
		return "", eris.Wrap(err, "summarize: craft note")
	}
	return strings.Join(strings.Fields(text), " "), nil
}

func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.cfg.Model,
		MaxTokens: int64(s.cfg.MaxTokens),
		System: []anthropic.SystemBlock{{
			Text:         fmt.Sprintf(systemPrompt, s.ownerBio),
			CacheControl: &anthropic.CacheControl{TTL: "5m"},
		}},
		Messages: []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogUsage(s.cfg.Model, "summarize")
	return resp.Text(), nil
}

// profileContext renders the profile for the prompt, labeling absent fields
// explicitly so the model does not invent them.
func profileContext(p *model.Profile) string {
	var sb strings.Builder
	field := func(label, value string) {
		if value == "" {
			value = "N/A"
		}
		fmt.Fprintf(&sb, "%s: %s\n", label, value)
	}

	field("Name", model.Deref(p.Name))
	field("Headline", model.Deref(p.Headline))
	field("Position", model.Deref(p.Position))
	field("Location", model.Deref(p.Location))
	field("About", model.Deref(p.About))
	field("Experiences", strings.Join(p.Experiences, ", "))
	field("Education", strings.Join(p.Education, ", "))
	field("Skills", strings.Join(p.Skills, ", "))
	if p.Followers != nil {
		field("Followers", fmt.Sprintf("%d", *p.Followers))
	} else {
		field("Followers", "")
	}
	return sb.String()
}
