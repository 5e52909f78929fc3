package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"credmatrix_backend/internal/algorithms"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/models"
)

// MatchConfidence is the classifier score at which a required skill counts as met.
const MatchConfidence = 0.5

// Result carries a value and where it came from. Err holds the absorbed model
// failure when Source is fallback; it is never returned to callers as an error.
type Result[T any] struct {
	Value  T
	Source models.DataSource
	Err    error
}

func (r Result[T]) FromAI() bool {
	return r.Source == models.SourceAI
}

func fromAI[T any](v T) Result[T] {
	return Result[T]{Value: v, Source: models.SourceAI}
}

func fallback[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Source: models.SourceFallback, Err: err}
}

// CredentialData is what level prediction looks at.
type CredentialData struct {
	Title       string
	Type        models.CredentialType
	Category    string
	Description string
	Skills      []string
}

func (d CredentialData) text() string {
	parts := []string{d.Title, d.Category, d.Description}
	if len(d.Skills) > 0 {
		parts = append(parts, strings.Join(d.Skills, ", "))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Adapter wraps a Client with deterministic fallbacks. It never returns errors.
type Adapter struct {
	client  Client
	timeout time.Duration
}

// NewAdapter builds an adapter. A nil client makes every call use the fallback.
func NewAdapter(client Client, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Adapter{client: client, timeout: timeout}
}

var errDisabled = errors.New("ai: disabled")

// ExtractSkills asks the model for skills in text and falls back to the
// built in vocabulary scan.
func (a *Adapter) ExtractSkills(ctx context.Context, text string) Result[[]models.SkillTag] {
	start := time.Now()
	skills, err := a.extractWithModel(ctx, text)
	if err == nil {
		logger.AILog("extract_skills", string(models.SourceAI), time.Since(start), nil)
		return fromAI(skills)
	}

	logger.AILog("extract_skills", string(models.SourceFallback), time.Since(start), err)
	return fallback(vocabularySkills(text), err)
}

// PredictLevel asks the model for an NSQF level and falls back to the keyword
// table, then to the credential type default.
func (a *Adapter) PredictLevel(ctx context.Context, data CredentialData) Result[int] {
	start := time.Now()
	level, err := a.levelWithModel(ctx, data)
	if err == nil {
		logger.AILog("predict_level", string(models.SourceAI), time.Since(start), nil)
		return fromAI(level)
	}

	logger.AILog("predict_level", string(models.SourceFallback), time.Since(start), err)
	return fallback(algorithms.HeuristicLevel(data.Type, data.text()), err)
}

// MatchSkill is an algorithms.SkillJudge backed by the classifier. ok is false
// when the classifier could not answer.
func (a *Adapter) MatchSkill(ctx context.Context, current []string, required string) (bool, bool) {
	if a.client == nil || len(current) == 0 {
		return false, false
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text := "Candidate skills: " + strings.Join(current, ", ")
	start := time.Now()
	scores, err := a.client.Classify(callCtx, text, []string{required})
	if err != nil {
		logger.AILog("match_skill", string(models.SourceFallback), time.Since(start), err)
		return false, false
	}
	score, found := scores[required]
	if !found {
		logger.AILog("match_skill", string(models.SourceFallback), time.Since(start), ErrEmptyResponse)
		return false, false
	}
	return score >= MatchConfidence, true
}

const extractPrompt = `Extract the professional skills mentioned in the text below.
Reply with only a JSON array of objects with the keys "name" and "category".

Text:
%s`

const levelPrompt = `Estimate the NSQF (National Skills Qualifications Framework, India) level of this credential.
Reply with a single integer from 1 to 10.

Title: %s
Type: %s
Category: %s
Description: %s`

func (a *Adapter) extractWithModel(ctx context.Context, text string) ([]models.SkillTag, error) {
	if a.client == nil {
		return nil, errDisabled
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("ai: empty input")
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	out, err := a.client.Generate(callCtx, fmt.Sprintf(extractPrompt, text))
	if err != nil {
		return nil, err
	}
	return parseSkillList(out)
}

func (a *Adapter) levelWithModel(ctx context.Context, data CredentialData) (int, error) {
	if a.client == nil {
		return 0, errDisabled
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	out, err := a.client.Generate(callCtx, fmt.Sprintf(levelPrompt, data.Title, data.Type, data.Category, data.Description))
	if err != nil {
		return 0, err
	}
	return parseLevel(out)
}

// parseSkillList pulls the first JSON array out of the model reply.
func parseSkillList(out string) ([]models.SkillTag, error) {
	start := strings.Index(out, "[")
	end := strings.LastIndex(out, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("ai: no json array in %q", truncate(out, 80))
	}

	var raw []models.SkillTag
	if err := json.Unmarshal([]byte(out[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("ai: malformed skill list: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	skills := make([]models.SkillTag, 0, len(raw))
	for _, s := range raw {
		s.Name = strings.TrimSpace(s.Name)
		key := strings.ToLower(s.Name)
		if s.Name == "" || seen[key] {
			continue
		}
		seen[key] = true
		if s.Category == "" {
			s.Category = "general"
		}
		skills = append(skills, s)
	}
	if len(skills) == 0 {
		return nil, ErrEmptyResponse
	}
	return skills, nil
}

var firstNumber = regexp.MustCompile(`\d+`)

func parseLevel(out string) (int, error) {
	m := firstNumber.FindString(out)
	if m == "" {
		return 0, fmt.Errorf("ai: no level in %q", truncate(out, 80))
	}
	level, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("ai: bad level: %w", err)
	}
	if !algorithms.ValidNSQFLevel(level) {
		return 0, fmt.Errorf("ai: level %d out of range", level)
	}
	return level, nil
}

func vocabularySkills(text string) []models.SkillTag {
	entries := algorithms.ExtractKnownSkills(text)
	skills := make([]models.SkillTag, 0, len(entries))
	for _, e := range entries {
		skills = append(skills, models.SkillTag{Name: e.Name, Category: e.Category})
	}
	return skills
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
