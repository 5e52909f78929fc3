package algorithms

import (
	"math"
	"sort"
	"strings"
)

const (
	// SkillWeight scales the skill percentage, NSQFBonus is added when the
	// learner's level satisfies the job minimum.
	SkillWeight = 0.7
	NSQFBonus   = 30.0

	// MinMatchScore drops weak candidates from ranked lists.
	MinMatchScore = 40
	// MaxLearnersPerJob caps the job -> learners ranking.
	MaxLearnersPerJob = 20
)

// MatchInput is everything the scorer needs about one learner/job pair.
type MatchInput struct {
	LearnerSkills  []string
	RequiredSkills []string
	LearnerLevel   int
	MinNSQFLevel   int
}

type MatchResult struct {
	Score           int      `json:"score"`
	SkillPercentage float64  `json:"skill_match_percentage"`
	NSQFMatch       bool     `json:"nsqf_match"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
}

// NormalizeSkills lower cases and trims names, dropping empty ones.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SkillsOverlap reports whether a and b name the same skill: either one
// contains the other. Both must already be normalized.
func SkillsOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// HasSkill reports whether any of skills overlaps required.
func HasSkill(skills []string, required string) bool {
	for _, s := range skills {
		if SkillsOverlap(s, required) {
			return true
		}
	}
	return false
}

// SkillPercentage returns matched/total*100. A job without required skills
// is a full match.
func SkillPercentage(matched, total int) float64 {
	if total <= 0 {
		return 100
	}
	return float64(matched) / float64(total) * 100
}

// ComputeMatch scores one learner against one job.
func ComputeMatch(in MatchInput) MatchResult {
	learner := NormalizeSkills(in.LearnerSkills)
	required := NormalizeSkills(in.RequiredSkills)

	res := MatchResult{
		MatchedSkills: []string{},
		MissingSkills: []string{},
	}
	for _, req := range required {
		if HasSkill(learner, req) {
			res.MatchedSkills = append(res.MatchedSkills, req)
		} else {
			res.MissingSkills = append(res.MissingSkills, req)
		}
	}

	pct := SkillPercentage(len(res.MatchedSkills), len(required))
	res.NSQFMatch = in.LearnerLevel >= in.MinNSQFLevel
	res.SkillPercentage = math.Round(pct*100) / 100
	res.Score = Score(pct, res.NSQFMatch)
	return res
}

// Score combines the skill percentage and the NSQF flag into 0..100.
func Score(skillPercentage float64, nsqfMatch bool) int {
	score := skillPercentage * SkillWeight
	if nsqfMatch {
		score += NSQFBonus
	}
	return int(math.Round(score))
}

// MaxLevel returns the highest level in levels, or 0 for none.
func MaxLevel(levels []int) int {
	max := 0
	for _, l := range levels {
		if l > max {
			max = l
		}
	}
	return max
}

// Ranked is a scored candidate identified by ID.
type Ranked struct {
	ID    string
	Match MatchResult
}

// Rank drops results under MinMatchScore, sorts by score descending (ties by
// ID) and keeps at most limit entries. limit <= 0 keeps everything.
func Rank(items []Ranked, limit int) []Ranked {
	kept := make([]Ranked, 0, len(items))
	for _, it := range items {
		if it.Match.Score >= MinMatchScore {
			kept = append(kept, it)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Match.Score != kept[j].Match.Score {
			return kept[i].Match.Score > kept[j].Match.Score
		}
		return kept[i].ID < kept[j].ID
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
