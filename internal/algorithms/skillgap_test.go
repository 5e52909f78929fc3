package algorithms

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"swe", "Software Engineer"},
		{"Frontend", "Frontend Developer"},
		{"data analyst", "Data Analyst"},
		{"senior backend engineer", "Backend Developer"},
		{"junior full stack dev", "Full Stack Developer"},
		{"astronaut pilot", "Astronaut Pilot"},
		{"  électricien  de bord ", "Électricien De Bord"},
		{"iOS dev", "IOS Dev"},
		{"ürün yöneticisi", "Ürün Yöneticisi"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRole(tt.input))
		})
	}
}

func TestAvailableRoles(t *testing.T) {
	roles := AvailableRoles()
	assert.Len(t, roles, 20)
	assert.Contains(t, roles, "Software Engineer")
}

func TestAnalyzeGap_FullSkillsIsComplete(t *testing.T) {
	for _, role := range AvailableRoles() {
		required, ok := RequiredSkillsFor(role)
		require.True(t, ok)

		res := AnalyzeGap(context.Background(), required, role, nil)
		assert.True(t, res.RoleFound, role)
		assert.Equal(t, 100, res.MatchPercentage, role)
		assert.Empty(t, res.MissingSkills, role)
	}
}

func TestAnalyzeGap_Partial(t *testing.T) {
	res := AnalyzeGap(context.Background(), []string{"html", "CSS", "javascript"}, "frontend", nil)

	assert.Equal(t, "Frontend Developer", res.TargetRole)
	assert.ElementsMatch(t, []string{"React", "TypeScript", "Responsive Design", "Git"}, res.MissingSkills)
	assert.Equal(t, 43, res.MatchPercentage)
	assert.Len(t, res.Recommendations, len(res.MissingSkills)+1)
}

func TestAnalyzeGap_UnknownRole(t *testing.T) {
	res := AnalyzeGap(context.Background(), []string{"python"}, "astronaut", nil)

	assert.False(t, res.RoleFound)
	assert.Equal(t, "Astronaut", res.TargetRole)
	assert.Len(t, res.AvailableRoles, 20)
	assert.Empty(t, res.MissingSkills)
}

func TestAnalyzeGap_UnknownRoleKeepsUTF8(t *testing.T) {
	res := AnalyzeGap(context.Background(), nil, "électricien", nil)

	assert.False(t, res.RoleFound)
	assert.Equal(t, "Électricien", res.TargetRole)
	assert.True(t, utf8.ValidString(res.TargetRole))
}

func TestAnalyzeGap_JudgeWithPerSkillFallback(t *testing.T) {
	calls := 0
	judge := func(_ context.Context, _ []string, required string) (bool, bool) {
		calls++
		if required == "Git" {
			return false, false
		}
		return strings.HasPrefix(required, "HTML") || required == "CSS", true
	}

	res := AnalyzeGap(context.Background(), []string{"git"}, "Frontend Developer", judge)

	assert.Equal(t, 7, calls)
	assert.ElementsMatch(t, []string{"HTML", "CSS", "Git"}, res.MatchedSkills)
	for _, v := range res.Verdicts {
		if v.Skill == "Git" {
			assert.Equal(t, "fallback", v.Source)
		} else {
			assert.Equal(t, "ai", v.Source)
		}
	}
}
