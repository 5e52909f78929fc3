package algorithms

import (
	"testing"

	"credmatrix_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendCareers(t *testing.T) {
	recs := RecommendCareers([]string{"Docker", "Kubernetes", "Linux", "Terraform", "AWS"}, 5, 3)

	require.Len(t, recs, 3)
	assert.Equal(t, "DevOps Engineer", recs[0].Role)
	assert.GreaterOrEqual(t, recs[0].MatchPercentage, recs[1].MatchPercentage)
	assert.Equal(t, 6, recs[0].Pathway.TargetLevel)
}

func TestNextPathway(t *testing.T) {
	p := NextPathway(0)
	assert.Equal(t, 1, p.TargetLevel)
	assert.Contains(t, p.SuggestedTypes, models.CredentialTypeBadge)

	p = NextPathway(10)
	assert.Equal(t, 10, p.TargetLevel)
	assert.Contains(t, p.SuggestedTypes, models.CredentialTypeDegree)

	p = NextPathway(5)
	assert.Equal(t, 6, p.TargetLevel)
	assert.Contains(t, p.SuggestedTypes, models.CredentialTypeDiploma)
}
