package algorithms

import (
	"sort"
	"strings"

	"credmatrix_backend/internal/models"
)

type NSQFPathway struct {
	CurrentLevel   int                     `json:"current_level"`
	TargetLevel    int                     `json:"target_level"`
	SuggestedTypes []models.CredentialType `json:"suggested_credential_types"`
	Description    string                  `json:"description"`
}

type CareerRecommendation struct {
	Role            string      `json:"role"`
	MatchPercentage int         `json:"match_percentage"`
	MatchedSkills   []string    `json:"matched_skills"`
	MissingSkills   []string    `json:"missing_skills"`
	Pathway         NSQFPathway `json:"nsqf_pathway"`
}

var levelDescriptions = map[int]string{
	1:  "Entry level awareness of the field",
	2:  "Routine tasks under close supervision",
	3:  "Routine tasks with limited supervision",
	4:  "Skilled work in familiar contexts",
	5:  "Skilled work with responsibility for own output",
	6:  "Technical work and supervision of others",
	7:  "Professional work requiring a degree level understanding",
	8:  "Specialised professional or managerial work",
	9:  "Advanced expertise and leadership",
	10: "Research and original contribution to the field",
}

// NextPathway suggests the next NSQF step from the learner's current level.
func NextPathway(current int) NSQFPathway {
	target := current + 1
	if target > MaxNSQFLevel {
		target = MaxNSQFLevel
	}
	if target < MinNSQFLevel {
		target = MinNSQFLevel
	}

	var types []models.CredentialType
	switch {
	case target <= 3:
		types = []models.CredentialType{models.CredentialTypeBadge, models.CredentialTypeMicroCredential}
	case target == 4:
		types = []models.CredentialType{models.CredentialTypeMicroCredential, models.CredentialTypeCertificate}
	case target == 5:
		types = []models.CredentialType{models.CredentialTypeCertificate}
	case target == 6:
		types = []models.CredentialType{models.CredentialTypeDiploma, models.CredentialTypeCertificate}
	default:
		types = []models.CredentialType{models.CredentialTypeDegree, models.CredentialTypeDiploma}
	}

	return NSQFPathway{
		CurrentLevel:   current,
		TargetLevel:    target,
		SuggestedTypes: types,
		Description:    levelDescriptions[target],
	}
}

// RecommendCareers ranks catalog roles by how many of their skills the learner
// already has and returns the best limit roles.
func RecommendCareers(skills []string, currentLevel, limit int) []CareerRecommendation {
	normalized := NormalizeSkills(skills)
	pathway := NextPathway(currentLevel)

	recs := make([]CareerRecommendation, 0, len(roleCatalog))
	for role, required := range roleCatalog {
		rec := CareerRecommendation{
			Role:          role,
			MatchedSkills: []string{},
			MissingSkills: []string{},
			Pathway:       pathway,
		}
		for _, skill := range required {
			if HasSkill(normalized, strings.ToLower(skill)) {
				rec.MatchedSkills = append(rec.MatchedSkills, skill)
			} else {
				rec.MissingSkills = append(rec.MissingSkills, skill)
			}
		}
		rec.MatchPercentage = gapPercentage(len(required), len(rec.MissingSkills))
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].MatchPercentage != recs[j].MatchPercentage {
			return recs[i].MatchPercentage > recs[j].MatchPercentage
		}
		return recs[i].Role < recs[j].Role
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
