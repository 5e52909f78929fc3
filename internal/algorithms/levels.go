package algorithms

import (
	"strings"

	"credmatrix_backend/internal/models"
)

const (
	MinNSQFLevel = 1
	MaxNSQFLevel = 10
)

// levelKeywords maps NSQF levels to phrases that usually identify them.
var levelKeywords = map[int][]string{
	10: {"phd", "ph.d", "doctorate", "doctoral"},
	9:  {"masters", "master", "m.tech", "mtech", "mba", "m.sc", "msc", "m.e."},
	8:  {"post graduate diploma", "pg diploma", "pgdm", "honours", "honors"},
	7:  {"bachelor", "b.tech", "btech", "b.e.", "b.sc", "bsc", "b.com", "bca", "bba", "undergraduate degree"},
	6:  {"advanced diploma", "polytechnic diploma", "diploma"},
	5:  {"advanced certificate", "professional certificate", "certification"},
	4:  {"iti", "higher secondary", "12th", "class xii", "senior secondary"},
	3:  {"secondary school", "10th", "class x", "matriculation"},
	2:  {"foundation", "beginner", "basic course"},
	1:  {"introduction", "orientation", "awareness"},
}

// typeDefaultLevels is used when neither the model nor the keywords decide.
var typeDefaultLevels = map[models.CredentialType]int{
	models.CredentialTypeCertificate:     5,
	models.CredentialTypeDiploma:         6,
	models.CredentialTypeDegree:          7,
	models.CredentialTypeMicroCredential: 4,
	models.CredentialTypeBadge:           3,
	models.CredentialTypeOther:           5,
}

// KeywordLevel checks the keyword table from level 10 down to 1 and returns
// the first level with a hit.
func KeywordLevel(text string) (int, bool) {
	lower := strings.ToLower(text)
	for level := MaxNSQFLevel; level >= MinNSQFLevel; level-- {
		for _, kw := range levelKeywords[level] {
			if ContainsTerm(lower, kw) {
				return level, true
			}
		}
	}
	return 0, false
}

// TypeDefaultLevel returns the level for a credential type, 5 when unknown.
func TypeDefaultLevel(t models.CredentialType) int {
	if level, ok := typeDefaultLevels[models.CredentialType(strings.ToLower(string(t)))]; ok {
		return level
	}
	return typeDefaultLevels[models.CredentialTypeOther]
}

// HeuristicLevel predicts a level without the model: keywords in text first,
// then the type default.
func HeuristicLevel(credType models.CredentialType, text string) int {
	if level, ok := KeywordLevel(text); ok {
		return level
	}
	return TypeDefaultLevel(credType)
}

func ValidNSQFLevel(level int) bool {
	return level >= MinNSQFLevel && level <= MaxNSQFLevel
}
