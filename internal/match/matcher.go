package match

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/carebridge/registry-backend/internal/logger"
	"github.com/carebridge/registry-backend/internal/types"
)

// ScoreThreshold is the fixed cutoff for both name scores. A candidate
// matches a stored patient only when both fuzzy scores are strictly above it
// and birth date and gender are exactly equal.
const ScoreThreshold = 80

type Matcher struct {
	log *logger.Logger
}

func NewMatcher(baseLog *logger.Logger) *Matcher {
	return &Matcher{log: baseLog.With("service", "PatientMatcher")}
}

// FindMatch scans the whole population in storage order and returns the
// first stored patient that satisfies all four conditions, or nil. First hit
// wins: a later, better-scoring record is never preferred. The scan is O(n)
// per candidate on purpose; any future index must preserve which record
// counts as "first".
func (m *Matcher) FindMatch(candidate types.PatientData, population []*types.Patient) *types.Patient {
	for _, patient := range population {
		nameScore := fuzzy.TokenSortRatio(candidate.GivenName, patient.GivenName)
		surnameScore := SurnameScore(candidate.FamilyName, patient.FamilyName)
		dobMatch := candidate.DateOfBirth == patient.DateOfBirth
		genderMatch := candidate.Gender == patient.Gender

		if nameScore > ScoreThreshold && surnameScore > ScoreThreshold && dobMatch && genderMatch {
			m.log.Info("Matching patient found",
				"patient_uuid", patient.PatientUUID.String(),
				"name_score", nameScore,
				"surname_score", surnameScore,
			)
			return patient
		}
	}
	m.log.Info("No matching patient found",
		"given_name", candidate.GivenName,
		"family_name", candidate.FamilyName,
	)
	return nil
}

// SurnameScore splits both surname fields into whitespace tokens and returns
// the best pairwise fuzzy score. Compound surnames ("Garcia Lopez") match a
// stored single surname through their best component, not through the whole
// string. Either side empty scores 0.
func SurnameScore(candidateSurnames, storedSurnames string) int {
	candidateTokens := strings.Fields(candidateSurnames)
	storedTokens := strings.Fields(storedSurnames)

	maxScore := 0
	for _, ct := range candidateTokens {
		for _, st := range storedTokens {
			if score := fuzzy.TokenSortRatio(ct, st); score > maxScore {
				maxScore = score
			}
		}
	}
	return maxScore
}
