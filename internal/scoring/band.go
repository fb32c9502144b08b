package scoring

import "math"

// bandLadder holds inclusive lower bounds on the percentage of correct
// units, highest first.
var bandLadder = []struct {
	minPercent int
	band       int
}{
	{85, 9},
	{75, 8},
	{65, 7},
	{55, 6},
	{45, 5},
	{35, 4},
	{25, 3},
	{15, 2},
	{5, 1},
}

// BandScore maps correct/total onto the 0–9 IELTS band. A total of zero
// yields band 0.
func BandScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	if correct < 0 {
		correct = 0
	}
	// 100*correct/total >= p, compared without floating point
	for _, step := range bandLadder {
		if 100*correct >= step.minPercent*total {
			return step.band
		}
	}
	return 0
}

// Percentage returns 100*correct/total rounded to two decimals, or 0 for
// an empty total.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := 100 * float64(correct) / float64(total)
	return math.Round(p*100) / 100
}

// BandDescriptor is the public wording for a band.
type BandDescriptor struct {
	SkillLevel  string `json:"skill_level"`
	Description string `json:"description"`
}

var bandDescriptors = map[int]BandDescriptor{
	9: {"Expert user", "Fully operational command of the language: fluent, precise, and well-understood."},
	8: {"Very good user", "Efficient in language use with minor inaccuracies or misunderstandings in unfamiliar contexts."},
	7: {"Good user", "Handles language well with occasional lapses; understands detailed arguments effectively."},
	6: {"Competent user", "Effective in familiar situations but prone to errors in complex language."},
	5: {"Modest user", "Basic command of language, often requiring repetition or clarification for accuracy."},
	4: {"Limited user", "Copes with simple situations but struggles with understanding or expressing detailed meaning."},
	3: {"Extremely limited user", "Communicates basic needs but suffers frequent communication breakdowns."},
	2: {"Intermittent user", "Uses isolated words and phrases to meet immediate needs; struggles with understanding."},
	1: {"Non-user", "Unable to use language beyond isolated words."},
	0: {"Did not attempt test", "No attempt to answer the test questions."},
}

var unknownBand = BandDescriptor{SkillLevel: "Unknown", Description: "No description available."}

// DescribeBand returns the descriptor for band, or an "Unknown" descriptor
// when band is outside 0–9.
func DescribeBand(band int) BandDescriptor {
	if d, ok := bandDescriptors[band]; ok {
		return d
	}
	return unknownBand
}
