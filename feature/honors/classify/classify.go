package classify

import (
	"regexp"
	"strings"

	"honor-sync/feature/honors/awards"
	"honor-sync/feature/honors/models"
)

// Rule names the step that decided a verdict.
type Rule string

const (
	RuleOtherAward    Rule = "other_award"
	RuleExcluded      Rule = "excluded_variant"
	RuleRecommended   Rule = "recommended"
	RuleNominee       Rule = "nominee"
	RuleWinner        Rule = "winner"
	RuleSpecial       Rule = "special"
	RuleWinnerVariant Rule = "winner_variant"
	RuleDefault       Rule = "default"
)

// Verdict is the classifier output for one entry.
type Verdict struct {
	AwardType string
	Category  models.Category
	Rule      Rule
	// Applicable is false when the entry belongs to another award family.
	Applicable bool
}

var (
	leadingYear   = regexp.MustCompile(`^\s*\d{4}\b\s*`)
	winnerVariant = regexp.MustCompile(`(?im)[- ]winner$`)
)

// AwardType strips a leading four digit year and surrounding whitespace from an award set.
func AwardType(awardSet string) string {
	return strings.Join(strings.Fields(leadingYear.ReplaceAllString(awardSet, "")), " ")
}

// Classifier assigns award types and categories for one award family.
type Classifier struct {
	award *awards.Award
}

// New returns a classifier driven by the award's rule table.
func New(award *awards.Award) *Classifier {
	return &Classifier{award: award}
}

// Award returns the rule table in use.
func (c *Classifier) Award() *awards.Award {
	return c.award
}

// Classify derives the award type and category of an entry.
//
// Rules run in a fixed order over the slug, title, and position: excluded
// variant, recommended, nominee, plain winner, side award, "-winner" suffix,
// then Special as the default. Recommended and nominee come before winner
// because scraped titles often carry several of these words at once.
func (c *Classifier) Classify(e models.HonorEntry) Verdict {
	awardType := AwardType(e.AwardSet)
	if !c.award.Matches(awardType) {
		return Verdict{AwardType: awardType, Rule: RuleOtherAward}
	}
	// Aliases collapse onto the canonical name so one scope covers them all.
	v := Verdict{AwardType: c.award.Name, Applicable: true}

	text := strings.ToLower(strings.Join([]string{e.Slug, e.Title, e.Position}, "\n"))

	switch {
	case matchAny(c.award.Exclude(), text):
		return Verdict{AwardType: v.AwardType, Rule: RuleExcluded}
	case matchAny(c.award.Recommended(), text):
		v.Category, v.Rule = models.CategorySpecial, RuleRecommended
	case matchAny(c.award.Nominee(), text):
		v.Category, v.Rule = models.CategoryNominee, RuleNominee
	case matchAny(c.award.Winner(), text):
		v.Category, v.Rule = models.CategoryWinner, RuleWinner
	case matchAny(c.award.Special(), text):
		v.Category, v.Rule = models.CategorySpecial, RuleSpecial
	case winnerVariant.MatchString(text):
		v.Category, v.Rule = models.CategorySpecial, RuleWinnerVariant
	default:
		v.Category, v.Rule = models.CategorySpecial, RuleDefault
	}
	return v
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
