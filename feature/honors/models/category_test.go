package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryRank(t *testing.T) {
	assert.Greater(t, CategoryWinner.Rank(), CategoryNominee.Rank())
	assert.Greater(t, CategoryNominee.Rank(), CategorySpecial.Rank())
	assert.Equal(t, 0, Category("Honorable").Rank())
	assert.False(t, Category("").Valid())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Winner", CategoryWinner},
		{" nominee ", CategoryNominee},
		{"Recommended", CategorySpecial},
		{"special", CategorySpecial},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseCategory("runner-up")
	assert.Error(t, err)
}

func TestCanonicalHonorKeys(t *testing.T) {
	h := CanonicalHonor{ExternalGameID: "42", Year: 2024, AwardType: "Spiel des Jahres", Category: CategoryWinner}
	assert.Equal(t, HonorKey{GameID: "42", Year: 2024, AwardType: "Spiel des Jahres"}, h.Key())
	assert.Equal(t, MergeKey{Year: 2024, AwardType: "Spiel des Jahres", Category: CategoryWinner}, h.MergeKey())
	assert.Equal(t, "42/2024/Spiel des Jahres", h.Key().String())
}
