package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yearcal/internal/model"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		title string
		want  Category
	}{
		{"Trip to Japan?", Trip | Tentative},
		{"Visit: Mom & Dad", Visit},
		{"Sarah's 30th Birthday", Birthday},
		{"Team offsite", Plain},
		{"ROAD TRIP", Trip},
		{"Dinner?", Tentative},
		{"Aniversário da Ana", Birthday},
		{"aniversari de l'Anna", Birthday},
		{"Mike bday", Birthday},
		{"Planning a visit: maybe", Plain},
		{"  visit: grandma", Visit},
	}

	for _, tc := range tests {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, Title(tc.title))
		})
	}
}

func TestVisitIsNotTrip(t *testing.T) {
	e := model.CalendarEvent{Summary: "Visit: Mom & Dad"}
	assert.True(t, IsVisit(e))
	assert.False(t, IsTrip(e))
	assert.False(t, IsTentative(e))
}

func TestCategoryHas(t *testing.T) {
	c := Trip | Tentative
	assert.True(t, c.Has(Trip))
	assert.True(t, c.Has(Tentative))
	assert.True(t, c.Has(Trip|Tentative))
	assert.False(t, c.Has(Visit))
	assert.False(t, c.Has(Plain))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "tentative+trip", (Trip | Tentative).String())

	b, err := Birthday.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "birthday", string(b))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "aniversario", Fold("ANIVERSÁRIO"))
	assert.True(t, ContainsFold("Café Meeting", "cafe"))
	assert.False(t, ContainsFold("Lunch", "dinner"))
}

func TestDecorationColor(t *testing.T) {
	assert.Equal(t, "#111", DecorationColor("", Tentative, "#111"))
	assert.Equal(t, "#111", DecorationColor("#111", Tentative, "#222"))
	assert.Equal(t, "#222", DecorationColor("#111", Trip|Tentative, "#222"))
	assert.Equal(t, "#333", DecorationColor("#111", Visit, "#333"))
}
