package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func reviewTakenOn(year int, month time.Month) *Review {
	return &Review{DateTaken: time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)}
}

func TestTermTaken(t *testing.T) {
	assert.Equal(t, TermWinter, reviewTakenOn(2024, time.January).TermTaken())
	assert.Equal(t, TermWinter, reviewTakenOn(2024, time.April).TermTaken())
	assert.Equal(t, TermSummer, reviewTakenOn(2024, time.May).TermTaken())
	assert.Equal(t, TermSummer, reviewTakenOn(2024, time.August).TermTaken())
	assert.Equal(t, TermFall, reviewTakenOn(2024, time.September).TermTaken())
	assert.Equal(t, TermFall, reviewTakenOn(2024, time.December).TermTaken())
}

func TestYearTaken(t *testing.T) {
	assert.Equal(t, 2023, reviewTakenOn(2023, time.October).YearTaken())
}
