package view

import (
	"time"

	"github.com/starford/archivist/internal/apperr"
	"github.com/starford/archivist/internal/models"
)

const secondsPerDay = 24 * 60 * 60

// DailyCard is the home-page highlight.
type DailyCard struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Dates   string `json:"dates"`
	Summary string `json:"summary"`
	Day     int64  `json:"day"`
}

// DayNumber is the count of whole UTC days since the Unix epoch.
func DayNumber(now time.Time) int64 {
	s := now.Unix()
	d := s / secondsPerDay
	if s%secondsPerDay < 0 {
		d--
	}
	return d
}

// DailyIndex picks the collection index for the day containing now. n must be
// positive.
func DailyIndex(now time.Time, n int) int {
	i := DayNumber(now) % int64(n)
	if i < 0 {
		i += int64(n)
	}
	return int(i)
}

// DailyPick selects the entity highlighted for the day containing now. The
// choice depends only on the day and the collection size.
func DailyPick(now time.Time, entities []models.Entity) (DailyCard, error) {
	if len(entities) == 0 {
		return DailyCard{}, apperr.ErrEmptyCollection
	}
	e := entities[DailyIndex(now, len(entities))]
	return DailyCard{
		ID:      e.ID,
		Name:    e.Name,
		Type:    string(e.Type),
		Dates:   e.Dates,
		Summary: e.Summary,
		Day:     DayNumber(now),
	}, nil
}
