package domain

import (
	"encoding/json"
	"time"
)

// DailyStat holds one user's study counters for one calendar day.
type DailyStat struct {
	UserID           string    `json:"user_id"`
	Date             time.Time `json:"date"`
	WordsLearned     int       `json:"words_learned"`
	WordsReviewed    int       `json:"words_reviewed"`
	CorrectCount     int       `json:"correct_count"`
	IncorrectCount   int       `json:"incorrect_count"`
	StudyTimeMinutes int       `json:"study_time_minutes"`
}

// ProgressSummary is the per-user running total and streak record.
type ProgressSummary struct {
	UserID            string    `json:"user_id"`
	TotalWordsLearned int       `json:"total_words_learned"`
	TotalReviews      int       `json:"total_reviews"`
	CurrentStreak     int       `json:"current_streak"`
	LongestStreak     int       `json:"longest_streak"`
	LastStudyDate     time.Time `json:"last_study_date"` // Zero when the user never studied; encoded as null
	CreatedAt         time.Time `json:"created_at"`
}

// MarshalJSON encodes a zero LastStudyDate as null.
func (p ProgressSummary) MarshalJSON() ([]byte, error) {
	type plain ProgressSummary
	return json.Marshal(struct {
		plain
		LastStudyDate *time.Time `json:"last_study_date"`
	}{
		plain:         plain(p),
		LastStudyDate: optionalTime(p.LastStudyDate),
	})
}

// RecordStudyDay returns the summary after studying on today.
//
// Studying again on the last study date changes nothing. Studying on the day
// after it extends the current streak, and any other day (a gap, or the very
// first study day) starts a new streak of one. The longest streak never
// decreases.
func (p ProgressSummary) RecordStudyDay(today time.Time) ProgressSummary {
	today = CalendarDate(today)
	next := p

	if !p.LastStudyDate.IsZero() {
		last := CalendarDate(p.LastStudyDate)
		if last.Equal(today) {
			return next
		}
		if last.AddDate(0, 0, 1).Equal(today) {
			next.CurrentStreak = p.CurrentStreak + 1
			next.LongestStreak = max(p.LongestStreak, next.CurrentStreak)
			next.LastStudyDate = today
			return next
		}
	}

	next.CurrentStreak = 1
	next.LongestStreak = max(p.LongestStreak, 1)
	next.LastStudyDate = today
	return next
}

// Memory strength bucket thresholds.
const (
	StrongMemoryThreshold = 0.7
	GoodMemoryThreshold   = 0.4
	WeakMemoryThreshold   = 0.2
)

// MemoryDistribution counts a user's items by estimated memory strength.
type MemoryDistribution struct {
	Strong   int `json:"strong"`
	Good     int `json:"good"`
	Weak     int `json:"weak"`
	Critical int `json:"critical"`
	Total    int `json:"total"`
}

// Add places one strength estimate into its bucket.
func (d *MemoryDistribution) Add(strength float64) {
	d.Total++
	switch {
	case strength >= StrongMemoryThreshold:
		d.Strong++
	case strength >= GoodMemoryThreshold:
		d.Good++
	case strength >= WeakMemoryThreshold:
		d.Weak++
	default:
		d.Critical++
	}
}
