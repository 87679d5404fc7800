// Package srs implements the SM-2 spaced repetition scheduling algorithm.
//
// The scheduler is a pure function over (quality, repetitions, easiness,
// interval). Review scheduling is the product's retention model, so the
// constants here are fixed: changing them silently reshapes every learner's
// long-term review schedule.
package srs

import (
	"errors"
	"math"
	"time"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
)

// Quality bounds of the SM-2 recall signal.
const (
	MinQuality = 0
	MaxQuality = 5

	// PassThreshold is the lowest quality counted as a successful recall.
	PassThreshold = 3
)

// ErrInvalidQuality is returned when quality is outside the 0-5 range.
var ErrInvalidQuality = errors.New("quality must be between 0 and 5")

// ErrNilMemory is returned when a nil memory trace is passed to Advance.
var ErrNilMemory = errors.New("exercise memory cannot be nil")

// Result holds the next scheduling state computed by ComputeNext.
type Result struct {
	Repetitions  int
	Easiness     float64
	Interval     int // Days
	NextReviewAt time.Time
}

// ComputeNext computes the next review state from a recall quality signal and
// the prior memory state.
//
// On success (quality >= 3) the interval ladder is 1 day, then 6 days, then
// round(interval * easiness), and repetitions advances. On failure the item
// drops back to the start: repetitions 0, interval 1, reviewed again almost
// immediately. Easiness is adjusted on every answer, success or not, by
//
//	easiness += 0.1 - (5-q) * (0.08 + (5-q)*0.02)
//
// and floored at 1.3 so intervals keep growing even for the hardest items.
func ComputeNext(
	quality int,
	repetitions int,
	easiness float64,
	interval int,
	now time.Time,
) (Result, error) {
	if quality < MinQuality || quality > MaxQuality {
		return Result{}, ErrInvalidQuality
	}

	if quality >= PassThreshold {
		switch repetitions {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = int(math.Round(float64(interval) * easiness))
		}
		repetitions++
	} else {
		repetitions = 0
		interval = 1
	}

	q := float64(quality)
	easiness += 0.1 - (5.0-q)*(0.08+(5.0-q)*0.02)
	if easiness < domain.MinEasiness {
		easiness = domain.MinEasiness
	}

	return Result{
		Repetitions:  repetitions,
		Easiness:     easiness,
		Interval:     interval,
		NextReviewAt: now.AddDate(0, 0, interval),
	}, nil
}

// Advance returns a new ExerciseMemory updated with the scheduling state for
// the given quality signal. The input memory is not modified; callers persist
// the returned copy.
func Advance(memory *domain.ExerciseMemory, quality int, now time.Time) (*domain.ExerciseMemory, error) {
	if memory == nil {
		return nil, ErrNilMemory
	}

	next, err := ComputeNext(quality, memory.Repetitions, memory.Easiness, memory.Interval, now)
	if err != nil {
		return nil, err
	}

	updated := *memory
	updated.Repetitions = next.Repetitions
	updated.Easiness = next.Easiness
	updated.Interval = next.Interval
	updated.NextReviewAt = next.NextReviewAt
	updated.UpdatedAt = now

	return &updated, nil
}
