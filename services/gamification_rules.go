// services/gamification_rules.go
//
// Pure rule evaluation for the gamification engine. Nothing in this file
// touches the database, which keeps level math, badge qualification and
// streak arithmetic independently testable.
package services

import (
	"encoding/json"
	"math"
	"time"

	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/shared"
)

// LevelForXP maps cumulative experience to a level. level(0) = 1 and the
// function is monotonic, so recomputing on every XP change can never drift.
func LevelForXP(experiencePoints int) int {
	if experiencePoints < 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(experiencePoints)/100))) + 1
}

// XPForLevel returns the cumulative experience needed to reach a level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return 100 * (level - 1) * (level - 1)
}

// XPToNextLevel returns how much more experience the next level needs.
func XPToNextLevel(experiencePoints int) int {
	return XPForLevel(LevelForXP(experiencePoints)+1) - experiencePoints
}

// CompareCounter evaluates one counter value against a threshold. An empty
// op defaults to greater_than, which is strict: a requirement of
// "greater_than 1" is not met by exactly 1.
func CompareCounter(value, threshold int, op string) bool {
	switch op {
	case shared.CompareEqualTo:
		return value == threshold
	case shared.CompareLessThan:
		return value < threshold
	case shared.CompareGreaterThan, "":
		return value > threshold
	default:
		return false
	}
}

// CounterValue resolves a requirement's counter type to the matching profile
// counter. Unknown types resolve to -1 so no sane threshold matches them.
func CounterValue(profile *model.UserProfile, counterType string) int {
	switch counterType {
	case shared.CounterCourseCompletion:
		return profile.CoursesCompleted
	case shared.CounterLessonCompletion:
		return profile.LessonsCompleted
	case shared.CounterStreak:
		return profile.Streak
	case shared.CounterPoints:
		return profile.TotalPoints
	case shared.CounterTime:
		return profile.TotalStudyTime
	case shared.CounterQuizScore:
		return profile.QuizzesPassed
	case shared.CounterCodeExercise:
		return profile.CodeExercisesCompleted
	default:
		return -1
	}
}

// BadgeQualifies reports whether every requirement of the badge holds for
// the profile's current counters. A badge with no parseable requirements
// never qualifies.
func BadgeQualifies(profile *model.UserProfile, badge *model.Badge) bool {
	var requirements []model.BadgeRequirement
	if err := json.Unmarshal(badge.Requirements, &requirements); err != nil {
		return false
	}
	if len(requirements) == 0 {
		return false
	}

	for _, req := range requirements {
		value := CounterValue(profile, req.CounterType)
		if !CompareCounter(value, req.ThresholdValue, req.ComparisonOp) {
			return false
		}
	}
	return true
}

// NewlyQualifyingBadges returns the active badges the profile qualifies for
// and has not yet earned. Single pass: bonus points from one badge in this
// result do not re-qualify others until the next evaluation.
func NewlyQualifyingBadges(profile *model.UserProfile, badges []model.Badge, earned map[string]bool) []model.Badge {
	var qualifying []model.Badge
	for i := range badges {
		badge := &badges[i]
		if !badge.IsActive || earned[badge.ID] {
			continue
		}
		if BadgeQualifies(profile, badge) {
			qualifying = append(qualifying, *badge)
		}
	}
	return qualifying
}

// Midnight truncates a time to its UTC calendar day. UTC days are exactly
// 24h apart; local midnights are not across a DST transition, which would
// make the division below under-count.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayDifference returns whole calendar days between two instants, after
// normalizing both to midnight. Negative when 'from' is in the future.
func DayDifference(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)).Hours() / 24)
}
