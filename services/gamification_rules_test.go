package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/shared"
	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 2, LevelForXP(399))
	assert.Equal(t, 3, LevelForXP(400))
	assert.Equal(t, 4, LevelForXP(900))

	// Negative XP clamps to level 1
	assert.Equal(t, 1, LevelForXP(-50))
}

func TestLevelForXPMonotonic(t *testing.T) {
	previous := 0
	for xp := 0; xp <= 5000; xp += 37 {
		level := LevelForXP(xp)
		assert.GreaterOrEqual(t, level, previous, "level dropped at xp=%d", xp)
		previous = level
	}
}

func TestXPForLevelRoundTrip(t *testing.T) {
	for level := 1; level <= 20; level++ {
		xp := XPForLevel(level)
		assert.Equal(t, level, LevelForXP(xp), "level %d boundary", level)
		if level > 1 {
			assert.Equal(t, level-1, LevelForXP(xp-1), "just below level %d boundary", level)
		}
	}
}

func TestXPToNextLevel(t *testing.T) {
	// At 0 XP the next level (2) needs 100
	assert.Equal(t, 100, XPToNextLevel(0))
	// At 150 XP the next level (3) needs 400, so 250 more
	assert.Equal(t, 250, XPToNextLevel(150))
}

func TestCompareCounterStrictBoundary(t *testing.T) {
	// greater_than is strict: exactly the threshold does not qualify
	assert.False(t, CompareCounter(1, 1, shared.CompareGreaterThan))
	assert.True(t, CompareCounter(2, 1, shared.CompareGreaterThan))

	assert.True(t, CompareCounter(1, 1, shared.CompareEqualTo))
	assert.False(t, CompareCounter(2, 1, shared.CompareEqualTo))

	assert.True(t, CompareCounter(0, 1, shared.CompareLessThan))
	assert.False(t, CompareCounter(1, 1, shared.CompareLessThan))

	// Empty op defaults to greater_than
	assert.True(t, CompareCounter(2, 1, ""))
	assert.False(t, CompareCounter(1, 1, ""))

	// Unknown op never matches
	assert.False(t, CompareCounter(10, 1, "at_least"))
}

func TestCounterValueUnknownType(t *testing.T) {
	profile := &model.UserProfile{LessonsCompleted: 5}

	assert.Equal(t, 5, CounterValue(profile, shared.CounterLessonCompletion))
	assert.Equal(t, -1, CounterValue(profile, "social_shares"))
}

func TestBadgeQualifiesAllRequirements(t *testing.T) {
	badge := &model.Badge{
		ID:       "b1",
		IsActive: true,
		Requirements: mustRequirements(t,
			model.BadgeRequirement{CounterType: shared.CounterLessonCompletion, ThresholdValue: 9, ComparisonOp: shared.CompareGreaterThan},
			model.BadgeRequirement{CounterType: shared.CounterStreak, ThresholdValue: 2, ComparisonOp: shared.CompareGreaterThan},
		),
	}

	// One requirement short: no badge
	profile := &model.UserProfile{LessonsCompleted: 10, Streak: 2}
	assert.False(t, BadgeQualifies(profile, badge))

	// Both requirements met
	profile.Streak = 3
	assert.True(t, BadgeQualifies(profile, badge))
}

func TestBadgeQualifiesMalformedRequirements(t *testing.T) {
	profile := &model.UserProfile{LessonsCompleted: 100}

	garbage := &model.Badge{ID: "b2", IsActive: true, Requirements: json.RawMessage("not json")}
	assert.False(t, BadgeQualifies(profile, garbage))

	empty := &model.Badge{ID: "b3", IsActive: true, Requirements: json.RawMessage("[]")}
	assert.False(t, BadgeQualifies(profile, empty))
}

func TestNewlyQualifyingBadges(t *testing.T) {
	profile := &model.UserProfile{LessonsCompleted: 1}

	firstLesson := model.Badge{
		ID:       "first_lesson",
		IsActive: true,
		Requirements: mustRequirements(t,
			model.BadgeRequirement{CounterType: shared.CounterLessonCompletion, ThresholdValue: 0, ComparisonOp: shared.CompareGreaterThan},
		),
	}
	tenLessons := model.Badge{
		ID:       "ten_lessons",
		IsActive: true,
		Requirements: mustRequirements(t,
			model.BadgeRequirement{CounterType: shared.CounterLessonCompletion, ThresholdValue: 9, ComparisonOp: shared.CompareGreaterThan},
		),
	}
	inactive := firstLesson
	inactive.ID = "inactive_copy"
	inactive.IsActive = false

	catalog := []model.Badge{firstLesson, tenLessons, inactive}

	qualifying := NewlyQualifyingBadges(profile, catalog, map[string]bool{})
	assert.Len(t, qualifying, 1)
	assert.Equal(t, "first_lesson", qualifying[0].ID)

	// Already earned badges never re-qualify
	qualifying = NewlyQualifyingBadges(profile, catalog, map[string]bool{"first_lesson": true})
	assert.Empty(t, qualifying)
}

func TestDayDifference(t *testing.T) {
	base := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)

	// Same calendar day regardless of wall clock distance
	assert.Equal(t, 0, DayDifference(base, time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)))

	// Consecutive days even across a one minute gap
	assert.Equal(t, 1, DayDifference(base, time.Date(2025, 3, 11, 0, 0, 30, 0, time.UTC)))

	assert.Equal(t, 3, DayDifference(base, time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC)))

	// Backdated target
	assert.Equal(t, -1, DayDifference(base, time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)))
}

func TestDayDifferenceSpringForward(t *testing.T) {
	// Local midnights around a spring-forward transition are only 23h
	// apart; the gap is still one whole day.
	before := time.Date(2025, 3, 9, 0, 30, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	after := time.Date(2025, 3, 10, 0, 30, 0, 0, time.FixedZone("UTC-4", -4*60*60))

	assert.Equal(t, 1, DayDifference(before, after))
}

func mustRequirements(t *testing.T, reqs ...model.BadgeRequirement) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(reqs)
	if err != nil {
		t.Fatalf("marshal requirements: %v", err)
	}
	return raw
}
