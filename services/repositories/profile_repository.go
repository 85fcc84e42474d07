// services/repositories/profile_repository.go
package repositories

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/skillside-labs/questly_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository handles user profile, achievement and streak rows.
type ProfileRepository struct {
	BaseRepository
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *ProfileRepository) GetProfile(userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := ds.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreateProfile returns the existing profile or creates a zeroed one.
// The unique index on user_id makes concurrent first calls safe: the insert
// is a no-op on conflict and the row is re-read afterwards.
func (ds *ProfileRepository) GetOrCreateProfile(userID string) (*model.UserProfile, error) {
	profile, err := ds.GetProfile(userID)
	if err == nil {
		return profile, nil
	}

	id, _ := uuid.NewV7()
	now := time.Now()
	fresh := &model.UserProfile{
		ID:           id.String(),
		UserID:       userID,
		CurrentLevel: 1,
		Badges:       json.RawMessage("[]"),
		Achievements: json.RawMessage("[]"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(fresh).Error; err != nil {
		return nil, err
	}

	return ds.GetProfile(userID)
}

func (ds *ProfileRepository) UpdateProfile(profile *model.UserProfile) error {
	profile.UpdatedAt = time.Now()
	return ds.db.Save(profile).Error
}

func (ds *ProfileRepository) GetUserAchievements(userID string) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := ds.db.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (ds *ProfileRepository) CreateAchievement(achievement *model.Achievement) error {
	if achievement.ID == "" {
		id, _ := uuid.NewV7()
		achievement.ID = id.String()
	}
	return ds.db.Create(achievement).Error
}

func (ds *ProfileRepository) MarkAchievementsSeen(userID string) error {
	return ds.db.Model(&model.Achievement{}).
		Where("user_id = ? AND is_new = ?", userID, true).
		Update("is_new", false).Error
}

func (ds *ProfileRepository) GetStreak(userID string) (*model.StudyStreak, error) {
	var streak model.StudyStreak
	if err := ds.db.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		return nil, err
	}
	return &streak, nil
}

func (ds *ProfileRepository) CreateStreak(streak *model.StudyStreak) error {
	if streak.ID == "" {
		id, _ := uuid.NewV7()
		streak.ID = id.String()
	}
	return ds.db.Create(streak).Error
}

func (ds *ProfileRepository) UpdateStreak(streak *model.StudyStreak) error {
	streak.UpdatedAt = time.Now()
	return ds.db.Save(streak).Error
}
