package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/shared"
)

type GamificationHandler struct {
	gamificationSvc GamificationServiceInterface
}

func NewGamificationHandler(gamificationSvc GamificationServiceInterface) *GamificationHandler {
	return &GamificationHandler{
		gamificationSvc: gamificationSvc,
	}
}

// @Summary Get gamification profile
// @Description Return the user's counters, level, streak, badges and achievements
// @Tags gamification
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.GamificationProfileResponse}
// @Router /api/v1/gamification/profile [get]
func (h *GamificationHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if _, err := h.gamificationSvc.GetOrCreateProfile(userID); err != nil {
		return err
	}

	resp, err := h.gamificationSvc.GetUserGamification(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Track lesson completion
// @Description Record a finished lesson: updates streak, counters, points and badges
// @Tags gamification
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.LessonCompletionRequest true "Lesson completion details"
// @Success 200 {object} shared.Response{data=dto.TrackEventResponse}
// @Router /api/v1/gamification/track/lesson [post]
func (h *GamificationHandler) TrackLesson(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.LessonCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.gamificationSvc.TrackLessonCompletion(userID, req.CourseID, req.LessonID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Track course completion
// @Description Record a finished course: bonus points, certificate and badges
// @Tags gamification
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CourseCompletionRequest true "Course completion details"
// @Success 200 {object} shared.Response{data=dto.TrackEventResponse}
// @Router /api/v1/gamification/track/course [post]
func (h *GamificationHandler) TrackCourse(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CourseCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.gamificationSvc.TrackCourseCompletion(userID, req.CourseID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Track quiz completion
// @Description Record a quiz attempt. Only passed quizzes count and award points
// @Tags gamification
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.QuizCompletionRequest true "Quiz completion details"
// @Success 200 {object} shared.Response{data=dto.TrackEventResponse}
// @Router /api/v1/gamification/track/quiz [post]
func (h *GamificationHandler) TrackQuiz(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.QuizCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.gamificationSvc.TrackQuizCompletion(userID, req.QuizID, req.Score, req.Passed)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Track code exercise completion
// @Description Record a code exercise submission. Every submission counts, points scale with score
// @Tags gamification
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CodeExerciseCompletionRequest true "Exercise completion details"
// @Success 200 {object} shared.Response{data=dto.TrackEventResponse}
// @Router /api/v1/gamification/track/exercise [post]
func (h *GamificationHandler) TrackCodeExercise(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CodeExerciseCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.gamificationSvc.TrackCodeExerciseCompletion(userID, req.ExerciseID, req.Score)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Track study time
// @Description Add study minutes to the user's total and any active study time challenges
// @Tags gamification
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.StudyTimeRequest true "Study time in minutes"
// @Success 200 {object} shared.Response
// @Router /api/v1/gamification/track/study-time [post]
func (h *GamificationHandler) TrackStudyTime(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StudyTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").
			WithData(dto.FormatValidationErrors(err))
	}

	profile, err := h.gamificationSvc.TrackStudyTime(userID, req.Minutes)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, fiber.Map{"total_study_time": profile.TotalStudyTime})
}

// @Summary Mark achievements seen
// @Description Clear the new flag on all of the user's achievements
// @Tags gamification
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response
// @Router /api/v1/gamification/achievements/seen [post]
func (h *GamificationHandler) MarkAchievementsSeen(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.gamificationSvc.MarkAchievementsSeen(userID); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}

// @Summary Update study goals
// @Description Set weekly and/or monthly study goals
// @Tags gamification
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.UpdateGoalsRequest true "Goal values"
// @Success 200 {object} shared.Response
// @Router /api/v1/gamification/goals [put]
func (h *GamificationHandler) UpdateGoals(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateGoalsRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").
			WithData(dto.FormatValidationErrors(err))
	}

	profile, err := h.gamificationSvc.UpdateGoals(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, fiber.Map{
		"weekly_goal":  profile.WeeklyGoal,
		"monthly_goal": profile.MonthlyGoal,
	})
}
