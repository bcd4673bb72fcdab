package rest

import (
	"net/http"
	"strconv"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/httpx"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/service"
)

type languageResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Code            string `json:"code"`
	NativeName      string `json:"native_name"`
	Flag            string `json:"flag"`
	TotalLessons    int    `json:"total_lessons"`
	DifficultyLevel string `json:"difficulty_level"`
}

type lessonResponse struct {
	ID            string   `json:"id"`
	LanguageID    string   `json:"language_id"`
	UnitID        string   `json:"unit_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Type          string   `json:"type"`
	Difficulty    int      `json:"difficulty"`
	XPReward      *int     `json:"xp_reward,omitempty"`
	Exercises     []string `json:"exercises"`
	Prerequisites []string `json:"prerequisites"`
	IsLocked      bool     `json:"is_locked"`
	Completed     bool     `json:"completed"`
}

type exerciseResponse struct {
	ID            string   `json:"id"`
	LessonID      string   `json:"lesson_id"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	AudioURL      string   `json:"audio_url"`
	ImageURL      string   `json:"image_url"`
	Difficulty    int      `json:"difficulty"`
}

type completeLessonResponse struct {
	Message  string `json:"message"`
	XPGained int    `json:"xp_gained"`
}

func (api *API) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := api.catalog.Languages(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	resp := make([]languageResponse, 0, len(langs))
	for _, l := range langs {
		resp = append(resp, languageResponse{
			ID:              l.ID,
			Name:            l.Name,
			Code:            l.Code,
			NativeName:      l.NativeName,
			Flag:            l.Flag,
			TotalLessons:    l.TotalLessons,
			DifficultyLevel: l.DifficultyLevel,
		})
	}

	err = httpx.WriteJSON(w, http.StatusOK, resp)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := api.catalog.Lessons(r.Context(), service.LessonsRequest{
		LanguageID: r.PathValue("language_id"),
		UserID:     currentUser(r).ID,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	resp := make([]lessonResponse, 0, len(lessons))
	for _, l := range lessons {
		resp = append(resp, newLessonResponse(l))
	}

	err = httpx.WriteJSON(w, http.StatusOK, resp)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func newLessonResponse(l service.LessonStatus) lessonResponse {
	return lessonResponse{
		ID:            l.ID,
		LanguageID:    l.LanguageID,
		UnitID:        l.UnitID,
		Title:         l.Title,
		Description:   l.Description,
		Type:          string(l.Type),
		Difficulty:    l.Difficulty,
		XPReward:      l.XPReward,
		Exercises:     nonNil(l.Exercises),
		Prerequisites: nonNil(l.Prerequisites),
		IsLocked:      l.IsLocked,
		Completed:     l.Completed,
	}
}

func (api *API) handleExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := api.catalog.Exercises(r.Context(), r.PathValue("lesson_id"))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	resp := make([]exerciseResponse, 0, len(exercises))
	for _, e := range exercises {
		resp = append(resp, exerciseResponse{
			ID:            e.ID,
			LessonID:      e.LessonID,
			Type:          string(e.Type),
			Question:      e.Question,
			Options:       nonNil(e.Options),
			CorrectAnswer: e.CorrectAnswer,
			Explanation:   e.Explanation,
			AudioURL:      e.AudioURL,
			ImageURL:      e.ImageURL,
			Difficulty:    e.Difficulty,
		})
	}

	err = httpx.WriteJSON(w, http.StatusOK, resp)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	score, err := scoreFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	res, err := api.progress.CompleteLesson(r.Context(), service.CompleteLessonRequest{
		User:     currentUser(r),
		LessonID: r.PathValue("lesson_id"),
		Score:    score,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, completeLessonResponse{
		Message:  "Lesson completed successfully",
		XPGained: res.XPGained,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func scoreFromRequest(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("score")
	if raw == "" {
		return 0, invalidRequest(nil, "score is required")
	}

	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidRequest(err, "score must be an integer")
	}

	return score, nil
}
