package compass

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/VoteCompass/VC-Backend/internal/db"
	"github.com/VoteCompass/VC-Backend/internal/parliament"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MotionDetail is the per-motion drill-down returned with a stored result.
// It is recomputed from current vote data on every read, so it can diverge
// from the frozen snapshot when the underlying votes changed in between.
type MotionDetail struct {
	MotionID       uuid.UUID            `json:"motion_id"`
	Title          string               `json:"title"`
	Answer         string               `json:"answer"`
	PartyPositions []PartyPositionAgree `json:"party_positions"`
}

type PartyPositionAgree struct {
	parliament.PartyPositionView
	AgreesWithAnswer bool `json:"agrees_with_answer"`
}

func validAnswer(a string) bool {
	return a == AnswerAgree || a == AnswerDisagree || a == AnswerNeutral
}

// SubmitAnswersHandler scores a set of answers, persists the run as an
// immutable snapshot and returns the ranked results.
func SubmitAnswersHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Answers []Answer `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for _, a := range input.Answers {
		if !validAnswer(a.Answer) {
			http.Error(w, "Answer must be agree, disagree or neutral", http.StatusBadRequest)
			return
		}
	}

	motionIDs := distinctMotionIDs(input.Answers)
	positions, parties, err := parliament.FetchPositions(r.Context(), motionIDs)
	if err != nil {
		http.Error(w, "Failed to resolve positions: "+err.Error(), http.StatusInternalServerError)
		return
	}

	results := RankResults(ScoreParties(input.Answers, parties, positions))

	answersJSON, err := json.Marshal(input.Answers)
	if err != nil {
		http.Error(w, "Failed to encode answers", http.StatusInternalServerError)
		return
	}
	snapshot := ResultSnapshot{
		TotalAnswers: len(input.Answers),
		PartyResults: results,
		CreatedAt:    time.Now().UTC(),
	}
	resultsJSON, err := json.Marshal(snapshot)
	if err != nil {
		http.Error(w, "Failed to encode results", http.StatusInternalServerError)
		return
	}

	session := Session{
		ID:      uuid.NewString(),
		Answers: string(answersJSON),
		Results: string(resultsJSON),
	}
	if err := db.DB.WithContext(r.Context()).Create(&session).Error; err != nil {
		http.Error(w, "Failed to store session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"id":            session.ID,
		"total_answers": snapshot.TotalAnswers,
		"party_results": snapshot.PartyResults,
		"created_at":    snapshot.CreatedAt,
	})
}

// GetResultsHandler returns the frozen result snapshot of a session plus a
// freshly recomputed per-motion drill-down.
func GetResultsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	var session Session
	err := db.DB.WithContext(r.Context()).First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var answers []Answer
	var snapshot ResultSnapshot
	if session.Answers == "" || session.Results == "" ||
		json.Unmarshal([]byte(session.Answers), &answers) != nil ||
		json.Unmarshal([]byte(session.Results), &snapshot) != nil {
		// An incomplete snapshot reads as absent, not as an error.
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	details, err := buildMotionDetails(r, answers)
	if err != nil {
		http.Error(w, "Failed to resolve motion details: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":            session.ID,
		"total_answers": snapshot.TotalAnswers,
		"party_results": snapshot.PartyResults,
		"created_at":    snapshot.CreatedAt,
		"motions":       details,
	})
}

func distinctMotionIDs(answers []Answer) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(answers))
	var ids []uuid.UUID
	for _, a := range answers {
		if !seen[a.MotionID] {
			seen[a.MotionID] = true
			ids = append(ids, a.MotionID)
		}
	}
	return ids
}

func buildMotionDetails(r *http.Request, answers []Answer) ([]MotionDetail, error) {
	motionIDs := distinctMotionIDs(answers)
	if len(motionIDs) == 0 {
		return []MotionDetail{}, nil
	}

	var motions []parliament.Motion
	if err := db.DB.WithContext(r.Context()).Where("id IN ?", motionIDs).Find(&motions).Error; err != nil {
		return nil, err
	}
	motionByID := make(map[uuid.UUID]parliament.Motion, len(motions))
	for _, m := range motions {
		motionByID[m.ID] = m
	}

	positions, parties, err := parliament.FetchPositions(r.Context(), motionIDs)
	if err != nil {
		return nil, err
	}

	details := make([]MotionDetail, 0, len(answers))
	for _, a := range answers {
		motion, ok := motionByID[a.MotionID]
		if !ok {
			// Answer to a motion that no longer exists; skipped, like at scoring time.
			continue
		}
		views := parliament.PositionViews(positions[a.MotionID], parties)
		withAgreement := make([]PartyPositionAgree, len(views))
		for i, v := range views {
			withAgreement[i] = PartyPositionAgree{
				PartyPositionView: v,
				AgreesWithAnswer:  answerAgrees(a.Answer, v.Position),
			}
		}
		details = append(details, MotionDetail{
			MotionID:       a.MotionID,
			Title:          motion.Title,
			Answer:         a.Answer,
			PartyPositions: withAgreement,
		})
	}
	return details, nil
}

// answerAgrees mirrors the scorer's match rule: agree matches a FOR
// position, disagree matches anything else, neutral never matches.
func answerAgrees(answer string, pos parliament.Position) bool {
	switch answer {
	case AnswerAgree:
		return pos == parliament.PositionFor
	case AnswerDisagree:
		return pos != parliament.PositionFor
	default:
		return false
	}
}
