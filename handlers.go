package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/config"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/database"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/llm"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/profile"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/schedule"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/swipes"
	"github.com/ForgottenHistory/Cupid-AI-sub004/pkg/models"

	"github.com/gorilla/mux"
)

type apiServer struct {
	cfg          *config.Config
	db           *database.DB
	llm          *llm.Client
	swipeService *swipes.Service
}

func newAPIServer(cfg *config.Config, db *database.DB, llmClient *llm.Client, swipeService *swipes.Service) *apiServer {
	return &apiServer{
		cfg:          cfg,
		db:           db,
		llm:          llmClient,
		swipeService: swipeService,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func (s *apiServer) createCharacterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	c, err := s.db.CreateCharacter(strings.TrimSpace(req.Name))
	if err != nil {
		log.Printf("❌ Failed to create character: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create character")
		return
	}

	if req.ScheduleText != "" {
		ws := schedule.ParseWeek(req.ScheduleText)
		if err := s.db.SaveCharacterSchedule(c.ID, ws); err != nil {
			log.Printf("❌ Failed to save seed schedule for %s: %v", c.Name, err)
		}
	}

	log.Printf("💘 Character created: %s (%s)", c.Name, c.ID)
	writeJSON(w, http.StatusCreated, toWireCharacter(c))
}

func (s *apiServer) getCharacterHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCharacter(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toWireCharacter(c))
}

// parseScheduleHandler runs the weekly schedule parser over a raw text
// block and persists the result. It never rejects malformed text: the
// worst case stores an empty schedule and the character appears online.
func (s *apiServer) parseScheduleHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCharacter(w, r)
	if !ok {
		return
	}

	var req models.ParseTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws := schedule.ParseWeek(req.Text)
	if err := s.db.SaveCharacterSchedule(c.ID, ws); err != nil {
		log.Printf("❌ Failed to save schedule for %s: %v", c.Name, err)
		writeError(w, http.StatusInternalServerError, "failed to save schedule")
		return
	}

	log.Printf("🗓️ Schedule parsed for %s: %d day(s)", c.Name, len(ws.Days))
	writeJSON(w, http.StatusOK, ws)
}

func (s *apiServer) generateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCharacter(w, r)
	if !ok {
		return
	}

	text, err := s.llm.GenerateScheduleText(r.Context(), c.Name)
	if err != nil {
		log.Printf("❌ Schedule generation failed for %s: %v", c.Name, err)
		writeError(w, http.StatusBadGateway, "schedule generation failed")
		return
	}

	ws := schedule.ParseWeek(text)
	if err := s.db.SaveCharacterSchedule(c.ID, ws); err != nil {
		log.Printf("❌ Failed to save schedule for %s: %v", c.Name, err)
		writeError(w, http.StatusInternalServerError, "failed to save schedule")
		return
	}

	log.Printf("🗓️ Schedule generated for %s: %d day(s)", c.Name, len(ws.Days))
	writeJSON(w, http.StatusOK, ws)
}

func (s *apiServer) generateProfileHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCharacter(w, r)
	if !ok {
		return
	}

	text, err := s.llm.GenerateProfileText(r.Context(), c.Name)
	if err != nil {
		log.Printf("❌ Profile generation failed for %s: %v", c.Name, err)
		writeError(w, http.StatusBadGateway, "profile generation failed")
		return
	}

	p, err := profile.ParseProfile(text)
	if err != nil {
		log.Printf("❌ Generated profile unusable for %s: %v", c.Name, err)
		writeError(w, http.StatusUnprocessableEntity, "could not parse profile")
		return
	}

	if err := s.db.SaveCharacterProfile(c.ID, p); err != nil {
		log.Printf("❌ Failed to save profile for %s: %v", c.Name, err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *apiServer) getScheduleHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCharacter(w, r)
	if !ok {
		return
	}

	if len(c.ScheduleData) == 0 {
		writeError(w, http.StatusNotFound, "no schedule for this character")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(c.ScheduleData)
}

// parseProfileHandler is the one path where a parse can fail outright. An
// internal invariant violation means the AI output is unusable; the client
// gets a generic failure, never a fabricated fallback profile.
func (s *apiServer) parseProfileHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCharacter(w, r)
	if !ok {
		return
	}

	var req models.ParseTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := profile.ParseProfile(req.Text)
	if err != nil {
		log.Printf("❌ Profile parse failed for %s: %v", c.Name, err)
		writeError(w, http.StatusUnprocessableEntity, "could not parse profile")
		return
	}

	if err := s.db.SaveCharacterProfile(c.ID, p); err != nil {
		log.Printf("❌ Failed to save profile for %s: %v", c.Name, err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *apiServer) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCharacter(w, r)
	if !ok {
		return
	}

	if len(c.ProfileData) == 0 {
		writeError(w, http.StatusNotFound, "no profile for this character")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(c.ProfileData)
}

// getStatusHandler resolves the live presence snapshot at server-local
// now. Missing or unreadable schedules fall back to online by design.
func (s *apiServer) getStatusHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCharacter(w, r)
	if !ok {
		return
	}

	snap := schedule.StatusSnapshot{Status: schedule.StatusOnline}
	if len(c.ScheduleData) > 0 {
		var ws schedule.WeeklySchedule
		if err := json.Unmarshal(c.ScheduleData, &ws); err == nil {
			snap = schedule.ResolveAt(&ws, time.Now())
		} else {
			log.Printf("⚠️  Stored schedule unreadable for %s: %v", c.Name, err)
		}
	}

	resp := models.StatusResponse{
		CharacterID: c.ID,
		Status:      string(snap.Status),
		Activity:    snap.Activity,
	}
	if snap.NextChange != nil {
		next := snap.NextChange.String()
		resp.NextChange = &next
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) swipeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		req.UserID = r.Header.Get("X-User-ID")
	}
	if req.UserID == "" || req.CharacterID == "" {
		writeError(w, http.StatusBadRequest, "user_id and character_id are required")
		return
	}

	if err := s.swipeService.Record(req.UserID, req.CharacterID, req.Direction); err != nil {
		if errors.Is(err, swipes.ErrBudgetExhausted) {
			writeError(w, http.StatusTooManyRequests, "daily swipe limit reached")
			return
		}
		log.Printf("❌ Failed to record swipe: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *apiServer) swipesRemainingHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = r.Header.Get("X-User-ID")
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user not identified")
		return
	}

	remaining, err := s.swipeService.Remaining(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check swipe budget")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"remaining": remaining})
}

func (s *apiServer) loadCharacter(w http.ResponseWriter, r *http.Request) (*database.Character, bool) {
	id := mux.Vars(r)["id"]

	c, err := s.db.GetCharacter(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "character not found")
		return nil, false
	}
	return c, true
}

func toWireCharacter(c *database.Character) models.Character {
	return models.Character{
		ID:                c.ID,
		Name:              c.Name,
		Schedule:          json.RawMessage(c.ScheduleData),
		ScheduleUpdatedAt: c.ScheduleUpdatedAt,
		Profile:           json.RawMessage(c.ProfileData),
		LastStatus:        c.LastStatus,
		CreatedAt:         c.CreatedAt,
	}
}
