package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/reddyfit/bodyscan/internal/cache"
	"github.com/reddyfit/bodyscan/internal/confidence"
	"github.com/reddyfit/bodyscan/internal/extraction"
	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/nutrition"
	"github.com/reddyfit/bodyscan/internal/recommend"
	"github.com/reddyfit/bodyscan/internal/scan"
	"github.com/reddyfit/bodyscan/internal/storage"
	"github.com/reddyfit/bodyscan/internal/validation"
)

// CreateScanRequest is the body of POST /scans. Either ImageURLs (for
// vision analysis) or Measurements (pre-extracted values) must be
// present; Measurements wins when both are set.
type CreateScanRequest struct {
	Gender       string                 `json:"gender,omitempty"`
	ImageURLs    map[string]string      `json:"image_urls,omitempty"`
	Measurements map[string]interface{} `json:"measurements,omitempty"`
	Goal         string                 `json:"goal,omitempty"`
	IncludeWhoop bool                   `json:"include_whoop,omitempty"`
}

// CreateScanResponse wraps the stored result with validation notes
// that did not block the scan.
type CreateScanResponse struct {
	Scan     *models.ScanResult `json:"scan"`
	Warnings []string           `json:"warnings,omitempty"`
	Summary  string             `json:"summary"`
}

// POST /api/v1/users/{userID}/scans
func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	startedAt := time.Now()

	var req CreateScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Measurements) == 0 && len(req.ImageURLs) == 0 {
		respondError(w, http.StatusBadRequest, "either measurements or image_urls is required")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil && !stderrors.Is(err, storage.ErrNotFound) {
		s.log.WithError(err).Error("profile lookup failed")
		respondError(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}
	gender := req.Gender
	if gender == "" && profile != nil {
		gender = profile.Gender
	}
	if gender == "" {
		gender = "male"
	}

	photoURLs := make(map[models.AngleType]string, len(req.ImageURLs))
	for angle, url := range req.ImageURLs {
		photoURLs[models.AngleType(angle)] = url
	}

	var (
		valRes        validation.Result
		finishReason  = "stop"
		parseStrategy = extraction.StrategyDirectParse
		photoCount    = len(photoURLs)
	)
	switch {
	case len(req.Measurements) > 0:
		valRes = validation.Normalize(req.Measurements)
	case s.vision != nil:
		visRes, err := s.vision.AnalyzePhotos(r.Context(), photoURLs)
		if err != nil {
			s.log.WithError(err).Error("vision analysis failed")
			respondError(w, http.StatusBadGateway, "photo analysis failed")
			return
		}
		valRes = visRes.Validation
		finishReason = visRes.FinishReason
		parseStrategy = visRes.ParseStrategy
		photoCount = visRes.PhotoCount
	default:
		respondError(w, http.StatusServiceUnavailable, "photo analysis is not configured; submit measurements directly")
		return
	}

	var whoopData *models.WhoopData
	if req.IncludeWhoop && s.whoop != nil {
		whoopData = s.fetchWhoopData(r, userID)
	}

	metrics := s.scorer.Score(confidence.Inputs{
		PhotoCount:       photoCount,
		Measurements:     valRes.Measurements,
		MuscleDefinition: valRes.Measurements.MuscleDefinition,
		Completeness:     valRes.Completeness,
		FinishReason:     finishReason,
		ParseStrategy:    parseStrategy,
		ValidationErrors: len(valRes.Errors),
	})

	result, err := s.assembler.Assemble(scan.Input{
		UserID:       userID,
		Gender:       gender,
		Measurements: valRes.Measurements,
		Confidence:   metrics,
		ImageURLs:    photoURLs,
		WhoopData:    whoopData,
		StartedAt:    startedAt,
	})
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rawGoal := req.Goal
	if rawGoal == "" && profile != nil {
		rawGoal = profile.FitnessGoal
	}
	goal := nutrition.ParseGoal(rawGoal)
	result.Recommendations = s.recommender.Generate(recommend.Input{
		Scan:    result,
		Profile: profile,
		Goal:    goal,
	})

	if err := s.store.SaveScan(r.Context(), result); err != nil {
		s.log.WithError(err).Error("scan save failed")
		respondError(w, http.StatusInternalServerError, "failed to store scan")
		return
	}
	s.invalidateUserCache(r, userID)

	respondJSON(w, http.StatusCreated, CreateScanResponse{
		Scan:     result,
		Warnings: valRes.Warnings,
		Summary:  scan.QuickSummary(result),
	})
}

// GET /api/v1/users/{userID}/scans/{scanID}
func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	result, err := s.store.GetScan(r.Context(), vars["userID"], vars["scanID"])
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "scan not found")
			return
		}
		s.log.WithError(err).Error("scan lookup failed")
		respondError(w, http.StatusInternalServerError, "scan lookup failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GET /api/v1/users/{userID}/scans?limit=10
func (s *Server) handleScanHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	limit := getQueryInt(r, "limit", 10)

	key := cache.HistoryKey(userID, limit)
	var cached []*models.ScanResult
	if s.cacheGet(r, key, &cached) {
		respondJSON(w, http.StatusOK, historyPayload(cached, limit))
		return
	}

	scans, err := s.store.GetScanHistory(r.Context(), userID, limit)
	if err != nil {
		s.log.WithError(err).Error("history lookup failed")
		respondError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}
	s.cacheSet(r, key, scans)
	respondJSON(w, http.StatusOK, historyPayload(scans, limit))
}

// GET /api/v1/users/{userID}/scans/latest
func (s *Server) handleLatestScan(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	key := cache.LatestScanKey(userID)
	var cached models.ScanResult
	if s.cacheGet(r, key, &cached) {
		respondJSON(w, http.StatusOK, &cached)
		return
	}

	result, err := s.store.GetLatestScan(r.Context(), userID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no scans for user")
			return
		}
		s.log.WithError(err).Error("latest scan lookup failed")
		respondError(w, http.StatusInternalServerError, "latest scan lookup failed")
		return
	}
	s.cacheSet(r, key, result)
	respondJSON(w, http.StatusOK, result)
}

// GET /api/v1/users/{userID}/scans/compare?from={scanID}&to={scanID}
// Without parameters the two most recent scans are compared.
func (s *Server) handleCompareScans(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	fromID := r.URL.Query().Get("from")
	toID := r.URL.Query().Get("to")
	if (fromID == "") != (toID == "") {
		respondError(w, http.StatusBadRequest, "from and to must be supplied together")
		return
	}

	var older, newer *models.ScanResult
	var err error
	if fromID != "" && toID != "" {
		if older, err = s.store.GetScan(r.Context(), userID, fromID); err == nil {
			newer, err = s.store.GetScan(r.Context(), userID, toID)
		}
		if stderrors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "scan not found")
			return
		}
	} else {
		var history []*models.ScanResult
		history, err = s.store.GetScanHistory(r.Context(), userID, 2)
		if err == nil && len(history) < 2 {
			respondError(w, http.StatusNotFound, "need at least two scans to compare")
			return
		}
		if err == nil {
			// History is newest first
			newer, older = history[0], history[1]
		}
	}
	if err != nil {
		s.log.WithError(err).Error("compare lookup failed")
		respondError(w, http.StatusInternalServerError, "compare lookup failed")
		return
	}

	comparison, err := scan.CompareScans(older, newer)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, comparison)
}

// PUT /api/v1/users/{userID}/profile
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	profile.UID = userID

	if err := s.store.SaveProfile(r.Context(), &profile); err != nil {
		s.log.WithError(err).Error("profile save failed")
		respondError(w, http.StatusInternalServerError, "profile save failed")
		return
	}
	respondJSON(w, http.StatusOK, &profile)
}

// GET /api/v1/users/{userID}/profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.log.WithError(err).Error("profile lookup failed")
		respondError(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":      "ok",
		"api_version": scan.APIVersion,
		"storage":     s.cfg.Storage.Type,
	}
	if s.cache != nil {
		if err := s.cache.HealthCheck(r.Context()); err != nil {
			status["cache"] = "unreachable"
			status["status"] = "degraded"
		} else {
			status["cache"] = "ok"
		}
	}
	respondJSON(w, http.StatusOK, status)
}

// fetchWhoopData returns recovery data or nil. WHOOP being down never
// blocks a scan.
func (s *Server) fetchWhoopData(r *http.Request, userID string) *models.WhoopData {
	key := cache.WhoopKey(userID)
	var cached models.WhoopData
	if s.cacheGet(r, key, &cached) {
		return &cached
	}

	data, err := s.whoop.GetRecoveryData(r.Context(), userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("whoop fetch failed, continuing without recovery data")
		return nil
	}
	s.cacheSet(r, key, data)
	return data
}

func (s *Server) cacheGet(r *http.Request, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(r.Context(), key, target)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache read failed")
		return false
	}
	return found
}

func (s *Server) cacheSet(r *http.Request, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(r.Context(), key, value); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (s *Server) invalidateUserCache(r *http.Request, userID string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.InvalidateUser(r.Context(), userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("cache invalidation failed")
	}
}

func historyPayload(scans []*models.ScanResult, limit int) map[string]interface{} {
	return map[string]interface{}{
		"scans": scans,
		"count": len(scans),
		"limit": limit,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Warn("failed to encode JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}

func getQueryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
