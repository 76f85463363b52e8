package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Cxsmxnaut/Gradely/internal/config"
	"github.com/Cxsmxnaut/Gradely/internal/logger"
	"github.com/Cxsmxnaut/Gradely/internal/model"
	"github.com/Cxsmxnaut/Gradely/internal/report"
	"github.com/Cxsmxnaut/Gradely/internal/service"
	"github.com/Cxsmxnaut/Gradely/internal/storage"
	pkgerrors "github.com/Cxsmxnaut/Gradely/pkg/errors"
)

const (
	userIDHeader    = "X-User-ID"
	sessionIDHeader = "X-Session-ID"

	maxPhotoBytes = 5 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	grades   *service.Grades
	storage  storage.Storage
	exporter *report.Exporter
	cfg      *config.Config
	log      zerolog.Logger
}

func NewHandler(grades *service.Grades, store storage.Storage, cfg *config.Config) *Handler {
	return &Handler{
		grades:   grades,
		storage:  store,
		exporter: report.NewExporter(),
		cfg:      cfg,
		log:      logger.With("api"),
	}
}

type loginRequest struct {
	DistrictURL string `json:"district_url"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// Login stores the upstream credentials, registers the session and
// runs a foreground sync so the first grade view is fresh.
func (h *Handler) Login(c *gin.Context) {
	userID, sessionID, ok := h.identity(c)
	if !ok {
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	creds := model.Credentials{
		UserID:      userID,
		DistrictURL: req.DistrictURL,
		Username:    req.Username,
		Password:    req.Password,
	}
	if err := h.grades.RegisterSession(c.Request.Context(), sessionID, creds); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to register session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register session"})
		return
	}

	courses, err := h.grades.Sync(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Initial sync failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not fetch grades from the district"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in",
		"courses": len(courses),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.grades.Logout(c.Request.Context(), userID); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to clear session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) GetGrades(c *gin.Context) {
	userID, sessionID, ok := h.identity(c)
	if !ok {
		return
	}

	courses, err := h.grades.Load(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.renderLoadError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// RefreshGrades forces a foreground sync, bypassing the cache policy.
func (h *Handler) RefreshGrades(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}

	courses, err := h.grades.Sync(c.Request.Context(), userID)
	if err != nil {
		h.renderLoadError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

type hypotheticalRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score" binding:"required"`
}

func (h *Handler) AddHypothetical(c *gin.Context) {
	userID, sessionID, ok := h.identity(c)
	if !ok {
		return
	}

	var req hypotheticalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.MaxScore <= 0 {
		vErr := pkgerrors.ValidationError{Field: "max_score", Value: req.MaxScore, Message: "must be greater than zero"}
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		return
	}

	assignment := model.Assignment{
		Name:     req.Name,
		Category: req.Category,
		Score:    req.Score,
		MaxScore: req.MaxScore,
	}
	courses, err := h.grades.AddHypothetical(c.Request.Context(), userID, sessionID, c.Param("course_id"), assignment)
	if err != nil {
		h.renderLoadError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *Handler) RemoveHypothetical(c *gin.Context) {
	userID, sessionID, ok := h.identity(c)
	if !ok {
		return
	}

	courses, err := h.grades.RemoveHypothetical(
		c.Request.Context(), userID, sessionID, c.Param("course_id"), c.Param("assignment_id"))
	if err != nil {
		h.renderLoadError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *Handler) ResetHypothetical(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}

	h.grades.ResetHypothetical(userID)
	c.JSON(http.StatusOK, gin.H{"message": "What-if assignments cleared"})
}

func (h *Handler) GetGPA(c *gin.Context) {
	userID, sessionID, ok := h.identity(c)
	if !ok {
		return
	}

	result, err := h.grades.GPA(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.renderLoadError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ToggleWeightedGPA(c *gin.Context) {
	if _, _, ok := h.identity(c); !ok {
		return
	}

	settings := h.grades.Calculator().ToggleWeightedGPA(c.Request.Context())
	c.JSON(http.StatusOK, settings)
}

type weightingRequest struct {
	Weighting model.WeightingType `json:"weighting" binding:"required"`
}

func (h *Handler) SetCourseWeighting(c *gin.Context) {
	if _, _, ok := h.identity(c); !ok {
		return
	}

	var req weightingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	switch req.Weighting {
	case model.WeightingNone, model.WeightingHonors, model.WeightingAP:
	default:
		vErr := pkgerrors.ValidationError{Field: "weighting", Value: req.Weighting, Message: "must be none, honors or ap"}
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		return
	}

	settings := h.grades.Calculator().UpdateCourseWeighting(c.Request.Context(), c.Param("course_id"), req.Weighting)
	c.JSON(http.StatusOK, settings)
}

type exclusionRequest struct {
	Excluded *bool `json:"excluded" binding:"required"`
}

func (h *Handler) SetCourseExclusion(c *gin.Context) {
	if _, _, ok := h.identity(c); !ok {
		return
	}

	var req exclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	settings := h.grades.Calculator().UpdateCourseExclusion(c.Request.Context(), c.Param("course_id"), *req.Excluded)
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) GetAttendance(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}

	summary, err := h.grades.Attendance(c.Request.Context(), userID)
	if err != nil {
		h.renderLoadError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetStudent(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}

	student, err := h.grades.Student(c.Request.Context(), userID)
	if err != nil {
		h.renderLoadError(c, userID, err)
		return
	}

	hasPhoto, err := h.storage.Exists(c.Request.Context(), storage.PhotoKey(userID))
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("Photo lookup failed")
	} else if hasPhoto {
		student.PhotoKey = storage.PhotoKey(userID)
	}
	c.JSON(http.StatusOK, student)
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}

	contentType := c.ContentType()
	if contentType != "image/jpeg" && contentType != "image/png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo must be JPEG or PNG"})
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Photo too large"})
		return
	}

	key := storage.PhotoKey(userID)
	if err := h.storage.Upload(c.Request.Context(), key, contentType, bytes.NewReader(data)); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Photo upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}

func (h *Handler) GetPhoto(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), storage.PhotoKey(userID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No photo on file"})
		return
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("Photo stream interrupted")
	}
}

// ExportReport renders the current grade view and GPA as an XLSX
// download.
func (h *Handler) ExportReport(c *gin.Context) {
	userID, sessionID, ok := h.identity(c)
	if !ok {
		return
	}

	courses, err := h.grades.Load(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.renderLoadError(c, userID, err)
		return
	}
	gpa, err := h.grades.GPA(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.renderLoadError(c, userID, err)
		return
	}

	data, err := h.exporter.Export(courses, gpa)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Report export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	// Archive a copy alongside the download; a storage failure only
	// costs the archive, never the download itself.
	filename := fmt.Sprintf("grades-%s.xlsx", time.Now().Format("2006-01-02"))
	key := storage.ReportKey(userID, filename)
	if err := h.storage.Upload(c.Request.Context(), key, xlsxContentType, bytes.NewReader(data)); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Str("key", key).Msg("Failed to archive report copy")
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) identity(c *gin.Context) (userID, sessionID string, ok bool) {
	userID = c.GetHeader(userIDHeader)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing " + userIDHeader + " header"})
		return "", "", false
	}
	return userID, c.GetHeader(sessionIDHeader), true
}

func (h *Handler) renderLoadError(c *gin.Context, userID string, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNoCache), errors.Is(err, pkgerrors.ErrNoCredentials):
		c.JSON(http.StatusNotFound, gin.H{"error": "No grades available, log in to sync"})
	case errors.Is(err, pkgerrors.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
	case errors.Is(err, pkgerrors.ErrAssignmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
	case errors.Is(err, pkgerrors.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "District rejected the stored credentials"})
	case errors.Is(err, pkgerrors.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "District portal is unavailable"})
	default:
		h.log.Error().Err(err).Str("user_id", userID).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
