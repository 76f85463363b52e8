package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cxsmxnaut/Gradely/internal/config"
	"github.com/Cxsmxnaut/Gradely/internal/model"
	"github.com/Cxsmxnaut/Gradely/internal/service"
	pkgerrors "github.com/Cxsmxnaut/Gradely/pkg/errors"
)

type fakeGradeStore struct {
	cached map[string]model.CachedGrades
}

func (s *fakeGradeStore) GetCachedGrades(_ context.Context, userID string) (model.CachedGrades, error) {
	cached, ok := s.cached[userID]
	if !ok {
		return model.CachedGrades{}, pkgerrors.ErrNoCache
	}
	return cached, nil
}

func (s *fakeGradeStore) PutCachedGrades(_ context.Context, cached model.CachedGrades) error {
	s.cached[cached.UserID] = cached
	return nil
}

func (s *fakeGradeStore) DeleteCachedGrades(_ context.Context, userID string) error {
	delete(s.cached, userID)
	return nil
}

func (s *fakeGradeStore) GetSettings(context.Context) (model.GPASettings, error) {
	return model.DefaultGPASettings(), nil
}

func (s *fakeGradeStore) PutSettings(context.Context, model.GPASettings) error {
	return nil
}

type fakeCredStore struct{}

func (fakeCredStore) GetCredentials(context.Context, string) (model.Credentials, error) {
	return model.Credentials{}, pkgerrors.ErrNoCredentials
}

func (fakeCredStore) PutCredentials(context.Context, model.Credentials) error { return nil }
func (fakeCredStore) DeleteCredentials(context.Context, string) error         { return nil }

type noopEnqueuer struct{}

func (noopEnqueuer) EnqueueRefreshJob(context.Context, model.RefreshJob) error { return nil }

type noopSessions struct{}

func (noopSessions) SetActive(context.Context, string, string) error { return nil }
func (noopSessions) Clear(context.Context, string) error             { return nil }
func (noopSessions) Verify(context.Context, model.RefreshJob) error  { return nil }

type noopUpstream struct{}

func (noopUpstream) FetchGradebook(context.Context, model.Credentials) (model.RawGradebook, error) {
	return model.RawGradebook{}, pkgerrors.ErrUpstreamUnavailable
}

func (noopUpstream) FetchAttendance(context.Context, model.Credentials) (model.RawAttendance, error) {
	return model.RawAttendance{}, pkgerrors.ErrUpstreamUnavailable
}

func (noopUpstream) FetchStudent(context.Context, model.Credentials) (model.Student, error) {
	return model.Student{}, pkgerrors.ErrUpstreamUnavailable
}

type fakeBlobStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (s *fakeBlobStore) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, pkgerrors.ErrStoreUnavailable
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeBlobStore) Upload(_ context.Context, key, contentType string, data io.Reader) error {
	payload, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.objects[key] = payload
	s.contentTypes[key] = contentType
	return nil
}

func (s *fakeBlobStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeBlobStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeBlobStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Synergy.RetryAttempts = 1
	cfg.Synergy.RetryDelay = time.Millisecond
	cfg.Cache.RefreshWindow = 5 * time.Minute

	stores := &fakeGradeStore{cached: map[string]model.CachedGrades{
		"u1": {
			UserID: "u1",
			Courses: []model.Course{{
				ID:           "algebra-ii-1",
				Name:         "Algebra II",
				CurrentGrade: 92,
				LetterGrade:  "A-",
				Assignments: []model.Assignment{
					{ID: "algebra-ii-1-assignment-0", Name: "Quiz 1", Category: "Tests", Score: 18, MaxScore: 20, Percent: 90},
				},
				CategoryWeights: map[string]float64{"Tests": 100},
			}},
			LastSync: time.Now(),
		},
	}}

	grades := service.NewGrades(cfg, noopUpstream{}, stores, fakeCredStore{}, noopEnqueuer{}, noopSessions{})
	blobs := newFakeBlobStore()
	handler := NewHandler(grades, blobs, cfg)

	router := gin.New()
	SetupRoutes(router, handler)
	return router, blobs
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-Session-ID", "s1")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetGradesRequiresUserHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grades", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetGradesReturnsCachedCourses(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/grades", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Algebra II")
}

func TestExportReportArchivesCopy(t *testing.T) {
	router, blobs := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/report", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())

	require.Len(t, blobs.objects, 1)
	for key, data := range blobs.objects {
		assert.True(t, strings.HasPrefix(key, "reports/u1/"), "unexpected archive key %q", key)
		assert.Equal(t, rec.Body.Bytes(), data)
		assert.Equal(t, xlsxContentType, blobs.contentTypes[key])
	}
}

func TestSetCourseWeightingRejectsUnknownValue(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPut,
		"/api/v1/gpa/courses/algebra-ii-1/weighting", `{"weighting":"double"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "weighting")
}

func TestAddHypotheticalRejectsNonPositiveMaxScore(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost,
		"/api/v1/grades/courses/algebra-ii-1/hypothetical",
		`{"name":"What If","category":"Tests","score":10,"max_score":-10}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "max_score")
}
