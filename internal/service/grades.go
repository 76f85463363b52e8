package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cxsmxnaut/Gradely/internal/attendance"
	"github.com/Cxsmxnaut/Gradely/internal/cache"
	"github.com/Cxsmxnaut/Gradely/internal/config"
	"github.com/Cxsmxnaut/Gradely/internal/grades"
	"github.com/Cxsmxnaut/Gradely/internal/logger"
	"github.com/Cxsmxnaut/Gradely/internal/model"
	"github.com/Cxsmxnaut/Gradely/internal/store"
	pkgerrors "github.com/Cxsmxnaut/Gradely/pkg/errors"
)

// Upstream is the school-information-system collaborator.
type Upstream interface {
	FetchGradebook(ctx context.Context, creds model.Credentials) (model.RawGradebook, error)
	FetchAttendance(ctx context.Context, creds model.Credentials) (model.RawAttendance, error)
	FetchStudent(ctx context.Context, creds model.Credentials) (model.Student, error)
}

// CredentialStore holds per-user upstream credentials.
type CredentialStore interface {
	GetCredentials(ctx context.Context, userID string) (model.Credentials, error)
	PutCredentials(ctx context.Context, creds model.Credentials) error
	DeleteCredentials(ctx context.Context, userID string) error
}

// RefreshEnqueuer hands refresh jobs to the background worker.
type RefreshEnqueuer interface {
	EnqueueRefreshJob(ctx context.Context, job model.RefreshJob) error
}

// Sessions tracks the active session per user so stale background
// refreshes can be discarded after logout.
type Sessions interface {
	SetActive(ctx context.Context, userID, sessionID string) error
	Clear(ctx context.Context, userID string) error
	Verify(ctx context.Context, job model.RefreshJob) error
}

// Grades orchestrates the fetch → reconcile → cache pipeline and the
// in-memory what-if overlay. Core computation stays in internal/grades;
// this layer owns collaborator wiring and the cache policy.
type Grades struct {
	cfg        *config.Config
	upstream   Upstream
	stores     store.GradeStore
	creds      CredentialStore
	enqueuer   RefreshEnqueuer
	sessions   Sessions
	reconciler *grades.Reconciler
	calc       *grades.Calculator
	policy     cache.Policy
	log        zerolog.Logger

	mu     sync.Mutex
	whatIf map[string][]model.Course
}

func NewGrades(
	cfg *config.Config,
	upstream Upstream,
	stores store.GradeStore,
	creds CredentialStore,
	enqueuer RefreshEnqueuer,
	sessions Sessions,
) *Grades {
	return &Grades{
		cfg:        cfg,
		upstream:   upstream,
		stores:     stores,
		creds:      creds,
		enqueuer:   enqueuer,
		sessions:   sessions,
		reconciler: grades.NewReconciler(),
		calc:       grades.NewCalculator(stores),
		policy:     cache.NewPolicy(cfg.Cache.RefreshWindow),
		whatIf:     make(map[string][]model.Course),
		log:        logger.With("grades"),
	}
}

func (g *Grades) Calculator() *grades.Calculator {
	return g.calc
}

// RegisterSession stores the user's upstream credentials and marks the
// session as the active one for refresh commits.
func (g *Grades) RegisterSession(ctx context.Context, sessionID string, creds model.Credentials) error {
	if err := g.creds.PutCredentials(ctx, creds); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	if err := g.sessions.SetActive(ctx, creds.UserID, sessionID); err != nil {
		return fmt.Errorf("failed to register session: %w", err)
	}
	return nil
}

// Logout clears the active session so any in-flight background refresh
// is discarded at commit time, and drops the what-if overlay.
func (g *Grades) Logout(ctx context.Context, userID string) error {
	g.mu.Lock()
	delete(g.whatIf, userID)
	g.mu.Unlock()

	return g.sessions.Clear(ctx, userID)
}

// Load returns the user's courses, cached-first. A valid snapshot is
// returned immediately; if the refresh policy fires, a background job
// is enqueued without blocking the response (stale-while-revalidate).
// With no snapshot and live credentials, a synchronous sync runs; with
// neither, ErrNoCache propagates and the caller decides the fallback.
func (g *Grades) Load(ctx context.Context, userID, sessionID string) ([]model.Course, error) {
	if overlay := g.overlay(userID); overlay != nil {
		return overlay, nil
	}

	hasCreds := true
	if _, err := g.creds.GetCredentials(ctx, userID); err != nil {
		hasCreds = false
	}

	cached, err := g.stores.GetCachedGrades(ctx, userID)
	if err == nil {
		if g.policy.ShouldRefresh(hasCreds, cached.LastSync) {
			g.enqueueRefresh(ctx, userID, sessionID)
		}
		return cached.Courses, nil
	}
	if !errors.Is(err, pkgerrors.ErrNoCache) {
		g.log.Warn().Err(err).Str("user_id", userID).Msg("Cache read failed, treating as cold start")
	}

	if !hasCreds {
		return nil, pkgerrors.ErrNoCache
	}
	return g.Sync(ctx, userID)
}

// Sync performs a full foreground fetch/reconcile/cache cycle. It also
// resets any what-if overlay, mirroring a fresh login.
func (g *Grades) Sync(ctx context.Context, userID string) ([]model.Course, error) {
	creds, err := g.creds.GetCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses, err := g.fetchAndReconcile(ctx, creds)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	delete(g.whatIf, userID)
	g.mu.Unlock()

	g.commit(ctx, userID, courses)
	return courses, nil
}

// RunRefresh executes one background refresh job. The session is
// verified before any work starts and again immediately before the
// result is committed: a logout racing the fetch means the stale
// result is dropped, not applied.
func (g *Grades) RunRefresh(ctx context.Context, job model.RefreshJob) error {
	if err := g.sessions.Verify(ctx, job); err != nil {
		g.log.Info().Str("user_id", job.UserID).Err(err).Msg("Skipping refresh for inactive session")
		return nil
	}

	creds, err := g.creds.GetCredentials(ctx, job.UserID)
	if err != nil {
		return err
	}

	courses, err := g.fetchAndReconcile(ctx, creds)
	if err != nil {
		// Background failures leave the displayed state unchanged.
		g.log.Warn().Err(err).Str("user_id", job.UserID).Msg("Background refresh failed")
		return err
	}

	if err := g.sessions.Verify(ctx, job); err != nil {
		g.log.Info().Str("user_id", job.UserID).Msg("Discarding refresh result, session superseded")
		return nil
	}

	g.commit(ctx, job.UserID, courses)
	return nil
}

// GPA computes the aggregate over the user's current course view
// (overlay included) under the persisted settings.
func (g *Grades) GPA(ctx context.Context, userID, sessionID string) (model.GPAResult, error) {
	courses, err := g.Load(ctx, userID, sessionID)
	if err != nil {
		return model.GPAResult{}, err
	}
	return g.calc.Compute(ctx, courses)
}

// AddHypothetical appends a what-if assignment to a course, in memory
// only, and recomputes that course's grade and letter. The overlay is
// never written to the cache or upstream.
func (g *Grades) AddHypothetical(ctx context.Context, userID, sessionID, courseID string, assignment model.Assignment) ([]model.Course, error) {
	courses, err := g.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	overlay := copyCourses(courses)
	found := false
	for i := range overlay {
		if overlay[i].ID != courseID {
			continue
		}
		assignment.IsHypothetical = true
		if assignment.ID == "" {
			assignment.ID = fmt.Sprintf("%s-hypothetical-%d", courseID, time.Now().UnixNano())
		}
		overlay[i].Assignments = append(overlay[i].Assignments, assignment)
		recomputeCourse(&overlay[i])
		found = true
		break
	}
	if !found {
		return nil, pkgerrors.ErrCourseNotFound
	}

	g.setOverlay(userID, overlay)
	return overlay, nil
}

// RemoveHypothetical removes a what-if assignment again.
func (g *Grades) RemoveHypothetical(ctx context.Context, userID, sessionID, courseID, assignmentID string) ([]model.Course, error) {
	courses, err := g.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	overlay := copyCourses(courses)
	for i := range overlay {
		if overlay[i].ID != courseID {
			continue
		}
		kept := overlay[i].Assignments[:0]
		removed := false
		for _, a := range overlay[i].Assignments {
			if a.ID == assignmentID && a.IsHypothetical {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		if !removed {
			return nil, pkgerrors.ErrAssignmentNotFound
		}
		overlay[i].Assignments = kept
		recomputeCourse(&overlay[i])
		g.setOverlay(userID, overlay)
		return overlay, nil
	}
	return nil, pkgerrors.ErrCourseNotFound
}

// ResetHypothetical drops the overlay, restoring the cached snapshot.
func (g *Grades) ResetHypothetical(userID string) {
	g.mu.Lock()
	delete(g.whatIf, userID)
	g.mu.Unlock()
}

// Attendance fetches and reconciles the user's attendance live; it is
// not cached.
func (g *Grades) Attendance(ctx context.Context, userID string) (model.AttendanceSummary, error) {
	creds, err := g.creds.GetCredentials(ctx, userID)
	if err != nil {
		return model.AttendanceSummary{}, err
	}
	raw, err := g.upstream.FetchAttendance(ctx, creds)
	if err != nil {
		return model.AttendanceSummary{}, err
	}
	return attendance.Summarize(attendance.Reconcile(raw)), nil
}

// Student fetches the student's profile record from upstream.
func (g *Grades) Student(ctx context.Context, userID string) (model.Student, error) {
	creds, err := g.creds.GetCredentials(ctx, userID)
	if err != nil {
		return model.Student{}, err
	}
	return g.upstream.FetchStudent(ctx, creds)
}

func (g *Grades) fetchAndReconcile(ctx context.Context, creds model.Credentials) ([]model.Course, error) {
	var lastErr error
	for attempt := 0; attempt < g.cfg.Synergy.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.cfg.Synergy.RetryDelay * time.Duration(attempt)):
			}
		}

		gradebook, err := g.upstream.FetchGradebook(ctx, creds)
		if err != nil {
			lastErr = err
			if pkgerrors.IsRetryable(err) {
				g.log.Warn().Err(err).Int("attempt", attempt+1).Msg("Gradebook fetch failed, retrying")
				continue
			}
			return nil, err
		}
		return g.reconciler.Reconcile(gradebook.Courses), nil
	}
	return nil, fmt.Errorf("gradebook fetch exhausted retries: %w", lastErr)
}

func (g *Grades) commit(ctx context.Context, userID string, courses []model.Course) {
	err := g.stores.PutCachedGrades(ctx, model.CachedGrades{
		UserID:   userID,
		Courses:  courses,
		LastSync: time.Now().UTC(),
	})
	if err != nil {
		// Degraded persistence is not fatal; the fresh data is still
		// served for this request.
		g.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to cache grade snapshot")
	}
}

func (g *Grades) enqueueRefresh(ctx context.Context, userID, sessionID string) {
	job := model.RefreshJob{UserID: userID, SessionID: sessionID}
	if err := g.enqueuer.EnqueueRefreshJob(ctx, job); err != nil {
		g.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to enqueue background refresh")
	}
}

func (g *Grades) overlay(userID string) []model.Course {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.whatIf[userID]
}

func (g *Grades) setOverlay(userID string, courses []model.Course) {
	g.mu.Lock()
	g.whatIf[userID] = courses
	g.mu.Unlock()
}

func recomputeCourse(course *model.Course) {
	course.CurrentGrade = grades.CourseGrade(*course)
	course.LetterGrade = grades.LetterFromPercent(course.CurrentGrade)
}

func copyCourses(courses []model.Course) []model.Course {
	out := make([]model.Course, len(courses))
	copy(out, courses)
	for i := range out {
		assignments := make([]model.Assignment, len(out[i].Assignments))
		copy(assignments, out[i].Assignments)
		out[i].Assignments = assignments

		weights := make(map[string]float64, len(out[i].CategoryWeights))
		for k, v := range out[i].CategoryWeights {
			weights[k] = v
		}
		out[i].CategoryWeights = weights
	}
	return out
}
