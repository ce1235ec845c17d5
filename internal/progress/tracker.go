package progress

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/oakline/commerce-core/internal/catalog"
)

var (
	ErrNotEnrolled         = errors.New("not enrolled in course")
	ErrCertificateNotFound = errors.New("certificate not found")
)

// Enrollment tracks lesson completion for one course. The fraction is
// monotonically non-decreasing and CertificateIssued flips to true exactly
// once, when the fraction reaches 1.
type Enrollment struct {
	CourseID             string `json:"courseId"`
	CompletedLessonCount int    `json:"completedLessonCount"`
	TotalLessonCount     int    `json:"totalLessonCount"`
	CertificateIssued    bool   `json:"certificateIssued"`
}

// Fraction is completed over total lessons.
func (e Enrollment) Fraction() float64 {
	if e.TotalLessonCount == 0 {
		return 0
	}
	return float64(e.CompletedLessonCount) / float64(e.TotalLessonCount)
}

// SnapshotStore persists enrollment snapshots. Persistence is best effort
// and never blocks the in-memory state.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, key string, value any) error
}

// Tracker owns enrollment state per course and triggers certificate
// issuance at completion. Lesson and course references resolve through the
// catalog; unresolvable references surface as typed errors.
type Tracker struct {
	catalog   catalog.Catalog
	issuer    Issuer
	snapshots SnapshotStore
	logger    *log.Logger

	mu          sync.Mutex
	enrollments map[string]*Enrollment
	certs       map[string]Certificate
}

func NewTracker(cat catalog.Catalog, issuer Issuer, snapshots SnapshotStore, logger *log.Logger) *Tracker {
	return &Tracker{
		catalog:     cat,
		issuer:      issuer,
		snapshots:   snapshots,
		logger:      logger,
		enrollments: make(map[string]*Enrollment),
		certs:       make(map[string]Certificate),
	}
}

// Enroll starts tracking a course. Enrolling twice is a no-op.
func (t *Tracker) Enroll(ctx context.Context, courseID string) (Enrollment, error) {
	course, err := t.catalog.Course(ctx, courseID)
	if err != nil {
		return Enrollment{}, fmt.Errorf("resolve course %s: %w", courseID, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.enrollments[courseID]; ok {
		return *e, nil
	}
	e := &Enrollment{CourseID: courseID, TotalLessonCount: len(course.LessonIDs)}
	t.enrollments[courseID] = e
	t.save(ctx, *e)
	return *e, nil
}

// CompleteLesson records one finished lesson, saturating at the course's
// lesson count. The first time the fraction reaches 1 the certificate is
// issued; repeated calls after completion never issue a second one.
func (t *Tracker) CompleteLesson(ctx context.Context, courseID, lessonID string) (Enrollment, error) {
	course, err := t.catalog.Course(ctx, courseID)
	if err != nil {
		return Enrollment{}, fmt.Errorf("resolve course %s: %w", courseID, err)
	}
	if !course.HasLesson(lessonID) {
		return Enrollment{}, fmt.Errorf("lesson %s in course %s: %w", lessonID, courseID, catalog.ErrLessonNotFound)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.enrollments[courseID]
	if !ok {
		return Enrollment{}, ErrNotEnrolled
	}

	if e.CompletedLessonCount < e.TotalLessonCount {
		e.CompletedLessonCount++
	}

	if e.Fraction() >= 1.0 && !e.CertificateIssued {
		cert, err := t.issuer.Issue(ctx, courseID, course.InstructorName)
		if err != nil {
			// Leave CertificateIssued false so the next completion call
			// retries; the count itself already saturated.
			return *e, fmt.Errorf("issue certificate: %w", err)
		}
		e.CertificateIssued = true
		t.certs[courseID] = cert
	}

	t.save(ctx, *e)
	return *e, nil
}

// Progress returns the current enrollment state for a course.
func (t *Tracker) Progress(courseID string) (Enrollment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.enrollments[courseID]
	if !ok {
		return Enrollment{}, ErrNotEnrolled
	}
	return *e, nil
}

// Certificate returns the issued certificate for a completed course.
func (t *Tracker) Certificate(courseID string) (Certificate, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cert, ok := t.certs[courseID]
	if !ok {
		return Certificate{}, ErrCertificateNotFound
	}
	return cert, nil
}

// save writes the enrollment snapshot. Failures are logged, not returned:
// the in-memory aggregate is the source of truth (single-owner model).
func (t *Tracker) save(ctx context.Context, e Enrollment) {
	if t.snapshots == nil {
		return
	}
	if err := t.snapshots.SaveSnapshot(ctx, "enrollment/"+e.CourseID, e); err != nil {
		t.logger.Printf("save enrollment snapshot %s: %v", e.CourseID, err)
	}
}
