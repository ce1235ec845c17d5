package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/commerce-core/internal/progress"
)

// CertificatePublisher emits the certificate.issued event. Delivery is
// best effort.
type CertificatePublisher interface {
	PublishCertificateIssued(ctx context.Context, cert progress.Certificate) error
}

type ProgressHandler struct {
	tracker   *progress.Tracker
	publisher CertificatePublisher
	logger    *log.Logger
}

func NewProgressHandler(tracker *progress.Tracker, publisher CertificatePublisher, logger *log.Logger) *ProgressHandler {
	return &ProgressHandler{tracker: tracker, publisher: publisher, logger: logger}
}

func (h *ProgressHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	e, err := h.tracker.Enroll(r.Context(), chi.URLParam(r, "courseId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progressView(e))
}

func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")
	lessonID := chi.URLParam(r, "lessonId")

	before, err := h.tracker.Progress(courseID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	e, err := h.tracker.CompleteLesson(r.Context(), courseID, lessonID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if !before.CertificateIssued && e.CertificateIssued && h.publisher != nil {
		if cert, certErr := h.tracker.Certificate(courseID); certErr == nil {
			if pubErr := h.publisher.PublishCertificateIssued(r.Context(), cert); pubErr != nil {
				h.logger.Printf("publish certificate issued courseId=%s: %v", courseID, pubErr)
			}
		}
	}

	writeJSON(w, http.StatusOK, progressView(e))
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	e, err := h.tracker.Progress(chi.URLParam(r, "courseId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progressView(e))
}

func (h *ProgressHandler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	cert, err := h.tracker.Certificate(chi.URLParam(r, "courseId"))
	if err != nil {
		if errors.Is(err, progress.ErrCertificateNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func progressView(e progress.Enrollment) map[string]any {
	return map[string]any{
		"enrollment": e,
		"fraction":   e.Fraction(),
	}
}
