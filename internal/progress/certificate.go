package progress

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Certificate is the one-time completion artifact for a course. It is
// immutable after issuance.
type Certificate struct {
	ID                string    `json:"certificateId"`
	CourseID          string    `json:"courseId"`
	InstructorName    string    `json:"instructorName"`
	CertificateNumber string    `json:"certificateNumber"`
	IssuedAt          time.Time `json:"issuedAt"`
}

// Issuer creates certificates. The Tracker guarantees it is called at most
// once per course.
type Issuer interface {
	Issue(ctx context.Context, courseID, instructorName string) (Certificate, error)
}

// CertificateIssuer generates certificates with a 12-character uppercase
// number derived from a random identifier. Numbers are not checked for
// uniqueness against previously issued ones; the identifier space makes
// collisions negligible for display purposes.
type CertificateIssuer struct{}

func NewCertificateIssuer() *CertificateIssuer {
	return &CertificateIssuer{}
}

func (i *CertificateIssuer) Issue(ctx context.Context, courseID, instructorName string) (Certificate, error) {
	return Certificate{
		ID:                uuid.NewString(),
		CourseID:          courseID,
		InstructorName:    instructorName,
		CertificateNumber: newCertificateNumber(),
		IssuedAt:          time.Now().UTC(),
	}, nil
}

func newCertificateNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:12]
}
