package assessment

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence collaborator for the scoring engine.
type Repository interface {
	// GetActiveBaseline returns the active baseline for a patient, or nil
	// when the patient has none. Absence is not an error.
	GetActiveBaseline(ctx context.Context, patientID uuid.UUID) (*Baseline, error)

	// CreateBaseline inserts a new active baseline and deactivates every
	// previously active baseline for the same patient in one atomic step.
	CreateBaseline(ctx context.Context, b *Baseline) error

	CreateAnalysis(ctx context.Context, a *Analysis) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error)
	AnalysesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Analysis, int, error)
	AnalysesWithDeterioration(ctx context.Context, limit, offset int) ([]*Analysis, int, error)

	CreateAssessment(ctx context.Context, e *Assessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	AssessmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Assessment, error)
}

// TextGenerator is the external analysis service boundary: a prompt in, the
// model's raw text out.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}
