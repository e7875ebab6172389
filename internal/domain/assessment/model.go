package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Baseline maps to the linea_base table. It is the patient's reference score:
// at most one baseline per patient is active at any time, and a baseline is
// never updated in place, only superseded.
type Baseline struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	PatientID         uuid.UUID  `db:"paciente_id" json:"patient_id"`
	InitialScore      float64    `db:"score_global_inicial" json:"initial_score"`
	EstablishedAt     time.Time  `db:"fecha_establecimiento" json:"established_at"`
	AssessmentCount   int        `db:"numero_evaluaciones" json:"assessment_count"`
	LastAssessmentAt  *time.Time `db:"fecha_ultima_evaluacion" json:"last_assessment_at,omitempty"`
	Active            bool       `db:"activa" json:"active"`
	Notes             string     `db:"notas" json:"notes"`
}

// Analysis maps to the analisis_cognitivo table: one evaluated question.
type Analysis struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	PatientID             uuid.UUID  `db:"paciente_id" json:"patient_id"`
	ImageID               uuid.UUID  `db:"imagen_id" json:"image_id"`
	PatientDescription    string     `db:"descripcion_paciente" json:"patient_description"`
	ActualDescription     string     `db:"descripcion_real" json:"actual_description"`
	ImageMetadata         string     `db:"metadata_imagen" json:"image_metadata,omitempty"`
	SemanticScore         float64    `db:"score_semantico" json:"semantic_score"`
	ObjectScore           float64    `db:"score_objetos" json:"object_score"`
	ActionScore           float64    `db:"score_acciones" json:"action_score"`
	FalseObjects          int        `db:"falsos_objetos" json:"false_objects"`
	ResponseTimeSec       float64    `db:"tiempo_respuesta_seg" json:"response_time_sec"`
	LinguisticCoherence   float64    `db:"coherencia_linguistica" json:"linguistic_coherence"`
	GlobalScore           float64    `db:"score_global" json:"global_score"`
	Observations          string     `db:"observaciones" json:"observations"`
	ScoreDelta            *float64   `db:"diferencia_score" json:"score_delta,omitempty"`
	DeteriorationDetected *bool      `db:"deterioro_detectado" json:"deterioration_detected,omitempty"`
	ChangeLevel           *string    `db:"nivel_cambio" json:"change_level,omitempty"`
	IsBaseline            bool       `db:"es_linea_base" json:"is_baseline"`
	BaselineID            *uuid.UUID `db:"linea_base_id" json:"baseline_id,omitempty"`
	AnalyzedAt            time.Time  `db:"fecha_analisis" json:"analyzed_at"`
	RawResponse           string     `db:"respuesta_llm_completa" json:"-"`
}

// Assessment maps to the evaluacion_completa table: the questionnaire-level
// aggregate. Its score fields are arithmetic means over the per-question
// analyses of one submission.
type Assessment struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	PatientID             uuid.UUID  `db:"paciente_id" json:"patient_id"`
	CaregiverID           uuid.UUID  `db:"cuidador_id" json:"caregiver_id"`
	AssessedAt            time.Time  `db:"fecha_evaluacion" json:"assessed_at"`
	TotalQuestions        int        `db:"total_preguntas" json:"total_questions"`
	QuestionsProcessed    int        `db:"preguntas_procesadas" json:"questions_processed"`
	MeanGlobalScore       float64    `db:"score_global_promedio" json:"mean_global_score"`
	MeanSemanticScore     float64    `db:"score_semantico_promedio" json:"mean_semantic_score"`
	MeanObjectScore       float64    `db:"score_objetos_promedio" json:"mean_object_score"`
	MeanActionScore       float64    `db:"score_acciones_promedio" json:"mean_action_score"`
	MeanCoherence         float64    `db:"coherencia_promedio" json:"mean_coherence"`
	MeanResponseTime      float64    `db:"tiempo_respuesta_promedio" json:"mean_response_time"`
	DeteriorationDetected bool       `db:"deterioro_detectado" json:"deterioration_detected"`
	DeteriorationLevel    Level      `db:"nivel_deterioro_general" json:"deterioration_level"`
	BaselineDelta         *float64   `db:"diferencia_con_linea_base" json:"baseline_delta,omitempty"`
	GeneralObservations   string     `db:"observaciones_generales" json:"general_observations"`
	Recommendations       string     `db:"recomendaciones_medicas" json:"recommendations"`
	IsBaseline            bool       `db:"es_linea_base" json:"is_baseline"`
	BaselineID            *uuid.UUID `db:"linea_base_id" json:"baseline_id,omitempty"`
	CreatedAt             time.Time  `db:"fecha_creacion" json:"created_at"`
}

// AnalyzeRequest is one question submitted for analysis.
type AnalyzeRequest struct {
	PatientID          uuid.UUID `json:"patient_id"`
	ImageID            uuid.UUID `json:"image_id"`
	PatientDescription string    `json:"patient_description"`
	ActualDescription  string    `json:"actual_description"`
}

// BaselineComparison is the comparison block attached to each analysis result.
type BaselineComparison struct {
	ScoreDelta            *float64 `json:"score_delta"`
	DeteriorationDetected bool     `json:"deterioration_detected"`
	ChangeLevel           Level    `json:"change_level"`
}

// AnalyzeResponse is the denormalized result for one question.
type AnalyzeResponse struct {
	AnalysisID          uuid.UUID          `json:"analysis_id"`
	PatientID           uuid.UUID          `json:"patient_id"`
	ImageID             uuid.UUID          `json:"image_id"`
	SemanticScore       float64            `json:"semantic_score"`
	ObjectScore         float64            `json:"object_score"`
	ActionScore         float64            `json:"action_score"`
	FalseObjects        int                `json:"false_objects"`
	ResponseTimeSec     float64            `json:"response_time_sec"`
	LinguisticCoherence float64            `json:"linguistic_coherence"`
	GlobalScore         float64            `json:"global_score"`
	Observations        string             `json:"observations"`
	BaselineComparison  BaselineComparison `json:"baseline_comparison"`
	IsBaseline          bool               `json:"is_baseline"`
	AnalyzedAt          time.Time          `json:"analyzed_at"`
	Message             string             `json:"message"`
}

// QuestionInput is one question of a full assessment submission.
type QuestionInput struct {
	PictureID         string `json:"picture_id"`
	ImageURL          string `json:"image_url,omitempty"`
	ActualDescription string `json:"actual_description"`
	PatientAnswer     string `json:"patient_answer"`
}

// AssessmentRequest is a full questionnaire submission.
type AssessmentRequest struct {
	PatientID   string          `json:"patient_id"`
	CaregiverID string          `json:"caregiver_id"`
	PerformedAt time.Time       `json:"performed_at"`
	Questions   []QuestionInput `json:"questions"`
}

// QuestionOutcome is the per-question block of an assessment response,
// emitted in original submission order.
type QuestionOutcome struct {
	PictureID             string    `json:"picture_id"`
	AnalysisID            uuid.UUID `json:"analysis_id"`
	ImageURL              string    `json:"image_url,omitempty"`
	ActualDescription     string    `json:"actual_description"`
	PatientAnswer         string    `json:"patient_answer"`
	GlobalScore           float64   `json:"global_score"`
	SemanticScore         float64   `json:"semantic_score"`
	ObjectScore           float64   `json:"object_score"`
	ActionScore           float64   `json:"action_score"`
	FalseObjects          int       `json:"false_objects"`
	LinguisticCoherence   float64   `json:"linguistic_coherence"`
	Observations          string    `json:"observations"`
	ChangeLevel           Level     `json:"change_level"`
	DeteriorationDetected bool      `json:"deterioration_detected"`
}

// AssessmentResponse is the aggregate result of a full questionnaire.
type AssessmentResponse struct {
	AssessmentID          uuid.UUID         `json:"assessment_id"`
	PatientID             uuid.UUID         `json:"patient_id"`
	CaregiverID           uuid.UUID         `json:"caregiver_id"`
	AssessedAt            time.Time         `json:"assessed_at"`
	TotalQuestions        int               `json:"total_questions"`
	QuestionsProcessed    int               `json:"questions_processed"`
	MeanGlobalScore       float64           `json:"mean_global_score"`
	MeanSemanticScore     float64           `json:"mean_semantic_score"`
	MeanObjectScore       float64           `json:"mean_object_score"`
	MeanActionScore       float64           `json:"mean_action_score"`
	MeanCoherence         float64           `json:"mean_coherence"`
	MeanResponseTime      float64           `json:"mean_response_time"`
	DeteriorationDetected bool              `json:"deterioration_detected"`
	DeteriorationLevel    Level             `json:"deterioration_level"`
	BaselineDelta         *float64          `json:"baseline_delta,omitempty"`
	Results               []QuestionOutcome `json:"results"`
	GeneralObservations   string            `json:"general_observations"`
	Recommendations       string            `json:"recommendations"`
	IsBaseline            bool              `json:"is_baseline"`
	BaselineID            *uuid.UUID        `json:"baseline_id,omitempty"`
	ProcessedAt           time.Time         `json:"processed_at"`
}

// BatchItemFailure records one skipped question of a partial batch.
type BatchItemFailure struct {
	Index   int       `json:"index"`
	ImageID uuid.UUID `json:"image_id"`
	Reason  string    `json:"reason"`
}

// BatchResult is the outcome of the per-question-call variant: every
// successful response in original order plus the failures that were skipped.
// Failures is always empty under the abort policy.
type BatchResult struct {
	Responses []*AnalyzeResponse `json:"responses"`
	Failures  []BatchItemFailure `json:"failures,omitempty"`
}
