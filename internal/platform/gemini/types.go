// Package gemini is a thin client for the Google Gemini generateContent API.
// It builds the analysis prompts, calls the model with JSON response mode and
// repairs the structured output that comes back, which is frequently truncated
// or wrapped in markdown fences.
package gemini

// Request is the generateContent request envelope.
type Request struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type GenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"topK"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

// Response is the subset of the generateContent response we consume.
type Response struct {
	Candidates []Candidate `json:"candidates"`
	Error      *APIError   `json:"error,omitempty"`
}

type Candidate struct {
	Content Content `json:"content"`
}

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// QuestionResult is the structured verdict the model returns for one question.
// Field names are the wire contract with the prompt and must not change.
type QuestionResult struct {
	QuestionNumber      int                 `json:"numero_pregunta,omitempty"`
	ScoreSemantic       float64             `json:"score_semantico"`
	ScoreObjects        float64             `json:"score_objetos"`
	ScoreActions        float64             `json:"score_acciones"`
	FalseObjects        int                 `json:"falsos_objetos"`
	ResponseTimeSec     float64             `json:"tiempo_respuesta_seg"`
	LinguisticCoherence float64             `json:"coherencia_linguistica"`
	ScoreGlobal         float64             `json:"score_global"`
	Observations        string              `json:"observaciones"`
	BaselineComparison  *BaselineComparison `json:"comparacion_con_baseline,omitempty"`
}

type BaselineComparison struct {
	ScoreDifference       float64 `json:"diferencia_score"`
	DeteriorationDetected bool    `json:"deterioro_detectado"`
	ChangeLevel           string  `json:"nivel_cambio"`
}

// BatchResult is the structured verdict for a full questionnaire, produced by
// a single model call covering every question.
type BatchResult struct {
	QuestionResults    []QuestionResult    `json:"resultados_preguntas"`
	Summary            *BatchSummary       `json:"resumen_general,omitempty"`
	BaselineComparison *BaselineComparison `json:"comparacion_con_baseline,omitempty"`
}

type BatchSummary struct {
	ScoreGlobalAvg        float64 `json:"score_global_promedio"`
	ScoreSemanticAvg      float64 `json:"score_semantico_promedio"`
	ScoreObjectsAvg       float64 `json:"score_objetos_promedio"`
	ScoreActionsAvg       float64 `json:"score_acciones_promedio"`
	CoherenceAvg          float64 `json:"coherencia_promedio"`
	TotalFalseObjects     int     `json:"total_falsos_objetos"`
	ResponseTimeAvgSec    float64 `json:"tiempo_respuesta_promedio_seg"`
	Observations          string  `json:"observaciones_generales"`
	Recommendations       string  `json:"recomendaciones_medicas"`
	DeteriorationLevel    string  `json:"nivel_deterioro"`
	DeteriorationDetected bool    `json:"deterioro_detectado"`
}
