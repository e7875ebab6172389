package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recorderfy/analysis-service/internal/domain/audit"
	"github.com/recorderfy/analysis-service/internal/platform/gemini"
)

// Batch failure policies for the per-question-call variant.
const (
	BatchFailAbort = "abort"
	BatchFailSkip  = "skip"
)

// Service is the scoring and baseline-tracking engine. It is stateless and
// safe for concurrent use; every assessment resolves its baseline status once
// and holds it fixed through the operation.
type Service struct {
	repo      Repository
	gen       TextGenerator
	auditor   audit.Recorder
	batchMode string
}

func NewService(repo Repository, gen TextGenerator, auditor audit.Recorder, batchMode string) *Service {
	if batchMode != BatchFailSkip {
		batchMode = BatchFailAbort
	}
	return &Service{repo: repo, gen: gen, auditor: auditor, batchMode: batchMode}
}

func validateAnalyzeRequest(req *AnalyzeRequest) error {
	if req == nil {
		return fmt.Errorf("%w: question is required", ErrValidation)
	}
	if req.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if req.ImageID == uuid.Nil {
		return fmt.Errorf("%w: image_id is required", ErrValidation)
	}
	if req.PatientDescription == "" {
		return fmt.Errorf("%w: patient_description is required", ErrValidation)
	}
	if req.ActualDescription == "" {
		return fmt.Errorf("%w: actual_description is required", ErrValidation)
	}
	return nil
}

// imageMetadata is the JSON blob stored with each analysis row.
func imageMetadata(imageID uuid.UUID, questionNumber int) string {
	m := map[string]interface{}{
		"imagenId":      imageID,
		"fechaAnalisis": time.Now().UTC(),
		"fuente":        "api_externa",
	}
	if questionNumber > 0 {
		m["numero_pregunta"] = questionNumber
	}
	b, _ := json.Marshal(m)
	return string(b)
}

func (s *Service) callModel(ctx context.Context, prompt string, maxTokens int) (string, error) {
	raw, err := s.gen.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	return raw, nil
}

// Analyze evaluates a single question. If the patient has no active baseline,
// this question's global score becomes the new baseline.
func (s *Service) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	if err := validateAnalyzeRequest(req); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.LevelInfo, "assessment.Analyze",
		fmt.Sprintf("starting analysis for patient %s, image %s", req.PatientID, req.ImageID),
		audit.WithActor(req.PatientID))

	active, err := s.repo.GetActiveBaseline(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	isBaseline := active == nil

	var baselineScore *float64
	if !isBaseline {
		baselineScore = &active.InitialScore
	}

	metadata := imageMetadata(req.ImageID, 0)
	prompt := gemini.BuildQuestionPrompt(gemini.Question{
		PatientText:   req.PatientDescription,
		ReferenceText: req.ActualDescription,
		Metadata:      metadata,
	}, baselineScore)

	raw, err := s.callModel(ctx, prompt, gemini.MaxTokensQuestion)
	if err != nil {
		s.recordFailure(ctx, "assessment.Analyze", req.PatientID, err)
		return nil, err
	}

	result, err := gemini.DecodeQuestion(raw)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		s.recordFailure(ctx, "assessment.Analyze", req.PatientID, wrapped)
		return nil, wrapped
	}

	analysis := s.buildAnalysis(req, result, metadata, isBaseline, active)

	if isBaseline {
		created, err := s.establishBaseline(ctx, req.PatientID, result.ScoreGlobal, 1)
		if err != nil {
			return nil, err
		}
		analysis.BaselineID = &created.ID
	}

	if err := s.repo.CreateAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.LevelInfo, "assessment.Analyze",
		fmt.Sprintf("analysis %s saved with global score %.2f", analysis.ID, analysis.GlobalScore),
		audit.WithActor(req.PatientID))

	return analysisResponse(analysis, singleMessage(analysis)), nil
}

// buildAnalysis converts one decoded model result into a persistable record.
// The comparison block's change level is normalized to the engine's scale.
func (s *Service) buildAnalysis(req *AnalyzeRequest, result *gemini.QuestionResult, metadata string, isBaseline bool, active *Baseline) *Analysis {
	a := &Analysis{
		PatientID:           req.PatientID,
		ImageID:             req.ImageID,
		PatientDescription:  req.PatientDescription,
		ActualDescription:   req.ActualDescription,
		ImageMetadata:       metadata,
		SemanticScore:       result.ScoreSemantic,
		ObjectScore:         result.ScoreObjects,
		ActionScore:         result.ScoreActions,
		FalseObjects:        result.FalseObjects,
		ResponseTimeSec:     result.ResponseTimeSec,
		LinguisticCoherence: result.LinguisticCoherence,
		GlobalScore:         result.ScoreGlobal,
		Observations:        result.Observations,
		IsBaseline:          isBaseline,
	}
	if active != nil {
		a.BaselineID = &active.ID
	}
	if cmp := result.BaselineComparison; cmp != nil {
		delta := cmp.ScoreDifference
		detected := cmp.DeteriorationDetected
		level := string(NormalizeLevel(cmp.ChangeLevel))
		a.ScoreDelta = &delta
		a.DeteriorationDetected = &detected
		a.ChangeLevel = &level
	}
	if rawJSON, err := json.Marshal(result); err == nil {
		a.RawResponse = string(rawJSON)
	}
	return a
}

func (s *Service) establishBaseline(ctx context.Context, patientID uuid.UUID, score float64, analysisCount int) (*Baseline, error) {
	notes := "Baseline established automatically - first assessment for the patient"
	if analysisCount > 1 {
		notes = fmt.Sprintf("Baseline established automatically - first assessment for the patient with %d analyses", analysisCount)
	}

	b := &Baseline{
		PatientID:       patientID,
		InitialScore:    score,
		AssessmentCount: analysisCount,
		Notes:           notes,
	}
	if err := s.repo.CreateBaseline(ctx, b); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.LevelInfo, "assessment.Baseline",
		fmt.Sprintf("baseline %s created for patient %s with score %.2f", b.ID, patientID, score),
		audit.WithActor(patientID))
	return b, nil
}

func singleMessage(a *Analysis) string {
	if a.IsBaseline {
		return "Baseline established - first assessment for this patient"
	}
	if a.DeteriorationDetected != nil && *a.DeteriorationDetected {
		level := LevelStable
		if a.ChangeLevel != nil {
			level = Level(*a.ChangeLevel)
		}
		return fmt.Sprintf("Cognitive deterioration detected - level: %s", level)
	}
	return "Follow-up analysis completed - no significant signs of deterioration"
}

func analysisResponse(a *Analysis, message string) *AnalyzeResponse {
	cmp := BaselineComparison{ChangeLevel: LevelStable}
	if a.ScoreDelta != nil {
		cmp.ScoreDelta = a.ScoreDelta
	}
	if a.DeteriorationDetected != nil {
		cmp.DeteriorationDetected = *a.DeteriorationDetected
	}
	if a.ChangeLevel != nil {
		cmp.ChangeLevel = NormalizeLevel(*a.ChangeLevel)
	}

	return &AnalyzeResponse{
		AnalysisID:          a.ID,
		PatientID:           a.PatientID,
		ImageID:             a.ImageID,
		SemanticScore:       a.SemanticScore,
		ObjectScore:         a.ObjectScore,
		ActionScore:         a.ActionScore,
		FalseObjects:        a.FalseObjects,
		ResponseTimeSec:     a.ResponseTimeSec,
		LinguisticCoherence: a.LinguisticCoherence,
		GlobalScore:         a.GlobalScore,
		Observations:        a.Observations,
		BaselineComparison:  cmp,
		IsBaseline:          a.IsBaseline,
		AnalyzedAt:          a.AnalyzedAt,
		Message:             message,
	}
}

// AnalyzeMultiple evaluates a questionnaire with one combined model call. The
// model must return exactly one result per question; a count mismatch is a
// malformed response. When this is the patient's first assessment, the
// baseline is created from the mean global score and back-filled into every
// analysis before saving.
func (s *Service) AnalyzeMultiple(ctx context.Context, reqs []*AnalyzeRequest, patientID uuid.UUID) ([]*AnalyzeResponse, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: at least one question is required", ErrValidation)
	}
	for i, req := range reqs {
		if err := validateAnalyzeRequest(req); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	s.auditor.Record(ctx, audit.LevelInfo, "assessment.AnalyzeMultiple",
		fmt.Sprintf("starting questionnaire analysis for patient %s with %d questions", patientID, len(reqs)),
		audit.WithActor(patientID))

	active, err := s.repo.GetActiveBaseline(ctx, patientID)
	if err != nil {
		return nil, err
	}
	isBaseline := active == nil

	var baselineScore *float64
	if !isBaseline {
		baselineScore = &active.InitialScore
	}

	questions := make([]gemini.Question, len(reqs))
	for i, req := range reqs {
		questions[i] = gemini.Question{
			PatientText:   req.PatientDescription,
			ReferenceText: req.ActualDescription,
		}
	}

	raw, err := s.callModel(ctx, gemini.BuildQuestionnairePrompt(questions, baselineScore), gemini.MaxTokensQuestionnaire)
	if err != nil {
		s.recordFailure(ctx, "assessment.AnalyzeMultiple", patientID, err)
		return nil, err
	}

	batch, err := gemini.DecodeBatch(raw)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		s.recordFailure(ctx, "assessment.AnalyzeMultiple", patientID, wrapped)
		return nil, wrapped
	}

	if len(batch.QuestionResults) != len(reqs) {
		err := fmt.Errorf("%w: model returned %d results for %d questions",
			ErrMalformedResponse, len(batch.QuestionResults), len(reqs))
		s.recordFailure(ctx, "assessment.AnalyzeMultiple", patientID, err)
		return nil, err
	}

	rawJSON, _ := json.Marshal(batch)

	var avgResponseTime float64
	if batch.Summary != nil {
		avgResponseTime = batch.Summary.ResponseTimeAvgSec
	}

	analyses := make([]*Analysis, len(reqs))
	var scoreSum float64
	for i, req := range reqs {
		result := batch.QuestionResults[i]

		a := &Analysis{
			PatientID:           patientID,
			ImageID:             req.ImageID,
			PatientDescription:  req.PatientDescription,
			ActualDescription:   req.ActualDescription,
			ImageMetadata:       imageMetadata(req.ImageID, i+1),
			SemanticScore:       result.ScoreSemantic,
			ObjectScore:         result.ScoreObjects,
			ActionScore:         result.ScoreActions,
			FalseObjects:        result.FalseObjects,
			ResponseTimeSec:     avgResponseTime,
			LinguisticCoherence: result.LinguisticCoherence,
			GlobalScore:         result.ScoreGlobal,
			Observations:        result.Observations,
			IsBaseline:          isBaseline,
			RawResponse:         string(rawJSON),
		}
		if active != nil {
			a.BaselineID = &active.ID
		}
		if cmp := batch.BaselineComparison; cmp != nil {
			delta := cmp.ScoreDifference
			detected := cmp.DeteriorationDetected
			level := string(NormalizeLevel(cmp.ChangeLevel))
			a.ScoreDelta = &delta
			a.DeteriorationDetected = &detected
			a.ChangeLevel = &level
		}

		analyses[i] = a
		scoreSum += result.ScoreGlobal
	}

	if isBaseline {
		mean := scoreSum / float64(len(analyses))
		created, err := s.establishBaseline(ctx, patientID, mean, len(analyses))
		if err != nil {
			return nil, err
		}
		for _, a := range analyses {
			a.BaselineID = &created.ID
		}
	}

	responses := make([]*AnalyzeResponse, len(analyses))
	for i, a := range analyses {
		if err := s.repo.CreateAnalysis(ctx, a); err != nil {
			return nil, err
		}
		responses[i] = analysisResponse(a, batchMessage(a, len(analyses)))
	}

	s.auditor.Record(ctx, audit.LevelInfo, "assessment.AnalyzeMultiple",
		fmt.Sprintf("questionnaire analysis completed - %d analyses saved", len(responses)),
		audit.WithActor(patientID))

	return responses, nil
}

func batchMessage(a *Analysis, count int) string {
	if a.IsBaseline {
		return fmt.Sprintf("Baseline established - assessment with %d analyses", count)
	}
	return singleMessage(a)
}

// AnalyzeEach evaluates a questionnaire with one model call per question. The
// batch failure policy decides what a per-question failure does: abort fails
// the whole batch, skip records the failure and continues with the remaining
// questions. Responses preserve original question order either way.
func (s *Service) AnalyzeEach(ctx context.Context, reqs []*AnalyzeRequest, patientID uuid.UUID) (*BatchResult, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: at least one question is required", ErrValidation)
	}
	for i, req := range reqs {
		if err := validateAnalyzeRequest(req); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	active, err := s.repo.GetActiveBaseline(ctx, patientID)
	if err != nil {
		return nil, err
	}
	isBaseline := active == nil

	var baselineScore *float64
	if !isBaseline {
		baselineScore = &active.InitialScore
	}

	// Indexed by question so ordering survives regardless of which calls
	// fail; nil slots mark skipped questions.
	analyses := make([]*Analysis, len(reqs))
	var failures []BatchItemFailure
	var scoreSum float64
	succeeded := 0

	for i, req := range reqs {
		metadata := imageMetadata(req.ImageID, i+1)
		prompt := gemini.BuildQuestionPrompt(gemini.Question{
			PatientText:   req.PatientDescription,
			ReferenceText: req.ActualDescription,
			Metadata:      metadata,
		}, baselineScore)

		raw, err := s.callModel(ctx, prompt, gemini.MaxTokensQuestion)
		var result *gemini.QuestionResult
		if err == nil {
			result, err = gemini.DecodeQuestion(raw)
			if err != nil {
				err = fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
		}

		if err != nil {
			s.auditor.Record(ctx, audit.LevelError, "assessment.AnalyzeEach",
				fmt.Sprintf("question %d failed: %v", i+1, err),
				audit.WithActor(patientID))

			if s.batchMode == BatchFailAbort {
				return nil, err
			}
			failures = append(failures, BatchItemFailure{
				Index:   i,
				ImageID: req.ImageID,
				Reason:  err.Error(),
			})
			continue
		}

		analyses[i] = s.buildAnalysis(req, result, metadata, isBaseline, active)
		scoreSum += result.ScoreGlobal
		succeeded++
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("%w: all %d questions failed", ErrNoQuestionsProcessed, len(reqs))
	}

	if isBaseline {
		mean := scoreSum / float64(succeeded)
		created, err := s.establishBaseline(ctx, patientID, mean, succeeded)
		if err != nil {
			return nil, err
		}
		for _, a := range analyses {
			if a != nil {
				a.BaselineID = &created.ID
			}
		}
	}

	result := &BatchResult{Failures: failures}
	for _, a := range analyses {
		if a == nil {
			continue
		}
		if err := s.repo.CreateAnalysis(ctx, a); err != nil {
			return nil, err
		}
		result.Responses = append(result.Responses, analysisResponse(a, batchMessage(a, succeeded)))
	}

	return result, nil
}

// ProcessAssessment handles a full questionnaire submission: it evaluates all
// questions through AnalyzeMultiple, aggregates means, applies the majority
// deterioration rule, classifies severity, renders the narrative and persists
// the assessment aggregate.
func (s *Service) ProcessAssessment(ctx context.Context, req *AssessmentRequest) (*AssessmentResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("%w: patient_id must be a valid UUID", ErrValidation)
	}
	caregiverID, err := uuid.Parse(req.CaregiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: caregiver_id must be a valid UUID", ErrValidation)
	}
	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("%w: at least one question is required", ErrValidation)
	}

	s.auditor.Record(ctx, audit.LevelInfo, "assessment.ProcessAssessment",
		fmt.Sprintf("starting full assessment for patient %s with %d questions", patientID, len(req.Questions)),
		audit.WithActor(patientID))

	// Baseline status is fixed here, before any question is evaluated, so a
	// baseline created mid-operation is never mistaken for a prior one.
	active, err := s.repo.GetActiveBaseline(ctx, patientID)
	if err != nil {
		return nil, err
	}
	isBaseline := active == nil

	analyzeReqs := make([]*AnalyzeRequest, len(req.Questions))
	for i, q := range req.Questions {
		imageID, err := uuid.Parse(q.PictureID)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d picture_id must be a valid UUID", ErrValidation, i+1)
		}
		analyzeReqs[i] = &AnalyzeRequest{
			PatientID:          patientID,
			ImageID:            imageID,
			PatientDescription: q.PatientAnswer,
			ActualDescription:  q.ActualDescription,
		}
	}

	responses, err := s.AnalyzeMultiple(ctx, analyzeReqs, patientID)
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, fmt.Errorf("%w: assessment produced no results", ErrNoQuestionsProcessed)
	}

	outcomes := make([]QuestionOutcome, len(responses))
	var sumGlobal, sumSemantic, sumObject, sumAction, sumCoherence, sumResponseTime float64
	flagged := 0

	for i, resp := range responses {
		q := req.Questions[i]
		outcomes[i] = QuestionOutcome{
			PictureID:             q.PictureID,
			AnalysisID:            resp.AnalysisID,
			ImageURL:              q.ImageURL,
			ActualDescription:     q.ActualDescription,
			PatientAnswer:         q.PatientAnswer,
			GlobalScore:           resp.GlobalScore,
			SemanticScore:         resp.SemanticScore,
			ObjectScore:           resp.ObjectScore,
			ActionScore:           resp.ActionScore,
			FalseObjects:          resp.FalseObjects,
			LinguisticCoherence:   resp.LinguisticCoherence,
			Observations:          resp.Observations,
			ChangeLevel:           resp.BaselineComparison.ChangeLevel,
			DeteriorationDetected: resp.BaselineComparison.DeteriorationDetected,
		}

		sumGlobal += resp.GlobalScore
		sumSemantic += resp.SemanticScore
		sumObject += resp.ObjectScore
		sumAction += resp.ActionScore
		sumCoherence += resp.LinguisticCoherence
		sumResponseTime += resp.ResponseTimeSec
		if resp.BaselineComparison.DeteriorationDetected {
			flagged++
		}
	}

	processed := len(outcomes)
	meanGlobal := sumGlobal / float64(processed)
	meanSemantic := sumSemantic / float64(processed)
	meanObject := sumObject / float64(processed)
	meanAction := sumAction / float64(processed)
	meanCoherence := sumCoherence / float64(processed)
	meanResponseTime := sumResponseTime / float64(processed)

	deteriorated := MajorityDeteriorated(flagged, processed)
	level := ClassifyLevel(meanGlobal, deteriorated)

	var baselineDelta *float64
	var baselineID *uuid.UUID
	if isBaseline {
		// The baseline was created inside AnalyzeMultiple; fetch it for the
		// aggregate's reference.
		created, err := s.repo.GetActiveBaseline(ctx, patientID)
		if err != nil {
			return nil, err
		}
		if created != nil {
			baselineID = &created.ID
		}
	} else {
		baselineID = &active.ID
		delta := meanGlobal - active.InitialScore
		baselineDelta = &delta
	}

	observations := GeneralObservations(outcomes, meanGlobal)
	recommendations := Recommendations(level)

	assessment := &Assessment{
		PatientID:             patientID,
		CaregiverID:           caregiverID,
		AssessedAt:            req.PerformedAt,
		TotalQuestions:        len(req.Questions),
		QuestionsProcessed:    processed,
		MeanGlobalScore:       meanGlobal,
		MeanSemanticScore:     meanSemantic,
		MeanObjectScore:       meanObject,
		MeanActionScore:       meanAction,
		MeanCoherence:         meanCoherence,
		MeanResponseTime:      meanResponseTime,
		DeteriorationDetected: deteriorated,
		DeteriorationLevel:    level,
		BaselineDelta:         baselineDelta,
		GeneralObservations:   observations,
		Recommendations:       recommendations,
		IsBaseline:            isBaseline,
		BaselineID:            baselineID,
	}

	if err := s.repo.CreateAssessment(ctx, assessment); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.LevelInfo, "assessment.ProcessAssessment",
		fmt.Sprintf("assessment %s saved - mean score %.2f, level %s", assessment.ID, meanGlobal, level),
		audit.WithActor(patientID))

	return &AssessmentResponse{
		AssessmentID:          assessment.ID,
		PatientID:             patientID,
		CaregiverID:           caregiverID,
		AssessedAt:            req.PerformedAt,
		TotalQuestions:        len(req.Questions),
		QuestionsProcessed:    processed,
		MeanGlobalScore:       meanGlobal,
		MeanSemanticScore:     meanSemantic,
		MeanObjectScore:       meanObject,
		MeanActionScore:       meanAction,
		MeanCoherence:         meanCoherence,
		MeanResponseTime:      meanResponseTime,
		DeteriorationDetected: deteriorated,
		DeteriorationLevel:    level,
		BaselineDelta:         baselineDelta,
		Results:               outcomes,
		GeneralObservations:   observations,
		Recommendations:       recommendations,
		IsBaseline:            isBaseline,
		BaselineID:            baselineID,
		ProcessedAt:           assessment.CreatedAt,
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, component string, patientID uuid.UUID, err error) {
	s.auditor.Record(ctx, audit.LevelError, component, err.Error(), audit.WithActor(patientID))
}

// -- Read path --

func (s *Service) GetAnalysis(ctx context.Context, id uuid.UUID) (*AnalyzeResponse, error) {
	a, err := s.repo.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	return analysisResponse(a, historyMessage(a)), nil
}

func (s *Service) PatientHistory(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*AnalyzeResponse, int, error) {
	analyses, total, err := s.repo.AnalysesByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*AnalyzeResponse, len(analyses))
	for i, a := range analyses {
		responses[i] = analysisResponse(a, historyMessage(a))
	}
	return responses, total, nil
}

func (s *Service) FlaggedAnalyses(ctx context.Context, limit, offset int) ([]*AnalyzeResponse, int, error) {
	analyses, total, err := s.repo.AnalysesWithDeterioration(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*AnalyzeResponse, len(analyses))
	for i, a := range analyses {
		responses[i] = analysisResponse(a, historyMessage(a))
	}
	return responses, total, nil
}

func historyMessage(a *Analysis) string {
	if a.IsBaseline {
		return "Baseline established"
	}
	if a.DeteriorationDetected != nil && *a.DeteriorationDetected {
		level := LevelStable
		if a.ChangeLevel != nil {
			level = Level(*a.ChangeLevel)
		}
		return fmt.Sprintf("Cognitive deterioration detected - level: %s", level)
	}
	return "Analysis completed - no significant signs of deterioration"
}

func (s *Service) ActiveBaseline(ctx context.Context, patientID uuid.UUID) (*Baseline, error) {
	b, err := s.repo.GetActiveBaseline(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: no active baseline for patient %s", ErrNotFound, patientID)
	}
	return b, nil
}

func (s *Service) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return s.repo.GetAssessment(ctx, id)
}

func (s *Service) PatientAssessments(ctx context.Context, patientID uuid.UUID) ([]*Assessment, error) {
	return s.repo.AssessmentsByPatient(ctx, patientID)
}
