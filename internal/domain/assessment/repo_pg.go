package assessment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recorderfy/analysis-service/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// -- Baselines --

const baselineCols = `id, paciente_id, score_global_inicial, fecha_establecimiento,
	numero_evaluaciones, fecha_ultima_evaluacion, activa, notas`

func scanBaseline(row pgx.Row) (*Baseline, error) {
	var b Baseline
	err := row.Scan(&b.ID, &b.PatientID, &b.InitialScore, &b.EstablishedAt,
		&b.AssessmentCount, &b.LastAssessmentAt, &b.Active, &b.Notes)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repoPG) GetActiveBaseline(ctx context.Context, patientID uuid.UUID) (*Baseline, error) {
	row := r.conn(ctx).QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM linea_base
		WHERE paciente_id = $1 AND activa
		ORDER BY fecha_establecimiento DESC
		LIMIT 1`, baselineCols), patientID)

	b, err := scanBaseline(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active baseline: %w", err)
	}
	return b, nil
}

// CreateBaseline deactivates any active baselines for the patient and inserts
// the new one inside a single transaction, so the one-active-baseline
// invariant holds under concurrent assessments. The previous rows lock on
// UPDATE, which serializes two racing creations for the same patient.
func (r *repoPG) CreateBaseline(ctx context.Context, b *Baseline) error {
	b.ID = uuid.New()
	b.Active = true

	run := func(q querier) error {
		if _, err := q.Exec(ctx, `
			UPDATE linea_base SET activa = false
			WHERE paciente_id = $1 AND activa`, b.PatientID); err != nil {
			return fmt.Errorf("deactivate previous baselines: %w", err)
		}

		row := q.QueryRow(ctx, `
			INSERT INTO linea_base (id, paciente_id, score_global_inicial, numero_evaluaciones, activa, notas)
			VALUES ($1, $2, $3, $4, true, $5)
			RETURNING fecha_establecimiento`,
			b.ID, b.PatientID, b.InitialScore, b.AssessmentCount, b.Notes)
		if err := row.Scan(&b.EstablishedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: patient %s", ErrBaselineConflict, b.PatientID)
			}
			return fmt.Errorf("insert baseline: %w", err)
		}
		return nil
	}

	// Reuse an enclosing transaction when the caller started one.
	if tx := db.TxFromContext(ctx); tx != nil {
		return run(tx)
	}

	txCtx, tx, err := db.WithTx(ctx, r.pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	if err := run(tx); err != nil {
		return err
	}
	return tx.Commit(txCtx)
}

// -- Analyses --

const analysisCols = `id, paciente_id, imagen_id, descripcion_paciente, descripcion_real,
	metadata_imagen, score_semantico, score_objetos, score_acciones, falsos_objetos,
	tiempo_respuesta_seg, coherencia_linguistica, score_global, observaciones,
	diferencia_score, deterioro_detectado, nivel_cambio, es_linea_base, linea_base_id,
	fecha_analisis, respuesta_llm_completa`

func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	err := row.Scan(&a.ID, &a.PatientID, &a.ImageID, &a.PatientDescription, &a.ActualDescription,
		&a.ImageMetadata, &a.SemanticScore, &a.ObjectScore, &a.ActionScore, &a.FalseObjects,
		&a.ResponseTimeSec, &a.LinguisticCoherence, &a.GlobalScore, &a.Observations,
		&a.ScoreDelta, &a.DeteriorationDetected, &a.ChangeLevel, &a.IsBaseline, &a.BaselineID,
		&a.AnalyzedAt, &a.RawResponse)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) CreateAnalysis(ctx context.Context, a *Analysis) error {
	a.ID = uuid.New()

	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO analisis_cognitivo (
			id, paciente_id, imagen_id, descripcion_paciente, descripcion_real,
			metadata_imagen, score_semantico, score_objetos, score_acciones, falsos_objetos,
			tiempo_respuesta_seg, coherencia_linguistica, score_global, observaciones,
			diferencia_score, deterioro_detectado, nivel_cambio, es_linea_base, linea_base_id,
			respuesta_llm_completa
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		RETURNING fecha_analisis`,
		a.ID, a.PatientID, a.ImageID, a.PatientDescription, a.ActualDescription,
		a.ImageMetadata, a.SemanticScore, a.ObjectScore, a.ActionScore, a.FalseObjects,
		a.ResponseTimeSec, a.LinguisticCoherence, a.GlobalScore, a.Observations,
		a.ScoreDelta, a.DeteriorationDetected, a.ChangeLevel, a.IsBaseline, a.BaselineID,
		a.RawResponse)
	if err := row.Scan(&a.AnalyzedAt); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *repoPG) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	row := r.conn(ctx).QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM analisis_cognitivo WHERE id = $1`, analysisCols), id)

	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: analysis %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

func (r *repoPG) AnalysesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Analysis, int, error) {
	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM analisis_cognitivo WHERE paciente_id = $1`, patientID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count analyses: %w", err)
	}

	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM analisis_cognitivo
		WHERE paciente_id = $1
		ORDER BY fecha_analisis DESC
		LIMIT $2 OFFSET $3`, analysisCols), patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query analyses by patient: %w", err)
	}
	defer rows.Close()

	analyses, err := collectAnalyses(rows)
	if err != nil {
		return nil, 0, err
	}
	return analyses, total, nil
}

func (r *repoPG) AnalysesWithDeterioration(ctx context.Context, limit, offset int) ([]*Analysis, int, error) {
	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM analisis_cognitivo WHERE deterioro_detectado`,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count flagged analyses: %w", err)
	}

	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM analisis_cognitivo
		WHERE deterioro_detectado
		ORDER BY fecha_analisis DESC
		LIMIT $1 OFFSET $2`, analysisCols), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query flagged analyses: %w", err)
	}
	defer rows.Close()

	analyses, err := collectAnalyses(rows)
	if err != nil {
		return nil, 0, err
	}
	return analyses, total, nil
}

func collectAnalyses(rows pgx.Rows) ([]*Analysis, error) {
	var analyses []*Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return analyses, nil
}

// -- Assessments --

const assessmentCols = `id, paciente_id, cuidador_id, fecha_evaluacion, total_preguntas,
	preguntas_procesadas, score_global_promedio, score_semantico_promedio,
	score_objetos_promedio, score_acciones_promedio, coherencia_promedio,
	tiempo_respuesta_promedio, deterioro_detectado, nivel_deterioro_general,
	diferencia_con_linea_base, observaciones_generales, recomendaciones_medicas,
	es_linea_base, linea_base_id, fecha_creacion`

func scanAssessment(row pgx.Row) (*Assessment, error) {
	var e Assessment
	err := row.Scan(&e.ID, &e.PatientID, &e.CaregiverID, &e.AssessedAt, &e.TotalQuestions,
		&e.QuestionsProcessed, &e.MeanGlobalScore, &e.MeanSemanticScore,
		&e.MeanObjectScore, &e.MeanActionScore, &e.MeanCoherence,
		&e.MeanResponseTime, &e.DeteriorationDetected, &e.DeteriorationLevel,
		&e.BaselineDelta, &e.GeneralObservations, &e.Recommendations,
		&e.IsBaseline, &e.BaselineID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repoPG) CreateAssessment(ctx context.Context, e *Assessment) error {
	e.ID = uuid.New()

	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO evaluacion_completa (
			id, paciente_id, cuidador_id, fecha_evaluacion, total_preguntas,
			preguntas_procesadas, score_global_promedio, score_semantico_promedio,
			score_objetos_promedio, score_acciones_promedio, coherencia_promedio,
			tiempo_respuesta_promedio, deterioro_detectado, nivel_deterioro_general,
			diferencia_con_linea_base, observaciones_generales, recomendaciones_medicas,
			es_linea_base, linea_base_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING fecha_creacion`,
		e.ID, e.PatientID, e.CaregiverID, e.AssessedAt, e.TotalQuestions,
		e.QuestionsProcessed, e.MeanGlobalScore, e.MeanSemanticScore,
		e.MeanObjectScore, e.MeanActionScore, e.MeanCoherence,
		e.MeanResponseTime, e.DeteriorationDetected, e.DeteriorationLevel,
		e.BaselineDelta, e.GeneralObservations, e.Recommendations,
		e.IsBaseline, e.BaselineID)
	if err := row.Scan(&e.CreatedAt); err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (r *repoPG) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	row := r.conn(ctx).QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM evaluacion_completa WHERE id = $1`, assessmentCols), id)

	e, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: assessment %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return e, nil
}

func (r *repoPG) AssessmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Assessment, error) {
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`
		SELECT %s FROM evaluacion_completa
		WHERE paciente_id = $1
		ORDER BY fecha_evaluacion DESC`, assessmentCols), patientID)
	if err != nil {
		return nil, fmt.Errorf("query assessments by patient: %w", err)
	}
	defer rows.Close()

	var assessments []*Assessment
	for rows.Next() {
		e, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		assessments = append(assessments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return assessments, nil
}
