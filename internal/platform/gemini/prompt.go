package gemini

import (
	"fmt"
	"strings"
)

// Question is one (patient description, reference description) pair submitted
// for evaluation.
type Question struct {
	PatientText   string
	ReferenceText string
	Metadata      string
}

func baselineClause(baselineScore *float64) string {
	if baselineScore != nil {
		return fmt.Sprintf("\n\nSCORE BASELINE PREVIO DEL PACIENTE: %.1f\nRealiza comparación con este valor para detectar deterioro cognitivo.", *baselineScore)
	}
	return "\n\nEsta es una EVALUACIÓN INICIAL (línea base). No hay datos previos para comparar."
}

// BuildQuestionPrompt renders the single-question analysis prompt. The model
// is instructed to answer with the QuestionResult JSON shape and nothing else.
func BuildQuestionPrompt(q Question, baselineScore *float64) string {
	metadata := q.Metadata
	if metadata == "" {
		metadata = "No disponible"
	}

	return fmt.Sprintf(`Eres un especialista en neurología cognitiva experto en detección de Alzheimer.

TAREA: Analiza la descripción de una imagen dada por un paciente y compárala con la descripción real.

DESCRIPCIÓN DEL PACIENTE:
%s

DESCRIPCIÓN REAL DE LA IMAGEN:
%s

METADATA DE LA IMAGEN:
%s%s

CRITERIOS DE EVALUACIÓN:

1. score_semantico (0-100): Precisión en el significado general de la escena
2. score_objetos (0-100): Precisión en identificación de objetos presentes
3. score_acciones (0-100): Precisión en descripción de acciones/actividades
4. falsos_objetos (número): Cantidad de objetos mencionados que NO están en la imagen
5. tiempo_respuesta_seg: Tiempo que tardó en responder (proporcionado)
6. coherencia_linguistica (0-100): Fluidez, gramática y coherencia del discurso
7. score_global (0-100): Promedio ponderado de todos los scores

INTERPRETACIÓN DE DETERIORO:
- diferencia_score > 0 y < 5: estable
- diferencia_score >= 5 y < 15: leve
- diferencia_score >= 15 y < 30: moderado
- diferencia_score >= 30: severo

FORMATO DE RESPUESTA (JSON ESTRICTO):
{
  "score_semantico": float,
  "score_objetos": float,
  "score_acciones": float,
  "falsos_objetos": int,
  "tiempo_respuesta_seg": float,
  "coherencia_linguistica": float,
  "score_global": float,
  "observaciones": "string detallada explicando hallazgos clave",
  "comparacion_con_baseline": {
    "diferencia_score": float,
    "deterioro_detectado": boolean,
    "nivel_cambio": "estable|leve|moderado|severo"
  }
}

IMPORTANTE: Devuelve SOLO el JSON, sin explicaciones adicionales.`,
		q.PatientText, q.ReferenceText, metadata, baselineClause(baselineScore))
}

// BuildQuestionnairePrompt renders the combined prompt that evaluates every
// question of a questionnaire in one model call.
func BuildQuestionnairePrompt(questions []Question, baselineScore *float64) string {
	var formatted strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&formatted, `
PREGUNTA #%d:
- Descripción del paciente: %s
- Descripción real: %s
`, i+1, q.PatientText, q.ReferenceText)
	}

	return fmt.Sprintf(`Eres un especialista en neurología cognitiva experto en detección temprana de Alzheimer y deterioro cognitivo.

TAREA: Analiza un CUESTIONARIO COMPLETO de evaluación cognitiva. El paciente describió %d imágenes diferentes. Evalúa CADA pregunta individualmente Y proporciona un análisis general del cuestionario completo.

%s%s

CRITERIOS DE EVALUACIÓN POR PREGUNTA:
1. score_semantico (0-100): Precisión en el significado general de la escena
2. score_objetos (0-100): Precisión en identificación de objetos presentes
3. score_acciones (0-100): Precisión en descripción de acciones/actividades
4. falsos_objetos (número): Cantidad de objetos mencionados que NO están en la imagen
5. coherencia_linguistica (0-100): Fluidez, gramática y coherencia del discurso
6. score_global (0-100): Promedio ponderado de todos los scores

CRITERIOS DEL RESUMEN GENERAL:
- Calcula promedios de todos los scores
- Identifica patrones de deterioro
- Detecta áreas de fortaleza y debilidad
- Proporciona observaciones clínicas relevantes
- Genera recomendaciones médicas específicas según el nivel de deterioro

INTERPRETACIÓN DE DETERIORO:
- Score >= 80: estable (función cognitiva normal)
- Score 70-79: leve (monitoreo recomendado)
- Score 50-69: moderado (evaluación neurológica urgente)
- Score < 50: severo (atención inmediata requerida)

FORMATO DE RESPUESTA (JSON ESTRICTO):
{
  "resultados_preguntas": [
    {
      "numero_pregunta": 1,
      "score_semantico": float,
      "score_objetos": float,
      "score_acciones": float,
      "falsos_objetos": int,
      "coherencia_linguistica": float,
      "score_global": float,
      "observaciones": "string con hallazgos específicos de esta pregunta"
    }
  ],
  "resumen_general": {
    "score_global_promedio": float,
    "score_semantico_promedio": float,
    "score_objetos_promedio": float,
    "score_acciones_promedio": float,
    "coherencia_promedio": float,
    "total_falsos_objetos": int,
    "tiempo_respuesta_promedio_seg": float,
    "observaciones_generales": "string con análisis integral del desempeño del paciente",
    "recomendaciones_medicas": "string con recomendaciones específicas según el nivel de deterioro",
    "nivel_deterioro": "estable|leve|moderado|severo",
    "deterioro_detectado": boolean
  },
  "comparacion_con_baseline": {
    "diferencia_score": float,
    "deterioro_detectado": boolean,
    "nivel_cambio": "estable|leve|moderado|severo"
  }
}

IMPORTANTE:
- Devuelve SOLO el JSON válido, sin explicaciones adicionales
- Asegúrate de incluir %d elementos en resultados_preguntas
- Sé específico en las observaciones y recomendaciones médicas`,
		len(questions), formatted.String(), baselineClause(baselineScore), len(questions))
}
