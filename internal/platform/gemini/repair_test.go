package gemini

import (
	"errors"
	"strings"
	"testing"
)

func TestRepairStripsMarkdownFence(t *testing.T) {
	raw := "```json\n{\"score_global\": 85.5}\n```"
	got := Repair(raw)
	want := `{"score_global": 85.5}`
	if got != want {
		t.Errorf("Repair() = %q, want %q", got, want)
	}
}

func TestRepairDiscardsSurroundingProse(t *testing.T) {
	raw := "Here is the analysis:\n{\"score_global\": 70}\nHope this helps!"
	got := Repair(raw)
	want := `{"score_global": 70}`
	if got != want {
		t.Errorf("Repair() = %q, want %q", got, want)
	}
}

func TestRepairBareDecimal(t *testing.T) {
	got := Repair(`{"score": 8., "b": 1}`)
	want := `{"score": 8.0, "b": 1}`
	if got != want {
		t.Errorf("Repair() = %q, want %q", got, want)
	}
}

func TestRepairUnterminatedString(t *testing.T) {
	got := Repair(`{"observaciones": "algo incomple`)
	want := `{"observaciones": "algo incomple"}`
	if got != want {
		t.Errorf("Repair() = %q, want %q", got, want)
	}
	if _, err := DecodeQuestion(got); err != nil {
		t.Errorf("DecodeQuestion(repaired) error = %v", err)
	}
}

func TestRepairIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\": 1}\n```",
		`{"score": 8., "b": 1}`,
		`{"observaciones": "algo incomple`,
		"prose {\"x\": \"y\nz\"} trailing",
		`{"a": {"b": 1.`,
		"no braces at all",
		"",
	}
	for _, in := range inputs {
		once := Repair(in)
		twice := Repair(once)
		if once != twice {
			t.Errorf("Repair not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestRepairRoundTrip(t *testing.T) {
	clean := `{"score_semantico": 85, "score_objetos": 80, "score_acciones": 90, "falsos_objetos": 0, "coherencia_linguistica": 88, "score_global": 85.5, "observaciones": "buen desempeño"}`
	wrapped := "Sure, here you go:\n```json\n" + clean + "\n```\nLet me know if you need more."

	direct, err := DecodeQuestion(clean)
	if err != nil {
		t.Fatalf("DecodeQuestion(clean) error = %v", err)
	}
	repaired, err := DecodeQuestion(wrapped)
	if err != nil {
		t.Fatalf("DecodeQuestion(wrapped) error = %v", err)
	}
	if *direct.BaselineComparison != *repaired.BaselineComparison {
		t.Errorf("baseline comparison mismatch: %+v vs %+v", direct.BaselineComparison, repaired.BaselineComparison)
	}
	direct.BaselineComparison, repaired.BaselineComparison = nil, nil
	if *direct != *repaired {
		t.Errorf("decoded results differ:\n direct  %+v\n wrapped %+v", *direct, *repaired)
	}
}

func TestRepairNormalizesLineBreaks(t *testing.T) {
	raw := "{\"observaciones\": \"linea uno\nlinea dos\"}"
	if _, err := DecodeQuestion(raw); err != nil {
		t.Errorf("DecodeQuestion() error = %v", err)
	}
}

func TestDecodeQuestionDefaults(t *testing.T) {
	res, err := DecodeQuestion(`{"score_global": 90.0, "observaciones": "ok"}`)
	if err != nil {
		t.Fatalf("DecodeQuestion() error = %v", err)
	}
	if res.BaselineComparison == nil {
		t.Fatal("BaselineComparison should default, got nil")
	}
	if res.BaselineComparison.DeteriorationDetected {
		t.Error("default DeteriorationDetected should be false")
	}
	if res.BaselineComparison.ScoreDifference != 0 {
		t.Errorf("default ScoreDifference = %v, want 0", res.BaselineComparison.ScoreDifference)
	}
	if res.BaselineComparison.ChangeLevel != "estable" {
		t.Errorf("default ChangeLevel = %q, want estable", res.BaselineComparison.ChangeLevel)
	}
}

func TestDecodeQuestionCaseInsensitiveAndUnknownFields(t *testing.T) {
	res, err := DecodeQuestion(`{"Score_Global": 77, "OBSERVACIONES": "x", "campo_extra": true}`)
	if err != nil {
		t.Fatalf("DecodeQuestion() error = %v", err)
	}
	if res.ScoreGlobal != 77 {
		t.Errorf("ScoreGlobal = %v, want 77", res.ScoreGlobal)
	}
	if res.Observations != "x" {
		t.Errorf("Observations = %q, want x", res.Observations)
	}
}

func TestDecodeQuestionMalformed(t *testing.T) {
	_, err := DecodeQuestion("the model refused to answer")
	if err == nil {
		t.Fatal("expected error for unusable text")
	}
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error type = %T, want *MalformedError", err)
	}
}

func TestDecodeBatch(t *testing.T) {
	raw := "```json\n" + `{
	  "resultados_preguntas": [
	    {"numero_pregunta": 1, "score_global": 60, "observaciones": "a"},
	    {"numero_pregunta": 2, "score_global": 90, "observaciones": "b"}
	  ],
	  "resumen_general": {
	    "score_global_promedio": 75,
	    "nivel_deterioro": "leve",
	    "deterioro_detectado": true
	  },
	  "comparacion_con_baseline": {
	    "diferencia_score": -10,
	    "deterioro_detectado": true,
	    "nivel_cambio": "leve"
	  }
	}` + "\n```"

	res, err := DecodeBatch(raw)
	if err != nil {
		t.Fatalf("DecodeBatch() error = %v", err)
	}
	if len(res.QuestionResults) != 2 {
		t.Fatalf("len(QuestionResults) = %d, want 2", len(res.QuestionResults))
	}
	if res.QuestionResults[1].ScoreGlobal != 90 {
		t.Errorf("second question ScoreGlobal = %v, want 90", res.QuestionResults[1].ScoreGlobal)
	}
	if res.Summary == nil || res.Summary.ScoreGlobalAvg != 75 {
		t.Errorf("Summary = %+v, want avg 75", res.Summary)
	}
	if !res.BaselineComparison.DeteriorationDetected {
		t.Error("BaselineComparison.DeteriorationDetected = false, want true")
	}
}

func TestMalformedErrorCarriesRepairedText(t *testing.T) {
	_, err := DecodeQuestion(`{"broken": `)
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error type = %T, want *MalformedError", err)
	}
	if !strings.HasPrefix(malformed.RepairedText, "{") {
		t.Errorf("RepairedText = %q, want the repaired payload", malformed.RepairedText)
	}
}
