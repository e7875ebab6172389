// Package queue exposes the analysis operations over RabbitMQ using a
// request/reply pattern: requests arrive on a topic exchange keyed per
// operation, replies go to the queue named in ReplyTo with the request's
// CorrelationId echoed back.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/recorderfy/analysis-service/internal/domain/assessment"
)

const (
	ExchangeName = "analysis-exchange"
	QueueName    = "analysis-queue"
)

// Routing keys, one per exposed operation.
const (
	KeyAnalyze             = "analysis.api.analisis.analizar"
	KeyAnalysisByPatient   = "analysis.api.analisis.getByPaciente"
	KeyAnalysisByID        = "analysis.api.analisis.getById"
	KeyDeterioration       = "analysis.api.analisis.getDeterioro"
	KeyBaseline            = "analysis.api.analisis.getLineaBase"
	KeyProcessAssessment   = "analysis.api.evaluacion.procesar"
	KeyAssessmentByID      = "analysis.api.evaluacion.getById"
	KeyAssessmentByPatient = "analysis.api.evaluacion.getByPaciente"
)

var routingKeys = []string{
	KeyAnalyze,
	KeyAnalysisByPatient,
	KeyAnalysisByID,
	KeyDeterioration,
	KeyBaseline,
	KeyProcessAssessment,
	KeyAssessmentByID,
	KeyAssessmentByPatient,
}

// Envelope is the reply format. Count is set on list responses only; a failed
// request carries Message and StatusCode instead of Data.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Count      *int        `json:"count,omitempty"`
	StatusCode int         `json:"statusCode,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

func okEnvelope(data interface{}) *Envelope {
	return &Envelope{Success: true, Data: data, Timestamp: time.Now().UTC()}
}

func listEnvelope(data interface{}, count int) *Envelope {
	return &Envelope{Success: true, Data: data, Count: &count, Timestamp: time.Now().UTC()}
}

func errEnvelope(status int, message string) *Envelope {
	return &Envelope{Success: false, Message: message, StatusCode: status, Timestamp: time.Now().UTC()}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, assessment.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, assessment.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, assessment.ErrExternalService), errors.Is(err, assessment.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, assessment.ErrNoQuestionsProcessed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, assessment.ErrBaselineConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Consumer binds the analysis queue and serves requests until its context is
// canceled.
type Consumer struct {
	url string
	svc *assessment.Service
	log zerolog.Logger
}

func NewConsumer(url string, svc *assessment.Service, log zerolog.Logger) *Consumer {
	return &Consumer{url: url, svc: svc, log: log}
}

// Run connects, declares the topology and consumes until ctx is done or the
// broker closes the channel. The caller owns reconnection policy.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	q, err := ch.QueueDeclare(QueueName, true, false, false, false, nil)
	if err != nil {
		return err
	}
	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, ExchangeName, false, nil); err != nil {
			return err
		}
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.log.Info().Str("queue", q.Name).Str("exchange", ExchangeName).Msg("queue consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			c.handle(ctx, ch, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, ch *amqp.Channel, d amqp.Delivery) {
	resp := c.Dispatch(ctx, d.RoutingKey, d.Body)

	// Fire-and-forget requests carry no ReplyTo; the work is still done.
	if d.ReplyTo != "" {
		body, err := json.Marshal(resp)
		if err == nil {
			err = ch.PublishWithContext(ctx, "", d.ReplyTo, false, false, amqp.Publishing{
				ContentType:   "application/json",
				CorrelationId: d.CorrelationId,
				Body:          body,
			})
		}
		if err != nil {
			c.log.Warn().Err(err).Str("routing_key", d.RoutingKey).Msg("failed to publish reply")
		}
	}

	if err := d.Ack(false); err != nil {
		c.log.Warn().Err(err).Msg("failed to ack delivery")
	}
}

type idPayload struct {
	ID uuid.UUID `json:"id"`
}

type patientPayload struct {
	PatientID uuid.UUID `json:"patient_id"`
	Limit     int       `json:"limit"`
	Offset    int       `json:"offset"`
}

func (p *patientPayload) normalize() {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Dispatch routes one request body by routing key and returns the reply
// envelope. Unknown keys and undecodable bodies never panic, they answer with
// an error envelope.
func (c *Consumer) Dispatch(ctx context.Context, key string, body []byte) *Envelope {
	switch key {
	case KeyAnalyze:
		var req assessment.AnalyzeRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return errEnvelope(http.StatusBadRequest, "invalid request body")
		}
		resp, err := c.svc.Analyze(ctx, &req)
		if err != nil {
			return errEnvelope(errorStatus(err), err.Error())
		}
		return okEnvelope(resp)

	case KeyAnalysisByPatient:
		var p patientPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return errEnvelope(http.StatusBadRequest, "invalid request body")
		}
		p.normalize()
		analyses, total, err := c.svc.PatientHistory(ctx, p.PatientID, p.Limit, p.Offset)
		if err != nil {
			return errEnvelope(errorStatus(err), err.Error())
		}
		return listEnvelope(analyses, total)

	case KeyAnalysisByID:
		var p idPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return errEnvelope(http.StatusBadRequest, "invalid request body")
		}
		resp, err := c.svc.GetAnalysis(ctx, p.ID)
		if err != nil {
			return errEnvelope(errorStatus(err), err.Error())
		}
		return okEnvelope(resp)

	case KeyDeterioration:
		var p patientPayload
		if len(body) > 0 {
			if err := json.Unmarshal(body, &p); err != nil {
				return errEnvelope(http.StatusBadRequest, "invalid request body")
			}
		}
		p.normalize()
		analyses, total, err := c.svc.FlaggedAnalyses(ctx, p.Limit, p.Offset)
		if err != nil {
			return errEnvelope(errorStatus(err), err.Error())
		}
		return listEnvelope(analyses, total)

	case KeyBaseline:
		var p patientPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return errEnvelope(http.StatusBadRequest, "invalid request body")
		}
		baseline, err := c.svc.ActiveBaseline(ctx, p.PatientID)
		if err != nil {
			return errEnvelope(errorStatus(err), err.Error())
		}
		return okEnvelope(baseline)

	case KeyProcessAssessment:
		var req assessment.AssessmentRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return errEnvelope(http.StatusBadRequest, "invalid request body")
		}
		resp, err := c.svc.ProcessAssessment(ctx, &req)
		if err != nil {
			return errEnvelope(errorStatus(err), err.Error())
		}
		return okEnvelope(resp)

	case KeyAssessmentByID:
		var p idPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return errEnvelope(http.StatusBadRequest, "invalid request body")
		}
		a, err := c.svc.GetAssessment(ctx, p.ID)
		if err != nil {
			return errEnvelope(errorStatus(err), err.Error())
		}
		return okEnvelope(a)

	case KeyAssessmentByPatient:
		var p patientPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return errEnvelope(http.StatusBadRequest, "invalid request body")
		}
		assessments, err := c.svc.PatientAssessments(ctx, p.PatientID)
		if err != nil {
			return errEnvelope(errorStatus(err), err.Error())
		}
		return listEnvelope(assessments, len(assessments))

	default:
		return errEnvelope(http.StatusNotFound, "unknown routing key "+key)
	}
}
