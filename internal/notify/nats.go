// Package notify publishes run outcomes to NATS so external alerting can
// react to failed purchase flows.
package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ghostshopper/ghostshopper/internal/config"
	"github.com/ghostshopper/ghostshopper/internal/models"
)

// RunEvent is the message body published for every finished run
type RunEvent struct {
	RunID          string              `json:"run_id"`
	TargetURL      string              `json:"target_url"`
	Status         models.RunStatus    `json:"status"`
	CompletedSteps int                 `json:"completed_steps"`
	ExecutionTime  string              `json:"execution_time"`
	FinishedAt     *time.Time          `json:"finished_at,omitempty"`
	Results        []models.StepResult `json:"results"`
}

// NewRunEvent builds the event describing a finished run
func NewRunEvent(run *models.Run) RunEvent {
	return RunEvent{
		RunID:          run.ID,
		TargetURL:      run.TargetURL,
		Status:         run.Status,
		CompletedSteps: run.CompletedSteps(),
		ExecutionTime:  run.ExecutionTime().Round(time.Millisecond).String(),
		FinishedAt:     run.FinishedAt,
		Results:        run.Results,
	}
}

type msgPublisher interface {
	Publish(subject string, data []byte) error
}

// Publisher sends run events to <subject>.started and <subject>.<status>
type Publisher struct {
	pub     msgPublisher
	subject string
	close   func()
}

// Connect dials NATS and returns a publisher. Reconnects are unbounded so a
// restarted broker does not silence notifications.
func Connect(cfg config.NATSConfig) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("ghostshopper"),
		nats.Timeout(cfg.ConnectTimeout),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	p := newPublisher(conn, cfg.Subject)
	p.close = func() {
		if err := conn.Drain(); err != nil {
			conn.Close()
		}
	}
	return p, nil
}

func newPublisher(pub msgPublisher, subject string) *Publisher {
	return &Publisher{
		pub:     pub,
		subject: subject,
		close:   func() {},
	}
}

// RunStarted implements services.RunObserver
func (p *Publisher) RunStarted(run *models.Run) {
	p.publish(p.subject+".started", NewRunEvent(run))
}

// RunFinished implements services.RunObserver
func (p *Publisher) RunFinished(run *models.Run) {
	p.publish(fmt.Sprintf("%s.%s", p.subject, run.Status), NewRunEvent(run))
}

// Close flushes pending messages and closes the connection
func (p *Publisher) Close() {
	p.close()
}

func (p *Publisher) publish(subject string, event RunEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[notify] failed to encode event for run %s: %v", event.RunID, err)
		return
	}
	if err := p.pub.Publish(subject, data); err != nil {
		log.Printf("[notify] failed to publish %s for run %s: %v", subject, event.RunID, err)
	}
}
