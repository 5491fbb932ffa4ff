// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package alerting turns alert decisions into notifications: it resolves
// the distribution list for the alert tier, renders the message in every
// supported language, and delivers over SMTP behind a circuit breaker.
//
// Delivery is fire-and-forget from the ingestion path's point of view:
// the alert decision is returned to the caller synchronously while
// notifications go out in the background. Each language is attempted
// exactly once and in isolation, so a failed Urdu send never blocks the
// English one, and every outcome lands in the delivery ledger.
package alerting

import (
	"context"
	"errors"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/metrics"
	"github.com/project-barfani/barfani/internal/models"
)

// deliveryTimeout bounds a single SMTP transaction. Deliveries are
// detached from the ingestion request, so this is the only deadline.
const deliveryTimeout = 60 * time.Second

// Sender delivers one rendered message to a recipient list.
type Sender interface {
	Send(ctx context.Context, recipients []string, msg Message) error
}

// Config holds the dispatcher settings, adjustable at runtime through
// the settings API.
type Config struct {
	SMTP         SMTPConfig      `koanf:"smtp"`
	Recipients   RecipientGroups `koanf:"recipients"`
	DashboardURL string          `koanf:"dashboard_url"`
}

// DefaultConfig returns a demo-mode dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Recipients: DefaultRecipientGroups(),
	}
}

// Dispatcher fans an alert out to every language list. Safe for
// concurrent use.
type Dispatcher struct {
	mu     sync.RWMutex
	cfg    Config
	sender Sender

	ledger  *Ledger
	breaker *gobreaker.CircuitBreaker[struct{}]
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A nil sender with SMTP configured
// gets a real EmailChannel; without SMTP the dispatcher runs in demo
// mode, logging rendered messages instead of sending them.
func NewDispatcher(cfg Config, ledger *Ledger, sender Sender) *Dispatcher {
	if sender == nil && cfg.SMTP.Enabled() {
		sender = NewEmailChannel(cfg.SMTP)
	}

	cbName := "smtp"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Dispatcher{
		cfg:     cfg,
		sender:  sender,
		ledger:  ledger,
		breaker: breaker,
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return 0
}

// Configure replaces the dispatcher settings. A sender change only
// happens when SMTP settings change and no custom sender was injected.
func (d *Dispatcher) Configure(cfg Config) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cfg.SMTP != d.cfg.SMTP {
		if cfg.SMTP.Enabled() {
			d.sender = NewEmailChannel(cfg.SMTP)
		} else {
			d.sender = nil
		}
	}
	d.cfg = cfg
}

// ConfigSnapshot returns the current settings.
func (d *Dispatcher) ConfigSnapshot() Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Dispatch sends the alert in every supported language, each in its own
// goroutine. It returns immediately; outcomes are recorded on the ledger.
func (d *Dispatcher) Dispatch(alert models.Alert) {
	for _, lang := range models.Languages() {
		lang := lang
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.deliver(alert, lang)
		}()
	}
}

// Wait blocks until all in-flight deliveries complete. Used during
// shutdown and by tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(alert models.Alert, lang models.Language) {
	d.mu.RLock()
	cfg := d.cfg
	sender := d.sender
	d.mu.RUnlock()

	recipients := cfg.Recipients.ForSeverity(alert.Severity)
	msg := Render(alert, lang, cfg.DashboardURL)

	rec := models.DeliveryRecord{
		AlertID:     alert.ID,
		Language:    lang,
		Recipients:  recipients,
		AttemptedAt: time.Now().UTC(),
	}

	switch {
	case len(recipients) == 0:
		rec.Status = models.DeliverySkipped

	case sender == nil:
		// Demo mode: surface the rendered message in the log so field
		// trials can verify content without a mail relay.
		logging.Info().
			Str("alert_id", alert.ID.String()).
			Str("language", string(lang)).
			Str("subject", msg.Subject).
			Strs("recipients", recipients).
			Msg("demo mode, alert email logged instead of sent")
		rec.Status = models.DeliverySkipped

	default:
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		_, err := d.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, sender.Send(ctx, recipients, msg)
		})
		cancel()
		rec.DurationMS = time.Since(start).Milliseconds()

		if err != nil {
			rec.Status = models.DeliveryFailed
			rec.Error = ClassifyError(err)
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				rec.Error = ErrCodeConnectionFailed
			}
			logging.Error().
				Err(err).
				Str("alert_id", alert.ID.String()).
				Str("language", string(lang)).
				Msg("alert delivery failed")
		} else {
			rec.Status = models.DeliverySent
		}
		metrics.NotificationDuration.WithLabelValues(string(lang)).Observe(time.Since(start).Seconds())
	}

	metrics.NotificationsSent.WithLabelValues(string(lang), string(rec.Status)).Inc()

	if d.ledger != nil {
		if err := d.ledger.Record(rec); err != nil {
			logging.Error().Err(err).
				Str("alert_id", alert.ID.String()).
				Str("language", string(lang)).
				Msg("failed to record delivery outcome")
		}
	}
}

// SendTest delivers a synthetic alert to the given address, bypassing
// the ledger. Used by the settings API to verify SMTP credentials. An
// empty language renders in English.
func (d *Dispatcher) SendTest(ctx context.Context, to string, lang models.Language) error {
	d.mu.RLock()
	sender := d.sender
	dashboardURL := d.cfg.DashboardURL
	d.mu.RUnlock()

	if sender == nil {
		return errors.New("SMTP is not configured")
	}

	alert := models.Alert{
		NodeID:   "test-node",
		Severity: models.SeverityMedium,
		Score:    30,
		Factors:  []string{"Test notification requested from settings"},
		Reading: models.SensorReading{
			NodeID:          "test-node",
			Timestamp:       time.Now().UTC(),
			TemperatureC:    4.2,
			WaterLevelCM:    210,
			SeismicActivity: 0.12,
		},
		CreatedAt: time.Now().UTC(),
	}
	if lang == "" {
		lang = models.LangEnglish
	}
	msg := Render(alert, lang, dashboardURL)
	msg.Subject = "[TEST] " + msg.Subject

	_, err := d.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, sender.Send(ctx, []string{to}, msg)
	})
	return err
}
