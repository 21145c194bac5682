package core

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	dm "stockanalyzer/data/models"
)

const (
	DefaultAlertCron = "0 */5 * * * *"
	alertRunTimeout  = 2 * time.Minute
)

// AlertScheduler periodically checks active price alerts
type AlertScheduler struct {
	Cron *cron.Cron
	sc   *ServiceContext
}

func NewAlertScheduler(sc *ServiceContext) *AlertScheduler {
	return &AlertScheduler{
		Cron: cron.New(cron.WithSeconds()),
		sc:   sc,
	}
}

// Register schedules the alert check, expressions have six fields with seconds first
func (s *AlertScheduler) Register(spec string) error {
	if spec == "" {
		spec = DefaultAlertCron
	}
	if _, err := s.Cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("register alert check: %w", err)
	}
	return nil
}

func (s *AlertScheduler) Start() {
	s.Cron.Start()
	s.sc.logger().Info("alert scheduler started")
}

// Stop waits for a running check to finish
func (s *AlertScheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.sc.logger().Info("alert scheduler stopped")
}

func (s *AlertScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), alertRunTimeout)
	defer cancel()

	triggered, err := s.sc.CheckAlerts(ctx)
	if err != nil {
		s.sc.logger().Error("alert check failed", "error", err)
		return
	}
	if triggered > 0 {
		s.sc.logger().Info("alert check finished", "triggered", triggered)
	}
}

// CheckAlerts evaluates every active alert against live quotes. Symbols the
// provider can not price are skipped, static fallback quotes never trigger.
func (sc *ServiceContext) CheckAlerts(ctx context.Context) (int, error) {
	alerts, err := sc.Store.GetActiveAlerts(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading active alerts: %w", err)
	}

	bySymbol := make(map[string][]*dm.Alert)
	var symbols []string
	for _, a := range alerts {
		if _, ok := bySymbol[a.Symbol]; !ok {
			symbols = append(symbols, a.Symbol)
		}
		bySymbol[a.Symbol] = append(bySymbol[a.Symbol], a)
	}

	triggered := 0
	for _, symbol := range symbols {
		quote, err := sc.Quotes.Get(ctx, symbol)
		if err != nil {
			sc.logger().Debug("no live quote for alert check", "symbol", symbol, "error", err)
			continue
		}
		if !quote.IsRealTime {
			continue
		}

		for _, a := range bySymbol[symbol] {
			if !a.IsTriggeredBy(quote.Price) {
				continue
			}

			ok, err := sc.Store.MarkAlertTriggered(ctx, a.Id, sc.clock())
			if err != nil {
				return triggered, fmt.Errorf("error marking alert %s triggered: %w", a.Id, err)
			}
			// deleted or triggered concurrently
			if !ok {
				continue
			}

			title := fmt.Sprintf("Price Alert Triggered for %s", a.Symbol)
			message := fmt.Sprintf("%s is now $%.2f, %s your target of $%.2f", a.Symbol, quote.Price, a.AlertType, a.TargetPrice)
			if _, err := sc.notify(ctx, a.UserId, title, message, dm.NotificationTypeAlert); err != nil {
				return triggered, fmt.Errorf("error notifying alert %s: %w", a.Id, err)
			}

			sc.Metrics.ObserveAlertTriggered()
			triggered++
		}
	}
	return triggered, nil
}
