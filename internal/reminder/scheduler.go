// Package reminder flags planned events whose date has passed so curators
// conduct or cancel them instead of leaving them dangling.
package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/curator-portal/backend/internal/storage"
	"github.com/curator-portal/backend/internal/storage/models"
	"github.com/curator-portal/backend/internal/websocket"
)

// Scheduler runs the periodic overdue-event sweep.
type Scheduler struct {
	cron        *cron.Cron
	eventRepo   *storage.EventRepository
	broadcaster *websocket.EventBroadcaster
	spec        string
}

// NewScheduler creates a reminder scheduler. The cron spec uses the
// six-field (seconds-first) format; empty means daily at 08:00.
func NewScheduler(eventRepo *storage.EventRepository, hub *websocket.Hub, spec string) *Scheduler {
	if spec == "" {
		spec = "0 0 8 * * *"
	}

	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		eventRepo:   eventRepo,
		broadcaster: broadcaster,
		spec:        spec,
	}
}

// Start begins the scheduler and runs one immediate sweep.
func (s *Scheduler) Start() error {
	log.Println("Starting event reminder scheduler...")

	if _, err := s.cron.AddFunc(s.spec, func() {
		s.Sweep(context.Background())
	}); err != nil {
		return fmt.Errorf("scheduling reminder sweep: %w", err)
	}

	s.cron.Start()
	go s.Sweep(context.Background())

	log.Println("Event reminder scheduler started")
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	log.Println("Stopping event reminder scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Event reminder scheduler stopped")
}

// Sweep finds planned events that started before today and pushes a
// notification for each.
func (s *Scheduler) Sweep(ctx context.Context) {
	today := time.Now().UTC().Format(models.DateLayout)

	overdue, err := s.eventRepo.ListOverduePlanned(ctx, today)
	if err != nil {
		log.Printf("Reminder sweep failed: %v", err)
		return
	}

	if len(overdue) == 0 {
		return
	}

	log.Printf("Reminder sweep found %d overdue planned events", len(overdue))

	for i := range overdue {
		ev := &overdue[i]
		s.broadcaster.BroadcastNotification(
			"warning",
			"Событие ждёт итогов",
			fmt.Sprintf("«%s» (%s) всё ещё запланировано: отметьте проведение или отмените его.", ev.Title, ev.StartDate),
		)
	}
}
