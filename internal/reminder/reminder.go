package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

// Notifier delivers one upcoming-dose reminder. Push delivery is an
// external concern; the default implementation just logs.
type Notifier interface {
	Notify(ctx context.Context, petID uuid.UUID, occ schedule.Occurrence)
}

// ZapNotifier logs reminders instead of delivering them
type ZapNotifier struct {
	Log *zap.Logger
}

func (n *ZapNotifier) Notify(ctx context.Context, petID uuid.UUID, occ schedule.Occurrence) {
	n.Log.Info("dose reminder",
		zap.String("pet_id", petID.String()),
		zap.String("item_name", occ.ItemName),
		zap.String("item_kind", occ.ItemKind),
		zap.Time("scheduled_time", occ.ScheduledTime),
	)
}

// PetLister provides the pets to scan
type PetLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Scanner runs every minute and fires a reminder for each still-pending
// occurrence due within the lookahead window. Each occurrence is reminded
// at most once.
type Scanner struct {
	pets      PetLister
	rec       *schedule.Reconciler
	notifier  Notifier
	lookahead time.Duration
	log       *zap.Logger
	cron      *cron.Cron

	mu   sync.Mutex
	sent map[string]struct{}
	day  string // calendar day the sent set belongs to
}

func NewScanner(pets PetLister, rec *schedule.Reconciler, notifier Notifier, lookahead time.Duration, log *zap.Logger) *Scanner {
	return &Scanner{
		pets:      pets,
		rec:       rec,
		notifier:  notifier,
		lookahead: lookahead,
		log:       log,
		cron:      cron.New(),
		sent:      make(map[string]struct{}),
	}
}

// Start schedules the scan and begins the cron loop
func (s *Scanner) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", s.scan); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running scan to finish
func (s *Scanner) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scanner) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.scanAt(ctx, time.Now())
}

func (s *Scanner) scanAt(ctx context.Context, now time.Time) {
	s.resetSentIfNewDay(now)

	petIDs, err := s.pets.ListIDs(ctx)
	if err != nil {
		s.log.Error("reminder scan: failed to list pets", zap.Error(err))
		return
	}

	for _, petID := range petIDs {
		occurrences, err := s.rec.DaySchedule(ctx, petID, now)
		if err != nil {
			s.log.Error("reminder scan: failed to build day schedule",
				zap.String("pet_id", petID.String()),
				zap.Error(err))
			continue
		}

		for _, occ := range occurrences {
			if occ.Status != schedule.StatusPending {
				continue
			}
			if occ.ScheduledTime.Before(now) || occ.ScheduledTime.After(now.Add(s.lookahead)) {
				continue
			}
			if !s.markSent(occ) {
				continue
			}
			s.notifier.Notify(ctx, petID, occ)
		}
	}
}

func (s *Scanner) resetSentIfNewDay(now time.Time) {
	day := now.Format("2006-01-02")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.day != day {
		s.day = day
		s.sent = make(map[string]struct{})
	}
}

// markSent records the occurrence as reminded, returning false if it
// already was
func (s *Scanner) markSent(occ schedule.Occurrence) bool {
	key := fmt.Sprintf("%s@%s", occ.ItemID, occ.ScheduledTime.Format(time.RFC3339))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sent[key]; ok {
		return false
	}
	s.sent[key] = struct{}{}
	return true
}
