package services

import (
	"fmt"
	"time"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/config"
	"github.com/citizenjaivik/jaivik/pkg/collection"
	"github.com/citizenjaivik/jaivik/pkg/kv"
	"github.com/citizenjaivik/jaivik/pkg/logger"
	"github.com/citizenjaivik/jaivik/pkg/metrics"
)

// Prompter surfaces a due feedback reminder to the subject. The websocket
// hub implements it in production; tests plug in a recorder.
type Prompter interface {
	Prompt(subject string, n models.FeedbackNotification)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(subject string, n models.FeedbackNotification)

func (f PrompterFunc) Prompt(subject string, n models.FeedbackNotification) { f(subject, n) }

// FeedbackService schedules and surfaces post-order feedback reminders.
// Each subject's reminders live in one KV document; the periodic sweep
// visits every indexed subject.
type FeedbackService struct {
	store    kv.Store
	prompter Prompter

	now func() time.Time // swapped in tests
}

func NewFeedbackService(store kv.Store, prompter Prompter) *FeedbackService {
	return &FeedbackService{store: store, prompter: prompter, now: time.Now}
}

// Schedule appends a reminder for the order, due offset hours after the
// order date. Duplicate orders are not deduplicated; scheduling twice
// produces two reminders.
func (s *FeedbackService) Schedule(subject, orderID, orderDate string) error {
	placed, err := time.Parse(time.RFC3339, orderDate)
	if err != nil {
		placed = s.now().UTC()
	}

	entry := models.FeedbackNotification{
		OrderID:       orderID,
		OrderDate:     orderDate,
		ScheduledTime: placed.Add(config.FeedbackOffset()).UTC().Format(time.RFC3339),
		Shown:         false,
		Type:          models.FeedbackNotificationType,
	}

	entries := s.load(subject)
	entries = append(entries, entry)
	if err := s.save(subject, entries); err != nil {
		return err
	}
	if err := s.indexSubject(subject); err != nil {
		logger.Warn("feedback: index subject failed", "subject", subject, "error", err)
	}

	metrics.FeedbackReminders.WithLabelValues("scheduled").Inc()
	return nil
}

// Check surfaces every entry that is due and not yet shown, then writes the
// document back once if anything changed. Returns how many were surfaced.
func (s *FeedbackService) Check(subject string) int {
	entries := s.load(subject)
	now := s.now().UTC()

	prompted := 0
	for i := range entries {
		if entries[i].Shown {
			continue
		}
		due, err := time.Parse(time.RFC3339, entries[i].ScheduledTime)
		if err != nil || now.Before(due) {
			continue
		}

		// Prompter implementations must not block; the ws hub drops frames
		// for slow clients rather than stalling the batch.
		s.prompter.Prompt(subject, entries[i])

		entries[i].Shown = true
		prompted++
		metrics.FeedbackReminders.WithLabelValues("prompted").Inc()
	}

	if prompted > 0 {
		if err := s.save(subject, entries); err != nil {
			logger.Warn("feedback: write back failed", "subject", subject, "error", err)
		}
	}
	return prompted
}

// Cleanup drops entries whose scheduled time is further in the past than the
// retention window. Returns how many were purged.
func (s *FeedbackService) Cleanup(subject string) int {
	entries := s.load(subject)
	cutoff := s.now().UTC().Add(-config.FeedbackRetention())

	kept := collection.Filter(entries, func(n models.FeedbackNotification) bool {
		due, err := time.Parse(time.RFC3339, n.ScheduledTime)
		if err != nil {
			return false
		}
		return due.After(cutoff)
	})

	purged := len(entries) - len(kept)
	if purged > 0 {
		if err := s.save(subject, kept); err != nil {
			logger.Warn("feedback: cleanup write failed", "subject", subject, "error", err)
			return 0
		}
		metrics.FeedbackReminders.WithLabelValues("purged").Add(float64(purged))
	}
	return purged
}

// Sweep runs Cleanup then Check for one subject.
func (s *FeedbackService) Sweep(subject string) {
	s.Cleanup(subject)
	s.Check(subject)
}

// SweepAll visits every indexed subject. Subjects left with no entries are
// dropped from the index. This is the body of the periodic schedule task.
func (s *FeedbackService) SweepAll() {
	var subjects []string
	if !s.store.Get(feedbackSubjectsKey, &subjects) {
		return
	}

	var remaining []string
	for _, subject := range subjects {
		s.Sweep(subject)
		if len(s.load(subject)) > 0 {
			remaining = append(remaining, subject)
		}
	}

	if len(remaining) != len(subjects) {
		if err := s.store.Set(feedbackSubjectsKey, remaining, 0); err != nil {
			logger.Warn("feedback: index write failed", "error", err)
		}
	}
}

// Pending returns the subject's reminder document as-is.
func (s *FeedbackService) Pending(subject string) []models.FeedbackNotification {
	return s.load(subject)
}

// FeedbackGiven lists order ids the subject has already reviewed.
func (s *FeedbackService) FeedbackGiven(subject string) []string {
	var given []string
	s.store.Get(feedbackGivenKey(subject), &given)
	return given
}

// MarkFeedbackGiven records that the subject reviewed the order.
func (s *FeedbackService) MarkFeedbackGiven(subject, orderID string) error {
	given := s.FeedbackGiven(subject)
	for _, id := range given {
		if id == orderID {
			return nil
		}
	}
	given = append(given, orderID)
	if err := s.store.Set(feedbackGivenKey(subject), given, 0); err != nil {
		return fmt.Errorf("feedback: mark given %s: %w", orderID, err)
	}
	return nil
}

// Eligible filters the order history down to orders that can still be
// reviewed: delivered or processing, and not yet reviewed.
func (s *FeedbackService) Eligible(subject string, orders []models.Order) []models.Order {
	given := make(map[string]bool)
	for _, id := range s.FeedbackGiven(subject) {
		given[id] = true
	}

	return collection.Filter(orders, func(o models.Order) bool {
		if given[o.ID] {
			return false
		}
		return o.Status == models.OrderStatusDelivered || o.Status == models.OrderStatusProcessing
	})
}

func (s *FeedbackService) load(subject string) []models.FeedbackNotification {
	var entries []models.FeedbackNotification
	if s.store.Get(feedbackKey(subject), &entries) {
		metrics.KVHits.WithLabelValues("feedback").Inc()
	} else {
		metrics.KVMisses.WithLabelValues("feedback").Inc()
	}
	return entries
}

func (s *FeedbackService) save(subject string, entries []models.FeedbackNotification) error {
	if err := s.store.Set(feedbackKey(subject), entries, 0); err != nil {
		return fmt.Errorf("feedback: save %s: %w", subject, err)
	}
	return nil
}

func (s *FeedbackService) indexSubject(subject string) error {
	var subjects []string
	s.store.Get(feedbackSubjectsKey, &subjects)
	for _, sub := range subjects {
		if sub == subject {
			return nil
		}
	}
	subjects = append(subjects, subject)
	return s.store.Set(feedbackSubjectsKey, subjects, 0)
}
