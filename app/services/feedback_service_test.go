package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/kv"
)

type promptRecorder struct {
	mu      sync.Mutex
	prompts []models.FeedbackNotification
}

func (r *promptRecorder) Prompt(subject string, n models.FeedbackNotification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, n)
}

func (r *promptRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.prompts)
}

func newFeedbackFixture() (*FeedbackService, *promptRecorder, *kv.Memory) {
	store := kv.NewMemory()
	rec := &promptRecorder{}
	return NewFeedbackService(store, rec), rec, store
}

func TestScheduleSetsOffsetFromOrderDate(t *testing.T) {
	s, _, _ := newFeedbackFixture()

	placed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Schedule("guest", "MOB-1", placed.Format(time.RFC3339)))

	entries := s.Pending("guest")
	require.Len(t, entries, 1)
	assert.Equal(t, "MOB-1", entries[0].OrderID)
	assert.Equal(t, models.FeedbackNotificationType, entries[0].Type)
	assert.False(t, entries[0].Shown)

	due, err := time.Parse(time.RFC3339, entries[0].ScheduledTime)
	require.NoError(t, err)
	assert.Equal(t, placed.Add(12*time.Hour), due)
}

func TestScheduleDoesNotDeduplicate(t *testing.T) {
	s, _, _ := newFeedbackFixture()
	date := time.Now().UTC().Format(time.RFC3339)

	s.Schedule("guest", "MOB-1", date)
	s.Schedule("guest", "MOB-1", date)

	assert.Len(t, s.Pending("guest"), 2)
}

func TestCheckPromptsDueEntriesOnce(t *testing.T) {
	s, rec, _ := newFeedbackFixture()

	placed := time.Now().UTC().Add(-13 * time.Hour)
	s.Schedule("guest", "MOB-due", placed.Format(time.RFC3339))
	s.Schedule("guest", "MOB-future", time.Now().UTC().Format(time.RFC3339))

	assert.Equal(t, 1, s.Check("guest"))
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "MOB-due", rec.prompts[0].OrderID)

	// Shown entries are never surfaced again.
	assert.Equal(t, 0, s.Check("guest"))
	assert.Equal(t, 1, rec.count())

	entries := s.Pending("guest")
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Shown)
	assert.False(t, entries[1].Shown)
}

func TestCleanupPurgesPastRetention(t *testing.T) {
	s, _, _ := newFeedbackFixture()

	s.Schedule("guest", "MOB-old", time.Now().UTC().Add(-10*24*time.Hour).Format(time.RFC3339))
	s.Schedule("guest", "MOB-recent", time.Now().UTC().Add(-2*time.Hour).Format(time.RFC3339))

	assert.Equal(t, 1, s.Cleanup("guest"))

	entries := s.Pending("guest")
	require.Len(t, entries, 1)
	assert.Equal(t, "MOB-recent", entries[0].OrderID)
}

func TestSweepAllVisitsIndexedSubjects(t *testing.T) {
	s, rec, store := newFeedbackFixture()

	s.Schedule("a", "MOB-1", time.Now().UTC().Add(-13*time.Hour).Format(time.RFC3339))
	s.Schedule("b", "MOB-2", time.Now().UTC().Add(-10*24*time.Hour).Format(time.RFC3339))

	s.SweepAll()

	assert.Equal(t, 1, rec.count())
	// b's only entry was purged so b drops out of the index.
	var subjects []string
	require.True(t, store.Get(feedbackSubjectsKey, &subjects))
	assert.Equal(t, []string{"a"}, subjects)
}

func TestMarkFeedbackGivenIsIdempotent(t *testing.T) {
	s, _, _ := newFeedbackFixture()

	require.NoError(t, s.MarkFeedbackGiven("guest", "MOB-1"))
	require.NoError(t, s.MarkFeedbackGiven("guest", "MOB-1"))

	assert.Equal(t, []string{"MOB-1"}, s.FeedbackGiven("guest"))
}

func TestEligibleFiltersStatusAndGiven(t *testing.T) {
	s, _, _ := newFeedbackFixture()
	s.MarkFeedbackGiven("guest", "MOB-2")

	orders := []models.Order{
		{ID: "MOB-1", Status: models.OrderStatusDelivered},
		{ID: "MOB-2", Status: models.OrderStatusDelivered}, // already reviewed
		{ID: "MOB-3", Status: models.OrderStatusProcessing},
		{ID: "MOB-4", Status: models.OrderStatusCancelled},
	}

	eligible := s.Eligible("guest", orders)
	require.Len(t, eligible, 2)
	assert.Equal(t, "MOB-1", eligible[0].ID)
	assert.Equal(t, "MOB-3", eligible[1].ID)
}
