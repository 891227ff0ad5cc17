package scheduler

import (
	"sync"
	"testing"
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
	"meetsync-backend/internal/reschedule/domain"

	"github.com/stretchr/testify/assert"
)

type stubProposalRepo struct {
	mu      sync.Mutex
	cutoffs []time.Time
}

func (r *stubProposalRepo) Create(p *domain.Proposal) error                    { return nil }
func (r *stubProposalRepo) FindByID(id string) (*domain.Proposal, error)       { return nil, nil }
func (r *stubProposalRepo) FindByBookingID(id string) ([]*domain.Proposal, error) { return nil, nil }
func (r *stubProposalRepo) Decide(id string, to domain.ProposalStatus, approvedBy *bookingdomain.PartyRole, at time.Time) error {
	return nil
}

func (r *stubProposalRepo) ExpireOlderThan(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoffs = append(r.cutoffs, cutoff)
	return 1, nil
}

func (r *stubProposalRepo) sweeps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cutoffs)
}

func TestExpirerSweepsOnStartAndOnTick(t *testing.T) {
	repo := &stubProposalRepo{}
	exp := NewProposalExpirer(repo, 48*time.Hour, 10*time.Millisecond)

	exp.Start()
	defer exp.Stop()

	assert.Eventually(t, func() bool { return repo.sweeps() >= 2 }, time.Second, 5*time.Millisecond)

	repo.mu.Lock()
	cutoff := repo.cutoffs[0]
	repo.mu.Unlock()
	assert.WithinDuration(t, time.Now().Add(-48*time.Hour), cutoff, time.Minute)
}

func TestExpirerStops(t *testing.T) {
	repo := &stubProposalRepo{}
	exp := NewProposalExpirer(repo, time.Hour, 5*time.Millisecond)

	exp.Start()
	assert.Eventually(t, func() bool { return repo.sweeps() >= 1 }, time.Second, time.Millisecond)
	exp.Stop()

	time.Sleep(20 * time.Millisecond)
	after := repo.sweeps()
	time.Sleep(30 * time.Millisecond)
	assert.InDelta(t, after, repo.sweeps(), 1, "no further sweeps once stopped")
}
