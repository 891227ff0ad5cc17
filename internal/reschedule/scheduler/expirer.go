package scheduler

import (
	"log"
	"time"

	"meetsync-backend/internal/reschedule/repository"
)

// ProposalExpirer sweeps pending proposals past their negotiation window
// into the expired status so stale decide links fail on the state gate.
type ProposalExpirer struct {
	proposalRepo repository.ProposalRepository
	proposalTTL  time.Duration
	interval     time.Duration
	stopChan     chan struct{}
}

// NewProposalExpirer creates a new expirer sweeping at the given interval
func NewProposalExpirer(proposalRepo repository.ProposalRepository, proposalTTL, interval time.Duration) *ProposalExpirer {
	return &ProposalExpirer{
		proposalRepo: proposalRepo,
		proposalTTL:  proposalTTL,
		interval:     interval,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *ProposalExpirer) Start() {
	log.Printf("[ProposalExpirer] Starting proposal expirer (ttl: %s, interval: %s)", s.proposalTTL, s.interval)

	go func() {
		// Run immediately on start
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				log.Println("[ProposalExpirer] Expirer stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the expirer
func (s *ProposalExpirer) Stop() {
	close(s.stopChan)
}

func (s *ProposalExpirer) sweep() {
	cutoff := time.Now().Add(-s.proposalTTL)

	expired, err := s.proposalRepo.ExpireOlderThan(cutoff)
	if err != nil {
		log.Printf("[ProposalExpirer] Error expiring proposals: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("[ProposalExpirer] Expired %d pending proposals older than %s", expired, cutoff.Format(time.RFC3339))
	}
}
