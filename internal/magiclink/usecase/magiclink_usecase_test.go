package usecase

import (
	"sync"
	"testing"
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
	"meetsync-backend/internal/magiclink/domain"
	"meetsync-backend/pkg/config"
	"meetsync-backend/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLinkRepo is an in-memory MagicLinkRepository
type fakeLinkRepo struct {
	mu    sync.Mutex
	links map[string]*domain.MagicLink // by id
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*domain.MagicLink)}
}

func (r *fakeLinkRepo) Create(link *domain.MagicLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if link.ID == "" {
		link.ID = link.TokenHash[:12]
	}
	link.CreatedAt = time.Now()
	cp := *link
	r.links[link.ID] = &cp
	return nil
}

func (r *fakeLinkRepo) FindByTokenHash(hash string) (*domain.MagicLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.TokenHash == hash {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLinkRepo) MarkUsed(id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[id]
	if !ok || l.UsedAt != nil {
		return domain.ErrLinkAlreadyUsed
	}
	l.UsedAt = &now
	return nil
}

func (r *fakeLinkRepo) FindByProposalID(proposalID string) ([]*domain.MagicLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.MagicLink
	for _, l := range r.links {
		if l.ProposalID == proposalID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{
		MagicLinkSecret: "test-secret",
		ProposeLinkTTL:  time.Hour,
		DecideLinkTTL:   time.Hour,
		PublicBaseURL:   "http://localhost:8080",
	}
}

func newTestUsecase() (MagicLinkUsecase, *fakeLinkRepo) {
	repo := newFakeLinkRepo()
	cfg := testConfig()
	uc := NewMagicLinkUsecase(repo, token.NewCodec(cfg.MagicLinkSecret), cfg)
	return uc, repo
}

func issueRequest(purpose token.Purpose) IssueRequest {
	return IssueRequest{
		SubjectUID: "uid-1@meetsync",
		BookingID:  "booking-1",
		ActorEmail: "guest@example.com",
		ActorRole:  bookingdomain.RoleGuest,
		Purpose:    purpose,
	}
}

func TestIssueRecordsHashNotToken(t *testing.T) {
	uc, repo := newTestUsecase()

	issued, err := uc.Issue(issueRequest(token.PurposeProposeReschedule))
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	assert.Contains(t, issued.URL, "/reschedule?token=")

	link, err := repo.FindByTokenHash(token.Hash(issued.Token))
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.NotEqual(t, issued.Token, link.TokenHash)
	assert.Nil(t, link.UsedAt)
}

func TestRequireActiveRoundTrip(t *testing.T) {
	uc, _ := newTestUsecase()

	issued, err := uc.Issue(issueRequest(token.PurposeDecideReschedule))
	require.NoError(t, err)

	link, payload, err := uc.RequireActive(issued.Token, token.PurposeDecideReschedule)
	require.NoError(t, err)
	assert.Equal(t, "booking-1", link.BookingID)
	assert.Equal(t, "guest@example.com", payload.ActorEmail)
	assert.Equal(t, token.PurposeDecideReschedule, payload.Purpose)
}

func TestRequireActivePurposeMismatch(t *testing.T) {
	uc, _ := newTestUsecase()

	issued, err := uc.Issue(issueRequest(token.PurposeProposeReschedule))
	require.NoError(t, err)

	// a propose token must never authorize a decide action
	_, _, err = uc.RequireActive(issued.Token, token.PurposeDecideReschedule)
	assert.ErrorIs(t, err, domain.ErrPurposeMismatch)
}

func TestRequireActiveUnknownToken(t *testing.T) {
	uc, _ := newTestUsecase()

	// valid signature, but no ledger record (e.g. administratively purged)
	cfg := testConfig()
	other := token.NewCodec(cfg.MagicLinkSecret)
	raw, err := other.Sign(token.Payload{
		SubjectUID: "uid-1@meetsync",
		BookingID:  "booking-1",
		Purpose:    token.PurposeProposeReschedule,
	}, time.Hour)
	require.NoError(t, err)

	_, _, err = uc.RequireActive(raw, token.PurposeProposeReschedule)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestMarkUsedIsSingleUse(t *testing.T) {
	uc, _ := newTestUsecase()

	issued, err := uc.Issue(issueRequest(token.PurposeDecideReschedule))
	require.NoError(t, err)

	link, _, err := uc.RequireActive(issued.Token, token.PurposeDecideReschedule)
	require.NoError(t, err)

	require.NoError(t, uc.MarkUsed(link))

	// the token no longer authorizes anything
	_, _, err = uc.RequireActive(issued.Token, token.PurposeDecideReschedule)
	assert.ErrorIs(t, err, domain.ErrLinkAlreadyUsed)

	// and a second consume attempt fails too
	assert.ErrorIs(t, uc.MarkUsed(link), domain.ErrLinkAlreadyUsed)
}

func TestRequireActiveRejectsInvalidSignature(t *testing.T) {
	uc, _ := newTestUsecase()

	issued, err := uc.Issue(issueRequest(token.PurposeProposeReschedule))
	require.NoError(t, err)

	tampered := issued.Token[:len(issued.Token)-1]
	if issued.Token[len(issued.Token)-1] == 'a' {
		tampered += "b"
	} else {
		tampered += "a"
	}

	_, _, err = uc.RequireActive(tampered, token.PurposeProposeReschedule)
	assert.Error(t, err)
}
