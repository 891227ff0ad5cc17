package usecase

import (
	"fmt"
	"net/url"
	"time"

	"meetsync-backend/internal/magiclink/domain"
	"meetsync-backend/internal/magiclink/repository"
	"meetsync-backend/pkg/config"
	"meetsync-backend/pkg/token"
)

// magicLinkUsecase implements MagicLinkUsecase interface
type magicLinkUsecase struct {
	linkRepo repository.MagicLinkRepository
	codec    *token.Codec
	config   *config.Config
}

// NewMagicLinkUsecase creates a new instance of magicLinkUsecase
func NewMagicLinkUsecase(linkRepo repository.MagicLinkRepository, codec *token.Codec, cfg *config.Config) MagicLinkUsecase {
	return &magicLinkUsecase{
		linkRepo: linkRepo,
		codec:    codec,
		config:   cfg,
	}
}

func (u *magicLinkUsecase) Issue(req IssueRequest) (*IssuedLink, error) {
	ttl := u.ttlFor(req.Purpose)
	expiresAt := time.Now().Add(ttl)

	payload := token.Payload{
		SubjectUID:    req.SubjectUID,
		BookingID:     req.BookingID,
		ProposalID:    req.ProposalID,
		ProposedStart: req.ProposedStart,
		ProposedEnd:   req.ProposedEnd,
		ActorEmail:    req.ActorEmail,
		ActorRole:     string(req.ActorRole),
		Purpose:       req.Purpose,
		ExpiresAt:     expiresAt.Unix(),
	}

	rawToken, err := u.codec.Sign(payload, ttl)
	if err != nil {
		return nil, err
	}

	link := &domain.MagicLink{
		SubjectUID: req.SubjectUID,
		Purpose:    req.Purpose,
		BookingID:  req.BookingID,
		ProposalID: req.ProposalID,
		ActorEmail: req.ActorEmail,
		ActorRole:  req.ActorRole,
		TokenHash:  token.Hash(rawToken),
		ExpiresAt:  expiresAt,
	}
	if err := u.linkRepo.Create(link); err != nil {
		return nil, err
	}

	return &IssuedLink{
		LinkID:    link.ID,
		Token:     rawToken,
		URL:       u.linkURL(req.Purpose, rawToken),
		ExpiresAt: expiresAt,
	}, nil
}

func (u *magicLinkUsecase) RequireActive(rawToken string, expected token.Purpose) (*domain.MagicLink, *token.Payload, error) {
	payload, err := u.codec.Verify(rawToken)
	if err != nil {
		return nil, nil, err
	}

	link, err := u.linkRepo.FindByTokenHash(token.Hash(rawToken))
	if err != nil {
		return nil, nil, err
	}
	if link == nil {
		return nil, nil, domain.ErrLinkNotFound
	}
	if link.Purpose != expected {
		return nil, nil, domain.ErrPurposeMismatch
	}
	if link.UsedAt != nil {
		return nil, nil, domain.ErrLinkAlreadyUsed
	}
	if !link.ExpiresAt.After(time.Now()) {
		return nil, nil, domain.ErrLinkExpired
	}

	return link, payload, nil
}

func (u *magicLinkUsecase) MarkUsed(link *domain.MagicLink) error {
	return u.linkRepo.MarkUsed(link.ID, time.Now())
}

func (u *magicLinkUsecase) ttlFor(purpose token.Purpose) time.Duration {
	if purpose == token.PurposeDecideReschedule {
		return u.config.DecideLinkTTL
	}
	return u.config.ProposeLinkTTL
}

func (u *magicLinkUsecase) linkURL(purpose token.Purpose, rawToken string) string {
	path := "/reschedule"
	if purpose == token.PurposeDecideReschedule {
		path = "/reschedule/decide"
	}
	return fmt.Sprintf("%s%s?token=%s", u.config.PublicBaseURL, path, url.QueryEscape(rawToken))
}
