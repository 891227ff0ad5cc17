package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
	bookingrepo "meetsync-backend/internal/booking/repository"
	bookingusecase "meetsync-backend/internal/booking/usecase"
	magicdomain "meetsync-backend/internal/magiclink/domain"
	magicusecase "meetsync-backend/internal/magiclink/usecase"
	"meetsync-backend/internal/notification"
	"meetsync-backend/internal/reschedule/domain"
	"meetsync-backend/internal/reschedule/repository"
	"meetsync-backend/pkg/ics"
	"meetsync-backend/pkg/token"
)

// rescheduleUsecase implements RescheduleUsecase interface
type rescheduleUsecase struct {
	proposalRepo   repository.ProposalRepository
	bookingRepo    bookingrepo.BookingRepository
	magicLinks     magicusecase.MagicLinkUsecase
	contextBuilder *bookingusecase.ContextBuilder
	notifier       Notifier
}

// NewRescheduleUsecase creates a new instance of rescheduleUsecase
func NewRescheduleUsecase(
	proposalRepo repository.ProposalRepository,
	bookingRepo bookingrepo.BookingRepository,
	magicLinks magicusecase.MagicLinkUsecase,
	contextBuilder *bookingusecase.ContextBuilder,
	notifier Notifier,
) RescheduleUsecase {
	return &rescheduleUsecase{
		proposalRepo:   proposalRepo,
		bookingRepo:    bookingRepo,
		magicLinks:     magicLinks,
		contextBuilder: contextBuilder,
		notifier:       notifier,
	}
}

func (u *rescheduleUsecase) IssueProposeLink(ctx context.Context, hostUserID, bookingID string, recipient bookingdomain.PartyRole) (*magicusecase.IssuedLink, error) {
	booking, err := u.bookingRepo.FindByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.HostID != hostUserID {
		return nil, bookingdomain.ErrBookingNotFound
	}

	bctx, err := u.contextBuilder.Build(booking)
	if err != nil {
		return nil, err
	}
	party := bctx.PartyByRole(recipient)

	issued, err := u.magicLinks.Issue(magicusecase.IssueRequest{
		SubjectUID: booking.IcsUID,
		BookingID:  booking.ID,
		ActorEmail: party.Email,
		ActorRole:  recipient,
		Purpose:    token.PurposeProposeReschedule,
	})
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("Reschedule %q", bctx.Summary)
	body := fmt.Sprintf(
		"Hi %s,\n\nUse the link below to view %q and propose a new time:\n\n%s\n\nThe link expires at %s.\n",
		party.Name, bctx.Summary, issued.URL, issued.ExpiresAt.UTC().Format(time.RFC1123),
	)
	if err := u.notifier.DispatchPlain(ctx, issued.LinkID, notification.MethodLink, notification.Recipient{Name: party.Name, Email: party.Email}, subject, body); err != nil {
		// best effort: the caller still receives the link
		log.Printf("[Reschedule] Failed to email propose link for booking %s: %v", booking.ID, err)
	}

	return issued, nil
}

func (u *rescheduleUsecase) View(rawToken string) (*ViewResponse, error) {
	// Both purposes may view
	link, _, err := u.requireEither(rawToken)
	if err != nil {
		return nil, err
	}

	booking, err := u.bookingRepo.FindByID(link.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, bookingdomain.ErrBookingNotFound
	}

	resp := &ViewResponse{
		Booking:    booking,
		ActorRole:  link.ActorRole,
		ActorEmail: link.ActorEmail,
	}

	if link.ProposalID != "" {
		proposal, err := u.proposalRepo.FindByID(link.ProposalID)
		if err != nil {
			return nil, err
		}
		resp.Proposal = proposal
	}

	return resp, nil
}

func (u *rescheduleUsecase) Propose(ctx context.Context, req ProposeRequest) (*domain.Proposal, error) {
	// Propose links authorize idempotent reads plus proposal creation; they
	// are deliberately not consumed, only decisions are single-use.
	link, _, err := u.magicLinks.RequireActive(req.Token, token.PurposeProposeReschedule)
	if err != nil {
		return nil, err
	}

	if !req.End.After(req.Start) {
		return nil, domain.ErrInvalidTimeRange
	}

	booking, err := u.bookingRepo.FindByID(link.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, bookingdomain.ErrBookingNotFound
	}

	bctx, err := u.contextBuilder.Build(booking)
	if err != nil {
		return nil, err
	}

	proposal := &domain.Proposal{
		BookingID:        booking.ID,
		SubjectUID:       booking.IcsUID,
		ProposedBy:       link.ActorRole,
		ProposerEmail:    link.ActorEmail,
		ProposedStartUTC: req.Start.UTC(),
		ProposedEndUTC:   req.End.UTC(),
		Note:             req.Note,
		Status:           domain.ProposalStatusPending,
	}
	if err := u.proposalRepo.Create(proposal); err != nil {
		return nil, err
	}

	u.notifyCounterparty(ctx, bctx, proposal)

	return proposal, nil
}

func (u *rescheduleUsecase) Decide(ctx context.Context, req DecideRequest) (*DecideResult, error) {
	link, _, err := u.magicLinks.RequireActive(req.Token, token.PurposeDecideReschedule)
	if err != nil {
		return nil, err
	}

	proposal, err := u.proposalRepo.FindByID(link.ProposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, domain.ErrProposalNotFound
	}
	if proposal.Terminal() {
		// a replayed or raced decision must fail loudly, not no-op
		return nil, domain.ErrPreconditionFailed
	}

	if req.Action == ActionPropose {
		if req.CounterStart == nil || req.CounterEnd == nil {
			return nil, domain.ErrInvalidTimeRange
		}
		if !req.CounterEnd.After(*req.CounterStart) {
			return nil, domain.ErrInvalidTimeRange
		}
	}

	// Consume the token after validation and before side effects: a retried
	// decision with the same token deterministically fails here instead of
	// double-applying.
	if err := u.magicLinks.MarkUsed(link); err != nil {
		return nil, err
	}

	switch req.Action {
	case ActionAgree:
		return u.agree(ctx, link.ActorRole, proposal)
	case ActionCancel:
		return u.cancel(ctx, proposal)
	case ActionPropose:
		return u.counter(ctx, link.ActorRole, link.ActorEmail, proposal, *req.CounterStart, *req.CounterEnd, req.Note)
	default:
		return nil, fmt.Errorf("unknown decide action %q", req.Action)
	}
}

func (u *rescheduleUsecase) agree(ctx context.Context, decider bookingdomain.PartyRole, proposal *domain.Proposal) (*DecideResult, error) {
	now := time.Now()
	if err := u.proposalRepo.Decide(proposal.ID, domain.ProposalStatusApproved, &decider, now); err != nil {
		return nil, err
	}
	proposal.Status = domain.ProposalStatusApproved
	proposal.ApprovedBy = &decider
	proposal.DecisionAt = &now

	booking, err := u.bookingRepo.FindByID(proposal.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, bookingdomain.ErrBookingNotFound
	}

	updated, err := u.bookingRepo.ApplyReschedule(booking.ID, booking.IcsSequence, proposal.ProposedStartUTC, proposal.ProposedEndUTC)
	if err != nil {
		return nil, err
	}

	// Delivery is a best-effort side effect behind the claim ledger; the
	// approved state is the source of truth either way.
	if err := u.sendCalendarUpdates(ctx, updated, ics.MethodRequest); err != nil {
		log.Printf("[Reschedule] Calendar dispatch after approval of proposal %s: %v", proposal.ID, err)
	}

	return &DecideResult{Status: domain.ProposalStatusApproved, Proposal: proposal}, nil
}

func (u *rescheduleUsecase) cancel(ctx context.Context, proposal *domain.Proposal) (*DecideResult, error) {
	now := time.Now()
	if err := u.proposalRepo.Decide(proposal.ID, domain.ProposalStatusDeclined, nil, now); err != nil {
		return nil, err
	}
	proposal.Status = domain.ProposalStatusDeclined
	proposal.DecisionAt = &now

	subject := "Your reschedule proposal was declined"
	body := fmt.Sprintf("Your proposed time %s – %s was declined. The booking keeps its current time.",
		proposal.ProposedStartUTC.Format(time.RFC1123), proposal.ProposedEndUTC.Format(time.RFC1123))
	if err := u.notifier.DispatchPlain(ctx, proposal.ID, notification.MethodDeclined,
		notification.Recipient{Email: proposal.ProposerEmail}, subject, body); err != nil {
		log.Printf("[Reschedule] Decline notice for proposal %s: %v", proposal.ID, err)
	}

	return &DecideResult{Status: domain.ProposalStatusDeclined, Proposal: proposal}, nil
}

func (u *rescheduleUsecase) counter(ctx context.Context, deciderRole bookingdomain.PartyRole, deciderEmail string, original *domain.Proposal, start, end time.Time, note string) (*DecideResult, error) {
	now := time.Now()
	if err := u.proposalRepo.Decide(original.ID, domain.ProposalStatusDeclined, nil, now); err != nil {
		return nil, err
	}
	original.Status = domain.ProposalStatusDeclined
	original.DecisionAt = &now

	booking, err := u.bookingRepo.FindByID(original.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, bookingdomain.ErrBookingNotFound
	}

	bctx, err := u.contextBuilder.Build(booking)
	if err != nil {
		return nil, err
	}

	counterProposal := &domain.Proposal{
		BookingID:        booking.ID,
		SubjectUID:       booking.IcsUID,
		ProposedBy:       deciderRole,
		ProposerEmail:    deciderEmail,
		ProposedStartUTC: start.UTC(),
		ProposedEndUTC:   end.UTC(),
		Note:             note,
		Status:           domain.ProposalStatusPending,
	}
	if err := u.proposalRepo.Create(counterProposal); err != nil {
		return nil, err
	}

	u.notifyCounterparty(ctx, bctx, counterProposal)

	return &DecideResult{
		Status:          domain.ProposalStatusDeclined,
		Proposal:        original,
		CounterProposal: counterProposal,
	}, nil
}

func (u *rescheduleUsecase) CancelBooking(ctx context.Context, hostUserID, bookingID string) (*bookingdomain.Booking, error) {
	booking, err := u.bookingRepo.FindByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.HostID != hostUserID {
		return nil, bookingdomain.ErrBookingNotFound
	}

	updated, err := u.bookingRepo.Cancel(booking.ID, booking.IcsSequence)
	if err != nil {
		return nil, err
	}

	if err := u.sendCalendarUpdates(ctx, updated, ics.MethodCancel); err != nil {
		log.Printf("[Reschedule] Calendar dispatch after cancelling booking %s: %v", booking.ID, err)
	}

	return updated, nil
}

func (u *rescheduleUsecase) ListProposals(hostUserID, bookingID string) ([]*domain.Proposal, error) {
	booking, err := u.bookingRepo.FindByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.HostID != hostUserID {
		return nil, bookingdomain.ErrBookingNotFound
	}
	return u.proposalRepo.FindByBookingID(bookingID)
}

// notifyCounterparty issues a decide link to the opposite party and emails
// it, deduplicated per proposal by the claim ledger.
func (u *rescheduleUsecase) notifyCounterparty(ctx context.Context, bctx *bookingusecase.Context, proposal *domain.Proposal) {
	counterpartRole := bookingdomain.CounterpartOf(proposal.ProposedBy)
	counterpart := bctx.PartyByRole(counterpartRole)

	issued, err := u.magicLinks.Issue(magicusecase.IssueRequest{
		SubjectUID:    bctx.Booking.IcsUID,
		BookingID:     bctx.Booking.ID,
		ProposalID:    proposal.ID,
		ProposedStart: &proposal.ProposedStartUTC,
		ProposedEnd:   &proposal.ProposedEndUTC,
		ActorEmail:    counterpart.Email,
		ActorRole:     counterpartRole,
		Purpose:       token.PurposeDecideReschedule,
	})
	if err != nil {
		log.Printf("[Reschedule] Failed to issue decide link for proposal %s: %v", proposal.ID, err)
		return
	}

	subject := fmt.Sprintf("New time proposed for %q", bctx.Summary)
	body := fmt.Sprintf(
		"Hi %s,\n\nA new time was proposed for %q:\n\n  %s – %s\n\nAccept, decline or counter-propose here:\n\n%s\n",
		counterpart.Name, bctx.Summary,
		proposal.ProposedStartUTC.Format(time.RFC1123), proposal.ProposedEndUTC.Format(time.RFC1123),
		issued.URL,
	)
	if err := u.notifier.DispatchPlain(ctx, proposal.ID, notification.MethodProposal,
		notification.Recipient{Name: counterpart.Name, Email: counterpart.Email}, subject, body); err != nil {
		log.Printf("[Reschedule] Proposal notice for %s: %v", proposal.ID, err)
	}
}

// sendCalendarUpdates emits one artifact per party for the booking's current
// revision. The host is always the ORGANIZER.
func (u *rescheduleUsecase) sendCalendarUpdates(ctx context.Context, booking *bookingdomain.Booking, method ics.Method) error {
	bctx, err := u.contextBuilder.Build(booking)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Updated invitation: %s", bctx.Summary)
	textBody := fmt.Sprintf("%s now runs %s – %s.", bctx.Summary,
		booking.StartUTC.Format(time.RFC1123), booking.EndUTC.Format(time.RFC1123))
	if method == ics.MethodCancel {
		subject = fmt.Sprintf("Cancelled: %s", bctx.Summary)
		textBody = fmt.Sprintf("%s scheduled %s – %s has been cancelled.", bctx.Summary,
			booking.StartUTC.Format(time.RFC1123), booking.EndUTC.Format(time.RFC1123))
	}

	var firstErr error
	for _, party := range []bookingusecase.Party{bctx.Host, bctx.Guest} {
		ev := ics.Event{
			UID:            booking.IcsUID,
			Method:         method,
			Sequence:       booking.IcsSequence,
			Start:          booking.StartUTC,
			End:            booking.EndUTC,
			Summary:        bctx.Summary,
			Description:    booking.Description,
			Location:       booking.Location,
			OrganizerName:  bctx.Host.Name,
			OrganizerEmail: bctx.Host.Email,
			AttendeeName:   party.Name,
			AttendeeEmail:  party.Email,
		}
		if err := u.notifier.DispatchCalendarUpdate(ctx, ev, subject, textBody); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// requireEither validates a token of either purpose against the ledger.
// View is the only caller; state-changing paths always pin one purpose.
func (u *rescheduleUsecase) requireEither(rawToken string) (*magicdomain.MagicLink, *token.Payload, error) {
	link, payload, err := u.magicLinks.RequireActive(rawToken, token.PurposeProposeReschedule)
	if err == nil {
		return link, payload, nil
	}
	if !errors.Is(err, magicdomain.ErrPurposeMismatch) {
		return nil, nil, err
	}

	return u.magicLinks.RequireActive(rawToken, token.PurposeDecideReschedule)
}
