// Package notification dispatches booking emails with at-most-once delivery
// per booking revision per recipient per method, arbitrated by the send
// ledger (claim-before-send).
package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	"meetsync-backend/internal/notification/domain"
	"meetsync-backend/internal/notification/repository"
	"meetsync-backend/pkg/ics"
	"meetsync-backend/pkg/mailer"
)

// ErrDeliveryFailed wraps transport errors. The failure is recorded in the
// ledger for retry; callers log it and do not roll back state transitions.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// MethodProposal is the ledger method label for plain proposal emails,
// which carry a decision link rather than a calendar object. Keyed by
// proposal id so each negotiation round notifies its counterparty once.
const MethodProposal = "PROPOSAL"

// MethodDeclined is the ledger method label for decline notices.
const MethodDeclined = "DECLINED"

// MethodLink is the ledger method label for magic-link issuance emails,
// keyed by the issued link id.
const MethodLink = "LINK"

type Recipient struct {
	Name  string
	Email string
}

type Service struct {
	sendRepo repository.SendRecordRepository
	mailer   mailer.Mailer
}

func NewService(sendRepo repository.SendRecordRepository, m mailer.Mailer) *Service {
	return &Service{
		sendRepo: sendRepo,
		mailer:   m,
	}
}

// DispatchCalendarUpdate delivers a calendar artifact to the event's
// attendee. The send key is (UID, SEQUENCE, attendee, METHOD), so a retried
// or concurrent trigger for the same revision is suppressed once a send has
// succeeded.
func (s *Service) DispatchCalendarUpdate(ctx context.Context, ev ics.Event, subject, textBody string) error {
	key := domain.SendKey{
		SubjectUID:    ev.UID,
		Sequence:      ev.Sequence,
		AttendeeEmail: ev.AttendeeEmail,
		Method:        string(ev.Method),
	}

	record, err := s.sendRepo.Claim(key)
	if err != nil {
		return err
	}

	if record.Status == domain.SendStatusSent {
		log.Printf("[Notification] Skipping duplicate %s for %s seq=%d to %s (already sent as %s)",
			ev.Method, ev.UID, ev.Sequence, ev.AttendeeEmail, deref(record.ProviderMessageID))
		return nil
	}

	messageID, err := s.mailer.Send(ctx, mailer.Message{
		ToName:    ev.AttendeeName,
		ToEmail:   ev.AttendeeEmail,
		Subject:   subject,
		TextBody:  textBody,
		ICSBody:   ics.Build(ev),
		ICSMethod: string(ev.Method),
	})
	if err != nil {
		if recErr := s.sendRepo.RecordFailure(record.ID, err.Error()); recErr != nil {
			log.Printf("[Notification] Failed to record delivery failure: %v", recErr)
		}
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return s.sendRepo.MarkSent(record.ID, messageID)
}

// DispatchPlain delivers a non-calendar notification (proposal or decline
// notice) at most once per (subjectUID, method, recipient).
func (s *Service) DispatchPlain(ctx context.Context, subjectUID, method string, to Recipient, subject, textBody string) error {
	key := domain.SendKey{
		SubjectUID:    subjectUID,
		Sequence:      0,
		AttendeeEmail: to.Email,
		Method:        method,
	}

	record, err := s.sendRepo.Claim(key)
	if err != nil {
		return err
	}

	if record.Status == domain.SendStatusSent {
		log.Printf("[Notification] Skipping duplicate %s for %s to %s", method, subjectUID, to.Email)
		return nil
	}

	messageID, err := s.mailer.Send(ctx, mailer.Message{
		ToName:   to.Name,
		ToEmail:  to.Email,
		Subject:  subject,
		TextBody: textBody,
	})
	if err != nil {
		if recErr := s.sendRepo.RecordFailure(record.ID, err.Error()); recErr != nil {
			log.Printf("[Notification] Failed to record delivery failure: %v", recErr)
		}
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return s.sendRepo.MarkSent(record.ID, messageID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
