package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"courtside/database/repository"
	"courtside/models"

	"go.uber.org/zap"
)

// LinkKind selects the wording of an account-action email.
type LinkKind string

const (
	LinkPasswordReset     LinkKind = "password_reset"
	LinkEmailVerification LinkKind = "email_verification"
)

var ErrUnknownLinkKind = errors.New("unknown account link kind")

// Service turns domain events into queued emails and partner pushes.
type Service struct {
	queue        EmailQueue
	pusher       Pusher
	users        repository.UserRepository
	partners     repository.PartnerRepository
	supportEmail string
	logger       *zap.Logger
}

func NewService(
	queue EmailQueue,
	pusher Pusher,
	users repository.UserRepository,
	partners repository.PartnerRepository,
	supportEmail string,
	logger *zap.Logger,
) *Service {
	return &Service{
		queue:        queue,
		pusher:       pusher,
		users:        users,
		partners:     partners,
		supportEmail: supportEmail,
		logger:       logger,
	}
}

// NotifyBooking emails the booking user and pushes to the owning partner.
// Both legs are attempted; the first failure is returned.
func (s *Service) NotifyBooking(ctx context.Context, ev models.BookingEvent) error {
	mailErr := s.emailUser(ctx, ev)
	if mailErr != nil {
		s.logger.Warn("Booking email not queued",
			zap.String("userID", ev.UserID),
			zap.String("listingID", ev.Listing.ID),
			zap.Error(mailErr))
	}
	pushErr := s.pushPartner(ctx, ev)
	if pushErr != nil {
		s.logger.Warn("Partner push not sent",
			zap.String("partnerID", ev.Listing.PartnerID),
			zap.String("listingID", ev.Listing.ID),
			zap.Error(pushErr))
	}
	if mailErr != nil {
		return mailErr
	}
	return pushErr
}

func (s *Service) emailUser(ctx context.Context, ev models.BookingEvent) error {
	u, err := s.users.GetByID(ctx, ev.UserID)
	if err != nil {
		return fmt.Errorf("could not load user %s: %w", ev.UserID, err)
	}
	if u.Email == "" {
		return nil
	}

	var (
		subject string
		body    string
	)
	switch ev.Kind {
	case models.EventBooked:
		subject = fmt.Sprintf("Booking confirmed: %s on %s", ev.Listing.Name, ev.Booking.Date)
		body, err = RenderReceipt(u.FullName(), ev.Listing, ev.Booking)
	case models.EventCancelled:
		subject = fmt.Sprintf("Booking cancelled: %s on %s", ev.Listing.Name, ev.Booking.Date)
		body, err = RenderCancellation(u.FullName(), ev.Listing, ev.Booking, ev.CancelledBy)
	default:
		return fmt.Errorf("unknown booking event %q", ev.Kind)
	}
	if err != nil {
		return err
	}
	return s.queue.EnqueueEmail(ctx, models.EmailPayload{To: u.Email, Subject: subject, HTML: body})
}

func (s *Service) pushPartner(ctx context.Context, ev models.BookingEvent) error {
	if s.pusher == nil || ev.Listing.PartnerID == "" {
		return nil
	}
	p, err := s.partners.GetByID(ctx, ev.Listing.PartnerID)
	if err != nil {
		return fmt.Errorf("could not load partner %s: %w", ev.Listing.PartnerID, err)
	}
	if p.FCMToken == "" {
		return nil
	}

	title := "New booking"
	if ev.Kind == models.EventCancelled {
		title = "Booking cancelled"
	}
	body := fmt.Sprintf("%s, %s %s-%s", ev.Listing.Name, ev.Booking.Date, ev.Booking.Time.StartTime, ev.Booking.Time.EndTime)
	data := map[string]string{
		"type":      ev.Kind,
		"role":      "partner",
		"listingId": ev.Listing.ID,
		"date":      ev.Booking.Date,
		"startTime": ev.Booking.Time.StartTime,
		"endTime":   ev.Booking.Time.EndTime,
	}
	return s.pusher.Push(ctx, p.FCMToken, title, body, data)
}

// SendContact forwards a contact-form message to the support inbox.
func (s *Service) SendContact(ctx context.Context, msg models.ContactMessage) error {
	body, err := renderContact(msg)
	if err != nil {
		return err
	}
	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = "Contact form message"
	}
	return s.queue.EnqueueEmail(ctx, models.EmailPayload{
		To:      s.supportEmail,
		Subject: "[Contact] " + subject,
		HTML:    body,
		ReplyTo: msg.Email,
	})
}

// SendAccountLink emails a provider-generated action link to to.
func (s *Service) SendAccountLink(ctx context.Context, to string, kind LinkKind, link string) error {
	var view linkView
	var subject string
	switch kind {
	case LinkPasswordReset:
		subject = "Reset your password"
		view = linkView{Intro: "We received a request to reset your password.", Action: "Reset password", Link: link}
	case LinkEmailVerification:
		subject = "Verify your email"
		view = linkView{Intro: "Confirm this address to finish setting up your account.", Action: "Verify email", Link: link}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLinkKind, kind)
	}
	body, err := render(linkTmpl, view)
	if err != nil {
		return err
	}
	return s.queue.EnqueueEmail(ctx, models.EmailPayload{To: to, Subject: subject, HTML: body})
}

// EnqueueEmail queues a caller-rendered message unchanged.
func (s *Service) EnqueueEmail(ctx context.Context, msg models.EmailPayload) error {
	return s.queue.EnqueueEmail(ctx, msg)
}
