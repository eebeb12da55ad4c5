package pit

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"bookmosh/internal/logger"
	"bookmosh/internal/metrics"
	"bookmosh/internal/realtime"

	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type Service struct {
	repo   Repository
	broker Broker
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewService(repo Repository, broker Broker) *Service {
	return &Service{
		repo:   repo,
		broker: broker,
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Pit, error) {
	p := Pit{
		BookKey:   strings.TrimSpace(req.BookKey),
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: userID,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return Pit{}, fmt.Errorf("create pit: %w", err)
	}
	return p, nil
}

func (s *Service) Join(ctx context.Context, pitID, userID string) error {
	return s.repo.AddMember(ctx, pitID, userID)
}

// CleanBody strips markup and surrounding whitespace. Entities produced by
// the sanitizer are decoded again so the stored body is plain text.
func (s *Service) CleanBody(body string) (string, error) {
	clean := html.UnescapeString(s.policy.Sanitize(strings.TrimSpace(body)))
	clean = strings.TrimSpace(clean)
	if n := utf8.RuneCountInString(clean); n == 0 || n > MaxBodyLength {
		return "", ErrInvalidMessage
	}
	return clean, nil
}

func (s *Service) requireMember(ctx context.Context, pitID, userID string) error {
	ok, err := s.repo.IsMember(ctx, pitID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}

// Post persists a message and then publishes it to live subscribers.
func (s *Service) Post(ctx context.Context, pitID, userID, body string) (Message, error) {
	clean, err := s.CleanBody(body)
	if err != nil {
		return Message{}, err
	}
	if err := s.requireMember(ctx, pitID, userID); err != nil {
		return Message{}, err
	}

	m := Message{PitID: pitID, UserID: userID, Body: clean}
	if err := s.repo.InsertMessage(ctx, &m); err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}
	metrics.PitMessagesTotal.Inc()

	ev, err := realtime.NewEvent(Topic(pitID), EventMessageCreated, m)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("encode pit event")
		return m, nil
	}
	n := s.broker.Publish(Topic(pitID), ev)
	logger.For(ctx).WithField("pit_id", pitID).WithField("subscribers", n).Debug("message published")
	return m, nil
}

// Messages pages backwards from before. A zero before starts at the newest.
func (s *Service) Messages(ctx context.Context, pitID, userID string, before time.Time, limit int) ([]Message, error) {
	if err := s.requireMember(ctx, pitID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if before.IsZero() {
		before = s.now().Add(time.Second)
	}
	return s.repo.ListMessages(ctx, pitID, before, limit)
}

func (s *Service) MarkRead(ctx context.Context, pitID, userID string) error {
	if err := s.requireMember(ctx, pitID, userID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, pitID, userID, s.now())
}

// Subscribe registers fn for new messages in the pit. The caller must be a
// member; release with Unsubscribe on the returned subscription.
func (s *Service) Subscribe(ctx context.Context, pitID, userID string, fn func(Message)) (*realtime.Subscription, error) {
	if err := s.requireMember(ctx, pitID, userID); err != nil {
		return nil, err
	}
	sub := s.broker.Subscribe(Topic(pitID), func(ev realtime.Event) {
		if ev.Type != EventMessageCreated {
			return
		}
		var m Message
		if err := json.Unmarshal(ev.Payload, &m); err != nil {
			logger.For(ctx).WithError(err).Warn("decode pit event")
			return
		}
		fn(m)
	})
	return sub, nil
}
