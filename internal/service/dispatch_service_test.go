package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"reminder-service/internal/domain/entity"
)

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (e *fakeEmailSender) SendReminderEmail(_ context.Context, to, habitName, localTime string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.sent = append(e.sent, to)
	return nil
}

type fakePushSender struct {
	mu        sync.Mutex
	supported bool
	sent      []string
	err       error
}

func (p *fakePushSender) Supported() bool { return p.supported }

func (p *fakePushSender) SendPush(_ context.Context, userID, title, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, userID)
	return nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	records []*entity.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = fmt.Sprintf("n%d", len(r.records)+1)
	r.records = append(r.records, n)
	return nil
}

func (r *fakeNotificationRepo) MarkSent(_ context.Context, id string) error {
	return r.setStatus(id, entity.NotificationStatusSent)
}

func (r *fakeNotificationRepo) MarkFailed(_ context.Context, id string, _ string) error {
	return r.setStatus(id, entity.NotificationStatusFailed)
}

func (r *fakeNotificationRepo) setStatus(id string, status entity.NotificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.records {
		if n.ID == id {
			n.Status = status
			return nil
		}
	}
	return errors.New("notification not found")
}

func dispatchSpec(channel entity.Channel) entity.ReminderSpec {
	return entity.ReminderSpec{
		HabitID:   "h1",
		UserID:    "u1",
		HabitName: "Read",
		LocalTime: entity.TimeOfDay{Hour: 9},
		Zone:      "America/New_York",
		Channel:   channel,
	}
}

func TestDispatchFansOutToBothChannels(t *testing.T) {
	email := &fakeEmailSender{}
	push := &fakePushSender{supported: true}
	repo := &fakeNotificationRepo{}
	d := NewDispatchService(email, push, repo, zap.NewNop())

	spec := dispatchSpec(entity.Channel{Browser: true, Email: true, EmailAddress: "u@example.com"})
	if err := d.Dispatch(context.Background(), spec); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(push.sent) != 1 || push.sent[0] != "u1" {
		t.Errorf("push sent = %v, want [u1]", push.sent)
	}
	if len(email.sent) != 1 || email.sent[0] != "u@example.com" {
		t.Errorf("email sent = %v, want [u@example.com]", email.sent)
	}
	if len(repo.records) != 2 {
		t.Fatalf("audit records = %d, want 2", len(repo.records))
	}
	for _, n := range repo.records {
		if n.Status != entity.NotificationStatusSent {
			t.Errorf("record %s status = %s, want sent", n.ID, n.Status)
		}
	}
}

func TestDispatchEmailOnlyChannel(t *testing.T) {
	email := &fakeEmailSender{}
	push := &fakePushSender{supported: true}
	d := NewDispatchService(email, push, &fakeNotificationRepo{}, zap.NewNop())

	spec := dispatchSpec(entity.Channel{Email: true, EmailAddress: "u@example.com"})
	if err := d.Dispatch(context.Background(), spec); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(push.sent) != 0 {
		t.Errorf("push fired for an email-only reminder: %v", push.sent)
	}
	if len(email.sent) != 1 {
		t.Errorf("email sent = %v, want one message", email.sent)
	}
}

func TestDispatchUnsupportedPushIsNoop(t *testing.T) {
	push := &fakePushSender{supported: false}
	repo := &fakeNotificationRepo{}
	d := NewDispatchService(nil, push, repo, zap.NewNop())

	spec := dispatchSpec(entity.Channel{Browser: true})
	if err := d.Dispatch(context.Background(), spec); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(push.sent) != 0 {
		t.Errorf("unsupported gateway got a push: %v", push.sent)
	}
	if len(repo.records) != 0 {
		t.Errorf("audit records = %d, want 0", len(repo.records))
	}
}

func TestDispatchEmailWithoutAddressSkips(t *testing.T) {
	email := &fakeEmailSender{}
	d := NewDispatchService(email, nil, &fakeNotificationRepo{}, zap.NewNop())

	spec := dispatchSpec(entity.Channel{Email: true})
	if err := d.Dispatch(context.Background(), spec); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(email.sent) != 0 {
		t.Errorf("email sent without an address: %v", email.sent)
	}
}

func TestDispatchFailureMarksRecordFailed(t *testing.T) {
	email := &fakeEmailSender{err: errors.New("smtp down")}
	repo := &fakeNotificationRepo{}
	d := NewDispatchService(email, nil, repo, zap.NewNop())

	spec := dispatchSpec(entity.Channel{Email: true, EmailAddress: "u@example.com"})
	if err := d.Dispatch(context.Background(), spec); err == nil {
		t.Fatal("expected error from failed send")
	}
	if len(repo.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(repo.records))
	}
	if got := repo.records[0].Status; got != entity.NotificationStatusFailed {
		t.Errorf("record status = %s, want failed", got)
	}
}

func TestDispatchPushFailureDoesNotBlockEmail(t *testing.T) {
	email := &fakeEmailSender{}
	push := &fakePushSender{supported: true, err: errors.New("gateway down")}
	d := NewDispatchService(email, push, &fakeNotificationRepo{}, zap.NewNop())

	spec := dispatchSpec(entity.Channel{Browser: true, Email: true, EmailAddress: "u@example.com"})
	if err := d.Dispatch(context.Background(), spec); err == nil {
		t.Fatal("expected the push failure to surface")
	}
	if len(email.sent) != 1 {
		t.Errorf("email sent = %v, want one message despite push failure", email.sent)
	}
}

func TestDispatchWithoutAuditRepo(t *testing.T) {
	email := &fakeEmailSender{}
	d := NewDispatchService(email, nil, nil, zap.NewNop())

	spec := dispatchSpec(entity.Channel{Email: true, EmailAddress: "u@example.com"})
	if err := d.Dispatch(context.Background(), spec); err != nil {
		t.Fatalf("dispatch without audit repo: %v", err)
	}
	if len(email.sent) != 1 {
		t.Errorf("email sent = %v, want one message", email.sent)
	}
}
