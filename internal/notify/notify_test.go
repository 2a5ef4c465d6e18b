package notify

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeMailer records sends and fails the first failures attempts.
type fakeMailer struct {
	mu       sync.Mutex
	sent     []Job
	failures int
	calls    int
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failures {
		return errors.New("relay unavailable")
	}
	m.sent = append(m.sent, Job{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) sentJobs() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Job(nil), m.sent...)
}

func newTestNotifier(mailer Mailer, queueSize int) *Notifier {
	n := New(mailer, queueSize)
	n.retryDelay = time.Millisecond
	return n
}

func TestCollectCreatedTemplate(t *testing.T) {
	mailer := &fakeMailer{}
	n := newTestNotifier(mailer, 4)
	n.Start()

	n.CollectCreated("Wedding of Anna", "anna@example.com")
	n.Stop()

	sent := mailer.sentJobs()
	if len(sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(sent))
	}
	if sent[0].To != "anna@example.com" {
		t.Fatalf("To = %q, want %q", sent[0].To, "anna@example.com")
	}
	if sent[0].Subject != "New Collect: Wedding of Anna" {
		t.Fatalf("Subject = %q, want %q", sent[0].Subject, "New Collect: Wedding of Anna")
	}
	if sent[0].Body != "You created new collect!" {
		t.Fatalf("Body = %q, want %q", sent[0].Body, "You created new collect!")
	}
}

func TestPaymentCreatedTemplate(t *testing.T) {
	mailer := &fakeMailer{}
	n := newTestNotifier(mailer, 4)
	n.Start()

	n.PaymentCreated(150, "donor@example.com")
	n.Stop()

	sent := mailer.sentJobs()
	if len(sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(sent))
	}
	if sent[0].Subject != "New Payment Created!" {
		t.Fatalf("Subject = %q, want %q", sent[0].Subject, "New Payment Created!")
	}
	if sent[0].Body != "You created payment with amount = 150!. Thank you!" {
		t.Fatalf("Body = %q, want %q", sent[0].Body, "You created payment with amount = 150!. Thank you!")
	}
}

func TestDeliveryRetriesThenSucceeds(t *testing.T) {
	mailer := &fakeMailer{failures: 2} // First two attempts fail
	n := newTestNotifier(mailer, 4)
	n.Start()

	n.PaymentCreated(100, "donor@example.com")
	n.Stop()

	if sent := mailer.sentJobs(); len(sent) != 1 {
		t.Fatalf("sent %d mails, want 1 after retries", len(sent))
	}
}

func TestDeliveryGivesUpAfterMaxAttempts(t *testing.T) {
	mailer := &fakeMailer{failures: maxAttempts} // Every attempt fails
	n := newTestNotifier(mailer, 4)
	n.Start()

	n.PaymentCreated(100, "donor@example.com")
	n.Stop() // Must return despite the failed job

	if sent := mailer.sentJobs(); len(sent) != 0 {
		t.Fatalf("sent %d mails, want 0", len(sent))
	}
}

// blockingMailer parks the worker until released.
type blockingMailer struct {
	release chan struct{}
}

func (m *blockingMailer) Send(string, string, string) error {
	<-m.release
	return nil
}

func TestEnqueueNeverBlocksWhenQueueFull(t *testing.T) {
	mailer := &blockingMailer{release: make(chan struct{})}
	n := newTestNotifier(mailer, 1)
	n.Start()

	// First job occupies the worker, second fills the queue, the rest must
	// be dropped without blocking the caller
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			n.PaymentCreated(int64(i), "donor@example.com")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}

	close(mailer.release)
	n.Stop()
}
