package notify

import (
	"fmt"  // Template interpolation
	"time" // Retry backoff

	"github.com/google/uuid"     // Job IDs for log correlation
	"github.com/sirupsen/logrus" // Logging library
)

// Email templates per event kind
const (
	collectSubject = "New Collect: %s"
	collectMessage = "You created new collect!"

	paymentSubject = "New Payment Created!"
	paymentMessage = "You created payment with amount = %d!. Thank you!"
)

const maxAttempts = 3 // Delivery attempts per job before giving up

// Mailer delivers a single email. Implementations must be safe for use from
// the worker goroutine.
type Mailer interface {
	Send(to, subject, body string) error
}

// Job is one queued email delivery.
type Job struct {
	ID      string // Correlation ID for logs
	To      string // Recipient address
	Subject string
	Body    string
}

// Notifier is the fire-and-forget email dispatcher. Producers enqueue jobs
// without blocking; a single background worker drains the queue and delivers
// with bounded retries. Delivery failures never reach the request path.
type Notifier struct {
	mailer     Mailer
	queue      chan Job
	done       chan struct{} // Closed when the worker has drained the queue
	retryDelay time.Duration // Base backoff between attempts
}

// New builds a Notifier with a bounded queue. Call Start before enqueueing.
func New(mailer Mailer, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &Notifier{
		mailer:     mailer,
		queue:      make(chan Job, queueSize),
		done:       make(chan struct{}),
		retryDelay: 10 * time.Second,
	}
}

// Start launches the background delivery worker.
func (n *Notifier) Start() {
	go n.run()
}

// Stop closes the queue and waits for the worker to drain it.
func (n *Notifier) Stop() {
	close(n.queue)
	<-n.done
}

// CollectCreated enqueues the collect-creation email for the owner.
func (n *Notifier) CollectCreated(title, email string) {
	n.enqueue(Job{
		ID:      uuid.NewString(),
		To:      email,
		Subject: fmt.Sprintf(collectSubject, title),
		Body:    collectMessage,
	})
}

// PaymentCreated enqueues the payment-creation email for the donor.
func (n *Notifier) PaymentCreated(amount int64, email string) {
	n.enqueue(Job{
		ID:      uuid.NewString(),
		To:      email,
		Subject: paymentSubject,
		Body:    fmt.Sprintf(paymentMessage, amount),
	})
}

// enqueue hands the job to the worker without ever blocking the caller.
// A full queue drops the job with a warning.
func (n *Notifier) enqueue(job Job) {
	select {
	case n.queue <- job:
	default:
		logrus.WithFields(logrus.Fields{
			"job_id":  job.ID,
			"to":      job.To,
			"subject": job.Subject,
		}).Warn("Notification queue full, dropping job")
	}
}

// run is the worker loop: deliver each job, retrying with linear backoff.
func (n *Notifier) run() {
	defer close(n.done)
	for job := range n.queue {
		n.deliver(job)
	}
}

// deliver attempts the send up to maxAttempts times. Exhausted jobs are
// dropped with an error log, never re-queued.
func (n *Notifier) deliver(job Job) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := n.mailer.Send(job.To, job.Subject, job.Body)
		if err == nil {
			logrus.WithFields(logrus.Fields{
				"job_id":  job.ID,
				"to":      job.To,
				"attempt": attempt,
			}).Info("Notification sent")
			return
		}
		logrus.WithFields(logrus.Fields{
			"job_id":  job.ID,
			"to":      job.To,
			"attempt": attempt,
			"error":   err.Error(),
		}).Error("Notification delivery failed")
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * n.retryDelay)
		}
	}
	logrus.WithFields(logrus.Fields{
		"job_id": job.ID,
		"to":     job.To,
	}).Error("Notification dropped after max attempts")
}
