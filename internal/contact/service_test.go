package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMailer records every message and fails on the configured call number.
type fakeMailer struct {
	mu     sync.Mutex
	sent   []Email
	failOn int // 1-based call that fails; 0 never fails
	calls  int
}

func (m *fakeMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls == m.failOn {
		return errors.New("535 5.7.8 Username and Password not accepted")
	}
	m.sent = append(m.sent, email)
	return nil
}

type fakeCaptcha struct {
	err   error
	calls int
	token string
}

func (c *fakeCaptcha) Verify(_ context.Context, token, _ string) error {
	c.calls++
	c.token = token
	return c.err
}

type fakeRecorder struct {
	outcomes   []Kind
	dispatches []string
}

func (r *fakeRecorder) Submission(kind Kind) { r.outcomes = append(r.outcomes, kind) }
func (r *fakeRecorder) Dispatch(message string, _ time.Duration, _ error) {
	r.dispatches = append(r.dispatches, message)
}

func testOptions(confirm bool) Options {
	return Options{
		Composer:         NewComposer("Tram Bui - Portfolio", "sender@example.com", "owner@example.com", "Tram Bui"),
		SendConfirmation: confirm,
		CaptchaPolicy:    FailClosed,
	}
}

func validSubmission() Submission {
	return Submission{
		Name:         "Jo",
		Email:        "jo@x.com",
		Message:      "Hi <b>there</b>",
		CaptchaToken: "tok",
	}
}

func newTestService(t *testing.T, captcha *fakeCaptcha, mailer *fakeMailer, opts Options, options ...Option) *Service {
	t.Helper()
	svc, err := NewService(captcha, mailer, opts, nil, options...)
	require.NoError(t, err)
	return svc
}

func TestSubmitSendsAlertThenConfirmation(t *testing.T) {
	captcha := &fakeCaptcha{}
	mailer := &fakeMailer{}
	svc := newTestService(t, captcha, mailer, testOptions(true))

	err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, 1, captcha.calls)
	assert.Equal(t, "tok", captcha.token)
	require.Len(t, mailer.sent, 2)

	alert := mailer.sent[0]
	assert.Equal(t, "owner@example.com", alert.To)
	assert.Equal(t, "jo@x.com", alert.ReplyTo)
	assert.Equal(t, "[ACTION REQUIRED] NEW PORTFOLIO LEAD from Jo", alert.Subject)
	assert.Contains(t, alert.HTML, "Hi &lt;b&gt;there&lt;/b&gt;")
	assert.NotContains(t, alert.HTML, "<b>there")
	assert.Equal(t, `"Tram Bui - Portfolio" <sender@example.com>`, alert.From)

	confirmation := mailer.sent[1]
	assert.Equal(t, "jo@x.com", confirmation.To)
	assert.Empty(t, confirmation.ReplyTo)
	assert.Equal(t, "Message Received: Thank you for contacting Tram Bui", confirmation.Subject)
	assert.Contains(t, confirmation.HTML, "Hi Jo,")
	assert.Contains(t, confirmation.HTML, "Hi &lt;b&gt;there&lt;/b&gt;")
}

func TestSubmitWithoutConfirmationSendsOnlyAlert(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(t, &fakeCaptcha{}, mailer, testOptions(false))

	require.NoError(t, svc.Submit(context.Background(), validSubmission()))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "owner@example.com", mailer.sent[0].To)
}

func TestSubmitMissingFieldMakesNoCalls(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		want   *Error
	}{
		{"name", func(s *Submission) { s.Name = "" }, ErrInvalidInput},
		{"blank name", func(s *Submission) { s.Name = " \n\t" }, ErrInvalidInput},
		{"email", func(s *Submission) { s.Email = "" }, ErrInvalidInput},
		{"message", func(s *Submission) { s.Message = "" }, ErrInvalidInput},
		{"captcha token", func(s *Submission) { s.CaptchaToken = "" }, ErrCaptchaRequired},
		{"malformed email", func(s *Submission) { s.Email = "not-an-address" }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captcha := &fakeCaptcha{}
			mailer := &fakeMailer{}
			svc := newTestService(t, captcha, mailer, testOptions(true))

			sub := validSubmission()
			tt.mutate(&sub)
			err := svc.Submit(context.Background(), sub)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, http.StatusBadRequest, StatusCode(err))
			assert.Zero(t, captcha.calls)
			assert.Zero(t, mailer.calls)
		})
	}
}

func TestSubmitCaptchaRejectedSendsNoMail(t *testing.T) {
	captcha := &fakeCaptcha{err: fmt.Errorf("%w: [invalid-input-response]", ErrCaptchaRejected)}
	mailer := &fakeMailer{}
	svc := newTestService(t, captcha, mailer, testOptions(true))

	err := svc.Submit(context.Background(), validSubmission())

	assert.ErrorIs(t, err, ErrCaptchaRejected)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Equal(t, MsgCaptchaRejected, PublicMessage(err))
	assert.Zero(t, mailer.calls)
}

func TestSubmitUnclassifiedCaptchaErrorIsRejection(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(t, &fakeCaptcha{err: errors.New("weird")}, mailer, testOptions(true))

	err := svc.Submit(context.Background(), validSubmission())
	assert.ErrorIs(t, err, ErrCaptchaRejected)
	assert.Zero(t, mailer.calls)
}

func TestSubmitCaptchaUnavailablePolicy(t *testing.T) {
	outage := fmt.Errorf("%w: dial tcp: i/o timeout", ErrCaptchaUnavailable)

	t.Run("fail closed", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := newTestService(t, &fakeCaptcha{err: outage}, mailer, testOptions(true))

		err := svc.Submit(context.Background(), validSubmission())
		assert.ErrorIs(t, err, ErrCaptchaUnavailable)
		assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
		assert.Zero(t, mailer.calls)
	})

	t.Run("fail open", func(t *testing.T) {
		mailer := &fakeMailer{}
		opts := testOptions(true)
		opts.CaptchaPolicy = FailOpen
		svc := newTestService(t, &fakeCaptcha{err: outage}, mailer, opts)

		require.NoError(t, svc.Submit(context.Background(), validSubmission()))
		assert.Len(t, mailer.sent, 2)
	})
}

func TestSubmitAlertFailureSkipsConfirmation(t *testing.T) {
	mailer := &fakeMailer{failOn: 1}
	svc := newTestService(t, &fakeCaptcha{}, mailer, testOptions(true))

	err := svc.Submit(context.Background(), validSubmission())

	assert.ErrorIs(t, err, ErrDispatch)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, MsgDispatch, PublicMessage(err))
	assert.NotContains(t, PublicMessage(err), "535")
	assert.Equal(t, 1, mailer.calls)
	assert.Empty(t, mailer.sent)
}

func TestSubmitConfirmationFailureIsDispatchError(t *testing.T) {
	mailer := &fakeMailer{failOn: 2}
	svc := newTestService(t, &fakeCaptcha{}, mailer, testOptions(true))

	err := svc.Submit(context.Background(), validSubmission())

	assert.ErrorIs(t, err, ErrDispatch)
	assert.Equal(t, 2, mailer.calls)
	require.Len(t, mailer.sent, 1, "the alert stays sent")
}

func TestSubmitRecordsOutcomes(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(t, &fakeCaptcha{}, &fakeMailer{}, testOptions(true), WithRecorder(rec))

	require.NoError(t, svc.Submit(context.Background(), validSubmission()))
	sub := validSubmission()
	sub.Message = ""
	require.Error(t, svc.Submit(context.Background(), sub))

	assert.Equal(t, []Kind{KindNone, KindInvalidInput}, rec.outcomes)
	assert.Equal(t, []string{"alert", "confirmation"}, rec.dispatches)
}

func TestComposedBodiesNeverContainRawMarkup(t *testing.T) {
	hostile := []Submission{
		{Name: `<script>alert("x")</script>`, Email: "a@b.co", Message: "' OR 1=1 --", CaptchaToken: "t"},
		{Name: "Tom & Jerry", Email: "tom@jerry.com", Message: `<img src=x onerror="steal()">`, CaptchaToken: "t"},
		{Name: `"quoted"`, Email: "q@q.io", Message: "5 > 3 && 2 < 4", CaptchaToken: "t"},
	}

	for _, sub := range hostile {
		mailer := &fakeMailer{}
		svc := newTestService(t, &fakeCaptcha{}, mailer, testOptions(true))
		require.NoError(t, svc.Submit(context.Background(), sub))

		lead, err := Sanitize(sub)
		require.NoError(t, err)
		for _, field := range []string{lead.Name, lead.Email, lead.Message} {
			assert.False(t, strings.ContainsAny(field, `<>"'`), "field %q", field)
		}
		for _, email := range mailer.sent {
			assert.NotContains(t, email.HTML, "<script")
			assert.NotContains(t, email.HTML, "<img")
			assert.False(t, strings.Contains(email.Subject, "<"), "subject %q", email.Subject)
		}
	}
}

func TestNewServiceValidatesOptions(t *testing.T) {
	_, err := NewService(nil, &fakeMailer{}, testOptions(true), nil)
	assert.Error(t, err)

	_, err = NewService(&fakeCaptcha{}, nil, testOptions(true), nil)
	assert.Error(t, err)

	opts := testOptions(true)
	opts.Composer.AlertTo = ""
	_, err = NewService(&fakeCaptcha{}, &fakeMailer{}, opts, nil)
	assert.Error(t, err)

	opts = testOptions(true)
	opts.CaptchaPolicy = "sometimes"
	_, err = NewService(&fakeCaptcha{}, &fakeMailer{}, opts, nil)
	assert.Error(t, err)

	opts = testOptions(true)
	opts.CaptchaPolicy = ""
	svc, err := NewService(&fakeCaptcha{}, &fakeMailer{}, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, FailClosed, svc.opts.CaptchaPolicy)
}
