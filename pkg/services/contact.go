package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"text/template"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"melonworks-site/pkg/models"
)

//go:embed data/*.tmpl
var mailTemplates embed.FS

// Contact form errors.
var (
	ErrTooFast           = errors.New("form submitted too fast")
	ErrConsentRequired   = errors.New("privacy policy consent required")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrDeliveryFailed    = errors.New("mail delivery failed")
)

// DefaultMinDwell is the shortest time a person needs to fill in the form.
const DefaultMinDwell = 3 * time.Second

// FormState is what the server knows about a form before it is submitted.
type FormState struct {
	ShownAt    time.Time // zero when the form was never displayed
	PolicyRead bool      // the policy disclosure was opened at least once
	Consent    bool      // the consent checkbox was ticked
}

// Gate rejects submissions that look automated or lack consent.
type Gate struct {
	MinDwell time.Duration
}

// Check returns ErrTooFast or ErrConsentRequired, nil when the submission
// may proceed.
func (g Gate) Check(st FormState, now time.Time) error {
	dwell := g.MinDwell
	if dwell <= 0 {
		dwell = DefaultMinDwell
	}
	if st.ShownAt.IsZero() || now.Sub(st.ShownAt) < dwell {
		return ErrTooFast
	}
	if !st.Consent || !st.PolicyRead {
		return ErrConsentRequired
	}
	return nil
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists invalid fields of a submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	return strings.Join(lo.Map(v, func(fe FieldError, _ int) string {
		return fe.Field + ": " + fe.Message
	}), "; ")
}

// Outcome tells what happened to an accepted submission.
type Outcome struct {
	Discarded bool // honeypot was filled, nothing was sent
}

// ContactParams configures Contact.
type ContactParams struct {
	Sender       Sender
	Company      models.Company
	Operator     string // notification recipient, company email when empty
	InquiryTypes []string
	Log          *slog.Logger
	Metrics      *Metrics
}

// Contact validates submissions and mails them to the operator, with an
// auto-reply to the submitter.
type Contact struct {
	ContactParams
	validate *validator.Validate
	tmpl     *template.Template
}

// NewContact builds the contact service.
func NewContact(p ContactParams) (*Contact, error) {
	if p.Operator == "" {
		p.Operator = p.Company.Email
	}
	if p.Log == nil {
		p.Log = slog.Default()
	}

	tmpl, err := template.ParseFS(mailTemplates, "data/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("inquiry", func(fl validator.FieldLevel) bool {
		return lo.Contains(p.InquiryTypes, fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register inquiry validation: %w", err)
	}

	return &Contact{ContactParams: p, validate: v, tmpl: tmpl}, nil
}

// Submit handles one submission. A filled honeypot is accepted and dropped.
func (c *Contact) Submit(ctx context.Context, req models.ContactRequest) (Outcome, error) {
	if strings.TrimSpace(req.BotField) != "" {
		c.Log.WarnContext(ctx, "contact honeypot filled, submission discarded")
		c.Metrics.contact("discarded")
		return Outcome{Discarded: true}, nil
	}

	req = trimRequest(req)
	if err := c.validate.Struct(req); err != nil {
		c.Metrics.contact("invalid")
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidSubmission, validationErrors(err))
	}

	operator, reply, err := c.mails(req)
	if err != nil {
		c.Metrics.contact("failed")
		return Outcome{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := c.Sender.Send(gctx, operator)
		c.Metrics.mail("operator", err)
		return err
	})
	g.Go(func() error {
		err := c.Sender.Send(gctx, reply)
		c.Metrics.mail("autoreply", err)
		return err
	})
	if err := g.Wait(); err != nil {
		c.Log.ErrorContext(ctx, "failed to send contact mails", slog.Any("err", err))
		c.Metrics.contact("failed")
		return Outcome{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	c.Log.InfoContext(ctx, "contact submission delivered", slog.String("type", req.Type))
	c.Metrics.contact("delivered")
	return Outcome{}, nil
}

func (c *Contact) mails(req models.ContactRequest) (operator, reply Mail, err error) {
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, "operator.tmpl", req); err != nil {
		return Mail{}, Mail{}, fmt.Errorf("render operator mail: %w", err)
	}
	operator = Mail{
		FromName: req.Name + "様",
		To:       c.Operator,
		ReplyTo:  req.Email,
		Subject:  fmt.Sprintf("【HP問い合わせ】%s様より", req.Name),
		Body:     buf.String(),
	}

	buf.Reset()
	data := struct {
		Request models.ContactRequest
		Company models.Company
	}{req, c.Company}
	if err := c.tmpl.ExecuteTemplate(&buf, "autoreply.tmpl", data); err != nil {
		return Mail{}, Mail{}, fmt.Errorf("render auto-reply: %w", err)
	}
	reply = Mail{
		FromName: c.Company.Name,
		To:       req.Email,
		Subject:  "【自動返信】お問い合わせありがとうございます",
		Body:     buf.String(),
	}
	return operator, reply, nil
}

func trimRequest(req models.ContactRequest) models.ContactRequest {
	req.Company = strings.TrimSpace(req.Company)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Tel = strings.TrimSpace(req.Tel)
	req.Type = strings.TrimSpace(req.Type)
	req.Message = strings.TrimSpace(req.Message)
	return req
}

func validationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return ValidationErrors(lo.Map(verrs, func(fe validator.FieldError, _ int) FieldError {
		return FieldError{Field: fe.Field(), Message: fieldMessage(fe)}
	}))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必須項目です"
	case "email":
		return "メールアドレスの形式が正しくありません"
	case "max":
		return fmt.Sprintf("%s文字以内で入力してください", fe.Param())
	case "inquiry":
		return "ご相談内容を選択してください"
	default:
		return "入力内容が正しくありません"
	}
}
