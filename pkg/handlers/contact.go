package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"melonworks-site/pkg/models"
	"melonworks-site/pkg/services"
)

const (
	sessionShownAt    = "contact_shown_at"
	sessionPolicyRead = "contact_policy_read"
)

// Messages shown when a submission is refused.
const (
	msgTooFast         = "入力時間が短すぎるため、送信できませんでした。"
	msgConsentRequired = "プライバシーポリシーへの同意が必要です。"
	msgInvalid         = "入力内容をご確認ください。"
	msgDeliveryFailed  = "送信に失敗しました。しばらく経ってから再度お試しください。"
)

// ContactForm shows the form and starts the dwell timer.
func (h *Handler) ContactForm(c *gin.Context) {
	session := sessions.Default(c)
	session.Set(sessionShownAt, h.now().UnixNano())
	if err := session.Save(); err != nil {
		h.Log.WarnContext(c.Request.Context(), "failed to save session", slog.Any("err", err))
	}
	h.renderContact(c, http.StatusOK, models.ContactRequest{}, "", nil)
}

// ContactPolicy shows the privacy policy disclosure and remembers that it
// was read. Consent is accepted only after this.
func (h *Handler) ContactPolicy(c *gin.Context) {
	page, err := h.Pages.Page("privacy")
	if err != nil {
		h.pageError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionPolicyRead, true)
	if err := session.Save(); err != nil {
		h.Log.WarnContext(c.Request.Context(), "failed to save session", slog.Any("err", err))
	}
	h.render(c, http.StatusOK, "policy.html", gin.H{"Title": page.Title, "Page": page})
}

// ContactSubmit handles the form post. A filled honeypot is answered as a
// success right away, otherwise the gate runs before anything is sent.
func (h *Handler) ContactSubmit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderContact(c, http.StatusBadRequest, req, msgInvalid, nil)
		return
	}

	if strings.TrimSpace(req.BotField) != "" {
		h.Log.InfoContext(c.Request.Context(), "honeypot filled, submission dropped")
		h.render(c, http.StatusOK, "contact_done.html", gin.H{"Title": "送信完了"})
		return
	}

	session := sessions.Default(c)
	st := services.FormState{Consent: c.PostForm("consent") != ""}
	if ns, ok := session.Get(sessionShownAt).(int64); ok {
		st.ShownAt = time.Unix(0, ns)
	}
	st.PolicyRead, _ = session.Get(sessionPolicyRead).(bool)

	if err := h.Gate.Check(st, h.now()); err != nil {
		msg := msgConsentRequired
		if errors.Is(err, services.ErrTooFast) {
			msg = msgTooFast
		}
		h.Log.InfoContext(c.Request.Context(), "contact submission refused", slog.Any("err", err))
		h.renderContact(c, http.StatusBadRequest, req, msg, nil)
		return
	}

	if _, err := h.Contact.Submit(c.Request.Context(), req); err != nil {
		var verrs services.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			h.renderContact(c, http.StatusBadRequest, req, msgInvalid, verrs)
		default:
			h.renderContact(c, http.StatusInternalServerError, req, msgDeliveryFailed, nil)
		}
		return
	}

	session.Delete(sessionShownAt)
	if err := session.Save(); err != nil {
		h.Log.WarnContext(c.Request.Context(), "failed to save session", slog.Any("err", err))
	}
	h.render(c, http.StatusOK, "contact_done.html", gin.H{"Title": "送信完了"})
}

func (h *Handler) renderContact(c *gin.Context, code int, req models.ContactRequest, msg string, verrs services.ValidationErrors) {
	fieldErrs := map[string]string{}
	for _, fe := range verrs {
		fieldErrs[fe.Field] = fe.Message
	}
	h.render(c, code, "contact.html", gin.H{
		"Title":        "お問い合わせ",
		"Form":         req,
		"Error":        msg,
		"FieldErrors":  fieldErrs,
		"InquiryTypes": h.Site.InquiryTypes,
	})
}
