package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tarmuz-dev/tarmuz/internal/mailer"
	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/types"
)

const settingsNotFound = "Settings not found"

func brandingOf(s *models.Settings) types.Branding {
	return types.Branding{LogoURL: s.LogoURL, LogoURLScrolled: s.LogoURLScrolled}
}

func loginOptionsOf(s *models.Settings) types.LoginOptions {
	return types.LoginOptions{LoginShowEmail: s.LoginShowEmail, LoginEnableEmail: s.LoginEnableEmail}
}

func (h *Handler) settings(ctx *gin.Context) (*models.Settings, bool) {
	settings, err := h.store.Settings.Get(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err, settingsNotFound)
		return nil, false
	}

	return settings, true
}

// updateSettings reads the body, lets apply merge it into the settings row and
// returns the saved row.
func (h *Handler) updateSettings(ctx *gin.Context, apply func(p *payload, s *models.Settings) error) (*models.Settings, bool) {
	p, err := readPayload(ctx)

	if err != nil {
		h.respondError(ctx, err, settingsNotFound)
		return nil, false
	}

	// Dry run against a scratch copy so a bad field fails before anything is written.
	if err := apply(p, &models.Settings{}); err != nil {
		h.respondError(ctx, err, settingsNotFound)
		return nil, false
	}

	settings, err := h.store.Settings.Update(ctx.Request.Context(), func(s *models.Settings) {
		_ = apply(p, s)
	})

	if err != nil {
		h.respondError(ctx, err, settingsNotFound)
		return nil, false
	}

	h.hub.BroadcastRefresh("settings")
	return settings, true
}

func (h *Handler) GetSettings(ctx *gin.Context) {
	if settings, ok := h.settings(ctx); ok {
		ctx.JSON(http.StatusOK, settings)
	}
}

func (h *Handler) UpdateSettings(ctx *gin.Context) {
	settings, ok := h.updateSettings(ctx, func(p *payload, s *models.Settings) error {
		p.setStr(&s.ContactRecipient, "contactRecipient")
		p.setStr(&s.LogoURL, "logoUrl")
		p.setStr(&s.LogoURLScrolled, "logoUrlScrolled")

		for key, dst := range map[string]*bool{
			"loginShowEmail":   &s.LoginShowEmail,
			"loginEnableEmail": &s.LoginEnableEmail,
			"showTeamSection":  &s.ShowTeamSection,
		} {
			if err := p.setBool(dst, key); err != nil {
				return err
			}
		}
		return nil
	})

	if ok {
		ctx.JSON(http.StatusOK, settings)
	}
}

// GetPublicSettings returns what the public site needs on first paint.
func (h *Handler) GetPublicSettings(ctx *gin.Context) {
	settings, ok := h.settings(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, types.PublicSettings{
		LogoURL:          settings.LogoURL,
		LogoURLScrolled:  settings.LogoURLScrolled,
		LoginShowEmail:   settings.LoginShowEmail,
		LoginEnableEmail: settings.LoginEnableEmail,
		ShowTeamSection:  settings.ShowTeamSection,
	})
}

func (h *Handler) GetBranding(ctx *gin.Context) {
	if settings, ok := h.settings(ctx); ok {
		ctx.JSON(http.StatusOK, brandingOf(settings))
	}
}

func (h *Handler) UpdateBranding(ctx *gin.Context) {
	settings, ok := h.updateSettings(ctx, func(p *payload, s *models.Settings) error {
		p.setStr(&s.LogoURL, "logoUrl")
		p.setStr(&s.LogoURLScrolled, "logoUrlScrolled")
		return nil
	})

	if ok {
		ctx.JSON(http.StatusOK, brandingOf(settings))
	}
}

func (h *Handler) GetLoginOptions(ctx *gin.Context) {
	if settings, ok := h.settings(ctx); ok {
		ctx.JSON(http.StatusOK, loginOptionsOf(settings))
	}
}

func (h *Handler) UpdateLoginOptions(ctx *gin.Context) {
	settings, ok := h.updateSettings(ctx, func(p *payload, s *models.Settings) error {
		if err := p.setBool(&s.LoginShowEmail, "loginShowEmail"); err != nil {
			return err
		}
		return p.setBool(&s.LoginEnableEmail, "loginEnableEmail")
	})

	if ok {
		ctx.JSON(http.StatusOK, loginOptionsOf(settings))
	}
}

func (h *Handler) GetContactRecipient(ctx *gin.Context) {
	if settings, ok := h.settings(ctx); ok {
		ctx.JSON(http.StatusOK, gin.H{"contactRecipient": settings.ContactRecipient})
	}
}

func (h *Handler) UpdateContactRecipient(ctx *gin.Context) {
	settings, ok := h.updateSettings(ctx, func(p *payload, s *models.Settings) error {
		email, _ := p.str("contactRecipient")
		email = strings.ToLower(strings.TrimSpace(email))

		if email != "" && !models.IsEmail(email) {
			return &models.ValidationError{Problems: []string{"Invalid email"}}
		}

		s.ContactRecipient = email
		return nil
	})

	if ok {
		ctx.JSON(http.StatusOK, gin.H{"contactRecipient": settings.ContactRecipient})
	}
}

// TestEmail sends a test message to the contact recipient to check delivery.
func (h *Handler) TestEmail(ctx *gin.Context) {
	settings, ok := h.settings(ctx)
	if !ok {
		return
	}

	to := settings.ContactRecipient
	if to == "" {
		to = h.defaultRecipient
	}

	if to == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": "No contact recipient configured in settings"})
		return
	}

	if h.mailer == nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"ok": false, "to": to, "error": mailer.ErrNotConfigured.Error()})
		return
	}

	sentAt := time.Now().UTC().Format(time.RFC3339)

	err := h.mailer.Send(ctx.Request.Context(), mailer.Message{
		To:      to,
		Subject: "Test Contact Email (Server)",
		Text:    "This is a server-initiated test to verify contact email delivery.",
		HTML:    fmt.Sprintf("<p>Test email from server at %s</p>", sentAt),
	})

	if err != nil {
		h.logger.Warn("test email failed", "to", to, "error", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"ok": false, "to": to, "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "to": to})
}
