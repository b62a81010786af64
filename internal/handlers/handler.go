// Package handlers implements the HTTP endpoints of the site API.
package handlers

import (
	"log/slog"

	"github.com/tarmuz-dev/tarmuz/internal/auth"
	"github.com/tarmuz-dev/tarmuz/internal/mailer"
	"github.com/tarmuz-dev/tarmuz/internal/repository"
	"github.com/tarmuz-dev/tarmuz/internal/upload"
)

type Deps struct {
	Store    *repository.Store
	Intake   *upload.Intake
	Uploader *upload.Uploader
	Mailer   mailer.Sender
	Issuer   *auth.Issuer
	Hub      *Hub
	Logger   *slog.Logger

	// DefaultRecipient receives test emails when settings carry no contact recipient.
	DefaultRecipient string
}

type Handler struct {
	store    *repository.Store
	intake   *upload.Intake
	uploader *upload.Uploader
	mailer   mailer.Sender
	issuer   *auth.Issuer
	hub      *Hub
	logger   *slog.Logger

	defaultRecipient string
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hub := d.Hub
	if hub == nil {
		hub = NewHub(nil, logger)
	}

	return &Handler{
		store:            d.Store,
		intake:           d.Intake,
		uploader:         d.Uploader,
		mailer:           d.Mailer,
		issuer:           d.Issuer,
		hub:              hub,
		logger:           logger,
		defaultRecipient: d.DefaultRecipient,
	}
}
