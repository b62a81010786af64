package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/upload"
	"github.com/tarmuz-dev/tarmuz/internal/utils"
)

const teamMemberNotFound = "Team member not found"

var teamImage = upload.Policy{
	Field:     "image",
	MaxFiles:  1,
	Accept:    upload.AcceptImageExtensions,
	OnInvalid: upload.RejectInvalid,
	SubFolder: "team",
	Prefix:    "team",
}

// ListTeam returns the active members shown on the public site.
func (h *Handler) ListTeam(ctx *gin.Context) {
	members, err := h.store.Team.ListActive(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func (h *Handler) ListTeamAdmin(ctx *gin.Context) {
	members, err := h.store.Team.ListAll(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func (h *Handler) GetTeamMember(ctx *gin.Context) {
	member, ok := h.teamMember(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, member)
}

func (h *Handler) CreateTeamMember(ctx *gin.Context) {
	p, err := readPayload(ctx)

	if err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	image, err := h.uploadOne(ctx, p, teamImage)

	if err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	if image == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": "Team member image is required"})
		return
	}

	member := models.NewTeamMember()

	if err := applyTeamMember(p, &member); err != nil {
		h.uploader.DestroyURLs(ctx.Request.Context(), []string{image})
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}
	member.Image = image

	if err := h.store.Team.Create(ctx.Request.Context(), &member); err != nil {
		h.uploader.DestroyURLs(ctx.Request.Context(), []string{image})
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	h.hub.BroadcastRefresh("team")
	ctx.JSON(http.StatusCreated, member)
}

// UpdateTeamMember merges the sent fields. A new image replaces the old one,
// which is then deleted from the asset store.
func (h *Handler) UpdateTeamMember(ctx *gin.Context) {
	member, ok := h.teamMember(ctx)
	if !ok {
		return
	}

	p, err := readPayload(ctx)

	if err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	if err := applyTeamMember(p, member); err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	image, err := h.uploadOne(ctx, p, teamImage)

	if err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	previous := member.Image
	if image != "" {
		member.Image = image
	}

	if err := h.store.Team.Save(ctx.Request.Context(), member); err != nil {
		if image != "" {
			h.uploader.DestroyURLs(ctx.Request.Context(), []string{image})
		}
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	if image != "" && previous != image {
		h.uploader.DestroyURLs(ctx.Request.Context(), []string{previous})
	}

	h.hub.BroadcastRefresh("team")
	ctx.JSON(http.StatusOK, member)
}

func (h *Handler) DeleteTeamMember(ctx *gin.Context) {
	id, err := utils.GetID(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"msg": teamMemberNotFound})
		return
	}

	if err := h.store.Team.Delete(ctx.Request.Context(), id); err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	h.hub.BroadcastRefresh("team")
	ctx.JSON(http.StatusOK, gin.H{"msg": "Team member deleted successfully"})
}

func (h *Handler) ToggleTeamMember(ctx *gin.Context) {
	member, ok := h.teamMember(ctx)
	if !ok {
		return
	}

	member.IsActive = !member.IsActive

	if err := h.store.Team.Save(ctx.Request.Context(), member); err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return
	}

	h.hub.BroadcastRefresh("team")
	ctx.JSON(http.StatusOK, member)
}

func (h *Handler) teamMember(ctx *gin.Context) (*models.TeamMember, bool) {
	id, err := utils.GetID(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"msg": teamMemberNotFound})
		return nil, false
	}

	member, err := h.store.Team.Get(ctx.Request.Context(), id)

	if err != nil {
		h.respondError(ctx, err, teamMemberNotFound)
		return nil, false
	}

	return member, true
}

func applyTeamMember(p *payload, m *models.TeamMember) error {
	p.setStr(&m.Name, "name")
	p.setStr(&m.NameAr, "name_ar")
	p.setStr(&m.Position, "position")
	p.setStr(&m.PositionAr, "position_ar")
	p.setStr(&m.Bio, "bio")
	p.setStr(&m.BioAr, "bio_ar")
	p.setStr(&m.Email, "email")
	p.setStr(&m.Phone, "phone")
	p.setStr(&m.LinkedIn, "linkedin")
	p.setStr(&m.Twitter, "twitter")
	p.setStr(&m.Instagram, "instagram")

	if err := p.setInt(&m.Order, "order"); err != nil {
		return err
	}

	return p.setBool(&m.IsActive, "isActive")
}

// uploadOne stages and uploads the single file of policy.Field. It returns
// "" when no file was sent.
func (h *Handler) uploadOne(ctx *gin.Context, p *payload, policy upload.Policy) (string, error) {
	staged, err := h.files(p, policy)

	if err != nil || len(staged) == 0 {
		return "", err
	}

	res, err := h.uploader.Upload(ctx.Request.Context(), staged[0])

	if err != nil {
		return "", err
	}

	return res.Asset.SecureURL, nil
}
