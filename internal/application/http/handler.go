package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apihttp "github.com/haitaton/hanke-service/internal/api/http"
	"github.com/haitaton/hanke-service/internal/application"
	"github.com/haitaton/hanke-service/internal/attachment"
	"github.com/haitaton/hanke-service/internal/auth"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/permissions"
)

// maxUploadBytes bounds a single liite upload.
const maxUploadBytes = 100 << 20

type applicationService interface {
	HankeID(ctx context.Context, hankeTunnus string) (int, error)
	Get(ctx context.Context, id int64) (*application.Application, error)
	ListByUser(ctx context.Context, userID string) ([]application.Application, error)
	Create(ctx context.Context, app application.Application, userID string) (*application.Application, error)
	UpdateData(ctx context.Context, id int64, data application.CableReportApplicationData) (*application.Application, error)
	Send(ctx context.Context, id int64) (*application.Application, error)
	Delete(ctx context.Context, id int64, userID string) error
}

type attachmentService interface {
	List(ctx context.Context, applicationID int64) ([]attachment.Metadata, error)
	GetContent(ctx context.Context, applicationID int64, id uuid.UUID) (*attachment.Content, error)
	Add(ctx context.Context, applicationID int64, typ attachment.Type, u attachment.Upload, userID string) (*attachment.Metadata, error)
	Delete(ctx context.Context, applicationID int64, id uuid.UUID) error
}

type permissionChecker interface {
	HasPermission(ctx context.Context, hankeID int, userID string, p permissions.PermissionCode) (bool, error)
}

type Handler struct {
	apps        applicationService
	attachments attachmentService
	perms       permissionChecker
	log         *slog.Logger
}

func NewHandler(apps applicationService, attachments attachmentService, perms permissionChecker, log *slog.Logger) *Handler {
	return &Handler{apps: apps, attachments: attachments, perms: perms, log: log}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.apps.ListByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "applications": items})
}

func (h *Handler) get(c *gin.Context) {
	app, ok := h.loadPermitted(c, permissions.PermissionView)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "application": app})
}

func (h *Handler) create(c *gin.Context) {
	var req application.Application
	if err := c.ShouldBindJSON(&req); err != nil || req.HankeTunnus == "" {
		apihttp.BadRequest(c, "invalid body")
		return
	}
	if !h.permitted(c, req.HankeTunnus, permissions.PermissionEditApplications) {
		return
	}
	created, err := h.apps.Create(c.Request.Context(), req, auth.UserID(c))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "application": created})
}

func (h *Handler) update(c *gin.Context) {
	var req application.Application
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BadRequest(c, "invalid body")
		return
	}
	app, ok := h.loadPermitted(c, permissions.PermissionEditApplications)
	if !ok {
		return
	}
	updated, err := h.apps.UpdateData(c.Request.Context(), *app.ID, req.ApplicationData)
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "application": updated})
}

func (h *Handler) send(c *gin.Context) {
	app, ok := h.loadPermitted(c, permissions.PermissionEditApplications)
	if !ok {
		return
	}
	sent, err := h.apps.Send(c.Request.Context(), *app.ID)
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "application": sent})
}

func (h *Handler) delete(c *gin.Context) {
	app, ok := h.loadPermitted(c, permissions.PermissionEditApplications)
	if !ok {
		return
	}
	if err := h.apps.Delete(c.Request.Context(), *app.ID, auth.UserID(c)); err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listAttachments(c *gin.Context) {
	app, ok := h.loadPermitted(c, permissions.PermissionView)
	if !ok {
		return
	}
	items, err := h.attachments.List(c.Request.Context(), *app.ID)
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "attachments": items})
}

func (h *Handler) attachmentContent(c *gin.Context) {
	app, ok := h.loadPermitted(c, permissions.PermissionView)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("attachment_id"))
	if err != nil {
		apihttp.BadRequest(c, "invalid attachment id")
		return
	}
	content, err := h.attachments.GetContent(c.Request.Context(), *app.ID, id)
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(content.FileName))
	c.Data(http.StatusOK, content.ContentType, content.Bytes)
}

func (h *Handler) addAttachment(c *gin.Context) {
	app, ok := h.loadPermitted(c, permissions.PermissionEditApplications)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	file, err := c.FormFile("liite")
	if err != nil {
		apihttp.BadRequest(c, "liite is required")
		return
	}
	f, err := file.Open()
	if err != nil {
		apihttp.BadRequest(c, "liite could not be read")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		apihttp.BadRequest(c, "liite could not be read")
		return
	}

	upload := attachment.Upload{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Bytes:       content,
	}
	typ := attachment.Type(c.DefaultQuery("tyyppi", string(attachment.TypeOther)))
	m, err := h.attachments.Add(c.Request.Context(), *app.ID, typ, upload, auth.UserID(c))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "attachment": m})
}

func (h *Handler) deleteAttachment(c *gin.Context) {
	app, ok := h.loadPermitted(c, permissions.PermissionEditApplications)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("attachment_id"))
	if err != nil {
		apihttp.BadRequest(c, "invalid attachment id")
		return
	}
	if err := h.attachments.Delete(c.Request.Context(), *app.ID, id); err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) loadPermitted(c *gin.Context, p permissions.PermissionCode) (*application.Application, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apihttp.BadRequest(c, "invalid application id")
		return nil, false
	}
	app, err := h.apps.Get(c.Request.Context(), id)
	if err != nil {
		apihttp.WriteError(c, err)
		return nil, false
	}
	if !h.permitted(c, app.HankeTunnus, p) {
		return nil, false
	}
	return app, true
}

// permitted writes a not found response when the user lacks p on the hanke.
func (h *Handler) permitted(c *gin.Context, hankeTunnus string, p permissions.PermissionCode) bool {
	hankeID, err := h.apps.HankeID(c.Request.Context(), hankeTunnus)
	if err != nil {
		apihttp.WriteError(c, err)
		return false
	}
	allowed, err := h.perms.HasPermission(c.Request.Context(), hankeID, auth.UserID(c), p)
	if err != nil {
		apihttp.WriteError(c, err)
		return false
	}
	if !allowed {
		h.log.Warn("permission denied", "hanke_tunnus", hankeTunnus, "permission", p)
		apihttp.WriteError(c, &domain.HankeNotFoundError{HankeTunnus: hankeTunnus})
		return false
	}
	return true
}
