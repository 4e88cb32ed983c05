package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apihttp "github.com/haitaton/hanke-service/internal/api/http"
	"github.com/haitaton/hanke-service/internal/application"
	"github.com/haitaton/hanke-service/internal/auth"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/service"
	"github.com/haitaton/hanke-service/internal/permissions"
	"github.com/haitaton/hanke-service/internal/search"
)

type hankeService interface {
	Create(ctx context.Context, incoming *domain.Hanke, userID string) (*domain.Hanke, error)
	Update(ctx context.Context, incoming *domain.Hanke, userID string) (*domain.Hanke, error)
	Delete(ctx context.Context, h *domain.Hanke, userID string) error
	GetByCode(ctx context.Context, hankeTunnus string) (*domain.Hanke, error)
	GetWithApplications(ctx context.Context, hankeTunnus string) (*service.HankeWithApplications, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Hanke, error)
	ListPublic(ctx context.Context) ([]domain.Hanke, error)
	GenerateWithApplication(ctx context.Context, report application.CableReportWithoutHanke, userID string) (*service.HankeWithApplications, error)
}

type permissionChecker interface {
	HasPermission(ctx context.Context, hankeID int, userID string, p permissions.PermissionCode) (bool, error)
}

type searcher interface {
	Search(q search.Query) search.Response
}

type Handler struct {
	svc    hankeService
	perms  permissionChecker
	search searcher
	log    *slog.Logger
}

func NewHandler(svc hankeService, perms permissionChecker, search searcher, log *slog.Logger) *Handler {
	return &Handler{svc: svc, perms: perms, search: search, log: log}
}

func (h *Handler) create(c *gin.Context) {
	var req domain.Hanke
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BadRequest(c, "invalid body")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		apihttp.BadRequest(c, "nimi is required")
		return
	}
	// Client supplied identity and status are ignored.
	req.ID, req.HankeTunnus, req.Status = nil, "", domain.StatusDraft

	created, err := h.svc.Create(c.Request.Context(), &req, auth.UserID(c))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "hanke": created})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.ListByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "hankkeet": items})
}

func (h *Handler) get(c *gin.Context) {
	hanke, ok := h.loadPermitted(c, permissions.PermissionView)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "hanke": hanke})
}

func (h *Handler) getWithApplications(c *gin.Context) {
	if _, ok := h.loadPermitted(c, permissions.PermissionView); !ok {
		return
	}
	out, err := h.svc.GetWithApplications(c.Request.Context(), c.Param("tunnus"))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "hanke": out.Hanke, "applications": out.Applications})
}

func (h *Handler) update(c *gin.Context) {
	var req domain.Hanke
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BadRequest(c, "invalid body")
		return
	}
	if req.HankeTunnus != "" && req.HankeTunnus != c.Param("tunnus") {
		apihttp.BadRequest(c, "hankeTunnus does not match the path")
		return
	}
	if _, ok := h.loadPermitted(c, permissions.PermissionEdit); !ok {
		return
	}
	req.HankeTunnus = c.Param("tunnus")

	updated, err := h.svc.Update(c.Request.Context(), &req, auth.UserID(c))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "hanke": updated})
}

func (h *Handler) delete(c *gin.Context) {
	hanke, ok := h.loadPermitted(c, permissions.PermissionDelete)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), hanke, auth.UserID(c)); err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listPublic(c *gin.Context) {
	items, err := h.svc.ListPublic(c.Request.Context())
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	// Contacts of public hankkeet are not shown to everyone.
	for i := range items {
		items[i].Owners, items[i].Builders, items[i].Implementers, items[i].Others = nil, nil, nil, nil
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "hankkeet": items})
}

func (h *Handler) searchPublic(c *gin.Context) {
	var q struct {
		Text   string `form:"q"`
		Stage  string `form:"vaihe"`
		Limit  int    `form:"limit"`
		Offset int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		apihttp.BadRequest(c, "invalid query")
		return
	}
	resp := h.search.Search(search.Query{Text: q.Text, Stage: q.Stage, Limit: q.Limit, Offset: q.Offset})
	c.JSON(http.StatusOK, gin.H{"ok": true, "results": resp.Results, "total": resp.Total, "query": resp.Query})
}

func (h *Handler) generate(c *gin.Context) {
	var req application.CableReportWithoutHanke
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BadRequest(c, "invalid body")
		return
	}
	if strings.TrimSpace(req.ApplicationData.Name) == "" {
		apihttp.BadRequest(c, "applicationData.name is required")
		return
	}
	out, err := h.svc.GenerateWithApplication(c.Request.Context(), req, auth.UserID(c))
	if err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "hanke": out.Hanke, "applications": out.Applications})
}

// loadPermitted loads the hanke of the path and checks the user's permission
// on it. A hanke the user may not see is reported as not found.
func (h *Handler) loadPermitted(c *gin.Context, p permissions.PermissionCode) (*domain.Hanke, bool) {
	tunnus := c.Param("tunnus")
	hanke, err := h.svc.GetByCode(c.Request.Context(), tunnus)
	if err != nil {
		apihttp.WriteError(c, err)
		return nil, false
	}
	allowed, err := h.perms.HasPermission(c.Request.Context(), *hanke.ID, auth.UserID(c), p)
	if err != nil {
		apihttp.WriteError(c, err)
		return nil, false
	}
	if !allowed {
		h.log.Warn("permission denied", "hanke_tunnus", tunnus, "permission", p)
		apihttp.WriteError(c, &domain.HankeNotFoundError{HankeTunnus: tunnus})
		return nil, false
	}
	return hanke, true
}
