// Package admin exposes the print shop's status board as a small JSON API.
package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/http/middleware"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/http/validation"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/modules/designs"
	"github.com/sarvsartsandcraftsllc-lgtm/shopify-customizer-app/internal/shared/apperr"
)

type DesignsHandler struct {
	DB       *gorm.DB
	AdminSvc *designs.AdminService
}

func NewDesignsHandler(db *gorm.DB, svc *designs.AdminService) *DesignsHandler {
	return &DesignsHandler{DB: db, AdminSvc: svc}
}

type designListItem struct {
	ID         string `json:"id"`
	OrderID    int64  `json:"order_id"`
	DesignID   string `json:"design_id"`
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	PreviewURL string `json:"preview_url"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// GET /admin/designs?q=&status=&page=
func (h *DesignsHandler) List(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	status := strings.TrimSpace(c.Query("status"))
	page := parseInt(c.Query("page"), 1)

	repo := designs.NewRepo(h.DB)
	res, err := repo.AdminList(c.Request.Context(), designs.AdminListParams{
		Q: q, Status: status, Page: page, PageSize: 30,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]designListItem, 0, len(res.Items))
	for _, d := range res.Items {
		items = append(items, designListItem{
			ID:         d.ID,
			OrderID:    d.OrderID,
			DesignID:   d.DesignID,
			Title:      d.Title,
			Quantity:   d.Quantity,
			PreviewURL: d.PreviewURL,
			Status:     d.Status,
			CreatedAt:  d.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": res.Total,
		"page":  page,
	})
}

type designEvent struct {
	Actor  string `json:"actor"`
	Action string `json:"action"`
	From   string `json:"from"`
	To     string `json:"to"`
	Note   string `json:"note,omitempty"`
	At     string `json:"at"`
}

// GET /admin/designs/:id
func (h *DesignsHandler) Detail(c *gin.Context) {
	id := c.Param("id")

	repo := designs.NewRepo(h.DB)
	d, ev, err := repo.AdminGetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Design order not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	events := make([]designEvent, 0, len(ev))
	for _, e := range ev {
		events = append(events, designEvent{
			Actor:  e.Actor,
			Action: e.Action,
			From:   e.FromStatus,
			To:     e.ToStatus,
			Note:   ptrStr(e.Note),
			At:     e.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          d.ID,
		"order_id":    d.OrderID,
		"design_id":   d.DesignID,
		"line_item":   d.LineItemID,
		"title":       d.Title,
		"quantity":    d.Quantity,
		"preview_url": d.PreviewURL,
		"print_url":   d.PrintURL,
		"notes":       d.Notes,
		"status":      d.Status,
		"created_at":  d.CreatedAt.Format(time.RFC3339),
		"events":      events,
	})
}

type actionRequest struct {
	Action string `json:"action" binding:"required,oneof=print fulfill"`
	Note   string `json:"note"`
}

// POST /admin/designs/:id/action
func (h *DesignsHandler) Action(c *gin.Context) {
	id := c.Param("id")

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", validation.FromBindError(err, &req)))
		return
	}

	err := h.AdminSvc.Transition(c.Request.Context(), designs.TransitionInput{
		DesignOrderID: id,
		Actor:         "admin",
		Action:        req.Action,
		Note:          req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			middleware.Fail(c, apperr.NotFoundErr("Design order not found."))
		case errors.Is(err, designs.ErrInvalidTransition), errors.Is(err, designs.ErrNotActionable):
			middleware.Fail(c, apperr.ConflictErr("Status change not allowed."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type notesRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// PUT /admin/designs/:id/notes
func (h *DesignsHandler) Notes(c *gin.Context) {
	id := c.Param("id")

	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request.", validation.FromBindError(err, &req)))
		return
	}

	repo := designs.NewRepo(h.DB)
	if err := repo.UpdateNotes(c.Request.Context(), id, req.Notes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Design order not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func ptrStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
