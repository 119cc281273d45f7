package handler

import (
	"context"
	"net/http"

	"crm_backend/internal/leads/conversion"
	"crm_backend/internal/leads/dedup"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// JobEnqueuer hands long-running lead operations to the background worker.
type JobEnqueuer interface {
	EnqueueBulkConvert(ctx context.Context, leadIDs []string, target string) (string, error)
	EnqueueDeduplicate(ctx context.Context, criteria []string) (string, error)
}

type Handler struct {
	mgmt  *management.Service
	conv  *conversion.Service
	dedup *dedup.Service
	jobs  JobEnqueuer
	val   *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgJobsNotAvailable = "background jobs are not configured"
)

func New(mgmt *management.Service, conv *conversion.Service, dedupSvc *dedup.Service, jobs JobEnqueuer, val *validator.Validator) *Handler {
	return &Handler{mgmt: mgmt, conv: conv, dedup: dedupSvc, jobs: jobs, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.POST("/bulk-convert-to-contact", h.BulkConvertToContact)
	rg.POST("/bulk-convert-to-account", h.BulkConvertToAccount)
	rg.POST("/deduplicate", h.Deduplicate)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/convert-to-contact", h.ConvertToContact)
	rg.POST("/:id/convert-to-account", h.ConvertToAccount)
	rg.POST("/:id/sync-contact", h.SyncContact)
	rg.POST("/:id/sync-account", h.SyncAccount)
}

// RegisterAccountRoutes mounts the account maintenance routes.
func (h *Handler) RegisterAccountRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/reconcile-contacts", h.ReconcileAccountContacts)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	lead, err := h.mgmt.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) GetByID(c *gin.Context) {
	lead, err := h.mgmt.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) ConvertToContact(c *gin.Context) {
	res, err := h.conv.ConvertToContact(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ContactConversionResponse{
		Lead:     res.Lead,
		Contact:  res.Contact,
		Warnings: res.Warnings,
	})
}

func (h *Handler) ConvertToAccount(c *gin.Context) {
	res, err := h.conv.ConvertToAccount(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.AccountConversionResponse{
		Lead:           res.Lead,
		Account:        res.Account,
		LinkedContacts: res.LinkedContacts,
		Warnings:       res.Warnings,
	})
}

func (h *Handler) SyncContact(c *gin.Context) {
	res, err := h.conv.SyncToContact(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ContactSyncResponse{
		Lead:     res.Lead,
		Contact:  res.Contact,
		Created:  res.Created,
		Warnings: res.Warnings,
	})
}

func (h *Handler) SyncAccount(c *gin.Context) {
	res, err := h.conv.SyncToAccount(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AccountSyncResponse{
		Lead:     res.Lead,
		Account:  res.Account,
		Created:  res.Created,
		Warnings: res.Warnings,
	})
}

func (h *Handler) BulkConvertToContact(c *gin.Context) {
	h.bulkConvert(c, domain.TargetContact)
}

func (h *Handler) BulkConvertToAccount(c *gin.Context) {
	h.bulkConvert(c, domain.TargetAccount)
}

func (h *Handler) bulkConvert(c *gin.Context, target domain.Target) {
	var req transport.BulkConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	if req.Async {
		if h.jobs == nil {
			httpkit.HandleError(c, apperr.Unavailable(msgJobsNotAvailable))
			return
		}
		taskID, err := h.jobs.EnqueueBulkConvert(c.Request.Context(), req.LeadIDs, string(target))
		if err != nil {
			httpkit.HandleError(c, apperr.Internal("failed to enqueue bulk conversion", err))
			return
		}
		httpkit.JSON(c, http.StatusAccepted, transport.TaskAcceptedResponse{TaskID: taskID})
		return
	}

	res, err := h.conv.BulkConvert(c.Request.Context(), req.LeadIDs, target)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, ToBulkConvertResponse(res))
}

func (h *Handler) Deduplicate(c *gin.Context) {
	var req transport.DeduplicateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	if req.Async {
		if h.jobs == nil {
			httpkit.HandleError(c, apperr.Unavailable(msgJobsNotAvailable))
			return
		}
		taskID, err := h.jobs.EnqueueDeduplicate(c.Request.Context(), req.Criteria)
		if err != nil {
			httpkit.HandleError(c, apperr.Internal("failed to enqueue deduplication", err))
			return
		}
		httpkit.JSON(c, http.StatusAccepted, transport.TaskAcceptedResponse{TaskID: taskID})
		return
	}

	res, err := h.dedup.Deduplicate(c.Request.Context(), req.Criteria)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.DeduplicateResponse{
		DuplicatesFound:  res.DuplicatesFound,
		UniqueLeadsCount: res.UniqueLeadsCount,
	})
}

func (h *Handler) ReconcileAccountContacts(c *gin.Context) {
	account, err := h.conv.ReconcileAccountContacts(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, account)
}

// ToBulkConvertResponse maps a bulk result onto its wire form.
func ToBulkConvertResponse(res conversion.BulkResult) transport.BulkConvertResponse {
	failures := make([]transport.BulkFailure, 0, len(res.Failures))
	for _, f := range res.Failures {
		failures = append(failures, transport.BulkFailure{LeadID: f.LeadID, Error: f.Error})
	}
	return transport.BulkConvertResponse{
		ConvertedCount:  res.ConvertedCount,
		AccountsUpdated: res.AccountsUpdated,
		SkippedCount:    res.SkippedCount,
		Failures:        failures,
		Warnings:        res.Warnings,
	}
}
