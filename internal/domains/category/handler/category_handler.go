package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/internal/domains/category/service"
	"catalog-backend/internal/shared/response"
	"catalog-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// ============================================================
// PUBLIC
// ============================================================

// GetTree - GET /v1/categories/tree (chỉ ACTIVE)
func (h *CategoryHandler) GetTree(c *gin.Context) {
	tree, err := h.service.GetTree(c.Request.Context(), model.ScopeActive)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithTotal(c, http.StatusOK, tree, service.CountNodes(tree))
}

// GetByID - GET /v1/categories/:id
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetAncestors - GET /v1/categories/:id/ancestors (breadcrumb root-first)
func (h *CategoryHandler) GetAncestors(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetAncestors(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ============================================================
// ADMIN
// ============================================================

// Create - POST /v1/admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/v1/categories/%d", resp.ID))
	response.Success(c, http.StatusCreated, resp)
}

// Update - PUT /v1/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ChangeStatus - PATCH /v1/admin/categories/:id/status
//
//	{"status": "INACTIVE"} → tắt category + các con đang ACTIVE
//	{"status": "ACTIVE"}   → bật category + toàn bộ ancestors
func (h *CategoryHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.ChangeStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Delete - DELETE /v1/admin/categories/:id (logical, cả subtree)
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// AdminTree - GET /v1/admin/categories/tree?scope=active|inactive|live|all
func (h *CategoryHandler) AdminTree(c *gin.Context) {
	scope, err := model.ParseTreeScope(c.DefaultQuery("scope", string(model.ScopeLive)))
	if err != nil {
		h.handleError(c, err)
		return
	}

	tree, err := h.service.GetTree(c.Request.Context(), scope)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithTotal(c, http.StatusOK, tree, service.CountNodes(tree))
}

// Export - GET /v1/admin/categories/export?scope=...
func (h *CategoryHandler) Export(c *gin.Context) {
	scope, err := model.ParseTreeScope(c.DefaultQuery("scope", string(model.ScopeLive)))
	if err != nil {
		h.handleError(c, err)
		return
	}

	// Ghi vào buffer trước để lỗi giữa chừng vẫn trả được JSON error
	var buf bytes.Buffer
	if err := h.service.ExportTree(c.Request.Context(), scope, &buf); err != nil {
		h.handleError(c, err)
		return
	}

	filename := fmt.Sprintf("categories_%s_%s.xlsx", scope, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ============================================================
// HELPERS
// ============================================================

func parseID(c *gin.Context) (model.CategoryID, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.ErrorResponse(c, http.StatusBadRequest, model.CodeInvalidID, "invalid category id: "+raw)
		return 0, false
	}
	return model.CategoryID(id), true
}

func (h *CategoryHandler) handleError(c *gin.Context, err error) {
	var ce *model.CategoryError
	if errors.As(err, &ce) {
		response.ErrorResponse(c, model.HTTPStatus(err), ce.Code, ce.Message)
		return
	}

	if errors.Is(err, service.ErrExportUnavailable) {
		response.ErrorResponse(c, http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", err.Error())
		return
	}

	logger.Error("category handler: unexpected error", err)
	response.InternalServerError(c, "Internal server error")
}
