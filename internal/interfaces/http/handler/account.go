package handler

import (
	identityapp "github.com/erp/pos/internal/application/identity"
	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/erp/pos/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// AccountHandler serves the admins or the users page. Both share one
// service; the handler pins the role.
type AccountHandler struct {
	BaseHandler
	role           identity.Role
	accountService *identityapp.AccountService
}

// NewAccountHandler creates a handler for the accounts of role
func NewAccountHandler(accountService *identityapp.AccountService, role identity.Role) *AccountHandler {
	return &AccountHandler{role: role, accountService: accountService}
}

// List handles GET /admins and GET /users
func (h *AccountHandler) List(c *gin.Context) {
	var q appshared.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.accountService.List(c.Request.Context(), h.role, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, page)
}

// GetByID handles GET /admins/:id and GET /users/:id
func (h *AccountHandler) GetByID(c *gin.Context) {
	account, err := h.accountService.GetByID(c.Request.Context(), h.role, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Create handles POST /admins and POST /users
func (h *AccountHandler) Create(c *gin.Context) {
	var req identityapp.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accountService.Create(c.Request.Context(), h.role, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Update handles PUT /admins/:id and PUT /users/:id
func (h *AccountHandler) Update(c *gin.Context) {
	var req identityapp.UpdateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accountService.Update(c.Request.Context(), h.role, c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// ChangePassword handles PUT /<role>/:id/password
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req identityapp.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.accountService.ChangePassword(c.Request.Context(), h.role, c.Param("id"), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetStatus handles PUT /<role>/:id/status
func (h *AccountHandler) SetStatus(c *gin.Context) {
	var req identityapp.SetStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accountService.SetStatus(c.Request.Context(), h.role, c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Delete handles DELETE /admins/:id and DELETE /users/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.accountService.Delete(c.Request.Context(), h.role, c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Register mounts the account routes on rg
func (h *AccountHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.PUT("/:id/password", h.ChangePassword)
	rg.PUT("/:id/status", h.SetStatus)
	rg.DELETE("/:id", h.Delete)
}
