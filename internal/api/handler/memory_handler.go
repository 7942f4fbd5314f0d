package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cafeice/shop-api/internal/core/ports"
)

type MemoryHandler struct {
	service ports.MemoryService
}

func NewMemoryHandler(service ports.MemoryService) *MemoryHandler {
	return &MemoryHandler{service: service}
}

// Submit handles POST /api/memories.
//
// @Summary      Leave a guest-book memory
// @Tags         memories
// @Accept       json
// @Produce      json
// @Param        body  body      createMemoryRequest  true  "Memory"
// @Success      201   {object}  domain.Memory
// @Failure      400   {object}  errorResponse
// @Router       /api/memories [post]
func (h *MemoryHandler) Submit(c echo.Context) error {
	var req createMemoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m, err := h.service.Submit(c.Request().Context(), ports.MemoryInput{
		Name: req.Name,
		Text: req.Text,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// List handles GET /api/memories. Only approved memories are returned.
//
// @Summary      List approved memories
// @Tags         memories
// @Produce      json
// @Success      200  {array}  domain.Memory
// @Router       /api/memories [get]
func (h *MemoryHandler) List(c echo.Context) error {
	items, err := h.service.ListApproved(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListAll handles GET /api/memories/admin.
//
// @Summary      List all memories, pending ones included
// @Tags         memories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Memory
// @Failure      403  {object}  errorResponse
// @Router       /api/memories/admin [get]
func (h *MemoryHandler) ListAll(c echo.Context) error {
	items, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ToggleApproval handles PATCH /api/memories/:id.
//
// @Summary      Approve or hide a memory
// @Tags         memories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Memory ID"
// @Success      200  {object}  domain.Memory
// @Failure      404  {object}  errorResponse
// @Router       /api/memories/{id} [patch]
func (h *MemoryHandler) ToggleApproval(c echo.Context) error {
	m, err := h.service.ToggleApproval(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /api/memories/:id.
//
// @Summary      Delete a memory
// @Tags         memories
// @Security     BearerAuth
// @Param        id   path  string  true  "Memory ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/memories/{id} [delete]
func (h *MemoryHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
