package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tawargy/sqliteserver/internal/core/domain"
	"github.com/tawargy/sqliteserver/internal/core/ports"
)

type getResourceRequest struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

// ResourceHandler handles generic record retrieval.
type ResourceHandler struct {
	service ports.ResourceService
}

func NewResourceHandler(service ports.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

// Get godoc
// @Summary      Get a resource
// @Description  Returns the stored user record with the given id. The password digest is never returned.
// @Tags         resources
// @Produce      json
// @Param        id   path      int  true  "Resource id"
// @Success      200  {object}  ResourceResponseDoc
// @Failure      400  {object}  EnvelopeDoc
// @Failure      404  {object}  EnvelopeDoc
// @Failure      500  {object}  EnvelopeDoc
// @Router       /resource/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	var req getResourceRequest
	if err := c.Bind(&req); err != nil {
		return invalidID(c, "id must be a positive integer")
	}
	if err := c.Validate(&req); err != nil {
		return invalidID(c, err.Error())
	}

	return writeResponse(c, h.service.Get(c.Request().Context(), req.ID))
}

func invalidID(c echo.Context, detail string) error {
	return writeResponse(c, domain.Response{
		HTTPStatus:    http.StatusBadRequest,
		Status:        domain.StatusRejected,
		StatusMessage: "Invalid resource id",
		Body:          detail,
	})
}
