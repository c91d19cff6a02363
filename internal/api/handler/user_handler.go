package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tawargy/sqliteserver/internal/core/domain"
	"github.com/tawargy/sqliteserver/internal/core/ports"
)

// UserHandler handles user registration.
type UserHandler struct {
	service ports.RegistrationService
}

func NewUserHandler(service ports.RegistrationService) *UserHandler {
	return &UserHandler{service: service}
}

// Create godoc
// @Summary      Register a user
// @Description  Validates the registration document and stores the user with a SHA-256 password digest.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterUserDoc  true  "Registration document"
// @Success      200   {object}  CreatedUserResponseDoc
// @Failure      400   {object}  EnvelopeDoc
// @Failure      500   {object}  EnvelopeDoc
// @Failure      503   {object}  EnvelopeDoc
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	// The body is handed to the pipeline untouched; it decides what is valid.
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read request body").SetInternal(err)
	}

	resp := h.service.Register(c.Request().Context(), body)
	return writeResponse(c, resp)
}

// writeResponse renders the envelope with its HTTP status mirrored on the
// status line.
func writeResponse(c echo.Context, resp domain.Response) error {
	return c.JSON(resp.HTTPStatus, resp)
}
