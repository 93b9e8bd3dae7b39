package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/homectl/pkg/api/types"
	"github.com/urmzd/homectl/pkg/home"
)

// AccessoriesHandler handles commissioning and accessory removal
type AccessoriesHandler struct {
	manager *home.Manager
	setup   *home.AccessorySetup
}

// NewAccessoriesHandler creates a new accessories handler
func NewAccessoriesHandler(manager *home.Manager, setup *home.AccessorySetup) *AccessoriesHandler {
	return &AccessoriesHandler{manager: manager, setup: setup}
}

// AddAccessory handles POST /homes/:homeID/accessories
// @Summary      Add an accessory
// @Description  Runs the platform's commissioning flow for the home and blocks until it completes
// @Tags         accessories
// @Accept       json
// @Produce      json
// @Param        homeID   path      string                     true   "Home ID"
// @Param        request  body      types.AddAccessoryRequest  false  "Setup code and accessory details"
// @Success      201      {object}  types.AddAccessoryResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid setup code"
// @Failure      404      {object}  types.ErrorResponse  "Home not found"
// @Failure      409      {object}  types.ErrorResponse  "Commissioning cancelled"
// @Failure      500      {object}  types.ErrorResponse  "Commissioning failed"
// @Router       /homes/{homeID}/accessories [post]
func (h *AccessoriesHandler) AddAccessory(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.AddAccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	target, err := h.manager.Home(ctx, c.Param("homeID"))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.setup.AddAccessory(ctx, *target, home.SetupRequest{
		SetupCode: req.SetupCode,
		Name:      req.Name,
		Category:  req.Category,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.AddAccessoryResponse{
		HomeID:      target.ID,
		Accessories: result.Accessories,
	})
}

// RemoveAccessory handles DELETE /homes/:homeID/accessories/:accessoryID
// @Summary      Remove an accessory
// @Tags         accessories
// @Param        homeID       path  string  true  "Home ID"
// @Param        accessoryID  path  string  true  "Accessory ID"
// @Success      204
// @Failure      404  {object}  types.ErrorResponse  "Home or accessory not found"
// @Failure      500  {object}  types.ErrorResponse  "Platform error"
// @Router       /homes/{homeID}/accessories/{accessoryID} [delete]
func (h *AccessoriesHandler) RemoveAccessory(c *gin.Context) {
	ctx := c.Request.Context()
	target, err := h.manager.Home(ctx, c.Param("homeID"))
	if err != nil {
		writeError(c, err)
		return
	}

	id := c.Param("accessoryID")
	accessory, ok := target.Accessory(id)
	if !ok {
		writeError(c, fmt.Errorf("%w: accessory %s", home.ErrNotFound, id))
		return
	}

	if err := h.manager.RemoveAccessory(ctx, *target, *accessory); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
