package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/homectl/pkg/api/types"
	"github.com/urmzd/homectl/pkg/home"
)

// HomesHandler handles home registry endpoints
type HomesHandler struct {
	manager *home.Manager
}

// NewHomesHandler creates a new homes handler
func NewHomesHandler(manager *home.Manager) *HomesHandler {
	return &HomesHandler{manager: manager}
}

// ListHomes handles GET /homes
// @Summary      List homes
// @Description  Returns every home with its accessories. An unauthorized platform yields an empty list.
// @Tags         homes
// @Produce      json
// @Success      200  {object}  types.ListHomesResponse
// @Router       /homes [get]
func (h *HomesHandler) ListHomes(c *gin.Context) {
	homes := h.manager.Homes(c.Request.Context())
	c.JSON(http.StatusOK, types.ListHomesResponse{
		Homes: homes,
		Count: len(homes),
	})
}

// CreateHome handles POST /homes
// @Summary      Create a home
// @Tags         homes
// @Accept       json
// @Produce      json
// @Param        request  body      types.CreateHomeRequest  true  "Home name"
// @Success      201      {object}  types.HomeResponse
// @Failure      400      {object}  types.ErrorResponse  "Missing or empty name"
// @Failure      403      {object}  types.ErrorResponse  "Platform not authorized"
// @Failure      409      {object}  types.ErrorResponse  "Duplicate name"
// @Failure      500      {object}  types.ErrorResponse  "Platform error"
// @Router       /homes [post]
func (h *HomesHandler) CreateHome(c *gin.Context) {
	var req types.CreateHomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.manager.CreateHome(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.HomeResponse{Home: *created})
}

// GetHome handles GET /homes/:homeID
// @Summary      Get a home
// @Tags         homes
// @Produce      json
// @Param        homeID  path      string  true  "Home ID"
// @Success      200     {object}  types.HomeResponse
// @Failure      404     {object}  types.ErrorResponse  "Home not found"
// @Router       /homes/{homeID} [get]
func (h *HomesHandler) GetHome(c *gin.Context) {
	found, err := h.manager.Home(c.Request.Context(), c.Param("homeID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.HomeResponse{Home: *found})
}

// DeleteHome handles DELETE /homes/:homeID
// @Summary      Delete a home
// @Description  Removes every accessory of the home, then the home. Accessory failures do not stop the removal.
// @Tags         homes
// @Param        homeID  path  string  true  "Home ID"
// @Success      204
// @Failure      404  {object}  types.ErrorResponse  "Home not found"
// @Failure      500  {object}  types.ErrorResponse  "Platform error"
// @Router       /homes/{homeID} [delete]
func (h *HomesHandler) DeleteHome(c *gin.Context) {
	ctx := c.Request.Context()
	found, err := h.manager.Home(ctx, c.Param("homeID"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.manager.DeleteHome(ctx, *found); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
