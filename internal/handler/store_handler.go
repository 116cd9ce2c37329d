package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type StoreHandler struct {
	uc *usecase.StoreUsecase
}

// DI
func NewStoreHandler(uc *usecase.StoreUsecase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

type CreateStoreRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required"`
	City string `json:"city"`
}

func (h *StoreHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/stores")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)

	// 登録はADMINのみ
	g.POST("", h.create, middleware.AdminRoleGuard())
}

func (h *StoreHandler) list(c echo.Context) error {
	out, err := h.uc.ListStores(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) create(c echo.Context) error {
	var req CreateStoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	}

	out, err := h.uc.CreateStore(c.Request().Context(), usecase.CreateStoreInput{
		Name: req.Name,
		Code: req.Code,
		City: req.City,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
