package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type PhotoHandler struct {
	uc *usecase.PhotoUsecase
}

// DI
func NewPhotoHandler(uc *usecase.PhotoUsecase) *PhotoHandler {
	return &PhotoHandler{uc: uc}
}

func (h *PhotoHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	og := e.Group("/orders/:id/photos")
	og.Use(middleware.AuthJWT(cfg))
	og.POST("", h.upload)
	og.GET("", h.listByOrder)

	pg := e.Group("/photos")
	pg.Use(middleware.AuthJWT(cfg))
	pg.DELETE("/:id", h.delete)
}

func (h *PhotoHandler) upload(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not open file"})
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	photo, err := h.uc.Upload(c.Request().Context(), orderID, fileHeader.Filename, contentType, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, photo)
}

func (h *PhotoHandler) listByOrder(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	photos, err := h.uc.ListByOrder(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, photos)
}

func (h *PhotoHandler) delete(c echo.Context) error {
	photoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), photoID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}
