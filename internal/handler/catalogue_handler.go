package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CatalogueHandler struct {
	uc *usecase.CatalogueUsecase
}

// DI
func NewCatalogueHandler(uc *usecase.CatalogueUsecase) *CatalogueHandler {
	return &CatalogueHandler{uc: uc}
}

func (h *CatalogueHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/catalogue")
	g.Use(middleware.AuthJWT(cfg))

	// インポートはADMINのみ
	g.POST("/import", h.importFile, middleware.AdminRoleGuard())
}

// .xlsxを受け取りカタログを更新する
func (h *CatalogueHandler) importFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
	}

	category := c.FormValue("category")
	if category == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "category is required"})
	}

	archiveMissing := c.FormValue("archive_missing") == "true"

	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not open file"})
	}
	defer f.Close()

	summary, err := h.uc.Import(c.Request().Context(), f, usecase.ImportInput{
		Category:       category,
		ArchiveMissing: archiveMissing,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
