package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type EmailHandler struct {
	uc *usecase.EmailUsecase
}

// DI
func NewEmailHandler(uc *usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{uc: uc}
}

type SendEmailRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
}

type RecordReplyRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

func (h *EmailHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	og := e.Group("/orders/:id/emails")
	og.Use(middleware.AuthJWT(cfg))
	og.POST("", h.send)
	og.GET("", h.listByOrder)

	eg := e.Group("/emails")
	eg.Use(middleware.AuthJWT(cfg))
	eg.PUT("/:id/reply", h.recordReply)
	eg.POST("/:id/relance", h.relance)
}

func (h *EmailHandler) send(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SendEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	}

	rec, err := h.uc.Send(c.Request().Context(), usecase.SendEmailInput{
		OrderID:   orderID,
		Recipient: req.Recipient,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *EmailHandler) listByOrder(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	recs, err := h.uc.ListByOrder(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *EmailHandler) recordReply(c echo.Context) error {
	emailID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req RecordReplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	}

	rec, err := h.uc.RecordReply(c.Request().Context(), emailID, usecase.RecordReplyInput{
		Status: req.Status,
		Note:   req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *EmailHandler) relance(c echo.Context) error {
	emailID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	rec, err := h.uc.Relance(c.Request().Context(), emailID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}
