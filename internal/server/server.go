package server

import (
	"app/internal/config"
	"app/internal/handler"
	appvalidator "app/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlersはルーティングに載せる一式
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Store     *handler.StoreHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	Catalogue *handler.CatalogueHandler
	Email     *handler.EmailHandler
	Photo     *handler.PhotoHandler
}

func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = appvalidator.New()

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	RegisterRoutes(e, cfg, h)
	return e
}

func Start(cfg config.Config, h Handlers) error {
	e := New(cfg, h)
	return e.Start(":" + cfg.Port)
}
