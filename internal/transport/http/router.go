package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/nstepanov/bookvault/internal/handlers"
	"github.com/nstepanov/bookvault/internal/middleware"
	"github.com/nstepanov/bookvault/internal/models"
)

type Deps struct {
	Gate            *middleware.AuthGate
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	BookHandler     *handlers.BookHandler
	FavoriteHandler *handlers.FavoriteHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/register", d.AuthHandler.Register)
	users.POST("/login", d.AuthHandler.Login)
	users.POST("/refresh", d.AuthHandler.Refresh)
	users.POST("/logout", d.AuthHandler.Logout, d.Gate.RequireAuth)
	users.POST("/logout-all", d.AuthHandler.LogoutAll, d.Gate.RequireAuth)
	users.GET("/email/:email", d.UserHandler.GetByEmail, d.Gate.RequireAuth)
	users.GET("/:id", d.UserHandler.GetByID, d.Gate.RequireAuth)
	users.GET("", d.UserHandler.List, d.Gate.RequireAuth, d.Gate.RequireRole(models.RoleAdmin))
	users.PUT("/:id/role", d.UserHandler.UpdateRole, d.Gate.RequireAuth, d.Gate.RequireRole(models.RoleAdmin))

	books := v1.Group("/books")
	books.POST("/upload", d.BookHandler.Upload, d.Gate.RequireAuth, d.Gate.RequireRole(models.RoleAdmin))
	books.GET("", d.BookHandler.List, d.Gate.OptionalAuth)
	books.GET("/:id", d.BookHandler.GetByID, d.Gate.OptionalAuth)
	books.DELETE("/:id", d.BookHandler.Delete, d.Gate.RequireAuth, d.Gate.RequireRole(models.RoleAdmin))

	favorites := v1.Group("/favorites", d.Gate.RequireAuth)
	favorites.POST("", d.FavoriteHandler.Add)
	favorites.DELETE("/:id", d.FavoriteHandler.Remove)
	favorites.GET("", d.FavoriteHandler.List)
	favorites.GET("/:bookId", d.FavoriteHandler.Check)

	v1.GET("/search", d.SearchHandler.Search, d.Gate.OptionalAuth)
}
