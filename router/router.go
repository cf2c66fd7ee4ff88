package router

import (
	"net/http"

	"go-banner-api/handler"
	"go-banner-api/model"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter wires every route to its handler and middleware chain. Protected
// routes run Authenticate first; admin routes add a role gate on top.
func NewRouter(userHandler *handler.UserHandler, bannerHandler *handler.BannerHandler, authMW *handler.AuthMiddleware, uploadDir string) http.Handler {
	mux := http.NewServeMux()

	protect := func(h http.Handler) http.Handler {
		return authMW.Authenticate(h)
	}
	adminOnly := func(h http.Handler) http.Handler {
		return authMW.Authenticate(authMW.RequireRole(model.RoleAdmin)(h))
	}

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Auth routes
	mux.Handle("POST /api/auth/register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /api/auth/login", handler.ErrorHandlingMiddleware(userHandler.Login))
	mux.Handle("POST /api/auth/logout", protect(handler.ErrorHandlingMiddleware(userHandler.Logout)))
	mux.Handle("GET /api/auth/profile", protect(handler.ErrorHandlingMiddleware(userHandler.Profile)))

	// User administration
	mux.Handle("GET /api/auth/users", adminOnly(handler.ErrorHandlingMiddleware(userHandler.ListUsers)))
	mux.Handle("PUT /api/auth/users/{id}", protect(handler.ErrorHandlingMiddleware(userHandler.UpdateUser)))
	mux.Handle("PUT /api/auth/users/{id}/role", adminOnly(handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole)))
	mux.Handle("DELETE /api/auth/users/{id}", adminOnly(handler.ErrorHandlingMiddleware(userHandler.DeleteUser)))

	// Banner routes: reads are public, writes are admin only.
	mux.Handle("GET /api/banners", handler.ErrorHandlingMiddleware(bannerHandler.ListBanners))
	mux.Handle("GET /api/banners/{id}", handler.ErrorHandlingMiddleware(bannerHandler.GetBanner))
	mux.Handle("POST /api/banners", adminOnly(handler.ErrorHandlingMiddleware(bannerHandler.CreateBanner)))
	mux.Handle("PUT /api/banners/{id}", adminOnly(handler.ErrorHandlingMiddleware(bannerHandler.UpdateBanner)))
	mux.Handle("DELETE /api/banners/{id}", adminOnly(handler.ErrorHandlingMiddleware(bannerHandler.DeleteBanner)))

	// Stored banner images are served statically, like any other asset.
	mux.Handle("GET /uploads/banners/", http.StripPrefix("/uploads/banners/", http.FileServer(http.Dir(uploadDir))))

	return mux
}
