package router

import (
	"github.com/gin-gonic/gin"

	"github.com/eduplatform/backend/internal/domain/identity"
	"github.com/eduplatform/backend/internal/interfaces/http/handler"
	"github.com/eduplatform/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers wired into the API route tree.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Course     *handler.CourseHandler
	Enrollment *handler.EnrollmentHandler
	Invoice    *handler.InvoiceHandler
	System     *handler.SystemHandler
}

// Setup mounts the full API onto the engine: system probes at the root
// and the versioned domain groups under /api/v1.
func Setup(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)
	engine.GET("/ping", h.System.Ping)

	NewRouter(engine).Register(
		AuthGroup(h.Auth),
		UserGroup(h.User),
		CourseGroup(h.Course),
		EnrollmentGroup(h.Enrollment),
		InvoiceGroup(h.Invoice),
	).Setup()
}

// AuthGroup wires the authentication endpoints.
func AuthGroup(h *handler.AuthHandler) *Group {
	g := NewGroup("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
	g.POST("/change-password", h.ChangePassword)
	return g
}

// UserGroup wires the admin user management endpoints.
func UserGroup(h *handler.UserHandler) *Group {
	g := NewGroup("/users")
	g.Use(middleware.RequireRole(string(identity.RoleAdmin)))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/deactivate", h.Deactivate)
	g.POST("/:id/activate", h.Activate)
	return g
}

// CourseGroup wires the course catalog endpoints. Reads are open to any
// authenticated user; mutations are limited to staff.
func CourseGroup(h *handler.CourseHandler) *Group {
	g := NewGroup("/courses")
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	staff := middleware.RequireRole(string(identity.RoleTeacher), string(identity.RoleAdmin))
	g.POST("", staff, h.Create)
	g.PUT("/:id", staff, h.Update)
	g.POST("/:id/publish", staff, h.Publish)
	g.POST("/:id/archive", staff, h.Archive)
	return g
}

// EnrollmentGroup wires the enrollment endpoints.
func EnrollmentGroup(h *handler.EnrollmentHandler) *Group {
	g := NewGroup("/enrollments")
	g.POST("", h.Enroll)
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	staff := middleware.RequireRole(string(identity.RoleTeacher), string(identity.RoleAdmin))
	g.POST("/:id/complete", staff, h.Complete)
	g.POST("/:id/withdraw", h.Withdraw)
	return g
}

// InvoiceGroup wires the invoice ledger endpoints. Recording entries and
// destructive operations are limited to staff.
func InvoiceGroup(h *handler.InvoiceHandler) *Group {
	g := NewGroup("/invoices")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/number/:number", h.GetByNumber)

	staff := middleware.RequireRole(string(identity.RoleTeacher), string(identity.RoleAdmin))
	admin := middleware.RequireRole(string(identity.RoleAdmin))
	g.POST("", staff, h.Create)
	g.POST("/:id/entries", staff, h.AddEntry)
	g.POST("/:id/cancel", staff, h.Cancel)
	g.DELETE("/:id", admin, h.Delete)
	g.POST("/:id/restore", admin, h.Restore)
	return g
}
