package api

import (
	"github.com/gin-contrib/cors"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"colorin/cmd/middleware"
	"colorin/internal/auth"
	"colorin/internal/repo"
	"colorin/internal/service"
)

type Routers struct {
	Service    service.Service
	Tokens     *auth.Tokens
	Repository repo.Repository
	Log        *zerolog.Logger
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware(r.Log))
	app.Use(cors.Default())

	apiGroup := app.Group("/v1")
	apiGroup.POST("/login", r.Service.Login)
	apiGroup.POST("/users", r.Service.CreateUser)

	admin := apiGroup.Group("")
	admin.Use(middleware.RequireAdmin(r.Tokens, r.Repository, r.Log))

	admin.GET("/users/me", r.Service.Me)
	admin.PUT("/users/me/password", r.Service.ChangePassword)

	admin.POST("/staff", r.Service.CreateStaff)
	admin.GET("/staff", r.Service.ListStaff)
	admin.GET("/staff/:id", r.Service.GetStaff)
	admin.PUT("/staff/:id", r.Service.UpdateStaff)
	admin.DELETE("/staff/:id", r.Service.DeleteStaff)

	admin.POST("/events", r.Service.CreateEvent)
	admin.GET("/events", r.Service.ListEvents)
	admin.GET("/events/:id", r.Service.GetEvent)
	admin.PUT("/events/:id", r.Service.UpdateEvent)
	admin.DELETE("/events/:id", r.Service.DeleteEvent)

	admin.POST("/assignments", r.Service.CreateAssignment)
	admin.GET("/assignments", r.Service.ListAssignments)
	admin.DELETE("/assignments/:id", r.Service.DeleteAssignment)
	admin.POST("/assignments/bulk", r.Service.BulkCreateAssignments)

	admin.GET("/events/:id/recommendations", r.Service.RecommendStaff)
	admin.POST("/events/:id/auto-assign", r.Service.AutoAssign)

	admin.GET("/reports/distribution", r.Service.Distribution)
	admin.GET("/reports/staff-stats", r.Service.StaffStats)
	admin.GET("/reports/staff/:id/events", r.Service.StaffEvents)

	admin.POST("/tasks", r.Service.CreateTask)
	admin.GET("/tasks", r.Service.ListTasks)
	admin.GET("/tasks/:id", r.Service.GetTask)
	admin.PUT("/tasks/:id", r.Service.UpdateTask)
	admin.DELETE("/tasks/:id", r.Service.DeleteTask)
	admin.PATCH("/tasks/:id/toggle", r.Service.ToggleTask)

	admin.POST("/events/:id/tasks", r.Service.CreateEventTask)
	admin.GET("/events/:id/tasks", r.Service.ListEventTasks)
	admin.PUT("/events/:id/tasks/:taskID", r.Service.UpdateEventTask)
	admin.DELETE("/events/:id/tasks/:taskID", r.Service.DeleteEventTask)
	admin.PATCH("/events/:id/tasks/:taskID/toggle", r.Service.ToggleEventTask)

	return app
}
