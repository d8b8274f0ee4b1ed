package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/studentdesk/SDPortal/config"
	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/handlers"
	"github.com/studentdesk/SDPortal/middlewares"
	"github.com/studentdesk/SDPortal/workflow"
)

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(e *echo.Echo, cfg *config.Config) {
	// ===== Workflow engine (shared) =====
	engine := workflow.NewEngine(
		workflow.NewGormStore(database.DB),
		workflow.NewGormDirectory(database.DB),
	)

	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	std := handlers.NewStudentHandler()
	tch := handlers.NewTeacherHandler()
	br := handlers.NewBranchHandler()
	acc := handlers.NewAccountHandler()
	adv := handlers.NewAdvisorHandler()
	dl := handlers.NewDutyLeaveHandler(engine)
	cert := handlers.NewCertificateHandler()
	trn := handlers.NewTrainingHandler()
	prj := handlers.NewProjectHandler()
	res := handlers.NewResearchHandler()
	plc := handlers.NewPlacementHandler()
	asst := handlers.NewAssistantHandler()
	dash := handlers.NewDashboardHandler()

	// ===== Public =====
	e.GET("/healthz", handlers.Health)
	e.POST("/auth/login", auth.Login)

	// ===== Authenticated (ทุก role) =====
	authed := e.Group("", middlewares.RequireAuth(cfg.JWTSecret))
	authed.PUT("/profile/password", auth.ChangePassword)
	authed.GET("/dashboard", dash.Summary)
	authed.POST("/assistant/chat", asst.Chat)
	authed.GET("/branches", br.List)

	// ===== Student =====
	stdG := e.Group("/student", middlewares.RequireAuth(cfg.JWTSecret), middlewares.RequireRole("student"))
	stdG.POST("/duty-leaves", dl.Create)
	stdG.GET("/duty-leaves", dl.ListMine)
	stdG.GET("/advisor", adv.MyAdvisor)

	stdG.GET("/certificates", cert.List)
	stdG.POST("/certificates", cert.Create)
	stdG.PUT("/certificates/:id", cert.Update)
	stdG.DELETE("/certificates/:id", cert.Delete)

	stdG.GET("/trainings", trn.List)
	stdG.POST("/trainings", trn.Create)
	stdG.PUT("/trainings/:id", trn.Update)
	stdG.DELETE("/trainings/:id", trn.Delete)

	stdG.GET("/projects", prj.List)
	stdG.POST("/projects", prj.Create)
	stdG.PUT("/projects/:id", prj.Update)
	stdG.DELETE("/projects/:id", prj.Delete)

	stdG.GET("/research", res.List)
	stdG.POST("/research", res.Create)
	stdG.PUT("/research/:id", res.Update)
	stdG.DELETE("/research/:id", res.Delete)

	stdG.GET("/placements", plc.List)
	stdG.POST("/placements", plc.Create)
	stdG.PUT("/placements/:id", plc.Update)
	stdG.DELETE("/placements/:id", plc.Delete)

	// ===== Teacher =====
	tchG := e.Group("/teacher", middlewares.RequireAuth(cfg.JWTSecret), middlewares.RequireRole("teacher"))
	tchG.GET("/advisees", adv.MyAdvisees)
	tchG.GET("/duty-leaves/assigned", dl.ListAssignedToMe)
	tchG.GET("/duty-leaves/second-level", dl.ListPendingSecondLevel)
	tchG.PUT("/duty-leaves/:id/advisor-decision", dl.DecideAsAdvisor)
	tchG.PUT("/duty-leaves/:id/second-level-decision", dl.DecideAsSecondLevel)

	// อาจารย์เปิดดูผลงานของนักศึกษารายคนได้ (?studentId=)
	tchG.GET("/records/certificates", cert.List)
	tchG.GET("/records/trainings", trn.List)
	tchG.GET("/records/projects", prj.List)
	tchG.GET("/records/research", res.List)
	tchG.GET("/records/placements", plc.List)

	// ===== Admin =====
	admG := e.Group("/admin", middlewares.RequireAuth(cfg.JWTSecret), middlewares.RequireRole("admin"))
	admG.GET("/students", std.List)
	admG.GET("/students/:id", std.Get)
	admG.POST("/students", std.Create)
	admG.PUT("/students/:id", std.Update)
	admG.DELETE("/students/:id", std.Delete)

	admG.GET("/teachers", tch.List)
	admG.GET("/teachers/:id", tch.Get)
	admG.POST("/teachers", tch.Create)
	admG.PUT("/teachers/:id", tch.Update)
	admG.DELETE("/teachers/:id", tch.Delete)

	admG.POST("/branches", br.Create)
	admG.DELETE("/branches/:id", br.Delete)

	admG.GET("/accounts", acc.List)
	admG.POST("/accounts", acc.Create)
	admG.POST("/accounts/:id/reset-password", acc.ResetPassword)

	admG.GET("/advisor-assignments", adv.List)
	admG.POST("/advisor-assignments", adv.Assign)

	admG.GET("/duty-leaves", dl.ListAll)

	// admin เปิดดูผลงานรายคนได้เหมือนอาจารย์
	admG.GET("/records/certificates", cert.List)
	admG.GET("/records/trainings", trn.List)
	admG.GET("/records/projects", prj.List)
	admG.GET("/records/research", res.List)
	admG.GET("/records/placements", plc.List)
}
