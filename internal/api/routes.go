package api

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

func RegisterRoutes(r *gin.Engine, h *Handler, limiter *RateLimiter) {
	r.SetHTMLTemplate(Templates())

	r.GET("/health", h.Health)

	ui := r.Group("/", h.SessionMiddleware())
	{
		ui.GET("/", h.Form)
		ui.GET(submissionsPath, h.Submissions)
		ui.GET(submissionRowPath, h.SubmissionRows)
		ui.GET(submissionSort, h.SortSubmissions)
	}

	// form actions are throttled per session
	actions := ui.Group("/", RateLimitMiddleware(limiter))
	{
		actions.POST("/execute", h.Execute)
		actions.POST("/submit", h.Submit)
		actions.POST("/reset", h.Reset)
	}
}
