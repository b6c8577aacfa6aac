// Package ui exposes the reporting engine over HTTP. This is surrounding-
// application glue: the core never depends on it.
package ui

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fieldlens/app"
	"fieldlens/domain/survey"
	"fieldlens/internal"
	"fieldlens/internal/errors"
)

// Server is the HTTP surface for reports and exports.
type Server struct {
	router  *gin.Engine
	service *app.ReportService
	log     *internal.Logger
}

// NewServer creates the server and registers routes.
func NewServer(service *app.ReportService, logger *internal.Logger, ginMode string) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	s := &Server{
		router:  gin.New(),
		service: service,
		log:     logger.Component("http"),
	}

	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/reports", s.handleBuildReport)
	api.GET("/surveys/:id/report", s.handleSurveyReport)
	api.GET("/surveys/:id/export/:format", s.handleSurveyExport)
}

// Run starts the server on addr and blocks.
func (s *Server) Run(addr string) error {
	s.log.Info("listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// buildReportRequest is the inline payload contract: the caller supplies
// already-typed fields and responses and receives the computed report.
type buildReportRequest struct {
	Survey    survey.Survey            `json:"survey"`
	Fields    []survey.FieldDefinition `json:"fields"`
	Responses []survey.ResponseRecord  `json:"responses"`
}

func (s *Server) handleBuildReport(c *gin.Context) {
	var req buildReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	rep, err := s.service.BuildFromData(c.Request.Context(), req.Survey, req.Fields, req.Responses, time.Now().UTC())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleSurveyReport(c *gin.Context) {
	rep, err := s.service.GenerateReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleSurveyExport(c *gin.Context) {
	artifact, err := s.service.Export(c.Request.Context(), c.Param("id"), c.Param("format"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

func (s *Server) renderError(c *gin.Context, err error) {
	code := errors.Code(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeExternalService:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed: %v", err)
	} else {
		s.log.Warn("request rejected (%s): %v", code, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
