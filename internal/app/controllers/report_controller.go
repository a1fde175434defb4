package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/services"
	"github.com/siprista/backend/internal/middleware"
	"github.com/siprista/backend/internal/pkg/export"
	"github.com/siprista/backend/internal/pkg/websocket"
)

// LiveServer upgrades a request to the live report feed.
type LiveServer interface {
	Serve(w http.ResponseWriter, r *http.Request, accountID string, fetch websocket.FetchFunc) error
}

// ReportController serves the dashboard report, its exports and the live feed
type ReportController struct {
	reportService services.ReportService
	live          LiveServer
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService, live LiveServer) *ReportController {
	return &ReportController{reportService: reportService, live: live}
}

// Get returns the report for the caller
// @Summary Dashboard report
// @Description Admins get the school-wide report unless guruId narrows it; a guru gets their own.
// @Tags laporan
// @Produce json
// @Security BearerAuth
// @Param guruId query string false "Narrow an admin report to one guru"
// @Success 200 {object} dto.DataResponse{data=report.Report}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /laporan [get]
func (c *ReportController) Get(ctx *gin.Context) {
	id, ok := identity(ctx)
	if !ok {
		return
	}
	r, err := c.reportService.Build(ctx.Request.Context(), id, ctx.Query("guruId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Data: r})
}

// Export downloads the report
// @Summary Export report
// @Description Workbook with statistics and achievement rows, or a one-page PDF summary
// @Tags laporan
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "Export format" Enums(xlsx, pdf) default(xlsx)
// @Param guruId query string false "Narrow an admin export to one guru"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Unknown format or no achievements to export"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /laporan/export [get]
func (c *ReportController) Export(ctx *gin.Context) {
	id, ok := identity(ctx)
	if !ok {
		return
	}
	format := export.Format(ctx.DefaultQuery("format", string(export.FormatXLSX)))

	// Rendered in memory so a failure can still be answered with JSON.
	var buf bytes.Buffer
	filename, err := c.reportService.Export(ctx.Request.Context(), id, ctx.Query("guruId"), format, &buf)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	parsed, _ := export.ParseFormat(string(format))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, parsed.ContentType(), buf.Bytes())
}

// Live upgrades to the websocket report feed
// @Summary Live report feed
// @Description Websocket. Send {"type":"report.request","requestId":n}; a newer request cancels the older one. The server pushes {"type":"data.changed"} after every change.
// @Tags laporan
// @Param token query string true "Bearer token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /live [get]
func (c *ReportController) Live(ctx *gin.Context) {
	id, ok := identity(ctx)
	if !ok {
		return
	}
	fetch := func(reqCtx context.Context) (interface{}, error) {
		return c.reportService.Build(reqCtx, id, "")
	}
	// On failure the upgrader has already answered the request.
	_ = c.live.Serve(ctx.Writer, ctx.Request, id.AccountID, fetch)
}
