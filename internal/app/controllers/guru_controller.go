package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/services"
	"github.com/siprista/backend/internal/middleware"
)

const guruFieldsRequired = "Email, nama, dan password harus diisi"

// GuruController handles teacher account requests. Every route is admin only.
type GuruController struct {
	guruService services.GuruService
}

// NewGuruController creates a new GuruController
func NewGuruController(guruService services.GuruService) *GuruController {
	return &GuruController{guruService: guruService}
}

// List returns a page of guru accounts
// @Summary List guru
// @Description Paginated GURU accounts with their achievement counts. search matches name, email and NIP.
// @Tags guru
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Param search query string false "Search term"
// @Success 200 {object} dto.ListResponse{data=[]models.Account}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guru [get]
func (c *GuruController) List(ctx *gin.Context) {
	page, err := c.guruService.List(ctx.Request.Context(), listQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page.ToResponse())
}

// Get returns one guru
// @Summary Get guru
// @Description Guru detail including the achievements they recorded
// @Tags guru
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} dto.DataResponse{data=models.Account}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Guru tidak ditemukan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guru/{id} [get]
func (c *GuruController) Get(ctx *gin.Context) {
	guru, err := c.guruService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Data: guru})
}

// Create adds a guru account
// @Summary Create guru
// @Tags guru
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGuruRequest true "Guru"
// @Success 201 {object} dto.MessageResponse{data=models.Account} "Guru berhasil ditambahkan"
// @Failure 400 {object} dto.ErrorResponse "Missing fields, Email or NIP sudah terdaftar"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guru [post]
func (c *GuruController) Create(ctx *gin.Context) {
	var req dto.CreateGuruRequest
	if err := middleware.BindJSON(ctx, &req, guruFieldsRequired); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	guru, err := c.guruService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.MessageResponse{Message: "Guru berhasil ditambahkan", Data: guru})
}

// Update changes a guru account
// @Summary Update guru
// @Description Partial update. An empty password keeps the current one.
// @Tags guru
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body dto.UpdateGuruRequest true "Fields to change"
// @Success 200 {object} dto.MessageResponse{data=models.Account} "Data guru berhasil diperbarui"
// @Failure 400 {object} dto.ErrorResponse "Invalid data, Email or NIP sudah terdaftar"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Guru tidak ditemukan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guru/{id} [put]
func (c *GuruController) Update(ctx *gin.Context) {
	var req dto.UpdateGuruRequest
	if err := middleware.BindJSON(ctx, &req, ""); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	guru, err := c.guruService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Data guru berhasil diperbarui", Data: guru})
}

// Delete removes a guru account without achievements
// @Summary Delete guru
// @Tags guru
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} dto.MessageResponse "Guru berhasil dihapus"
// @Failure 400 {object} dto.ErrorResponse "Guru still has achievements"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Guru tidak ditemukan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guru/{id} [delete]
func (c *GuruController) Delete(ctx *gin.Context) {
	if err := c.guruService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Guru berhasil dihapus"})
}
