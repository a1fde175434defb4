package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/services"
	"github.com/siprista/backend/internal/middleware"
)

const achievementFieldsRequired = "Field siswa, guru, jenis prestasi, nama prestasi, tingkat, dan tanggal harus diisi"

// AchievementController handles achievement (prestasi) requests
type AchievementController struct {
	achievementService services.AchievementService
}

// NewAchievementController creates a new AchievementController
func NewAchievementController(achievementService services.AchievementService) *AchievementController {
	return &AchievementController{achievementService: achievementService}
}

// List returns a page of achievements
// @Summary List achievements
// @Description With public=true no login is needed and the recording guru is omitted. A guru otherwise only sees their own records.
// @Tags prestasi
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Param search query string false "Matches nama prestasi, nama siswa and penyelenggara"
// @Param tingkat query string false "Level" Enums(SEKOLAH, KECAMATAN, KABUPATEN, PROVINSI, NASIONAL, INTERNASIONAL)
// @Param jenisPrestasi query string false "Category" Enums(AKADEMIK, NON_AKADEMIK, EKSTRAKURIKULER, LAINNYA)
// @Param guruId query string false "Recording guru"
// @Param public query bool false "Public listing"
// @Success 200 {object} dto.ListResponse{data=[]models.Achievement}
// @Failure 400 {object} dto.ErrorResponse "Unknown tingkat or jenisPrestasi"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /prestasi [get]
func (c *AchievementController) List(ctx *gin.Context) {
	query := dto.AchievementQuery{
		ListQuery:     listQuery(ctx),
		Tingkat:       strings.TrimSpace(ctx.Query("tingkat")),
		JenisPrestasi: strings.TrimSpace(ctx.Query("jenisPrestasi")),
		GuruID:        strings.TrimSpace(ctx.Query("guruId")),
		Public:        ctx.Query("public") == "true",
	}

	var id *authz.Identity
	if found, ok := middleware.GetIdentity(ctx); ok {
		id = &found
	}

	page, err := c.achievementService.List(ctx.Request.Context(), id, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page.ToResponse())
}

// Get returns one achievement
// @Summary Get achievement
// @Tags prestasi
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Success 200 {object} dto.DataResponse{data=models.Achievement}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Prestasi tidak ditemukan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /prestasi/{id} [get]
func (c *AchievementController) Get(ctx *gin.Context) {
	achievement, err := c.achievementService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Data: achievement})
}

// Create records an achievement
// @Summary Create achievement
// @Description A guru always records under their own account; an admin must name the guru.
// @Tags prestasi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAchievementRequest true "Achievement"
// @Success 201 {object} dto.MessageResponse{data=models.Achievement} "Prestasi berhasil ditambahkan"
// @Failure 400 {object} dto.ErrorResponse "Missing fields, invalid enum or unknown siswa/guru"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /prestasi [post]
func (c *AchievementController) Create(ctx *gin.Context) {
	id, ok := identity(ctx)
	if !ok {
		return
	}
	var req dto.CreateAchievementRequest
	if err := middleware.BindJSON(ctx, &req, achievementFieldsRequired); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	achievement, err := c.achievementService.Create(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.MessageResponse{Message: "Prestasi berhasil ditambahkan", Data: achievement})
}

// Update changes an achievement
// @Summary Update achievement
// @Description Partial update. A guru may only change achievements they recorded.
// @Tags prestasi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Param request body dto.UpdateAchievementRequest true "Fields to change"
// @Success 200 {object} dto.MessageResponse{data=models.Achievement} "Prestasi berhasil diperbarui"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or unknown siswa/guru"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the recording guru"
// @Failure 404 {object} dto.ErrorResponse "Prestasi tidak ditemukan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /prestasi/{id} [put]
func (c *AchievementController) Update(ctx *gin.Context) {
	id, ok := identity(ctx)
	if !ok {
		return
	}
	var req dto.UpdateAchievementRequest
	if err := middleware.BindJSON(ctx, &req, ""); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	achievement, err := c.achievementService.Update(ctx.Request.Context(), id, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Prestasi berhasil diperbarui", Data: achievement})
}

// Delete removes an achievement
// @Summary Delete achievement
// @Tags prestasi
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Success 200 {object} dto.MessageResponse "Prestasi berhasil dihapus"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the recording guru"
// @Failure 404 {object} dto.ErrorResponse "Prestasi tidak ditemukan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /prestasi/{id} [delete]
func (c *AchievementController) Delete(ctx *gin.Context) {
	id, ok := identity(ctx)
	if !ok {
		return
	}
	if err := c.achievementService.Delete(ctx.Request.Context(), id, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Prestasi berhasil dihapus"})
}
