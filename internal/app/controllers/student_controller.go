package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/services"
	"github.com/siprista/backend/internal/middleware"
)

const studentFieldsRequired = "Field NIS, nama, kelas, dan jenis kelamin harus diisi"

// StudentController handles student (siswa) requests
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// List returns a page of students
// @Summary List students
// @Description Paginated students with their achievements. search matches nama, NIS and kelas.
// @Tags siswa
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Param search query string false "Search term"
// @Success 200 {object} dto.ListResponse{data=[]models.StudentListItem}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /siswa [get]
func (c *StudentController) List(ctx *gin.Context) {
	page, err := c.studentService.List(ctx.Request.Context(), listQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page.ToResponse())
}

// Get returns one student
// @Summary Get student
// @Description Student detail including achievements and the guru who recorded them
// @Tags siswa
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.DataResponse{data=models.Student}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Siswa tidak ditemukan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /siswa/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	student, err := c.studentService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Data: student})
}

// Create adds a student
// @Summary Create student
// @Tags siswa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} dto.MessageResponse{data=models.Student} "Siswa berhasil ditambahkan"
// @Failure 400 {object} dto.ErrorResponse "Missing fields or NIS sudah terdaftar"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /siswa [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := middleware.BindJSON(ctx, &req, studentFieldsRequired); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.MessageResponse{Message: "Siswa berhasil ditambahkan", Data: student})
}

// Update changes a student
// @Summary Update student
// @Description Partial update. Empty strings keep the stored value except for jurusan and alamat.
// @Tags siswa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.MessageResponse{data=models.Student} "Siswa berhasil diperbarui"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or NIS sudah terdaftar"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Siswa tidak ditemukan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /siswa/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := middleware.BindJSON(ctx, &req, ""); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	student, err := c.studentService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Siswa berhasil diperbarui", Data: student})
}

// Delete removes a student and their achievements
// @Summary Delete student
// @Tags siswa
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.MessageResponse "Siswa berhasil dihapus"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Siswa tidak ditemukan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /siswa/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	if err := c.studentService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Siswa berhasil dihapus"})
}
