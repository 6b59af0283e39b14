package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workplace-api/internal/response"
	"workplace-api/internal/service"
)

type FileHandler struct {
	fileService service.FileService
}

func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

// UploadFile godoc
// @Summary      Upload a file
// @Description  Stores a file under the workplace's prefix and returns its storage token
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        file formData file true "File content"
// @Success      201 {object} dto.FileUploadResponse
// @Failure      400 {object} response.ErrorResponse "Missing file or invalid filename"
// @Failure      404 {object} response.ErrorResponse "Workplace not found"
// @Router       /workplaces/{workplaceId}/files [post]
func (h *FileHandler) UploadFile(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Failed to read file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.fileService.UploadFile(c.Request.Context(), workplaceID, fileHeader.Filename, contentType, file)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// DownloadFile godoc
// @Summary      Download a file
// @Tags         files
// @Produce      application/octet-stream
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        filename path string true "File name"
// @Success      200 {file} binary
// @Failure      404 {object} response.ErrorResponse "File not found"
// @Router       /workplaces/{workplaceId}/files/{filename} [get]
func (h *FileHandler) DownloadFile(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	body, contentType, err := h.fileService.DownloadFile(c.Request.Context(), workplaceID, c.Param("filename"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

// DeleteFile godoc
// @Summary      Delete a file
// @Tags         files
// @Produce      json
// @Param        workplaceId path string true "Workplace ID (UUID)"
// @Param        filename path string true "File name"
// @Success      200 {object} response.MessageResponse
// @Failure      403 {object} response.ErrorResponse "Requires MEMBER"
// @Failure      404 {object} response.ErrorResponse "Workplace not found"
// @Router       /workplaces/{workplaceId}/files/{filename} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	workplaceID, err := uuid.Parse(c.Param("workplaceId"))
	if err != nil {
		response.SendError(c, http.StatusNotFound, response.ErrCodeWorkplaceNotFound, "Workplace not found")
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), workplaceID, c.Param("filename")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, response.MessageResponse{Message: "File deleted"})
}
