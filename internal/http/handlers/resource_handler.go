// Resource marketplace HTTP handlers.
//
//   - POST /resources               (publish, verified toppers only)
//   - GET  /resources               (list active, paginated)
//   - POST /resources/:id/download  (gated download)
//
// File bytes never pass through this API; clients upload to blob storage
// first and publish the resulting URL.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/services"
)

// CreateResourceRequest is the JSON payload for publishing a resource.
type CreateResourceRequest struct {
	Title       string   `json:"title" binding:"required" example:"OS endsem notes"`
	Description string   `json:"description" example:"Condensed notes covering units 3-5"`
	SubjectID   *string  `json:"subject_id,omitempty" format:"uuid"`
	Semester    *int     `json:"semester,omitempty" example:"5"`
	FileURL     string   `json:"file_url" binding:"required" example:"https://blob.example.com/resources/os-notes.pdf"`
	FileType    string   `json:"file_type,omitempty" example:"application/pdf"`
	FileSize    *int64   `json:"file_size,omitempty"`
	Tags        []string `json:"tags,omitempty" example:"os,endsem"`
	Price       float64  `json:"price" example:"49"`
}

// ListResourcesResponse wraps a page of resources and pagination information.
type ListResourcesResponse struct {
	Resources  []domain.Resource `json:"resources"`
	Pagination Pagination        `json:"pagination"`
}

// DownloadResponse carries the granted file URL.
type DownloadResponse struct {
	DownloadURL   string `json:"download_url"`
	DownloadCount int    `json:"download_count"`
	Message       string `json:"message" example:"Download ready"`
}

// CreateResource godoc
// @ID          createResource
// @Summary     Publish a study resource
// @Description Creates a resource record pointing at an already-uploaded file. Verified toppers only.
// @Tags        Resources
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(topper1)
// @Param       body       body    handlers.CreateResourceRequest  true  "Resource payload"
//
// @Success     201  {object}  domain.Resource
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a verified topper"
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /resources [post]
func (h *Handlers) CreateResource(c *gin.Context) {
	u, okd := h.profile(c)
	if !okd {
		return
	}

	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and file_url are required")
		return
	}

	r, err := h.resourceSvc.Create(c.Request.Context(), u, services.CreateResourceInput{
		Title:       req.Title,
		Description: req.Description,
		SubjectID:   req.SubjectID,
		Semester:    req.Semester,
		FileURL:     req.FileURL,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
		Tags:        req.Tags,
		Price:       req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotVerifiedTopper):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only verified toppers can upload resources")
		case errors.Is(err, services.ErrResourceFieldsRequired):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, r)
}

// ListResources godoc
// @ID          listResources
// @Summary     List study resources (paginated)
// @Description Returns a page of active resources, newest first.
// @Tags        Resources
// @Produce     json
//
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListResourcesResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /resources [get]
func (h *Handlers) ListResources(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.resourceSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListResourcesResponse{
		Resources: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// DownloadResource godoc
// @ID          downloadResource
// @Summary     Download a study resource
// @Description Grants the file URL. Free resources record a zero-amount receipt on first download; priced resources require a completed purchase.
// @Tags        Resources
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Resource ID (UUID)"     format(uuid)
//
// @Success     200  {object}  handlers.DownloadResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Resource not purchased"
// @Failure     404  {object}  handlers.ErrorResponse  "Resource or profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /resources/{id}/download [post]
func (h *Handlers) DownloadResource(c *gin.Context) {
	u, okd := h.profile(c)
	if !okd {
		return
	}

	res, err := h.resourceSvc.Download(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResourceNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "resource not found")
		case errors.Is(err, services.ErrNotPurchased):
			fail(c, http.StatusForbidden, ErrCodeNotPurchased, "resource not purchased")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, DownloadResponse{
		DownloadURL:   res.FileURL,
		DownloadCount: res.DownloadCount,
		Message:       "Download ready",
	})
}
