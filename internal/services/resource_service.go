// Package services – ResourceService
//
// ResourceService manages the study-material marketplace: verified toppers
// publish resources, students browse them, and downloads are gated on payment
// for priced material. The files themselves live in external blob storage;
// only the public URL and metadata pass through here.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/repo"
)

// CreateResourceInput carries the fields for publishing a resource. FileURL
// points at the already-uploaded blob.
type CreateResourceInput struct {
	Title       string
	Description string
	SubjectID   *string
	Semester    *int
	FileURL     string
	FileType    string
	FileSize    *int64
	Tags        []string
	Price       float64
}

// DownloadResult is the outcome of a granted download.
type DownloadResult struct {
	FileURL       string `json:"file_url"`
	DownloadCount int    `json:"download_count"`
}

// ResourceService provides marketplace operations over study resources.
type ResourceService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewResourceService constructs a ResourceService.
func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{DB: db}
}

// Create publishes a resource on behalf of a verified topper.
func (s *ResourceService) Create(ctx context.Context, user *domain.User, in CreateResourceInput) (*domain.Resource, error) {
	if user.Role != domain.RoleTopper || !user.IsVerified {
		return nil, ErrNotVerifiedTopper
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.FileURL == "" {
		return nil, ErrResourceFieldsRequired
	}
	if in.Price < 0 {
		in.Price = 0
	}

	r := &domain.Resource{
		TopperID:    user.ID,
		Title:       in.Title,
		Description: in.Description,
		SubjectID:   in.SubjectID,
		Semester:    in.Semester,
		FileURL:     in.FileURL,
		FileType:    in.FileType,
		FileSize:    in.FileSize,
		Tags:        in.Tags,
		Price:       in.Price,
		IsActive:    true,
	}
	if err := repo.CreateResource(ctx, s.DB, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns a resource by id.
func (s *ResourceService) Get(ctx context.Context, id string) (*domain.Resource, error) {
	r, err := repo.GetResource(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListPage returns a page of active resources plus the total count.
func (s *ResourceService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Resource, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountActiveResources(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Resource{}, 0, nil
	}
	items, err := repo.ListActiveResourcesPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// Download grants access to a resource's file for a user. Free resources get
// a zero-amount paid transaction recorded on first download; priced resources
// require an existing paid transaction. The counter bump and the access
// decision are deliberately best-effort ordered: a paid user is never denied
// because bookkeeping failed.
func (s *ResourceService) Download(ctx context.Context, user *domain.User, resourceID string) (*DownloadResult, error) {
	r, err := repo.GetResource(ctx, s.DB, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	if r.Price > 0 {
		if _, err := repo.GetPaidTransaction(ctx, s.DB, user.ID, resourceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotPurchased
			}
			return nil, err
		}
	} else {
		// First free download leaves a zero-amount receipt.
		if _, err := repo.GetTransaction(ctx, s.DB, user.ID, resourceID); errors.Is(err, gorm.ErrRecordNotFound) {
			txn := &domain.ResourceTransaction{
				StudentID:     user.ID,
				ResourceID:    resourceID,
				Amount:        0,
				PaymentStatus: domain.PaymentPaid,
			}
			if cerr := repo.CreateTransaction(ctx, s.DB, txn); cerr != nil {
				return nil, cerr
			}
		} else if err != nil {
			return nil, err
		}
	}

	if err := repo.IncrementDownloadCount(ctx, s.DB, resourceID); err != nil {
		return nil, err
	}
	return &DownloadResult{FileURL: r.FileURL, DownloadCount: r.DownloadCount + 1}, nil
}
