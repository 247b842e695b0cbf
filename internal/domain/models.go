// Package domain defines the persistence models for the study marketplace:
// users, subjects, resources, study groups and their memberships, bookings,
// purchase transactions, and cached AI-generated study content. These types
// are mapped with GORM and form the core data layer of the application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleStudent = "student"
	RoleTopper  = "topper"
	RoleAdmin   = "admin"
)

// Group membership roles.
const (
	MemberRoleLeader = "leader"
	MemberRoleMember = "member"
)

// Booking lifecycle states.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Payment states shared by bookings and resource transactions.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// AI content types cached per resource.
const (
	ContentQuiz          = "quiz"
	ContentSummary       = "summary"
	ContentExamQuestions = "exam_questions"
)

// Meeting types for study groups.
const (
	MeetingVirtual  = "virtual"
	MeetingPhysical = "physical"
	MeetingBoth     = "both"
)

// User is a platform account. Identity (sign-in, sessions) lives with the
// external auth provider; ExternalID is that provider's stable user id.
// Toppers are CGPA-verified tutors; IsVerified gates resource uploads and
// bookings against them.
type User struct {
	ID            string         `json:"id"             gorm:"type:char(36);primaryKey"`
	ExternalID    string         `json:"external_id"    gorm:"type:varchar(64);not null;uniqueIndex"`
	Email         string         `json:"email"          gorm:"type:varchar(255);not null"`
	FullName      string         `json:"full_name"      gorm:"type:varchar(255)"`
	Role          string         `json:"role"           gorm:"type:varchar(16);not null;default:'student';check:role IN ('student','topper','admin')"`
	IsVerified    bool           `json:"is_verified"    gorm:"not null;default:false"`
	CGPA          *float64       `json:"cgpa,omitempty"`
	TranscriptURL string         `json:"transcript_url,omitempty" gorm:"type:text"`
	Bio           string         `json:"bio,omitempty"  gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Subject is a catalog entry (e.g., "Data Structures"). Groups and resources
// reference at most one subject.
type Subject struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null"`
	Code        string    `json:"code,omitempty" gorm:"type:varchar(32)"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Subject.
func (Subject) TableName() string { return "subjects" }

// StudyGroup is a self-organized group of students. Each group carries an
// immutable 8-hex-character JoinCode issued at creation; codes are unique
// across all groups — including deactivated ones — and are never reused,
// which is why deactivation is modeled with IsActive rather than a soft
// delete (deleted rows must stay visible to the uniqueness check).
type StudyGroup struct {
	ID                 string    `json:"id"                  gorm:"type:char(36);primaryKey"`
	Name               string    `json:"name"                gorm:"type:varchar(255);not null"`
	Description        string    `json:"description,omitempty" gorm:"type:text"`
	SubjectID          *string   `json:"subject_id,omitempty"  gorm:"type:char(36);index"`
	Topic              string    `json:"topic,omitempty"     gorm:"type:varchar(255)"`
	MaxMembers         int       `json:"max_members"         gorm:"not null"`
	MeetingType        string    `json:"meeting_type"        gorm:"type:varchar(16);not null;default:'virtual';check:meeting_type IN ('virtual','physical','both')"`
	MeetingLocation    string    `json:"meeting_location,omitempty" gorm:"type:text"`
	MeetingLink        string    `json:"meeting_link,omitempty"     gorm:"type:text"`
	PreferredTimeSlots []string  `json:"preferred_time_slots,omitempty" gorm:"serializer:json"`
	CreatedBy          string    `json:"created_by"          gorm:"type:char(36);not null;index"`
	IsActive           bool      `json:"is_active"           gorm:"not null;default:true;index"`
	JoinCode           string    `json:"join_code"           gorm:"type:char(8);not null;uniqueIndex"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Subject is the optional catalog subject this group studies.
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID;references:ID"`
	// Members holds the group roster; cascade-deleted with the group.
	Members []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for StudyGroup.
func (StudyGroup) TableName() string { return "study_groups" }

// GroupMember links a user to a study group. The (group_id, user_id) unique
// index is the backstop against double joins; capacity is enforced in the
// service layer inside the membership-insert transaction.
type GroupMember struct {
	ID       string    `json:"id"        gorm:"type:char(36);primaryKey"`
	GroupID  string    `json:"group_id"  gorm:"type:char(36);not null;uniqueIndex:ux_group_user,priority:1"`
	UserID   string    `json:"user_id"   gorm:"type:char(36);not null;uniqueIndex:ux_group_user,priority:2;index"`
	Role     string    `json:"role"      gorm:"type:varchar(16);not null;default:'member';check:role IN ('leader','member')"`
	JoinedAt time.Time `json:"joined_at"`
}

// TableName returns the database table name for GroupMember.
func (GroupMember) TableName() string { return "study_group_members" }

// Resource is a study material uploaded by a verified topper. The file itself
// lives in external blob storage; only its public URL and metadata are kept.
type Resource struct {
	ID            string         `json:"id"           gorm:"type:char(36);primaryKey"`
	TopperID      string         `json:"topper_id"    gorm:"type:char(36);not null;index"`
	Title         string         `json:"title"        gorm:"type:varchar(255);not null"`
	Description   string         `json:"description,omitempty" gorm:"type:text"`
	SubjectID     *string        `json:"subject_id,omitempty"  gorm:"type:char(36);index"`
	Semester      *int           `json:"semester,omitempty"`
	FileURL       string         `json:"file_url"     gorm:"type:text;not null"`
	FileType      string         `json:"file_type,omitempty" gorm:"type:varchar(128)"`
	FileSize      *int64         `json:"file_size,omitempty"`
	Tags          []string       `json:"tags,omitempty" gorm:"serializer:json"`
	Price         float64        `json:"price"        gorm:"not null;default:0"`
	DownloadCount int            `json:"download_count" gorm:"not null;default:0"`
	Rating        float64        `json:"rating"       gorm:"not null;default:0"`
	RatingCount   int            `json:"rating_count" gorm:"not null;default:0"`
	IsActive      bool           `json:"is_active"    gorm:"not null;default:true;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for Resource.
func (Resource) TableName() string { return "resources" }

// ResourceTransaction records a purchase (or free download) of a resource by
// a student. Paid resources require a row with PaymentStatus "paid" before
// download; free resources get a zero-amount row on first download.
type ResourceTransaction struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	StudentID     string    `json:"student_id"     gorm:"type:char(36);not null;index:idx_txn_student_resource,priority:1"`
	ResourceID    string    `json:"resource_id"    gorm:"type:char(36);not null;index:idx_txn_student_resource,priority:2"`
	Amount        float64   `json:"amount"         gorm:"not null"`
	PaymentStatus string    `json:"payment_status" gorm:"type:varchar(16);not null;default:'pending';check:payment_status IN ('pending','paid','refunded')"`
	PaymentID     *string   `json:"payment_id,omitempty" gorm:"type:varchar(128)"`
	DownloadedAt  time.Time `json:"downloaded_at"`
}

// TableName returns the database table name for ResourceTransaction.
func (ResourceTransaction) TableName() string { return "resource_transactions" }

// Booking is a paid micro-tutoring session between a student and a topper.
// Payment is stubbed: bookings are created confirmed/paid with a fixed
// meeting link until a real payment provider is integrated.
type Booking struct {
	ID              string         `json:"id"              gorm:"type:char(36);primaryKey"`
	StudentID       string         `json:"student_id"      gorm:"type:char(36);not null;index"`
	TopperID        string         `json:"topper_id"       gorm:"type:char(36);not null;index"`
	ResourceID      *string        `json:"resource_id,omitempty" gorm:"type:char(36)"`
	SessionType     string         `json:"session_type"    gorm:"type:varchar(16);not null;default:'tutoring';check:session_type IN ('tutoring','consultation')"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	ScheduledAt     time.Time      `json:"scheduled_at"    gorm:"not null"`
	Status          string         `json:"status"          gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','confirmed','completed','cancelled')"`
	Price           float64        `json:"price"           gorm:"not null"`
	PaymentStatus   string         `json:"payment_status"  gorm:"type:varchar(16);not null;default:'pending';check:payment_status IN ('pending','paid','refunded')"`
	PaymentID       *string        `json:"payment_id,omitempty" gorm:"type:varchar(128)"`
	MeetingLink     string         `json:"meeting_link,omitempty" gorm:"type:text"`
	Notes           string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-"               gorm:"index"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }

// AIContent caches one AI-generated payload per (resource, content type).
// Content holds the parsed JSON document verbatim. There is no expiry: once
// generated, a payload is always served from this cache.
type AIContent struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	ResourceID  string    `json:"resource_id"  gorm:"type:char(36);not null;uniqueIndex:ux_ai_resource_type,priority:1"`
	ContentType string    `json:"content_type" gorm:"type:varchar(32);not null;uniqueIndex:ux_ai_resource_type,priority:2;check:content_type IN ('quiz','summary','exam_questions')"`
	Content     string    `json:"content"      gorm:"type:text;not null"`
	GeneratedAt time.Time `json:"generated_at"`
}

// TableName returns the database table name for AIContent.
func (AIContent) TableName() string { return "ai_generated_content" }

// QuestionBankEntry is a deduplicated exam question harvested from generated
// exam-question payloads. QuestionHash is the SHA-256 of the lowercased,
// trimmed question text, so the same question phrased with different casing
// collapses to one row.
type QuestionBankEntry struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	ResourceID   *string   `json:"resource_id,omitempty" gorm:"type:char(36);index"`
	QuestionText string    `json:"question_text" gorm:"type:text;not null"`
	QuestionHash string    `json:"question_hash" gorm:"type:char(64);not null;uniqueIndex"`
	AnswerText   string    `json:"answer_text"   gorm:"type:text"`
	SubjectID    *string   `json:"subject_id,omitempty" gorm:"type:char(36)"`
	Topic        string    `json:"topic,omitempty" gorm:"type:varchar(255)"`
	Difficulty   string    `json:"difficulty,omitempty" gorm:"type:varchar(16)"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for QuestionBankEntry.
func (QuestionBankEntry) TableName() string { return "question_bank" }
