package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// JobStatus is the publication state of a job posting
type JobStatus = string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusClosed    JobStatus = "closed"
)

// JobApplicationStatus tracks an application through review
type JobApplicationStatus = string

const (
	ApplicationStatusPending  JobApplicationStatus = "pending"
	ApplicationStatusAccepted JobApplicationStatus = "accepted"
	ApplicationStatusRejected JobApplicationStatus = "rejected"
)

// Company is a directory entry. The decision engine only inspects its id and
// block/verify state; everything else belongs to the excluded business layer.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:cmp"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CategoryID    *uuid.UUID `bun:"category_id,nullzero,type:uuid" json:"category_id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email" json:"email,omitempty"`
	Website       string     `bun:"website" json:"website,omitempty"`
	VerifiedAt    *time.Time `bun:"verified_at,nullzero" json:"verified_at,omitempty"`
	BlockedAt     *time.Time `bun:"blocked_at,nullzero" json:"blocked_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsBlocked reports whether the company is suspended from the directory
func (c *Company) IsBlocked() bool {
	return c != nil && c.BlockedAt != nil
}

// Category groups companies and listings
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Post is an article published by an admin or a company account
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	PublishedAt   *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnerID returns the authoring user id
func (p *Post) OwnerID() uuid.UUID {
	if p == nil {
		return uuid.Nil
	}
	return p.UserID
}

// OwningCompanyID resolves the author's company affiliation, uuid.Nil when
// the author is not loaded or not a company account.
func (p *Post) OwningCompanyID() uuid.UUID {
	if p == nil || p.User == nil || p.User.CompanyID == nil {
		return uuid.Nil
	}
	return *p.User.CompanyID
}

// Job is a job posting created by a company account (or an admin). Its owning
// company is derived through the posting user.
type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:job"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Status        JobStatus  `bun:"status,notnull,default:'draft'" json:"status,omitempty"`
	ExpiresAt     *time.Time `bun:"expires_at,nullzero" json:"expires_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnerID returns the posting user id
func (j *Job) OwnerID() uuid.UUID {
	if j == nil {
		return uuid.Nil
	}
	return j.UserID
}

// OwningCompanyID resolves the posting user's company, uuid.Nil when the
// posting user relation is not loaded or the poster has no company.
func (j *Job) OwningCompanyID() uuid.UUID {
	if j == nil || j.User == nil || j.User.CompanyID == nil {
		return uuid.Nil
	}
	return *j.User.CompanyID
}

// JobApplication is a user's application to a job posting
type JobApplication struct {
	bun.BaseModel `bun:"table:job_applications,alias:japp"`
	ID            uuid.UUID            `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	JobID         uuid.UUID            `bun:"job_id,notnull,type:uuid" json:"job_id,omitempty"`
	Job           *Job                 `bun:"rel:belongs-to,join:job_id=id" json:"job,omitempty"`
	UserID        uuid.UUID            `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User                `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Status        JobApplicationStatus `bun:"status,notnull,default:'pending'" json:"status,omitempty"`
	ResumePath    string               `bun:"resume_path" json:"resume_path,omitempty"`
	CreatedAt     *time.Time           `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time           `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnerID returns the applicant's user id
func (a *JobApplication) OwnerID() uuid.UUID {
	if a == nil {
		return uuid.Nil
	}
	return a.UserID
}

// OwningCompanyID resolves the company that owns the applied-to job
func (a *JobApplication) OwningCompanyID() uuid.UUID {
	if a == nil {
		return uuid.Nil
	}
	return a.Job.OwningCompanyID()
}

// CompanyReview is a user-authored review of a company
type CompanyReview struct {
	bun.BaseModel `bun:"table:company_reviews,alias:crev"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CompanyID     uuid.UUID  `bun:"company_id,notnull,type:uuid" json:"company_id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Rating        int        `bun:"rating,notnull" json:"rating,omitempty"`
	Comment       string     `bun:"comment" json:"comment,omitempty"`
	IsApproved    bool       `bun:"is_approved" json:"is_approved,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnerID returns the reviewing user id
func (r *CompanyReview) OwnerID() uuid.UUID {
	if r == nil {
		return uuid.Nil
	}
	return r.UserID
}

// CompanyImage is a gallery image attached to a company profile
type CompanyImage struct {
	bun.BaseModel `bun:"table:company_images,alias:cimg"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CompanyID     uuid.UUID  `bun:"company_id,notnull,type:uuid" json:"company_id,omitempty"`
	Path          string     `bun:"path,notnull" json:"path,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// OwningCompanyID returns the company the image belongs to
func (i *CompanyImage) OwningCompanyID() uuid.UUID {
	if i == nil {
		return uuid.Nil
	}
	return i.CompanyID
}
