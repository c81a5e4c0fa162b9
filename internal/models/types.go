// Package models defines the data models used in the application.
package models

// ShowcaseStatus represents the publication state of a showcase record.
type ShowcaseStatus string

// Possible values for ShowcaseStatus
const (
	StatusDraft     ShowcaseStatus = "draft"
	StatusPublished ShowcaseStatus = "published"
)

// Showcase is a published piece of student work: a private PDF, a public
// thumbnail and its descriptive metadata.
type Showcase struct {
	ID          string `dynamodbav:"id"` // ULID
	Title       string `dynamodbav:"title"`
	Author      string `dynamodbav:"author"`
	Description string `dynamodbav:"description"`

	// DocumentKey is the permanent reference into the private bucket.
	DocumentKey string `dynamodbav:"document_key"`
	// PDFURL is the signed URL minted at creation. Readers must regenerate it.
	PDFURL       string `dynamodbav:"pdf_url"`
	ThumbnailURL string `dynamodbav:"thumbnail_url"`

	Status    ShowcaseStatus `dynamodbav:"status"`
	CreatedAt string         `dynamodbav:"created_at"` // ISO8601, store-assigned
	UpdatedAt string         `dynamodbav:"updated_at"` // ISO8601, store-assigned
}

// ShowcaseInput carries the caller-supplied fields of a new showcase record.
type ShowcaseInput struct {
	Title        string
	Author       string
	Description  string
	DocumentKey  string
	PDFURL       string
	ThumbnailURL string
}

// ShowcasePatch lists the fields to merge into an existing record; nil fields
// are left untouched.
type ShowcasePatch struct {
	Title        *string
	Author       *string
	Description  *string
	ThumbnailURL *string
	Status       *ShowcaseStatus
}

// ApplicationStatus represents the review state of an enrolment application.
type ApplicationStatus string

// StatusNew is the status of every freshly submitted application.
const StatusNew ApplicationStatus = "new"

// Application is a parent's enrolment request submitted from the website form.
type Application struct {
	ID              string            `dynamodbav:"id"` // UUID
	StudentName     string            `dynamodbav:"student_name"`
	Grade           string            `dynamodbav:"grade"`
	PhoneNumber     string            `dynamodbav:"phone_number"`
	Program         string            `dynamodbav:"program"`
	Comments        string            `dynamodbav:"comments"`
	SubmittedAt     string            `dynamodbav:"submitted_at"`
	IPAddress       string            `dynamodbav:"ip_address"`
	CaptchaVerified bool              `dynamodbav:"captcha_verified"`
	Status          ApplicationStatus `dynamodbav:"status"`
}
