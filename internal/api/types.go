// Package api contains types for the API requests and responses.
package api

// ShowcaseItem is one published work as served to the website.
type ShowcaseItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Description  string `json:"description"`
	PDFURL       string `json:"pdfUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// ShowcaseResponse is the payload of GET /api/showcase.
type ShowcaseResponse struct {
	Collections []ShowcaseItem `json:"collections"`
	LastUpdated string         `json:"lastUpdated"`
	TotalItems  int            `json:"totalItems"`
	// Fallback is set when the catalog could not be read.
	Fallback bool `json:"fallback,omitempty"`
}

// ApplicationRequest is the enrolment form posted by the website.
type ApplicationRequest struct {
	Name         string `json:"name"`
	Grade        string `json:"grade"`
	Phone        string `json:"phone"`
	Program      string `json:"program"`
	Comments     string `json:"comments,omitempty"`
	CaptchaToken string `json:"captchaToken,omitempty"`
}

// ApplicationResponse is the result of POST /api/submit-application.
type ApplicationResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId,omitempty"`
}

// HealthServices reports each dependency as "healthy", "error" or "unknown".
type HealthServices struct {
	API      string `json:"api"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status      string         `json:"status"`
	Timestamp   string         `json:"timestamp"`
	Services    HealthServices `json:"services"`
	Version     string         `json:"version"`
	Environment string         `json:"environment"`
}
