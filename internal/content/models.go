package content

import "github.com/formatech/coursegate/internal/quiz"

// Course is the viewer-facing course record mapped from a formation.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Objectives  string `json:"objectives,omitempty"`
	Level       string `json:"level,omitempty"`
	Instructor  string `json:"instructor,omitempty"`

	// AccessKey comes from the catalog overlay, never from the training API.
	AccessKey string `json:"-"`

	TotalDuration int `json:"total_duration,omitempty"` // hours
}

// Module is one unit of course content. At most one reference per media kind;
// the player shows exactly one panel at a time regardless.
type Module struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	VideoURL  string `json:"video_url,omitempty"`
	PDFURL    string `json:"pdf_url,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	SlidesURL string `json:"slides_url,omitempty"`

	Duration string `json:"duration,omitempty"` // "N min"

	Quiz *quiz.Quiz `json:"quiz,omitempty"`
}

// ContentGroup collects the modules of one learning objective.
type ContentGroup struct {
	ObjectiveID string   `json:"objective_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Contents    []Module `json:"contents"`
	Expanded    bool     `json:"expanded"`
}

// Assembly is the built content for one course view. Modules is always the
// flattening of Groups in order when Grouped, and the flat list otherwise, so
// linear next/previous navigation works the same either way.
type Assembly struct {
	Course  Course         `json:"course"`
	Groups  []ContentGroup `json:"groups,omitempty"`
	Modules []Module       `json:"modules"`
	Grouped bool           `json:"grouped"`
}
