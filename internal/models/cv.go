package models

import (
	"slices"
	"time"
)

// CVStatus covers both the import pipeline and recruiter-driven transitions:
// imported -> processing -> analyzed -> completed, or failed.
type CVStatus string

const (
	CVImported   CVStatus = "imported"
	CVProcessing CVStatus = "processing"
	CVAnalyzed   CVStatus = "analyzed"
	CVCompleted  CVStatus = "completed"
	CVFailed     CVStatus = "failed"
)

type CVSource string

const (
	CVSourceUpload   CVSource = "upload"
	CVSourceLinkedIn CVSource = "linkedin"
)

type CVAnalysis struct {
	Skills     []string `bson:"skills" json:"skills"`
	Experience string   `bson:"experience" json:"experience"`
	Education  string   `bson:"education" json:"education"`
	Languages  []string `bson:"languages" json:"languages"`
	Score      int      `bson:"score" json:"score"`
}

// DefaultAnalysis is the canned result written by an analysis run.
func DefaultAnalysis() *CVAnalysis {
	return &CVAnalysis{
		Skills:     []string{"JavaScript", "React", "Node.js"},
		Experience: "3 ans",
		Education:  "Master en Informatique",
		Languages:  []string{"Français", "Anglais"},
		Score:      85,
	}
}

type CV struct {
	ID       int64    `bson:"_id" json:"id"`
	FileName string   `bson:"file_name" json:"name"`
	FileSize int64    `bson:"file_size,omitempty" json:"size,omitempty"`
	FileType string   `bson:"file_type,omitempty" json:"type,omitempty"`
	Source   CVSource `bson:"source" json:"source"`
	// SourceURL is set for profile imports (linkedin).
	SourceURL string `bson:"source_url,omitempty" json:"sourceUrl,omitempty"`

	Status          CVStatus    `bson:"status" json:"status"`
	MatchedProfiles []int64     `bson:"matched_profiles" json:"matchedProfiles"`
	Analysis        *CVAnalysis `bson:"analysis,omitempty" json:"analysis,omitempty"`

	ImportDate   time.Time  `bson:"import_date" json:"importDate"`
	AnalyzedDate *time.Time `bson:"analyzed_date,omitempty" json:"analyzedDate,omitempty"`
	LastModified time.Time  `bson:"last_modified" json:"lastModified"`
}

func (c CV) Clone() CV {
	c.MatchedProfiles = slices.Clone(c.MatchedProfiles)
	if c.Analysis != nil {
		a := *c.Analysis
		a.Skills = slices.Clone(a.Skills)
		a.Languages = slices.Clone(a.Languages)
		c.Analysis = &a
	}
	if c.AnalyzedDate != nil {
		t := *c.AnalyzedDate
		c.AnalyzedDate = &t
	}
	return c
}

// HasMatch reports whether profileID is already matched.
func (c CV) HasMatch(profileID int64) bool {
	return slices.Contains(c.MatchedProfiles, profileID)
}

type CVFileInput struct {
	Name string `json:"name" validate:"required"`
	Size int64  `json:"size" validate:"min=0"`
	Type string `json:"type"`
}

type CVSourceInput struct {
	Kind CVSource `json:"kind" validate:"required,oneof=linkedin"`
	URL  string   `json:"url" validate:"required,url,linkedin_profile"`
}

// ImportCVInput needs either a file descriptor or a source descriptor.
type ImportCVInput struct {
	File   *CVFileInput   `json:"file" validate:"required_without=Source"`
	Source *CVSourceInput `json:"source" validate:"required_without=File"`
}

func (in *ImportCVInput) Validate() error {
	return validate.Struct(in)
}

func (in ImportCVInput) ToCV(now time.Time) CV {
	now = now.UTC()
	cv := CV{
		Status:          CVImported,
		MatchedProfiles: []int64{},
		ImportDate:      now,
		LastModified:    now,
	}
	if in.File != nil {
		cv.FileName = in.File.Name
		cv.FileSize = in.File.Size
		cv.FileType = in.File.Type
		cv.Source = CVSourceUpload
		return cv
	}
	cv.FileName = "LinkedIn Profile: " + in.Source.URL
	cv.Source = in.Source.Kind
	cv.SourceURL = in.Source.URL
	return cv
}
