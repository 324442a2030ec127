// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data shared across capture stages.
package types

// CaptureMetadata is what metadata extraction derives from a document body.
// Title is mandatory; PublishDate and Tags may be empty.
type CaptureMetadata struct {
	// Title is the document title as the author wrote it.
	Title string `json:"title" yaml:"title"`

	// PublishDate is an opaque date-like string (usually YYYY-MM-DD).
	PublishDate string `json:"publish_date,omitempty" yaml:"publish_date,omitempty"`

	// Tags are short topic labels in the order the extractor returned them.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Provenance holds the frontmatter fields the caller owns. Metadata
// extraction never produces these; retag preserves all but Hackernews.
type Provenance struct {
	Domain      string
	URL         string
	CaptureDate string
	Hackernews  string
}

// FrontmatterRecord is the full frontmatter of a canonical document.
// Field order here mirrors the wire order.
type FrontmatterRecord struct {
	Title       string   `yaml:"title"`
	Domain      string   `yaml:"domain"`
	URL         string   `yaml:"url"`
	Hackernews  string   `yaml:"hackernews,omitempty"`
	CaptureDate string   `yaml:"capture_date"`
	PublishDate string   `yaml:"publish_date,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// NewFrontmatterRecord combines extracted metadata with caller provenance.
func NewFrontmatterRecord(meta CaptureMetadata, prov Provenance) FrontmatterRecord {
	return FrontmatterRecord{
		Title:       meta.Title,
		Domain:      prov.Domain,
		URL:         prov.URL,
		Hackernews:  prov.Hackernews,
		CaptureDate: prov.CaptureDate,
		PublishDate: meta.PublishDate,
		Tags:        meta.Tags,
	}
}

// IsZero reports whether no field is set, as when a frontmatter block is
// present but empty.
func (r FrontmatterRecord) IsZero() bool {
	return r.Title == "" && r.Domain == "" && r.URL == "" && r.Hackernews == "" &&
		r.CaptureDate == "" && r.PublishDate == "" && len(r.Tags) == 0
}

// Metadata returns the extractor-owned part of the record.
func (r FrontmatterRecord) Metadata() CaptureMetadata {
	return CaptureMetadata{Title: r.Title, PublishDate: r.PublishDate, Tags: r.Tags}
}

// Provenance returns the caller-owned part of the record.
func (r FrontmatterRecord) Provenance() Provenance {
	return Provenance{
		Domain:      r.Domain,
		URL:         r.URL,
		CaptureDate: r.CaptureDate,
		Hackernews:  r.Hackernews,
	}
}

// Strategy selects how candidate texts become the document body.
type Strategy string

const (
	// StrategyMerge runs both extractions and merges them generatively.
	StrategyMerge Strategy = "merge"
	// StrategyInject uses the generic HTML conversion alone, verbatim.
	StrategyInject Strategy = "inject"
	// StrategyGenerate asks the generative backend for body and metadata in one call.
	StrategyGenerate Strategy = "generate"
)
