// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperRecord holds the metadata extracted for one paper in a conference
// program listing. ID is always set; every other field degrades to an empty
// value when the page markup omits it.
type PaperRecord struct {
	// ID is the numeric abstract identifier taken from the viewAbstract trigger.
	ID string `json:"abs_id" yaml:"abs_id"`

	// Title is the visible text of the trigger anchor.
	Title string `json:"title" yaml:"title"`

	// Authors lists author link texts in document order. Duplicates are kept.
	Authors []string `json:"authors" yaml:"authors"`

	// Keywords lists keyword link texts from the abstract container.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Abstract is the full text of the abstract container.
	Abstract string `json:"abstract" yaml:"abstract"`
}

// Normalized returns a copy of r with nil author and keyword slices replaced
// by empty ones, so serialized output never carries null sequences.
func (r PaperRecord) Normalized() PaperRecord {
	if r.Authors == nil {
		r.Authors = []string{}
	}
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	return r
}
