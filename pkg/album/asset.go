package album

import (
	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// MediaKind distinguishes still images from videos.
type MediaKind string

// Supported media kinds.
const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Asset is a media item referenced by blocks. Assets are immutable once
// added to a document; blocks reference them by ID and never own them.
type Asset struct {
	ID          string    `json:"id" bson:"id" yaml:"id"`
	Kind        MediaKind `json:"mediaKind" bson:"media_kind" yaml:"mediaKind"`
	URI         string    `json:"uri" bson:"uri" yaml:"uri"`
	DisplayName string    `json:"displayName,omitempty" bson:"display_name,omitempty" yaml:"displayName,omitempty"`

	// Intrinsic pixel size, informational only. Placement never reads it.
	Width  int `json:"width,omitempty" bson:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" bson:"height,omitempty" yaml:"height,omitempty"`
}

// Label returns the display name if set, otherwise the ID.
func (a Asset) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.ID
}

// ValidateAsset checks an asset before it is added to a document.
func ValidateAsset(a Asset) error {
	if err := apperr.ValidateID("asset", a.ID); err != nil {
		return err
	}
	switch a.Kind {
	case MediaImage, MediaVideo:
	default:
		return apperr.New(apperr.ErrCodeInvalidInput, "asset %q: unknown media kind %q (must be image or video)", a.ID, a.Kind)
	}
	if err := apperr.ValidateURI(a.URI); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "asset %q", a.ID)
	}
	if a.Width < 0 || a.Height < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "asset %q: negative intrinsic size", a.ID)
	}
	return nil
}
