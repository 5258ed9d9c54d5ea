package geom

import (
	"github.com/google/uuid"
)

// ImageRef is a content addressed reference to an image source
type ImageRef struct {
	Src  string `json:"src"`
	Hash string `json:"hash"`
}

// HashSource derives the content addressing key for an image source. The key
// is a name based (SHA-1, version 5) UUID in the URL namespace, so the same
// src always yields the same hash.
func HashSource(src string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(src)).String()
}

// NewImageRef returns the reference for src with its hash filled in
func NewImageRef(src string) ImageRef {
	return ImageRef{Src: src, Hash: HashSource(src)}
}
