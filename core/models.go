package core

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// MediaType identifies the kind of media an APOD entry points at.
// Only image entries are eligible for enrichment and archival.
type MediaType string

const (
	// MediaTypeImage is a still image entry.
	MediaTypeImage MediaType = "image"
	// MediaTypeVideo is a video entry (skipped by the pipeline).
	MediaTypeVideo MediaType = "video"
)

// FeedEntry is a single raw record from the APOD feed.
// The Date field doubles as the natural key: it is unique, sortable and
// stable across re-fetches of the same day.
type FeedEntry struct {
	Date        string // "YYYY-MM-DD", the natural key
	Title       string
	Explanation string
	URL         string // standard-resolution image URL
	HDURL       string // optional high-resolution URL
	MediaType   MediaType
	Copyright   string // optional attribution
}

// ImageURL returns the preferred URL for fetching the entry's image,
// favoring the high-resolution variant when present.
func (e *FeedEntry) ImageURL() string {
	if e.HDURL != "" {
		return e.HDURL
	}
	return e.URL
}

// Enrichment holds everything the inference layer derived from one FeedEntry.
// It is never persisted directly; it is folded into an ArchiveRecord or
// discarded when the entry turns out to be off-topic.
type Enrichment struct {
	Category   string
	Confidence float64 // [0,1]
	Caption    string
	Vector     []float32
	Relevant   bool
}

// ArchiveRecord is the persisted form of an enriched entry. One metadata
// row, one blob and one vector exist per Date; the archive coordinator
// upholds that three-way invariant.
type ArchiveRecord struct {
	Date        string
	Title       string
	Explanation string
	ImageURL    string
	BlobKey     string
	Category    string
	Confidence  float64
	Caption     string
	Copyright   string
	ProcessedAt time.Time
	Relevant    bool
	TxID        string // write transaction id, used for rollback correlation
}

// NewArchiveRecord folds a feed entry and its enrichment into the persisted shape.
func NewArchiveRecord(entry *FeedEntry, enrichment *Enrichment, blobKey, txID string, processedAt time.Time) *ArchiveRecord {
	return &ArchiveRecord{
		Date:        entry.Date,
		Title:       entry.Title,
		Explanation: entry.Explanation,
		ImageURL:    entry.ImageURL(),
		BlobKey:     blobKey,
		Category:    enrichment.Category,
		Confidence:  enrichment.Confidence,
		Caption:     enrichment.Caption,
		Copyright:   entry.Copyright,
		ProcessedAt: processedAt,
		Relevant:    enrichment.Relevant,
		TxID:        txID,
	}
}

// ContentChecksum computes a hex-encoded BLAKE2b checksum of raw content.
// Identical bytes always produce identical checksums, which lets the blob
// store detect redundant rewrites of the same image.
func ContentChecksum(data []byte) string {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ExtensionForMIME maps an image content type to a file extension used when
// deriving blob keys. Unknown types fall back to "bin".
func ExtensionForMIME(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}
