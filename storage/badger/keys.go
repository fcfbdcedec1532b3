package badger

// Key prefixes for different data types
const (
	blobPrefix   = "blob"
	vectorPrefix = "vec"
)

// makeBlobKey generates the storage key for a blob.
func makeBlobKey(key string) []byte {
	return []byte(blobPrefix + ":" + key)
}

// makeVectorKey generates the storage key for a vector entry by ID.
func makeVectorKey(id string) []byte {
	return []byte(vectorPrefix + ":" + id)
}
