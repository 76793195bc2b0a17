package domain

type UploadState string

const (
	UploadStatePending      UploadState = "pending"
	UploadStateUploaded     UploadState = "uploaded"
	UploadStateStoryCreated UploadState = "storyCreated"
	UploadStateFailed       UploadState = "failed"
)

// UploadTicket tracks one in-flight story upload from local image bytes to a
// published story. Discarded once the story is merged or the upload fails.
type UploadTicket struct {
	LocalImageRef string
	MediaPath     string
	ThumbPath     string
	State         UploadState
}
