package intake

// RejectionError indicates a file failed intake validation. The reason is
// user-visible; the file never enters the upload session.
type RejectionError struct {
	Name   string
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}
