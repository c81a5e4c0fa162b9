package intake

import "errors"

var (
	// ErrUnsupportedMediaType is returned for documents that are not PDFs.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrDocumentTooLarge is returned for documents over the download limit.
	ErrDocumentTooLarge = errors.New("document too large")
	// ErrDownload is returned when an attachment could not be fetched from
	// the messaging platform.
	ErrDownload = errors.New("attachment download failed")
	// ErrIntakeWrite is returned when publishing or attaching a thumbnail
	// failed. The session is kept so the user can retry the same step.
	ErrIntakeWrite = errors.New("intake write error")
	// ErrSessionClosed is returned when a record was published but the
	// session was cancelled or replaced while the write was in flight. The
	// returned session names the record.
	ErrSessionClosed = errors.New("session closed after publishing")
	// ErrNoActiveSession is returned when the user has no open session.
	ErrNoActiveSession = errors.New("no active session")
	// ErrWrongStep is returned for a photo sent before the thumbnail step.
	ErrWrongStep = errors.New("session not at thumbnail step")
	// ErrEmptyAnswer is returned for blank title, author or description text.
	ErrEmptyAnswer = errors.New("empty answer")
	// ErrAwaitingThumbnail is returned for text other than the finish token
	// while a thumbnail is expected.
	ErrAwaitingThumbnail = errors.New("awaiting thumbnail or finish")
)
