package generator

// ProgressCallback is called during a run to report progress
type ProgressCallback func(event ProgressEvent)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Type    ProgressEventType
	Source  string
	Message string
	Index   int
	Total   int
	Stages  int
	Error   error
}

// ProgressEventType identifies the type of progress event
type ProgressEventType int

const (
	EventFetchStart ProgressEventType = iota
	EventFetchComplete
	EventConvertStart
	EventConvertComplete
	EventWriteStart
	EventDatasetComplete
	EventError
)

func (t ProgressEventType) String() string {
	switch t {
	case EventFetchStart:
		return "fetch-start"
	case EventFetchComplete:
		return "fetch-complete"
	case EventConvertStart:
		return "convert-start"
	case EventConvertComplete:
		return "convert-complete"
	case EventWriteStart:
		return "write-start"
	case EventDatasetComplete:
		return "dataset-complete"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
