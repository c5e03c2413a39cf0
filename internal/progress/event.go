package progress

// Event is a progress notification raised by a download backend. The set of
// events is closed: Downloading, Finished and Failed are the only
// implementations.
type Event interface {
	progressEvent()
}

type (
	// Downloading reports the backends raw completion percentage (0-100)
	// for the phase named.
	Downloading struct {
		Percent float64
		Phase   string
	}

	// Finished is raised once the backend has produced it's output.
	Finished struct{}

	// Failed is raised when the backend reports an error. The backend
	// still returns the error to it's caller.
	Failed struct {
		Message string
	}
)

const (
	PhaseDownload = "download"
	PhaseConvert  = "convert"
)

func (Downloading) progressEvent() {}
func (Finished) progressEvent()    {}
func (Failed) progressEvent()      {}
