package officebatch

// AutomationChannel is the optional native-application export path: a running
// office application driven through platform automation. It is process-wide
// singleton state, detected once per run and torn down at process exit.
type AutomationChannel interface {
	// Ready reports whether the channel can export documents of the kind.
	Ready(kind Kind) bool

	// ExportPDF exports a canonical document to PDF through the native
	// application. It returns false when the channel does not support the
	// input; a non-nil error means the attempt was made and failed.
	ExportPDF(inputPath, outputPath string) (bool, error)

	// Close tears the channel down.
	Close() error
}
