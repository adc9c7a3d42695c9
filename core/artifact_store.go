package core

// ArtifactStore persists named blobs produced by a run. Implementations
// should be thread-safe and scope artifacts by run identifier.
type ArtifactStore interface {
	Save(runID, name string, data []byte) error
	Get(runID, name string) ([]byte, error)
	List(runID string) ([]string, error)
	Runs() []string
}
