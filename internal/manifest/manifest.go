// Package manifest records what a documentation run read and wrote.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	ggit "github.com/go-git/go-git/v5"
	"github.com/google/uuid"
	"github.com/inful/mdfp"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// RunManifest is a complete record of one run's inputs and outputs.
type RunManifest struct {
	ID         string    `json:"id"`
	Version    string    `json:"version,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Inputs     Inputs    `json:"inputs"`
	Outputs    Outputs   `json:"outputs"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Duration   int64     `json:"duration_ms"`
	EntryCount int       `json:"entry_count"`
	// OutputHash is Hash at the time the run finished.
	OutputHash string `json:"output_hash,omitempty"`
}

// Inputs captures everything that determines the generated documents.
type Inputs struct {
	Queries    []string        `json:"queries"`
	Excludes   []string        `json:"excludes,omitempty"`
	Format     string          `json:"format"`
	ConfigHash string          `json:"config_hash"`
	Source     *SourceRevision `json:"source,omitempty"`
}

// SourceRevision identifies the checkout the run was started from.
type SourceRevision struct {
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit"`
}

// Outputs lists the written files.
type Outputs struct {
	Directory string       `json:"directory"`
	Files     []FileRecord `json:"files"`
}

// FileRecord describes one written file. Path is relative to the output
// directory.
type FileRecord struct {
	Path        string `json:"path"`
	Kind        string `json:"kind"`
	EntryID     string `json:"entry_id,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Bytes       int    `json:"bytes"`
}

// New starts a manifest for a run beginning now.
func New(version string) *RunManifest {
	return &RunManifest{
		ID:        uuid.NewString(),
		Version:   version,
		Timestamp: time.Now().UTC(),
		Status:    StatusRunning,
	}
}

// Fingerprint returns the content fingerprint of a generated document.
// Generated documents carry no frontmatter, so only the body is hashed.
func Fingerprint(body string) string {
	return mdfp.CalculateFingerprintFromParts("", body)
}

// AddFile records a written file.
func (m *RunManifest) AddFile(path, kind, entryID, body string) {
	m.Outputs.Files = append(m.Outputs.Files, FileRecord{
		Path:        path,
		Kind:        kind,
		EntryID:     entryID,
		Fingerprint: Fingerprint(body),
		Bytes:       len(body),
	})
}

// Finish stamps the outcome of the run.
func (m *RunManifest) Finish(runErr error, elapsed time.Duration) {
	m.Duration = elapsed.Milliseconds()
	if runErr != nil {
		m.Status = StatusFailed
		m.Error = runErr.Error()
		return
	}
	m.Status = StatusSuccess
}

// ToJSON serializes the manifest to JSON.
func (m *RunManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*RunManifest, error) {
	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the run's inputs and the content of
// its outputs. Two runs with the same hash produced identical documents from
// identical inputs.
func (m *RunManifest) Hash() (string, error) {
	files := slices.Clone(m.Outputs.Files)
	slices.SortFunc(files, func(a, b FileRecord) int { return strings.Compare(a.Path, b.Path) })

	fingerprints := make([]string, 0, len(files))
	for _, f := range files {
		fingerprints = append(fingerprints, f.Path+"="+f.Fingerprint)
	}

	hashInput := struct {
		Queries    []string `json:"queries"`
		Excludes   []string `json:"excludes"`
		Format     string   `json:"format"`
		ConfigHash string   `json:"config_hash"`
		Files      []string `json:"files"`
	}{
		Queries:    m.Inputs.Queries,
		Excludes:   m.Inputs.Excludes,
		Format:     m.Inputs.Format,
		ConfigHash: m.Inputs.ConfigHash,
		Files:      fingerprints,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// DetectSource returns the HEAD revision of the git checkout containing dir,
// or nil when dir is not inside a repository.
func DetectSource(dir string) (*SourceRevision, error) {
	repo, err := ggit.PlainOpenWithOptions(dir, &ggit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, ggit.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	rev := &SourceRevision{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, nil
}
