// Package backup snapshots files before destructive commands run and
// restores them on demand. Backups are plain directory copies with a
// JSON index; nothing here is compressed or deduplicated.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wardproject/ward/internal/utils"
)

// ErrBackupNotFound is returned when no backup matches the given ID.
var ErrBackupNotFound = errors.New("backup not found")

// ItemResult records the outcome of backing up or restoring one path.
type ItemResult struct {
	Source   string `json:"source"`
	StoredAs string `json:"stored_as,omitempty"`
	Size     int64  `json:"size,omitempty"`
	IsDir    bool   `json:"is_dir,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Record is the persisted metadata of one backup.
type Record struct {
	ID        string       `json:"id"`
	Label     string       `json:"label,omitempty"`
	Command   string       `json:"command,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Items     []ItemResult `json:"items"`
	TotalSize int64        `json:"total_size"`
}

// index is the on-disk list of all backups, rewritten wholesale on
// every mutation.
type index struct {
	Backups []Record `json:"backups"`
}

// Manager creates, lists, restores, and deletes backups under a root
// directory (typically ~/.ward/backups).
type Manager struct {
	root string
	now  func() time.Time
}

// NewManager creates a manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{root: dir, now: time.Now}
}

// Root returns the backup root directory.
func (m *Manager) Root() string {
	return m.root
}

// Create copies each path, file or directory tree, into a new backup
// directory. Missing paths are skipped, not errors. If nothing could be
// backed up, the empty backup is discarded and Create returns (nil, nil).
func (m *Manager) Create(label, command string, paths []string) (*Record, error) {
	id := m.now().Format("20060102-150405") + "-" + uuid.NewString()[:8]
	dir := filepath.Join(m.root, id)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating backup dir: %w", err)
	}

	rec := Record{
		ID:        id,
		Label:     label,
		Command:   command,
		CreatedAt: m.now(),
	}

	copied := 0
	for i, src := range paths {
		item := ItemResult{Source: src}
		info, err := os.Stat(src)
		switch {
		case errors.Is(err, os.ErrNotExist):
			item.Skipped = true
			item.Reason = "source does not exist"
		case err != nil:
			item.Skipped = true
			item.Reason = err.Error()
		case info.IsDir():
			stored := fmt.Sprintf("%03d-%s", i, filepath.Base(src))
			size, err := copyTree(src, filepath.Join(dir, stored))
			if err != nil {
				item.Skipped = true
				item.Reason = err.Error()
			} else {
				item.StoredAs = stored
				item.IsDir = true
				item.Size = size
				rec.TotalSize += size
				copied++
			}
		default:
			stored := fmt.Sprintf("%03d-%s", i, filepath.Base(src))
			size, err := copyFile(src, filepath.Join(dir, stored))
			if err != nil {
				item.Skipped = true
				item.Reason = err.Error()
			} else {
				item.StoredAs = stored
				item.Size = size
				rec.TotalSize += size
				copied++
			}
		}
		rec.Items = append(rec.Items, item)
	}

	if copied == 0 {
		// Nothing captured: drop the empty directory instead of
		// polluting the index.
		if err := os.RemoveAll(dir); err != nil {
			utils.Warn("removing empty backup dir", "dir", dir, "err", err)
		}
		return nil, nil
	}

	if err := m.appendToIndex(rec); err != nil {
		return nil, err
	}
	utils.Info("backup created", "id", rec.ID, "items", copied, "size", utils.HumanSize(rec.TotalSize))
	return &rec, nil
}

// List returns all backups, newest first.
func (m *Manager) List() ([]Record, error) {
	idx, err := m.loadIndex()
	if err != nil {
		return nil, err
	}
	sort.Slice(idx.Backups, func(i, j int) bool {
		return idx.Backups[i].CreatedAt.After(idx.Backups[j].CreatedAt)
	})
	return idx.Backups, nil
}

// Get returns one backup record by ID.
func (m *Manager) Get(id string) (*Record, error) {
	idx, err := m.loadIndex()
	if err != nil {
		return nil, err
	}
	for _, rec := range idx.Backups {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, id)
}

// Restore copies each backed-up item to its original path. Restoration is
// best effort: a failing item is reported in the results and the rest
// continue.
func (m *Manager) Restore(id string) ([]ItemResult, error) {
	rec, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(m.root, rec.ID)
	var results []ItemResult
	for _, item := range rec.Items {
		if item.Skipped {
			continue
		}
		res := ItemResult{Source: item.Source, StoredAs: item.StoredAs, IsDir: item.IsDir}
		if err := os.MkdirAll(filepath.Dir(item.Source), 0o755); err != nil {
			res.Skipped = true
			res.Reason = err.Error()
			results = append(results, res)
			continue
		}
		// Replace, never merge: whatever is at the original path now goes
		// away before the snapshot comes back.
		if err := os.RemoveAll(item.Source); err != nil {
			res.Skipped = true
			res.Reason = err.Error()
			results = append(results, res)
			continue
		}
		stored := filepath.Join(dir, item.StoredAs)
		var size int64
		var err error
		if item.IsDir {
			size, err = copyTree(stored, item.Source)
		} else {
			size, err = copyFile(stored, item.Source)
		}
		if err != nil {
			res.Skipped = true
			res.Reason = err.Error()
		} else {
			res.Size = size
		}
		results = append(results, res)
	}
	utils.Info("backup restored", "id", rec.ID, "items", len(results))
	return results, nil
}

// Delete removes a backup's files and its index entry.
func (m *Manager) Delete(id string) error {
	idx, err := m.loadIndex()
	if err != nil {
		return err
	}

	kept := idx.Backups[:0]
	found := false
	for _, rec := range idx.Backups {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrBackupNotFound, id)
	}
	idx.Backups = kept

	if err := os.RemoveAll(filepath.Join(m.root, id)); err != nil {
		return fmt.Errorf("removing backup files: %w", err)
	}
	return m.saveIndex(idx)
}

func (m *Manager) indexPath() string {
	return filepath.Join(m.root, "index.json")
}

func (m *Manager) loadIndex() (*index, error) {
	data, err := os.ReadFile(m.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &index{}, nil
		}
		return nil, fmt.Errorf("reading backup index: %w", err)
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing backup index: %w", err)
	}
	return &idx, nil
}

func (m *Manager) appendToIndex(rec Record) error {
	idx, err := m.loadIndex()
	if err != nil {
		return err
	}
	idx.Backups = append(idx.Backups, rec)
	return m.saveIndex(idx)
}

func (m *Manager) saveIndex(idx *index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding backup index: %w", err)
	}
	if err := os.MkdirAll(m.root, 0o700); err != nil {
		return fmt.Errorf("creating backup root: %w", err)
	}
	if err := os.WriteFile(m.indexPath(), data, 0o600); err != nil {
		return fmt.Errorf("writing backup index: %w", err)
	}
	return nil
}

// copyTree recursively copies a directory, returning the total size of
// the files copied.
func copyTree(src, dst string) (int64, error) {
	var total int64
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		n, err := copyFile(path, target)
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	return total, err
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return 0, fmt.Errorf("copying %s: %w", src, err)
	}
	return n, nil
}
