package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/weirdsynths/ideasd/internal/domain"
)

// IdeaStore is the file-backed record of ideas and batches. Every idea lives
// in exactly one status partition (a directory named after the status);
// moving between partitions writes the destination first via temp-file
// rename, then clears the other partitions, so a record is never missing.
type IdeaStore struct {
	Root string
}

var partitions = []string{
	domain.StatusPending,
	domain.StatusApproved,
	domain.StatusRejected,
	domain.StatusNeedsRevision,
}

func (s IdeaStore) EnsureDirs() error {
	dirs := append([]string{"batches"}, partitions...)
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(s.Root, dir), 0755); err != nil {
			return err
		}
	}
	return nil
}

func (s IdeaStore) batchPath(date string) string {
	return filepath.Join(s.Root, "batches", date+".json")
}

func (s IdeaStore) ideaPath(partition string, id string) string {
	return filepath.Join(s.Root, partition, id+".json")
}

func writeJSONAtomic(path string, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")

	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")

	if err != nil {
		return err
	}

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func readJSONFile[T any](path string) (*T, error) {
	content, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	var t *T
	err = json.Unmarshal(content, &t)

	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s IdeaStore) SaveBatch(batch domain.Batch) error {
	return writeJSONAtomic(s.batchPath(batch.Date), batch)
}

func (s IdeaStore) LoadBatch(date string) (*domain.Batch, error) {
	return readJSONFile[domain.Batch](s.batchPath(date))
}

func (s IdeaStore) BatchExists(date string) bool {
	_, err := os.Stat(s.batchPath(date))
	return err == nil
}

// WritePending replaces the pending partition with the given ideas. Stale
// records from a previous day are cleared first.
func (s IdeaStore) WritePending(ideas []domain.Idea) error {
	dir := filepath.Join(s.Root, domain.StatusPending)
	entries, err := os.ReadDir(dir)

	if err != nil {
		return err
	}

	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			if err = os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}

	for i := range ideas {
		if err = writeJSONAtomic(s.ideaPath(domain.StatusPending, ideas[i].Id), ideas[i]); err != nil {
			return err
		}
	}

	return nil
}

func (s IdeaStore) ListPending() ([]domain.Idea, error) {
	return s.listPartition(domain.StatusPending)
}

func (s IdeaStore) ListApproved() ([]domain.Idea, error) {
	return s.listPartition(domain.StatusApproved)
}

func (s IdeaStore) listPartition(partition string) ([]domain.Idea, error) {
	dir := filepath.Join(s.Root, partition)
	entries, err := os.ReadDir(dir)

	if err != nil {
		return nil, err
	}

	ideas := make([]domain.Idea, 0, len(entries))
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		idea, err := readJSONFile[domain.Idea](filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		ideas = append(ideas, *idea)
	}

	sort.Slice(ideas, func(i, j int) bool { return ideas[i].Id < ideas[j].Id })
	return ideas, nil
}

// Find locates an idea by id: the pending partition first, then historical
// batches newest-first. Batch lookup supports acting on an idea whose
// pending record was already cleared by a later generation.
func (s IdeaStore) Find(id string) (*domain.Idea, error) {
	idea, err := readJSONFile[domain.Idea](s.ideaPath(domain.StatusPending, id))
	if err == nil {
		return idea, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	dates, err := s.batchDates()

	if err != nil {
		return nil, err
	}

	for _, date := range dates {
		batch, err := s.LoadBatch(date)
		if err != nil {
			return nil, err
		}
		for i := range batch.Ideas {
			if batch.Ideas[i].Id == id {
				return &batch.Ideas[i], nil
			}
		}
	}

	return nil, domain.ErrNotFound
}

// Move writes the idea into the partition matching status and clears every
// other partition. The destination write lands first so no reader ever sees
// the id in zero partitions.
func (s IdeaStore) Move(idea domain.Idea, status string) error {
	if err := writeJSONAtomic(s.ideaPath(status, idea.Id), idea); err != nil {
		return fmt.Errorf("move %s to %s: %w", idea.Id, status, err)
	}

	for _, p := range partitions {
		if p == status {
			continue
		}
		if err := os.Remove(s.ideaPath(p, idea.Id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("move %s to %s: %w", idea.Id, status, err)
		}
	}

	return nil
}

// batchDates returns all batch dates newest-first.
func (s IdeaStore) batchDates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.Root, "batches"))

	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			dates = append(dates, strings.TrimSuffix(e.Name(), ".json"))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// RecentNames collects idea names from batches of the last N days, scanning
// newest-first and stopping at the first batch older than the cutoff.
func (s IdeaStore) RecentNames(days int) ([]string, error) {
	dates, err := s.batchDates()

	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	var names []string
	for _, date := range dates {
		if date < cutoff {
			break
		}
		batch, err := s.LoadBatch(date)
		if err != nil {
			continue
		}
		for i := range batch.Ideas {
			names = append(names, batch.Ideas[i].Name)
		}
	}

	return names, nil
}

func (s IdeaStore) WriteFeed(feed domain.Feed) error {
	return writeJSONAtomic(filepath.Join(s.Root, "feed.json"), feed)
}
