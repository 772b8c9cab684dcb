package app

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/weirdsynths/ideasd/internal/domain"
)

const (
	// Normalized scores at or above this route a rating to approved:
	// 4-5 stars count as endorsement, 1-3 as rejection signal.
	approveThreshold = 0.6

	// Weak negative learning signal for ideas sent back for revision,
	// distinct from outright rejection.
	revisionScore = 0.3
)

type FeedUpdater interface {
	UpdateFeed() error
}

// ApprovalService applies reviewer decisions to the store and feeds the
// outcome back into the preference model. Transitions on a single idea id
// are serialized; the last operation to take the per-id lock wins.
type ApprovalService struct {
	Store IdeaStore
	Prefs *PreferenceModel
	Feed  FeedUpdater
	Now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewApprovalService(store IdeaStore, prefs *PreferenceModel, feed FeedUpdater) *ApprovalService {
	return &ApprovalService{
		Store: store,
		Prefs: prefs,
		Feed:  feed,
		Now:   time.Now,
		locks: map[string]*sync.Mutex{},
	}
}

func (s *ApprovalService) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *ApprovalService) Approve(id string, critique string) (*domain.Idea, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	idea, err := s.Store.Find(id)

	if err != nil {
		return nil, err
	}

	rating := 1.0
	idea.Status = domain.StatusApproved
	idea.Rating = &rating
	idea.Critique = critique
	idea.ApprovedAt = s.Now().Format(time.RFC3339)

	if err = s.Store.Move(*idea, domain.StatusApproved); err != nil {
		return nil, err
	}

	s.Prefs.RecordApproval(*idea, critique)
	s.updateFeed()

	slog.Info(fmt.Sprintf("approved: %s (%s)", idea.Name, id))
	return idea, nil
}

func (s *ApprovalService) Reject(id string, reason string) (*domain.Idea, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	idea, err := s.Store.Find(id)

	if err != nil {
		return nil, err
	}

	rating := 0.0
	idea.Status = domain.StatusRejected
	idea.Rating = &rating
	idea.Critique = reason
	idea.ApprovedAt = ""

	if err = s.Store.Move(*idea, domain.StatusRejected); err != nil {
		return nil, err
	}

	s.Prefs.RecordRejection(*idea, reason)

	slog.Info(fmt.Sprintf("rejected: %s (%s)", idea.Name, id))
	return idea, nil
}

// Rate normalizes a 1-5 star rating to [0,1] and routes the idea to
// approved or rejected around the threshold. The continuous score reaches
// the preference model either way.
func (s *ApprovalService) Rate(id string, stars float64, critique string) (*domain.Idea, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	idea, err := s.Store.Find(id)

	if err != nil {
		return nil, err
	}

	if stars < 1 {
		stars = 1
	} else if stars > 5 {
		stars = 5
	}
	score := (stars - 1) / 4.0

	idea.Rating = &score
	idea.Critique = critique

	if score >= approveThreshold {
		idea.Status = domain.StatusApproved
		idea.ApprovedAt = s.Now().Format(time.RFC3339)
	} else {
		idea.Status = domain.StatusRejected
		idea.ApprovedAt = ""
	}

	if err = s.Store.Move(*idea, idea.Status); err != nil {
		return nil, err
	}

	s.Prefs.RecordJudgment(*idea, score, critique)
	if idea.Status == domain.StatusApproved {
		s.updateFeed()
	}

	slog.Info(fmt.Sprintf("rated %.0f/5: %s (%s)", stars, idea.Name, id))
	return idea, nil
}

func (s *ApprovalService) RequestChanges(id string, notes string) (*domain.Idea, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	idea, err := s.Store.Find(id)

	if err != nil {
		return nil, err
	}

	idea.Status = domain.StatusNeedsRevision
	idea.Critique = notes

	if err = s.Store.Move(*idea, domain.StatusNeedsRevision); err != nil {
		return nil, err
	}

	s.Prefs.RecordJudgment(*idea, revisionScore, notes)

	slog.Info(fmt.Sprintf("changes requested: %s (%s)", idea.Name, id))
	return idea, nil
}

func (s *ApprovalService) ListPending() ([]domain.Idea, error) {
	return s.Store.ListPending()
}

// The feed is derived data recomputed on every approval; a failure here
// must not fail the transition itself.
func (s *ApprovalService) updateFeed() {
	err := s.Feed.UpdateFeed()

	if err != nil {
		slog.Error(fmt.Sprintf("failed to update feed: %s", err.Error()))
	}
}
