package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"headlines/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ model.ArticleStore = (*MemoryStore)(nil)
	_ model.NoteStore    = (*MemoryStore)(nil)
)

// MemoryStore is an in-memory ArticleStore and NoteStore with the same
// validation, ordering and conditional-update behavior as the Mongo repos.
// Creation times advance by a millisecond per article so ordering is strict.
type MemoryStore struct {
	mu       sync.Mutex
	articles map[primitive.ObjectID]model.Article
	notes    map[primitive.ObjectID]model.Note
	clock    time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles: make(map[primitive.ObjectID]model.Article),
		notes:    make(map[primitive.ObjectID]model.Note),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *MemoryStore) CreateArticle(_ context.Context, a *model.Article) error {
	if err := model.ValidateArticle(a); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Status == "" {
		a.Status = model.SaveStatus(a.IsSaved)
	}
	if a.Created.IsZero() {
		s.clock = s.clock.Add(time.Millisecond)
		a.Created = s.clock
	}
	a.ID = primitive.NewObjectID()
	s.articles[a.ID] = *a
	return nil
}

func (s *MemoryStore) ListArticles(_ context.Context, filter model.ArticleFilter) ([]*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles := []*model.Article{}
	for _, a := range s.articles {
		if filter.SavedOnly && !a.IsSaved {
			continue
		}
		articles = append(articles, &a)
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].Created.After(articles[j].Created)
	})
	return articles, nil
}

func (s *MemoryStore) CountArticles(ctx context.Context, filter model.ArticleFilter) (int64, error) {
	articles, err := s.ListArticles(ctx, filter)
	return int64(len(articles)), err
}

func (s *MemoryStore) GetArticle(_ context.Context, id string) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.lookup(id)
	if !ok {
		return nil, model.ErrArticleNotFound
	}
	return &a, nil
}

func (s *MemoryStore) UpdateArticleSaveState(_ context.Context, id string, saved bool) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.lookup(id)
	if !ok || a.IsSaved == saved {
		return nil, model.ErrSaveStateConflict
	}
	a.IsSaved = saved
	a.Status = model.SaveStatus(saved)
	s.articles[a.ID] = a
	return &a, nil
}

func (s *MemoryStore) AttachNote(_ context.Context, articleID string, noteID primitive.ObjectID) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.lookup(articleID)
	if !ok {
		return nil, model.ErrArticleNotFound
	}
	a.Note = &noteID
	s.articles[a.ID] = a
	return &a, nil
}

func (s *MemoryStore) GetArticleWithNote(_ context.Context, id string) (*model.ArticleWithNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.lookup(id)
	if !ok {
		return nil, model.ErrArticleNotFound
	}
	result := &model.ArticleWithNote{Article: a}
	if a.Note != nil {
		if n, ok := s.notes[*a.Note]; ok {
			result.NoteBody = &n
		}
	}
	return result, nil
}

func (s *MemoryStore) CreateNote(_ context.Context, n *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = primitive.NewObjectID()
	fields := make(map[string]string, len(n.Fields))
	for k, v := range n.Fields {
		fields[k] = v
	}
	s.notes[n.ID] = model.Note{ID: n.ID, Fields: fields}
	return nil
}

// NoteCount reports how many notes exist, attached or orphaned.
func (s *MemoryStore) NoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

func (s *MemoryStore) lookup(id string) (model.Article, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Article{}, false
	}
	a, ok := s.articles[oid]
	return a, ok
}
