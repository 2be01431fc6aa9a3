package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"devflow-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory store implementations mirroring the Mongo repositories'
// observable behavior, used to exercise the service without a database.

type memQuestions struct {
	mu    sync.Mutex
	items map[bson.ObjectID]*models.Question
	order []bson.ObjectID
}

func newMemQuestions() *memQuestions {
	return &memQuestions{items: make(map[bson.ObjectID]*models.Question)}
}

func (m *memQuestions) Insert(_ context.Context, question *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	question.ID = bson.NewObjectID()
	if question.Tags == nil {
		question.Tags = []bson.ObjectID{}
	}
	if question.Upvotes == nil {
		question.Upvotes = []bson.ObjectID{}
	}
	if question.Downvotes == nil {
		question.Downvotes = []bson.ObjectID{}
	}
	if question.Answers == nil {
		question.Answers = []bson.ObjectID{}
	}
	copied := *question
	m.items[question.ID] = &copied
	m.order = append(m.order, question.ID)
	return nil
}

func (m *memQuestions) FindByID(_ context.Context, id bson.ObjectID) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	copied := *q
	return &copied, nil
}

func (m *memQuestions) List(_ context.Context, query models.QuestionListQuery) ([]models.Question, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Question
	for _, id := range m.order {
		q := m.items[id]
		if query.Search != "" {
			s := strings.ToLower(query.Search)
			if !strings.Contains(strings.ToLower(q.Title), s) && !strings.Contains(strings.ToLower(q.Content), s) {
				continue
			}
		}
		if query.TagIDs != nil && !intersects(q.Tags, query.TagIDs) {
			continue
		}
		if !query.ExcludeAuthor.IsZero() && q.Author == query.ExcludeAuthor {
			continue
		}
		if query.Filter == models.FilterUnanswered && len(q.Answers) != 0 {
			continue
		}
		matched = append(matched, *q)
	}

	switch query.Filter {
	case models.FilterNewest:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	case models.FilterFrequent:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Views > matched[j].Views
		})
	}

	total := int64(len(matched))
	if query.Skip >= total {
		return nil, total, nil
	}
	matched = matched[query.Skip:]
	if query.Limit > 0 && int64(len(matched)) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, total, nil
}

func (m *memQuestions) Hot(_ context.Context) ([]models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.Question, 0, len(m.items))
	for _, id := range m.order {
		all = append(all, *m.items[id])
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Views != all[j].Views {
			return all[i].Views > all[j].Views
		}
		return len(all[i].Upvotes) > len(all[j].Upvotes)
	})
	if len(all) > 5 {
		all = all[:5]
	}
	return all, nil
}

func (m *memQuestions) SetTags(_ context.Context, id bson.ObjectID, tagIDs []bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.items[id]; ok {
		q.Tags = tagIDs
	}
	return nil
}

func (m *memQuestions) UpdateContent(_ context.Context, id bson.ObjectID, title, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.items[id]; ok {
		q.Title = title
		q.Content = content
	}
	return nil
}

func (m *memQuestions) ApplyVote(_ context.Context, id, userID bson.ObjectID, change models.VoteUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.items[id]
	if !ok {
		return nil
	}
	if change.PullUpvote {
		q.Upvotes = removeID(q.Upvotes, userID)
	}
	if change.PullDownvote {
		q.Downvotes = removeID(q.Downvotes, userID)
	}
	if change.AddUpvote {
		q.Upvotes = addID(q.Upvotes, userID)
	}
	if change.AddDownvote {
		q.Downvotes = addID(q.Downvotes, userID)
	}
	return nil
}

func (m *memQuestions) IncrementViews(_ context.Context, id bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.items[id]; ok {
		q.Views++
	}
	return nil
}

func (m *memQuestions) Delete(_ context.Context, id bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

type memTags struct {
	mu    sync.Mutex
	items map[bson.ObjectID]*models.Tag
}

func newMemTags() *memTags {
	return &memTags{items: make(map[bson.ObjectID]*models.Tag)}
}

func (m *memTags) UpsertByName(_ context.Context, name string, questionID bson.ObjectID) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range m.items {
		if strings.EqualFold(tag.Name, name) {
			tag.Questions = addID(tag.Questions, questionID)
			copied := *tag
			return &copied, nil
		}
	}
	tag := &models.Tag{
		ID:        bson.NewObjectID(),
		Name:      name,
		Questions: []bson.ObjectID{questionID},
	}
	m.items[tag.ID] = tag
	copied := *tag
	return &copied, nil
}

func (m *memTags) FindManyByIDs(_ context.Context, ids []bson.ObjectID) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var tags []models.Tag
	for _, id := range ids {
		if tag, ok := m.items[id]; ok {
			tags = append(tags, *tag)
		}
	}
	return tags, nil
}

func (m *memTags) PullQuestion(_ context.Context, questionID bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range m.items {
		tag.Questions = removeID(tag.Questions, questionID)
	}
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	items map[bson.ObjectID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{items: make(map[bson.ObjectID]*models.User)}
}

func (m *memUsers) add(user models.User) bson.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	m.items[user.ID] = &user
	return user.ID
}

func (m *memUsers) reputation(id bson.ObjectID) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.items[id]; ok {
		return user.Reputation
	}
	return 0
}

func (m *memUsers) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *memUsers) FindByExternalID(_ context.Context, externalID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.items {
		if user.ExternalID == externalID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindManyByIDs(_ context.Context, ids []bson.ObjectID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []models.User
	for _, id := range ids {
		if user, ok := m.items[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (m *memUsers) IncrementReputation(_ context.Context, id bson.ObjectID, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.items[id]; ok {
		user.Reputation += delta
	}
	return nil
}

type memInteractions struct {
	mu    sync.Mutex
	items []*models.Interaction
}

func newMemInteractions() *memInteractions {
	return &memInteractions{}
}

func (m *memInteractions) Insert(_ context.Context, interaction *models.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	interaction.ID = bson.NewObjectID()
	copied := *interaction
	m.items = append(m.items, &copied)
	return nil
}

func (m *memInteractions) ListByUser(_ context.Context, userID bson.ObjectID) ([]models.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interaction
	for _, interaction := range m.items {
		if interaction.User == userID {
			out = append(out, *interaction)
		}
	}
	return out, nil
}

func (m *memInteractions) DeleteByQuestion(_ context.Context, questionID bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	for _, interaction := range m.items {
		if interaction.Question != questionID {
			kept = append(kept, interaction)
		}
	}
	m.items = kept
	return nil
}

func (m *memInteractions) byQuestion(questionID bson.ObjectID) []models.Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interaction
	for _, interaction := range m.items {
		if interaction.Question == questionID {
			out = append(out, *interaction)
		}
	}
	return out
}

type memAnswers struct {
	mu    sync.Mutex
	items []*models.Answer
}

func newMemAnswers() *memAnswers {
	return &memAnswers{}
}

func (m *memAnswers) add(answer models.Answer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if answer.ID.IsZero() {
		answer.ID = bson.NewObjectID()
	}
	m.items = append(m.items, &answer)
}

func (m *memAnswers) countByQuestion(questionID bson.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, answer := range m.items {
		if answer.Question == questionID {
			n++
		}
	}
	return n
}

func (m *memAnswers) DeleteByQuestion(_ context.Context, questionID bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	for _, answer := range m.items {
		if answer.Question != questionID {
			kept = append(kept, answer)
		}
	}
	m.items = kept
	return nil
}

type recordingSignaler struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingSignaler) Revalidate(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return nil
}

func (r *recordingSignaler) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

type silentNotifier struct{}

func (silentNotifier) Publish(context.Context, string, string) error { return nil }

func addID(ids []bson.ObjectID, id bson.ObjectID) []bson.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []bson.ObjectID, id bson.ObjectID) []bson.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func intersects(a, b []bson.ObjectID) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
