package service

import (
	"context"
	"log"

	"devflow-backend/internal/apperrors"
	"devflow-backend/internal/models"
	"devflow-backend/internal/notify"
	"devflow-backend/internal/revalidate"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const defaultPageSize = 10

// Reputation deltas. Voting costs the voter little and signals the author
// a lot; the magnitudes are part of the scoring contract.
const (
	repAskQuestion  = 5
	repVoteVoter    = 2
	repVoteReceiver = 10
)

// QuestionStore is the question-collection surface the service needs.
type QuestionStore interface {
	Insert(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Question, error)
	List(ctx context.Context, query models.QuestionListQuery) ([]models.Question, int64, error)
	Hot(ctx context.Context) ([]models.Question, error)
	SetTags(ctx context.Context, id bson.ObjectID, tagIDs []bson.ObjectID) error
	UpdateContent(ctx context.Context, id bson.ObjectID, title, content string) error
	ApplyVote(ctx context.Context, id, userID bson.ObjectID, change models.VoteUpdate) error
	IncrementViews(ctx context.Context, id bson.ObjectID) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type TagStore interface {
	UpsertByName(ctx context.Context, name string, questionID bson.ObjectID) (*models.Tag, error)
	FindManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Tag, error)
	PullQuestion(ctx context.Context, questionID bson.ObjectID) error
}

type UserStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	FindManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.User, error)
	IncrementReputation(ctx context.Context, id bson.ObjectID, delta int64) error
}

type InteractionStore interface {
	Insert(ctx context.Context, interaction *models.Interaction) error
	ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Interaction, error)
	DeleteByQuestion(ctx context.Context, questionID bson.ObjectID) error
}

type AnswerStore interface {
	DeleteByQuestion(ctx context.Context, questionID bson.ObjectID) error
}

// --- Operation inputs / outputs ---

type ListParams struct {
	Search   string
	Filter   string
	Page     int64
	PageSize int64
}

type ListResult struct {
	Questions []models.QuestionDetail `json:"questions"`
	IsNext    bool                    `json:"is_next"`
}

type CreateParams struct {
	Title   string
	Content string
	Tags    []string
	Author  bson.ObjectID
	Path    string
}

type EditParams struct {
	QuestionID bson.ObjectID
	Title      string
	Content    string
	Path       string
}

type DeleteParams struct {
	QuestionID bson.ObjectID
	Path       string
}

type VoteParams struct {
	QuestionID   bson.ObjectID
	UserID       bson.ObjectID
	HasUpvoted   bool
	HasDownvoted bool
	Path         string
}

type RecommendedParams struct {
	ExternalUserID string
	Search         string
	Page           int64
	PageSize       int64
}

// Service exposes the question data operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Hot(ctx context.Context) ([]models.QuestionDetail, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*models.QuestionDetail, error)
	Create(ctx context.Context, params CreateParams) error
	Edit(ctx context.Context, params EditParams) error
	Delete(ctx context.Context, params DeleteParams) error
	Upvote(ctx context.Context, params VoteParams) error
	Downvote(ctx context.Context, params VoteParams) error
	Recommended(ctx context.Context, params RecommendedParams) (*ListResult, error)
}

type service struct {
	questions    QuestionStore
	tags         TagStore
	users        UserStore
	interactions InteractionStore
	answers      AnswerStore
	signaler     revalidate.Signaler
	notifier     notify.Notifier
}

// NewService wires the question service over its stores and side channels.
func NewService(
	questions QuestionStore,
	tags TagStore,
	users UserStore,
	interactions InteractionStore,
	answers AnswerStore,
	signaler revalidate.Signaler,
	notifier notify.Notifier,
) Service {
	return &service{
		questions:    questions,
		tags:         tags,
		users:        users,
		interactions: interactions,
		answers:      answers,
		signaler:     signaler,
		notifier:     notifier,
	}
}

// signal fires the cache-invalidation webhook. Best-effort: failures are
// logged and never fail the operation that triggered them.
func (s *service) signal(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.signaler.Revalidate(ctx, path); err != nil {
		log.Printf("⚠️  Revalidate signal failed for %s: %v", path, err)
	}
}

// pageWindow turns 1-based page params into skip/limit, defaulting absent
// values to page 1 and 10 per page.
func pageWindow(page, pageSize int64) (skip, limit int64, err error) {
	if page < 0 || pageSize < 0 {
		return 0, 0, apperrors.New(apperrors.KindValidation, "page and pageSize must be >= 1")
	}
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	return (page - 1) * pageSize, pageSize, nil
}
