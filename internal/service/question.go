package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"devflow-backend/internal/apperrors"
	"devflow-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	skip, limit, err := pageWindow(params.Page, params.PageSize)
	if err != nil {
		return nil, err
	}

	questions, total, err := s.questions.List(ctx, models.QuestionListQuery{
		Search: strings.TrimSpace(params.Search),
		Filter: params.Filter,
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to list questions", err)
	}

	details, err := s.resolveMany(ctx, questions)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Questions: details,
		IsNext:    total > skip+int64(len(questions)),
	}, nil
}

func (s *service) Hot(ctx context.Context) ([]models.QuestionDetail, error) {
	questions, err := s.questions.Hot(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to list hot questions", err)
	}
	return s.resolveMany(ctx, questions)
}

// GetByID returns the question with tag and author references resolved, or
// (nil, nil) when the id does not resolve. A fetch counts as a view.
func (s *service) GetByID(ctx context.Context, id bson.ObjectID) (*models.QuestionDetail, error) {
	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to load question", err)
	}
	if question == nil {
		return nil, nil
	}

	if err := s.questions.IncrementViews(ctx, id); err != nil {
		log.Printf("⚠️  Failed to count view for question %s: %v", id.Hex(), err)
	}

	details, err := s.resolveMany(ctx, []models.Question{*question})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *service) Create(ctx context.Context, params CreateParams) error {
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Content) == "" {
		return apperrors.New(apperrors.KindValidation, "title and content are required")
	}
	if params.Author.IsZero() {
		return apperrors.New(apperrors.KindValidation, "author is required")
	}

	question := &models.Question{
		Title:   params.Title,
		Content: params.Content,
		Author:  params.Author,
	}
	if err := s.questions.Insert(ctx, question); err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to create question", err)
	}

	// The question document exists from here on; anything that fails below
	// leaves it partially wired rather than rolling it back.
	tagIDs := make([]bson.ObjectID, 0, len(params.Tags))
	seen := make(map[bson.ObjectID]bool)
	for _, name := range params.Tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := s.tags.UpsertByName(ctx, name, question.ID)
		if err != nil {
			return apperrors.Wrap(apperrors.KindPartialFailure, fmt.Sprintf("question created but tag %q failed", name), err)
		}
		if !seen[tag.ID] {
			seen[tag.ID] = true
			tagIDs = append(tagIDs, tag.ID)
		}
	}
	if err := s.questions.SetTags(ctx, question.ID, tagIDs); err != nil {
		return apperrors.Wrap(apperrors.KindPartialFailure, "question created but tag attach failed", err)
	}

	interaction := &models.Interaction{
		User:     params.Author,
		Action:   models.ActionAskQuestion,
		Question: question.ID,
		Tags:     tagIDs,
	}
	if err := s.interactions.Insert(ctx, interaction); err != nil {
		return apperrors.Wrap(apperrors.KindPartialFailure, "question created but interaction record failed", err)
	}

	if err := s.users.IncrementReputation(ctx, params.Author, repAskQuestion); err != nil {
		return apperrors.Wrap(apperrors.KindPartialFailure, "question created but reputation update failed", err)
	}

	s.signal(ctx, params.Path)

	// Non-blocking, best-effort notification.
	go func() {
		subject := "New question posted"
		message := fmt.Sprintf("%q by %s", question.Title, params.Author.Hex())
		if err := s.notifier.Publish(context.Background(), subject, message); err != nil {
			log.Printf("⚠️  Failed to publish notification: %v", err)
		}
	}()

	return nil
}

func (s *service) Edit(ctx context.Context, params EditParams) error {
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Content) == "" {
		return apperrors.New(apperrors.KindValidation, "title and content are required")
	}

	question, err := s.questions.FindByID(ctx, params.QuestionID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to load question", err)
	}
	if question == nil {
		return apperrors.New(apperrors.KindNotFound, "question not found")
	}

	if err := s.questions.UpdateContent(ctx, params.QuestionID, params.Title, params.Content); err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to update question", err)
	}

	s.signal(ctx, params.Path)
	return nil
}

// Delete removes the question, cascades to its answers and interactions,
// pulls its reference from every tag, and takes back the ask reputation.
// After the question document is gone, every remaining cascade step still
// runs even if an earlier one fails, so repeated calls converge.
func (s *service) Delete(ctx context.Context, params DeleteParams) error {
	question, err := s.questions.FindByID(ctx, params.QuestionID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to load question", err)
	}
	if question == nil {
		return apperrors.New(apperrors.KindNotFound, "question not found")
	}

	if err := s.questions.Delete(ctx, params.QuestionID); err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to delete question", err)
	}

	var failed []error
	if err := s.answers.DeleteByQuestion(ctx, params.QuestionID); err != nil {
		failed = append(failed, fmt.Errorf("answers: %w", err))
	}
	if err := s.interactions.DeleteByQuestion(ctx, params.QuestionID); err != nil {
		failed = append(failed, fmt.Errorf("interactions: %w", err))
	}
	if err := s.tags.PullQuestion(ctx, params.QuestionID); err != nil {
		failed = append(failed, fmt.Errorf("tags: %w", err))
	}
	if err := s.users.IncrementReputation(ctx, question.Author, -repAskQuestion); err != nil {
		failed = append(failed, fmt.Errorf("reputation: %w", err))
	}
	if len(failed) > 0 {
		return apperrors.Wrap(apperrors.KindPartialFailure, "question deleted but cascade incomplete", errors.Join(failed...))
	}

	s.signal(ctx, params.Path)
	return nil
}

func (s *service) Recommended(ctx context.Context, params RecommendedParams) (*ListResult, error) {
	if params.ExternalUserID == "" {
		return nil, apperrors.New(apperrors.KindValidation, "user id is required")
	}
	skip, limit, err := pageWindow(params.Page, params.PageSize)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByExternalID(ctx, params.ExternalUserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "user not found")
	}

	interactions, err := s.interactions.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to load interactions", err)
	}

	// Distinct tags across the user's interaction history. Kept non-nil so
	// an empty history matches nothing instead of everything.
	tagIDs := make([]bson.ObjectID, 0)
	seen := make(map[bson.ObjectID]bool)
	for _, interaction := range interactions {
		for _, tagID := range interaction.Tags {
			if !seen[tagID] {
				seen[tagID] = true
				tagIDs = append(tagIDs, tagID)
			}
		}
	}

	questions, total, err := s.questions.List(ctx, models.QuestionListQuery{
		Search:        strings.TrimSpace(params.Search),
		TagIDs:        tagIDs,
		ExcludeAuthor: user.ID,
		Skip:          skip,
		Limit:         limit,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to list recommendations", err)
	}

	details, err := s.resolveMany(ctx, questions)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Questions: details,
		IsNext:    total > skip+int64(len(questions)),
	}, nil
}

// resolveMany batches tag and author lookups for a page of questions and
// attaches the minimal display projections.
func (s *service) resolveMany(ctx context.Context, questions []models.Question) ([]models.QuestionDetail, error) {
	details := make([]models.QuestionDetail, 0, len(questions))
	if len(questions) == 0 {
		return details, nil
	}

	var tagIDs, authorIDs []bson.ObjectID
	seenTags := make(map[bson.ObjectID]bool)
	seenAuthors := make(map[bson.ObjectID]bool)
	for _, q := range questions {
		for _, id := range q.Tags {
			if !seenTags[id] {
				seenTags[id] = true
				tagIDs = append(tagIDs, id)
			}
		}
		if !seenAuthors[q.Author] {
			seenAuthors[q.Author] = true
			authorIDs = append(authorIDs, q.Author)
		}
	}

	tagsByID := make(map[bson.ObjectID]models.Tag)
	if len(tagIDs) > 0 {
		tags, err := s.tags.FindManyByIDs(ctx, tagIDs)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to resolve tags", err)
		}
		for _, tag := range tags {
			tagsByID[tag.ID] = tag
		}
	}

	usersByID := make(map[bson.ObjectID]models.User)
	users, err := s.users.FindManyByIDs(ctx, authorIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to resolve authors", err)
	}
	for _, user := range users {
		usersByID[user.ID] = user
	}

	for _, q := range questions {
		detail := models.QuestionDetail{Question: q, TagRefs: make([]models.TagRef, 0, len(q.Tags))}
		for _, id := range q.Tags {
			if tag, ok := tagsByID[id]; ok {
				detail.TagRefs = append(detail.TagRefs, models.TagRef{ID: tag.ID, Name: tag.Name})
			}
		}
		if author, ok := usersByID[q.Author]; ok {
			detail.AuthorRef = models.AuthorRef{ID: author.ID, Name: author.Name, Picture: author.Picture}
		}
		details = append(details, detail)
	}
	return details, nil
}
