package service

import (
	"context"

	"devflow-backend/internal/apperrors"
	"devflow-backend/internal/models"
)

type voteKind int

const (
	voteUp voteKind = iota
	voteDown
)

// voteTransition maps the caller-reported state of a (question, user) pair
// to the set mutations for one vote action:
//
//	same kind already applied  -> toggle off
//	opposite kind applied      -> switch sets
//	no vote                    -> add
//
// The reported state is trusted as-is; the store mutations use set
// semantics, so a stale report cannot leave the user in both sets.
func voteTransition(kind voteKind, hasUpvoted, hasDownvoted bool) models.VoteUpdate {
	var change models.VoteUpdate
	switch kind {
	case voteUp:
		switch {
		case hasUpvoted:
			change.PullUpvote = true
		case hasDownvoted:
			change.PullDownvote = true
			change.AddUpvote = true
		default:
			change.AddUpvote = true
		}
	case voteDown:
		switch {
		case hasDownvoted:
			change.PullDownvote = true
		case hasUpvoted:
			change.PullUpvote = true
			change.AddDownvote = true
		default:
			change.AddDownvote = true
		}
	}
	return change
}

// voteSign is -1 only when the call removes a previously-applied vote of
// the same kind (a toggle off); switching from the opposite kind counts as
// an add and keeps the positive sign.
func voteSign(kind voteKind, hasUpvoted, hasDownvoted bool) int64 {
	if (kind == voteUp && hasUpvoted) || (kind == voteDown && hasDownvoted) {
		return -1
	}
	return 1
}

func (s *service) Upvote(ctx context.Context, params VoteParams) error {
	return s.vote(ctx, params, voteUp)
}

func (s *service) Downvote(ctx context.Context, params VoteParams) error {
	return s.vote(ctx, params, voteDown)
}

func (s *service) vote(ctx context.Context, params VoteParams, kind voteKind) error {
	if params.QuestionID.IsZero() || params.UserID.IsZero() {
		return apperrors.New(apperrors.KindValidation, "question id and user id are required")
	}

	question, err := s.questions.FindByID(ctx, params.QuestionID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to load question", err)
	}
	if question == nil {
		return apperrors.New(apperrors.KindNotFound, "question not found")
	}

	change := voteTransition(kind, params.HasUpvoted, params.HasDownvoted)
	if err := s.questions.ApplyVote(ctx, params.QuestionID, params.UserID, change); err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to update vote sets", err)
	}

	// Vote sets are already mutated; reputation failures leave partial state.
	sign := voteSign(kind, params.HasUpvoted, params.HasDownvoted)
	if err := s.users.IncrementReputation(ctx, params.UserID, sign*repVoteVoter); err != nil {
		return apperrors.Wrap(apperrors.KindPartialFailure, "vote applied but voter reputation update failed", err)
	}
	if err := s.users.IncrementReputation(ctx, question.Author, sign*repVoteReceiver); err != nil {
		return apperrors.Wrap(apperrors.KindPartialFailure, "vote applied but author reputation update failed", err)
	}

	s.signal(ctx, params.Path)
	return nil
}
