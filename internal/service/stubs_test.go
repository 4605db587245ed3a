package service

import (
	"context"

	"bailanysta/internal/cursor"
	"bailanysta/internal/models"
	"bailanysta/internal/repository"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	fetchPostsPageFn   func(context.Context, repository.PostFilter, *cursor.Key, int) ([]*models.Post, error)
	fetchPostByIDFn    func(context.Context, uint) (*models.Post, error)
	fetchPostsByIDsFn  func(context.Context, []uint) (map[uint]*models.Post, error)
	searchCandidatesFn func(context.Context, []string, int) ([]*models.Post, error)
	createFn           func(context.Context, *models.Post) error
	updateTextFn       func(context.Context, *models.Post, string) error
	deleteFn           func(context.Context, *models.Post) error
}

func (s *postRepoStub) FetchPostsPage(ctx context.Context, filter repository.PostFilter, after *cursor.Key, limit int) ([]*models.Post, error) {
	return s.fetchPostsPageFn(ctx, filter, after, limit)
}
func (s *postRepoStub) FetchPostByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.fetchPostByIDFn(ctx, id)
}
func (s *postRepoStub) FetchPostsByIDs(ctx context.Context, ids []uint) (map[uint]*models.Post, error) {
	return s.fetchPostsByIDsFn(ctx, ids)
}
func (s *postRepoStub) SearchCandidates(ctx context.Context, terms []string, limit int) ([]*models.Post, error) {
	return s.searchCandidatesFn(ctx, terms, limit)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) UpdateText(ctx context.Context, post *models.Post, text string) error {
	return s.updateTextFn(ctx, post, text)
}
func (s *postRepoStub) Delete(ctx context.Context, post *models.Post) error {
	return s.deleteFn(ctx, post)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		fetchPostsPageFn: func(_ context.Context, _ repository.PostFilter, _ *cursor.Key, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		fetchPostByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return nil, nil },
		fetchPostsByIDsFn: func(_ context.Context, _ []uint) (map[uint]*models.Post, error) {
			return map[uint]*models.Post{}, nil
		},
		searchCandidatesFn: func(_ context.Context, _ []string, _ int) ([]*models.Post, error) { return nil, nil },
		createFn:           func(_ context.Context, _ *models.Post) error { return nil },
		updateTextFn:       func(_ context.Context, _ *models.Post, _ string) error { return nil },
		deleteFn:           func(_ context.Context, _ *models.Post) error { return nil },
	}
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	fetchLikeFn           func(context.Context, uint, uint) (bool, error)
	insertLikeFn          func(context.Context, uint, uint) (bool, error)
	deleteLikeFn          func(context.Context, uint, uint) (bool, error)
	likedPostIDsFn        func(context.Context, uint, []uint) ([]uint, error)
	insertRepostFn        func(context.Context, uint, uint) (*models.Post, bool, error)
	findRepostFn          func(context.Context, uint, uint) (*models.Post, error)
	repostedOriginalIDsFn func(context.Context, uint, []uint) ([]uint, error)
	liveCountsFn          func(context.Context, []uint) (map[uint]models.EngagementCounts, error)
}

func (s *engagementRepoStub) FetchLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.fetchLikeFn(ctx, userID, postID)
}
func (s *engagementRepoStub) InsertLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.insertLikeFn(ctx, userID, postID)
}
func (s *engagementRepoStub) DeleteLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.deleteLikeFn(ctx, userID, postID)
}
func (s *engagementRepoStub) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	return s.likedPostIDsFn(ctx, userID, postIDs)
}
func (s *engagementRepoStub) InsertRepost(ctx context.Context, userID, originalID uint) (*models.Post, bool, error) {
	return s.insertRepostFn(ctx, userID, originalID)
}
func (s *engagementRepoStub) FindRepostByUserAndOriginal(ctx context.Context, userID, originalID uint) (*models.Post, error) {
	return s.findRepostFn(ctx, userID, originalID)
}
func (s *engagementRepoStub) RepostedOriginalIDs(ctx context.Context, userID uint, originalIDs []uint) ([]uint, error) {
	return s.repostedOriginalIDsFn(ctx, userID, originalIDs)
}
func (s *engagementRepoStub) LiveCounts(ctx context.Context, postIDs []uint) (map[uint]models.EngagementCounts, error) {
	return s.liveCountsFn(ctx, postIDs)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		fetchLikeFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		insertLikeFn:   func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteLikeFn:   func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		likedPostIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		insertRepostFn: func(_ context.Context, userID, originalID uint) (*models.Post, bool, error) {
			return &models.Post{ID: 100, AuthorID: userID, OriginalPostID: &originalID}, true, nil
		},
		findRepostFn:          func(_ context.Context, _, _ uint) (*models.Post, error) { return nil, nil },
		repostedOriginalIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		liveCountsFn: func(_ context.Context, _ []uint) (map[uint]models.EngagementCounts, error) {
			return map[uint]models.EngagementCounts{}, nil
		},
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	fetchFollowSetFn func(context.Context, uint) ([]uint, error)
	insertFn         func(context.Context, uint, uint) (bool, error)
	deleteFn         func(context.Context, uint, uint) (bool, error)
}

func (s *followRepoStub) FetchFollowSet(ctx context.Context, userID uint) ([]uint, error) {
	return s.fetchFollowSetFn(ctx, userID)
}
func (s *followRepoStub) Insert(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.insertFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followeeID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		fetchFollowSetFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		insertFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	countsFn        func(context.Context, uint) (models.UserCounts, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Counts(ctx context.Context, id uint) (models.UserCounts, error) {
	return s.countsFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user"}, nil
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		},
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		countsFn: func(_ context.Context, _ uint) (models.UserCounts, error) { return models.UserCounts{}, nil },
	}
}
