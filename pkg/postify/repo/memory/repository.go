package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/madhvi-n/postify/pkg/postify"
)

type likeKey struct {
	userID uuid.UUID
	target postify.LikeTarget
}

type pairKey [2]uuid.UUID

// Repository implements postify.Repository using in-memory storage.
//
// A single lock guards all maps so that cascades and get-or-create are
// atomic. Slices of IDs keep insertion order for listings.
type Repository struct {
	mu sync.RWMutex

	users     map[uuid.UUID]*postify.User
	usernames map[string]uuid.UUID
	emails    map[string]uuid.UUID

	tags       map[uuid.UUID]*postify.Tag
	categories map[uuid.UUID]*postify.Category

	posts     map[uuid.UUID]*postify.Post
	postOrder []uuid.UUID
	slugs     map[string]uuid.UUID

	comments     map[uuid.UUID]*postify.Comment
	commentOrder []uuid.UUID

	likes     map[uuid.UUID]*postify.Like
	likeIndex map[likeKey]uuid.UUID

	follows     map[uuid.UUID]*postify.UserFollow
	followOrder []uuid.UUID
	followIndex map[pairKey]uuid.UUID

	tagFollows     map[uuid.UUID]*postify.TagFollow
	tagFollowOrder []uuid.UUID
	tagFollowIndex map[pairKey]uuid.UUID
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		users:          make(map[uuid.UUID]*postify.User),
		usernames:      make(map[string]uuid.UUID),
		emails:         make(map[string]uuid.UUID),
		tags:           make(map[uuid.UUID]*postify.Tag),
		categories:     make(map[uuid.UUID]*postify.Category),
		posts:          make(map[uuid.UUID]*postify.Post),
		slugs:          make(map[string]uuid.UUID),
		comments:       make(map[uuid.UUID]*postify.Comment),
		likes:          make(map[uuid.UUID]*postify.Like),
		likeIndex:      make(map[likeKey]uuid.UUID),
		follows:        make(map[uuid.UUID]*postify.UserFollow),
		followIndex:    make(map[pairKey]uuid.UUID),
		tagFollows:     make(map[uuid.UUID]*postify.TagFollow),
		tagFollowIndex: make(map[pairKey]uuid.UUID),
	}
}

var _ postify.Repository = (*Repository)(nil)

func copyPost(p *postify.Post) *postify.Post {
	c := *p
	if p.TagIDs != nil {
		c.TagIDs = append([]uuid.UUID(nil), p.TagIDs...)
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		c.CategoryID = &id
	}
	return &c
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *postify.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usernames[user.Username]; exists {
		return fmt.Errorf("username %q: %w", user.Username, postify.ErrConflict)
	}
	if _, exists := r.emails[user.Email]; exists {
		return fmt.Errorf("email %q: %w", user.Email, postify.ErrConflict)
	}
	if _, exists := r.users[user.ID]; exists {
		return postify.ErrConflict
	}

	userCopy := *user
	r.users[user.ID] = &userCopy
	r.usernames[user.Username] = user.ID
	r.emails[user.Email] = user.ID
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*postify.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*postify.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usernames[username]
	if !exists {
		return nil, postify.ErrNotFound
	}
	userCopy := *r.users[id]
	return &userCopy, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]*postify.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*postify.User, 0, len(r.users))
	for _, user := range r.users {
		userCopy := *user
		result = append(result, &userCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})
	return result, nil
}

func (r *Repository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return postify.ErrNotFound
	}

	for _, postID := range append([]uuid.UUID(nil), r.postOrder...) {
		if r.posts[postID].AuthorID == id {
			r.deletePostLocked(postID)
		}
	}
	for _, commentID := range append([]uuid.UUID(nil), r.commentOrder...) {
		if r.comments[commentID].AuthorID == id {
			r.deleteCommentLocked(commentID)
		}
	}
	for likeID, like := range r.likes {
		if like.UserID == id {
			r.deleteLikeLocked(likeID)
		}
	}
	for followID, f := range r.follows {
		if f.FollowerID == id || f.FollowedUserID == id {
			r.deleteUserFollowLocked(followID)
		}
	}
	for followID, f := range r.tagFollows {
		if f.FollowerID == id {
			r.deleteTagFollowLocked(followID)
		}
	}

	delete(r.usernames, user.Username)
	delete(r.emails, user.Email)
	delete(r.users, id)
	return nil
}

// Tag and category operations

func (r *Repository) CreateTag(ctx context.Context, tag *postify.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tags[tag.ID]; exists {
		return postify.ErrConflict
	}
	tagCopy := *tag
	r.tags[tag.ID] = &tagCopy
	return nil
}

func (r *Repository) GetTag(ctx context.Context, id uuid.UUID) (*postify.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tag, exists := r.tags[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	tagCopy := *tag
	return &tagCopy, nil
}

func (r *Repository) ListTags(ctx context.Context) ([]*postify.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*postify.Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		tagCopy := *tag
		result = append(result, &tagCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *Repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tags[id]; !exists {
		return postify.ErrNotFound
	}
	for _, post := range r.posts {
		post.TagIDs = removeID(post.TagIDs, id)
	}
	for followID, f := range r.tagFollows {
		if f.TagID == id {
			r.deleteTagFollowLocked(followID)
		}
	}
	delete(r.tags, id)
	return nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *postify.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[category.ID]; exists {
		return postify.ErrConflict
	}
	categoryCopy := *category
	r.categories[category.ID] = &categoryCopy
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*postify.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, exists := r.categories[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	categoryCopy := *category
	return &categoryCopy, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*postify.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*postify.Category, 0, len(r.categories))
	for _, category := range r.categories {
		categoryCopy := *category
		result = append(result, &categoryCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[id]; !exists {
		return postify.ErrNotFound
	}
	for _, post := range r.posts {
		if post.CategoryID != nil && *post.CategoryID == id {
			post.CategoryID = nil
		}
	}
	delete(r.categories, id)
	return nil
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *postify.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.slugs[post.Slug]; exists {
		return fmt.Errorf("slug %q: %w", post.Slug, postify.ErrConflict)
	}
	if _, exists := r.posts[post.ID]; exists {
		return postify.ErrConflict
	}
	if _, exists := r.users[post.AuthorID]; !exists {
		return fmt.Errorf("author %s: %w", post.AuthorID, postify.ErrNotFound)
	}
	if err := r.checkRefsLocked(post.TagIDs, post.CategoryID); err != nil {
		return err
	}

	r.posts[post.ID] = copyPost(post)
	r.postOrder = append(r.postOrder, post.ID)
	r.slugs[post.Slug] = post.ID
	return nil
}

func (r *Repository) checkRefsLocked(tagIDs []uuid.UUID, categoryID *uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, exists := r.tags[tagID]; !exists {
			return fmt.Errorf("tag %s: %w", tagID, postify.ErrNotFound)
		}
	}
	if categoryID != nil {
		if _, exists := r.categories[*categoryID]; !exists {
			return fmt.Errorf("category %s: %w", *categoryID, postify.ErrNotFound)
		}
	}
	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*postify.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	return copyPost(post), nil
}

func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*postify.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.slugs[slug]
	if !exists {
		return nil, postify.ErrNotFound
	}
	return copyPost(r.posts[id]), nil
}

func (r *Repository) UpdatePost(ctx context.Context, id uuid.UUID, changes postify.PostChanges) (*postify.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	var tagIDs []uuid.UUID
	if changes.ReplaceTags {
		tagIDs = changes.TagIDs
	}
	if err := r.checkRefsLocked(tagIDs, changes.CategoryID); err != nil {
		return nil, err
	}

	if changes.Title != nil {
		post.Title = *changes.Title
	}
	if changes.Content != nil {
		post.Content = *changes.Content
	}
	switch {
	case changes.ClearCategory:
		post.CategoryID = nil
	case changes.CategoryID != nil:
		categoryID := *changes.CategoryID
		post.CategoryID = &categoryID
	}
	if changes.ReplaceTags {
		post.TagIDs = append([]uuid.UUID(nil), changes.TagIDs...)
	}
	post.UpdatedAt = changes.UpdatedAt
	return copyPost(post), nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[id]; !exists {
		return postify.ErrNotFound
	}
	r.deletePostLocked(id)
	return nil
}

func (r *Repository) deletePostLocked(id uuid.UUID) {
	for _, commentID := range append([]uuid.UUID(nil), r.commentOrder...) {
		if r.comments[commentID].PostID == id {
			r.deleteCommentLocked(commentID)
		}
	}
	r.deleteLikesOfLocked(postify.PostTarget(id))

	delete(r.slugs, r.posts[id].Slug)
	delete(r.posts, id)
	r.postOrder = removeID(r.postOrder, id)
}

func (r *Repository) ListPosts(ctx context.Context, filter postify.PostFilter) ([]*postify.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var authorID *uuid.UUID
	if filter.AuthorUsername != "" {
		id, exists := r.usernames[filter.AuthorUsername]
		if !exists {
			return []*postify.Post{}, nil
		}
		authorID = &id
	}
	var followed map[uuid.UUID]struct{}
	if filter.FollowedTagsOf != nil {
		followed = make(map[uuid.UUID]struct{})
		for _, f := range r.tagFollows {
			if f.FollowerID == *filter.FollowedTagsOf {
				followed[f.TagID] = struct{}{}
			}
		}
	}
	search := strings.ToLower(filter.Search)

	result := []*postify.Post{}
	for i := len(r.postOrder) - 1; i >= 0; i-- {
		post := r.posts[r.postOrder[i]]
		if filter.Published != nil && post.Published != *filter.Published {
			continue
		}
		if authorID != nil && post.AuthorID != *authorID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(post.Title), search) &&
			!strings.Contains(strings.ToLower(post.Content), search) {
			continue
		}
		if followed != nil && !hasAny(post.TagIDs, followed) {
			continue
		}
		result = append(result, copyPost(post))
	}
	return result, nil
}

func hasAny(ids []uuid.UUID, set map[uuid.UUID]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func (r *Repository) CountPostsWithTitlePrefix(ctx context.Context, prefix string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, post := range r.posts {
		if strings.HasPrefix(post.Title, prefix) {
			count++
		}
	}
	return count, nil
}

func (r *Repository) TogglePostFlag(ctx context.Context, id uuid.UUID, flag postify.PostFlag) (*postify.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	switch flag {
	case postify.PostFlagArchived:
		post.IsArchived = !post.IsArchived
	case postify.PostFlagFeatured:
		post.IsFeatured = !post.IsFeatured
	case postify.PostFlagPublished:
		post.Published = !post.Published
	case postify.PostFlagCommentsEnabled:
		post.CommentsEnabled = !post.CommentsEnabled
	default:
		return nil, fmt.Errorf("flag %q: %w", flag, postify.ErrInvalid)
	}
	return copyPost(post), nil
}

func (r *Repository) AddPostTag(ctx context.Context, postID, tagID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[postID]
	if !exists {
		return postify.ErrNotFound
	}
	if _, exists := r.tags[tagID]; !exists {
		return fmt.Errorf("tag %s: %w", tagID, postify.ErrNotFound)
	}
	if !post.HasTag(tagID) {
		post.TagIDs = append(post.TagIDs, tagID)
	}
	return nil
}

func (r *Repository) RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[postID]
	if !exists || !post.HasTag(tagID) {
		return postify.ErrNotFound
	}
	post.TagIDs = removeID(post.TagIDs, tagID)
	return nil
}

// Comment operations

func (r *Repository) CreateComment(ctx context.Context, comment *postify.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[comment.PostID]; !exists {
		return fmt.Errorf("post %s: %w", comment.PostID, postify.ErrNotFound)
	}
	if _, exists := r.users[comment.AuthorID]; !exists {
		return fmt.Errorf("author %s: %w", comment.AuthorID, postify.ErrNotFound)
	}
	commentCopy := *comment
	r.comments[comment.ID] = &commentCopy
	r.commentOrder = append(r.commentOrder, comment.ID)
	return nil
}

func (r *Repository) GetComment(ctx context.Context, id uuid.UUID) (*postify.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, exists := r.comments[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	commentCopy := *comment
	return &commentCopy, nil
}

func (r *Repository) UpdateComment(ctx context.Context, comment *postify.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.comments[comment.ID]
	if !exists {
		return postify.ErrNotFound
	}
	existing.Text = comment.Text
	existing.UpdatedAt = comment.UpdatedAt
	return nil
}

func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[id]; !exists {
		return postify.ErrNotFound
	}
	r.deleteCommentLocked(id)
	return nil
}

func (r *Repository) deleteCommentLocked(id uuid.UUID) {
	r.deleteLikesOfLocked(postify.CommentTarget(id))
	delete(r.comments, id)
	r.commentOrder = removeID(r.commentOrder, id)
}

func (r *Repository) ListComments(ctx context.Context, postID uuid.UUID) ([]*postify.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*postify.Comment{}
	for _, id := range r.commentOrder {
		comment := r.comments[id]
		if comment.PostID == postID {
			commentCopy := *comment
			result = append(result, &commentCopy)
		}
	}
	return result, nil
}

// Like operations

func (r *Repository) targetExistsLocked(target postify.LikeTarget) bool {
	switch target.Kind {
	case postify.LikeTargetPost:
		_, ok := r.posts[target.ID]
		return ok
	case postify.LikeTargetComment:
		_, ok := r.comments[target.ID]
		return ok
	}
	return false
}

func (r *Repository) GetOrCreateLike(ctx context.Context, like *postify.Like) (*postify.Like, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := likeKey{userID: like.UserID, target: like.Target}
	if id, exists := r.likeIndex[key]; exists {
		likeCopy := *r.likes[id]
		return &likeCopy, false, nil
	}
	if !r.targetExistsLocked(like.Target) {
		return nil, false, fmt.Errorf("%s %s: %w", like.Target.Kind, like.Target.ID, postify.ErrNotFound)
	}
	if _, exists := r.users[like.UserID]; !exists {
		return nil, false, fmt.Errorf("user %s: %w", like.UserID, postify.ErrNotFound)
	}

	likeCopy := *like
	r.likes[like.ID] = &likeCopy
	r.likeIndex[key] = like.ID
	result := likeCopy
	return &result, true, nil
}

func (r *Repository) GetLike(ctx context.Context, id uuid.UUID) (*postify.Like, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	like, exists := r.likes[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	likeCopy := *like
	return &likeCopy, nil
}

func (r *Repository) DeleteLike(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.likes[id]; !exists {
		return postify.ErrNotFound
	}
	r.deleteLikeLocked(id)
	return nil
}

func (r *Repository) deleteLikeLocked(id uuid.UUID) {
	like := r.likes[id]
	delete(r.likeIndex, likeKey{userID: like.UserID, target: like.Target})
	delete(r.likes, id)
}

func (r *Repository) deleteLikesOfLocked(target postify.LikeTarget) {
	for id, like := range r.likes {
		if like.Target == target {
			r.deleteLikeLocked(id)
		}
	}
}

func (r *Repository) CountLikes(ctx context.Context, target postify.LikeTarget) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, like := range r.likes {
		if like.Target == target {
			count++
		}
	}
	return count, nil
}

// Follow operations

func (r *Repository) GetOrCreateUserFollow(ctx context.Context, follow *postify.UserFollow) (*postify.UserFollow, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{follow.FollowerID, follow.FollowedUserID}
	if id, exists := r.followIndex[key]; exists {
		followCopy := *r.follows[id]
		return &followCopy, false, nil
	}
	for _, userID := range key {
		if _, exists := r.users[userID]; !exists {
			return nil, false, fmt.Errorf("user %s: %w", userID, postify.ErrNotFound)
		}
	}

	followCopy := *follow
	r.follows[follow.ID] = &followCopy
	r.followOrder = append(r.followOrder, follow.ID)
	r.followIndex[key] = follow.ID
	result := followCopy
	return &result, true, nil
}

func (r *Repository) GetUserFollow(ctx context.Context, id uuid.UUID) (*postify.UserFollow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	follow, exists := r.follows[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	followCopy := *follow
	return &followCopy, nil
}

func (r *Repository) DeleteUserFollow(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.follows[id]; !exists {
		return postify.ErrNotFound
	}
	r.deleteUserFollowLocked(id)
	return nil
}

func (r *Repository) deleteUserFollowLocked(id uuid.UUID) {
	f := r.follows[id]
	delete(r.followIndex, pairKey{f.FollowerID, f.FollowedUserID})
	delete(r.follows, id)
	r.followOrder = removeID(r.followOrder, id)
}

func (r *Repository) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, f := range r.follows {
		if f.FollowedUserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *Repository) ListUserFollows(ctx context.Context, followerID uuid.UUID) ([]*postify.UserFollow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*postify.UserFollow{}
	for _, id := range r.followOrder {
		if f := r.follows[id]; f.FollowerID == followerID {
			followCopy := *f
			result = append(result, &followCopy)
		}
	}
	return result, nil
}

func (r *Repository) GetOrCreateTagFollow(ctx context.Context, follow *postify.TagFollow) (*postify.TagFollow, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{follow.FollowerID, follow.TagID}
	if id, exists := r.tagFollowIndex[key]; exists {
		followCopy := *r.tagFollows[id]
		return &followCopy, false, nil
	}
	if _, exists := r.users[follow.FollowerID]; !exists {
		return nil, false, fmt.Errorf("user %s: %w", follow.FollowerID, postify.ErrNotFound)
	}
	if _, exists := r.tags[follow.TagID]; !exists {
		return nil, false, fmt.Errorf("tag %s: %w", follow.TagID, postify.ErrNotFound)
	}

	followCopy := *follow
	r.tagFollows[follow.ID] = &followCopy
	r.tagFollowOrder = append(r.tagFollowOrder, follow.ID)
	r.tagFollowIndex[key] = follow.ID
	result := followCopy
	return &result, true, nil
}

func (r *Repository) GetTagFollow(ctx context.Context, id uuid.UUID) (*postify.TagFollow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	follow, exists := r.tagFollows[id]
	if !exists {
		return nil, postify.ErrNotFound
	}
	followCopy := *follow
	return &followCopy, nil
}

func (r *Repository) DeleteTagFollow(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tagFollows[id]; !exists {
		return postify.ErrNotFound
	}
	r.deleteTagFollowLocked(id)
	return nil
}

func (r *Repository) deleteTagFollowLocked(id uuid.UUID) {
	f := r.tagFollows[id]
	delete(r.tagFollowIndex, pairKey{f.FollowerID, f.TagID})
	delete(r.tagFollows, id)
	r.tagFollowOrder = removeID(r.tagFollowOrder, id)
}

func (r *Repository) CountTagFollowers(ctx context.Context, tagID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, f := range r.tagFollows {
		if f.TagID == tagID {
			count++
		}
	}
	return count, nil
}

func (r *Repository) ListTagFollows(ctx context.Context, followerID uuid.UUID) ([]*postify.TagFollow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*postify.TagFollow{}
	for _, id := range r.tagFollowOrder {
		if f := r.tagFollows[id]; f.FollowerID == followerID {
			followCopy := *f
			result = append(result, &followCopy)
		}
	}
	return result, nil
}

func (r *Repository) Statistics(ctx context.Context) (*postify.Statistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &postify.Statistics{
		Users:      int64(len(r.users)),
		Posts:      int64(len(r.posts)),
		Comments:   int64(len(r.comments)),
		Likes:      int64(len(r.likes)),
		Follows:    int64(len(r.follows)),
		TagFollows: int64(len(r.tagFollows)),
	}, nil
}
