package neo4j

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulfrancisco-ruizacevedo/gocypher"

	"github.com/madhvi-n/postify/pkg/postify"
)

const (
	mergeUserFollow = `
		MERGE (a:User {id: $follower})
		MERGE (b:User {id: $followed})
		MERGE (a)-[r:FOLLOWS]->(b)
		ON CREATE SET r.edge_id = $edge`

	deleteUserFollow = `
		MATCH (:User {id: $follower})-[r:FOLLOWS]->(:User {id: $followed})
		DELETE r`

	mergeTagFollow = `
		MERGE (a:User {id: $follower})
		MERGE (t:Tag {id: $tag})
		MERGE (a)-[r:FOLLOWS_TAG]->(t)
		ON CREATE SET r.edge_id = $edge`

	deleteTagFollow = `
		MATCH (:User {id: $follower})-[r:FOLLOWS_TAG]->(:Tag {id: $tag})
		DELETE r`

	suggestUsers = `
		MATCH (me:User {id: $user})-[:FOLLOWS]->(:User)-[:FOLLOWS]->(s:User)
		WHERE s.id <> $user AND NOT (me)-[:FOLLOWS]->(s)
		RETURN s.id AS id, count(*) AS score
		ORDER BY score DESC, id
		LIMIT $limit`
)

// FollowGraphSink is a postify.EventSink that mirrors user and tag follow
// edges as (:User)-[:FOLLOWS]->(:User) and (:User)-[:FOLLOWS_TAG]->(:Tag).
// Events it does not care about are ignored.
type FollowGraphSink struct {
	postify.NoopEventSink
	runner Runner
}

var _ postify.EventSink = (*FollowGraphSink)(nil)

// NewFollowGraphSink creates a sink writing through runner.
func NewFollowGraphSink(runner Runner) *FollowGraphSink {
	return &FollowGraphSink{runner: runner}
}

func (s *FollowGraphSink) UserFollowed(ctx context.Context, f *postify.UserFollow) error {
	_, err := s.runner.Run(ctx, mergeUserFollow, map[string]interface{}{
		"follower": f.FollowerID.String(),
		"followed": f.FollowedUserID.String(),
		"edge":     f.ID.String(),
	})
	return err
}

func (s *FollowGraphSink) UserUnfollowed(ctx context.Context, f *postify.UserFollow) error {
	_, err := s.runner.Run(ctx, deleteUserFollow, map[string]interface{}{
		"follower": f.FollowerID.String(),
		"followed": f.FollowedUserID.String(),
	})
	return err
}

func (s *FollowGraphSink) TagFollowed(ctx context.Context, f *postify.TagFollow) error {
	_, err := s.runner.Run(ctx, mergeTagFollow, map[string]interface{}{
		"follower": f.FollowerID.String(),
		"tag":      f.TagID.String(),
		"edge":     f.ID.String(),
	})
	return err
}

func (s *FollowGraphSink) TagUnfollowed(ctx context.Context, f *postify.TagFollow) error {
	_, err := s.runner.Run(ctx, deleteTagFollow, map[string]interface{}{
		"follower": f.FollowerID.String(),
		"tag":      f.TagID.String(),
	})
	return err
}

// AccountDeleted removes the user node together with all of its edges.
func (s *FollowGraphSink) AccountDeleted(ctx context.Context, userID uuid.UUID) error {
	return s.detachDelete(ctx, "User", userID)
}

// TagDeleted removes the tag node and every FOLLOWS_TAG edge into it.
func (s *FollowGraphSink) TagDeleted(ctx context.Context, tagID uuid.UUID) error {
	return s.detachDelete(ctx, "Tag", tagID)
}

func (s *FollowGraphSink) detachDelete(ctx context.Context, label string, id uuid.UUID) error {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", label).WithProperties(map[string]interface{}{"id": id.String()})).
		DetachDelete("n").
		Build()
	if err != nil {
		return err
	}
	_, err = s.runner.Run(ctx, query, params)
	return err
}

// SuggestUsers returns up to limit users followed by the people userID
// follows, most shared first. Users already followed are excluded.
func (s *FollowGraphSink) SuggestUsers(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		return []uuid.UUID{}, nil
	}
	result, err := s.runner.Run(ctx, suggestUsers, map[string]interface{}{
		"user":  userID.String(),
		"limit": int64(limit),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(result.Records))
	for _, record := range result.Records {
		raw, ok := record.Get("id")
		if !ok {
			return nil, fmt.Errorf("suggest users: record has no id column")
		}
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("suggest users: unexpected id type %T", raw)
		}
		id, err := uuid.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("suggest users: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
