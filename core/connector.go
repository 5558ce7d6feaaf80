package core

import (
	"context"
	"time"
)

// ConnectionInfo reports the outcome of a successful Connect.
type ConnectionInfo struct {
	Connected bool   `json:"connected"`
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
}

// PostOptions carries optional parameters for Post.
type PostOptions struct {
	MediaURLs []string `json:"media_urls,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// PostResult identifies a published post.
type PostResult struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ReplyResult identifies a published reply.
type ReplyResult struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	InReplyTo string    `json:"in_reply_to"`
	Timestamp time.Time `json:"timestamp"`
}

// LikeResult reports the outcome of a like operation.
type LikeResult struct {
	TargetID string `json:"target_id"`
	Platform string `json:"platform"`
	Liked    bool   `json:"liked"`
}

// SearchOptions carries optional parameters for Search.
type SearchOptions struct {
	Limit int `json:"limit,omitempty"`
}

// PostSummary is a single search hit.
type PostSummary struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Trend is a single trending topic.
type Trend struct {
	Name   string `json:"name"`
	Volume int    `json:"volume"`
}

// StreamEvent is one element of a connector's live event stream.
type StreamEvent struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Connector is the minimal capability set every platform integration must
// satisfy: lifecycle management plus content publication. Richer capabilities
// (reply, like, search, trends, streaming) are optional interfaces a concrete
// connector may additionally implement; callers probe with type assertions.
//
// Implementations must guard every content or data operation behind the
// connected flag and fail with ErrNotConnected before attempting network I/O
// while disconnected.
type Connector interface {
	// Platform returns the platform identifier this connector serves.
	Platform() string

	// Connect establishes the platform session. Calling Connect on an
	// already-connected connector is a no-op returning the current info.
	Connect(ctx context.Context) (*ConnectionInfo, error)

	// Disconnect tears down the platform session.
	Disconnect(ctx context.Context) error

	// Connected reports whether the connector holds a live session.
	Connected() bool

	// Post publishes content and returns its identity.
	Post(ctx context.Context, content string, opts *PostOptions) (*PostResult, error)
}

// Replier is the optional reply capability.
type Replier interface {
	Reply(ctx context.Context, targetID, content string) (*ReplyResult, error)
}

// Liker is the optional like capability.
type Liker interface {
	Like(ctx context.Context, targetID string) (*LikeResult, error)
}

// Searcher is the optional content search capability.
type Searcher interface {
	Search(ctx context.Context, query string, opts *SearchOptions) ([]PostSummary, error)
}

// TrendSource is the optional trending-topics capability.
type TrendSource interface {
	GetTrends(ctx context.Context, location string) ([]Trend, error)
}

// Streamer is the optional live-stream capability. The returned channel is an
// unbounded, non-restartable lazy sequence: it is closed on stream termination
// and the consumer is responsible for reconnection.
type Streamer interface {
	Stream(ctx context.Context) (<-chan StreamEvent, error)
}
