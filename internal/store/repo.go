package store

import (
	"context"
	"time"

	"github.com/abhisek/prepcoach/internal/interview"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// NewSession holds the metadata recorded when an interview starts.
type NewSession struct {
	UserName      string
	Role          string
	Seniority     string
	InterviewType string
}

// SessionRecord is a persisted session row.
type SessionRecord struct {
	ID            int64
	UserName      string
	Role          string
	Seniority     string
	InterviewType string
	CreatedAt     time.Time
}

// ResponseRecord is one evaluated answer. List fields of the evaluation are
// stored as JSON arrays.
type ResponseRecord struct {
	ID           int64
	SessionID    int64
	Question     string
	Category     interview.Category
	Answer       string
	Evaluation   interview.Evaluation
	RulesVersion string
	CreatedAt    time.Time
}

// HistoryRow is a response joined with its session's metadata.
type HistoryRow struct {
	ResponseRecord
	UserName         string
	Role             string
	Seniority        string
	InterviewType    string
	SessionCreatedAt time.Time
}

// AchievementRecord is an earned badge.
type AchievementRecord struct {
	UserID   string
	BadgeID  string
	EarnedAt time.Time
}

// RecordRepo persists sessions, responses and achievements.
type RecordRepo interface {
	// CreateSession inserts a session and returns its id.
	CreateSession(ctx context.Context, s NewSession) (int64, error)

	// GetSession returns the session with the given id or ErrNotFound.
	GetSession(ctx context.Context, id int64) (*SessionRecord, error)

	// LogResponse appends a response row and returns its id. Rows are never
	// updated; resubmissions create new rows.
	LogResponse(ctx context.Context, r ResponseRecord) (int64, error)

	// FetchUserHistory returns every response of the user's sessions ordered
	// by response creation.
	FetchUserHistory(ctx context.Context, userName string) ([]HistoryRow, error)

	// FetchSessionResponses returns a session's responses in creation order.
	FetchSessionResponses(ctx context.Context, sessionID int64) ([]ResponseRecord, error)

	// AwardIfAbsent records a badge and reports whether it was newly inserted.
	AwardIfAbsent(ctx context.Context, userID, badgeID string) (bool, error)

	// Achievements lists a user's badges in the order they were earned.
	Achievements(ctx context.Context, userID string) ([]AchievementRecord, error)

	// ListUsers returns the distinct user names that have sessions.
	ListUsers(ctx context.Context) ([]string, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	RequestID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorKind    string
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestRecord is a persisted LLM request event.
type LLMRequestRecord struct {
	LLMRequestEventData
	ID        int64
	Sequence  int64
	Timestamp time.Time
}

// LLMUsageStats aggregates usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error)

	// GetLLMEvent returns the event with the given id or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestRecord, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates calls and tokens per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
