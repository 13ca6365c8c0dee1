package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/prepcoach/internal/interview"
)

// recordRepo implements RecordRepo with statements built by ent's SQL
// builder and executed on database/sql.
type recordRepo struct {
	db *sql.DB
}

func sqlite() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

var responseColumns = []string{
	"id", "session_id", "question", "category", "answer",
	"clarity", "confidence", "content_score", "overall",
	"strengths", "weaknesses", "improved_answer", "tips", "detailed_feedback",
	"soft_skills", "source", "rules_version", "created_at",
}

func (r *recordRepo) CreateSession(ctx context.Context, s NewSession) (int64, error) {
	query, args := sqlite().Insert("sessions").
		Columns("user_name", "role", "seniority", "interview_type", "created_at").
		Values(s.UserName, s.Role, s.Seniority, s.InterviewType, formatTime(now())).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

func (r *recordRepo) GetSession(ctx context.Context, id int64) (*SessionRecord, error) {
	query, args := sqlite().
		Select("id", "user_name", "role", "seniority", "interview_type", "created_at").
		From(sqlite().Table("sessions")).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		rec     SessionRecord
		created string
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.ID, &rec.UserName, &rec.Role, &rec.Seniority, &rec.InterviewType, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepo) LogResponse(ctx context.Context, rec ResponseRecord) (int64, error) {
	e := rec.Evaluation

	strengths, err := marshalList(e.Strengths)
	if err != nil {
		return 0, err
	}
	weaknesses, err := marshalList(e.Weaknesses)
	if err != nil {
		return 0, err
	}
	tips, err := marshalList(e.Tips)
	if err != nil {
		return 0, err
	}
	softSkills, err := marshalList(e.SoftSkills)
	if err != nil {
		return 0, err
	}

	query, args := sqlite().Insert("responses").
		Columns(responseColumns[1:]...).
		Values(
			rec.SessionID, rec.Question, string(rec.Category), rec.Answer,
			e.ClarityScore, e.ConfidenceScore, e.ContentScore, e.OverallScore,
			strengths, weaknesses, e.ImprovedAnswer, tips, e.DetailedFeedback,
			softSkills, string(e.Source), rec.RulesVersion, formatTime(now()),
		).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("log response: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("log response: %w", err)
	}
	return id, nil
}

func (r *recordRepo) FetchUserHistory(ctx context.Context, userName string) ([]HistoryRow, error) {
	rt := sqlite().Table("responses").As("r")
	st := sqlite().Table("sessions").As("s")

	cols := make([]string, 0, len(responseColumns)+5)
	for _, c := range responseColumns {
		cols = append(cols, rt.C(c))
	}
	cols = append(cols,
		st.C("user_name"), st.C("role"), st.C("seniority"), st.C("interview_type"), st.C("created_at"))

	query, args := sqlite().Select(cols...).
		From(rt).
		Join(st).On(rt.C("session_id"), st.C("id")).
		Where(entsql.EQ(st.C("user_name"), userName)).
		OrderBy(rt.C("created_at"), rt.C("id")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch user history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var (
			row            HistoryRow
			sessionCreated string
		)
		sc := newResponseScanner(&row.ResponseRecord)
		dest := append(sc.dest(),
			&row.UserName, &row.Role, &row.Seniority, &row.InterviewType, &sessionCreated)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if err := sc.finish(); err != nil {
			return nil, err
		}
		if row.SessionCreatedAt, err = parseTime(sessionCreated); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch user history: %w", err)
	}
	return out, nil
}

func (r *recordRepo) FetchSessionResponses(ctx context.Context, sessionID int64) ([]ResponseRecord, error) {
	query, args := sqlite().Select(responseColumns...).
		From(sqlite().Table("responses")).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("created_at", "id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch session responses: %w", err)
	}
	defer rows.Close()

	var out []ResponseRecord
	for rows.Next() {
		var rec ResponseRecord
		sc := newResponseScanner(&rec)
		if err := rows.Scan(sc.dest()...); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := sc.finish(); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch session responses: %w", err)
	}
	return out, nil
}

func (r *recordRepo) AwardIfAbsent(ctx context.Context, userID, badgeID string) (bool, error) {
	query, args := sqlite().Insert("achievements").
		Columns("user_id", "badge_id", "earned_at").
		Values(userID, badgeID, formatTime(now())).
		OnConflict(entsql.ConflictColumns("user_id", "badge_id"), entsql.DoNothing()).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("award %s: %w", badgeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("award %s: %w", badgeID, err)
	}
	return n == 1, nil
}

func (r *recordRepo) Achievements(ctx context.Context, userID string) ([]AchievementRecord, error) {
	query, args := sqlite().Select("user_id", "badge_id", "earned_at").
		From(sqlite().Table("achievements")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("earned_at", "badge_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var out []AchievementRecord
	for rows.Next() {
		var (
			a      AchievementRecord
			earned string
		)
		if err := rows.Scan(&a.UserID, &a.BadgeID, &earned); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		if a.EarnedAt, err = parseTime(earned); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *recordRepo) ListUsers(ctx context.Context) ([]string, error) {
	query, args := sqlite().Select("user_name").
		Distinct().
		From(sqlite().Table("sessions")).
		OrderBy("user_name").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// responseScanner collects the raw column values of a response row and
// decodes them into a ResponseRecord once scanned.
type responseScanner struct {
	rec                         *ResponseRecord
	category, source, created   string
	strengths, weaknesses, tips string
	softSkills                  string
}

func newResponseScanner(rec *ResponseRecord) *responseScanner {
	return &responseScanner{rec: rec}
}

// dest returns scan destinations in responseColumns order.
func (s *responseScanner) dest() []any {
	e := &s.rec.Evaluation
	return []any{
		&s.rec.ID, &s.rec.SessionID, &s.rec.Question, &s.category, &s.rec.Answer,
		&e.ClarityScore, &e.ConfidenceScore, &e.ContentScore, &e.OverallScore,
		&s.strengths, &s.weaknesses, &e.ImprovedAnswer, &s.tips, &e.DetailedFeedback,
		&s.softSkills, &s.source, &s.rec.RulesVersion, &s.created,
	}
}

func (s *responseScanner) finish() error {
	var err error
	s.rec.Category = interview.Category(s.category)
	s.rec.Evaluation.Source = interview.Source(s.source)
	if s.rec.Evaluation.Strengths, err = unmarshalList(s.strengths); err != nil {
		return err
	}
	if s.rec.Evaluation.Weaknesses, err = unmarshalList(s.weaknesses); err != nil {
		return err
	}
	if s.rec.Evaluation.Tips, err = unmarshalList(s.tips); err != nil {
		return err
	}
	if s.rec.Evaluation.SoftSkills, err = unmarshalList(s.softSkills); err != nil {
		return err
	}
	s.rec.CreatedAt, err = parseTime(s.created)
	return err
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(b), nil
}

func unmarshalList(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("unmarshal list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
