// Package memdb is an in-memory implementation of database.Querier. It keeps
// the same constraints as the postgres schema (unique keys, foreign keys and
// cascades) so handlers behave the same against either store.
package memdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/johndosdos/warbler/internal/database"
)

const (
	defaultImageURL       = "/static/images/default-pic.png"
	defaultHeaderImageURL = "/static/images/warbler-hero.jpg"
	maxMessageLen         = 140
)

type likeKey struct {
	userID    int64
	messageID int64
}

type Store struct {
	mu sync.RWMutex

	users    map[int64]database.User
	messages map[int64]database.Message
	follows  map[database.Follow]struct{}
	likes    map[likeKey]database.Like
	sessions map[string]database.Session

	nextUserID    int64
	nextMessageID int64
	nextLikeID    int64

	now func() time.Time
}

var _ database.Querier = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]database.User),
		messages: make(map[int64]database.Message),
		follows:  make(map[database.Follow]struct{}),
		likes:    make(map[likeKey]database.Like),
		sessions: make(map[string]database.Session),
		now:      time.Now,
	}
}

func (s *Store) timestamp() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: s.now().UTC(), Valid: true}
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, arg database.CreateUserParams) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == arg.Email || u.Username == arg.Username {
			return database.User{}, fmt.Errorf("memdb: create user %q: %w", arg.Username, database.ErrUniqueViolation)
		}
	}

	id := arg.ID
	if id == 0 {
		id = s.nextID(&s.nextUserID, func(id int64) bool { _, ok := s.users[id]; return ok })
	} else if _, ok := s.users[id]; ok {
		return database.User{}, fmt.Errorf("memdb: create user id %d: %w", id, database.ErrUniqueViolation)
	}

	imageURL := arg.ImageUrl
	if imageURL == "" {
		imageURL = defaultImageURL
	}

	u := database.User{
		ID:             id,
		Email:          arg.Email,
		Username:       arg.Username,
		ImageUrl:       imageURL,
		HeaderImageUrl: defaultHeaderImageURL,
		HashedPassword: arg.HashedPassword,
		CreatedAt:      s.timestamp(),
	}
	s.users[id] = u
	return u, nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (database.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (database.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return database.User{}, pgx.ErrNoRows
}

func (s *Store) SearchUsers(_ context.Context, query string) ([]database.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []database.User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, u)
		}
	}
	sortUsers(out)
	if len(out) > 100 {
		out = out[:100]
	}
	return out, nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return nil
	}
	delete(s.users, id)

	for msgID, m := range s.messages {
		if m.UserID == id {
			s.deleteMessageLocked(msgID)
		}
	}
	for f := range s.follows {
		if f.UserBeingFollowedID == id || f.UserFollowingID == id {
			delete(s.follows, f)
		}
	}
	for k := range s.likes {
		if k.userID == id {
			delete(s.likes, k)
		}
	}
	for tok, sess := range s.sessions {
		if sess.UserID == id {
			delete(s.sessions, tok)
		}
	}
	return nil
}

func (s *Store) GetUserStats(_ context.Context, userID int64) (database.GetUserStatsRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row database.GetUserStatsRow
	for _, m := range s.messages {
		if m.UserID == userID {
			row.Messages++
		}
	}
	for f := range s.follows {
		if f.UserBeingFollowedID == userID {
			row.Followers++
		}
		if f.UserFollowingID == userID {
			row.Following++
		}
	}
	for k := range s.likes {
		if k.userID == userID {
			row.Likes++
		}
	}
	return row, nil
}

// --- follows ---

func (s *Store) FollowUser(_ context.Context, arg database.FollowUserParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.userExists(arg.UserBeingFollowedID) || !s.userExists(arg.UserFollowingID) {
		return 0, fmt.Errorf("memdb: follow %d -> %d: %w",
			arg.UserFollowingID, arg.UserBeingFollowedID, database.ErrForeignKeyViolation)
	}

	f := database.Follow{UserBeingFollowedID: arg.UserBeingFollowedID, UserFollowingID: arg.UserFollowingID}
	if _, ok := s.follows[f]; ok {
		return 0, nil
	}
	s.follows[f] = struct{}{}
	return 1, nil
}

func (s *Store) UnfollowUser(_ context.Context, arg database.UnfollowUserParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := database.Follow{UserBeingFollowedID: arg.UserBeingFollowedID, UserFollowingID: arg.UserFollowingID}
	if _, ok := s.follows[f]; !ok {
		return 0, nil
	}
	delete(s.follows, f)
	return 1, nil
}

func (s *Store) IsFollowing(_ context.Context, arg database.IsFollowingParams) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.follows[database.Follow{UserBeingFollowedID: arg.UserBeingFollowedID, UserFollowingID: arg.UserFollowingID}]
	return ok, nil
}

func (s *Store) ListFollowers(_ context.Context, userBeingFollowedID int64) ([]database.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []database.User
	for f := range s.follows {
		if f.UserBeingFollowedID == userBeingFollowedID {
			out = append(out, s.users[f.UserFollowingID])
		}
	}
	sortUsers(out)
	return out, nil
}

func (s *Store) ListFollowing(_ context.Context, userFollowingID int64) ([]database.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []database.User
	for f := range s.follows {
		if f.UserFollowingID == userFollowingID {
			out = append(out, s.users[f.UserBeingFollowedID])
		}
	}
	sortUsers(out)
	return out, nil
}

// --- messages ---

func (s *Store) CreateMessage(_ context.Context, arg database.CreateMessageParams) (database.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.userExists(arg.UserID) {
		return database.Message{}, fmt.Errorf("memdb: create message for user %d: %w", arg.UserID, database.ErrForeignKeyViolation)
	}
	if utf8.RuneCountInString(arg.Text) > maxMessageLen {
		return database.Message{}, fmt.Errorf("memdb: message text exceeds %d characters", maxMessageLen)
	}

	id := arg.ID
	if id == 0 {
		id = s.nextID(&s.nextMessageID, func(id int64) bool { _, ok := s.messages[id]; return ok })
	} else if _, ok := s.messages[id]; ok {
		return database.Message{}, fmt.Errorf("memdb: create message id %d: %w", id, database.ErrUniqueViolation)
	}

	m := database.Message{
		ID:        id,
		Text:      arg.Text,
		CreatedAt: s.timestamp(),
		UserID:    arg.UserID,
	}
	s.messages[id] = m
	return m, nil
}

func (s *Store) GetMessage(_ context.Context, id int64) (database.GetMessageRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return database.GetMessageRow{}, pgx.ErrNoRows
	}
	author := s.users[m.UserID]
	return database.GetMessageRow{
		ID:        m.ID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		UserID:    m.UserID,
		Username:  author.Username,
		ImageUrl:  author.ImageUrl,
	}, nil
}

func (s *Store) DeleteMessage(_ context.Context, arg database.DeleteMessageParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[arg.ID]
	if !ok || m.UserID != arg.UserID {
		return 0, nil
	}
	s.deleteMessageLocked(arg.ID)
	return 1, nil
}

func (s *Store) ListUserMessages(_ context.Context, arg database.ListUserMessagesParams) ([]database.ListUserMessagesRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.newestFirst(func(m database.Message) bool { return m.UserID == arg.UserID }, int(arg.Limit))
	out := make([]database.ListUserMessagesRow, 0, len(msgs))
	for _, m := range msgs {
		author := s.users[m.UserID]
		out = append(out, database.ListUserMessagesRow{
			ID: m.ID, Text: m.Text, CreatedAt: m.CreatedAt, UserID: m.UserID,
			Username: author.Username, ImageUrl: author.ImageUrl,
		})
	}
	return out, nil
}

func (s *Store) ListTimeline(_ context.Context, arg database.ListTimelineParams) ([]database.ListTimelineRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := func(m database.Message) bool {
		if m.UserID == arg.UserID {
			return true
		}
		_, ok := s.follows[database.Follow{UserBeingFollowedID: m.UserID, UserFollowingID: arg.UserID}]
		return ok
	}

	msgs := s.newestFirst(visible, int(arg.MaxRows))
	out := make([]database.ListTimelineRow, 0, len(msgs))
	for _, m := range msgs {
		author := s.users[m.UserID]
		out = append(out, database.ListTimelineRow{
			ID: m.ID, Text: m.Text, CreatedAt: m.CreatedAt, UserID: m.UserID,
			Username: author.Username, ImageUrl: author.ImageUrl,
		})
	}
	return out, nil
}

func (s *Store) ListLikedMessages(_ context.Context, userID int64) ([]database.ListLikedMessagesRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var liked []database.Like
	for k, l := range s.likes {
		if k.userID == userID {
			liked = append(liked, l)
		}
	}
	sort.Slice(liked, func(i, j int) bool { return liked[i].ID > liked[j].ID })

	out := make([]database.ListLikedMessagesRow, 0, len(liked))
	for _, l := range liked {
		m := s.messages[l.MessageID]
		author := s.users[m.UserID]
		out = append(out, database.ListLikedMessagesRow{
			ID: m.ID, Text: m.Text, CreatedAt: m.CreatedAt, UserID: m.UserID,
			Username: author.Username, ImageUrl: author.ImageUrl,
		})
	}
	return out, nil
}

// --- likes ---

// ToggleLike holds the write lock across the existence check and the
// mutation, so a pair never ends up with two rows.
func (s *Store) ToggleLike(_ context.Context, arg database.ToggleLikeParams) (database.ToggleLikeRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := likeKey{userID: arg.UserID, messageID: arg.MessageID}
	if _, ok := s.likes[k]; ok {
		delete(s.likes, k)
		return database.ToggleLikeRow{Unliked: true}, nil
	}

	if !s.userExists(arg.UserID) {
		return database.ToggleLikeRow{}, fmt.Errorf("memdb: like by user %d: %w", arg.UserID, database.ErrForeignKeyViolation)
	}
	if _, ok := s.messages[arg.MessageID]; !ok {
		return database.ToggleLikeRow{}, fmt.Errorf("memdb: like of message %d: %w", arg.MessageID, database.ErrForeignKeyViolation)
	}

	s.nextLikeID++
	s.likes[k] = database.Like{ID: s.nextLikeID, UserID: arg.UserID, MessageID: arg.MessageID}
	return database.ToggleLikeRow{Liked: true}, nil
}

func (s *Store) CountLikes(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.likes)), nil
}

func (s *Store) CountMessageLikes(_ context.Context, messageID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for k := range s.likes {
		if k.messageID == messageID {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListLikedMessageIDs(_ context.Context, userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int64
	for k := range s.likes {
		if k.userID == userID {
			out = append(out, k.messageID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// --- sessions ---

func (s *Store) CreateSession(_ context.Context, arg database.CreateSessionParams) (database.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.userExists(arg.UserID) {
		return database.Session{}, fmt.Errorf("memdb: session for user %d: %w", arg.UserID, database.ErrForeignKeyViolation)
	}
	if _, ok := s.sessions[arg.Token]; ok {
		return database.Session{}, fmt.Errorf("memdb: session token: %w", database.ErrUniqueViolation)
	}

	sess := database.Session{
		Token:     arg.Token,
		UserID:    arg.UserID,
		CreatedAt: arg.CreatedAt,
		ExpiresAt: arg.ExpiresAt,
	}
	s.sessions[arg.Token] = sess
	return sess, nil
}

func (s *Store) GetSession(_ context.Context, token string) (database.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || sess.RevokedAt.Valid || !sess.ExpiresAt.Time.After(s.now()) {
		return database.Session{}, pgx.ErrNoRows
	}
	return sess, nil
}

func (s *Store) RevokeSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.RevokedAt.Valid {
		return nil
	}
	sess.RevokedAt = s.timestamp()
	s.sessions[token] = sess
	return nil
}

func (s *Store) RevokeUserSessions(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for tok, sess := range s.sessions {
		if sess.UserID == userID && !sess.RevokedAt.Valid {
			sess.RevokedAt = s.timestamp()
			s.sessions[tok] = sess
		}
	}
	return nil
}

// --- helpers; callers hold s.mu ---

func (s *Store) userExists(id int64) bool {
	_, ok := s.users[id]
	return ok
}

func (s *Store) nextID(seq *int64, taken func(int64) bool) int64 {
	for {
		*seq++
		if !taken(*seq) {
			return *seq
		}
	}
}

func (s *Store) deleteMessageLocked(id int64) {
	delete(s.messages, id)
	for k := range s.likes {
		if k.messageID == id {
			delete(s.likes, k)
		}
	}
}

func (s *Store) newestFirst(keep func(database.Message) bool, limit int) []database.Message {
	var out []database.Message
	for _, m := range s.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].CreatedAt.Time, out[j].CreatedAt.Time
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortUsers(users []database.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
}
