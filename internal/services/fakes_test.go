package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/3w-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes so service behavior can be tested without a
// running MongoDB. They mirror the Mongo implementations' contracts,
// including sort orders and not-found sentinels.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("%w: username or email already exists", apperr.ErrConflict)
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	if user.FriendRequestsSent == nil {
		user.FriendRequestsSent = []primitive.ObjectID{}
	}
	if user.FriendRequestsReceived == nil {
		user.FriendRequestsReceived = []primitive.ObjectID{}
	}
	if user.Stories == nil {
		user.Stories = []models.Story{}
	}
	if user.SavedPosts == nil {
		user.SavedPosts = []primitive.ObjectID{}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	copied := u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetAllExcept(ctx context.Context, id primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SearchByUsername(ctx context.Context, query string, limit int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			out = append(out, u)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Save(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) PullExpiredStories(ctx context.Context, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		kept := make([]models.Story, 0, len(u.Stories))
		for _, s := range u.Stories {
			if s.CreatedAt.After(cutoff) {
				kept = append(kept, s)
			}
		}
		u.Stories = kept
		r.users[id] = u
	}
	return nil
}

// mustAddUser seeds a user directly, bypassing Create's side effects.
func (r *fakeUserRepo) mustAddUser(username string) *models.User {
	u := &models.User{
		Username:               username,
		Email:                  username + "@example.com",
		Friends:                []primitive.ObjectID{},
		FriendRequestsSent:     []primitive.ObjectID{},
		FriendRequestsReceived: []primitive.ObjectID{},
		Stories:                []models.Story{},
		SavedPosts:             []primitive.ObjectID{},
	}
	if err := r.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]models.Post)}
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	r.posts[post.ID] = *post
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("%w: post", apperr.ErrNotFound)
	}
	copied := p
	return &copied, nil
}

func (r *fakePostRepo) sortedDesc(posts []models.Post) []models.Post {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (r *fakePostRepo) GetAll(ctx context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Post{}
	for _, p := range r.posts {
		out = append(out, p)
	}
	return r.sortedDesc(out), nil
}

func (r *fakePostRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Post{}
	for _, p := range r.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return r.sortedDesc(out), nil
}

func (r *fakePostRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Post{}
	for _, id := range ids {
		if p, ok := r.posts[id]; ok {
			out = append(out, p)
		}
	}
	return r.sortedDesc(out), nil
}

func (r *fakePostRepo) Save(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return fmt.Errorf("%w: post", apperr.ErrNotFound)
	}
	r.posts[post.ID] = *post
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("%w: post", apperr.ErrNotFound)
	}
	delete(r.posts, id)
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = primitive.NewObjectID()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			copied := m
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: message", apperr.ErrNotFound)
}

func between(m *models.Message, a, b primitive.ObjectID) bool {
	return (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a)
}

func (r *fakeMessageRepo) GetBetween(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.messages {
		if between(&m, a, b) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMessageRepo) GetAllForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.messages {
		if m.Sender == userID || m.Recipient == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMessageRepo) MarkConversationRead(ctx context.Context, sender, recipient primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].Sender == sender && r.messages[i].Recipient == recipient {
			r.messages[i].Read = true
		}
	}
	return nil
}

func (r *fakeMessageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: message", apperr.ErrNotFound)
}

func (r *fakeMessageRepo) DeleteBetween(ctx context.Context, a, b primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if !between(&m, a, b) {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			copied := n
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: notification", apperr.ErrNotFound)
}

func (r *fakeNotificationRepo) GetByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Notification{}
	for _, n := range r.notifications {
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].Recipient == recipient {
			r.notifications[i].Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: notification", apperr.ErrNotFound)
}

func (r *fakeNotificationRepo) DeleteByEvent(ctx context.Context, sender, recipient primitive.ObjectID, notifType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		n := r.notifications[i]
		if n.Sender == sender && n.Recipient == recipient && n.Type == notifType {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return nil
}

// byType filters the stored notifications, a small helper for assertions.
func (r *fakeNotificationRepo) byType(notifType string) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Notification{}
	for _, n := range r.notifications {
		if n.Type == notifType {
			out = append(out, n)
		}
	}
	return out
}
