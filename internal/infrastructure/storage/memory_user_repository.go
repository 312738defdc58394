package storage

import (
	"context"
	"sync"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище диалогов бота
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает копию пользователя по ID, создаёт нового в главном меню если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}

	copied := *user
	return &copied, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	copied := *user

	r.mu.Lock()
	r.users[user.ID] = &copied
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние пользователя, неизвестный ID игнорируется
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
	}

	return nil
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
