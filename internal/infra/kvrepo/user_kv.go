package kvrepo

import (
	"context"

	"yoolivery/internal/domain/model"
	"yoolivery/internal/infra/kvstore"
	repo "yoolivery/internal/repository"
)

// auth.users に id → User のmapで保存する。
// 書き込みは読み込みから保存までを1つのtxで行う（別ユーザーの登録を上書きしない）
type UserKVRepository struct {
	kv kvstore.Accessor
}

func NewUserKVRepository(kv kvstore.Accessor) *UserKVRepository {
	return &UserKVRepository{kv: kv}
}

var _ repo.UserRepository = (*UserKVRepository)(nil)

// *kvstore.Store が満たす
type txRunner interface {
	WithinTx(ctx context.Context, fn func(tx *kvstore.Tx) error) error
}

func loadUsers(ctx context.Context, kv kvstore.Accessor) (map[string]model.User, error) {
	users := map[string]model.User{}
	if _, err := kv.Load(ctx, keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// fnがエラーなら何も保存しない。
// 既にtxの中（kvが*kvstore.Tx）ならそのtxを使う
func (r *UserKVRepository) modify(ctx context.Context, fn func(users map[string]model.User) error) error {
	apply := func(kv kvstore.Accessor) error {
		users, err := loadUsers(ctx, kv)
		if err != nil {
			return err
		}
		if err := fn(users); err != nil {
			return err
		}
		return kv.Save(ctx, keyUsers, users)
	}

	if s, ok := r.kv.(txRunner); ok {
		return s.WithinTx(ctx, func(tx *kvstore.Tx) error { return apply(tx) })
	}
	return apply(r.kv)
}

func (r *UserKVRepository) Create(ctx context.Context, user *model.User) error {
	norm := model.NormalizeEmail(user.Email)
	err := r.modify(ctx, func(users map[string]model.User) error {
		//email重複
		for _, u := range users {
			if u.EmailNormalized == norm {
				return repo.ErrDuplicate
			}
		}
		if _, ok := users[user.ID]; ok {
			return repo.ErrDuplicate
		}

		stored := *user
		stored.EmailNormalized = norm
		users[user.ID] = stored
		return nil
	})
	if err != nil {
		return err
	}
	user.EmailNormalized = norm
	return nil
}

func (r *UserKVRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	users, err := loadUsers(ctx, r.kv)
	if err != nil {
		return nil, err
	}
	u, ok := users[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r *UserKVRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := loadUsers(ctx, r.kv)
	if err != nil {
		return nil, err
	}
	norm := model.NormalizeEmail(email)
	for _, u := range users {
		if u.EmailNormalized == norm {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

// token_versionは保存済みの値を残す（IncrementTokenVersionだけが変える）
func (r *UserKVRepository) Update(ctx context.Context, user *model.User) error {
	return r.modify(ctx, func(users map[string]model.User) error {
		current, ok := users[user.ID]
		if !ok {
			return repo.ErrNotFound
		}
		next := *user
		next.TokenVersion = current.TokenVersion
		next.CreatedAt = current.CreatedAt
		users[user.ID] = next
		return nil
	})
}

func (r *UserKVRepository) IncrementTokenVersion(ctx context.Context, userID string) error {
	return r.modify(ctx, func(users map[string]model.User) error {
		u, ok := users[userID]
		if !ok {
			return repo.ErrNotFound
		}
		u.TokenVersion++
		users[userID] = u
		return nil
	})
}
