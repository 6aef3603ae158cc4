package repository

import (
	"context"

	"yoolivery/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。email重複はErrDuplicate
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID string) (*model.User, error)
	//メールからユーザーを一件取得する（大文字小文字を区別しない）。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// プロフィール・最終ログインなどの更新
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID string) error
}
