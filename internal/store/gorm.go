package store

import (
	"context"
	"errors"
	"log"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/videos"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InitGorm points the package-level collections at the given database.
func InitGorm(db *gorm.DB) {
	Accounts = &gormAccountStore{db: db}
	Videos = &gormVideoStore{db: db}
}

type gormAccountStore struct {
	db    *gorm.DB
	watch watchers[accounts.Account]
}

func (s *gormAccountStore) Get(ctx context.Context, id string) (accounts.Account, error) {
	var a accounts.Account
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return accounts.Account{}, ErrNotFound
	}
	return a, err
}

func (s *gormAccountStore) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	var a accounts.Account
	err := s.db.WithContext(ctx).First(&a, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return accounts.Account{}, ErrNotFound
	}
	return a, err
}

func (s *gormAccountStore) Add(ctx context.Context, a accounts.Account) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return "", err
	}
	s.notify(ctx)
	return a.ID, nil
}

func (s *gormAccountStore) Update(ctx context.Context, id string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&accounts.Account{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.notify(ctx)
	return nil
}

func (s *gormAccountStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&accounts.Account{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.notify(ctx)
	return nil
}

func (s *gormAccountStore) All(ctx context.Context) ([]accounts.Account, error) {
	var out []accounts.Account
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (s *gormAccountStore) Watch(fn func([]accounts.Account)) func() {
	cancel := s.watch.subscribe(fn)
	if snapshot, err := s.All(context.Background()); err == nil {
		fn(snapshot)
	}
	return cancel
}

func (s *gormAccountStore) notify(ctx context.Context) {
	snapshot, err := s.All(ctx)
	if err != nil {
		log.Println("account watch requery failed:", err)
		return
	}
	s.watch.broadcast(snapshot)
}

type gormVideoStore struct {
	db    *gorm.DB
	watch watchers[videos.Video]
}

func (s *gormVideoStore) Get(ctx context.Context, id string) (videos.Video, error) {
	var v videos.Video
	err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return videos.Video{}, ErrNotFound
	}
	return v, err
}

func (s *gormVideoStore) Add(ctx context.Context, v videos.Video) (string, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&v).Error; err != nil {
		return "", err
	}
	s.notify(ctx)
	return v.ID, nil
}

func (s *gormVideoStore) Update(ctx context.Context, id string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&videos.Video{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.notify(ctx)
	return nil
}

func (s *gormVideoStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&videos.Video{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.notify(ctx)
	return nil
}

func (s *gormVideoStore) All(ctx context.Context) ([]videos.Video, error) {
	var out []videos.Video
	err := s.db.WithContext(ctx).Order("title ASC").Find(&out).Error
	return out, err
}

func (s *gormVideoStore) Watch(fn func([]videos.Video)) func() {
	cancel := s.watch.subscribe(fn)
	if snapshot, err := s.All(context.Background()); err == nil {
		fn(snapshot)
	}
	return cancel
}

func (s *gormVideoStore) notify(ctx context.Context) {
	snapshot, err := s.All(ctx)
	if err != nil {
		log.Println("video watch requery failed:", err)
		return
	}
	s.watch.broadcast(snapshot)
}
