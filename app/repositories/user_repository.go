package repositories

import (
	"context"
	"iter"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/marketplace/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

// Create persists a new user. A taken handle or email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

// Get looks up a user by primary key.
func (r *UserRepository) Get(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return u, translate(err)
}

// GetByHandle looks up a user by handle.
func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&u).Error
	return u, translate(err)
}

// GetByEmail looks up a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return u, translate(err)
}

// GetByLogin matches login against either the handle or the email.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("handle = ? OR email = ?", login, login).
		Order("id").
		First(&u).Error
	return u, translate(err)
}

// Exists reports whether handle or (when non-empty) email is already taken,
// counting soft-deleted users since their unique index entries remain.
func (r *UserRepository) Exists(ctx context.Context, handle, email string) (bool, error) {
	q := r.db.WithContext(ctx).Unscoped().Model(&models.User{}).Where("handle = ?", handle)
	if email != "" {
		q = q.Or("email = ?", email)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// List streams users by id.
func (r *UserRepository) List(ctx context.Context, page Page) iter.Seq2[models.User, error] {
	q := r.db.WithContext(ctx).Model(&models.User{}).Order("id")
	return scan[models.User](page.apply(q))
}

// Update writes the named columns of u.
func (r *UserRepository) Update(ctx context.Context, u *models.User, columns ...string) error {
	res := r.db.WithContext(ctx).Model(u).Select(columns).Updates(u)
	return affected(res, ErrNotFound)
}

// SetRole changes a user's role.
func (r *UserRepository) SetRole(ctx context.Context, id uint, role models.Role) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	return affected(res, ErrNotFound)
}

// Delete soft-deletes a user.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.User{}, id), ErrNotFound)
}
