package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	return r.findOne(ctx, "username = ?", strings.ToLower(strings.TrimSpace(username)))
}

func (r *GormUserRepository) findOne(ctx context.Context, where string, args ...any) (*identity.User, error) {
	db := conn(ctx, r.db)
	var model models.UserModel
	if err := db.Where(where, args...).First(&model).Error; err != nil {
		return nil, translateError(err, "User")
	}
	users, err := r.withBusinessLines(db, []models.UserModel{model})
	if err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (r *GormUserRepository) FindAll(ctx context.Context, businessLineID *uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	db := conn(ctx, r.db)
	var rows []models.UserModel
	query := r.applyFilter(db.Model(&models.UserModel{}), businessLineID, filter)
	if err := paginate(query, filter, UserSortFields, "username").Find(&rows).Error; err != nil {
		return nil, translateError(err, "User")
	}
	return r.withBusinessLines(db, rows)
}

func (r *GormUserRepository) Count(ctx context.Context, businessLineID *uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(conn(ctx, r.db).Model(&models.UserModel{}), businessLineID, filter).Count(&n).Error; err != nil {
		return 0, translateError(err, "User")
	}
	return n, nil
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := count(conn(ctx, r.db), &models.UserModel{}, "username = ?", strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return false, translateError(err, "User")
	}
	return n > 0, nil
}

// CountByRole counts active users holding the role
func (r *GormUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	n, err := count(conn(ctx, r.db), &models.UserModel{}, "role = ? AND status = ?", role, identity.UserStatusActive)
	if err != nil {
		return 0, translateError(err, "User")
	}
	return n, nil
}

func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	db := conn(ctx, r.db)
	if err := db.Save(models.UserModelFromDomain(user)).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err := r.replaceBusinessLines(db, user); err != nil {
		return err
	}
	user.MarkPersisted()
	return nil
}

func (r *GormUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	db := conn(ctx, r.db)
	if err := updateWithVersion(db, models.UserModelFromDomain(user), user.ID, user.PersistedVersion(), "user"); err != nil {
		return err
	}
	if err := r.replaceBusinessLines(db, user); err != nil {
		return err
	}
	user.MarkPersisted()
	return nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Where("user_id = ?", id).Delete(&models.UserBusinessLineModel{}).Error; err != nil {
		return fmt.Errorf("delete user business lines: %w", err)
	}
	result := db.Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrNotFound.Code, "User not found")
	}
	return nil
}

func (r *GormUserRepository) replaceBusinessLines(db *gorm.DB, user *identity.User) error {
	if err := db.Where("user_id = ?", user.ID).Delete(&models.UserBusinessLineModel{}).Error; err != nil {
		return fmt.Errorf("clear user business lines: %w", err)
	}
	if len(user.BusinessLineIDs) == 0 {
		return nil
	}
	rows := make([]models.UserBusinessLineModel, len(user.BusinessLineIDs))
	for i, id := range user.BusinessLineIDs {
		rows[i] = models.UserBusinessLineModel{UserID: user.ID, BusinessLineID: id}
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("save user business lines: %w", err)
	}
	return nil
}

func (r *GormUserRepository) withBusinessLines(db *gorm.DB, rows []models.UserModel) ([]identity.User, error) {
	out := make([]identity.User, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var links []models.UserBusinessLineModel
	if err := db.Where("user_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("load user business lines: %w", err)
	}
	byUser := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, l := range links {
		byUser[l.UserID] = append(byUser[l.UserID], l.BusinessLineID)
	}
	for i := range rows {
		out = append(out, *rows[i].ToDomain(byUser[rows[i].ID]))
	}
	return out, nil
}

func (r *GormUserRepository) applyFilter(query *gorm.DB, businessLineID *uuid.UUID, filter shared.Filter) *gorm.DB {
	if businessLineID != nil {
		query = query.Where("id IN (?)",
			query.Session(&gorm.Session{NewDB: true}).
				Model(&models.UserBusinessLineModel{}).
				Select("user_id").
				Where("business_line_id = ?", *businessLineID))
	}
	query = searchLike(query, filter.Search, "username", "display_name", "email")
	if role, ok := filter.Filters["role"]; ok {
		query = query.Where("role = ?", role)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
