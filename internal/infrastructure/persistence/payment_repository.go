package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements finance.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) FindByID(ctx context.Context, businessLineID, id uuid.UUID) (*finance.Payment, error) {
	db := conn(ctx, r.db)
	var model models.PaymentModel
	if err := db.First(&model, "business_line_id = ? AND id = ?", businessLineID, id).Error; err != nil {
		return nil, translateError(err, "Payment")
	}
	payments, err := r.withHistory(db, []models.PaymentModel{model})
	if err != nil {
		return nil, err
	}
	return &payments[0], nil
}

// FindAll lists payments without their history
func (r *GormPaymentRepository) FindAll(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]finance.Payment, error) {
	var rows []models.PaymentModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.PaymentModel{}), businessLineID, filter)
	if err := paginate(query, filter, PaymentSortFields, "paid_at").Find(&rows).Error; err != nil {
		return nil, translateError(err, "Payment")
	}
	out := make([]finance.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(nil)
	}
	return out, nil
}

func (r *GormPaymentRepository) Count(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(conn(ctx, r.db).Model(&models.PaymentModel{}), businessLineID, filter).Count(&n).Error; err != nil {
		return 0, translateError(err, "Payment")
	}
	return n, nil
}

// FindForTimeline selects payments by activity rather than by paid_at: a
// payment can only have changed between its creation and its last update.
func (r *GormPaymentRepository) FindForTimeline(ctx context.Context, businessLineID uuid.UUID, filter shared.Filter) ([]finance.Payment, error) {
	db := conn(ctx, r.db)
	from, to := filter.From, filter.To
	filter.From, filter.To = nil, nil
	query := r.applyFilter(db.Model(&models.PaymentModel{}), businessLineID, filter)
	if from != nil {
		query = query.Where("updated_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var rows []models.PaymentModel
	err := query.
		Order("paid_at ASC").
		Order("payment_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "Payment")
	}
	return r.withHistory(db, rows)
}

func (r *GormPaymentRepository) FindPendingCheques(ctx context.Context, businessLineID uuid.UUID, dueBefore *time.Time) ([]finance.Payment, error) {
	query := pendingCheques(conn(ctx, r.db)).Where("business_line_id = ?", businessLineID)
	if dueBefore != nil {
		query = query.Where("cheque_date <= ?", *dueBefore)
	}
	var rows []models.PaymentModel
	if err := query.Order("cheque_date ASC").Order("payment_number ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err, "Payment")
	}
	out := make([]finance.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(nil)
	}
	return out, nil
}

func (r *GormPaymentRepository) FindOverdueCheques(ctx context.Context, cutoff time.Time) ([]finance.Payment, error) {
	var rows []models.PaymentModel
	err := pendingCheques(conn(ctx, r.db)).
		Where("cheque_date < ?", cutoff).
		Order("business_line_id ASC").
		Order("cheque_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "Payment")
	}
	out := make([]finance.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(nil)
	}
	return out, nil
}

func (r *GormPaymentRepository) ExistsByNumber(ctx context.Context, businessLineID uuid.UUID, number string) (bool, error) {
	n, err := count(conn(ctx, r.db), &models.PaymentModel{}, "business_line_id = ? AND payment_number = ?", businessLineID, number)
	if err != nil {
		return false, translateError(err, "Payment")
	}
	return n > 0, nil
}

func (r *GormPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	model, history := models.PaymentModelFromDomain(payment)
	db := conn(ctx, r.db)
	if err := db.Save(model).Error; err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	if err := appendHistory(db, history); err != nil {
		return err
	}
	payment.MarkPersisted()
	return nil
}

func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, payment *finance.Payment) error {
	model, history := models.PaymentModelFromDomain(payment)
	db := conn(ctx, r.db)
	if err := updateWithVersion(db, model, payment.ID, payment.PersistedVersion(), "payment"); err != nil {
		return err
	}
	if err := appendHistory(db, history); err != nil {
		return err
	}
	payment.MarkPersisted()
	return nil
}

// appendHistory inserts history rows, skipping those already stored
func appendHistory(db *gorm.DB, history []models.PaymentStatusChangeModel) error {
	if len(history) == 0 {
		return nil
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&history).Error; err != nil {
		return fmt.Errorf("save payment history: %w", err)
	}
	return nil
}

func (r *GormPaymentRepository) withHistory(db *gorm.DB, rows []models.PaymentModel) ([]finance.Payment, error) {
	out := make([]finance.Payment, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var history []models.PaymentStatusChangeModel
	if err := db.Where("payment_id IN ?", ids).Order("changed_at ASC").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("load payment history: %w", err)
	}
	byPayment := make(map[uuid.UUID][]models.PaymentStatusChangeModel, len(rows))
	for _, h := range history {
		byPayment[h.PaymentID] = append(byPayment[h.PaymentID], h)
	}
	for i := range rows {
		out = append(out, *rows[i].ToDomain(byPayment[rows[i].ID]))
	}
	return out, nil
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, businessLineID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("business_line_id = ?", businessLineID)
	query = searchLike(query, filter.Search, "payment_number", "party_name", "cheque_number")
	for _, key := range []string{"direction", "method", "status", "party_id", "invoice_id"} {
		if v, ok := filter.Filters[key]; ok {
			query = query.Where(key+" = ?", v)
		}
	}
	return dateRange(query, "paid_at", filter.From, filter.To)
}

func pendingCheques(db *gorm.DB) *gorm.DB {
	return db.Model(&models.PaymentModel{}).
		Where("method = ? AND status = ?", finance.PaymentMethodCheque, finance.PaymentStatusPending)
}

var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
