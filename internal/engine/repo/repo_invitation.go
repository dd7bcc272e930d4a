package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/database"
	"gorm.io/gorm"
)

type IInvitationRepository interface {
	Create(ctx context.Context, invitation *model.Invitation) error
	FindById(ctx context.Context, invitationId string) (*model.Invitation, error)
	FindInTenant(ctx context.Context, invitationId, tenantId string) (*model.Invitation, error)
	List(ctx context.Context, query *InvitationQuery) ([]model.Invitation, int64, error)
	MarkAccepted(ctx context.Context, invitationId string, at time.Time) (bool, error)
	MarkCancelled(ctx context.Context, invitationId, replacedBy string) (bool, error)
}

// InvitationQuery 邀请列表查询条件
type InvitationQuery struct {
	TenantId string
	Status   model.InvitationStatus
	Now      time.Time
	Offset   int
	Limit    int
}

type InvitationRepo struct {
	db database.IDatabase
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{db: db}
}

func (ir *InvitationRepo) table(ctx context.Context) *gorm.DB {
	return ir.db.Database().WithContext(ctx).Model(&model.Invitation{})
}

func (ir *InvitationRepo) Create(ctx context.Context, invitation *model.Invitation) error {
	return errors.Wrap(ir.db.Database().WithContext(ctx).Create(invitation).Error, "create invitation")
}

func (ir *InvitationRepo) FindById(ctx context.Context, invitationId string) (*model.Invitation, error) {
	invitation := new(model.Invitation)
	if err := ir.table(ctx).Where("invitation_id = ?", invitationId).First(invitation).Error; err != nil {
		return nil, notFound(err, "invitation")
	}
	return invitation, nil
}

func (ir *InvitationRepo) FindInTenant(ctx context.Context, invitationId, tenantId string) (*model.Invitation, error) {
	invitation := new(model.Invitation)
	err := ir.table(ctx).
		Where("invitation_id = ? AND tenant_id = ?", invitationId, tenantId).
		First(invitation).Error
	if err != nil {
		return nil, notFound(err, "invitation")
	}
	return invitation, nil
}

// List filters by effective status: pending rows past expiry count as expired.
func (ir *InvitationRepo) List(ctx context.Context, q *InvitationQuery) ([]model.Invitation, int64, error) {
	tx := ir.table(ctx).Where("tenant_id = ?", q.TenantId)
	switch q.Status {
	case "":
	case model.InvitationPending:
		tx = tx.Where("status = ? AND expires_at > ?", model.InvitationPending, q.Now)
	case model.InvitationExpired:
		tx = tx.Where("status = ? AND expires_at <= ?", model.InvitationPending, q.Now)
	default:
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count invitations")
	}

	var invitations []model.Invitation
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}
	if err := tx.Order("id DESC").Find(&invitations).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list invitations")
	}
	return invitations, total, nil
}

// MarkAccepted only moves a pending record; false means it was not pending.
func (ir *InvitationRepo) MarkAccepted(ctx context.Context, invitationId string, at time.Time) (bool, error) {
	res := ir.table(ctx).
		Where("invitation_id = ? AND status = ?", invitationId, model.InvitationPending).
		Updates(map[string]any{
			"status":      model.InvitationAccepted,
			"accepted_at": at,
		})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "accept invitation")
	}
	return res.RowsAffected == 1, nil
}

// MarkCancelled never touches an accepted record, and a record is replaced at
// most once; false means it was accepted, already replaced or missing.
func (ir *InvitationRepo) MarkCancelled(ctx context.Context, invitationId, replacedBy string) (bool, error) {
	fields := map[string]any{"status": model.InvitationCancelled}
	q := ir.table(ctx).Where("invitation_id = ? AND status <> ?", invitationId, model.InvitationAccepted)
	if replacedBy != "" {
		fields["replaced_by"] = replacedBy
		q = q.Where("(replaced_by = '' OR replaced_by IS NULL)")
	}
	res := q.Updates(fields)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "cancel invitation")
	}
	return res.RowsAffected == 1, nil
}
