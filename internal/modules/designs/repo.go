package designs

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// DB returns the underlying database connection for direct queries.
func (r *Repo) DB() *gorm.DB { return r.db }

type AdminListParams struct {
	Q        string
	Status   string
	Page     int
	PageSize int
}

type AdminListResult struct {
	Items []DesignOrder
	Total int64
}

func (r *Repo) AdminList(ctx context.Context, in AdminListParams) (AdminListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 30
	}

	q := strings.TrimSpace(in.Q)
	status := strings.TrimSpace(in.Status)

	base := r.db.WithContext(ctx).Model(&DesignOrder{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	if q != "" {
		like := "%" + q + "%"
		// order id, design id or item title
		base = base.Where("(order_id LIKE ? OR design_id LIKE ? OR title LIKE ?)", like, like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return AdminListResult{}, err
	}

	var items []DesignOrder
	if err := base.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return AdminListResult{}, err
	}

	return AdminListResult{Items: items, Total: total}, nil
}

func (r *Repo) AdminGetDetail(ctx context.Context, id string) (DesignOrder, []DesignOrderEvent, error) {
	var d DesignOrder
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return DesignOrder{}, nil, err
	}
	var ev []DesignOrderEvent
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&ev, "design_order_id = ?", id).Error; err != nil {
		return DesignOrder{}, nil, err
	}
	return d, ev, nil
}

// UpdateNotes replaces the production notes on a design order.
func (r *Repo) UpdateNotes(ctx context.Context, id, notes string) error {
	res := r.db.WithContext(ctx).Model(&DesignOrder{}).
		Where("id = ?", id).
		Update("notes", strings.TrimSpace(notes))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
