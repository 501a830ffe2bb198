package sqlitestore

import (
	"time"

	"poolledger/internal/domain"
)

type poolRow struct {
	ID            int64             `gorm:"primaryKey;autoIncrement"`
	Name          string            `gorm:"not null;check:name <> ''"`
	TotalAmount   int64             `gorm:"not null;default:0;check:total_amount >= 0"`
	CreatedAt     time.Time         `gorm:"not null"`
	UpdatedAt     time.Time         `gorm:"not null"`
	Contributions []contributionRow `gorm:"foreignKey:PoolID;constraint:OnDelete:CASCADE"`
}

func (poolRow) TableName() string { return "pools" }

func (r poolRow) toDomain() domain.Pool {
	return domain.Pool{
		ID:          r.ID,
		Name:        r.Name,
		TotalAmount: r.TotalAmount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type contributionRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserName  string    `gorm:"not null"`
	Phone     string    `gorm:"not null"`
	Amount    int64     `gorm:"not null;check:amount > 0"`
	PoolID    int64     `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (contributionRow) TableName() string { return "contributions" }

func (r contributionRow) toDomain() domain.Contribution {
	return domain.Contribution{
		ID:        r.ID,
		PoolID:    r.PoolID,
		UserName:  r.UserName,
		Phone:     r.Phone,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
	}
}

type balanceRow struct {
	ID                int64
	Name              string
	TotalAmount       int64
	ContributionSum   int64
	ContributionCount int64
}
