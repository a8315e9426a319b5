package infrastructure

import (
	"encoding/json"
	"log"
	"time"

	"specforge/internal/features/briefs/domain"
)

// BriefModel is the gorm row for a brief. The generated spec is stored as
// JSON text.
type BriefModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	AppName       string    `gorm:"size:200;not null"`
	Description   string    `gorm:"type:text;not null"`
	TargetUsers   string    `gorm:"size:300;not null"`
	ExtraContext  string    `gorm:"type:text;default:''"`
	GeneratedSpec string    `gorm:"type:text;not null"`
	CreatedAt     time.Time `gorm:"index"`
}

func (BriefModel) TableName() string { return "briefs" }

func newBriefModel(b *domain.Brief) (*BriefModel, error) {
	specJSON, err := json.Marshal(b.GeneratedSpec)
	if err != nil {
		return nil, err
	}
	return &BriefModel{
		ID:            b.ID,
		AppName:       b.AppName,
		Description:   b.Description,
		TargetUsers:   b.TargetUsers,
		ExtraContext:  b.ExtraContext,
		GeneratedSpec: string(specJSON),
		CreatedAt:     b.CreatedAt,
	}, nil
}

func (m *BriefModel) toEntity() domain.Brief {
	var spec domain.GeneratedSpec
	if err := json.Unmarshal([]byte(m.GeneratedSpec), &spec); err != nil {
		// non-JSON text is surfaced as the summary
		log.Printf("[WARN] brief %d has an unreadable generated spec: %v", m.ID, err)
		spec = domain.GeneratedSpec{Summary: m.GeneratedSpec}
	}
	return domain.Brief{
		ID:            m.ID,
		AppName:       m.AppName,
		Description:   m.Description,
		TargetUsers:   m.TargetUsers,
		ExtraContext:  m.ExtraContext,
		GeneratedSpec: spec,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}
