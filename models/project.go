package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPlanning    ProjectStatus = "PLANNING"
	ProjectStatusInProgress  ProjectStatus = "IN_PROGRESS"
	ProjectStatusDone        ProjectStatus = "DONE"
	ProjectStatusMaintenance ProjectStatus = "MAINTENANCE"
)

var projectStatusLabels = map[ProjectStatus]string{
	ProjectStatusPlanning:    "Planificación",
	ProjectStatusInProgress:  "En Progreso",
	ProjectStatusDone:        "Terminado",
	ProjectStatusMaintenance: "Mantenimiento",
}

func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusLabels[s]
	return ok
}

func (s ProjectStatus) Label() string {
	return projectStatusLabels[s]
}

// Project is an execution record for a customer, optionally created from a
// quote. Media entries belong to it and are removed with it.
type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID  uuid.UUID     `gorm:"type:uuid;index;not null" json:"customer"`
	QuoteID     *uuid.UUID    `gorm:"type:uuid;index" json:"quote"`
	Title       string        `gorm:"not null" json:"title"`
	Status      ProjectStatus `gorm:"type:varchar(15);default:'PLANNING'" json:"status"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`
	Description string        `gorm:"type:text" json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Media []ProjectMedia `gorm:"foreignKey:ProjectID" json:"media,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

type MediaType string

const (
	MediaTypeBefore   MediaType = "BEFORE"
	MediaTypeAfter    MediaType = "AFTER"
	MediaTypeProgress MediaType = "PROGRESS"
)

var mediaTypeLabels = map[MediaType]string{
	MediaTypeBefore:   "Antes",
	MediaTypeAfter:    "Después",
	MediaTypeProgress: "Progreso",
}

func (t MediaType) Valid() bool {
	_, ok := mediaTypeLabels[t]
	return ok
}

func (t MediaType) Label() string {
	return mediaTypeLabels[t]
}

// ProjectMedia is a photo or other media URL attached to a project.
type ProjectMedia struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project"`
	MediaType MediaType `gorm:"type:varchar(10);default:'PROGRESS'" json:"media_type"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *ProjectMedia) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
