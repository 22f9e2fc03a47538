package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LeadSource string

const (
	LeadSourceWeb      LeadSource = "WEB"
	LeadSourceIG       LeadSource = "IG"
	LeadSourceWhatsApp LeadSource = "WHATSAPP"
	LeadSourceReferral LeadSource = "REFERRAL"
	LeadSourceOther    LeadSource = "OTHER"
)

var leadSourceLabels = map[LeadSource]string{
	LeadSourceWeb:      "Página Web",
	LeadSourceIG:       "Instagram",
	LeadSourceWhatsApp: "WhatsApp",
	LeadSourceReferral: "Referido",
	LeadSourceOther:    "Otro",
}

func (s LeadSource) Valid() bool {
	_, ok := leadSourceLabels[s]
	return ok
}

func (s LeadSource) Label() string {
	return leadSourceLabels[s]
}

type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "NEW"
	LeadStatusQualified    LeadStatus = "QUALIFIED"
	LeadStatusDisqualified LeadStatus = "DISQUALIFIED"
	LeadStatusConverted    LeadStatus = "CONVERTED"
)

var leadStatusLabels = map[LeadStatus]string{
	LeadStatusNew:          "Nuevo",
	LeadStatusQualified:    "Calificado",
	LeadStatusDisqualified: "Descartado",
	LeadStatusConverted:    "Convertido",
}

func (s LeadStatus) Valid() bool {
	_, ok := leadStatusLabels[s]
	return ok
}

func (s LeadStatus) Label() string {
	return leadStatusLabels[s]
}

// Lead is a prospective customer captured from an acquisition channel.
type Lead struct {
	ID     uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name   string     `gorm:"not null" json:"name"`
	Phone  string     `json:"phone"`
	Email  string     `json:"email"`
	Source LeadSource `gorm:"type:varchar(15);default:'OTHER'" json:"source"`
	Status LeadStatus `gorm:"type:varchar(15);default:'NEW'" json:"status"`
	Notes  string     `gorm:"type:text" json:"notes"`

	CustomerID  *uuid.UUID `gorm:"type:uuid;index" json:"customer"`
	CreatedByID *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

type OpportunityStage string

const (
	OpportunityStageNew            OpportunityStage = "NEW"
	OpportunityStageContacted      OpportunityStage = "CONTACTED"
	OpportunityStageVisitScheduled OpportunityStage = "VISIT_SCHEDULED"
	OpportunityStageQuoteSent      OpportunityStage = "QUOTE_SENT"
	OpportunityStageNegotiation    OpportunityStage = "NEGOTIATION"
	OpportunityStageWon            OpportunityStage = "WON"
	OpportunityStageLost           OpportunityStage = "LOST"
)

// OpportunityStages lists every stage in pipeline order. Transitions are not
// restricted; any stage can be set directly.
var OpportunityStages = []OpportunityStage{
	OpportunityStageNew,
	OpportunityStageContacted,
	OpportunityStageVisitScheduled,
	OpportunityStageQuoteSent,
	OpportunityStageNegotiation,
	OpportunityStageWon,
	OpportunityStageLost,
}

var opportunityStageLabels = map[OpportunityStage]string{
	OpportunityStageNew:            "Nuevo",
	OpportunityStageContacted:      "Contactado",
	OpportunityStageVisitScheduled: "Visita Agendada",
	OpportunityStageQuoteSent:      "Cotización Enviada",
	OpportunityStageNegotiation:    "En Negociación",
	OpportunityStageWon:            "Ganado",
	OpportunityStageLost:           "Perdido",
}

func (s OpportunityStage) Valid() bool {
	_, ok := opportunityStageLabels[s]
	return ok
}

func (s OpportunityStage) Label() string {
	return opportunityStageLabels[s]
}

// Opportunity is a qualified sales pursuit tied to a customer.
type Opportunity struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID    uuid.UUID        `gorm:"type:uuid;index;not null" json:"customer"`
	Title         string           `gorm:"not null" json:"title"`
	Stage         OpportunityStage `gorm:"type:varchar(20);default:'NEW'" json:"stage"`
	ValueEstimate decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"value_estimate"`
	CloseDate     *time.Time       `json:"close_date"`
	AssignedToID  *uuid.UUID       `gorm:"type:uuid;index" json:"assigned_to"`
	Notes         string           `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (o *Opportunity) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

type ActivityType string

const (
	ActivityTypeCall     ActivityType = "CALL"
	ActivityTypeWhatsApp ActivityType = "WHATSAPP"
	ActivityTypeEmail    ActivityType = "EMAIL"
	ActivityTypeVisit    ActivityType = "VISIT"
	ActivityTypeTask     ActivityType = "TASK"
)

var activityTypeLabels = map[ActivityType]string{
	ActivityTypeCall:     "Llamada",
	ActivityTypeWhatsApp: "WhatsApp",
	ActivityTypeEmail:    "Email",
	ActivityTypeVisit:    "Visita",
	ActivityTypeTask:     "Tarea",
}

func (t ActivityType) Valid() bool {
	_, ok := activityTypeLabels[t]
	return ok
}

func (t ActivityType) Label() string {
	return activityTypeLabels[t]
}

// Activity is a task or touchpoint, optionally linked to a customer and/or an
// opportunity. Done state is derived from DoneAt, never stored.
type Activity struct {
	ID    uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Type  ActivityType `gorm:"type:varchar(15);default:'TASK'" json:"type"`
	Notes string       `gorm:"type:text" json:"notes"`

	DueAt  *time.Time `json:"due_at"`
	DoneAt *time.Time `json:"done_at"`

	CustomerID    *uuid.UUID `gorm:"type:uuid;index" json:"customer"`
	OpportunityID *uuid.UUID `gorm:"type:uuid;index" json:"opportunity"`
	AssignedToID  *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to"`
	CreatedByID   *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

func (a *Activity) IsDone() bool {
	return a.DoneAt != nil
}
