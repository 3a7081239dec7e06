package model

import "time"

// User roles. A client-role user is scoped to a single tenant.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Client is a tenant.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is an account that can log in. The password hash never leaves the
// server.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	ClientID  *string   `json:"clientId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is the authenticated principal attached to a request context.
// It lives for the duration of one request only.
type Identity struct {
	User       User   `json:"user"`
	ClientName string `json:"clientName,omitempty"`
}

// Measurement is one monthly condition report for a client. MonthIndex is
// derived as year*12 + (month-1) and is the sort/range key for
// trailing-window queries.
type Measurement struct {
	ID         string `json:"id"`
	ClientID   string `json:"clientId"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	MonthIndex int    `json:"monthIndex"`

	Good           int `json:"good"`
	Observation    int `json:"observation"`
	Unsatisfactory int `json:"unsatisfactory"`
	Danger         int `json:"danger"`
	Unmeasured     int `json:"unmeasured"`

	Causes CauseBreakdown `json:"causes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CauseBreakdown counts measurement points per diagnosed failure cause.
type CauseBreakdown struct {
	Opening              int `json:"opening" validate:"min=0"`
	Coupling             int `json:"coupling" validate:"min=0"`
	Mounting             int `json:"mounting" validate:"min=0"`
	ExternalCause        int `json:"externalCause" validate:"min=0"`
	Cavitation           int `json:"cavitation" validate:"min=0"`
	Bearing              int `json:"bearing" validate:"min=0"`
	PlainBearing         int `json:"plainBearing" validate:"min=0"`
	Belts                int `json:"belts" validate:"min=0"`
	StructuralDeficiency int `json:"structuralDeficiency" validate:"min=0"`
	Misalignment         int `json:"misalignment" validate:"min=0"`
	Unbalance            int `json:"unbalance" validate:"min=0"`
	ComponentWear        int `json:"componentWear" validate:"min=0"`
	Shaft                int `json:"shaft" validate:"min=0"`
	Electrical           int `json:"electrical" validate:"min=0"`
	Gear                 int `json:"gear" validate:"min=0"`
	AerodynamicForces    int `json:"aerodynamicForces" validate:"min=0"`
	HydraulicForces      int `json:"hydraulicForces" validate:"min=0"`
	Lubrication          int `json:"lubrication" validate:"min=0"`
	Operational          int `json:"operational" validate:"min=0"`
	ProductLoss          int `json:"productLoss" validate:"min=0"`
	Resonance            int `json:"resonance" validate:"min=0"`
	Friction             int `json:"friction" validate:"min=0"`
	RollingBearing       int `json:"rollingBearing" validate:"min=0"`
	SensorNoSignal       int `json:"sensorNoSignal" validate:"min=0"`
	Safety               int `json:"safety" validate:"min=0"`
	NoTechnicalInfo      int `json:"noTechnicalInfo" validate:"min=0"`
	MechanicalLooseness  int `json:"mechanicalLooseness" validate:"min=0"`
	PowerTransmission    int `json:"powerTransmission" validate:"min=0"`
}

// MonthIndexOf derives the range key used by measurement queries.
func MonthIndexOf(year, month int) int {
	return year*12 + (month - 1)
}
