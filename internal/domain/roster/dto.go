package roster

import (
	"fmt"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== GRID DTOs ==========

type SlotDTO struct {
	Date         string    `json:"date"`
	Shift        Shift     `json:"shift"`
	SupervisorID *string   `json:"supervisor_id"`
	LaborerIDs   []string  `json:"laborer_ids"`
	State        SlotState `json:"state,omitempty"`
}

// RosterPayload is the grid a client holds between toggles and sends back on commit.
type RosterPayload struct {
	PlantID string    `json:"plant_id"`
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Slots   []SlotDTO `json:"slots"`
}

type RosterResponse struct {
	RosterPayload
	Holidays []holiday.HolidayResponse `json:"holidays"`
}

// ToDTO renders one slot for the wire.
func (s Slot) ToDTO() SlotDTO {
	dto := SlotDTO{
		Date:       period.FormatDate(s.Date),
		Shift:      s.Shift,
		LaborerIDs: append([]string{}, s.LaborerIDs...),
		State:      s.State(),
	}
	if s.SupervisorID != "" {
		id := s.SupervisorID
		dto.SupervisorID = &id
	}
	return dto
}

// ToPayload renders every slot of the grid.
func (r Roster) ToPayload() RosterPayload {
	p := RosterPayload{
		PlantID: r.PlantID,
		Year:    r.Month.Year,
		Month:   int(r.Month.Month),
		Slots:   make([]SlotDTO, 0, len(r.Slots)),
	}
	for _, s := range r.Slots {
		p.Slots = append(p.Slots, s.ToDTO())
	}
	return p
}

func (p RosterPayload) period() (period.Month, error) {
	return period.New(p.Year, p.Month)
}

// ToRoster rebuilds a grid from a payload. Slots missing from the payload are empty.
// Structural problems are returned as ValidationErrors keyed by slot position.
func (p RosterPayload) ToRoster() (Roster, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(p.PlantID) {
		errs.Add("plant_id", "must be a valid UUID")
	}
	month, err := p.period()
	if err != nil {
		errs.Add("month", err.Error())
	}
	if len(errs) > 0 {
		return Roster{}, errs
	}

	r := NewRoster(p.PlantID, month)
	for i, dto := range p.Slots {
		field := fmt.Sprintf("slots[%d]", i)
		date, err := period.ParseDate(dto.Date)
		if err != nil {
			errs.Add(field+".date", err.Error())
			continue
		}
		shift, err := ParseShift(string(dto.Shift))
		if err != nil {
			errs.Add(field+".shift", ErrInvalidShift.Error())
			continue
		}
		idx, err := r.index(date, shift)
		if err != nil {
			errs.Add(field+".date", ErrSlotOutOfRange.Error())
			continue
		}
		slot := Slot{Date: r.Slots[idx].Date, Shift: shift, LaborerIDs: append([]string(nil), dto.LaborerIDs...)}
		if dto.SupervisorID != nil {
			slot.SupervisorID = *dto.SupervisorID
		}
		r.Slots[idx] = slot
	}
	if len(errs) > 0 {
		return Roster{}, errs
	}
	return r, nil
}

// ========== REQUEST DTOs ==========

type GetRosterRequest struct {
	PlantID string
	Year    int
	Month   int
}

func (r GetRosterRequest) Validate() (period.Month, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.PlantID) {
		errs.Add("plant_id", "must be a valid UUID")
	}
	month, err := period.New(r.Year, r.Month)
	if err != nil {
		errs.Add("month", err.Error())
	}
	return month, errs.OrNil()
}

// AssignRequest toggles one seat on a caller-held grid.
type AssignRequest struct {
	Roster     RosterPayload `json:"roster"`
	Date       string        `json:"date"`
	Shift      string        `json:"shift"`
	EmployeeID string        `json:"employee_id"`
}

func (r AssignRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "must be in YYYY-MM-DD format")
	}
	if _, err := ParseShift(r.Shift); err != nil {
		errs.Add("shift", ErrInvalidShift.Error())
	}
	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	return errs.OrNil()
}

// SaveSlotRequest persists one slot directly.
type SaveSlotRequest struct {
	PlantID      string   `json:"plant"`
	Date         string   `json:"date"`
	Shift        string   `json:"shift"`
	SupervisorID *string  `json:"supervisorId"`
	LaborerIDs   []string `json:"laborerIds"`
}

func (r SaveSlotRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.PlantID) {
		errs.Add("plant", "must be a valid UUID")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "must be in YYYY-MM-DD format")
	}
	if _, err := ParseShift(r.Shift); err != nil {
		errs.Add("shift", ErrInvalidShift.Error())
	}
	if r.SupervisorID != nil && *r.SupervisorID != "" && !validator.IsValidUUID(*r.SupervisorID) {
		errs.Add("supervisorId", "must be a valid UUID")
	}
	for i, id := range r.LaborerIDs {
		if !validator.IsValidUUID(id) {
			errs.Add(fmt.Sprintf("laborerIds[%d]", i), "must be a valid UUID")
		}
	}
	return errs.OrNil()
}

type CommitRosterResponse struct {
	PlantID     string `json:"plant_id"`
	Month       string `json:"month"`
	Slots       int    `json:"slots"`
	Assignments int    `json:"assignments"`
}

type LaborerHoursResponse struct {
	EmployeeID string          `json:"id"`
	EmpNo      string          `json:"emp_no"`
	Name       string          `json:"name"`
	Shifts     int             `json:"shifts"`
	TotalHours decimal.Decimal `json:"totalHours"`
}
