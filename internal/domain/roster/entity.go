package roster

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

type Shift string

const (
	ShiftMorning Shift = "Morning"
	ShiftDay     Shift = "Day"
	ShiftNight   Shift = "Night"
)

// Shifts in daily order.
var Shifts = []Shift{ShiftMorning, ShiftDay, ShiftNight}

// ParseShift accepts the shift name in any case.
func ParseShift(s string) (Shift, error) {
	for _, shift := range Shifts {
		if strings.EqualFold(strings.TrimSpace(s), string(shift)) {
			return shift, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidShift, s)
}

// Index is the shift's position within a day, 0 for Morning.
func (s Shift) Index() int {
	for i, shift := range Shifts {
		if shift == s {
			return i
		}
	}
	return -1
}

type SlotState string

const (
	SlotEmpty          SlotState = "Empty"
	SlotSupervisorOnly SlotState = "SupervisorOnly"
	SlotStaffed        SlotState = "Staffed"
)

// Slot is one (date, shift) cell of a plant roster. An empty SupervisorID means unassigned.
type Slot struct {
	Date         time.Time
	Shift        Shift
	SupervisorID string
	LaborerIDs   []string
}

func (s Slot) State() SlotState {
	switch {
	case s.SupervisorID == "":
		return SlotEmpty
	case len(s.LaborerIDs) == 0:
		return SlotSupervisorOnly
	default:
		return SlotStaffed
	}
}

func (s Slot) IsAssigned() bool {
	return s.SupervisorID != "" || len(s.LaborerIDs) > 0
}

func (s Slot) HasLaborer(employeeID string) bool {
	for _, id := range s.LaborerIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// EmployeeIDs returns the supervisor followed by the laborers.
func (s Slot) EmployeeIDs() []string {
	ids := make([]string, 0, len(s.LaborerIDs)+1)
	if s.SupervisorID != "" {
		ids = append(ids, s.SupervisorID)
	}
	return append(ids, s.LaborerIDs...)
}

func (s Slot) clone() Slot {
	s.LaborerIDs = append([]string(nil), s.LaborerIDs...)
	return s
}

// AssignmentRole is the seat an employee takes in a slot.
type AssignmentRole string

const (
	AssignmentSupervisor AssignmentRole = "supervisor"
	AssignmentLaborer    AssignmentRole = "laborer"
)

// Assignment is the persisted form of one seat in one slot.
type Assignment struct {
	PlantID    string
	Date       time.Time
	Shift      Shift
	EmployeeID string
	Role       AssignmentRole
}

// Roster is the full grid of a plant month: every day times every shift.
// It is a value; transitions return a new Roster and leave the input untouched.
type Roster struct {
	PlantID string
	Month   period.Month
	Slots   []Slot
}

// NewRoster returns an empty grid for the month.
func NewRoster(plantID string, month period.Month) Roster {
	days := month.Days()
	slots := make([]Slot, 0, days*len(Shifts))
	for day := 1; day <= days; day++ {
		for _, shift := range Shifts {
			slots = append(slots, Slot{Date: month.Date(day), Shift: shift})
		}
	}
	return Roster{PlantID: plantID, Month: month, Slots: slots}
}

func (r Roster) index(date time.Time, shift Shift) (int, error) {
	if !r.Month.Contains(date) {
		return 0, fmt.Errorf("%w: %s not in %s", ErrSlotOutOfRange, period.FormatDate(date), r.Month)
	}
	idx := shift.Index()
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidShift, shift)
	}
	return (date.Day()-1)*len(Shifts) + idx, nil
}

// Slot returns the cell for (date, shift).
func (r Roster) Slot(date time.Time, shift Shift) (Slot, error) {
	i, err := r.index(date, shift)
	if err != nil {
		return Slot{}, err
	}
	return r.Slots[i].clone(), nil
}

func (r Roster) with(i int, slot Slot) Roster {
	slots := make([]Slot, len(r.Slots))
	copy(slots, r.Slots)
	slots[i] = slot
	r.Slots = slots
	return r
}

// Merge overlays persisted assignments onto the grid. Assignments outside the month are ignored.
func (r Roster) Merge(assignments []Assignment) Roster {
	slots := make([]Slot, len(r.Slots))
	for i, s := range r.Slots {
		slots[i] = s.clone()
	}
	for _, a := range assignments {
		i, err := r.index(a.Date, a.Shift)
		if err != nil {
			continue
		}
		switch a.Role {
		case AssignmentSupervisor:
			slots[i].SupervisorID = a.EmployeeID
		case AssignmentLaborer:
			if !slots[i].HasLaborer(a.EmployeeID) {
				slots[i].LaborerIDs = append(slots[i].LaborerIDs, a.EmployeeID)
			}
		}
	}
	r.Slots = slots
	return r
}

// AssignedSlots returns every slot that has a supervisor or laborers.
func (r Roster) AssignedSlots() []Slot {
	var out []Slot
	for _, s := range r.Slots {
		if s.IsAssigned() {
			out = append(out, s.clone())
		}
	}
	return out
}

// Assignments flattens the grid into persisted rows, sorted by date, shift and seat.
func (r Roster) Assignments() []Assignment {
	var out []Assignment
	for _, s := range r.Slots {
		out = append(out, slotAssignments(r.PlantID, s)...)
	}
	return out
}

func slotAssignments(plantID string, s Slot) []Assignment {
	var out []Assignment
	if s.SupervisorID != "" {
		out = append(out, Assignment{PlantID: plantID, Date: s.Date, Shift: s.Shift, EmployeeID: s.SupervisorID, Role: AssignmentSupervisor})
	}
	laborers := append([]string(nil), s.LaborerIDs...)
	sort.Strings(laborers)
	for _, id := range laborers {
		out = append(out, Assignment{PlantID: plantID, Date: s.Date, Shift: s.Shift, EmployeeID: id, Role: AssignmentLaborer})
	}
	return out
}

// SlotAssignments is the persisted form of a single slot.
func SlotAssignments(plantID string, s Slot) []Assignment {
	return slotAssignments(plantID, s)
}

// ========== TRANSITIONS ==========

func blockedBy(cal holiday.Calendar, date time.Time, sentinel error) error {
	if h, ok := cal.Lookup(date); ok {
		return &HolidayError{Holiday: h, Err: sentinel}
	}
	return nil
}

// AssignSupervisor toggles the supervisor seat. Assigning the current supervisor again clears the
// slot, laborers included; any other employee replaces the supervisor and keeps the laborers.
func AssignSupervisor(r Roster, cal holiday.Calendar, date time.Time, shift Shift, employeeID string) (Roster, error) {
	i, err := r.index(date, shift)
	if err != nil {
		return r, err
	}
	if err := blockedBy(cal, date, ErrHolidayBlocked); err != nil {
		return r, err
	}

	slot := r.Slots[i].clone()
	switch {
	case slot.SupervisorID == employeeID:
		slot.SupervisorID = ""
		slot.LaborerIDs = nil
	case slot.HasLaborer(employeeID):
		return r, &DoubleBookingError{EmployeeID: employeeID, Date: slot.Date, Shift: shift}
	default:
		slot.SupervisorID = employeeID
	}
	return r.with(i, slot), nil
}

// AssignLaborer toggles laborer membership. The holiday check comes before everything else.
func AssignLaborer(r Roster, cal holiday.Calendar, date time.Time, shift Shift, employeeID string) (Roster, error) {
	i, err := r.index(date, shift)
	if err != nil {
		return r, err
	}
	if err := blockedBy(cal, date, ErrHolidayBlocked); err != nil {
		return r, err
	}

	slot := r.Slots[i].clone()
	if slot.SupervisorID == "" {
		return r, ErrSupervisorRequired
	}
	if slot.SupervisorID == employeeID {
		return r, &DoubleBookingError{EmployeeID: employeeID, Date: slot.Date, Shift: shift}
	}

	if slot.HasLaborer(employeeID) {
		kept := slot.LaborerIDs[:0]
		for _, id := range slot.LaborerIDs {
			if id != employeeID {
				kept = append(kept, id)
			}
		}
		slot.LaborerIDs = kept
	} else {
		slot.LaborerIDs = append(slot.LaborerIDs, employeeID)
	}
	return r.with(i, slot), nil
}

// SetSlot replaces one slot wholesale, enforcing the same rules as the toggles.
func SetSlot(r Roster, cal holiday.Calendar, slot Slot) (Roster, error) {
	i, err := r.index(slot.Date, slot.Shift)
	if err != nil {
		return r, err
	}
	slot = slot.clone()
	if slot.IsAssigned() {
		if err := blockedBy(cal, slot.Date, ErrHolidayBlocked); err != nil {
			return r, err
		}
	}
	if err := validateSlot(slot); err != nil {
		return r, err
	}
	slot.Date = r.Slots[i].Date
	return r.with(i, slot), nil
}

func validateSlot(s Slot) error {
	if len(s.LaborerIDs) > 0 && s.SupervisorID == "" {
		return ErrSupervisorRequired
	}
	seen := make(map[string]bool, len(s.LaborerIDs)+1)
	for _, id := range s.EmployeeIDs() {
		if seen[id] {
			return &DoubleBookingError{EmployeeID: id, Date: s.Date, Shift: s.Shift}
		}
		seen[id] = true
	}
	return nil
}

// Validate checks every slot of a caller-held grid before it is committed: the
// supervisor-before-laborers rule, no employee twice in a slot, and no assignment on a holiday.
func Validate(r Roster, cal holiday.Calendar) error {
	assigned := 0
	for _, s := range r.Slots {
		if !s.IsAssigned() {
			continue
		}
		assigned++
		if err := blockedBy(cal, s.Date, ErrHolidayConflict); err != nil {
			return err
		}
		if err := validateSlot(s); err != nil {
			return err
		}
	}
	if assigned == 0 {
		return ErrEmptyRoster
	}
	return nil
}
