package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/config"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/plant"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type RosterServiceImpl struct {
	db             *database.DB
	rosterRepo     roster.RosterRepository
	employeeRepo   employee.EmployeeRepository
	plantRepo      plant.PlantRepository
	holidayService holiday.HolidayService
	shifts         config.ShiftPolicy
}

func NewRosterService(
	db *database.DB,
	rosterRepo roster.RosterRepository,
	employeeRepo employee.EmployeeRepository,
	plantRepo plant.PlantRepository,
	holidayService holiday.HolidayService,
	shifts config.ShiftPolicy,
) roster.RosterService {
	return &RosterServiceImpl{
		db:             db,
		rosterRepo:     rosterRepo,
		employeeRepo:   employeeRepo,
		plantRepo:      plantRepo,
		holidayService: holidayService,
		shifts:         shifts,
	}
}

func (s *RosterServiceImpl) GetRoster(ctx context.Context, req roster.GetRosterRequest) (roster.RosterResponse, error) {
	month, err := req.Validate()
	if err != nil {
		return roster.RosterResponse{}, err
	}
	if _, err := s.plantRepo.GetByID(ctx, req.PlantID); err != nil {
		return roster.RosterResponse{}, err
	}

	cal, err := s.holidayService.CalendarFor(ctx, month)
	if err != nil {
		return roster.RosterResponse{}, err
	}

	r, err := s.load(ctx, req.PlantID, month)
	if err != nil {
		return roster.RosterResponse{}, err
	}
	return s.respond(r, cal), nil
}

// ========== PURE TOGGLES ==========

func (s *RosterServiceImpl) AssignSupervisor(ctx context.Context, req roster.AssignRequest) (roster.RosterResponse, error) {
	return s.toggle(ctx, req, roster.AssignSupervisor, employee.RoleSupervisor)
}

func (s *RosterServiceImpl) AssignLaborer(ctx context.Context, req roster.AssignRequest) (roster.RosterResponse, error) {
	return s.toggle(ctx, req, roster.AssignLaborer, employee.RoleLaborer)
}

type transition func(roster.Roster, holiday.Calendar, time.Time, roster.Shift, string) (roster.Roster, error)

// toggle applies a transition to the caller's grid. Nothing is persisted.
func (s *RosterServiceImpl) toggle(ctx context.Context, req roster.AssignRequest, apply transition, role employee.Role) (roster.RosterResponse, error) {
	if err := req.Validate(); err != nil {
		return roster.RosterResponse{}, err
	}
	r, err := req.Roster.ToRoster()
	if err != nil {
		return roster.RosterResponse{}, err
	}
	cal, err := s.holidayService.CalendarFor(ctx, r.Month)
	if err != nil {
		return roster.RosterResponse{}, err
	}

	date, _ := period.ParseDate(req.Date)
	shift, _ := roster.ParseShift(req.Shift)

	next, err := apply(r, cal, date, shift, req.EmployeeID)
	if err != nil {
		return roster.RosterResponse{}, err
	}
	if err := s.checkRoles(ctx, map[string]employee.Role{req.EmployeeID: role}); err != nil {
		return roster.RosterResponse{}, err
	}
	return s.respond(next, cal), nil
}

// ========== PERSISTENCE ==========

// CommitRoster replaces the plant month with the caller's grid in one transaction.
// Concurrent commits of the same month resolve last-write-wins.
func (s *RosterServiceImpl) CommitRoster(ctx context.Context, payload roster.RosterPayload) (roster.CommitRosterResponse, error) {
	r, err := payload.ToRoster()
	if err != nil {
		return roster.CommitRosterResponse{}, err
	}
	if _, err := s.plantRepo.GetByID(ctx, r.PlantID); err != nil {
		return roster.CommitRosterResponse{}, err
	}

	cal, err := s.holidayService.CalendarFor(ctx, r.Month)
	if err != nil {
		return roster.CommitRosterResponse{}, err
	}
	if err := roster.Validate(r, cal); err != nil {
		return roster.CommitRosterResponse{}, err
	}

	assignments := r.Assignments()
	if err := s.checkRoles(ctx, rolesOf(assignments)); err != nil {
		return roster.CommitRosterResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		// Holidays added since the cache was filled still block the commit.
		stored, err := s.holidayService.ReloadCalendarFor(txCtx, r.Month)
		if err != nil {
			return err
		}
		if err := roster.Validate(r, stored); err != nil {
			return err
		}
		if err := s.checkConflicts(txCtx, r.PlantID, assignments); err != nil {
			return err
		}
		return s.rosterRepo.ReplaceMonth(txCtx, r.PlantID, r.Month, assignments)
	})
	if err != nil {
		return roster.CommitRosterResponse{}, err
	}

	slots := len(r.AssignedSlots())
	slog.Info("roster committed", "plant_id", r.PlantID, "month", r.Month.String(), "slots", slots, "assignments", len(assignments))

	return roster.CommitRosterResponse{
		PlantID:     r.PlantID,
		Month:       r.Month.String(),
		Slots:       slots,
		Assignments: len(assignments),
	}, nil
}

// SaveSlot persists a single slot against the stored roster.
func (s *RosterServiceImpl) SaveSlot(ctx context.Context, req roster.SaveSlotRequest) (roster.SlotDTO, error) {
	if err := req.Validate(); err != nil {
		return roster.SlotDTO{}, err
	}
	if _, err := s.plantRepo.GetByID(ctx, req.PlantID); err != nil {
		return roster.SlotDTO{}, err
	}

	date, _ := period.ParseDate(req.Date)
	shift, _ := roster.ParseShift(req.Shift)
	month := period.Of(date)

	slot := roster.Slot{Date: date, Shift: shift, LaborerIDs: req.LaborerIDs}
	if req.SupervisorID != nil {
		slot.SupervisorID = *req.SupervisorID
	}

	var saved roster.Slot
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		cal, err := s.holidayService.ReloadCalendarFor(txCtx, month)
		if err != nil {
			return err
		}
		current, err := s.load(txCtx, req.PlantID, month)
		if err != nil {
			return err
		}
		next, err := roster.SetSlot(current, cal, slot)
		if err != nil {
			return err
		}
		if saved, err = next.Slot(date, shift); err != nil {
			return err
		}

		assignments := roster.SlotAssignments(req.PlantID, saved)
		if err := s.checkRoles(txCtx, rolesOf(assignments)); err != nil {
			return err
		}
		if err := s.checkConflicts(txCtx, req.PlantID, assignments); err != nil {
			return err
		}
		return s.rosterRepo.ReplaceSlot(txCtx, req.PlantID, date, shift, assignments)
	})
	if err != nil {
		return roster.SlotDTO{}, err
	}

	return saved.ToDTO(), nil
}

// LaborerHours totals the nominal hours of every laborer seat in the stored roster.
func (s *RosterServiceImpl) LaborerHours(ctx context.Context, req roster.GetRosterRequest) ([]roster.LaborerHoursResponse, error) {
	month, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if _, err := s.plantRepo.GetByID(ctx, req.PlantID); err != nil {
		return nil, err
	}

	assignments, err := s.rosterRepo.ListByMonth(ctx, req.PlantID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	totals := make(map[string]*roster.LaborerHoursResponse)
	var ids []string
	for _, a := range assignments {
		if a.Role != roster.AssignmentLaborer {
			continue
		}
		window, ok := s.shifts.ByName(string(a.Shift))
		if !ok {
			continue
		}
		t, exists := totals[a.EmployeeID]
		if !exists {
			t = &roster.LaborerHoursResponse{EmployeeID: a.EmployeeID, TotalHours: decimal.Zero}
			totals[a.EmployeeID] = t
			ids = append(ids, a.EmployeeID)
		}
		t.Shifts++
		t.TotalHours = t.TotalHours.Add(window.Hours)
	}
	if len(ids) == 0 {
		return []roster.LaborerHoursResponse{}, nil
	}

	employees, err := s.employeeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	for _, e := range employees {
		if t, ok := totals[e.ID]; ok {
			t.EmpNo, t.Name = e.EmpNo, e.Name
		}
	}

	responses := make([]roster.LaborerHoursResponse, 0, len(totals))
	for _, id := range ids {
		responses = append(responses, *totals[id])
	}
	sort.Slice(responses, func(i, j int) bool {
		if responses[i].EmpNo != responses[j].EmpNo {
			return responses[i].EmpNo < responses[j].EmpNo
		}
		return responses[i].EmployeeID < responses[j].EmployeeID
	})
	return responses, nil
}

// ========== HELPERS ==========

func (s *RosterServiceImpl) load(ctx context.Context, plantID string, month period.Month) (roster.Roster, error) {
	assignments, err := s.rosterRepo.ListByMonth(ctx, plantID, month)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("failed to load roster: %w", err)
	}
	return roster.NewRoster(plantID, month).Merge(assignments), nil
}

func (s *RosterServiceImpl) respond(r roster.Roster, cal holiday.Calendar) roster.RosterResponse {
	holidays := cal.Between(r.Month.Start(), r.Month.End())
	resp := roster.RosterResponse{
		RosterPayload: r.ToPayload(),
		Holidays:      make([]holiday.HolidayResponse, 0, len(holidays)),
	}
	for _, h := range holidays {
		resp.Holidays = append(resp.Holidays, h.ToResponse())
	}
	return resp
}

func rolesOf(assignments []roster.Assignment) map[string]employee.Role {
	roles := make(map[string]employee.Role, len(assignments))
	for _, a := range assignments {
		if a.Role == roster.AssignmentSupervisor {
			roles[a.EmployeeID] = employee.RoleSupervisor
		} else if _, seen := roles[a.EmployeeID]; !seen {
			roles[a.EmployeeID] = employee.RoleLaborer
		}
	}
	return roles
}

// checkRoles rejects supervisors and laborers whose directory role says otherwise.
// Employees unknown to the directory are let through.
func (s *RosterServiceImpl) checkRoles(ctx context.Context, want map[string]employee.Role) error {
	if len(want) == 0 {
		return nil
	}
	ids := make([]string, 0, len(want))
	for id := range want {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	employees, err := s.employeeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })

	for _, e := range employees {
		role, ok := want[e.ID]
		if !ok || e.Role == "" || e.Role == role {
			continue
		}
		return &roster.RoleMismatchError{EmployeeID: e.ID, Want: string(role), Got: string(e.Role)}
	}
	return nil
}

func (s *RosterServiceImpl) checkConflicts(ctx context.Context, plantID string, assignments []roster.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	conflicts, err := s.rosterRepo.FindConflicts(ctx, plantID, assignments)
	if err != nil {
		return fmt.Errorf("failed to check roster conflicts: %w", err)
	}
	if len(conflicts) == 0 {
		return nil
	}
	c := conflicts[0]
	return &roster.DoubleBookingError{EmployeeID: c.EmployeeID, Date: c.Date, Shift: c.Shift, PlantID: c.PlantID}
}
