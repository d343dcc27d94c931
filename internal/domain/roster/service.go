package roster

import (
	"context"
)

type RosterService interface {
	GetRoster(ctx context.Context, req GetRosterRequest) (RosterResponse, error)
	AssignSupervisor(ctx context.Context, req AssignRequest) (RosterResponse, error)
	AssignLaborer(ctx context.Context, req AssignRequest) (RosterResponse, error)
	CommitRoster(ctx context.Context, payload RosterPayload) (CommitRosterResponse, error)
	SaveSlot(ctx context.Context, req SaveSlotRequest) (SlotDTO, error)
	LaborerHours(ctx context.Context, req GetRosterRequest) ([]LaborerHoursResponse, error)
}
