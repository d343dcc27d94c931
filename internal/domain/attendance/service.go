package attendance

import (
	"context"
	"io"
)

type AttendanceService interface {
	RecordAttendance(ctx context.Context, req RecordAttendanceRequest) (EntryResponse, error)
	ImportAttendance(ctx context.Context, filename string, r io.Reader) (ImportResponse, error)
	Summarize(ctx context.Context, req SummaryRequest) ([]SummaryResponse, error)
	ApproveExecutive(ctx context.Context, req ApproveExecutiveRequest) (ApproveResponse, error)
	ApproveNonExecutive(ctx context.Context, req ApproveNonExecutiveRequest) (ApproveResponse, error)
	ListApproved(ctx context.Context, req ListApprovedRequest) ([]RecordResponse, error)
}
