package onboarding

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
)

type stubBackend struct {
	record Record
}

func (s stubBackend) Onboarding(context.Context, string, string) (Record, error) {
	return s.record, nil
}

func testSession() session.Session {
	return session.Session{ID: "s-1", Token: "tok", Identity: identity.Identity{ID: "u-1", Role: identity.RoleIntern}}
}

func TestOpenEmptyWhenRecordHasNoID(t *testing.T) {
	svc := NewService(stubBackend{record: Record{ApplicationStatus: StatusSelected}}, nil)
	state, err := svc.Open(context.Background(), workflow.NewRegistry().Get("s-1"), testSession())
	require.NoError(t, err)
	require.Equal(t, workflow.PhaseEmpty, state.Phase)
	require.Equal(t, EmptyMessage, state.Message)
}

func TestOpenRecordWithoutChecklist(t *testing.T) {
	var record Record
	require.NoError(t, json.Unmarshal([]byte(`{"id":"o-1","user_id":"u-1","application_status":"Selected"}`), &record))
	require.False(t, record.Checklist.Present())

	svc := NewService(stubBackend{record: record}, nil)
	state, err := svc.Open(context.Background(), workflow.NewRegistry().Get("s-1"), testSession())
	require.NoError(t, err)
	require.Equal(t, workflow.PhaseReady, state.Phase)
	require.Equal(t, Progress{}, state.View.Progress)
}

func TestChecklistProgress(t *testing.T) {
	items := workflow.Some(
		ChecklistItem{Item: "Submit ID Proof", Completed: true},
		ChecklistItem{Item: "Submit Resume", Completed: true},
		ChecklistItem{Item: "Sign Agreement"},
	)
	require.Equal(t, Progress{Completed: 2, Total: 3, Percent: 67}, ChecklistProgress(items))
}

func TestValidateUpdate(t *testing.T) {
	require.NoError(t, ValidateUpdate(DefaultUpdate()))

	bad := DefaultUpdate()
	bad.BackgroundVerification = "Done"
	var verr *workflow.ValidationError
	require.ErrorAs(t, ValidateUpdate(bad), &verr)
	require.Equal(t, "background_verification", verr.Fields[0].Field)
}
