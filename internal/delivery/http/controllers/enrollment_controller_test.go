package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"
)

const (
	testEnrollmentID = "0190c2a4-3f5e-7000-8000-000000000001"
	testEventID      = "0190c2a4-3f5e-7000-8000-000000000002"
	testUserID       = "0190c2a4-3f5e-7000-8000-000000000003"
)

// fakeEnrollmentService implements domain.EnrollmentService for handler tests.
type fakeEnrollmentService struct {
	page     *domain.EnrollmentPage
	counters *domain.EnrollmentCounters
	added    *domain.Enrollment
	err      error

	lastFilters domain.EnrollmentFilters
	lastCursor  string
	lastLimit   int
	lastInput   domain.AddEnrollmentInput
	removedID   string
}

func (f *fakeEnrollmentService) List(_ context.Context, filters domain.EnrollmentFilters, cursor string, limit int) (*domain.EnrollmentPage, error) {
	f.lastFilters, f.lastCursor, f.lastLimit = filters, cursor, limit
	return f.page, f.err
}

func (f *fakeEnrollmentService) Counters(_ context.Context, filters domain.EnrollmentFilters) (*domain.EnrollmentCounters, error) {
	f.lastFilters = filters
	return f.counters, f.err
}

func (f *fakeEnrollmentService) Add(_ context.Context, _ string, in domain.AddEnrollmentInput) (*domain.Enrollment, error) {
	f.lastInput = in
	return f.added, f.err
}

func (f *fakeEnrollmentService) ToggleCheckIn(_ context.Context, _, enrollmentID string) (*domain.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Enrollment{ID: enrollmentID, CheckedIn: true}, nil
}

func (f *fakeEnrollmentService) ChangeParticipantType(_ context.Context, _, enrollmentID, participantType string) (*domain.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Enrollment{ID: enrollmentID, ParticipantType: participantType}, nil
}

func (f *fakeEnrollmentService) Remove(_ context.Context, _, enrollmentID string) error {
	f.removedID = enrollmentID
	return f.err
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var env helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func TestEnrollmentController_List(t *testing.T) {
	fake := &fakeEnrollmentService{page: &domain.EnrollmentPage{
		Data:     []*domain.Enrollment{{ID: testEnrollmentID}},
		Metadata: domain.PageMetadata{Count: 1},
	}}
	ctrl := NewEnrollmentController(testLogger(), fake)

	req := httptest.NewRequest(http.MethodGet,
		"/admin/enrollments?search=maria&event_id="+testEventID+"&status=CHECKED_IN&date_from=2025-03-01&cursor=abc&limit=50", nil)
	rr := httptest.NewRecorder()

	ctrl.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "maria", fake.lastFilters.Search)
	assert.Equal(t, testEventID, fake.lastFilters.EventID)
	assert.Equal(t, domain.StatusCheckedIn, fake.lastFilters.Status)
	require.NotNil(t, fake.lastFilters.DateFrom)
	assert.Equal(t, "abc", fake.lastCursor)
	assert.Equal(t, 50, fake.lastLimit)

	env := decodeEnvelope(t, rr)
	assert.Nil(t, env.Error)
	assert.NotNil(t, env.Data)
}

func TestEnrollmentController_Counters(t *testing.T) {
	fake := &fakeEnrollmentService{counters: &domain.EnrollmentCounters{Total: 10, CheckedIn: 6, Pending: 4, CheckInRate: 60}}
	ctrl := NewEnrollmentController(testLogger(), fake)

	req := httptest.NewRequest(http.MethodGet, "/admin/enrollments/counters", nil)
	rr := httptest.NewRecorder()

	ctrl.Counters(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"check_in_rate":60`)
}

func TestEnrollmentController_Add(t *testing.T) {
	validBody := `{"event_id":"` + testEventID + `","user_id":"` + testUserID + `","attendee_name":"Maria Souza","attendee_email":"maria@example.com"}`

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantSubstr string
	}{
		{
			name:       "created",
			body:       validBody,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{invalid`,
			wantStatus: http.StatusBadRequest,
			wantSubstr: "corpo da requisição inválido",
		},
		{
			name:       "missing attendee name",
			body:       `{"event_id":"` + testEventID + `","user_id":"` + testUserID + `"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "event id is not a uuid",
			body:       `{"event_id":"nope","user_id":"` + testUserID + `","attendee_name":"Maria"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown event or user",
			body:       validBody,
			err:        domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantSubstr: "evento ou usuário não encontrado",
		},
		{
			name:       "already enrolled",
			body:       validBody,
			err:        domain.ErrDuplicate,
			wantStatus: http.StatusConflict,
			wantSubstr: "usuário já inscrito neste evento",
		},
		{
			name:       "service failure",
			body:       validBody,
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantSubstr: "erro interno",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEnrollmentService{
				added: &domain.Enrollment{ID: testEnrollmentID},
				err:   tt.err,
			}
			ctrl := NewEnrollmentController(testLogger(), fake)
			req := httptest.NewRequest(http.MethodPost, "/admin/enrollments", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Add(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "body: %s", rr.Body.String())
			if tt.wantSubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantSubstr)
			}
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, testEventID, fake.lastInput.EventID)
				assert.Equal(t, "Maria Souza", fake.lastInput.AttendeeName)
			}
		})
	}
}

func TestEnrollmentController_ToggleCheckIn(t *testing.T) {
	t.Run("toggles", func(t *testing.T) {
		ctrl := NewEnrollmentController(testLogger(), &fakeEnrollmentService{})
		req := httptest.NewRequest(http.MethodPost, "/admin/enrollments/"+testEnrollmentID+"/check-in", nil)
		req.SetPathValue("enrollmentID", testEnrollmentID)
		rr := httptest.NewRecorder()

		ctrl.ToggleCheckIn(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"checked_in":true`)
	})

	t.Run("rejects a malformed id before touching the service", func(t *testing.T) {
		ctrl := NewEnrollmentController(testLogger(), &fakeEnrollmentService{})
		req := httptest.NewRequest(http.MethodPost, "/admin/enrollments/nope/check-in", nil)
		req.SetPathValue("enrollmentID", "nope")
		rr := httptest.NewRecorder()

		ctrl.ToggleCheckIn(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown enrollment is 404", func(t *testing.T) {
		ctrl := NewEnrollmentController(testLogger(), &fakeEnrollmentService{err: domain.ErrNotFound})
		req := httptest.NewRequest(http.MethodPost, "/admin/enrollments/"+testEnrollmentID+"/check-in", nil)
		req.SetPathValue("enrollmentID", testEnrollmentID)
		rr := httptest.NewRecorder()

		ctrl.ToggleCheckIn(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEnrollmentController_ChangeParticipantType(t *testing.T) {
	t.Run("retypes", func(t *testing.T) {
		ctrl := NewEnrollmentController(testLogger(), &fakeEnrollmentService{})
		req := httptest.NewRequest(http.MethodPatch, "/admin/enrollments/"+testEnrollmentID+"/participant-type",
			bytes.NewBufferString(`{"participant_type":"sponsor"}`))
		req.SetPathValue("enrollmentID", testEnrollmentID)
		rr := httptest.NewRecorder()

		ctrl.ChangeParticipantType(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"participant_type":"sponsor"`)
	})

	t.Run("rejects a type outside the enum", func(t *testing.T) {
		ctrl := NewEnrollmentController(testLogger(), &fakeEnrollmentService{})
		req := httptest.NewRequest(http.MethodPatch, "/admin/enrollments/"+testEnrollmentID+"/participant-type",
			bytes.NewBufferString(`{"participant_type":"vip"}`))
		req.SetPathValue("enrollmentID", testEnrollmentID)
		rr := httptest.NewRecorder()

		ctrl.ChangeParticipantType(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEnrollmentController_Remove(t *testing.T) {
	t.Run("removes with no content", func(t *testing.T) {
		fake := &fakeEnrollmentService{}
		ctrl := NewEnrollmentController(testLogger(), fake)
		req := httptest.NewRequest(http.MethodDelete, "/admin/enrollments/"+testEnrollmentID, nil)
		req.SetPathValue("enrollmentID", testEnrollmentID)
		rr := httptest.NewRecorder()

		ctrl.Remove(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, testEnrollmentID, fake.removedID)
	})

	t.Run("unknown enrollment is 404", func(t *testing.T) {
		ctrl := NewEnrollmentController(testLogger(), &fakeEnrollmentService{err: domain.ErrNotFound})
		req := httptest.NewRequest(http.MethodDelete, "/admin/enrollments/"+testEnrollmentID, nil)
		req.SetPathValue("enrollmentID", testEnrollmentID)
		rr := httptest.NewRecorder()

		ctrl.Remove(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
