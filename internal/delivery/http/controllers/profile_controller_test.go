package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileController_GetProfile(t *testing.T) {
	profile := &domain.Profile{
		UserID:                 alice.UserID,
		DisplayName:            "alice",
		MainEmail:              alice.Email,
		TeeShirtSize:           domain.TeeShirtNotSpecified,
		ConferenceKeysToAttend: []string{"c1"},
		SessionKeysToAttend:    []string{},
	}

	tests := []struct {
		name         string
		id           *domain.Identity
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{name: "success", id: &alice, wantStatus: http.StatusOK},
		{name: "no identity", id: nil, wantStatus: http.StatusUnauthorized, wantBodyCode: helpers.ErrCodeUnauthorized},
		{name: "store failure", id: &alice, fakeErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantBodyCode: helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeProfileService{profile: profile, err: tt.fakeErr}
			ctrl := NewProfileController(testLogger, svc)
			rr := httptest.NewRecorder()

			ctrl.GetProfile(rr, newRequest(http.MethodGet, "/profile", "", tt.id, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			env := decodeEnvelope[ProfileResponse](t, rr)
			if tt.wantBodyCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantBodyCode, env.Error.Code)
				return
			}
			assert.Equal(t, alice, svc.lastID)
			assert.Equal(t, "alice", env.Data.DisplayName)
			assert.Equal(t, "NOT_SPECIFIED", env.Data.TeeShirtSize)
			assert.Equal(t, []string{"c1"}, env.Data.ConferenceKeysToAttend)
		})
	}
}

func TestProfileController_SaveProfile(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
		wantUpdate domain.ProfileUpdate
	}{
		{
			name:       "success",
			body:       `{"display_name":"Alice L.","tee_shirt_size":"M_W"}`,
			wantStatus: http.StatusOK,
			wantUpdate: domain.ProfileUpdate{DisplayName: "Alice L.", TeeShirtSize: domain.TeeShirtMW},
		},
		{name: "unknown size", body: `{"tee_shirt_size":"HUGE"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"main_email":"x@y.z"}`, wantStatus: http.StatusBadRequest},
		{name: "service rejects", body: `{}`, fakeErr: domain.ErrInvalidInput, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeProfileService{profile: &domain.Profile{DisplayName: "Alice L."}, err: tt.fakeErr}
			ctrl := NewProfileController(testLogger, svc)
			rr := httptest.NewRecorder()

			ctrl.SaveProfile(rr, newRequest(http.MethodPost, "/profile", tt.body, &alice, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUpdate, svc.lastUpdate)
			}
		})
	}
}
