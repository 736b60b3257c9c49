package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationController_Toggles(t *testing.T) {
	tests := []struct {
		name         string
		call         func(c *RegistrationController, w http.ResponseWriter, r *http.Request)
		path         map[string]string
		id           *domain.Identity
		result       bool
		fakeErr      error
		wantStatus   int
		wantCall     string
		wantBodyCode string
	}{
		{name: "register", call: (*RegistrationController).Register, path: map[string]string{"conferenceID": "c1"}, id: &alice, result: true, wantStatus: http.StatusOK, wantCall: "register"},
		{name: "register twice", call: (*RegistrationController).Register, path: map[string]string{"conferenceID": "c1"}, id: &alice, fakeErr: fmt.Errorf("%w: you have already registered for this conference", domain.ErrConflict), wantStatus: http.StatusConflict, wantCall: "register", wantBodyCode: helpers.ErrCodeConflict},
		{name: "register anonymous", call: (*RegistrationController).Register, path: map[string]string{"conferenceID": "c1"}, wantStatus: http.StatusUnauthorized, wantBodyCode: helpers.ErrCodeUnauthorized},
		{name: "unregister not registered", call: (*RegistrationController).Unregister, path: map[string]string{"conferenceID": "c1"}, id: &alice, result: false, wantStatus: http.StatusOK, wantCall: "unregister"},
		{name: "wishlist add", call: (*RegistrationController).AddToWishlist, path: map[string]string{"sessionID": "s1"}, id: &alice, result: true, wantStatus: http.StatusOK, wantCall: "add"},
		{name: "wishlist add unknown", call: (*RegistrationController).AddToWishlist, path: map[string]string{"sessionID": "s9"}, id: &alice, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCall: "add", wantBodyCode: helpers.ErrCodeNotFound},
		{name: "wishlist remove", call: (*RegistrationController).RemoveFromWishlist, path: map[string]string{"sessionID": "s1"}, id: &alice, result: true, wantStatus: http.StatusOK, wantCall: "remove"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRegistrationService{result: tt.result, err: tt.fakeErr}
			ctrl := NewRegistrationController(testLogger, svc)
			rr := httptest.NewRecorder()

			tt.call(ctrl, rr, newRequest(http.MethodPost, "/", "", tt.id, tt.path))

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCall, svc.lastCall)
			env := decodeEnvelope[BooleanResponse](t, rr)
			if tt.wantBodyCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantBodyCode, env.Error.Code)
				return
			}
			for _, v := range tt.path {
				assert.Equal(t, v, svc.lastKey)
			}
			assert.Equal(t, tt.result, env.Data.Success)
		})
	}
}

func TestRegistrationController_ListWishlist(t *testing.T) {
	svc := &fakeRegistrationService{list: []*domain.Session{sampleSession()}}
	ctrl := NewRegistrationController(testLogger, svc)
	rr := httptest.NewRecorder()

	ctrl.ListWishlist(rr, newRequest(http.MethodGet, "/sessions/wishlist", "", &alice, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope[SessionListResponse](t, rr)
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, "s1", env.Data.Items[0].ID)
}
