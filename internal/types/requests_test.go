package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req:  RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass"},
		},
		{
			name:    "missing name",
			req:     RegisterRequest{Email: "ada@example.com", Password: "s3cret-pass"},
			wantErr: true,
		},
		{
			name:    "bad email",
			req:     RegisterRequest{Name: "Ada", Email: "not-an-email", Password: "s3cret-pass"},
			wantErr: true,
		},
		{
			name:    "short password",
			req:     RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "short"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	valid := LoginRequest{Email: "ada@example.com", Password: "whatever"}
	require.NoError(t, valid.Validate())

	missing := LoginRequest{Email: "ada@example.com"}
	assert.Error(t, missing.Validate())
}

func TestTrackEnrollmentRequest_Validate(t *testing.T) {
	valid := TrackEnrollmentRequest{
		CourseID:    "c1",
		CourseTitle: "Kubernetes for Developers",
		Provider:    "Udemy",
		ExternalURL: "https://www.udemy.com/course/kubernetes-for-developers/",
	}
	require.NoError(t, valid.Validate())

	badURL := valid
	badURL.ExternalURL = "not a url"
	assert.Error(t, badURL.Validate())

	noCourse := valid
	noCourse.CourseID = ""
	assert.Error(t, noCourse.Validate())
}

func TestUpdateProgressRequest_Validate(t *testing.T) {
	valid := UpdateProgressRequest{Progress: 45, TimeSpent: 2.5, Status: "in-progress"}
	require.NoError(t, valid.Validate())

	noStatus := UpdateProgressRequest{Progress: 10, TimeSpent: 1}
	require.NoError(t, noStatus.Validate())

	overProgress := UpdateProgressRequest{Progress: 120, TimeSpent: 1}
	assert.Error(t, overProgress.Validate())

	badStatus := UpdateProgressRequest{Progress: 10, TimeSpent: 1, Status: "enrolled"}
	assert.Error(t, badStatus.Validate())
}
