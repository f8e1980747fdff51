package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-prep/internal/db"
)

func TestCreateJobPosting_WithText(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/job-postings", CreateJobPostingRequest{
		JobTitle:    " Frontend Engineer ",
		CompanyName: "Acme",
		JDText:      sampleJD,
		SourceURL:   "https://boards.greenhouse.io/acme/jobs/1",
	}, testUser)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	posting := decodeBody[db.JobPosting](t, rec)
	assert.Equal(t, testUser, posting.UserID)
	assert.Equal(t, "Frontend Engineer", posting.JobTitle)
	require.NotNil(t, posting.RawText)
	assert.Equal(t, sampleJD, *posting.RawText)
	require.NotNil(t, posting.SourceURL)
	assert.Empty(t, env.jobs.urls, "text was supplied so nothing is fetched")
}

func TestCreateJobPosting_FetchesSourceURL(t *testing.T) {
	env := newTestEnv(t, nil)
	env.jobs.text = "Fetched description of the role"

	rec := env.do(t, http.MethodPost, "/api/job-postings", CreateJobPostingRequest{
		JobTitle:    "Backend Engineer",
		CompanyName: "Acme",
		SourceURL:   "https://jobs.lever.co/acme/123",
	}, testUser)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	posting := decodeBody[db.JobPosting](t, rec)
	require.NotNil(t, posting.RawText)
	assert.Equal(t, "Fetched description of the role", *posting.RawText)
	assert.Equal(t, []string{"https://jobs.lever.co/acme/123"}, env.jobs.urls)
}

func TestCreateJobPosting_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateJobPostingRequest
		fetch   error
		wantMsg string
	}{
		{
			name:    "missing title",
			req:     CreateJobPostingRequest{CompanyName: "Acme", JDText: sampleJD},
			wantMsg: "jobTitle is required",
		},
		{
			name:    "missing company",
			req:     CreateJobPostingRequest{JobTitle: "Engineer", JDText: sampleJD},
			wantMsg: "companyName is required",
		},
		{
			name:    "no text or url",
			req:     CreateJobPostingRequest{JobTitle: "Engineer", CompanyName: "Acme"},
			wantMsg: "jdText or sourceUrl is required",
		},
		{
			name:    "bad url",
			req:     CreateJobPostingRequest{JobTitle: "Engineer", CompanyName: "Acme", SourceURL: "ftp://example.com/job"},
			wantMsg: "sourceUrl must be a valid URL",
		},
		{
			name:    "fetch fails",
			req:     CreateJobPostingRequest{JobTitle: "Engineer", CompanyName: "Acme", SourceURL: "https://example.com/job"},
			fetch:   errors.New("status 404"),
			wantMsg: "Could not fetch the job description from sourceUrl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.jobs.err = tt.fetch

			rec := env.do(t, http.MethodPost, "/api/job-postings", tt.req, testUser)
			assertFailure(t, rec, http.StatusBadRequest, "validation", tt.wantMsg)
		})
	}
}

func TestListJobPostings_ScopedToUser(t *testing.T) {
	env := newTestEnv(t, nil)
	env.repo.seedApplication(t, testUser, sampleJD)
	env.repo.seedApplication(t, otherUser, sampleJD)

	rec := env.do(t, http.MethodGet, "/api/job-postings", nil, testUser)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ListJobPostingsResponse](t, rec)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Postings, 1)
	assert.Equal(t, "Frontend Engineer", resp.Postings[0].JobTitle)
}

func TestGetAndDeleteJobPosting(t *testing.T) {
	env := newTestEnv(t, nil)
	app := env.repo.seedApplication(t, testUser, sampleJD)
	path := "/api/job-postings/" + app.JobPostingID.String()

	rec := env.do(t, http.MethodGet, path, nil, testUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.JobPostingID, decodeBody[db.JobPosting](t, rec).ID)

	rec = env.do(t, http.MethodGet, path, nil, otherUser)
	assertFailure(t, rec, http.StatusNotFound, "not_found", "Job posting not found")

	rec = env.do(t, http.MethodDelete, path, nil, otherUser)
	assertFailure(t, rec, http.StatusNotFound, "not_found", "")

	rec = env.do(t, http.MethodDelete, path, nil, testUser)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, path, nil, testUser)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobPosting_InvalidID(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/job-postings/not-a-uuid", nil, testUser)
	assertFailure(t, rec, http.StatusBadRequest, "validation", "Invalid job posting ID")
}

func TestCreateApplication(t *testing.T) {
	env := newTestEnv(t, nil)
	seeded := env.repo.seedApplication(t, testUser, sampleJD)

	rec := env.do(t, http.MethodPost, "/api/job-postings/"+seeded.JobPostingID.String()+"/applications", nil, testUser)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	app := decodeBody[db.Application](t, rec)
	assert.Equal(t, db.ApplicationDraft, app.Status)
	assert.Equal(t, seeded.JobPostingID, app.JobPostingID)

	rec = env.do(t, http.MethodPost, "/api/job-postings/"+uuid.NewString()+"/applications", nil, testUser)
	assertFailure(t, rec, http.StatusNotFound, "not_found", "Job posting not found")
}
