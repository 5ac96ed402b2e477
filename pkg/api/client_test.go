package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/stretchr/testify/assert"
)

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		assert.Equal("/login", r.URL.Path)

		var body map[string]string
		assert.Nil(json.NewDecoder(r.Body).Decode(&body))
		assert.Equal("Amy", body["username"])
		assert.Equal("secret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Login successful"}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)

	message, err := client.Login(context.Background(), "Amy", "secret")
	assert.Nil(err)
	assert.Equal("Login successful", message)
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := api.NewClient(server.URL)

	_, err := client.Login(context.Background(), "Amy", "wrong")
	assert.ErrorIs(err, api.ErrAuth)
}

func TestLoginServerUnreachable(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	client := api.NewClient("http://127.0.0.1:1")

	_, err := client.Login(context.Background(), "Amy", "secret")
	assert.ErrorIs(err, api.ErrAuth)
}

func TestFetchTasks(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/fetch-tasks", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"name_of_staff":"Amy","title":"inventory","content_of_task":"count things","date":"2024-01-05","status":"In Progress"},
			{"id":2,"name_of_staff":"Bob","title":"audit","content_of_task":"check things","date":"2024-01-06","status":"Done"}
		]`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)

	tasks, err := client.FetchTasks(context.Background())
	assert.Nil(err)
	assert.Len(tasks, 2)
	assert.Equal("Amy", tasks[0].NameOfStaff)
	assert.Equal("Done", tasks[1].Status)
}

func TestFetchTasksDropsMalformedRecords(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// the second record has no id, the third no staff name
		_, _ = w.Write([]byte(`[
			{"id":1,"name_of_staff":"Amy","title":"ok","status":"Done"},
			{"name_of_staff":"Bob","title":"no id"},
			{"id":3,"title":"no owner"}
		]`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)

	tasks, err := client.FetchTasks(context.Background())
	assert.Nil(err)
	assert.Len(tasks, 1)
	assert.Equal(1, tasks[0].ID)
}

func TestFetchTasksServerError(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := api.NewClient(server.URL)

	tasks, err := client.FetchTasks(context.Background())
	assert.ErrorIs(err, api.ErrFetch)
	assert.Nil(tasks)
}

func TestFetchReports(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/fetch-reports", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"author_name":"Amy","report_title":"week 1","report_content":"all fine","submission_date":"2024-01-05"},
			{"report_title":"anonymous","report_content":"dropped"}
		]`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)

	reports, err := client.FetchReports(context.Background())
	assert.Nil(err)
	assert.Len(reports, 1)
	assert.Equal("Amy", reports[0].AuthorName)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPut, r.Method)
		assert.Equal("/update-status/7", r.URL.Path)

		var body map[string]string
		assert.Nil(json.NewDecoder(r.Body).Decode(&body))
		assert.Equal("Done", body["new_status"])

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := api.NewClient(server.URL)

	assert.Nil(client.UpdateStatus(context.Background(), 7, "Done"))
}

func TestUpdateStatusRejected(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := api.NewClient(server.URL)

	err := client.UpdateStatus(context.Background(), 7, "Done")
	assert.ErrorIs(err, api.ErrUpdate)
}

func TestSubmitReport(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		assert.Equal("/submit-report", r.URL.Path)

		var report api.Report
		assert.Nil(json.NewDecoder(r.Body).Decode(&report))
		assert.Equal("Amy", report.AuthorName)

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := api.NewClient(server.URL)

	err := client.SubmitReport(context.Background(), api.Report{
		AuthorName:     "Amy",
		ReportTitle:    "week 1",
		ReportContent:  "all fine",
		SubmissionDate: "2024-01-05",
	})
	assert.Nil(err)
}

func TestPreviewContentTruncation(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	long := strings.Repeat("x", 80)
	report := api.Report{ReportContent: long}

	preview := report.PreviewContent()
	assert.Equal(long[:50]+"...", preview)
	assert.Len(preview, 53)

	// the untruncated value stays on the record for the detail view
	assert.Equal(long, report.ReportContent)
}

func TestPreviewContentTruncatesMultiByteOnRuneBoundary(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	long := strings.Repeat("界", 80)
	report := api.Report{ReportContent: long}

	preview := report.PreviewContent()
	assert.True(utf8.ValidString(preview))
	assert.Equal(strings.Repeat("界", 50)+"...", preview)
	assert.Equal(53, utf8.RuneCountInString(preview))
}

func TestPreviewContentMultiByteWithinLimitUnchanged(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	// 27 characters but 81 bytes; counting bytes would cut this mid-rune
	content := strings.Repeat("界", 27)
	report := api.Report{ReportContent: content}

	assert.Equal(content, report.PreviewContent())
}

func TestPreviewContentShortUnchanged(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	report := api.Report{ReportContent: "short"}
	assert.Equal("short", report.PreviewContent())
}

func TestPreviewContentExactBoundary(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	exact := strings.Repeat("y", 50)
	report := api.Report{ReportContent: exact}
	assert.Equal(exact, report.PreviewContent())
}

func TestValidStatus(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.True(api.ValidStatus(api.StatusInProgress))
	assert.True(api.ValidStatus(api.StatusDone))
	assert.False(api.ValidStatus(""))
	assert.False(api.ValidStatus("done"))
}
