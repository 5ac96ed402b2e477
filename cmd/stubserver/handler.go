package main

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// CredentialsDTO is the login/register request body.
type CredentialsDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateStatusDTO is the update-status request body.
type UpdateStatusDTO struct {
	NewStatus string `json:"new_status"`
}

// Login verifies the credentials and returns the message the real service
// sends on success.
func Login(c echo.Context) error {
	db := c.Get("db").(*sql.DB)

	var creds CredentialsDTO
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	var hash string

	row := db.QueryRow("SELECT password_hash FROM users WHERE username = ?", creds.Username)
	if err := row.Scan(&hash); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid username or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid username or password"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Login successful"})
}

// Register creates a staff account.
func Register(c echo.Context) error {
	db := c.Get("db").(*sql.DB)

	var creds CredentialsDTO
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	if creds.Username == "" || creds.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "username and password are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	if _, err := db.Exec("INSERT INTO users (username, password_hash) VALUES (?, ?)", creds.Username, string(hash)); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"message": "username already exists"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered"})
}

// FetchReports returns every report.
func FetchReports(c echo.Context) error {
	db := c.Get("db").(*sql.DB)

	rows, err := db.Query("SELECT author_name, report_title, report_content, submission_date FROM reports ORDER BY id")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	defer rows.Close()

	reports := []api.Report{}

	for rows.Next() {
		var r api.Report
		if err := rows.Scan(&r.AuthorName, &r.ReportTitle, &r.ReportContent, &r.SubmissionDate); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
		}

		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	return c.JSON(http.StatusOK, reports)
}

// FetchTasks returns every task.
func FetchTasks(c echo.Context) error {
	db := c.Get("db").(*sql.DB)

	rows, err := db.Query("SELECT id, name_of_staff, title, content_of_task, date, status FROM tasks ORDER BY id")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	defer rows.Close()

	tasks := []api.Task{}

	for rows.Next() {
		var t api.Task
		if err := rows.Scan(&t.ID, &t.NameOfStaff, &t.Title, &t.Content, &t.Date, &t.Status); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	return c.JSON(http.StatusOK, tasks)
}

// UpdateStatus moves a task to a new status.
func UpdateStatus(c echo.Context) error {
	db := c.Get("db").(*sql.DB)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid task id"})
	}

	var body UpdateStatusDTO
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	if !api.ValidStatus(body.NewStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
	}

	result, err := db.Exec("UPDATE tasks SET status = ? WHERE id = ?", body.NewStatus, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	if affected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "task not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Status updated"})
}

// SubmitReport stores a new report.
func SubmitReport(c echo.Context) error {
	db := c.Get("db").(*sql.DB)

	var r api.Report
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	if r.AuthorName == "" || r.ReportTitle == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "author_name and report_title are required"})
	}

	_, err := db.Exec(
		"INSERT INTO reports (author_name, report_title, report_content, submission_date) VALUES (?, ?, ?, ?)",
		r.AuthorName, r.ReportTitle, r.ReportContent, r.SubmissionDate,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Report submitted"})
}

// SubmitTask stores a new task.
func SubmitTask(c echo.Context) error {
	db := c.Get("db").(*sql.DB)

	var t api.Task
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	if t.NameOfStaff == "" || t.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name_of_staff and title are required"})
	}

	if t.Status == "" {
		t.Status = api.StatusInProgress
	}

	_, err := db.Exec(
		"INSERT INTO tasks (name_of_staff, title, content_of_task, date, status) VALUES (?, ?, ?, ?, ?)",
		t.NameOfStaff, t.Title, t.Content, t.Date, t.Status,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Task submitted"})
}
