// Command stubserver is a development stand-in for the production report
// service. It implements the endpoints the client consumes over a local
// sqlite file so the client can be exercised end to end without the real
// backend.
package main

import (
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	// use the sqlite db driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    author_name TEXT NOT NULL,
    report_title TEXT NOT NULL,
    report_content TEXT NOT NULL,
    submission_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name_of_staff TEXT NOT NULL,
    title TEXT NOT NULL,
    content_of_task TEXT NOT NULL,
    date TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'In Progress'
);
`

func main() {
	addr := pflag.String("addr", ":8080", "listen address")
	dbFile := pflag.String("db", "stubserver.sqlite", "sqlite database file")
	adminUser := pflag.String("admin-user", "Maclean", "seeded administrator username")
	adminPassword := pflag.String("admin-password", "maclean", "seeded administrator password")
	pflag.Parse()

	db, err := sql.Open("sqlite3", *dbFile)
	if err != nil {
		panic(fmt.Sprintf("failed to open database: %v", err))
	}
	defer db.Close()

	if _, err = db.Exec(schemaSQL); err != nil {
		panic(fmt.Sprintf("failed to create tables: %v", err))
	}

	if err = seedAdmin(db, *adminUser, *adminPassword); err != nil {
		panic(fmt.Sprintf("failed to seed admin user: %v", err))
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("db", db)

			return next(c)
		}
	})

	Route(e)

	e.Logger.Fatal(e.Start(*addr))
}

// seedAdmin creates the administrator account on first run so the client has
// something to log in as.
func seedAdmin(db *sql.DB, username, password string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count); err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec("INSERT INTO users (username, password_hash) VALUES (?, ?)", username, string(hash))

	return err
}

// Route registers all available routes.
func Route(e *echo.Echo) {
	e.POST("/login", Login)
	e.POST("/register", Register)
	e.GET("/fetch-reports", FetchReports)
	e.GET("/fetch-tasks", FetchTasks)
	e.PUT("/update-status/:id", UpdateStatus)
	e.POST("/submit-report", SubmitReport)
	e.POST("/submit-task", SubmitTask)
}
