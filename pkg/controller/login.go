package controller

import (
	"errors"

	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	usernameMax = 50
	passwordMax = 100
)

// getLoginGrid builds the login page: username/password form plus a message
// line for auth failures.
func (c *Controller) getLoginGrid() *tview.Grid {
	c.loginStatus = tview.NewTextView().SetDynamicColors(true)

	c.loginForm = tview.NewForm().
		AddInputField("Username", c.session.RememberedName(), usernameMax, nil, nil).
		AddPasswordField("Password", "", passwordMax, '*', nil)

	c.usernameField, _ = c.loginForm.GetFormItemByLabel("Username").(*tview.InputField)
	c.passwordField, _ = c.loginForm.GetFormItemByLabel("Password").(*tview.InputField)

	c.loginForm.AddButton("Login", c.doLogin)
	c.loginForm.SetBorder(true).SetTitle(" Login ")

	grid := tview.NewGrid().SetRows(0, 1).SetColumns(0)

	grid.AddItem(c.loginForm, 0, 0, 1, 1, 0, 0, true)
	grid.AddItem(c.loginStatus, 1, 0, 1, 1, 0, 0, false)

	return grid
}

// doLogin runs the credential round-trip off the UI goroutine. The button is
// disabled while the request is outstanding so a second press cannot race the
// first; on failure the session is untouched and the message line says so.
func (c *Controller) doLogin() {
	username := c.usernameField.GetText()
	password := c.passwordField.GetText()

	if username == "" {
		c.loginStatus.SetText("[red]Please enter a username.")

		return
	}

	c.loginStatus.SetText("Logging in...")
	c.loginForm.GetButton(0).SetDisabled(true)

	go func() {
		identity, err := c.session.Login(c.ctx, username, password)

		c.app.QueueUpdateDraw(func() {
			c.loginForm.GetButton(0).SetDisabled(false)

			if err != nil {
				if errors.Is(err, api.ErrAuth) {
					c.loginStatus.SetText("[red]Login failed. Please check your credentials.")
				} else {
					c.loginStatus.SetText("[red]Login failed. Please try again.")
				}

				log.Warn().Err(err).Str("username", username).Msg("login failed")

				return
			}

			c.loginStatus.SetText("")
			c.passwordField.SetText("")
			c.routeAfterLogin(identity)
		})
	}()
}
