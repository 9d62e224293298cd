package app

import (
	"errors"

	"github.com/tickertop/tickertop/internal/alert"
)

// ErrSecureMode is returned when a state-mutating interaction is attempted
// while secure mode is on.
var ErrSecureMode = errors.New("disabled in secure mode")

// Alerts returns every configured alert.
func (a *App) Alerts() []alert.Alert {
	return a.alerts.All()
}

// AlertsForSymbol returns a symbol's alerts in insertion order.
func (a *App) AlertsForSymbol(symbol string) []alert.Alert {
	return a.alerts.ForSymbol(symbol)
}

// AddAlert registers a new alert.
func (a *App) AddAlert(al alert.Alert) error {
	if a.opts.SecureMode {
		return ErrSecureMode
	}
	a.alerts.Add(al)
	return nil
}

// RemoveAlert deletes the idx-th alert for the symbol.
func (a *App) RemoveAlert(symbol string, idx int) error {
	if a.opts.SecureMode {
		return ErrSecureMode
	}
	a.alerts.Remove(symbol, idx)
	return nil
}

// BeginAlertSetup starts the interactive alert flow for the highlighted
// symbol.
func (a *App) BeginAlertSetup() error {
	if a.opts.SecureMode {
		return ErrSecureMode
	}
	q, ok := a.SelectedQuote()
	if !ok {
		return errors.New("no symbol selected")
	}
	a.setup.Begin(q.Symbol)
	return nil
}

// AlertSetup exposes the in-progress alert flow to the presentation layer.
func (a *App) AlertSetup() *alert.Setup {
	return a.setup
}

// CommitAlertSetup finishes the flow and registers the alert.
func (a *App) CommitAlertSetup() error {
	al, err := a.setup.Commit()
	if err != nil {
		return err
	}
	return a.AddAlert(al)
}
