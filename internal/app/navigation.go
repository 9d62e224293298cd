package app

import "github.com/tickertop/tickertop/pkg/models"

// Selected returns the index of the highlighted row.
func (a *App) Selected() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.selected
}

// SelectedQuote returns the highlighted quote, if the table is non-empty.
func (a *App) SelectedQuote() (models.Quote, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.quotes) == 0 {
		return models.Quote{}, false
	}
	return a.quotes[a.selected], true
}

// SelectNext moves the highlight down one row, clamped to the last row.
func (a *App) SelectNext() {
	a.mu.Lock()
	if a.selected < len(a.quotes)-1 {
		a.selected++
	}
	a.mu.Unlock()
}

// SelectPrev moves the highlight up one row, clamped to the first row.
func (a *App) SelectPrev() {
	a.mu.Lock()
	if a.selected > 0 {
		a.selected--
	}
	a.mu.Unlock()
}

// SelectFirst jumps to the top of the table.
func (a *App) SelectFirst() {
	a.mu.Lock()
	a.selected = 0
	a.mu.Unlock()
}

// SelectLast jumps to the bottom of the table.
func (a *App) SelectLast() {
	a.mu.Lock()
	if n := len(a.quotes); n > 0 {
		a.selected = n - 1
	}
	a.mu.Unlock()
}

// clampSelectionLocked keeps the highlight inside the table after the quote
// set changes.
func (a *App) clampSelectionLocked() {
	if n := len(a.quotes); a.selected >= n {
		if n == 0 {
			a.selected = 0
		} else {
			a.selected = n - 1
		}
	}
}

// CurrentGroup returns the active group name, empty when showing all
// symbols.
func (a *App) CurrentGroup() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.groupIdx < 0 || a.groupIdx >= len(a.groupNames) {
		return ""
	}
	return a.groupNames[a.groupIdx]
}

// NextGroup cycles all -> first group -> ... -> last group -> all. Switching
// forces a refresh; symbols fetched within the cache TTL are served from
// cache instead of refetched.
func (a *App) NextGroup() {
	a.mu.Lock()
	if len(a.groupNames) > 0 {
		a.groupIdx++
		if a.groupIdx >= len(a.groupNames) {
			a.groupIdx = -1
		}
		a.selected = 0
	}
	a.mu.Unlock()
	a.sched.ForceRefresh()
}

// SortField returns the active sort column.
func (a *App) SortField() models.SortField {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sortField
}

// SortDirection returns the active sort direction.
func (a *App) SortDirection() models.SortDirection {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sortDirection
}

// SetSortField switches the sort column and re-sorts the table.
func (a *App) SetSortField(f models.SortField) {
	a.mu.Lock()
	a.sortField = f
	models.SortQuotes(a.quotes, a.sortField, a.sortDirection)
	a.mu.Unlock()
}

// CycleSortField advances to the next sort column and re-sorts.
func (a *App) CycleSortField() {
	a.mu.Lock()
	a.sortField = a.sortField.Next()
	models.SortQuotes(a.quotes, a.sortField, a.sortDirection)
	a.mu.Unlock()
}

// ToggleSortDirection flips ascending/descending and re-sorts.
func (a *App) ToggleSortDirection() {
	a.mu.Lock()
	a.sortDirection = a.sortDirection.Toggle()
	models.SortQuotes(a.quotes, a.sortField, a.sortDirection)
	a.mu.Unlock()
}
