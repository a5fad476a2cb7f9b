package ui

import (
	"fmt"
	"io"
)

// RenderActivityList writes groups as plain text: a header per day, then
// one indented line per activity.
func RenderActivityList(w io.Writer, groups []DateGroup) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "No activities.")
		return err
	}

	for i, g := range groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, g.Date); err != nil {
			return err
		}
		for _, a := range g.Activities {
			_, err := fmt.Fprintf(w, "  %s  %s [%s] %s, %s  (%s)\n",
				a.Date.UTC().Format("15:04"), a.Title, a.Category, a.Venue, a.City, a.ID)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
