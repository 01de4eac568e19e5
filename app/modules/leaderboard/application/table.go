package leaderboardservice

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
)

// WriteTable prints entries, in the given order, as an aligned text table.
func WriteTable(w io.Writer, entries []leaderboarddomain.PlayerEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, 0, len(leaderboarddomain.Columns)+1)
	header = append(header, "Name")
	for _, c := range leaderboarddomain.Columns {
		header = append(header, c.Label)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}

	for _, entry := range entries {
		cells := append([]string{entry.Name}, entry.Cells()...)
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}
