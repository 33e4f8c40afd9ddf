package duplicate

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Background(lipgloss.Color("7"))
	ignoredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

// Print writes every group as a commented block of potential duplicates.
// Postings carrying ignoredTag are flagged so that the reader knows which one was reviewed.
func Print(w io.Writer, ignoredTag string, groups []Group) error {
	for _, g := range groups {
		if err := printGroup(w, ignoredTag, g); err != nil {
			return err
		}
	}
	return nil
}

func printGroup(w io.Writer, ignoredTag string, g Group) error {
	if len(g) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s\n", headerStyle.Render("; Potential duplicates:")); err != nil {
		return err
	}
	for _, tx := range g {
		var tagIndicator string
		if tx.HasTag(ignoredTag) {
			tagIndicator = ignoredStyle.Render("[IGNORED]")
		}
		_, err := fmt.Fprintf(w, "(%d)\t%s %s\t\t\t%s\n\t\t%s\t\t\t%s\n",
			tx.Position, tx.Date.Format(dateLayout), tx.Payee, tagIndicator,
			tx.Account, tx.Amount.String())
		if err != nil {
			return err
		}
	}
	return nil
}
