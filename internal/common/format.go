package common

import (
	"fmt"
	"strconv"
	"strings"

	"banking-os-go/internal/models"
)

// DefaultWidth is the separator width of console reports
const DefaultWidth = 80

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintSeparatorNewline prints a separator with a newline before it
func PrintSeparatorNewline(char string, width int) {
	fmt.Println("\n" + strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(message string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// FormatGantt renders a scheduling report as a one-line Gantt chart followed by
// the average waiting time. Each slice is labelled T<account id>.
func FormatGantt(report *models.ScheduleReport) string {
	if report == nil {
		return "Gantt Chart: (no transactions)\n"
	}

	var b strings.Builder
	b.WriteString("Gantt Chart:\n")
	for i, slice := range report.Gantt {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "T%d [%d-%d]", slice.AccountId, slice.Start, slice.End)
	}
	fmt.Fprintf(&b, "\n\nAverage Waiting Time: %.2f\n", report.AverageWaitingTime)
	return b.String()
}

// FormatCache renders resident account ids in storage order.
func FormatCache(resident []int64) string {
	parts := make([]string, len(resident))
	for i, id := range resident {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "Memory (Pages): " + strings.Join(parts, " ")
}
