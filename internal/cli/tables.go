package cli

import (
	"fmt"
	"strings"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// RenderProjectsTable renders clustered project records for terminal display.
func RenderProjectsTable(records []model.ProjectRecord) string {
	if len(records) == 0 {
		return SubtleStyle.Render("No project requests recorded.")
	}

	var sb strings.Builder
	sb.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-20s %-15s %-20s %-8s %-22s", "PROJECT", "SECTOR", "AREA", "COUNT", "LOCATION")))
	sb.WriteString("\n")

	for _, r := range records {
		loc := fmt.Sprintf("%.5f, %.5f", r.Location.Lat, r.Location.Lon)
		sb.WriteString(TableCellStyle.Render(fmt.Sprintf("%-20s %-15s %-20s %-8d %-22s", truncate(r.Name, 20), r.Sector, truncate(r.Area, 20), r.Count, loc)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderRankingTable renders the priority ranking for terminal display.
func RenderRankingTable(ranking model.PrioritizedProjects) string {
	if len(ranking) == 0 {
		return SubtleStyle.Render("No project plans ranked yet.")
	}

	var sb strings.Builder
	sb.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-5s %-25s %-15s %-10s", "RANK", "PROJECT", "CATEGORY", "PRIORITY")))
	sb.WriteString("\n")

	for _, p := range ranking {
		row := fmt.Sprintf("%-5d %-25s %-15s %-10.4f", p.Rank, truncate(p.Name, 25), p.Category, p.Priority)
		if p.Rank == 1 {
			row = BoldStyle.Render(row)
		}
		sb.WriteString(TableCellStyle.Render(row))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderFundSummary renders the ledger balance for terminal display.
func RenderFundSummary(usage model.FundUsage, transactions []model.FundTransaction) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:     %s\n", formatAmount(usage.Total)))
	sb.WriteString(fmt.Sprintf("Used:      %s\n", formatAmount(usage.Used)))
	sb.WriteString(fmt.Sprintf("Remaining: %s\n", BoldStyle.Render(formatAmount(usage.Remaining))))

	if len(transactions) > 0 {
		sb.WriteString("\n")
		sb.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-20s %-20s %-15s", "AUTHORITY", "PROJECT TYPE", "AMOUNT")))
		sb.WriteString("\n")
		for _, txn := range transactions {
			sb.WriteString(TableCellStyle.Render(fmt.Sprintf("%-20s %-20s %-15s", truncate(txn.Authority, 20), truncate(txn.ProjectType, 20), formatAmount(txn.Amount))))
			sb.WriteString("\n")
		}
	}

	return RenderBox(FundIcon+" Constituency Fund", strings.TrimRight(sb.String(), "\n"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatAmount(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}
