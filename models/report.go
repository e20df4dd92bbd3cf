package models

import (
	"context"
	"sort"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// MonthFlow is one month of the net-balance report: money in from client
// payments against money out through expenses and net salaries, with staff
// advances tracked separately (an advance is a loan, not a cost).
type MonthFlow struct {
	Month             string          `json:"month"` // YYYY-MM
	ClientPayments    decimal.Decimal `json:"client_payments"`
	Expenses          decimal.Decimal `json:"expenses"`
	SalariesNet       decimal.Decimal `json:"salaries_net"`
	AdvancesGiven     decimal.Decimal `json:"advances_given"`
	AdvancesRecovered decimal.Decimal `json:"advances_recovered"`
	Inflows           decimal.Decimal `json:"inflows"`
	Outflows          decimal.Decimal `json:"outflows"`
	Net               decimal.Decimal `json:"net"`
}

type monthTotal struct {
	Month string
	Total decimal.Decimal
}

func sumByMonth(ctx context.Context, table string, dateColumn string, sumColumn string, extraWhere string, month string) (map[string]decimal.Decimal, error) {
	db := config.GetDB()
	query := "SELECT DATE_FORMAT(" + dateColumn + ", '%Y-%m') AS month, SUM(" + sumColumn + ") AS total FROM " + table
	where := ""
	args := []interface{}{}
	if extraWhere != "" {
		where = " WHERE " + extraWhere
	}
	if month != "" {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += "DATE_FORMAT(" + dateColumn + ", '%Y-%m') = ?"
		args = append(args, month)
	}
	query += where + " GROUP BY month"

	var rows []monthTotal
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		out[r.Month] = r.Total
	}
	return out, nil
}

// NetBalanceReport aggregates per-month flows, optionally restricted to one
// YYYY-MM month.
func NetBalanceReport(ctx context.Context, month string) ([]MonthFlow, error) {
	payments, err := sumByMonth(ctx, "payments", "date", "amount", "", month)
	if err != nil {
		return nil, err
	}
	expenses, err := sumByMonth(ctx, "expenses", "date", "amount", "", month)
	if err != nil {
		return nil, err
	}
	salaries, err := sumByMonth(ctx, "salary_payments", "paid_on", "net_pay", "", month)
	if err != nil {
		return nil, err
	}
	advancesGiven, err := sumByMonth(ctx, "ledger_entries", "date", "amount",
		"account_kind = 'STAFF' AND type = 'DEBIT' AND ref_type = 'ADVANCE'", month)
	if err != nil {
		return nil, err
	}
	advancesRecovered, err := sumByMonth(ctx, "ledger_entries", "date", "amount",
		"account_kind = 'STAFF' AND type = 'CREDIT' AND ref_type = 'RECOVERY'", month)
	if err != nil {
		return nil, err
	}

	monthsSet := map[string]bool{}
	for _, m := range []map[string]decimal.Decimal{payments, expenses, salaries, advancesGiven, advancesRecovered} {
		for k := range m {
			monthsSet[k] = true
		}
	}
	months := make([]string, 0, len(monthsSet))
	for k := range monthsSet {
		months = append(months, k)
	}
	sort.Strings(months)

	report := make([]MonthFlow, 0, len(months))
	for _, m := range months {
		inflows := payments[m]
		outflows := expenses[m].Add(salaries[m])
		report = append(report, MonthFlow{
			Month:             m,
			ClientPayments:    payments[m],
			Expenses:          expenses[m],
			SalariesNet:       salaries[m],
			AdvancesGiven:     advancesGiven[m],
			AdvancesRecovered: advancesRecovered[m],
			Inflows:           inflows,
			Outflows:          outflows,
			Net:               inflows.Sub(outflows),
		})
	}
	return report, nil
}

// ExportNetBalanceXLSX writes the report as a spreadsheet.
func ExportNetBalanceXLSX(report []MonthFlow, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Net Balance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Month", "Client Payments", "Expenses", "Salaries (Net)", "Advances Given", "Advances Recovered", "Inflows", "Outflows", "Net"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for rowIdx, row := range report {
		values := []interface{}{
			row.Month,
			row.ClientPayments.InexactFloat64(),
			row.Expenses.InexactFloat64(),
			row.SalariesNet.InexactFloat64(),
			row.AdvancesGiven.InexactFloat64(),
			row.AdvancesRecovered.InexactFloat64(),
			row.Inflows.InexactFloat64(),
			row.Outflows.InexactFloat64(),
			row.Net.InexactFloat64(),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}
