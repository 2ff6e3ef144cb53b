// Package export serializes collections for CSV download. Column order is
// part of the external interface and must stay stable.
package export

import (
	"strconv"
	"strings"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/query"
)

// placeholder marks an absent value in single-record exports, so "no
// value" reads differently from an empty string in the file.
const placeholder = "—"

// Escape wraps a cell in double quotes, doubling internal quotes, when it
// contains a comma, newline or quote. Everything else passes through bare.
func Escape(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

func encodeRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = Escape(c)
	}
	return strings.Join(escaped, ",")
}

func encodeRows(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = encodeRow(r)
	}
	return strings.Join(lines, "\n")
}

// Employees renders the employee table export.
func Employees(list []domain.Employee) string {
	rows := [][]string{{"employee_id", "name", "email", "role", "phone", "cert_count"}}
	for _, e := range list {
		rows = append(rows, []string{
			e.ID,
			e.Name,
			e.Email,
			e.Role,
			e.Phone,
			strconv.Itoa(len(e.Certificates)),
		})
	}
	return encodeRows(rows)
}

// Certificates renders one row per certificate across the employee list.
// Newlines in notes are flattened to spaces so a note never breaks a row.
func Certificates(list []domain.Employee) string {
	rows := [][]string{{
		"employee_id", "employee_name", "certificate_id", "name",
		"issuer", "number", "issue_date", "expiry_date", "notes",
	}}
	for _, e := range list {
		for _, c := range e.Certificates {
			rows = append(rows, []string{
				e.ID,
				e.Name,
				c.ID,
				c.Name,
				c.Issuer,
				c.Number,
				c.IssueDate,
				c.ExpiryDate,
				flattenNewlines(c.Notes),
			})
		}
	}
	return encodeRows(rows)
}

// Projects renders the project table export.
func Projects(list []domain.Project) string {
	rows := [][]string{{
		"project_id", "name", "status", "customer", "location",
		"start_date", "end_date", "description",
	}}
	for _, p := range list {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			string(p.Status),
			p.Customer,
			p.Location,
			p.StartDate,
			p.EndDate,
			flattenNewlines(p.Description),
		})
	}
	return encodeRows(rows)
}

// CertificateRecord renders a single certificate in the vertical key/value
// layout used for one-record downloads. Absent values show the placeholder.
func CertificateRecord(r query.CertificateRow) string {
	c := r.Certificate
	rows := [][]string{
		{"Certificate ID", c.ID},
		{"Certificate name", c.Name},
		{"Issuer", orPlaceholder(c.Issuer)},
		{"Number", orPlaceholder(c.Number)},
		{"Issued", orPlaceholder(c.IssueDate)},
		{"Valid until", orPlaceholder(c.ExpiryDate)},
		{"Notes", orPlaceholder(c.Notes)},
		{"Employee", r.EmployeeName},
		{"Employee ID", r.EmployeeID},
	}
	return encodeRows(rows)
}

// EmployeeRecord renders a single employee in the vertical layout.
func EmployeeRecord(e domain.Employee) string {
	rows := [][]string{
		{"Employee ID", e.ID},
		{"Name", e.Name},
		{"Email", orPlaceholder(e.Email)},
		{"Role", orPlaceholder(e.Role)},
		{"Phone", orPlaceholder(e.Phone)},
		{"Certificates", strconv.Itoa(len(e.Certificates))},
	}
	return encodeRows(rows)
}

func orPlaceholder(v string) string {
	if v == "" {
		return placeholder
	}
	return v
}

func flattenNewlines(v string) string {
	v = strings.ReplaceAll(v, "\r\n", " ")
	return strings.ReplaceAll(v, "\n", " ")
}
