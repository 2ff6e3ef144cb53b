package domain

import "time"

// CertificateStatus is the persisted status flag on a certificate. It is
// distinct from the derived temporal tiers (expiring soon, expired) computed
// from the expiry date at read time.
type CertificateStatus string

const (
	CertificateActive   CertificateStatus = "active"
	CertificateArchived CertificateStatus = "archived"
)

// EmployeeStatus mirrors CertificateStatus. Archived employees keep the flag
// in the record itself rather than in a separate archived-id set.
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeArchived EmployeeStatus = "archived"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCancelled ProjectStatus = "cancelled"
)

// ValidProjectStatus reports whether s is one of the persisted project states.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold, ProjectCancelled:
		return true
	}
	return false
}

// Certificate belongs to exactly one employee. Dates are ISO calendar dates
// ("2006-01-02") with no time component; empty means absent.
type Certificate struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Issuer     string            `json:"issuer,omitempty"`
	Number     string            `json:"number,omitempty"`
	IssueDate  string            `json:"issue_date,omitempty"`
	ExpiryDate string            `json:"expiry_date,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Status     CertificateStatus `json:"status"`
}

// Employee is a root entity. Certificates is always non-nil, most recent
// first by insertion convention.
type Employee struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Status       EmployeeStatus `json:"status"`
	Certificates []Certificate  `json:"certificates"`
}

// ProjectMember is a weak reference to an employee. Deleting the employee
// does not remove the membership; consumers resolve the id lazily and treat
// an unresolvable id as an unknown member.
type ProjectMember struct {
	EmployeeID string    `json:"employee_id"`
	AddedAt    time.Time `json:"added_at"`
}

type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Customer    string          `json:"customer,omitempty"`
	Location    string          `json:"location,omitempty"`
	StartDate   string          `json:"start_date,omitempty"`
	EndDate     string          `json:"end_date,omitempty"`
	Status      ProjectStatus   `json:"status"`
	Description string          `json:"description,omitempty"`
	Members     []ProjectMember `json:"members"`
}

// Closed reports whether the project is in any non-active state. The
// dashboard only distinguishes active/closed.
func (p Project) Closed() bool {
	return p.Status != ProjectActive
}

// MemberOf reports whether employeeID is already among the project members.
func (p Project) MemberOf(employeeID string) bool {
	for _, m := range p.Members {
		if m.EmployeeID == employeeID {
			return true
		}
	}
	return false
}
