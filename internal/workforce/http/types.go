package http

// Request bodies for the workforce API. Empty optional fields stay empty
// strings; dates are ISO calendar dates.

type createEmployeeReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
}

type updateEmployeeReq struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Phone  *string `json:"phone"`
	Status *string `json:"status"`
}

type updateCertificateReq struct {
	Name       *string `json:"name"`
	Issuer     *string `json:"issuer"`
	Number     *string `json:"number"`
	IssueDate  *string `json:"issue_date"`
	ExpiryDate *string `json:"expiry_date"`
	Notes      *string `json:"notes"`
}

type createCertificateReq struct {
	Name       string `json:"name"`
	Issuer     string `json:"issuer"`
	Number     string `json:"number"`
	IssueDate  string `json:"issue_date"`
	ExpiryDate string `json:"expiry_date"`
	Notes      string `json:"notes"`
}

type createProjectReq struct {
	Name        string `json:"name"`
	Customer    string `json:"customer"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type updateProjectReq struct {
	Name        *string `json:"name"`
	Customer    *string `json:"customer"`
	Location    *string `json:"location"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type setProjectStatusReq struct {
	Status string `json:"status"`
}

type addMemberReq struct {
	EmployeeID string `json:"employee_id"`
}

// bulkIDsReq carries bare entity ids (employees, projects).
type bulkIDsReq struct {
	IDs []string `json:"ids"`
}

// bulkKeysReq carries composite certificate row keys.
type bulkKeysReq struct {
	Keys []string `json:"keys"`
}
