package directory

import "errors"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// ManagerRoleLabel is what the directory listing shows in place of the
// department for managers.
const ManagerRoleLabel = "Manager"

var ErrEmployeeNotFound = errors.New("employee not found")

type Employee struct {
	ID          int64
	Name        string
	Email       string
	Department  string
	ManagerID   *int64
	PhoneNumber string
	PhotoURL    string
	Role        Role
}

// Entry is one row of the directory listing.
type Entry struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phone_number"`
	PhotoURL    string `json:"photo_url"`
	Role        string `json:"role"`
}

// Peer is an employee as seen by a colleague in the same department.
type Peer struct {
	EmployeeID  int64  `json:"employee_id"`
	Name        string `json:"name"`
	ManagerID   *int64 `json:"manager_id"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phone_number"`
	PhotoURL    string `json:"photo_url"`
}

func (e Employee) DisplayRole() string {
	if e.Role == RoleManager {
		return ManagerRoleLabel
	}
	return e.Department
}

func (e Employee) Entry() Entry {
	return Entry{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Department:  e.Department,
		PhoneNumber: e.PhoneNumber,
		PhotoURL:    e.PhotoURL,
		Role:        e.DisplayRole(),
	}
}

func (e Employee) Peer() Peer {
	return Peer{
		EmployeeID:  e.ID,
		Name:        e.Name,
		ManagerID:   e.ManagerID,
		Department:  e.Department,
		PhoneNumber: e.PhoneNumber,
		PhotoURL:    e.PhotoURL,
	}
}
