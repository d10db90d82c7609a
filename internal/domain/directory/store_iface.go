package directory

import "context"

type StoreAPI interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	DepartmentByEmail(ctx context.Context, email string) (string, error)
	ListByDepartment(ctx context.Context, department string) ([]Employee, error)
}
