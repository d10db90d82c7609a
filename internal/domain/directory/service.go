package directory

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(employees))
	for _, emp := range employees {
		out = append(out, emp.Entry())
	}
	return out, nil
}

// Peers resolves the department of email and lists everyone in it, the
// employee included. The two reads are not atomic.
func (s *Service) Peers(ctx context.Context, email string) ([]Peer, error) {
	department, err := s.store.DepartmentByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	employees, err := s.store.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	out := make([]Peer, 0, len(employees))
	for _, emp := range employees {
		out = append(out, emp.Peer())
	}
	return out, nil
}
