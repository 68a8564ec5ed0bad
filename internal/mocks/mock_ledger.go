package mocks

import (
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) CreateTicket(req domain.BookingRequest) (domain.Ticket, error) {
	args := m.Called(req)
	return args.Get(0).(domain.Ticket), args.Error(1)
}

func (m *MockLedger) GetTicket(id string) (domain.Ticket, error) {
	args := m.Called(id)
	return args.Get(0).(domain.Ticket), args.Error(1)
}

func (m *MockLedger) CancelTicket(id string) (domain.Ticket, error) {
	args := m.Called(id)
	return args.Get(0).(domain.Ticket), args.Error(1)
}

func (m *MockLedger) ListTickets() []domain.Ticket {
	args := m.Called()
	return args.Get(0).([]domain.Ticket)
}

func (m *MockLedger) ListByPopularity() []domain.Movie {
	args := m.Called()
	return args.Get(0).([]domain.Movie)
}

func (m *MockLedger) Count() int {
	args := m.Called()
	return args.Int(0)
}
