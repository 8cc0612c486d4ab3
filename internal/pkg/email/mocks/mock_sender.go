package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(toEmail, subject, htmlBody string) error {
	args := m.Called(toEmail, subject, htmlBody)
	return args.Error(0)
}
