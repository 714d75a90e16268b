package notify

import "context"

// SenderMock records sends for tests and fails on demand
type SenderMock struct {
	Sent []Message
	Err  error
}

// Send appends to Sent unless Err is set
func (m *SenderMock) Send(_ context.Context, msg Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}
