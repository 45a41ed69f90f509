package chatsvc

import "context"

type serviceMock struct {
	reply string
}

// NewServiceMock returns a Service that always answers with reply.
func NewServiceMock(reply string) Service {
	return &serviceMock{reply: reply}
}

func (svc *serviceMock) Ask(_ context.Context, _ string) (string, error) {
	return svc.reply, nil
}
