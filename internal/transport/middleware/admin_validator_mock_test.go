package middleware

import (
	"sync"
)

var _ adminValidator = &adminValidatorMock{}

type adminValidatorMock struct {
	ValidateAdminTokenFunc func(token string) (string, error)

	calls struct {
		ValidateAdminToken []struct {
			Token string
		}
	}
	lockValidateAdminToken sync.RWMutex
}

func (mock *adminValidatorMock) ValidateAdminToken(token string) (string, error) {
	if mock.ValidateAdminTokenFunc == nil {
		panic("adminValidatorMock.ValidateAdminTokenFunc: method is nil but adminValidator.ValidateAdminToken was just called")
	}
	callInfo := struct {
		Token string
	}{Token: token}
	mock.lockValidateAdminToken.Lock()
	mock.calls.ValidateAdminToken = append(mock.calls.ValidateAdminToken, callInfo)
	mock.lockValidateAdminToken.Unlock()
	return mock.ValidateAdminTokenFunc(token)
}

func (mock *adminValidatorMock) ValidateAdminTokenCalls() []struct {
	Token string
} {
	mock.lockValidateAdminToken.RLock()
	calls := mock.calls.ValidateAdminToken
	mock.lockValidateAdminToken.RUnlock()
	return calls
}
