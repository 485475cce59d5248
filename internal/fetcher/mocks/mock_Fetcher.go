// Package mocks provides test doubles for the fetcher package.
package mocks

import (
	"context"
	"io"

	mock "github.com/stretchr/testify/mock"
)

// MockFetcher is a mock type for the Fetcher interface.
type MockFetcher struct {
	mock.Mock
}

// MockFetcher_Expecter wraps MockFetcher for typed expectations.
type MockFetcher_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (_m *MockFetcher) EXPECT() *MockFetcher_Expecter {
	return &MockFetcher_Expecter{mock: &_m.Mock}
}

// DownloadIfChanged provides a mock function with given fields: ctx, url, etag
func (_m *MockFetcher) DownloadIfChanged(ctx context.Context, url string, etag string) (io.ReadCloser, string, bool, error) {
	ret := _m.Called(ctx, url, etag)

	if len(ret) == 0 {
		panic("no return value specified for DownloadIfChanged")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) (io.ReadCloser, string, bool, error)); ok {
		return rf(ctx, url, etag)
	}

	var r0 io.ReadCloser
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.ReadCloser)
	}
	return r0, ret.Get(1).(string), ret.Get(2).(bool), ret.Error(3)
}

// MockFetcher_DownloadIfChanged_Call is a *mock.Call for DownloadIfChanged.
type MockFetcher_DownloadIfChanged_Call struct {
	*mock.Call
}

// DownloadIfChanged is a helper method to define mock.On call
func (_e *MockFetcher_Expecter) DownloadIfChanged(ctx interface{}, url interface{}, etag interface{}) *MockFetcher_DownloadIfChanged_Call {
	return &MockFetcher_DownloadIfChanged_Call{Call: _e.mock.On("DownloadIfChanged", ctx, url, etag)}
}

func (_c *MockFetcher_DownloadIfChanged_Call) Run(run func(ctx context.Context, url string, etag string)) *MockFetcher_DownloadIfChanged_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(string))
	})
	return _c
}

func (_c *MockFetcher_DownloadIfChanged_Call) Return(body io.ReadCloser, etag string, changed bool, err error) *MockFetcher_DownloadIfChanged_Call {
	_c.Call.Return(body, etag, changed, err)
	return _c
}

// NewMockFetcher creates a new instance of MockFetcher.
func NewMockFetcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFetcher {
	mock := &MockFetcher{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
