package checks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	clocktesting "k8s.io/utils/clock/testing"
)

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(_ context.Context, provider string) error {
	return m.Called(provider).Error(0)
}

func TestCheckUpstream(t *testing.T) {
	pinger := new(mockPinger)
	pinger.On("Ping", "codeforces").Return(nil)
	pinger.On("Ping", "codechef").Return(errors.New("fetch codechef: status 503"))

	clk := clocktesting.NewFakePassiveClock(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))
	results := CheckUpstream(context.Background(), pinger, []string{"codeforces", "codechef"}, clk)

	assert.Equal(t, []ProviderStatus{
		{Provider: "codeforces", Reachable: true},
		{Provider: "codechef", Error: "fetch codechef: status 503"},
	}, results)
	pinger.AssertExpectations(t)
}

func TestCheckUpstream_NoProviders(t *testing.T) {
	results := CheckUpstream(context.Background(), new(mockPinger), nil, clocktesting.NewFakePassiveClock(time.Now()))
	assert.Empty(t, results)
}
