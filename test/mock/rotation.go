// test/mock/rotation.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
)

// MockRotationEvaluator is a mock implementation of engine.RotationEvaluator
type MockRotationEvaluator struct {
	mock.Mock
}

func (m *MockRotationEvaluator) EvaluateRotationStatus(ctx context.Context, badgeID string, asOf time.Time) (model.RotationStatus, error) {
	args := m.Called(ctx, badgeID, asOf)
	status, _ := args.Get(0).(model.RotationStatus)
	return status, args.Error(1)
}
