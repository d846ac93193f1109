package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisscruza/variantbox/internal/common/logger"
)

var _ OperatorNotifier = (*LogNotifier)(nil)

func TestLogNotifier_Notify(t *testing.T) {
	n := NewLogNotifier(logger.NewTestLogger(t))

	err := n.Notify(context.Background(), testRequest(), "Wool Sweater")

	require.NoError(t, err)
	assert.Equal(t, "log", n.Provider())
}
