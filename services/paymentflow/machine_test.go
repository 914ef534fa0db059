package paymentflow

import (
	"testing"

	"talim/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideApprovalEdge(t *testing.T) {
	out, err := Decide(models.PaymentStatusPending, models.PaymentStatusApproved)
	require.NoError(t, err)

	assert.True(t, out.Changed)
	assert.Equal(t, models.PaymentStatusApproved, out.Next)
	assert.Equal(t, []Effect{
		EffectGrantAccess,
		EffectInitProgress,
		EffectBroadcastAccess,
		EffectNotifyApproval,
	}, out.Effects)
}

func TestDecideRejectionEdge(t *testing.T) {
	out, err := Decide(models.PaymentStatusPending, models.PaymentStatusRejected)
	require.NoError(t, err)

	assert.True(t, out.Changed)
	assert.Equal(t, models.PaymentStatusRejected, out.Next)
	assert.Equal(t, []Effect{EffectNotifyRejection}, out.Effects)
}

func TestDecideSameStatusIsNoOp(t *testing.T) {
	for _, status := range []string{
		models.PaymentStatusPending,
		models.PaymentStatusApproved,
		models.PaymentStatusRejected,
	} {
		out, err := Decide(status, status)
		require.NoError(t, err)

		assert.False(t, out.Changed, "re-applying %s must not change anything", status)
		assert.Equal(t, status, out.Next)
		assert.Empty(t, out.Effects)
	}
}

func TestDecideInvalidTarget(t *testing.T) {
	for _, requested := range []string{"", "paid", "APPROVED", models.PaymentStatusRefunded} {
		_, err := Decide(models.PaymentStatusPending, requested)
		assert.ErrorIs(t, err, ErrInvalidStatus, "requested=%q", requested)
	}
}

func TestDecideReapprovalAfterRejection(t *testing.T) {
	// An admin may reverse a rejection; the full approval chain fires because
	// the status genuinely changes.
	out, err := Decide(models.PaymentStatusRejected, models.PaymentStatusApproved)
	require.NoError(t, err)

	assert.True(t, out.Changed)
	assert.Contains(t, out.Effects, EffectGrantAccess)
	assert.Contains(t, out.Effects, EffectNotifyApproval)
}

func TestDecideBackToPendingHasNoEffects(t *testing.T) {
	out, err := Decide(models.PaymentStatusRejected, models.PaymentStatusPending)
	require.NoError(t, err)

	assert.True(t, out.Changed)
	assert.Empty(t, out.Effects)
}
