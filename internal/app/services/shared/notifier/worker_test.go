package notifier

import (
	"testing"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/drivers/mailer"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderEmail(t *testing.T) {
	notification := &contracts.AppointmentNotification{
		PatientName: "John Doe",
		DoctorName:  "Richard James",
		SlotDate:    "5_6_2025",
		SlotTime:    "10:00AM",
		RefundID:    "re_test_1",
	}

	cases := []struct {
		kind        string
		wantSubject string
		wantInBody  string
	}{
		{contracts.NotificationAppointmentBooked, "Complete your appointment payment", "complete the payment"},
		{contracts.NotificationAppointmentConfirmed, "Your appointment is confirmed", "confirmed"},
		{contracts.NotificationAppointmentRefunded, "Your appointment was cancelled and refunded", "re_test_1"},
		{contracts.NotificationAppointmentCancelled, "Your appointment was cancelled", "cancelled"},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			notification.Kind = tc.kind
			subject, body := renderEmail(notification)
			assert.Equal(t, tc.wantSubject, subject)
			assert.Contains(t, body, tc.wantInBody)
			assert.Contains(t, body, "John Doe")
		})
	}
}

func TestSendEmail(t *testing.T) {
	t.Run("missing recipient is skipped", func(t *testing.T) {
		worker := &Worker{Client: &mailer.SMTPClient{}, Log: zap.NewNop()}
		require.NoError(t, worker.sendEmail(&contracts.AppointmentNotification{
			Kind: contracts.NotificationAppointmentBooked,
		}))
	})

	t.Run("delivery failure surfaces as a server error", func(t *testing.T) {
		// Port 1 on loopback refuses the connection immediately.
		worker := &Worker{
			Client: &mailer.SMTPClient{Host: "127.0.0.1", Port: 1, EmailSender: "no-reply@mediq.local"},
			Log:    zap.NewNop(),
		}
		err := worker.sendEmail(&contracts.AppointmentNotification{
			Kind:         contracts.NotificationAppointmentBooked,
			PatientEmail: "john@example.test",
		})
		require.Error(t, err)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusInternalServerError, customErr.StatusCode)
	})
}
