package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationMessage(t *testing.T) {
	msg, err := VerificationMessage("ana@x.com", "042517", 5*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "ana@x.com", msg.To)
	assert.Equal(t, verificationSubject, msg.Subject)
	assert.Contains(t, msg.HTML, "042517")
	assert.Contains(t, msg.HTML, "5 minutos")
}

func TestVerificationMessage_EscapaHTML(t *testing.T) {
	msg, err := VerificationMessage("ana@x.com", "<b>1</b>", time.Minute)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<b>1</b>")
}

func TestLogSender_NoFalla(t *testing.T) {
	s := NewLogSender(nil)
	assert.NoError(t, s.Send(context.Background(), Message{To: "ana@x.com", Subject: "x"}))
}
