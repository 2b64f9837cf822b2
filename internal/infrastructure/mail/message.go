package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Message correo HTML listo para enviar.
type Message struct {
	To      string
	Subject string
	HTML    string
}

const verificationSubject = "Código de verificación"

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verificación de email</h2>
  <p>Use el siguiente código para completar su registro:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>El código es válido por {{.Minutes}} minutos.</p>
  <p style="font-size: 12px; color: #888;">Si usted no solicitó este código, ignore este mensaje.</p>
</body>
</html>`))

// VerificationMessage arma el correo con el código y su ventana de validez.
func VerificationMessage(to, code string, expiration time.Duration) (Message, error) {
	var buf bytes.Buffer
	data := struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(expiration.Minutes())}
	if err := verificationTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("plantilla de verificación: %w", err)
	}
	return Message{To: to, Subject: verificationSubject, HTML: buf.String()}, nil
}
