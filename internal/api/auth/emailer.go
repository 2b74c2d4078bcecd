package auth

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendResetEmail mails the password reset link. Without SMTP configuration it
// only logs the link, which is enough for local development.
func SendResetEmail(to string, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", frontendBase(), token)

	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")

	if host == "" {
		fmt.Println("Reset link:", link)
		return nil
	}

	auth := smtp.PlainAuth("", from, password, host)

	subject := "Reset your EduStream password"
	body := fmt.Sprintf("Click the following link to reset your password:\n\n%s\n\nThe link expires in one hour.", link)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(host+":"+port, auth, from, []string{to}, message)
	if err != nil {
		fmt.Println("SMTP error:", err)
	}
	return err
}

func frontendBase() string {
	if base := os.Getenv("FRONTEND_URL"); base != "" {
		return base
	}
	return "http://localhost:5173"
}
