package interfaces

type Mailer interface {
	Send(to, subject, html string) error
}
