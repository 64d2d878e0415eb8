package mail

type LeadEmailData struct {
	Phone     string
	PhoneE164 string
	Source    string
	LeadID    string
	CreatedAt string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}
