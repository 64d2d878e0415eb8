package kommo

type CreateLeadInput struct {
	ContactName string // shown in the CRM card
	Phone       string // E.164, used to find an existing contact
	Source      string // form label
	LeadID      string // our id, kept as the lead's external reference
}

type embeddedIDs struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}
